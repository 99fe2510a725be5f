package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toy-catalog/internal/config"
	"toy-catalog/internal/database"
	grpcHandler "toy-catalog/internal/handler/grpc"
	handler "toy-catalog/internal/handler/http"
	"toy-catalog/internal/logger"
	"toy-catalog/internal/repository"
	"toy-catalog/internal/service"
	"toy-catalog/internal/telemetry"
	"toy-catalog/internal/version"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Instance().Error("Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	globalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.Instance()
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	logger.ConfigureRemote(cfg.RemoteLogHttpURI, cfg.AppName)

	log.Info(cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	shutdownTelemetry, err := telemetry.Init(globalCtx, log, telemetry.Config{
		AppName:      cfg.AppName,
		Env:          cfg.Env,
		OtelRPCURI:   cfg.RemoteTraceRpcURI,
		PyroscopeURI: cfg.RemoteProfilingHttpURI,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			log.Error("Error shutting down telemetry", slog.String("error", err.Error()))
		}
	}()

	db, err := database.Connect(globalCtx, log, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Error("Error closing MongoDB", slog.String("error", err.Error()))
		}
	}()

	// Wiring
	productRepo := repository.NewProductRepository(db.Database, cfg.MongoCollection)
	productService := service.NewProductService(productRepo)
	tokenService, err := service.NewTokenService(cfg.TokenSecret, service.DefaultTokenTTL)
	if err != nil {
		return err
	}
	healthService := service.NewHealthService(db.Client)

	router := handler.NewRouter(handler.RouterConfig{
		Products:       handler.NewProductHandler(productService),
		Auth:           handler.NewAuthHandler(tokenService),
		Health:         handler.NewHealthHandler(healthService),
		Verifier:       tokenService,
		CORSOrigin:     cfg.CORSOrigin,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info("HTTP server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var stopGRPC func()
	if cfg.GRPCHealthPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCHealthPort)
		if err != nil {
			return err
		}
		health := grpcHandler.NewHealthHandler(healthService, cfg.HealthInterval)
		grpcServer := grpcHandler.NewServer(health)
		go health.Run(globalCtx)
		go func() {
			log.Info("gRPC health server running", slog.String("port", cfg.GRPCHealthPort))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
		stopGRPC = grpcServer.GracefulStop
	}

	select {
	case <-globalCtx.Done():
		log.Info("Received shutdown signal")
	case err := <-errCh:
		cancel()
		return err
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if stopGRPC != nil {
		stopGRPC()
	}
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("HTTP server exited cleanly")
	return nil
}
