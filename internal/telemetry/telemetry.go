package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

type Config struct {
	AppName      string
	Env          string
	OtelRPCURI   string
	PyroscopeURI string
}

var pyroLogrus = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}()

// Init installs the global tracer provider and propagator and, when configured,
// starts the Pyroscope agent. The returned func flushes and stops both.
func Init(ctx context.Context, log *slog.Logger, cfg Config) (func(context.Context) error, error) {
	exp, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	env := cfg.Env
	if env == "" {
		env = "production"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.AppName),
			attribute.String("env", env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	var profiler *pyroscope.Profiler
	if cfg.PyroscopeURI != "" {
		profiler, err = pyroscope.Start(pyroscope.Config{
			ApplicationName: cfg.AppName,
			ServerAddress:   cfg.PyroscopeURI,
			Logger:          pyroLogrus,
		})
		if err != nil {
			log.Error("Pyroscope failed to start", slog.String("error", err.Error()))
		} else {
			log.Info("Pyroscope started successfully")
		}
	}

	if profiler != nil {
		otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp))
	} else {
		otel.SetTracerProvider(tp)
	}

	log.Info("OpenTelemetry Tracer initialized", slog.Bool("otlp", cfg.OtelRPCURI != ""))

	return func(ctx context.Context) error {
		var errs []error
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
		if profiler != nil {
			if err := profiler.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stop profiler: %w", err))
			}
		}
		return errors.Join(errs...)
	}, nil
}

// newExporter ships spans over OTLP gRPC, or prints them to stdout when no collector is set.
func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	if cfg.OtelRPCURI == "" {
		return stdouttrace.New()
	}
	return otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.OtelRPCURI),
		otlptracegrpc.WithCompressor("gzip"),
	)
}
