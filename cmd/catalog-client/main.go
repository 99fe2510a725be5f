package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toy-catalog/internal/client"
	"toy-catalog/internal/logger"
	"toy-catalog/internal/version"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type clientConfig struct {
	CatalogURL string `env:"CATALOG_URL,required" validate:"url"`
	Email      string `env:"CLIENT_EMAIL" envDefault:"smoke@example.com" validate:"email"`
	DelayMs    int    `env:"CLIENT_DELAY_MS" envDefault:"1000" validate:"gt=0"`
}

// catalog-client repeatedly exercises the public API: it pages the catalog,
// asks for a token and reads back the caller's own listings.
func main() {
	log := logger.Instance()
	_ = godotenv.Load()

	var cfg clientConfig
	if err := env.Parse(&cfg); err != nil {
		log.Error("error getting env configs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.New().Struct(cfg); err != nil {
		log.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	baseURL, email := cfg.CatalogURL, cfg.Email
	delay := time.Duration(cfg.DelayMs) * time.Millisecond

	log.Info("catalog-client",
		slog.String("version", version.Version),
		slog.String("target", baseURL),
		slog.Duration("delay", delay),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.NewCatalogClient(baseURL, 3*time.Second)
	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for {
		round(ctx, c, email)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func round(ctx context.Context, c *client.CatalogClient, email string) {
	total, err := c.Total(ctx)
	if err != nil {
		logger.Err(ctx, "Failed to count products", err)
		return
	}

	page, err := c.ListProducts(ctx, 1, 8)
	if err != nil {
		logger.Err(ctx, "Failed to list products", err)
		return
	}

	token, err := c.IssueToken(ctx, map[string]any{"email": email})
	if err != nil {
		logger.Err(ctx, "Failed to issue token", err)
		return
	}

	mine, err := c.MyListings(ctx, email, token)
	if err != nil {
		logger.Err(ctx, "Failed to fetch own listings", err)
		return
	}

	logger.Info(ctx, "Received products",
		slog.Int64("total", total),
		slog.Int("page", len(page)),
		slog.Int("mine", len(mine)),
	)
}
