package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/rocketshoes/inventory-service/internal/config"
	inventoryhttp "github.com/fjod/rocketshoes/inventory-service/internal/http"
	"github.com/fjod/rocketshoes/inventory-service/internal/store"
	"github.com/fjod/rocketshoes/pkg/logger"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "inventory-service",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
	ctx := context.Background()

	// Create in-memory store
	memStore := store.NewMemoryStore()
	n, err := memStore.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		log.Error(ctx, "failed to seed inventory", err)
		os.Exit(1)
	}
	log.From(ctx).Info().Int("products", n).Str("seed", cfg.SeedFile).Msg("initialized inventory")

	handler := inventoryhttp.NewInventoryHandler(memStore, log)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(handler.Routes(), "inventory-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.From(ctx).Info().Str("port", cfg.Port).Msg("inventory service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "failed to serve", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down inventory service...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server forced to shutdown", err)
	}
	log.Info(ctx, "inventory service stopped")
}
