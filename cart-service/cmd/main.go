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

	"github.com/fjod/rocketshoes/cart-service/internal/cart"
	"github.com/fjod/rocketshoes/cart-service/internal/config"
	carthttp "github.com/fjod/rocketshoes/cart-service/internal/http"
	"github.com/fjod/rocketshoes/cart-service/internal/inventory"
	"github.com/fjod/rocketshoes/cart-service/internal/metrics"
	"github.com/fjod/rocketshoes/cart-service/internal/notify"
	"github.com/fjod/rocketshoes/cart-service/internal/store"
	"github.com/fjod/rocketshoes/pkg/circuitbreaker"
	"github.com/fjod/rocketshoes/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
		ServiceName: "cart-service",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := context.Background()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "cart service stopped with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	inv, err := inventory.NewClient(inventory.Options{
		BaseURL: cfg.Inventory.BaseURL,
		Timeout: cfg.Inventory.Timeout,
		Breaker: circuitbreaker.Settings{
			Name:             "inventory",
			FailureThreshold: cfg.Breaker.FailureThreshold,
			OpenTimeout:      cfg.Breaker.OpenTimeout,
			HalfOpenRequests: cfg.Breaker.HalfOpenRequests,
			OnStateChange: func(name, from, to string) {
				log.From(ctx).Warn().Str("breaker", name).Str("from", from).Str("to", to).Msg("circuit breaker state changed")
			},
		},
		Metrics: m,
	})
	if err != nil {
		return fmt.Errorf("create inventory client: %w", err)
	}
	log.From(ctx).Info().Str("base_url", cfg.Inventory.BaseURL).Msg("inventory client ready")

	notifier, closeNotifier := openNotifier(cfg, log)
	defer closeNotifier()

	registry := cart.NewRegistry(cart.RegistryOptions{
		Store:       st,
		Inventory:   inv,
		Notifier:    notifier,
		Metrics:     m,
		Logger:      log,
		MaxSessions: cfg.Session.CacheSize,
		IdleTTL:     cfg.Session.IdleTTL,
	})

	cartHandler := carthttp.NewCartHandler(carthttp.FromRegistry(registry), cfg.App.RequestTimeout, log)
	router := carthttp.NewRouter(carthttp.RouterOptions{
		Cart:    cartHandler,
		Logger:  log,
		Metrics: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      otelhttp.NewHandler(router, "cart-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.App.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.From(ctx).Info().Str("port", cfg.App.Port).Msg("cart service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Info(ctx, "shutting down cart service...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info(ctx, "cart service stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		client, err := store.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.From(ctx).Info().Str("addr", cfg.Redis.Addr).Msg("redis ping succeeded")
		return store.NewRedisStore(client), func() { _ = client.Close() }, nil

	case config.StoreMongo:
		db, err := store.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		log.From(ctx).Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.Client().Disconnect(disconnectCtx)
		}
		return store.NewMongoStore(db, cfg.Mongo.Collection), closeFn, nil

	default:
		log.Warn(ctx, "using in-memory cart store, carts are lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}
}

func openNotifier(cfg *config.Config, log *logger.Logger) (notify.Notifier, func()) {
	logNotifier := notify.NewLogNotifier(log)
	if cfg.Notifier.Backend != config.NotifierKafka {
		return logNotifier, func() {}
	}

	kafkaNotifier := notify.NewKafkaNotifier(log, cfg.Notifier.KafkaTopic, cfg.Notifier.KafkaBrokers...)
	closeFn := func() {
		if err := kafkaNotifier.Close(); err != nil {
			log.Error(context.Background(), "error closing kafka writer", err)
		}
	}
	return notify.Multi(logNotifier, kafkaNotifier), closeFn
}
