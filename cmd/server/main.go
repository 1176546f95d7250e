package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grachmannico95/donation-be/internal/config"
	"github.com/grachmannico95/donation-be/internal/domain"
	"github.com/grachmannico95/donation-be/internal/eventbus"
	"github.com/grachmannico95/donation-be/internal/gateway"
	"github.com/grachmannico95/donation-be/internal/handler"
	"github.com/grachmannico95/donation-be/internal/metrics"
	"github.com/grachmannico95/donation-be/internal/middleware"
	"github.com/grachmannico95/donation-be/internal/realtime"
	"github.com/grachmannico95/donation-be/internal/server"
	"github.com/grachmannico95/donation-be/internal/service"
	"github.com/grachmannico95/donation-be/internal/storage"
	"github.com/grachmannico95/donation-be/pkg/logger"
	"github.com/grachmannico95/donation-be/pkg/retry"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Logging.Level)
	defer log.Sync()

	ctx := context.Background()
	log.Info(ctx, "Starting application")

	if err := cfg.Validate(); err != nil {
		log.Fatal(ctx, "Invalid configuration", "error", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	repo, closeStore := openStore(ctx, cfg, log)
	log.Info(ctx, "Repository initialized", "driver", cfg.Store.Driver)

	hub := realtime.NewHub(realtime.HubConfig{
		SendTimeout:        cfg.Realtime.SendTimeout,
		MaxConcurrentSends: cfg.Realtime.MaxConcurrentSends,
	}, log, m)

	bus := eventbus.New(log, &eventbus.Config{
		ChannelBuffer: cfg.EventBus.ChannelBufferSize,
		MaxRetries:    cfg.Worker.MaxRetries,
	})

	notificationConsumer := eventbus.NewNotificationConsumer(hub, log, cfg.Worker.PoolSize)
	for _, eventType := range []eventbus.EventType{
		eventbus.EventTypeDonationCompleted,
		eventbus.EventTypeDonationFailed,
	} {
		if err := bus.Subscribe(eventType, notificationConsumer); err != nil {
			log.Fatal(ctx, "Failed to subscribe consumer",
				"event_type", eventType,
				"error", err,
			)
		}
	}

	if err := bus.Start(ctx); err != nil {
		log.Fatal(ctx, "Failed to start event bus", "error", err)
	}
	log.Info(ctx, "Event bus initialized", "worker_count", cfg.Worker.PoolSize)

	payhero := gateway.NewPayHeroClient(gateway.Config{
		URL:         cfg.Gateway.STKPushURL,
		Username:    cfg.Gateway.Username,
		Password:    cfg.Gateway.Password,
		CallbackURL: cfg.Gateway.CallbackURL,
		ChannelID:   cfg.Gateway.ChannelID,
		Provider:    cfg.Gateway.Provider,
		Timeout:     cfg.Gateway.Timeout,
	}, log)

	reconciler := service.NewReconciler(repo, log)
	donationService := service.NewDonationService(repo, payhero, reconciler, bus, m, log)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	sweeper := service.NewPendingSweeper(repo, bus, cfg.Reconcile.PendingExpiry, cfg.Reconcile.SweepInterval, m, log)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweeper.Run(sweepCtx)
	}()
	log.Info(ctx, "Services initialized")

	// HTTP initiations and websocket donations share one per-IP budget.
	limiter := middleware.NewRateLimitStore(cfg.RateLimit.InitiateRPS, cfg.RateLimit.InitiateBurst)

	handlers := server.Handlers{
		Donation: handler.NewDonationHandler(donationService, log),
		WebSocket: handler.NewWebSocketHandler(donationService, hub, handler.WebSocketConfig{
			AllowedOrigins: cfg.Realtime.AllowedOrigins,
			PingInterval:   cfg.Realtime.PingInterval,
			Limiter:        limiter,
		}, log),
		Health: handler.NewHealthHandler(hub.Len),
	}

	srv := server.New(cfg, log, handlers, m, registry, limiter)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(ctx, "Failed to start HTTP server", "error", err)
		}
	}()

	log.Info(ctx, "Application started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	// 1. Stop accepting new HTTP requests and callbacks
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "HTTP server shutdown error", "error", err)
	}

	// 2. Stop the expiry sweeper
	stopSweeper()
	<-sweepDone

	// 3. Stop notification workers after they flush queued outcomes
	if err := bus.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "Event bus shutdown error", "error", err)
	}

	// 4. Close the store
	if err := closeStore(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "Store shutdown error", "error", err)
	}

	log.Info(ctx, "Application stopped gracefully")
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (domain.Repository, func(context.Context) error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		return storage.NewMemoryStore(), func(context.Context) error { return nil }
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal(ctx, "Failed to create MongoDB client", "error", err)
	}

	err = retry.Do(connectCtx, func() error {
		return client.Ping(connectCtx, nil)
	}, retry.WithMaxAttempts(5), retry.WithBaseDelay(500*time.Millisecond))
	if err != nil {
		log.Fatal(ctx, "Failed to reach MongoDB", "error", err)
	}

	store := storage.NewMongoStore(client.Database(cfg.Mongo.Database))
	if err := store.EnsureIndexes(connectCtx); err != nil {
		log.Fatal(ctx, "Failed to create MongoDB indexes", "error", err)
	}
	log.Info(ctx, "Connected to MongoDB", "database", cfg.Mongo.Database)

	return store, client.Disconnect
}
