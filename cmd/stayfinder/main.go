package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisdriver "github.com/go-redis/redis/v8"

	"stayfinder/internal/app/session"
	"stayfinder/internal/infra/api"
	"stayfinder/internal/infra/config"
	ginserver "stayfinder/internal/infra/http/gin"
	"stayfinder/internal/infra/identity"
	"stayfinder/internal/infra/obs"
	"stayfinder/internal/infra/storage/memory"
	redisstore "stayfinder/internal/infra/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	if cfg.Env == "" {
		cfg.Env = env
	}

	app, ready, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: ready,
	}, app)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "session_store", cfg.SessionStore)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (ginserver.Handlers, func() error, error) {
	httpClient := &http.Client{Timeout: cfg.APITimeout}
	listingClient := &api.ListingClient{Client: httpClient, BaseURL: cfg.ListingAPIURL, Logger: logger}
	bookingClient := &api.BookingClient{Client: httpClient, BaseURL: cfg.BookingAPIURL, Logger: logger}

	store, ready, err := buildSessionStore(ctx, cfg, logger)
	if err != nil {
		return ginserver.Handlers{}, nil, err
	}

	svc := session.NewService(
		store,
		listingClient,
		bookingClient,
		identity.JWTResolver{Secret: []byte(cfg.JWTSecret)},
		logger,
	)

	return ginserver.Handlers{
		Listing: ginserver.ListingHandler{Listings: listingClient},
		Session: ginserver.SessionHandler{Service: svc},
	}, ready, nil
}

func buildSessionStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (session.Store, func() error, error) {
	switch cfg.SessionStore {
	case "redis":
		client := redisdriver.NewClient(&redisdriver.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, nil, err
		}
		logger.Info("redis session store connected", "addr", cfg.RedisAddr)
		return redisstore.NewSessionStore(client, cfg.SessionTTL), func() error {
			return client.Ping(context.Background()).Err()
		}, nil
	default:
		return memory.NewSessionStore(), func() error { return nil }, nil
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
