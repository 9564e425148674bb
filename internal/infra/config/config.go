package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env             string
	HTTPAddr        string
	ListingAPIURL   string
	BookingAPIURL   string
	APITimeout      time.Duration
	JWTSecret       string
	SessionStore    string
	SessionTTL      time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ShutdownTimeout time.Duration
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:           getEnv("APP_ENV", "dev"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		ListingAPIURL: os.Getenv("LISTING_API_URL"),
		BookingAPIURL: os.Getenv("BOOKING_API_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", "memory")),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	apiTimeout, err := parseDurationEnv("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.APITimeout = apiTimeout

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = sessionTTL

	shutdown, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout = shutdown

	redisDB, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB = redisDB

	if cfg.ListingAPIURL == "" {
		return Config{}, fmt.Errorf("LISTING_API_URL is required")
	}
	if cfg.BookingAPIURL == "" {
		return Config{}, fmt.Errorf("BOOKING_API_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.SessionStore {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("invalid SESSION_STORE %q: want memory or redis", cfg.SessionStore)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	var v int
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%d", &v); err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}
