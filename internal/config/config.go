package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// RateLimitRPS limits requests per second per client IP. Zero disables limiting.
	RateLimitRPS float64 `env:"RATE_LIMIT_RPS" default:"20"`

	CacheTTL       time.Duration `env:"CACHE_TTL" default:"1h"`
	MemoryCacheTTL time.Duration `env:"MEMORY_CACHE_TTL" default:"10s"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" default:"24h"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	if cfg.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS must not be negative")
	}

	if cfg.CacheTTL <= 0 || cfg.MemoryCacheTTL <= 0 {
		return errors.New("cache TTLs must be positive")
	}
	if cfg.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be positive")
	}

	return nil
}
