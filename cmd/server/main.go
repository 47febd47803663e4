package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/NoDrammaCode/nodramma-back/internal/adapter/httpserver"
	"github.com/NoDrammaCode/nodramma-back/internal/adapter/postgres"
	"github.com/NoDrammaCode/nodramma-back/internal/adapter/redis"
	"github.com/NoDrammaCode/nodramma-back/internal/app"
	"github.com/NoDrammaCode/nodramma-back/internal/config"
	"github.com/NoDrammaCode/nodramma-back/internal/logging"
)

const (
	idempotencyCleanupInterval = 1 * time.Hour
	cacheEvictionInterval      = 1 * time.Minute
	shutdownTimeout            = 10 * time.Second
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

// startIdempotencyCleanup runs expired-record cleanup on a fixed interval
// until the returned stop function is called.
func startIdempotencyCleanup(appSvc *app.Service) func() {
	ticker := time.NewTicker(idempotencyCleanupInterval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := appSvc.CleanupExpiredIdempotencyKeys(ctx); err != nil {
					logging.WithError(err).Warn("Idempotency cleanup failed")
				}
				cancel()
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	productRepo := postgres.NewProductRepo(pool)
	idempotencyRepo := postgres.NewIdempotencyRepo(pool)

	// Redis is optional: without it reads go straight to the database.
	var redisClient *goredis.Client
	var appSvc *app.Service

	if cfg.RedisURL != "" {
		redisClient = setupRedis(context.Background(), cfg)
		defer func() { _ = redisClient.Close() }()

		cache := redis.NewProductCacheRepo(redisClient, productRepo, cfg.MemoryCacheTTL, cfg.CacheTTL, clock)
		stopEviction := cache.StartEvictionTimer(cacheEvictionInterval)
		defer stopEviction()

		appSvc = app.NewService(productRepo, idempotencyRepo, cache, cache, clock, cfg.IdempotencyTTL)
	} else {
		slog.Info("REDIS_URL not set, running without cache")
		appSvc = app.NewService(productRepo, idempotencyRepo, productRepo, nil, clock, cfg.IdempotencyTTL)
	}

	stopCleanup := startIdempotencyCleanup(appSvc)
	defer stopCleanup()

	// Pass nil explicitly to avoid a typed-nil interface in the health check.
	var srv *httpserver.Server
	if redisClient != nil {
		srv = httpserver.NewServer(cfg, appSvc, pool, redisClient)
	} else {
		srv = httpserver.NewServer(cfg, appSvc, pool, nil)
	}

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
