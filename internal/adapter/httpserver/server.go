// Package httpserver implements the HTTP API using the Echo framework.
//
// Handlers split by concern: handlers_products.go (CRUD surface),
// handlers_health.go (liveness/readiness/version). Routing lives in routes.go.
package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/NoDrammaCode/nodramma-back/internal/config"
	"github.com/NoDrammaCode/nodramma-back/internal/domain"
	apperrors "github.com/NoDrammaCode/nodramma-back/internal/errors"
)

// redisHealthChecker is a minimal interface for Redis health checks
type redisHealthChecker interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

// postgresHealthChecker is a minimal interface for PostgreSQL health checks
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       domain.ProductService
	db        postgresHealthChecker
	redis     redisHealthChecker
	startTime time.Time
}

// NewServer builds the Echo server with middleware and routes registered.
// redis may be nil when caching is disabled.
func NewServer(cfg *config.Config, app domain.ProductService, db postgresHealthChecker, redis redisHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(requestMetricsMiddleware())
	e.Use(apperrors.Middleware())

	if cfg.RateLimitRPS > 0 {
		// Fractional RPS would truncate to a zero burst, rejecting everything.
		burst := int(cfg.RateLimitRPS) * 2
		if burst < 1 {
			burst = 1
		}
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimitRPS),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			}),
		}))
	}

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		db:        db,
		redis:     redis,
		startTime: time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
