// Package metrics defines the Prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// HTTPRequestDuration tracks request latency by method, route and status
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route", "status"},
	)
)

// Redis operation metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Product cache metrics
var (
	// CacheHitsTotal tracks product cache hits by layer (memory/redis)
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_cache_hits_total",
			Help: "Product cache hits by layer",
		},
		[]string{"layer"},
	)

	// CacheMissesTotal tracks lookups that fell through to PostgreSQL
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "product_cache_misses_total",
			Help: "Product lookups that fell through to the database",
		},
	)

	// CacheInvalidationsTotal tracks cache evictions after writes
	CacheInvalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "product_cache_invalidations_total",
			Help: "Product cache invalidations triggered by writes",
		},
	)
)

// Idempotency metrics
var (
	// IdempotentReplaysTotal tracks creates answered from a stored record
	IdempotentReplaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idempotent_replays_total",
			Help: "Create requests answered by replaying a stored idempotency record",
		},
	)

	// IdempotencyConflictsTotal tracks keys reused with a different payload
	IdempotencyConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idempotency_conflicts_total",
			Help: "Idempotency keys reused with a different request payload",
		},
	)
)
