// Package redis provides the Redis client and the product read-through cache.
//
// The client is instrumented through go-redis hooks: MetricsHook records
// operation counts and latencies, CircuitBreakerHook sheds load when Redis
// misbehaves so product reads can fall back to PostgreSQL.
package redis
