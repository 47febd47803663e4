package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheCounters(t *testing.T) {
	before := testutil.ToFloat64(CacheMissesTotal)
	CacheMissesTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CacheMissesTotal))

	beforeHits := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("memory"))
	CacheHitsTotal.WithLabelValues("memory").Inc()
	assert.Equal(t, beforeHits+1, testutil.ToFloat64(CacheHitsTotal.WithLabelValues("memory")))
}

func TestIdempotencyCounters(t *testing.T) {
	before := testutil.ToFloat64(IdempotentReplaysTotal)
	IdempotentReplaysTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(IdempotentReplaysTotal))

	beforeConflicts := testutil.ToFloat64(IdempotencyConflictsTotal)
	IdempotencyConflictsTotal.Inc()
	assert.Equal(t, beforeConflicts+1, testutil.ToFloat64(IdempotencyConflictsTotal))
}

func TestRedisOpCounters(t *testing.T) {
	before := testutil.ToFloat64(RedisOpsTotal.WithLabelValues("get", "success"))
	RedisOpsTotal.WithLabelValues("get", "success").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RedisOpsTotal.WithLabelValues("get", "success")))
}

func TestCircuitBreakerGauge(t *testing.T) {
	CircuitBreakerState.WithLabelValues("redis").Set(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("redis")))
}
