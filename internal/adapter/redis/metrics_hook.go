package redis

import (
	"context"
	"errors"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/NoDrammaCode/nodramma-back/internal/metrics"
)

// MetricsHook records per-command counters and latency for every Redis
// operation the client runs. Cache lookups that come back empty (redis.Nil)
// are counted as misses, not errors.
type MetricsHook struct{}

var _ goredis.Hook = (*MetricsHook)(nil)

func commandStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, goredis.Nil):
		return "miss"
	default:
		return "error"
	}
}

func recordCommand(operation string, start time.Time, err error) {
	metrics.RedisOpsTotal.WithLabelValues(operation, commandStatus(err)).Inc()
	metrics.RedisOpDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (h *MetricsHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			metrics.RedisConnectionErrors.Inc()
		}
		return conn, err
	}
}

func (h *MetricsHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		recordCommand(cmd.Name(), start, err)
		return err
	}
}

func (h *MetricsHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		// A pipeline counts as one operation regardless of batch size.
		start := time.Now()
		err := next(ctx, cmds)
		recordCommand("pipeline", start, err)
		return err
	}
}
