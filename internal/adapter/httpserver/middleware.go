package httpserver

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NoDrammaCode/nodramma-back/internal/metrics"
)

// requestMetricsMiddleware records request duration per method/route/status.
// Uses the route pattern (e.g. /products/:id), not the raw path, to keep
// label cardinality bounded.
func requestMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Seconds()

			status := c.Response().Status
			metrics.HTTPRequestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Observe(duration)

			return err
		}
	}
}
