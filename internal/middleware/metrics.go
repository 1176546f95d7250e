package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grachmannico95/donation-be/internal/metrics"
)

// Metrics records request counts and latency labelled by the registered
// route, falling back to the raw path when nothing matched.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			m.ObserveHTTP(
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
				time.Since(start).Seconds(),
			)

			return nil
		}
	}
}
