package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewRateLimitStore returns a token bucket per client identifier, or nil when
// rps is not positive. One store can be shared by several entry points so
// they draw from the same budget.
func NewRateLimitStore(rps float64, burst int) echoMiddleware.RateLimiterStore {
	if rps <= 0 {
		return nil
	}
	return echoMiddleware.NewRateLimiterMemoryStoreWithConfig(echoMiddleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(rps),
		Burst: burst,
	})
}

// RateLimit rejects requests over the client IP's budget with 429. A nil
// store disables it.
func RateLimit(store echoMiddleware.RateLimiterStore) echo.MiddlewareFunc {
	if store == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return echoMiddleware.RateLimiterWithConfig(echoMiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"status":  "error",
				"message": "too many requests",
			})
		},
	})
}
