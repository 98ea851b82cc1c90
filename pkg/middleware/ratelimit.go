package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/metrics"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/redis"
	"github.com/labstack/echo/v4"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*redis.RateLimitResult, error)
}

// RateLimit allows each client IP limit requests per window on a route. When the
// limiter itself fails the request is let through.
func RateLimit(limiter RateLimiter, limit int64, window time.Duration, logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			route := c.Request().Method + " " + c.Path()
			key := route + ":" + c.RealIP()

			res, err := limiter.Allow(ctx, key, limit, window)
			if err != nil {
				logger.WithContext(ctx).WithError(err).Warnf("Rate limiter unavailable for %s", route)
				return next(c)
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			header.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))

			if !res.Allowed {
				retryIn := res.RetryIn
				if retryIn <= 0 {
					retryIn = window
				}
				header.Set("Retry-After", strconv.Itoa(int(math.Ceil(retryIn.Seconds()))))
				metrics.RecordRateLimitRejection(route)
				return httperror.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}
