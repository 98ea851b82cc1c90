package middleware

import (
	"strconv"
	"time"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// Metrics counts handled requests by method, route template and status.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordHTTPRequest(c.Request().Method, route, strconv.Itoa(c.Response().Status), time.Since(start))
			return nil
		}
	}
}
