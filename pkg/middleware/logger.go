package middleware

import (
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	appcontext "github.com/karthikgoud24/NeoGarden-Enhanced/pkg/context"
)

// Logger writes one "Request" line per request after the error handler has rendered
// any handler error, so the logged status is the one the client received.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			info := appcontext.GetRequestInfo(req.Context())
			if info.RequestID == "" {
				info.RequestID = res.Header().Get(echo.HeaderXRequestID)
			}
			if info.Route == "" {
				info.Route = c.Path()
			}

			fields := info.Fields()
			fields["uri"] = req.RequestURI
			fields["status"] = res.Status
			fields["latency_ms"] = time.Since(start).Milliseconds()
			fields["bytes_in"] = req.ContentLength
			fields["bytes_out"] = res.Size
			fields["user_agent"] = req.UserAgent()

			entry := logger.WithContext(req.Context()).WithFields(fields)
			switch {
			case res.Status >= 500:
				entry.Warn("Request")
			default:
				entry.Info("Request")
			}
			return nil
		}
	}
}
