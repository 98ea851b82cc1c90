package middleware

import (
	"github.com/Gobusters/ectoinject"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	appcontext "github.com/karthikgoud24/NeoGarden-Enhanced/pkg/context"
)

// Context assigns the request id, honouring an inbound X-Request-Id, and stores the
// request metadata for the layers below. The id is echoed in the response headers.
// When containerID is set, that dependency container becomes the request's active one.
func Context(containerID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx := appcontext.WithRequestInfo(req.Context(), appcontext.RequestInfo{
				RequestID: requestID,
				Method:    req.Method,
				Route:     c.Path(),
				Path:      req.URL.Path,
				RemoteIP:  c.RealIP(),
				Origin:    req.Header.Get(echo.HeaderOrigin),
			})
			if containerID != "" {
				var err error
				ctx, err = ectoinject.SetActiveContainer(ctx, containerID)
				if err != nil {
					return err
				}
			}
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
