package middleware

import (
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	appcontext "github.com/karthikgoud24/NeoGarden-Enhanced/pkg/context"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
)

type ErrorResponse struct {
	Message   string         `json:"message"`
	RequestID string         `json:"request_id"`
	TraceID   string         `json:"trace_id"`
	Meta      map[string]any `json:"meta"`
}

// Error renders handler errors as ErrorResponse bodies. Client errors are logged at
// warn level, everything else at error level.
func Error(logger ectologger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		ctx := c.Request().Context()
		if c.Response().Committed {
			logger.WithContext(ctx).WithError(err).Error("error after response was committed")
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(http.StatusInternalServerError)
		meta := map[string]any{}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}

		if httperror.IsHTTPError(err) {
			httperr := httperror.ToHTTPError(err)
			code = httperror.GetStatusCode(err)
			message = httperr.Error()
			if httperr.Meta != nil {
				meta = httperr.Meta
			}
		}

		log := logger.WithContext(ctx).
			WithFields(appcontext.GetRequestInfo(ctx).Fields()).
			WithError(err).
			WithField("status", code)
		if code >= http.StatusInternalServerError {
			log.Error("api is returning an error")
		} else {
			log.Warn("api is returning an error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		_ = c.JSON(code, ErrorResponse{
			Message:   message,
			RequestID: appcontext.GetRequestID(ctx),
			TraceID:   tracing.GetTraceID(ctx),
			Meta:      meta,
		})
	}
}
