package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	appcontext "github.com/karthikgoud24/NeoGarden-Enhanced/pkg/context"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/di"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/metrics"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/redis"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho(t *testing.T) (*echo.Echo, *int32) {
	t.Helper()
	var logged int32
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {
		atomic.AddInt32(&logged, 1)
	})

	e := echo.New()
	e.HTTPErrorHandler = Error(logger)
	e.Use(Context(""))
	e.Use(Logger(logger))
	e.Use(Metrics())
	return e, &logged
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestContext_RequestID(t *testing.T) {
	e, _ := newTestEcho(t)
	var seen string
	e.GET("/ping", func(c echo.Context) error {
		seen = appcontext.GetRequestID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	rec := serve(e, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(echo.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", seen)
}

func TestContext_RequestInfo(t *testing.T) {
	e, _ := newTestEcho(t)
	var info appcontext.RequestInfo
	e.GET("/gardens/:id", func(c echo.Context) error {
		info = appcontext.GetRequestInfo(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/gardens/g-1", nil)
	req.Header.Set(echo.HeaderOrigin, "https://neogarden.app")
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, http.MethodGet, info.Method)
	assert.Equal(t, "/gardens/:id", info.Route)
	assert.Equal(t, "/gardens/g-1", info.Path)
	assert.Equal(t, "https://neogarden.app", info.Origin)
}

type greeter interface {
	Greet() string
}

type fixedGreeter string

func (g fixedGreeter) Greet() string { return string(g) }

func TestContext_ActiveContainer(t *testing.T) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	first, err := di.NewContainer("first", logger)
	require.NoError(t, err)
	require.NoError(t, di.Register[greeter](first, fixedGreeter("first")))
	second, err := di.NewContainer("second", logger)
	require.NoError(t, err)
	require.NoError(t, di.Register[greeter](second, fixedGreeter("second")))
	assert.NotEqual(t, first.GetContainerID(), second.GetContainerID())

	e := echo.New()
	e.Use(Context(second.GetContainerID()))
	var greeting string
	e.GET("/greet", func(c echo.Context) error {
		_, g, err := ectoinject.GetContext[greeter](c.Request().Context())
		if err != nil {
			return err
		}
		greeting = g.Greet()
		return c.NoContent(http.StatusNoContent)
	})

	rec := serve(e, http.MethodGet, "/greet")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "second", greeting)
}

func TestContext_UnknownContainer(t *testing.T) {
	e := echo.New()
	e.Use(Context("missing-container"))
	e.GET("/greet", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := serve(e, http.MethodGet, "/greet")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestError_RendersHTTPError(t *testing.T) {
	e, logged := newTestEcho(t)
	e.POST("/bad", func(c echo.Context) error {
		return httperror.NewHTTPError(http.StatusBadRequest, "field 'name' is required")
	})

	rec := serve(e, http.MethodPost, "/bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Contains(t, body.Message, "field 'name' is required")
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), body.RequestID)
	assert.NotNil(t, body.Meta)
	assert.GreaterOrEqual(t, atomic.LoadInt32(logged), int32(2))
}

func TestError_UnexpectedAndRouting(t *testing.T) {
	e, _ := newTestEcho(t)
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("connection refused")
	})

	rec := serve(e, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rec).Message)

	rec = serve(e, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	e, _ := newTestEcho(t)
	e.GET("/items/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Param("id"))
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "200")
	before := testutil.ToFloat64(counter)
	serve(e, http.MethodGet, "/items/1")
	serve(e, http.MethodGet, "/items/2")
	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

type fakeLimiter struct {
	res *redis.RateLimitResult
	err error
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (*redis.RateLimitResult, error) {
	return f.res, f.err
}

func TestRateLimit(t *testing.T) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	tests := []struct {
		name       string
		limiter    *fakeLimiter
		wantStatus int
		retryAfter string
	}{
		{"allowed", &fakeLimiter{res: &redis.RateLimitResult{Allowed: true, Remaining: 4}}, http.StatusCreated, ""},
		{"rejected", &fakeLimiter{res: &redis.RateLimitResult{Allowed: false, RetryIn: 1500 * time.Millisecond}}, http.StatusTooManyRequests, "2"},
		{"rejected without retry hint", &fakeLimiter{res: &redis.RateLimitResult{Allowed: false}}, http.StatusTooManyRequests, "60"},
		{"limiter down", &fakeLimiter{err: errors.New("dial tcp: refused")}, http.StatusCreated, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEcho(t)
			e.POST("/gardens", func(c echo.Context) error {
				return c.NoContent(http.StatusCreated)
			}, RateLimit(tt.limiter, 5, time.Minute, logger))

			rec := serve(e, http.MethodPost, "/gardens")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.retryAfter, rec.Header().Get("Retry-After"))
		})
	}
}
