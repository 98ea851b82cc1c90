package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikgoud24/NeoGarden-Enhanced/config"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/identity"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
)

var createdAt = time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		AppName:                "neogarden-test",
		AllowOrigins:           []string{"*"},
		AllowMethods:           []string{"GET", "POST", "DELETE"},
		StartupMaxAttempts:     1,
		StrictRequestBody:      true,
		StoreDriver:            config.StoreDriverBadger,
		BadgerInMemory:         true,
		StoreFetchLimit:        1000,
		EventsBroker:           config.EventsBrokerNone,
		TracingExporter:        config.TracingExporterNone,
		MetricsEnabled:         true,
		ShutdownTimeoutSeconds: 5,
	}
}

func newTestServer(t *testing.T, cfg config.Config, ids ...string) *Server {
	t.Helper()
	return newTestServerWithClock(t, cfg, identity.FixedClock{T: createdAt}, ids...)
}

func newTestServerWithClock(t *testing.T, cfg config.Config, clock identity.Clock, ids ...string) *Server {
	t.Helper()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	srv, err := New(cfg, logger,
		WithIDGenerator(&identity.SequenceGenerator{IDs: ids}),
		WithClock(clock),
	)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() {
		_ = srv.Stop(context.Background())
	})
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

const gardenBody = `{
	"name": "Backyard",
	"areaConfig": {"area": 25, "unit": "m"},
	"landShape": [[0, 0], [5, 0], {"x": 5, "y": 5}],
	"plants": [{
		"id": 7, "name": "Oak", "icon": "tree", "modelType": "tree", "category": "trees",
		"height": 10, "spread": 4,
		"position": {"x": 1, "y": 0, "z": 2}, "rotation": {"x": 0, "y": 0, "z": 0},
		"color": "#2e7d32", "foliageColor": "#66bb6a"
	}]
}`

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "postgres"

	_, err := New(cfg, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	assert.Error(t, err)
}

func TestServer_Root(t *testing.T) {
	srv := newTestServer(t, testConfig())

	for _, path := range []string{"/api", "/api/"} {
		rec := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"message":"Hello World"}`, rec.Body.String(), path)
	}
}

func TestServer_StatusChecks(t *testing.T) {
	srv := newTestServer(t, testConfig(), "status-1", "status-2")

	rec := do(t, srv, http.MethodPost, "/api/status", `{"client_name":"web"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created models.StatusCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "status-1", created.ID)
	assert.Equal(t, "web", created.ClientName)
	assert.True(t, created.Timestamp.Equal(createdAt))

	rec = do(t, srv, http.MethodPost, "/api/status", `{"client_name":"mobile"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var checks []models.StatusCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checks))
	require.Len(t, checks, 2)
	assert.Equal(t, "web", checks[0].ClientName)
	assert.Equal(t, "mobile", checks[1].ClientName)
}

func TestServer_StatusCheckValidation(t *testing.T) {
	srv := newTestServer(t, testConfig())

	tests := []struct {
		name string
		body string
	}{
		{"missing client name", `{}`},
		{"null client name", `{"client_name":null}`},
		{"unknown field", `{"client_name":"web","extra":1}`},
		{"malformed", `{"client_name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/status", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := do(t, srv, http.MethodGet, "/api/status", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_EmptyStringsAccepted(t *testing.T) {
	srv := newTestServer(t, testConfig(), "status-1", "garden-1")

	rec := do(t, srv, http.MethodPost, "/api/status", `{"client_name":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":"status-1","client_name":"","timestamp":"2024-09-01T10:00:00Z"}`, rec.Body.String())

	body := `{"name": "", "areaConfig": {"area": 1, "unit": "ft"}, "landShape": [], "plants": [
		{"id": 1, "name": "", "icon": "", "modelType": "", "category": "", "height": 1, "spread": 1,
		 "position": {"x": 0, "y": 0, "z": 0}, "rotation": {"x": 0, "y": 0, "z": 0}, "color": "", "foliageColor": ""}]}`
	rec = do(t, srv, http.MethodPost, "/api/gardens", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/gardens/garden-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Garden
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "", fetched.Name)
	require.Len(t, fetched.Plants, 1)
	assert.Equal(t, "", fetched.Plants[0].FoliageColor)

	rec = do(t, srv, http.MethodPost, "/api/gardens",
		`{"areaConfig": {"area": 1, "unit": "ft"}, "landShape": [], "plants": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "'name'")
}

func TestServer_TimestampsMatchStoredPrecision(t *testing.T) {
	clock := identity.FixedClock{T: time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)}
	srv := newTestServerWithClock(t, testConfig(), clock, "status-1", "garden-1")

	timestamp := func(rec *httptest.ResponseRecorder) string {
		t.Helper()
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body struct {
			Timestamp string `json:"timestamp"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.Timestamp
	}
	firstTimestamp := func(rec *httptest.ResponseRecorder) string {
		t.Helper()
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body []struct {
			Timestamp string `json:"timestamp"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		return body[0].Timestamp
	}

	created := timestamp(do(t, srv, http.MethodPost, "/api/status", `{"client_name":"web"}`))
	assert.Equal(t, "2024-01-01T00:00:00.123456Z", created)
	assert.Equal(t, created, firstTimestamp(do(t, srv, http.MethodGet, "/api/status", "")))

	created = timestamp(do(t, srv, http.MethodPost, "/api/gardens", gardenBody))
	assert.Equal(t, "2024-01-01T00:00:00.123456Z", created)
	assert.Equal(t, created, timestamp(do(t, srv, http.MethodGet, "/api/gardens/garden-1", "")))
	assert.Equal(t, created, firstTimestamp(do(t, srv, http.MethodGet, "/api/gardens", "")))
}

func TestServer_GardenLifecycle(t *testing.T) {
	srv := newTestServer(t, testConfig(), "garden-1")

	rec := do(t, srv, http.MethodPost, "/api/gardens", gardenBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "garden-1", created["id"])

	rec = do(t, srv, http.MethodGet, "/api/gardens/garden-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Backyard", fetched["name"])
	assert.Equal(t, []any{
		[]any{float64(0), float64(0)},
		[]any{float64(5), float64(0)},
		map[string]any{"x": float64(5), "y": float64(5)},
	}, fetched["landShape"])

	rec = do(t, srv, http.MethodGet, "/api/gardens", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var gardens []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gardens))
	assert.Len(t, gardens, 1)

	rec = do(t, srv, http.MethodDelete, "/api/gardens/garden-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Garden deleted successfully"}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/gardens/garden-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Garden not found"}`, rec.Body.String())

	rec = do(t, srv, http.MethodDelete, "/api/gardens/garden-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_LegacyNotFoundStatus(t *testing.T) {
	cfg := testConfig()
	cfg.LegacyNotFoundStatus = true
	srv := newTestServer(t, cfg)

	rec := do(t, srv, http.MethodGet, "/api/gardens/missing", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"Garden not found"}`, rec.Body.String())

	rec = do(t, srv, http.MethodDelete, "/api/gardens/missing", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"Garden not found"}`, rec.Body.String())
}

func TestServer_AllowlistedField(t *testing.T) {
	cfg := testConfig()
	cfg.RequestFieldAllowlist = []string{"extra"}
	srv := newTestServer(t, cfg)

	rec := do(t, srv, http.MethodPost, "/api/status", `{"client_name":"web","extra":1}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, testConfig())

	rec := do(t, srv, http.MethodGet, "/api/health/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store"`)

	do(t, srv, http.MethodGet, "/api/status", "")
	rec = do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "neogarden_http_requests_total")
}

func TestServer_NotReadyAfterStop(t *testing.T) {
	srv := newTestServer(t, testConfig())
	require.NoError(t, srv.Stop(context.Background()))

	rec := do(t, srv, http.MethodGet, "/api/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	req.Header.Set("Origin", "https://neogarden.app")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://neogarden.app", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
