package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentfleet/fleetconsole/internal/console/api"
	v0 "github.com/agentfleet/fleetconsole/internal/console/api/handlers/v0"
	"github.com/agentfleet/fleetconsole/internal/console/config"
	svctesting "github.com/agentfleet/fleetconsole/internal/console/service/testing"
	"github.com/agentfleet/fleetconsole/internal/console/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()

	shutdown, metrics, err := telemetry.InitMetrics("test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	cfg := &config.Config{ServerAddress: ":0", Version: "test"}
	versionInfo := &v0.VersionBody{Version: "test"}
	return api.NewServer(cfg, svctesting.NewFakeConsole(), metrics, versionInfo)
}

func serve(srv *api.Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	api.TrailingSlashMiddleware(srv.Mux()).ServeHTTP(w, req)
	return w
}

func TestTrailingSlashRedirect(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/admin/v0/servers/", nil))
	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "/admin/v0/servers", w.Header().Get("Location"))
}

func TestRootRedirectsToDocs(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/docs", w.Header().Get("Location"))
}

func TestNotFoundSuggestsPrefixes(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/servers", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Contains(t, body["detail"], "/v0/servers")
	assert.Contains(t, body["detail"], "/admin/v0/servers")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndPing(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/v0/health", "/v0/ping", "/admin/v0/health", "/admin/v0/ping"} {
		w := serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
