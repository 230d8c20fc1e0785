package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/mutker/machinesim/internal/panel"
	"codeberg.org/mutker/machinesim/internal/server"
	"codeberg.org/mutker/machinesim/internal/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullCollector struct{}

func (nullCollector) Record(_ context.Context, _ *telemetry.Point) error { return nil }
func (nullCollector) Close() error                                       { return nil }

func newTestServer(t *testing.T) (*gin.Engine, *panel.Panel) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	p := panel.New(panel.Config{Seed: 1, HistorySize: 10}, nullCollector{})
	return server.NewRouter(server.Dependencies{Panel: p}), p
}

func doRequest(t *testing.T, router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	router, _ := newTestServer(t)

	w := doRequest(t, router, http.MethodGet, "/api/healthz")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestStatusInitial(t *testing.T) {
	router, _ := newTestServer(t)

	w := doRequest(t, router, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "IDLE", body["state"])
	assert.Equal(t, "gray", body["severity"])
	assert.Equal(t, false, body["running"])
	assert.InDelta(t, 25.0, body["temperature"], 1e-9)
	assert.InDelta(t, 0.0, body["temperature_delta"], 1e-9)
	assert.Equal(t, "System is idle. Ready to start.", body["message"])
}

func TestStartThenTick(t *testing.T) {
	router, p := newTestServer(t)

	w := doRequest(t, router, http.MethodPost, "/api/machine/start")
	require.Equal(t, http.StatusOK, w.Code)

	_, err := p.Tick(context.Background())
	require.NoError(t, err)

	body := decode(t, doRequest(t, router, http.MethodGet, "/api/status"))
	assert.Equal(t, "ACTIVE", body["state"])
	assert.Equal(t, "green", body["severity"])
	assert.Equal(t, true, body["running"])
	assert.EqualValues(t, 1, body["tick"])
}

func TestHistoryEndpoint(t *testing.T) {
	router, p := newTestServer(t)
	p.Start()

	for i := 0; i < 3; i++ {
		_, err := p.Tick(context.Background())
		require.NoError(t, err)
	}

	w := doRequest(t, router, http.MethodGet, "/api/history")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	entries, ok := body["entries"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, 3)

	first, ok := entries[0].(map[string]any)
	require.True(t, ok)
	snapshot, ok := first["snapshot"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ACTIVE", snapshot["state"])
}

func TestResetRestoresInitialState(t *testing.T) {
	router, p := newTestServer(t)
	p.Start()

	for i := 0; i < 3; i++ {
		_, err := p.Tick(context.Background())
		require.NoError(t, err)
	}

	w := doRequest(t, router, http.MethodPost, "/api/machine/reset")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "IDLE", body["state"])
	assert.Equal(t, false, body["running"])
	assert.EqualValues(t, 0, body["tick"])

	history := decode(t, doRequest(t, router, http.MethodGet, "/api/history"))
	assert.Empty(t, history["entries"])
}

func TestStopEndpointTakesEffectNextTick(t *testing.T) {
	router, p := newTestServer(t)
	p.Start()
	_, err := p.Tick(context.Background())
	require.NoError(t, err)

	w := doRequest(t, router, http.MethodPost, "/api/machine/stop")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, doRequest(t, router, http.MethodGet, "/api/status"))
	assert.Equal(t, "ACTIVE", body["state"], "stop is pending until the next tick")

	_, err = p.Tick(context.Background())
	require.NoError(t, err)

	body = decode(t, doRequest(t, router, http.MethodGet, "/api/status"))
	assert.Equal(t, "IDLE", body["state"])
	assert.Equal(t, "System shutting down.", body["message"])
}
