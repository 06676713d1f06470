package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"donor-field-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body Response
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestRouter_Health(t *testing.T) {
	h := NewRouter(nil, logger.NewNoOpLogger())

	rec, body := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body.Status)
}

func TestRouter_Ready(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return fmt.Errorf("dial tcp: connection refused") }

	rec, body := get(t, NewRouter(map[string]Check{"zeebe": ok, "postgres": ok}, logger.NewNoOpLogger()), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"zeebe": "ok", "postgres": "ok"}, body.Checks)

	rec, body = get(t, NewRouter(map[string]Check{"zeebe": ok, "redis": down}, logger.NewTestLogger(t)), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, "dial tcp: connection refused", body.Checks["redis"])
}

func TestRouter_Metrics(t *testing.T) {
	rec, _ := get(t, NewRouter(nil, logger.NewNoOpLogger()), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", NewRouter(nil, logger.NewNoOpLogger()), time.Second, logger.NewNoOpLogger())
	}()

	cancel()
	assert.NoError(t, <-done)
}
