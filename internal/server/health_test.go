package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)

	rec, body := serve(t, h.LivenessHandler(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		shutdown   bool
		wantCode   int
		wantStatus string
	}{
		{"ready", true, false, http.StatusOK, "ok"},
		{"not ready", false, false, http.StatusServiceUnavailable, "not ready"},
		{"shutting down", true, true, http.StatusServiceUnavailable, "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewServerContext(context.Background())
			if tt.shutdown {
				require.NoError(t, sc.Shutdown())
			}
			h := NewHealthChecker(sc)
			h.SetReady(tt.ready)

			rec, body := serve(t, h.ReadinessHandler(), "/readyz")

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}

func TestHealthChecker_DetailedReportsServices(t *testing.T) {
	sc := NewServerContext(context.Background())
	sc.SetMail(&stubMail{})
	h := NewHealthChecker(sc)

	rec, body := serve(t, h.DetailedHealthHandler(), "/healthz/detailed")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]any{
		"Gmail":    "initialized",
		"Calendar": "not initialized",
		"Maps":     "not initialized",
	}, body["services"])

	sc.SetCalendar(&stubCalendar{})
	sc.SetMaps(&stubMaps{})
	_, body = serve(t, h.DetailedHealthHandler(), "/healthz/detailed")
	assert.Equal(t, "ok", body["status"])
}

func TestHealthChecker_RegisterHealthEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthChecker(nil).RegisterHealthEndpoints(mux)

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
