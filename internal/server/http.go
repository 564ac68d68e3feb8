package server

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/inboxroute/internal/instrumentation"
)

// pathOther labels requests outside the known routes so the path attribute
// stays bounded.
const pathOther = "other"

// knownPaths are the routes served by the streamable HTTP listener.
var knownPaths = map[string]bool{
	"/mcp":              true,
	"/healthz":          true,
	"/readyz":           true,
	"/healthz/detailed": true,
}

// InstrumentHTTP wraps next with a server span per request and records
// http_requests_total and http_request_duration_seconds. A nil metrics
// recorder only disables the metrics.
func InstrumentHTTP(metrics *instrumentation.Metrics, next http.Handler) http.Handler {
	measured := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, metricPath(r.URL.Path), m.Code, m.Duration)
	})
	return otelhttp.NewHandler(measured, "inboxroute",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + metricPath(r.URL.Path)
		}),
	)
}

func metricPath(path string) string {
	if knownPaths[path] {
		return path
	}
	return pathOther
}
