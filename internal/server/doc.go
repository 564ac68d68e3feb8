// Package server provides the MCP server context and the HTTP plumbing around
// the tool dispatcher.
//
// # Key Components
//
// ServerContext holds the Gmail, Calendar and Maps clients for one process.
// Initialize builds them from an authorized-user credentials file and a Maps
// API key. A family whose credentials are missing or invalid is left unset
// and its tools answer "<family> service not initialized"; the others keep
// working.
//
// HealthChecker serves /healthz, /readyz and /healthz/detailed for the
// streamable HTTP transport. The detailed endpoint reports each service
// family and an overall "degraded" status when any is missing.
//
// MetricsServer exposes the Prometheus /metrics endpoint on its own port, and
// InstrumentHTTP records request metrics and spans for the MCP listener.
package server
