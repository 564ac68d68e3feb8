// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the inboxroute MCP server.
//
// # Metrics
//
//   - mcp_tool_invocations_total: tool invocations by tool and status
//   - mcp_tool_duration_seconds: tool execution duration
//   - remote_api_operations_total: Gmail, Calendar and Maps calls by service, operation and status
//   - remote_api_operation_duration_seconds: remote call duration
//   - credential_refresh_total: access token refreshes by result
//   - http_requests_total, http_request_duration_seconds: streamable-http transport requests
//
// # Tracing
//
// Spans are named tool.<name> for invocations and remote.<service>.<operation>
// for outbound calls.
//
// # Configuration
//
// Environment variables:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: inboxroute)
//   - AUDIT_LOGGING_ENABLED (default: true)
//
// The variables override a Config assembled from BaseConfig. The "stdout"
// exporters write to stderr, which keeps the stdio transport clean.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordToolInvocation(ctx, "list_messages", "success", time.Since(start))
package instrumentation
