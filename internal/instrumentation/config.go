package instrumentation

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: inboxroute)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// ServiceInstanceID is the unique instance identifier (default: hostname)
	ServiceInstanceID string

	// Enabled determines if instrumentation is active (default: true)
	// Set to false via INSTRUMENTATION_ENABLED=false to disable metrics and tracing
	Enabled bool

	// MetricsExporter specifies the metrics exporter type
	// Options: "prometheus", "otlp", "stdout" (default: "prometheus")
	MetricsExporter string

	// TracingExporter specifies the tracing exporter type
	// Options: "otlp", "stdout", "none" (default: "none")
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint
	// Example: "localhost:4318" (without protocol prefix)
	OTLPEndpoint string

	// OTLPInsecure controls whether to use insecure HTTP for OTLP export.
	// Only for local development; traces carry tool names and remote hosts.
	OTLPInsecure bool

	// TraceSamplingRate is the sampling rate for traces (0.0 to 1.0, default: 0.1)
	TraceSamplingRate float64

	// AuditLogging configures audit logging behavior.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if a tool_executed / tool_failed line is written
	// for every invocation (default: true).
	Enabled bool
}

// DefaultConfig returns BaseConfig with environment overrides applied.
func DefaultConfig() Config {
	c := BaseConfig()
	c.ApplyEnv()
	return c
}

// BaseConfig returns the built-in defaults, ignoring the environment.
func BaseConfig() Config {
	return Config{
		ServiceName:       "inboxroute",
		ServiceVersion:    "unknown",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterNone,
		TraceSamplingRate: 0.1,
		AuditLogging: AuditLoggingConfig{
			Enabled: true,
		},
	}
}

// ApplyEnv overrides c with the OTel environment variables that are set.
// Unparseable values leave the current setting in place.
func (c *Config) ApplyEnv() {
	c.ServiceName = getEnvOrDefault("OTEL_SERVICE_NAME", c.ServiceName)
	c.ServiceInstanceID = getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", c.ServiceInstanceID)
	c.Enabled = getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", c.Enabled)
	c.MetricsExporter = getEnvOrDefault("METRICS_EXPORTER", c.MetricsExporter)
	c.TracingExporter = getEnvOrDefault("TRACING_EXPORTER", c.TracingExporter)
	c.OTLPEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.OTLPInsecure = getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", c.OTLPInsecure)
	c.TraceSamplingRate = getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", c.TraceSamplingRate)
	c.AuditLogging.Enabled = getEnvBoolOrDefault("AUDIT_LOGGING_ENABLED", c.AuditLogging.Enabled)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	validMetricsExporters := map[string]bool{ExporterPrometheus: true, ExporterOTLP: true, ExporterStdout: true}
	if c.MetricsExporter != "" && !validMetricsExporters[c.MetricsExporter] {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	validTracingExporters := map[string]bool{ExporterOTLP: true, ExporterStdout: true, ExporterNone: true}
	if c.TracingExporter != "" && !validTracingExporters[c.TracingExporter] {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.TracingExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}
	if c.MetricsExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// Constants for metric label values.
const (
	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Credential refresh results
	RefreshResultSuccess = "success"
	RefreshResultFailure = "failure"

	// Remote service names
	ServiceGmail    = "gmail"
	ServiceCalendar = "calendar"
	ServiceMaps     = "maps"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	// Metric recording intervals
	DefaultMetricInterval = 10 * time.Second
)

// Operation types for remote API metrics.
const (
	OperationList       = "list"
	OperationGet        = "get"
	OperationSend       = "send"
	OperationCreate     = "create"
	OperationDirections = "directions"
	OperationGeocode    = "geocode"
	OperationSearch     = "search"
)
