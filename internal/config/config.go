package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport names.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Defaults.
const (
	DefaultCredentialsFile = "credentials.json"
	DefaultHTTPAddr        = ":8080"
	DefaultMetricsAddr     = ":9090"
	DefaultRemoteTimeout   = 30 * time.Second
)

// Config is the complete inboxroute configuration.
type Config struct {
	Google  GoogleConfig  `yaml:"google"`
	Maps    MapsConfig    `yaml:"maps"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`

	Instrumentation InstrumentationConfig `yaml:"instrumentation"`
}

// GoogleConfig locates the authorized-user credential record used for Gmail
// and Calendar.
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// MapsConfig holds the Maps platform API key.
type MapsConfig struct {
	APIKey string `yaml:"api_key"`
}

// ServerConfig holds transport settings.
type ServerConfig struct {
	Transport string `yaml:"transport"`
	HTTPAddr  string `yaml:"http_addr"`
	ReadOnly  bool   `yaml:"read_only"`

	// RemoteTimeout bounds every HTTP call made by the remote service
	// clients. The dispatcher itself never times out an invocation.
	RemoteTimeout    time.Duration `yaml:"-"`
	RemoteTimeoutRaw string        `yaml:"remote_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// InstrumentationConfig selects the OTel exporters and audit logging. Unset
// fields keep the instrumentation defaults; the OTel environment variables
// override whatever is set here.
type InstrumentationConfig struct {
	Enabled           *bool    `yaml:"enabled"`
	MetricsExporter   string   `yaml:"metrics_exporter"`
	TracingExporter   string   `yaml:"tracing_exporter"`
	OTLPEndpoint      string   `yaml:"otlp_endpoint"`
	OTLPInsecure      *bool    `yaml:"otlp_insecure"`
	TraceSamplingRate *float64 `yaml:"trace_sampling_rate"`
	AuditLogging      *bool    `yaml:"audit_logging"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Google: GoogleConfig{CredentialsFile: DefaultCredentialsFile},
		Server: ServerConfig{
			Transport:     TransportStdio,
			HTTPAddr:      DefaultHTTPAddr,
			RemoteTimeout: DefaultRemoteTimeout,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
	}
}

// Load reads the YAML file at path on top of the defaults. ${VAR} references
// are expanded before parsing.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when it is non-empty and returns the defaults
// otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the variable's value, or "" when unset.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func parseDurations(cfg *Config) error {
	if cfg.Server.RemoteTimeoutRaw == "" {
		return nil
	}
	d, err := time.ParseDuration(cfg.Server.RemoteTimeoutRaw)
	if err != nil {
		return fmt.Errorf("parsing remote_timeout %q: %w", cfg.Server.RemoteTimeoutRaw, err)
	}
	cfg.Server.RemoteTimeout = d
	return nil
}

// ApplyEnv overrides fields from environment variables that are set.
// Unparseable boolean or duration values are reported as errors.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("GOOGLE_CREDENTIALS_FILE"); v != "" {
		c.Google.CredentialsFile = v
	}
	if v := os.Getenv("GOOGLE_MAPS_API_KEY"); v != "" {
		c.Maps.APIKey = v
	}
	if v := os.Getenv("MCP_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
	if v := os.Getenv("MCP_HTTP_ADDR"); v != "" {
		c.Server.HTTPAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		c.Metrics.Enabled = b
	}
	if v := os.Getenv("READ_ONLY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("READ_ONLY: %w", err)
		}
		c.Server.ReadOnly = b
	}
	if v := os.Getenv("REMOTE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REMOTE_TIMEOUT: %w", err)
		}
		c.Server.RemoteTimeout = d
	}
	return nil
}

// Validate checks the configuration and returns the first problem found.
// Missing credentials are not an error: the server then runs degraded.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("server.transport %q is not supported (supported: %s, %s)",
			c.Server.Transport, TransportStdio, TransportStreamableHTTP)
	}

	if c.Server.Transport == TransportStreamableHTTP && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required for %s transport", TransportStreamableHTTP)
	}

	if c.Server.RemoteTimeout < 0 {
		return fmt.Errorf("server.remote_timeout must not be negative")
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}

	if r := c.Instrumentation.TraceSamplingRate; r != nil && (*r < 0 || *r > 1) {
		return fmt.Errorf("instrumentation.trace_sampling_rate must be between 0 and 1, got %g", *r)
	}

	return nil
}
