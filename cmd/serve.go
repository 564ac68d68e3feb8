package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxroute/internal/config"
	"github.com/teemow/inboxroute/internal/instrumentation"
	"github.com/teemow/inboxroute/internal/logging"
	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/common"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

// configEnvVar names the config file when --config is not given.
const configEnvVar = "INBOXROUTE_CONFIG"

// httpReadHeaderTimeout bounds how long the MCP HTTP listener waits for
// request headers.
const httpReadHeaderTimeout = 10 * time.Second

// serveOptions holds the raw flag values of the serve command. Only flags
// the user actually set override the file and environment.
type serveOptions struct {
	configFile      string
	transport       string
	httpAddr        string
	credentialsFile string
	mapsAPIKey      string
	readOnly        bool
	logLevel        string
	logFormat       string
	debug           bool
	metricsEnabled  bool
	metricsAddr     string
	remoteTimeout   time.Duration
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP (Model Context Protocol) server exposing Gmail, Google Calendar
and Google Maps tools.

Gmail and Calendar use an authorized-user credentials file (client id,
client secret and refresh token). Maps uses an API key. A service whose
credentials are missing or invalid stays unavailable and its tools report
that it is not initialized; the other services keep working.

Configuration precedence: flags > environment > config file > defaults.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP on /mcp with /healthz, /readyz and /healthz/detailed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	bindServeFlags(cmd, opts)

	return cmd
}

func bindServeFlags(cmd *cobra.Command, opts *serveOptions) {
	defaults := config.Default()

	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to a YAML config file. Can also use INBOXROUTE_CONFIG env var.")
	cmd.Flags().StringVar(&opts.transport, "transport", defaults.Server.Transport, "Transport type: stdio or streamable-http. Can also use MCP_TRANSPORT env var.")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", defaults.Server.HTTPAddr, "HTTP server address (for streamable-http transport). Can also use MCP_HTTP_ADDR env var.")
	cmd.Flags().StringVar(&opts.credentialsFile, "credentials-file", defaults.Google.CredentialsFile, "Authorized-user credentials file for Gmail and Calendar. Can also use GOOGLE_CREDENTIALS_FILE env var.")
	cmd.Flags().StringVar(&opts.mapsAPIKey, "maps-api-key", "", "Google Maps API key. Can also use GOOGLE_MAPS_API_KEY env var.")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "Only register tools that never change remote state (omits send_message and create_event). Can also use READ_ONLY env var.")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", defaults.Logging.Level, "Log level: debug, info, warn or error. Can also use LOG_LEVEL env var.")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", defaults.Logging.Format, "Log format: text or json. Can also use LOG_FORMAT env var.")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging (shorthand for --log-level=debug)")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", false, "Enable the metrics server on a dedicated port (streamable-http only). Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", defaults.Metrics.Addr, "Metrics server address. Can also use METRICS_ADDR env var.")
	cmd.Flags().DurationVar(&opts.remoteTimeout, "remote-timeout", defaults.Server.RemoteTimeout, "Timeout for each call to a Google API. Can also use REMOTE_TIMEOUT env var.")
}

// resolveConfig layers the config file, the environment and the explicitly
// set flags, in that order, and validates the result.
func resolveConfig(cmd *cobra.Command, opts *serveOptions) (*config.Config, error) {
	flags := cmd.Flags()

	path := opts.configFile
	if !flags.Changed("config") {
		path = os.Getenv(configEnvVar)
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if flags.Changed("transport") {
		cfg.Server.Transport = opts.transport
	}
	if flags.Changed("http-addr") {
		cfg.Server.HTTPAddr = opts.httpAddr
	}
	if flags.Changed("credentials-file") {
		cfg.Google.CredentialsFile = opts.credentialsFile
	}
	if flags.Changed("maps-api-key") {
		cfg.Maps.APIKey = opts.mapsAPIKey
	}
	if flags.Changed("read-only") {
		cfg.Server.ReadOnly = opts.readOnly
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
	if opts.debug {
		cfg.Logging.Level = "debug"
	}
	if flags.Changed("metrics-enabled") {
		cfg.Metrics.Enabled = opts.metricsEnabled
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if flags.Changed("remote-timeout") {
		cfg.Server.RemoteTimeout = opts.remoteTimeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// instrumentationConfig layers the OTel environment variables over the
// config file's instrumentation section over the built-in defaults.
func instrumentationConfig(file config.InstrumentationConfig) instrumentation.Config {
	c := instrumentation.BaseConfig()
	if file.Enabled != nil {
		c.Enabled = *file.Enabled
	}
	if file.MetricsExporter != "" {
		c.MetricsExporter = file.MetricsExporter
	}
	if file.TracingExporter != "" {
		c.TracingExporter = file.TracingExporter
	}
	if file.OTLPEndpoint != "" {
		c.OTLPEndpoint = file.OTLPEndpoint
	}
	if file.OTLPInsecure != nil {
		c.OTLPInsecure = *file.OTLPInsecure
	}
	if file.TraceSamplingRate != nil {
		c.TraceSamplingRate = *file.TraceSamplingRate
	}
	if file.AuditLogging != nil {
		c.AuditLogging.Enabled = *file.AuditLogging
	}
	c.ApplyEnv()
	return c
}

// newLogger builds the process logger. Logs always go to w; for stdio that
// must be stderr since stdout carries the protocol.
func newLogger(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	handler, err := logging.NewHandler(w, cfg.Level, cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}
	return slog.New(handler), nil
}

func runServe(cfg *config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger, err := newLogger(os.Stderr, cfg.Logging)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentationConfig(cfg.Instrumentation)
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	metricsServer, err := startMetricsServer(cfg, provider, logger)
	if err != nil {
		return err
	}

	serverContext := server.NewServerContext(shutdownCtx,
		server.WithLogger(logger),
		server.WithMetrics(provider.Metrics()),
		server.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)),
		server.WithRemoteTimeout(cfg.Server.RemoteTimeout),
	)
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	if !serverContext.Initialize(shutdownCtx, cfg.Google.CredentialsFile, cfg.Maps.APIKey) {
		logger.Warn("starting with some services unavailable", slog.Any("services", serverContext.Services()))
	}

	reg, err := buildRegistry(serverContext, cfg.Server.ReadOnly)
	if err != nil {
		return err
	}

	if cfg.Server.ReadOnly {
		logger.Info("starting server in read-only mode", slog.Int("tools", reg.Len()))
	}

	mcpSrv := mcpserver.NewMCPServer("inboxroute", version,
		mcpserver.WithToolCapabilities(true),
	)
	registry.NewDispatcher(reg, logger).Mount(mcpSrv, common.Instrument(serverContext))

	// Start the appropriate server based on transport type
	switch cfg.Server.Transport {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	case config.TransportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg.Server.HTTPAddr, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Server.Transport)
	}
}

// startMetricsServer starts the Prometheus endpoint in the background. It
// returns nil when metrics are disabled or the transport is stdio.
func startMetricsServer(cfg *config.Config, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	if !cfg.Metrics.Enabled || !provider.Enabled() {
		return nil, nil
	}
	if cfg.Server.Transport == config.TransportStdio {
		logger.Debug("metrics server is not started for stdio transport")
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    cfg.Metrics.Addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
		Logger:                  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", logging.Err(err))
		}
	}()
	return metricsServer, nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// newHTTPHandler routes /mcp to the streamable HTTP transport and adds the
// health endpoints.
func newHTTPHandler(mcpSrv *mcpserver.MCPServer, healthChecker *server.HealthChecker, metrics *instrumentation.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))
	healthChecker.RegisterHealthEndpoints(mux)
	return server.InstrumentHTTP(metrics, mux)
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, addr string, logger *slog.Logger) error {
	healthChecker := server.NewHealthChecker(serverContext)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           newHTTPHandler(mcpSrv, healthChecker, serverContext.Metrics()),
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}

	logger.Info("streamable HTTP server starting",
		slog.String("addr", addr),
		slog.String("endpoint", "/mcp"),
		slog.String("health", "/healthz, /readyz, /healthz/detailed"))

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		logger.Info("HTTP server stopped normally")
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
