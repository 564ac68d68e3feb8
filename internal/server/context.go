package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	calendarv3 "google.golang.org/api/calendar/v3"
	gmailv1 "google.golang.org/api/gmail/v1"
	gmaps "googlemaps.github.io/maps"

	"github.com/teemow/inboxroute/internal/calendar"
	"github.com/teemow/inboxroute/internal/config"
	"github.com/teemow/inboxroute/internal/gmail"
	"github.com/teemow/inboxroute/internal/google"
	"github.com/teemow/inboxroute/internal/instrumentation"
	"github.com/teemow/inboxroute/internal/logging"
	"github.com/teemow/inboxroute/internal/maps"
)

// MailClient is the mail service used by the Gmail tools.
type MailClient interface {
	ListMessages(ctx context.Context, query string, maxResults int64) ([]*gmailv1.Message, error)
	SendMessage(ctx context.Context, msg gmail.OutgoingMessage) (*gmail.SentMessage, error)
}

// CalendarClient is the calendar service used by the Calendar tools.
type CalendarClient interface {
	UpcomingEvents(ctx context.Context, calendarID string, maxResults int64) ([]*calendarv3.Event, error)
	InsertEvent(ctx context.Context, input calendar.EventInput) (*calendar.CreatedEvent, error)
}

// MapsClient is the maps service used by the Maps tools.
type MapsClient interface {
	Directions(ctx context.Context, origin, destination string, mode gmaps.Mode) ([]gmaps.Route, error)
	Geocode(ctx context.Context, address string) ([]gmaps.GeocodingResult, error)
	NearbySearch(ctx context.Context, location gmaps.LatLng, radius uint, placeType string) ([]gmaps.PlacesSearchResult, error)
}

// Service family names, as shown in "<name> service not initialized".
const (
	FamilyGmail    = "Gmail"
	FamilyCalendar = "Calendar"
	FamilyMaps     = "Maps"
)

// Endpoints overrides the remote base URLs. Empty fields use the public APIs.
type Endpoints struct {
	Gmail    string
	Calendar string
	Maps     string
}

// ServerContext is the session shared by all tool handlers. It owns the
// remote service clients; each is either nil or fully usable.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	logger        *slog.Logger
	metrics       *instrumentation.Metrics
	audit         *instrumentation.AuditLogger
	remoteTimeout time.Duration
	endpoints     Endpoints

	mail        MailClient
	calendar    CalendarClient
	maps        MapsClient
	credentials *google.CredentialFile

	mu       sync.RWMutex
	shutdown bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(sc *ServerContext) { sc.logger = l }
}

// WithMetrics sets the metrics passed to every remote client.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) { sc.metrics = m }
}

// WithAuditLogger sets the audit logger used by instrumented tools.
func WithAuditLogger(a *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) { sc.audit = a }
}

// WithRemoteTimeout bounds every remote HTTP request. Zero disables the bound.
func WithRemoteTimeout(d time.Duration) Option {
	return func(sc *ServerContext) { sc.remoteTimeout = d }
}

// WithEndpoints points the remote clients at other base URLs.
func WithEndpoints(e Endpoints) Option {
	return func(sc *ServerContext) { sc.endpoints = e }
}

// NewServerContext creates a session with no clients. Call Initialize to
// build them.
func NewServerContext(ctx context.Context, opts ...Option) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:           shutdownCtx,
		cancel:        cancel,
		logger:        slog.Default(),
		remoteTimeout: config.DefaultRemoteTimeout,
	}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.audit == nil {
		sc.audit = instrumentation.NewAuditLogger(sc.logger)
	}
	return sc
}

// Initialize builds the Gmail and Calendar clients from the credential file
// at credentialsPath and the Maps client from apiKey. It never panics or
// returns an error: failures are logged and reported as false. Families that
// were built stay usable when another fails. Calling it again rebuilds every
// client; a family that fails on a later call is cleared.
//
// Token refreshes, the first one included, run under the session context
// because the clients outlive this call. A ctx that is already done fails
// initialization without touching the current clients.
func (sc *ServerContext) Initialize(ctx context.Context, credentialsPath, apiKey string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			sc.logger.Error("service initialization panicked", slog.Any("panic", r))
			ok = false
		}
	}()

	if err := ctx.Err(); err != nil {
		sc.logger.Error("service initialization cancelled", logging.Err(err))
		return false
	}

	ok = true
	if err := sc.initGoogle(credentialsPath); err != nil {
		sc.logger.Error("failed to initialize Google services",
			slog.String("credentials_file", credentialsPath),
			logging.Err(err))
		ok = false
	}

	if err := sc.initMaps(apiKey); err != nil {
		sc.logger.Error("failed to initialize Maps service", logging.Err(err))
		ok = false
	}

	if ok {
		sc.logger.Info("all services initialized")
	}
	return ok
}

func (sc *ServerContext) initGoogle(credentialsPath string) error {
	var errs []error

	mail, cal, err := sc.buildGoogle(credentialsPath)
	if err != nil {
		errs = append(errs, err)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.mail, sc.calendar = nil, nil
	if mail != nil {
		sc.mail = mail
	} else if err == nil {
		errs = append(errs, fmt.Errorf("%s client was not built", FamilyGmail))
	}
	if cal != nil {
		sc.calendar = cal
	} else if err == nil {
		errs = append(errs, fmt.Errorf("%s client was not built", FamilyCalendar))
	}
	return errors.Join(errs...)
}

// buildGoogle returns whichever Google clients it could build.
func (sc *ServerContext) buildGoogle(credentialsPath string) (*gmail.Client, *calendar.Client, error) {
	creds, err := google.LoadCredentialFile(credentialsPath,
		google.WithRefreshObserver(sc.metrics),
		google.WithLogger(sc.logger))
	if err != nil {
		return nil, nil, err
	}

	ts, err := creds.TokenSource(sc.ctx)
	if err != nil {
		return nil, nil, err
	}
	httpClient := google.NewHTTPClient(sc.ctx, ts, sc.remoteTimeout)

	sc.mu.Lock()
	sc.credentials = creds
	sc.mu.Unlock()

	var errs []error

	mailOpts := []gmail.Option{gmail.WithMetrics(sc.metrics)}
	if sc.endpoints.Gmail != "" {
		mailOpts = append(mailOpts, gmail.WithEndpoint(sc.endpoints.Gmail))
	}
	mail, err := gmail.NewClient(sc.ctx, httpClient, mailOpts...)
	if err != nil {
		errs = append(errs, err)
	}

	calOpts := []calendar.Option{calendar.WithMetrics(sc.metrics)}
	if sc.endpoints.Calendar != "" {
		calOpts = append(calOpts, calendar.WithEndpoint(sc.endpoints.Calendar))
	}
	cal, err := calendar.NewClient(sc.ctx, httpClient, calOpts...)
	if err != nil {
		errs = append(errs, err)
	}

	return mail, cal, errors.Join(errs...)
}

func (sc *ServerContext) initMaps(apiKey string) error {
	opts := []maps.Option{
		maps.WithMetrics(sc.metrics),
		maps.WithHTTPClient(&http.Client{Timeout: sc.remoteTimeout}),
	}
	if sc.endpoints.Maps != "" {
		opts = append(opts, maps.WithBaseURL(sc.endpoints.Maps))
	}

	client, err := maps.NewClient(apiKey, opts...)

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if err != nil {
		sc.maps = nil
		return err
	}
	sc.maps = client
	return nil
}

// Context returns the session context, cancelled on Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Logger returns the session logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the session metrics. The result may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger for tool invocations.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.audit
}

// Mail returns the mail client, or nil when not initialized.
func (sc *ServerContext) Mail() MailClient {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.mail
}

// SetMail replaces the mail client. A nil client marks Gmail uninitialized.
func (sc *ServerContext) SetMail(c MailClient) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.mail = c
}

// Calendar returns the calendar client, or nil when not initialized.
func (sc *ServerContext) Calendar() CalendarClient {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.calendar
}

// SetCalendar replaces the calendar client.
func (sc *ServerContext) SetCalendar(c CalendarClient) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendar = c
}

// Maps returns the maps client, or nil when not initialized.
func (sc *ServerContext) Maps() MapsClient {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.maps
}

// SetMaps replaces the maps client.
func (sc *ServerContext) SetMaps(c MapsClient) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.maps = c
}

// Credentials returns the loaded credential file, or nil.
func (sc *ServerContext) Credentials() *google.CredentialFile {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.credentials
}

// Services reports which families have a usable client.
func (sc *ServerContext) Services() map[string]bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return map[string]bool{
		FamilyGmail:    sc.mail != nil,
		FamilyCalendar: sc.calendar != nil,
		FamilyMaps:     sc.maps != nil,
	}
}

// IsShutdown returns whether the session has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the session context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
