package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/inboxroute/internal/instrumentation"
)

// PrimaryCalendarID addresses the authenticated user's main calendar.
const PrimaryCalendarID = "primary"

// Client wraps the Google Calendar service.
type Client struct {
	svc     *calendar.Service
	metrics *instrumentation.Metrics
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client, *[]option.ClientOption)

// WithEndpoint overrides the Calendar API base URL.
func WithEndpoint(endpoint string) Option {
	return func(_ *Client, opts *[]option.ClientOption) {
		*opts = append(*opts, option.WithEndpoint(endpoint))
	}
}

// WithMetrics records every API call on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client, _ *[]option.ClientOption) { c.metrics = m }
}

// WithClock replaces time.Now, which bounds UpcomingEvents from below.
func WithClock(now func() time.Time) Option {
	return func(c *Client, _ *[]option.ClientOption) { c.now = now }
}

// NewClient creates a Calendar client that sends requests through
// httpClient, which is expected to carry OAuth2 authorization.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	c := &Client{now: time.Now}
	apiOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	for _, opt := range opts {
		opt(c, &apiOpts)
	}

	svc, err := calendar.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	c.svc = svc

	return c, nil
}

// UpcomingEvents returns up to maxResults events of calendarID starting from
// now, with recurring events expanded and ordered by start time.
func (c *Client) UpcomingEvents(ctx context.Context, calendarID string, maxResults int64) (events []*calendar.Event, err error) {
	ctx, span := instrumentation.StartRemoteSpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationList)
	start := time.Now()
	defer func() {
		c.record(ctx, instrumentation.OperationList, start, err)
		instrumentation.EndRemoteSpan(span, err)
	}()

	if calendarID == "" {
		calendarID = PrimaryCalendarID
	}

	res, err := c.svc.Events.List(calendarID).
		TimeMin(c.now().UTC().Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return res.Items, nil
}

// InsertEvent creates an event on the primary calendar.
func (c *Client) InsertEvent(ctx context.Context, input EventInput) (created *CreatedEvent, err error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ctx, span := instrumentation.StartRemoteSpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCreate)
	start := time.Now()
	defer func() {
		c.record(ctx, instrumentation.OperationCreate, start, err)
		instrumentation.EndRemoteSpan(span, err)
	}()

	ev, err := c.svc.Events.Insert(PrimaryCalendarID, input.ToEvent()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &CreatedEvent{ID: ev.Id, HTMLLink: ev.HtmlLink}, nil
}

func (c *Client) record(ctx context.Context, operation string, start time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordRemoteAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, time.Since(start))
}
