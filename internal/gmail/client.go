package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/inboxroute/internal/instrumentation"
)

// userID addresses the authenticated user's mailbox.
const userID = "me"

// listHeaders are the only headers requested when fetching message metadata.
var listHeaders = []string{"From", "Subject", "Date"}

// Client wraps the Gmail Users service.
type Client struct {
	svc     *gmail.UsersService
	metrics *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	endpoint string
	metrics  *instrumentation.Metrics
}

// WithEndpoint overrides the Gmail API base URL.
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) { o.endpoint = endpoint }
}

// WithMetrics records every API call on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// NewClient creates a Gmail client that sends requests through httpClient,
// which is expected to carry OAuth2 authorization.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	apiOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if o.endpoint != "" {
		apiOpts = append(apiOpts, option.WithEndpoint(o.endpoint))
	}

	svc, err := gmail.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		metrics: o.metrics,
	}, nil
}

// ListMessages returns up to maxResults messages matching query, newest
// first, each with its From, Subject and Date headers and snippet.
//
// The list call returns ids only, so every message costs one extra get.
func (c *Client) ListMessages(ctx context.Context, query string, maxResults int64) (msgs []*gmail.Message, err error) {
	ctx, span := instrumentation.StartRemoteSpan(ctx, instrumentation.ServiceGmail, instrumentation.OperationList)
	start := time.Now()
	defer func() {
		c.record(ctx, instrumentation.OperationList, start, err)
		instrumentation.EndRemoteSpan(span, err)
	}()

	req := c.svc.Messages.List(userID).MaxResults(maxResults).Context(ctx)
	if query != "" {
		req = req.Q(query)
	}

	res, err := req.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	msgs = make([]*gmail.Message, 0, len(res.Messages))
	for _, ref := range res.Messages {
		m, err := c.svc.Messages.Get(userID, ref.Id).
			Format("metadata").
			MetadataHeaders(listHeaders...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", ref.Id, err)
		}
		msgs = append(msgs, m)
	}

	return msgs, nil
}

// SendMessage sends a plain-text message from the authenticated user.
func (c *Client) SendMessage(ctx context.Context, msg OutgoingMessage) (sent *SentMessage, err error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	ctx, span := instrumentation.StartRemoteSpan(ctx, instrumentation.ServiceGmail, instrumentation.OperationSend)
	start := time.Now()
	defer func() {
		c.record(ctx, instrumentation.OperationSend, start, err)
		instrumentation.EndRemoteSpan(span, err)
	}()

	raw := base64.URLEncoding.EncodeToString([]byte(msg.RFC2822()))

	res, err := c.svc.Messages.Send(userID, &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return &SentMessage{ID: res.Id, ThreadID: res.ThreadId}, nil
}

func (c *Client) record(ctx context.Context, operation string, start time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordRemoteAPIOperation(ctx, instrumentation.ServiceGmail, operation, status, time.Since(start))
}
