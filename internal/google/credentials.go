package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/inboxroute/internal/instrumentation"
	"github.com/teemow/inboxroute/internal/logging"
)

// expiryLayout matches what the installed-app tooling reads back.
const expiryLayout = "2006-01-02T15:04:05Z"

// AuthorizedUser is the on-disk authorized-user credential record.
type AuthorizedUser struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry"`
}

// RefreshObserver is notified of every refresh attempt.
type RefreshObserver interface {
	RecordCredentialRefresh(ctx context.Context, result string)
}

// CredentialFile is an authorized-user JSON file that issues refreshing
// token sources.
type CredentialFile struct {
	path     string
	user     AuthorizedUser
	raw      map[string]any
	observer RefreshObserver
	logger   *slog.Logger

	mu sync.Mutex
}

// CredentialOption configures a CredentialFile.
type CredentialOption func(*CredentialFile)

// WithRefreshObserver reports refresh attempts to o.
func WithRefreshObserver(o RefreshObserver) CredentialOption {
	return func(c *CredentialFile) { c.observer = o }
}

// WithLogger sets the logger used for refresh events.
func WithLogger(l *slog.Logger) CredentialOption {
	return func(c *CredentialFile) { c.logger = l }
}

// LoadCredentialFile reads and parses the credential record at path.
func LoadCredentialFile(path string, opts ...CredentialOption) (*CredentialFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credential file: %w", err)
	}

	c := &CredentialFile{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	if err := json.Unmarshal(data, &c.user); err != nil {
		return nil, fmt.Errorf("parsing credential file %s: %w", path, err)
	}
	// Kept so fields this package does not know survive a rewrite.
	if err := json.Unmarshal(data, &c.raw); err != nil {
		return nil, fmt.Errorf("parsing credential file %s: %w", path, err)
	}

	if c.user.Token == "" && c.user.RefreshToken == "" {
		return nil, fmt.Errorf("credential file %s has neither token nor refresh_token", path)
	}

	return c, nil
}

// Path returns the file the credentials were loaded from.
func (c *CredentialFile) Path() string {
	return c.path
}

// OAuthConfig returns the client configuration used for refreshing.
func (c *CredentialFile) OAuthConfig() *oauth2.Config {
	endpoint := google.Endpoint
	if c.user.TokenURI != "" {
		endpoint.TokenURL = c.user.TokenURI
	}

	scopes := c.user.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	return &oauth2.Config{
		ClientID:     c.user.ClientID,
		ClientSecret: c.user.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}

// Token returns the stored token as an oauth2.Token.
func (c *CredentialFile) Token() *oauth2.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenLocked()
}

func (c *CredentialFile) tokenLocked() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.user.Token,
		TokenType:    "Bearer",
		RefreshToken: c.user.RefreshToken,
		Expiry:       parseExpiry(c.user.Expiry),
	}
}

// TokenSource returns a refreshing token source. The first token is fetched
// immediately, so an unusable credential fails here rather than on the first
// tool call. Refreshed tokens are written back to the file.
func (c *CredentialFile) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	initial := c.Token()

	base := c.OAuthConfig().TokenSource(ctx, initial)
	ts := oauth2.ReuseTokenSource(initial, &persistingTokenSource{
		ctx:     ctx,
		base:    base,
		file:    c,
		current: initial.AccessToken,
	})

	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("obtaining access token: %w", err)
	}

	return ts, nil
}

// persistingTokenSource saves every new access token produced by base.
type persistingTokenSource struct {
	ctx     context.Context
	base    oauth2.TokenSource
	file    *CredentialFile
	current string

	mu sync.Mutex
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.base.Token()
	if err != nil {
		p.file.recordRefresh(p.ctx, false)
		p.file.logger.Warn("credential refresh failed", logging.Err(err))
		return nil, err
	}

	if tok.AccessToken == p.current {
		return tok, nil
	}

	p.current = tok.AccessToken
	p.file.recordRefresh(p.ctx, true)
	p.file.logger.Debug("credential refreshed",
		slog.String("token", logging.SanitizeToken(tok.AccessToken)),
		slog.Time("expiry", tok.Expiry))

	if err := p.file.save(tok); err != nil {
		// The in-memory token still works; only persistence failed.
		p.file.logger.Warn("failed to persist refreshed credential", logging.Err(err))
	}

	return tok, nil
}

func (c *CredentialFile) recordRefresh(ctx context.Context, ok bool) {
	if c.observer == nil {
		return
	}
	result := instrumentation.RefreshResultSuccess
	if !ok {
		result = instrumentation.RefreshResultFailure
	}
	c.observer.RecordCredentialRefresh(ctx, result)
}

// save rewrites the credential file with tok, keeping unknown fields.
func (c *CredentialFile) save(tok *oauth2.Token) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user.Token = tok.AccessToken
	if tok.RefreshToken != "" {
		c.user.RefreshToken = tok.RefreshToken
	}
	c.user.Expiry = formatExpiry(tok.Expiry)

	if c.raw == nil {
		c.raw = make(map[string]any)
	}
	c.raw["token"] = c.user.Token
	c.raw["refresh_token"] = c.user.RefreshToken
	if c.user.Expiry != "" {
		c.raw["expiry"] = c.user.Expiry
	} else {
		delete(c.raw, "expiry")
	}

	data, err := json.MarshalIndent(c.raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credential file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("creating temporary credential file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting credential file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("replacing credential file: %w", err)
	}
	return nil
}

// parseExpiry accepts "2024-05-01T12:00:00Z", with or without fractional
// seconds or the trailing Z. All values are UTC. Unparseable input yields the
// zero time, which oauth2 treats as non-expiring.
func parseExpiry(s string) time.Time {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if s == "" {
		return time.Time{}
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(expiryLayout)
}
