package google

import (
	"context"
	"crypto/tls"
	"net/http"
	"slices"
	"time"

	"golang.org/x/oauth2"
)

// NewHTTPClient returns an HTTP client that authorizes every request with a
// token from ts. A positive timeout bounds each request.
//
// The base transport is a clone of http.DefaultTransport, so proxy settings,
// dial and handshake timeouts carry over. An empty TLSNextProto map keeps it
// on HTTP/1.1 to avoid HTTP/2 stream errors seen with long-lived connections
// to the Google APIs.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource, timeout time.Duration) *http.Client {
	client := oauth2.NewClient(ctx, ts)
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = http1Transport()
	}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return client
}

func http1Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ForceAttemptHTTP2 = false
	t.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	// A default transport that already served HTTP/2 advertises h2 via ALPN.
	if t.TLSClientConfig != nil {
		t.TLSClientConfig.NextProtos = slices.DeleteFunc(slices.Clone(t.TLSClientConfig.NextProtos), func(p string) bool {
			return p == "h2"
		})
	}
	return t
}
