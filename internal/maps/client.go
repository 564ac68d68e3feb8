package maps

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/teemow/inboxroute/internal/instrumentation"
)

// DefaultRadius is the nearby search radius in meters when none is given.
const DefaultRadius = 5000

// Client wraps the Maps platform web services.
type Client struct {
	api     *maps.Client
	metrics *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client, *[]maps.ClientOption)

// WithBaseURL overrides the Maps API base URL.
func WithBaseURL(url string) Option {
	return func(_ *Client, opts *[]maps.ClientOption) {
		*opts = append(*opts, maps.WithBaseURL(url))
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(_ *Client, opts *[]maps.ClientOption) {
		*opts = append(*opts, maps.WithHTTPClient(hc))
	}
}

// WithMetrics records every API call on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client, _ *[]maps.ClientOption) { c.metrics = m }
}

// NewClient creates a Maps client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("maps API key is empty")
	}

	c := &Client{}
	mapsOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	for _, opt := range opts {
		opt(c, &mapsOpts)
	}

	api, err := maps.NewClient(mapsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Maps client: %w", err)
	}
	c.api = api

	return c, nil
}

// Directions returns the routes from origin to destination for mode.
// An empty slice means no route exists.
func (c *Client) Directions(ctx context.Context, origin, destination string, mode maps.Mode) (routes []maps.Route, err error) {
	ctx, span := instrumentation.StartRemoteSpan(ctx, instrumentation.ServiceMaps, instrumentation.OperationDirections)
	start := time.Now()
	defer func() {
		c.record(ctx, instrumentation.OperationDirections, start, err)
		instrumentation.EndRemoteSpan(span, err)
	}()

	routes, _, err = c.api.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        mode,
	})
	if isZeroResults(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return routes, nil
}

// Geocode resolves a free-text address. An empty slice means no match.
func (c *Client) Geocode(ctx context.Context, address string) (results []maps.GeocodingResult, err error) {
	ctx, span := instrumentation.StartRemoteSpan(ctx, instrumentation.ServiceMaps, instrumentation.OperationGeocode)
	start := time.Now()
	defer func() {
		c.record(ctx, instrumentation.OperationGeocode, start, err)
		instrumentation.EndRemoteSpan(span, err)
	}()

	results, err = c.api.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if isZeroResults(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// NearbySearch lists places within radius meters of location, optionally
// restricted to placeType.
func (c *Client) NearbySearch(ctx context.Context, location maps.LatLng, radius uint, placeType string) (places []maps.PlacesSearchResult, err error) {
	ctx, span := instrumentation.StartRemoteSpan(ctx, instrumentation.ServiceMaps, instrumentation.OperationSearch)
	start := time.Now()
	defer func() {
		c.record(ctx, instrumentation.OperationSearch, start, err)
		instrumentation.EndRemoteSpan(span, err)
	}()

	if radius == 0 {
		radius = DefaultRadius
	}

	res, err := c.api.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &location,
		Radius:   radius,
		Type:     maps.PlaceType(placeType),
	})
	if isZeroResults(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

func (c *Client) record(ctx context.Context, operation string, start time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordRemoteAPIOperation(ctx, instrumentation.ServiceMaps, operation, status, time.Since(start))
}

// isZeroResults reports whether err is the ZERO_RESULTS status, which is
// an empty answer rather than a failure.
func isZeroResults(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ZERO_RESULTS")
}

// Travel modes accepted by ParseMode.
var travelModes = []maps.Mode{
	maps.TravelModeDriving,
	maps.TravelModeWalking,
	maps.TravelModeBicycling,
	maps.TravelModeTransit,
}

// ParseMode validates a travel mode name. Empty means driving.
func ParseMode(s string) (maps.Mode, error) {
	if s == "" {
		return maps.TravelModeDriving, nil
	}
	for _, m := range travelModes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	names := make([]string, len(travelModes))
	for i, m := range travelModes {
		names[i] = string(m)
	}
	return "", fmt.Errorf("invalid mode %q: must be one of %s", s, strings.Join(names, ", "))
}
