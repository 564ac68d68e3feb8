package maps

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"googlemaps.github.io/maps"
)

// RatingUnavailable is shown for places without a rating.
const RatingUnavailable = "N/A"

// ErrNoLegs is returned for a route that carries no legs.
var ErrNoLegs = errors.New("route has no legs")

// RouteSummary is the first leg of a route, reduced for display.
type RouteSummary struct {
	StartAddress string      `json:"start_address"`
	EndAddress   string      `json:"end_address"`
	Distance     string      `json:"distance"`
	Duration     string      `json:"duration"`
	Steps        []RouteStep `json:"steps"`
}

// RouteStep is a single turn instruction. Instruction keeps the upstream
// HTML markup.
type RouteStep struct {
	Instruction string `json:"instruction"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
}

// GeocodeResult is a resolved address with its coordinates.
type GeocodeResult struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LatLng returns the coordinates in the client library's form.
func (g GeocodeResult) LatLng() maps.LatLng {
	return maps.LatLng{Lat: g.Latitude, Lng: g.Longitude}
}

// PlaceSummary is a nearby place reduced for display.
type PlaceSummary struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Rating  string   `json:"rating"`
	Types   []string `json:"types"`
	PlaceID string   `json:"place_id,omitempty"`
}

// ToRouteSummary reduces route to its first leg.
func ToRouteSummary(route maps.Route) (RouteSummary, error) {
	if len(route.Legs) == 0 || route.Legs[0] == nil {
		return RouteSummary{}, ErrNoLegs
	}
	leg := route.Legs[0]

	s := RouteSummary{
		StartAddress: leg.StartAddress,
		EndAddress:   leg.EndAddress,
		Distance:     leg.Distance.HumanReadable,
		Duration:     FormatDuration(leg.Duration),
		Steps:        make([]RouteStep, 0, len(leg.Steps)),
	}
	for _, step := range leg.Steps {
		if step == nil {
			continue
		}
		s.Steps = append(s.Steps, RouteStep{
			Instruction: step.HTMLInstructions,
			Distance:    step.Distance.HumanReadable,
			Duration:    FormatDuration(step.Duration),
		})
	}

	return s, nil
}

// ToGeocodeResult takes the formatted address and location of r.
func ToGeocodeResult(r maps.GeocodingResult) GeocodeResult {
	return GeocodeResult{
		Address:   r.FormattedAddress,
		Latitude:  r.Geometry.Location.Lat,
		Longitude: r.Geometry.Location.Lng,
	}
}

// ToPlaceSummary normalizes p. The address is the vicinity, falling back to
// the formatted address; a zero rating becomes RatingUnavailable.
func ToPlaceSummary(p maps.PlacesSearchResult) PlaceSummary {
	s := PlaceSummary{
		Name:    p.Name,
		Address: p.Vicinity,
		Rating:  RatingUnavailable,
		Types:   p.Types,
		PlaceID: p.PlaceID,
	}
	if s.Address == "" {
		s.Address = p.FormattedAddress
	}
	if p.Rating > 0 {
		s.Rating = strconv.FormatFloat(float64(p.Rating), 'f', -1, 32)
	}
	return s
}

// ToPlaceSummaries normalizes places, preserving order.
func ToPlaceSummaries(places []maps.PlacesSearchResult) []PlaceSummary {
	out := make([]PlaceSummary, 0, len(places))
	for _, p := range places {
		out = append(out, ToPlaceSummary(p))
	}
	return out
}

// FormatDuration renders d the way the Directions API does in its text
// fields: "1 min", "25 mins", "1 hour 5 mins", "2 days 3 hours".
func FormatDuration(d time.Duration) string {
	mins := int((d + 30*time.Second) / time.Minute)
	if mins < 1 {
		mins = 1
	}

	days, hours := mins/(24*60), (mins/60)%24
	mins %= 60

	switch {
	case days > 0:
		if hours == 0 {
			return plural(days, "day")
		}
		return plural(days, "day") + " " + plural(hours, "hour")
	case hours > 0:
		if mins == 0 {
			return plural(hours, "hour")
		}
		return plural(hours, "hour") + " " + plural(mins, "min")
	default:
		return plural(mins, "min")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
