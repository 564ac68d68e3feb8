package maps_tools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teemow/inboxroute/internal/maps"
)

var placeSeparator = strings.Repeat("-", 30)

// RenderRoute formats the get_directions text. Step instructions keep their
// HTML markup.
func RenderRoute(r maps.RouteSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Directions from %s to %s:\n", r.StartAddress, r.EndAddress)
	fmt.Fprintf(&b, "Distance: %s\n", r.Distance)
	fmt.Fprintf(&b, "Duration: %s\n\n", r.Duration)
	b.WriteString("Steps:\n")
	for i, step := range r.Steps {
		fmt.Fprintf(&b, "%d. %s (%s, %s)\n", i+1, step.Instruction, step.Distance, step.Duration)
	}
	return b.String()
}

// RenderGeocode formats the geocode_address text.
func RenderGeocode(g maps.GeocodeResult) string {
	return fmt.Sprintf("Address: %s\nLatitude: %s\nLongitude: %s\n",
		g.Address, formatCoordinate(g.Latitude), formatCoordinate(g.Longitude))
}

// RenderPlaces formats the find_nearby_places text for the location as the
// caller wrote it.
func RenderPlaces(location string, places []maps.PlaceSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nearby places around %s:\n\n", location)
	for _, p := range places {
		fmt.Fprintf(&b, "Name: %s\n", p.Name)
		fmt.Fprintf(&b, "Address: %s\n", p.Address)
		fmt.Fprintf(&b, "Rating: %s\n", p.Rating)
		fmt.Fprintf(&b, "Types: %s\n", strings.Join(p.Types, ", "))
		b.WriteString(placeSeparator)
		b.WriteByte('\n')
	}
	return b.String()
}

// formatCoordinate prints the shortest round-tripping decimal, keeping one
// fractional digit for whole degrees: 40 renders as "40.0".
func formatCoordinate(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
