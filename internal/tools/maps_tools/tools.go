package maps_tools

import (
	"fmt"

	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

// Tool names.
const (
	DirectionsTool   = "get_directions"
	GeocodeTool      = "geocode_address"
	NearbyPlacesTool = "find_nearby_places"
)

// Register adds the Maps tools to reg.
func Register(reg *registry.Registry, sc *server.ServerContext) error {
	tools := []struct {
		desc    registry.Descriptor
		handler registry.Handler
	}{
		{directionsDescriptor(), handleDirections(sc)},
		{geocodeDescriptor(), handleGeocode(sc)},
		{nearbyPlacesDescriptor(), handleNearbyPlaces(sc)},
	}

	for _, t := range tools {
		if err := reg.Register(t.desc, t.handler); err != nil {
			return fmt.Errorf("failed to register %s: %w", t.desc.Name, err)
		}
	}
	return nil
}
