package maps_tools

import (
	"context"

	"github.com/teemow/inboxroute/internal/instrumentation"
	"github.com/teemow/inboxroute/internal/maps"
	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

// Messages for empty upstream answers.
const (
	msgNoDirections     = "No directions found"
	msgAddressNotFound  = "Address not found"
	msgLocationNotFound = "Location not found"
)

func directionsDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        DirectionsTool,
		Description: "Get directions between two locations",
		Service:     instrumentation.ServiceMaps,
		Operation:   instrumentation.OperationDirections,
		ReadOnly:    true,
		Params: []registry.Param{
			{Name: "origin", Kind: registry.KindString, Required: true, Description: "Starting location"},
			{Name: "destination", Kind: registry.KindString, Required: true, Description: "Destination location"},
			{
				Name:        "mode",
				Kind:        registry.KindString,
				Default:     "driving",
				Enum:        []string{"driving", "walking", "bicycling", "transit"},
				Description: "Travel mode (default: driving)",
			},
		},
	}
}

func geocodeDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        GeocodeTool,
		Description: "Geocode an address to get coordinates",
		Service:     instrumentation.ServiceMaps,
		Operation:   instrumentation.OperationGeocode,
		ReadOnly:    true,
		Params: []registry.Param{
			{Name: "address", Kind: registry.KindString, Required: true, Description: "Address to geocode"},
		},
	}
}

func nearbyPlacesDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        NearbyPlacesTool,
		Description: "Find nearby places around a location",
		Service:     instrumentation.ServiceMaps,
		Operation:   instrumentation.OperationSearch,
		ReadOnly:    true,
		Params: []registry.Param{
			{Name: "location", Kind: registry.KindString, Required: true, Description: "Location to search around"},
			{Name: "radius", Kind: registry.KindNumber, Default: maps.DefaultRadius, Description: "Search radius in meters (default: 5000)"},
			{Name: "place_type", Kind: registry.KindString, Description: "Type of place (e.g., 'restaurant', 'hotel', 'gas_station')"},
		},
	}
}

// placeList is the structured content of find_nearby_places.
type placeList struct {
	Location maps.GeocodeResult  `json:"location"`
	Places   []maps.PlaceSummary `json:"places"`
}

func mapsClient(sc *server.ServerContext) (server.MapsClient, error) {
	client := sc.Maps()
	if client == nil {
		return nil, &registry.NotInitializedError{Service: server.FamilyMaps}
	}
	return client, nil
}

func handleDirections(sc *server.ServerContext) registry.Handler {
	return func(ctx context.Context, args registry.Args) (registry.Result, error) {
		client, err := mapsClient(sc)
		if err != nil {
			return registry.Result{}, err
		}

		origin, err := args.String("origin")
		if err != nil {
			return registry.Result{}, err
		}
		destination, err := args.String("destination")
		if err != nil {
			return registry.Result{}, err
		}
		modeName, err := args.String("mode")
		if err != nil {
			return registry.Result{}, err
		}
		mode, err := maps.ParseMode(modeName)
		if err != nil {
			return registry.Result{}, &registry.ValidationError{Message: err.Error()}
		}

		routes, err := client.Directions(ctx, origin, destination, mode)
		if err != nil {
			return registry.Result{}, registry.Remote(instrumentation.ServiceMaps, err)
		}
		if len(routes) == 0 {
			return registry.Result{}, registry.NotFound(instrumentation.ServiceMaps, msgNoDirections)
		}

		route, err := maps.ToRouteSummary(routes[0])
		if err != nil {
			return registry.Result{}, &registry.MappingError{Record: "route", Err: err}
		}

		return registry.OkStructured(RenderRoute(route), route), nil
	}
}

func handleGeocode(sc *server.ServerContext) registry.Handler {
	return func(ctx context.Context, args registry.Args) (registry.Result, error) {
		client, err := mapsClient(sc)
		if err != nil {
			return registry.Result{}, err
		}

		address, err := args.String("address")
		if err != nil {
			return registry.Result{}, err
		}

		result, err := geocode(ctx, client, address, msgAddressNotFound)
		if err != nil {
			return registry.Result{}, err
		}

		return registry.OkStructured(RenderGeocode(result), result), nil
	}
}

func handleNearbyPlaces(sc *server.ServerContext) registry.Handler {
	return func(ctx context.Context, args registry.Args) (registry.Result, error) {
		client, err := mapsClient(sc)
		if err != nil {
			return registry.Result{}, err
		}

		location, err := args.String("location")
		if err != nil {
			return registry.Result{}, err
		}
		radius, err := args.Int("radius")
		if err != nil {
			return registry.Result{}, err
		}
		if radius < 1 {
			return registry.Result{}, &registry.ValidationError{Message: "radius must be at least 1"}
		}
		placeType, err := args.String("place_type")
		if err != nil {
			return registry.Result{}, err
		}

		center, err := geocode(ctx, client, location, msgLocationNotFound)
		if err != nil {
			return registry.Result{}, err
		}

		places, err := client.NearbySearch(ctx, center.LatLng(), uint(radius), placeType)
		if err != nil {
			return registry.Result{}, registry.Remote(instrumentation.ServiceMaps, err)
		}

		summaries := maps.ToPlaceSummaries(places)
		return registry.OkStructured(RenderPlaces(location, summaries), placeList{Location: center, Places: summaries}), nil
	}
}

// geocode resolves address to its first match, or fails with notFound.
func geocode(ctx context.Context, client server.MapsClient, address, notFound string) (maps.GeocodeResult, error) {
	results, err := client.Geocode(ctx, address)
	if err != nil {
		return maps.GeocodeResult{}, registry.Remote(instrumentation.ServiceMaps, err)
	}
	if len(results) == 0 {
		return maps.GeocodeResult{}, registry.NotFound(instrumentation.ServiceMaps, notFound)
	}
	return maps.ToGeocodeResult(results[0]), nil
}
