// Package maps is the mapping client behind the get_directions,
// geocode_address and find_nearby_places tools.
//
// Client wraps googlemaps.github.io/maps with an API key. The mapper
// functions reduce upstream routes, geocoding results and places to the
// flat RouteSummary, GeocodeResult and PlaceSummary records.
package maps
