// Package maps_tools provides the Google Maps tools of the MCP server:
//
//   - get_directions: the first route between two places
//   - geocode_address: coordinates of an address
//   - find_nearby_places: places around a location, optionally of one type
//
// All three are read-only. find_nearby_places geocodes its location first and
// does not search when the location cannot be resolved.
package maps_tools
