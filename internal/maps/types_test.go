package maps

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"googlemaps.github.io/maps"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "1 min"},
		{20 * time.Second, "1 min"},
		{61 * time.Second, "1 min"},
		{25 * time.Minute, "25 mins"},
		{25*time.Minute + 40*time.Second, "26 mins"},
		{time.Hour, "1 hour"},
		{time.Hour + 5*time.Minute, "1 hour 5 mins"},
		{2*time.Hour + time.Minute, "2 hours 1 min"},
		{24 * time.Hour, "1 day"},
		{51*time.Hour + 20*time.Minute, "2 days 3 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestToRouteSummary(t *testing.T) {
	route := maps.Route{Legs: []*maps.Leg{{
		StartAddress: "Berlin, Germany",
		EndAddress:   "Potsdam, Germany",
		Distance:     maps.Distance{HumanReadable: "35.2 km", Meters: 35200},
		Duration:     41 * time.Minute,
		Steps: []*maps.Step{
			{HTMLInstructions: "Head <b>west</b>", Distance: maps.Distance{HumanReadable: "0.2 km"}, Duration: time.Minute},
			nil,
			{HTMLInstructions: "Take the A115", Distance: maps.Distance{HumanReadable: "30 km"}, Duration: 22 * time.Minute},
		},
	}}}

	got, err := ToRouteSummary(route)
	if err != nil {
		t.Fatalf("ToRouteSummary() error = %v", err)
	}

	want := RouteSummary{
		StartAddress: "Berlin, Germany",
		EndAddress:   "Potsdam, Germany",
		Distance:     "35.2 km",
		Duration:     "41 mins",
		Steps: []RouteStep{
			{Instruction: "Head <b>west</b>", Distance: "0.2 km", Duration: "1 min"},
			{Instruction: "Take the A115", Distance: "30 km", Duration: "22 mins"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToRouteSummary() mismatch (-want +got):\n%s", diff)
	}
}

func TestToRouteSummary_NoLegs(t *testing.T) {
	_, err := ToRouteSummary(maps.Route{})
	assert.ErrorIs(t, err, ErrNoLegs)
}

func TestToPlaceSummary(t *testing.T) {
	tests := []struct {
		name  string
		place maps.PlacesSearchResult
		want  PlaceSummary
	}{
		{
			name:  "rated place",
			place: maps.PlacesSearchResult{Name: "Café", Vicinity: "Main St 1", Rating: 4.3, Types: []string{"cafe", "food"}, PlaceID: "p1"},
			want:  PlaceSummary{Name: "Café", Address: "Main St 1", Rating: "4.3", Types: []string{"cafe", "food"}, PlaceID: "p1"},
		},
		{
			name:  "unrated place",
			place: maps.PlacesSearchResult{Name: "Kiosk"},
			want:  PlaceSummary{Name: "Kiosk", Rating: "N/A"},
		},
		{
			name:  "formatted address fallback",
			place: maps.PlacesSearchResult{Name: "Park", FormattedAddress: "Park Ave, City", Rating: 5},
			want:  PlaceSummary{Name: "Park", Address: "Park Ave, City", Rating: "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ToPlaceSummary(tt.place)); diff != "" {
				t.Errorf("ToPlaceSummary() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToPlaceSummaries_PreservesOrder(t *testing.T) {
	got := ToPlaceSummaries([]maps.PlacesSearchResult{{Name: "B"}, {Name: "A"}, {Name: "C"}})
	assert.Equal(t, []string{"B", "A", "C"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestToGeocodeResult(t *testing.T) {
	r := maps.GeocodingResult{FormattedAddress: "1600 Amphitheatre Pkwy"}
	r.Geometry.Location = maps.LatLng{Lat: 37.422, Lng: -122.084}

	got := ToGeocodeResult(r)
	assert.Equal(t, GeocodeResult{Address: "1600 Amphitheatre Pkwy", Latitude: 37.422, Longitude: -122.084}, got)
	assert.Equal(t, maps.LatLng{Lat: 37.422, Lng: -122.084}, got.LatLng())
}
