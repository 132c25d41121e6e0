package domain

import "testing"

func TestCoordinates_Valid(t *testing.T) {
	cases := []struct {
		name string
		c    Coordinates
		want bool
	}{
		{"san francisco", Coordinates{Lon: -122.4194, Lat: 37.7749}, true},
		{"latitude out of range", Coordinates{Lon: 0, Lat: 91}, false},
		{"longitude out of range", Coordinates{Lon: -181, Lat: 37}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCoordinates_InServiceRegion(t *testing.T) {
	sf := Coordinates{Lon: -122.4194, Lat: 37.7749}
	if !sf.InServiceRegion() {
		t.Error("expected San Francisco to be inside the service region")
	}

	paris := Coordinates{Lon: 2.3522, Lat: 48.8566}
	if paris.InServiceRegion() {
		t.Error("expected Paris to be outside the service region")
	}

	if (Coordinates{}).InServiceRegion() {
		t.Error("expected the zero value to be outside the service region")
	}
}

func TestParseServiceType(t *testing.T) {
	cases := []struct {
		in   string
		want ServiceType
		ok   bool
	}{
		{"uber", ServiceUber, true},
		{"  UBER ", ServiceUber, true},
		{"Waymo", ServiceWaymo, true},
		{"rickshaw", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseServiceType(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseServiceType(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDefaultServices_ExcludesGeofenced(t *testing.T) {
	for _, svc := range DefaultServices() {
		if svc == ServiceWaymo {
			t.Error("default service set must not include geofenced services")
		}
	}
}
