package geo

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
)

// GoogleGeocoder resolves addresses through the Google Maps Geocoding API.
// Selected via GEO_PROVIDER=google when an API key is available.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder creates a geocoder with the given API key.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

// Search returns up to three candidate coordinates for the address.
func (g *GoogleGeocoder) Search(ctx context.Context, address string) ([]domain.Coordinates, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w: %v", address, ErrUnavailable, err)
	}

	coords := make([]domain.Coordinates, 0, 3)
	for _, r := range results {
		coords = append(coords, domain.Coordinates{
			Lon: r.Geometry.Location.Lng,
			Lat: r.Geometry.Location.Lat,
		})
		if len(coords) == 3 {
			break
		}
	}
	return coords, nil
}
