// Package geo holds the external geocoding and routing collaborators plus
// the straight-line fallback estimator.
package geo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/fetch"
)

// Geocoder resolves a free-form address to candidate coordinates. An empty
// result set means the address is unknown; an error means the provider was
// unreachable.
type Geocoder interface {
	Search(ctx context.Context, address string) ([]domain.Coordinates, error)
}

// NominatimGeocoder resolves addresses against a Nominatim-compatible
// endpoint through the resilient fetch client.
type NominatimGeocoder struct {
	baseURL string
	client  *fetch.Client
}

// NewNominatimGeocoder creates a geocoder for the given base URL.
func NewNominatimGeocoder(baseURL string, client *fetch.Client) *NominatimGeocoder {
	return &NominatimGeocoder{baseURL: baseURL, client: client}
}

// nominatimResult is the subset of the search response we consume.
// Nominatim reports coordinates as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Search returns up to three candidate coordinates for the address.
func (g *NominatimGeocoder) Search(ctx context.Context, address string) ([]domain.Coordinates, error) {
	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=3", g.baseURL, url.QueryEscape(address))

	var results []nominatimResult
	if err := g.client.GetJSON(ctx, u, &results); err != nil {
		return nil, fmt.Errorf("geocode %q: %w: %v", address, ErrUnavailable, err)
	}

	coords := make([]domain.Coordinates, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		coords = append(coords, domain.Coordinates{Lon: lon, Lat: lat})
	}
	return coords, nil
}
