package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/fetch"
)

// ErrNoRoute is returned when the routing provider answers but cannot
// produce a route between the endpoints.
var ErrNoRoute = errors.New("no route between endpoints")

// ErrUnavailable wraps transient provider failures (timeouts, bad status)
// after retries are exhausted. Callers may retry these.
var ErrUnavailable = errors.New("upstream provider unavailable")

// RouteSource produces driving metrics between two coordinates.
type RouteSource interface {
	Route(ctx context.Context, pickup, destination domain.Coordinates) (*domain.RouteMetrics, error)
}

// OSRMRouter queries an OSRM-compatible routing endpoint through the
// resilient fetch client.
type OSRMRouter struct {
	baseURL string
	client  *fetch.Client
}

// NewOSRMRouter creates a router for the given base URL.
func NewOSRMRouter(baseURL string, client *fetch.Client) *OSRMRouter {
	return &OSRMRouter{baseURL: baseURL, client: client}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Route fetches driving metrics. A non-"Ok" code or an empty route list is
// a failure.
func (r *OSRMRouter) Route(ctx context.Context, pickup, destination domain.Coordinates) (*domain.RouteMetrics, error) {
	u := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		r.baseURL, pickup.Lon, pickup.Lat, destination.Lon, destination.Lat)

	var resp osrmResponse
	if err := r.client.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("route lookup: %w: %v", ErrUnavailable, err)
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return nil, fmt.Errorf("%w: code=%q routes=%d", ErrNoRoute, resp.Code, len(resp.Routes))
	}

	best := resp.Routes[0]
	return &domain.RouteMetrics{
		DistanceKm:          best.Distance / 1000,
		DurationMin:         best.Duration / 60,
		ProviderDurationSec: best.Duration,
	}, nil
}
