package domain

import "time"

// ComparisonSnapshot is the persisted record of a completed comparison.
// Written fire-and-forget after a comparison is served; never read on the
// request path.
type ComparisonSnapshot struct {
	ID              string    `json:"id"`
	Pickup          string    `json:"pickup"`
	Destination     string    `json:"destination"`
	PickupLat       float64   `json:"pickup_lat"`
	PickupLng       float64   `json:"pickup_lng"`
	DestinationLat  float64   `json:"destination_lat"`
	DestinationLng  float64   `json:"destination_lng"`
	ResultsJSON     []byte    `json:"results,omitempty"` // per-service estimates, serialized
	Recommendation  string    `json:"recommendation"`
	SurgeMultiplier float64   `json:"surge_multiplier"`
	CreatedAt       time.Time `json:"created_at"`
}
