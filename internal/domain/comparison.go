package domain

import "time"

// SurgeInfo summarizes the demand situation across a comparison.
type SurgeInfo struct {
	Multiplier float64 `json:"multiplier"`
	Reason     string  `json:"reason"`
	Active     bool    `json:"active"`
}

// ServiceEstimate is one service's entry in a comparison.
type ServiceEstimate struct {
	Service       ServiceType      `json:"service"`
	DisplayName   string           `json:"display_name"`
	Price         string           `json:"price"` // formatted, e.g. "$23.45"
	PriceAmount   float64          `json:"price_amount"`
	Breakdown     PricingBreakdown `json:"breakdown"`
	SurgeReason   string           `json:"surge_reason"`
	Confidence    float64          `json:"confidence"`
	WaitMinutes   int              `json:"wait_minutes"`
	DriversNearby int              `json:"drivers_nearby"`
}

// ComparisonComputation is the aggregate answer to "compare these services
// for this trip".
type ComparisonComputation struct {
	Pickup            string        `json:"pickup"`
	Destination       string        `json:"destination"`
	PickupCoords      Coordinates   `json:"pickup_coords"`
	DestinationCoords Coordinates   `json:"destination_coords"`
	Route             RouteMetrics  `json:"route"`

	Results []ServiceEstimate `json:"results"`
	Surge   SurgeInfo         `json:"surge"`

	Recommendation     string `json:"recommendation"`
	TimeRecommendation string `json:"time_recommendation"`
	Insight            string `json:"insight"`

	GeneratedAt time.Time `json:"generated_at"`
}
