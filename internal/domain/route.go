package domain

// RouteMetrics describes a driving route between two points.
// Immutable once produced by the router or the straight-line estimator.
type RouteMetrics struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`

	// ProviderDurationSec is the router-reported duration used for the
	// traffic comparison. Zero means the router did not report one.
	ProviderDurationSec float64 `json:"provider_duration_sec,omitempty"`

	// Estimated is true when the metrics came from the straight-line
	// fallback rather than a routing provider.
	Estimated bool `json:"estimated,omitempty"`
}
