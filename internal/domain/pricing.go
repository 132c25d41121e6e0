package domain

// TrafficLevel classifies congestion derived from actual vs expected duration.
type TrafficLevel string

const (
	TrafficLight    TrafficLevel = "light"
	TrafficModerate TrafficLevel = "moderate"
	TrafficHeavy    TrafficLevel = "heavy"
	TrafficSevere   TrafficLevel = "severe"
)

// PricingBreakdown itemizes every fee and factor that went into a fare.
// Computed once; never mutated afterwards.
type PricingBreakdown struct {
	BaseFare          float64 `json:"base_fare"`
	DistanceFee       float64 `json:"distance_fee"`
	TimeFee           float64 `json:"time_fee"`
	BookingFee        float64 `json:"booking_fee"`
	SafetyFee         float64 `json:"safety_fee"`
	AirportFees       float64 `json:"airport_fees"`
	LocationSurcharge float64 `json:"location_surcharge"`
	LongRideFee       float64 `json:"long_ride_fee"`

	Subtotal float64 `json:"subtotal"`

	SurgeMultiplier   float64      `json:"surge_multiplier"`
	SurgeFee          float64      `json:"surge_fee"`
	TrafficMultiplier float64      `json:"traffic_multiplier"`
	TrafficLevel      TrafficLevel `json:"traffic_level"`
	TrafficFee        float64      `json:"traffic_fee"`

	FinalFare      float64 `json:"final_fare"`
	MinFareApplied bool    `json:"min_fare_applied"`
}

// PricingResult is the fare engine output for a single service.
type PricingResult struct {
	Service     ServiceType      `json:"service"`
	Price       float64          `json:"price"` // rounded to cents
	Breakdown   PricingBreakdown `json:"breakdown"`
	SurgeReason string           `json:"surge_reason"`
	Confidence  float64          `json:"confidence"` // in [0.5, 0.9]
}
