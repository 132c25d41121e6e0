package service

import (
	"fmt"
	"math"
	"time"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/geo"
)

const milesPerKm = 0.621371

// Surge reason strings, in precedence order.
const (
	reasonAirportLateNight = "Airport route with late-night demand"
	reasonAirportPeak      = "Airport route during peak commute hours"
	reasonAirportRoute     = "Airport route"
	reasonLateNight        = "Late-night demand"
	reasonPeakHours        = "Peak commute hours"
	reasonStandard         = "Standard pricing"
)

// FareEngine turns trip parameters into an itemized price. It is stateless:
// identical inputs always produce identical outputs.
type FareEngine struct {
	model *FareModel
}

// NewFareEngine creates an engine over a validated fare model.
func NewFareEngine(model *FareModel) *FareEngine {
	return &FareEngine{model: model}
}

// FareRequest carries the inputs for one fare computation. Distance and
// duration are treated as best-effort; validation happens upstream at the
// handler/orchestrator boundary.
type FareRequest struct {
	Service     domain.ServiceType
	Pickup      domain.Coordinates
	Destination domain.Coordinates
	DistanceKm  float64
	DurationMin float64
	At          time.Time

	// ProviderDurationSec and ExpectedDurationSec feed the traffic
	// comparison. Zero means absent; with either absent the traffic
	// multiplier is exactly 1.0.
	ProviderDurationSec float64
	ExpectedDurationSec float64
}

// CalculateFare computes the itemized fare for one service. It fails only
// when the service has no configured rate table.
func (e *FareEngine) CalculateFare(req FareRequest) (*domain.PricingResult, error) {
	rates, ok := e.model.RatesFor(req.Service)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, req.Service)
	}

	miles := req.DistanceKm * milesPerKm

	var b domain.PricingBreakdown
	b.BaseFare = rates.Base
	b.DistanceFee = rates.PerMile * miles
	b.TimeFee = rates.PerMinute * req.DurationMin
	b.BookingFee = rates.Booking
	b.SafetyFee = rates.Safety
	b.AirportFees = e.airportFees(req.Pickup, req.Destination)
	b.LocationSurcharge = e.locationSurcharge(req.Pickup, req.Destination, req.At)
	if miles >= rates.LongRideThresholdMiles {
		b.LongRideFee = rates.LongRideFee
	}

	b.Subtotal = b.BaseFare + b.DistanceFee + b.TimeFee + b.BookingFee +
		b.SafetyFee + b.AirportFees + b.LocationSurcharge + b.LongRideFee

	airportRoute := b.AirportFees > 0
	var reason string
	b.SurgeMultiplier, reason = e.surgeMultiplier(req.At, airportRoute, rates.SurgeCap)

	b.TrafficMultiplier, b.TrafficLevel = trafficMultiplier(req.ProviderDurationSec, req.ExpectedDurationSec)

	b.SurgeFee = b.Subtotal * (b.SurgeMultiplier - 1)
	b.TrafficFee = (b.Subtotal + b.SurgeFee) * (b.TrafficMultiplier - 1)

	total := b.Subtotal + b.SurgeFee + b.TrafficFee
	if total < rates.MinFare {
		total = rates.MinFare
		b.MinFareApplied = true
	}
	b.FinalFare = total

	return &domain.PricingResult{
		Service:     req.Service,
		Price:       roundCents(total),
		Breakdown:   b,
		SurgeReason: reason,
		Confidence:  confidence(b.SurgeMultiplier, b.TrafficMultiplier, req.DistanceKm, req.At),
	}, nil
}

// airportFees sums the pickup-side and drop-off-side airport fees. Each
// endpoint is matched against the configured point-radius airports.
func (e *FareEngine) airportFees(pickup, destination domain.Coordinates) float64 {
	total := 0.0
	if a, ok := e.matchAirport(pickup); ok {
		total += a.PickupFee
	}
	if a, ok := e.matchAirport(destination); ok {
		total += a.DropFee
	}
	return total
}

func (e *FareEngine) matchAirport(c domain.Coordinates) (Airport, bool) {
	for _, a := range e.model.Airports {
		if geo.HaversineKm(c, a.Center) <= a.RadiusKm {
			return a, true
		}
	}
	return Airport{}, false
}

// locationSurcharge applies the downtown surcharge scaled by time-of-day
// class: half during business hours, 1.2x during nightlife hours, zero in
// the dead early-morning window, full otherwise.
func (e *FareEngine) locationSurcharge(pickup, destination domain.Coordinates, at time.Time) float64 {
	if !pickup.InBox(e.model.Downtown) && !destination.InBox(e.model.Downtown) {
		return 0
	}
	base := e.model.DowntownSurcharge
	hour := at.Hour()
	switch {
	case hour >= 9 && hour < 17:
		return base * 0.5
	case hour >= 20 || hour < 2:
		return base * 1.2
	case hour >= 2 && hour < 5:
		return 0
	default:
		return base
	}
}

// surgeMultiplier looks up the 30-minute-slot schedule, applies the airport
// location modifier, and caps at the service maximum. Exactly one reason is
// returned, by precedence: airport late-night, airport peak, airport route,
// late night, peak hours, standard.
func (e *FareEngine) surgeMultiplier(at time.Time, airportRoute bool, cap float64) (float64, string) {
	mult := e.model.scheduleMultiplier(at)

	lateNight := isLateNight(at)
	peak := isPeakCommute(at)

	reason := reasonStandard
	switch {
	case airportRoute && lateNight:
		mult *= e.model.AirportLateNightModifier
		reason = reasonAirportLateNight
	case airportRoute && peak:
		mult *= e.model.AirportPeakModifier
		reason = reasonAirportPeak
	case airportRoute:
		mult *= e.model.AirportRouteModifier
		reason = reasonAirportRoute
	case lateNight:
		reason = reasonLateNight
	case peak:
		reason = reasonPeakHours
	}

	if mult < 1.0 {
		mult = 1.0
	}
	if mult > cap {
		mult = cap
	}
	return mult, reason
}

// isLateNight reports the 23:00-05:00 window.
func isLateNight(t time.Time) bool {
	h := t.Hour()
	return h >= 23 || h < 5
}

// isPeakCommute reports weekday 7-9 and 17-19 windows.
func isPeakCommute(t time.Time) bool {
	if isWeekend(t) {
		return false
	}
	h := t.Hour()
	return (h >= 7 && h < 9) || (h >= 17 && h < 19)
}

// trafficMultiplier buckets the actual/expected duration ratio into four
// discrete multipliers. With either input absent it is exactly 1.0,
// never a guess.
func trafficMultiplier(providerSec, expectedSec float64) (float64, domain.TrafficLevel) {
	if providerSec <= 0 || expectedSec <= 0 {
		return 1.0, domain.TrafficLight
	}
	ratio := providerSec / expectedSec
	switch {
	case ratio <= 1.1:
		return 1.0, domain.TrafficLight
	case ratio <= 1.3:
		return 1.15, domain.TrafficModerate
	case ratio <= 1.6:
		return 1.35, domain.TrafficHeavy
	default:
		return 1.6, domain.TrafficSevere
	}
}

// confidence starts at 0.9 and is penalized for surge severity, traffic,
// trip distance, and late-night timing; floored at 0.5. Within the surge
// and distance bands only the larger penalty applies.
func confidence(surge, traffic, distanceKm float64, at time.Time) float64 {
	score := 0.9

	switch {
	case surge > 2.0:
		score -= 0.15
	case surge > 1.5:
		score -= 0.10
	}
	if traffic > 1.3 {
		score -= 0.10
	}
	switch {
	case distanceKm > 50:
		score -= 0.15
	case distanceKm > 25:
		score -= 0.10
	}
	if h := at.Hour(); h >= 1 && h <= 5 {
		score -= 0.10
	}

	if score < 0.5 {
		score = 0.5
	}
	return score
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
