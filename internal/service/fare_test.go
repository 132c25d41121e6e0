package service

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
)

var (
	// Mission District, San Francisco. Inside the downtown surcharge box.
	missionCoords = domain.Coordinates{Lon: -122.4194, Lat: 37.7749}
	// SFO airport center.
	sfoCoords = domain.Coordinates{Lon: -122.3892, Lat: 37.6213}
	// OAK airport center.
	oakCoords = domain.Coordinates{Lon: -122.2197, Lat: 37.7126}
	// East SF residential point: outside downtown box and all airports.
	plainCoords = domain.Coordinates{Lon: -122.30, Lat: 37.74}
)

// Thursday, 2024-06-27.
func thursdayAt(hour, minute int) time.Time {
	return time.Date(2024, 6, 27, hour, minute, 0, 0, time.UTC)
}

// Saturday, 2024-06-29.
func saturdayAt(hour, minute int) time.Time {
	return time.Date(2024, 6, 29, hour, minute, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T) *FareEngine {
	t.Helper()
	model := DefaultFareModel()
	if err := model.Validate(); err != nil {
		t.Fatalf("default fare model invalid: %v", err)
	}
	return NewFareEngine(model)
}

func plainRequest(service domain.ServiceType) FareRequest {
	return FareRequest{
		Service:     service,
		Pickup:      plainCoords,
		Destination: domain.Coordinates{Lon: -122.28, Lat: 37.80},
		DistanceKm:  8,
		DurationMin: 18,
		At:          thursdayAt(14, 30),
	}
}

func TestCalculateFare_UnknownService(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.CalculateFare(plainRequest(domain.ServiceType("hovercraft")))
	if !errors.Is(err, ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
}

func TestCalculateFare_Deterministic(t *testing.T) {
	engine := newTestEngine(t)
	req := FareRequest{
		Service:             domain.ServiceUber,
		Pickup:              missionCoords,
		Destination:         sfoCoords,
		DistanceKm:          25,
		DurationMin:         35,
		At:                  thursdayAt(18, 15),
		ProviderDurationSec: 2500,
		ExpectedDurationSec: 2100,
	}

	first, err := engine.CalculateFare(req)
	if err != nil {
		t.Fatalf("CalculateFare: %v", err)
	}
	second, err := engine.CalculateFare(req)
	if err != nil {
		t.Fatalf("CalculateFare: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different outputs:\n%+v\n%+v", first, second)
	}
}

func TestCalculateFare_Invariants(t *testing.T) {
	engine := newTestEngine(t)
	model := DefaultFareModel()

	timestamps := []time.Time{
		thursdayAt(3, 0), thursdayAt(8, 15), thursdayAt(14, 30),
		thursdayAt(18, 15), thursdayAt(23, 45),
		saturdayAt(1, 30), saturdayAt(12, 0), saturdayAt(21, 15),
	}
	distances := []float64{0.5, 8, 26, 60}

	for _, svc := range domain.AllServices() {
		rates := model.Rates[svc]
		for _, at := range timestamps {
			for _, dist := range distances {
				req := FareRequest{
					Service:             svc,
					Pickup:              missionCoords,
					Destination:         sfoCoords,
					DistanceKm:          dist,
					DurationMin:         dist * 1.6,
					At:                  at,
					ProviderDurationSec: dist * 1.6 * 60 * 1.4,
					ExpectedDurationSec: dist * 1.6 * 60,
				}
				result, err := engine.CalculateFare(req)
				if err != nil {
					t.Fatalf("%s at %v: %v", svc, at, err)
				}

				b := result.Breakdown
				if result.Price < rates.MinFare-0.001 {
					t.Errorf("%s at %v dist=%.1f: price %.2f below min fare %.2f", svc, at, dist, result.Price, rates.MinFare)
				}
				if b.SurgeMultiplier < 1.0 || b.SurgeMultiplier > rates.SurgeCap {
					t.Errorf("%s at %v: surge %.3f outside [1.0, %.1f]", svc, at, b.SurgeMultiplier, rates.SurgeCap)
				}
				if b.TrafficMultiplier < 1.0 || b.TrafficMultiplier > 2.0 {
					t.Errorf("%s at %v: traffic %.3f outside [1.0, 2.0]", svc, at, b.TrafficMultiplier)
				}
				if result.Confidence < 0.5 || result.Confidence > 0.9 {
					t.Errorf("%s at %v: confidence %.2f outside [0.5, 0.9]", svc, at, result.Confidence)
				}
				if !b.MinFareApplied {
					sum := b.Subtotal + b.SurgeFee + b.TrafficFee
					if math.Abs(b.FinalFare-sum) > 1e-9 {
						t.Errorf("%s at %v: final %.6f != subtotal+surge+traffic %.6f", svc, at, b.FinalFare, sum)
					}
				}
			}
		}
	}
}

func TestCalculateFare_MinimumFareFloor(t *testing.T) {
	engine := newTestEngine(t)

	req := plainRequest(domain.ServiceUber)
	req.DistanceKm = 0.3
	req.DurationMin = 2

	result, err := engine.CalculateFare(req)
	if err != nil {
		t.Fatalf("CalculateFare: %v", err)
	}
	if !result.Breakdown.MinFareApplied {
		t.Error("expected minimum fare floor to apply")
	}
	if result.Price != 8.75 {
		t.Errorf("expected min fare 8.75, got %.2f", result.Price)
	}
}

func TestCalculateFare_AirportFees(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("no airport", func(t *testing.T) {
		result, err := engine.CalculateFare(plainRequest(domain.ServiceUber))
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		if result.Breakdown.AirportFees != 0 {
			t.Errorf("expected zero airport fees, got %.2f", result.Breakdown.AirportFees)
		}
	})

	t.Run("pickup at SFO uses its own fee", func(t *testing.T) {
		req := plainRequest(domain.ServiceUber)
		req.Pickup = sfoCoords
		result, err := engine.CalculateFare(req)
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		if result.Breakdown.AirportFees != 5.50 {
			t.Errorf("expected SFO pickup fee 5.50, got %.2f", result.Breakdown.AirportFees)
		}
	})

	t.Run("airport to airport sums both sides", func(t *testing.T) {
		req := plainRequest(domain.ServiceUber)
		req.Pickup = sfoCoords
		req.Destination = oakCoords
		result, err := engine.CalculateFare(req)
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		want := 5.50 + 3.50
		if math.Abs(result.Breakdown.AirportFees-want) > 1e-9 {
			t.Errorf("expected airport fees %.2f, got %.2f", want, result.Breakdown.AirportFees)
		}
	})
}

func TestCalculateFare_LongRideFee(t *testing.T) {
	engine := newTestEngine(t)

	// Uber's threshold is 20 miles (~32.19 km).
	t.Run("below threshold", func(t *testing.T) {
		req := plainRequest(domain.ServiceUber)
		req.DistanceKm = 30
		result, err := engine.CalculateFare(req)
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		if result.Breakdown.LongRideFee != 0 {
			t.Errorf("expected no long-ride fee at 30 km, got %.2f", result.Breakdown.LongRideFee)
		}
	})

	t.Run("at threshold", func(t *testing.T) {
		req := plainRequest(domain.ServiceUber)
		req.DistanceKm = 33
		result, err := engine.CalculateFare(req)
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		if result.Breakdown.LongRideFee != 5.00 {
			t.Errorf("expected long-ride fee 5.00 at 33 km, got %.2f", result.Breakdown.LongRideFee)
		}
	})
}

func TestCalculateFare_SurgeSchedule(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("rush hour", func(t *testing.T) {
		req := plainRequest(domain.ServiceUber)
		req.At = thursdayAt(18, 15)
		result, err := engine.CalculateFare(req)
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		if result.Breakdown.SurgeMultiplier <= 1.5 {
			t.Errorf("expected rush-hour surge > 1.5, got %.2f", result.Breakdown.SurgeMultiplier)
		}
		if result.SurgeReason != reasonPeakHours {
			t.Errorf("expected reason %q, got %q", reasonPeakHours, result.SurgeReason)
		}
	})

	t.Run("off peak", func(t *testing.T) {
		req := plainRequest(domain.ServiceUber)
		req.At = thursdayAt(14, 30)
		result, err := engine.CalculateFare(req)
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		if result.Breakdown.SurgeMultiplier > 1.1 {
			t.Errorf("expected off-peak surge <= 1.1, got %.2f", result.Breakdown.SurgeMultiplier)
		}
		if result.SurgeReason != reasonStandard {
			t.Errorf("expected reason %q, got %q", reasonStandard, result.SurgeReason)
		}
	})

	t.Run("taxi surge capped at 1.5", func(t *testing.T) {
		req := plainRequest(domain.ServiceTaxi)
		req.At = thursdayAt(18, 15)
		result, err := engine.CalculateFare(req)
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		if result.Breakdown.SurgeMultiplier != 1.5 {
			t.Errorf("expected taxi surge capped at 1.5, got %.2f", result.Breakdown.SurgeMultiplier)
		}
	})
}

func TestCalculateFare_SurgeReasonPrecedence(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name   string
		pickup domain.Coordinates
		dest   domain.Coordinates
		at     time.Time
		want   string
	}{
		{"airport late night", plainCoords, sfoCoords, thursdayAt(23, 30), reasonAirportLateNight},
		{"airport peak", plainCoords, sfoCoords, thursdayAt(8, 0), reasonAirportPeak},
		{"airport off peak", plainCoords, sfoCoords, thursdayAt(15, 0), reasonAirportRoute},
		{"late night only", plainCoords, domain.Coordinates{Lon: -122.28, Lat: 37.80}, thursdayAt(23, 30), reasonLateNight},
		{"peak only", plainCoords, domain.Coordinates{Lon: -122.28, Lat: 37.80}, thursdayAt(8, 0), reasonPeakHours},
		{"standard", plainCoords, domain.Coordinates{Lon: -122.28, Lat: 37.80}, thursdayAt(14, 30), reasonStandard},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := engine.CalculateFare(FareRequest{
				Service:     domain.ServiceUber,
				Pickup:      tc.pickup,
				Destination: tc.dest,
				DistanceKm:  15,
				DurationMin: 25,
				At:          tc.at,
			})
			if err != nil {
				t.Fatalf("CalculateFare: %v", err)
			}
			if result.SurgeReason != tc.want {
				t.Errorf("expected reason %q, got %q", tc.want, result.SurgeReason)
			}
		})
	}
}

func TestCalculateFare_TrafficBuckets(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name        string
		providerSec float64
		expectedSec float64
		wantMult    float64
		wantLevel   domain.TrafficLevel
	}{
		{"both absent", 0, 0, 1.0, domain.TrafficLight},
		{"provider absent", 0, 2100, 1.0, domain.TrafficLight},
		{"expected absent", 2100, 0, 1.0, domain.TrafficLight},
		{"light", 2100, 2100, 1.0, domain.TrafficLight},
		{"moderate", 2520, 2100, 1.15, domain.TrafficModerate},
		{"heavy", 3150, 2100, 1.35, domain.TrafficHeavy},
		{"severe", 4500, 2100, 1.6, domain.TrafficSevere},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := plainRequest(domain.ServiceUber)
			req.ProviderDurationSec = tc.providerSec
			req.ExpectedDurationSec = tc.expectedSec
			result, err := engine.CalculateFare(req)
			if err != nil {
				t.Fatalf("CalculateFare: %v", err)
			}
			if result.Breakdown.TrafficMultiplier != tc.wantMult {
				t.Errorf("expected traffic multiplier %.2f, got %.2f", tc.wantMult, result.Breakdown.TrafficMultiplier)
			}
			if result.Breakdown.TrafficLevel != tc.wantLevel {
				t.Errorf("expected traffic level %q, got %q", tc.wantLevel, result.Breakdown.TrafficLevel)
			}
		})
	}
}

func TestCalculateFare_DowntownSurcharge(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"business hours half", thursdayAt(10, 0), 2.25 * 0.5},
		{"nightlife scaled up", thursdayAt(21, 0), 2.25 * 1.2},
		{"dead hours zero", thursdayAt(3, 0), 0},
		{"normal hours full", thursdayAt(6, 0), 2.25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := engine.CalculateFare(FareRequest{
				Service:     domain.ServiceUber,
				Pickup:      missionCoords, // inside downtown box
				Destination: plainCoords,
				DistanceKm:  8,
				DurationMin: 18,
				At:          tc.at,
			})
			if err != nil {
				t.Fatalf("CalculateFare: %v", err)
			}
			if math.Abs(result.Breakdown.LocationSurcharge-tc.want) > 1e-9 {
				t.Errorf("expected surcharge %.3f, got %.3f", tc.want, result.Breakdown.LocationSurcharge)
			}
		})
	}
}

func TestCalculateFare_Confidence(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("clean trip keeps full confidence", func(t *testing.T) {
		result, err := engine.CalculateFare(plainRequest(domain.ServiceUber))
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		if result.Confidence != 0.9 {
			t.Errorf("expected confidence 0.9, got %.2f", result.Confidence)
		}
	})

	t.Run("stacked penalties floor at 0.5", func(t *testing.T) {
		// Peak airport surge (>2.0), heavy traffic, very long trip.
		result, err := engine.CalculateFare(FareRequest{
			Service:             domain.ServiceUber,
			Pickup:              plainCoords,
			Destination:         sfoCoords,
			DistanceKm:          60,
			DurationMin:         70,
			At:                  thursdayAt(7, 30),
			ProviderDurationSec: 70 * 60 * 1.5,
			ExpectedDurationSec: 70 * 60,
		})
		if err != nil {
			t.Fatalf("CalculateFare: %v", err)
		}
		if result.Confidence != 0.5 {
			t.Errorf("expected floored confidence 0.5, got %.2f", result.Confidence)
		}
	})
}

func TestFareModel_ValidateRejectsBadConfig(t *testing.T) {
	model := DefaultFareModel()
	rates := model.Rates[domain.ServiceUber]
	rates.SurgeCap = 0.5
	model.Rates[domain.ServiceUber] = rates

	if err := model.Validate(); err == nil {
		t.Error("expected validation error for surge cap below 1.0")
	}
}
