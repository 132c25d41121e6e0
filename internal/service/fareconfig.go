package service

import (
	"fmt"
	"time"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
)

// ServiceRates is the static rate table for one service.
type ServiceRates struct {
	Base      float64
	PerMile   float64
	PerMinute float64
	Booking   float64
	Safety    float64
	MinFare   float64

	// SurgeCap bounds the surge multiplier for this service.
	SurgeCap float64

	// LongRideThresholdMiles triggers LongRideFee once trip distance in
	// miles meets or exceeds it.
	LongRideThresholdMiles float64
	LongRideFee            float64

	// Wait/availability heuristics used by the comparison layer.
	WaitBaseMinutes int
	WaitMaxMinutes  int
	DriversBase     int

	// Geofenced services are only offered when both endpoints fall inside
	// the service area.
	Geofenced bool
}

// Airport is a point-radius airport match with its pickup/drop-off fees.
type Airport struct {
	Code      string
	Center    domain.Coordinates
	RadiusKm  float64
	PickupFee float64
	DropFee   float64
}

// slotsPerDay is the number of 30-minute surge schedule slots.
const slotsPerDay = 48

// SurgeSchedule maps each 30-minute slot of a day to a base multiplier.
type SurgeSchedule [slotsPerDay]float64

// FareModel is the full static pricing configuration, loaded once at
// process start and validated. Never hot-reloaded.
type FareModel struct {
	Rates map[domain.ServiceType]ServiceRates

	WeekdaySurge SurgeSchedule
	WeekendSurge SurgeSchedule

	// Airport route surge modifiers, applied on top of the schedule when
	// the route touches an airport.
	AirportLateNightModifier float64
	AirportPeakModifier      float64
	AirportRouteModifier     float64

	Airports []Airport

	// Downtown surcharge zone; the amount is scaled by time-of-day class.
	Downtown          domain.BoundingBox
	DowntownSurcharge float64

	// ServiceAreas restrict geofenced services to routes whose endpoints
	// all fall inside one of the boxes.
	ServiceAreas map[domain.ServiceType][]domain.BoundingBox
}

// DefaultFareModel returns the SF Bay Area pricing configuration.
func DefaultFareModel() *FareModel {
	m := &FareModel{
		Rates: map[domain.ServiceType]ServiceRates{
			domain.ServiceUber: {
				Base: 2.55, PerMile: 1.75, PerMinute: 0.35,
				Booking: 2.75, Safety: 0.75, MinFare: 8.75,
				SurgeCap:               3.0,
				LongRideThresholdMiles: 20, LongRideFee: 5.00,
				WaitBaseMinutes: 4, WaitMaxMinutes: 18, DriversBase: 8,
			},
			domain.ServiceLyft: {
				Base: 2.30, PerMile: 1.65, PerMinute: 0.33,
				Booking: 2.95, Safety: 0.70, MinFare: 8.25,
				SurgeCap:               3.0,
				LongRideThresholdMiles: 20, LongRideFee: 4.50,
				WaitBaseMinutes: 5, WaitMaxMinutes: 18, DriversBase: 7,
			},
			domain.ServiceTaxi: {
				Base: 4.15, PerMile: 2.85, PerMinute: 0.55,
				Booking: 0, Safety: 0, MinFare: 10.00,
				SurgeCap:               1.5,
				LongRideThresholdMiles: 25, LongRideFee: 6.00,
				WaitBaseMinutes: 8, WaitMaxMinutes: 22, DriversBase: 4,
			},
			domain.ServiceWaymo: {
				Base: 3.00, PerMile: 1.90, PerMinute: 0.40,
				Booking: 1.95, Safety: 0, MinFare: 9.50,
				SurgeCap:               2.0,
				LongRideThresholdMiles: 18, LongRideFee: 4.00,
				WaitBaseMinutes: 6, WaitMaxMinutes: 22, DriversBase: 3,
				Geofenced: true,
			},
		},

		WeekdaySurge: buildSchedule([]scheduleBand{
			{startHour: 6.5, endHour: 7, multiplier: 1.3},
			{startHour: 7, endHour: 9, multiplier: 1.75},
			{startHour: 17, endHour: 19, multiplier: 1.8},
			{startHour: 19, endHour: 20, multiplier: 1.3},
			{startHour: 23, endHour: 24, multiplier: 1.25},
			{startHour: 0, endHour: 5, multiplier: 1.25},
		}),
		WeekendSurge: buildSchedule([]scheduleBand{
			{startHour: 10, endHour: 14, multiplier: 1.2},
			{startHour: 20, endHour: 24, multiplier: 1.6},
			{startHour: 0, endHour: 2, multiplier: 1.6},
			{startHour: 2, endHour: 3, multiplier: 1.8},
		}),

		AirportLateNightModifier: 1.25,
		AirportPeakModifier:      1.15,
		AirportRouteModifier:     1.1,

		Airports: []Airport{
			// SFO carries its own fee pair; the others use the generic fee.
			{Code: "SFO", Center: domain.Coordinates{Lon: -122.3892, Lat: 37.6213}, RadiusKm: 3.5, PickupFee: 5.50, DropFee: 5.25},
			{Code: "OAK", Center: domain.Coordinates{Lon: -122.2197, Lat: 37.7126}, RadiusKm: 3.0, PickupFee: genericAirportFee, DropFee: genericAirportFee},
			{Code: "SJC", Center: domain.Coordinates{Lon: -121.9290, Lat: 37.3639}, RadiusKm: 3.0, PickupFee: genericAirportFee, DropFee: genericAirportFee},
		},

		Downtown: domain.BoundingBox{
			MinLon: -122.425, MinLat: 37.770,
			MaxLon: -122.380, MaxLat: 37.800,
		},
		DowntownSurcharge: 2.25,

		ServiceAreas: map[domain.ServiceType][]domain.BoundingBox{
			domain.ServiceWaymo: {
				// San Francisco proper.
				{MinLon: -122.52, MinLat: 37.70, MaxLon: -122.35, MaxLat: 37.82},
				// Phoenix-style expansion left out; peninsula corridor.
				{MinLon: -122.20, MinLat: 37.35, MaxLon: -121.95, MaxLat: 37.50},
			},
		},
	}
	return m
}

const genericAirportFee = 3.50

type scheduleBand struct {
	startHour  float64
	endHour    float64
	multiplier float64
}

// buildSchedule fills a 48-slot schedule with 1.0 and overlays the bands.
func buildSchedule(bands []scheduleBand) SurgeSchedule {
	var s SurgeSchedule
	for i := range s {
		s[i] = 1.0
	}
	for _, b := range bands {
		start := int(b.startHour * 2)
		end := int(b.endHour * 2)
		for slot := start; slot < end && slot < slotsPerDay; slot++ {
			s[slot] = b.multiplier
		}
	}
	return s
}

// slotFor returns the 30-minute slot index for a timestamp.
func slotFor(t time.Time) int {
	return t.Hour()*2 + t.Minute()/30
}

// scheduleMultiplier returns the scheduled base surge for a timestamp.
func (m *FareModel) scheduleMultiplier(t time.Time) float64 {
	if isWeekend(t) {
		return m.WeekendSurge[slotFor(t)]
	}
	return m.WeekdaySurge[slotFor(t)]
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// RatesFor returns the rate table for a service.
func (m *FareModel) RatesFor(service domain.ServiceType) (ServiceRates, bool) {
	r, ok := m.Rates[service]
	return r, ok
}

// Validate checks the model for internally inconsistent configuration.
func (m *FareModel) Validate() error {
	if len(m.Rates) == 0 {
		return fmt.Errorf("fare model: no service rate tables")
	}
	for svc, r := range m.Rates {
		if r.Base <= 0 || r.PerMile <= 0 || r.PerMinute <= 0 {
			return fmt.Errorf("fare model: %s has non-positive core rates", svc)
		}
		if r.MinFare <= 0 {
			return fmt.Errorf("fare model: %s has non-positive minimum fare", svc)
		}
		if r.SurgeCap < 1.0 {
			return fmt.Errorf("fare model: %s surge cap below 1.0", svc)
		}
		if r.LongRideThresholdMiles <= 0 || r.LongRideFee < 0 {
			return fmt.Errorf("fare model: %s has invalid long-ride config", svc)
		}
		if r.WaitBaseMinutes <= 0 || r.WaitMaxMinutes < r.WaitBaseMinutes {
			return fmt.Errorf("fare model: %s has invalid wait heuristics", svc)
		}
		if r.Geofenced && len(m.ServiceAreas[svc]) == 0 {
			return fmt.Errorf("fare model: %s is geofenced but has no service area", svc)
		}
	}
	for _, sched := range []SurgeSchedule{m.WeekdaySurge, m.WeekendSurge} {
		for slot, mult := range sched {
			if mult < 1.0 {
				return fmt.Errorf("fare model: surge schedule slot %d below 1.0", slot)
			}
		}
	}
	for _, a := range m.Airports {
		if !a.Center.Valid() || a.RadiusKm <= 0 {
			return fmt.Errorf("fare model: airport %s has invalid geometry", a.Code)
		}
		if a.PickupFee <= 0 || a.DropFee <= 0 {
			return fmt.Errorf("fare model: airport %s has invalid fees", a.Code)
		}
	}
	return nil
}

// AirportByCode returns the airport definition for a code, if configured.
func (m *FareModel) AirportByCode(code string) (Airport, bool) {
	for _, a := range m.Airports {
		if a.Code == code {
			return a, true
		}
	}
	return Airport{}, false
}
