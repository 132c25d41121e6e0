package geo

import (
	"math"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
)

const (
	earthRadiusKm = 6371.0

	// roadFactor inflates straight-line distance to approximate road distance.
	roadFactor = 1.3

	// citySpeedKmph is the assumed average city driving speed, used only by
	// the fallback estimator.
	citySpeedKmph = 25.0
)

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(a, b domain.Coordinates) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// EstimateRouteMetrics produces straight-line fallback metrics when no
// routing provider is reachable. Distance is haversine times a road factor;
// duration assumes city driving speed.
func EstimateRouteMetrics(a, b domain.Coordinates) domain.RouteMetrics {
	distanceKm := HaversineKm(a, b) * roadFactor
	durationMin := distanceKm / citySpeedKmph * 60

	if durationMin < 5 {
		durationMin = 5
	}
	return domain.RouteMetrics{
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Estimated:   true,
	}
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
