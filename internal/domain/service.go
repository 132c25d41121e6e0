package domain

import "strings"

// ServiceType identifies a ride-hailing service we can price.
type ServiceType string

const (
	ServiceUber  ServiceType = "uber"
	ServiceLyft  ServiceType = "lyft"
	ServiceTaxi  ServiceType = "taxi"
	ServiceWaymo ServiceType = "waymo"
)

// AllServices lists every configured service.
func AllServices() []ServiceType {
	return []ServiceType{ServiceUber, ServiceLyft, ServiceTaxi, ServiceWaymo}
}

// DefaultServices is the fallback set used when eligibility filtering
// removes everything a caller asked for. It excludes geofenced services.
func DefaultServices() []ServiceType {
	return []ServiceType{ServiceUber, ServiceLyft, ServiceTaxi}
}

// ParseServiceType normalizes a free-form service name.
func ParseServiceType(s string) (ServiceType, bool) {
	switch ServiceType(strings.ToLower(strings.TrimSpace(s))) {
	case ServiceUber:
		return ServiceUber, true
	case ServiceLyft:
		return ServiceLyft, true
	case ServiceTaxi:
		return ServiceTaxi, true
	case ServiceWaymo:
		return ServiceWaymo, true
	default:
		return "", false
	}
}

// Display returns the human-readable service name.
func (s ServiceType) Display() string {
	switch s {
	case ServiceUber:
		return "Uber"
	case ServiceLyft:
		return "Lyft"
	case ServiceTaxi:
		return "Taxi"
	case ServiceWaymo:
		return "Waymo"
	default:
		return string(s)
	}
}
