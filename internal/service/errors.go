package service

import "errors"

var (
	// ErrUnknownService is returned when a service has no configured rate
	// table. This is a configuration error and is never retried.
	ErrUnknownService = errors.New("unknown service type")

	// ErrAddressNotFound is returned when an address cannot be resolved to
	// coordinates. Callers should not retry; the address itself is the
	// problem, unlike a transient geocoder failure.
	ErrAddressNotFound = errors.New("address could not be resolved")

	// ErrInvalidPickup is returned when pickup coordinates are out of bounds
	// or outside the supported region.
	ErrInvalidPickup = errors.New("invalid pickup location")

	// ErrInvalidDestination is returned when destination coordinates are out
	// of bounds or outside the supported region.
	ErrInvalidDestination = errors.New("invalid destination location")

	// ErrEmptyAddress is returned when an address string is blank.
	ErrEmptyAddress = errors.New("address must not be empty")
)
