package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/geo"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/repository"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes. Address
// resolution failures map to 422 so clients can tell "fix your input" from
// transient upstream trouble (502), which is worth retrying.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrAddressNotFound):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrEmptyAddress),
		errors.Is(err, service.ErrInvalidPickup),
		errors.Is(err, service.ErrInvalidDestination),
		errors.Is(err, service.ErrUnknownService):
		return http.StatusBadRequest

	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, geo.ErrNoRoute),
		errors.Is(err, geo.ErrUnavailable):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
