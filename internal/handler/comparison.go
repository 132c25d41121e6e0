package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/service"
)

// ComparisonHandler exposes the comparison orchestrator over HTTP.
type ComparisonHandler struct {
	comparisons *service.ComparisonService
}

// NewComparisonHandler creates a new ComparisonHandler.
func NewComparisonHandler(comparisons *service.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{comparisons: comparisons}
}

// CompareByAddressesRequest is the address-based comparison payload.
type CompareByAddressesRequest struct {
	Pickup      string   `json:"pickup" binding:"required"`
	Destination string   `json:"destination" binding:"required"`
	Services    []string `json:"services"`
	Timestamp   string   `json:"timestamp"` // RFC 3339; defaults to now
}

// CompareByCoordinatesRequest is the coordinate-based comparison payload.
type CompareByCoordinatesRequest struct {
	Pickup      domain.Coordinates `json:"pickup" binding:"required"`
	Destination domain.Coordinates `json:"destination" binding:"required"`
	Services    []string           `json:"services"`
	Timestamp   string             `json:"timestamp"`
}

// CompareByAddresses handles POST /v1/comparisons.
func (h *ComparisonHandler) CompareByAddresses(c *gin.Context) {
	var req CompareByAddressesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	at, err := parseTimestamp(req.Timestamp)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid timestamp: " + err.Error()})
		return
	}

	comp, err := h.comparisons.CompareByAddresses(c.Request.Context(), req.Pickup, req.Destination, req.Services, at,
		service.CompareOptions{FilterByEligibility: true})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comp)
}

// CompareByCoordinates handles POST /v1/comparisons/coordinates.
func (h *ComparisonHandler) CompareByCoordinates(c *gin.Context) {
	var req CompareByCoordinatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	at, err := parseTimestamp(req.Timestamp)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid timestamp: " + err.Error()})
		return
	}

	comp, err := h.comparisons.CompareByCoordinates(c.Request.Context(), req.Pickup, req.Destination, req.Services, at,
		service.CompareOptions{FilterByEligibility: true})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comp)
}

// QuickEstimate handles POST /v1/comparisons/quick: straight-line metrics,
// no routing provider involved.
func (h *ComparisonHandler) QuickEstimate(c *gin.Context) {
	var req CompareByCoordinatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	at, err := parseTimestamp(req.Timestamp)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid timestamp: " + err.Error()})
		return
	}

	comp, err := h.comparisons.QuickEstimate(c.Request.Context(), req.Pickup, req.Destination, req.Services, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comp)
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil // Orchestrator defaults to now.
	}
	return time.Parse(time.RFC3339, raw)
}
