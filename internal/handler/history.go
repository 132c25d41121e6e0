package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/redis"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/repository"
)

// SearchHistory reads back the capped search log.
type SearchHistory interface {
	Recent(ctx context.Context, n int) ([]redis.SearchEntry, error)
}

// HistoryHandler serves persisted comparison snapshots and the recent
// search log. Either collaborator may be nil when its backing store is
// disabled; the affected endpoints then answer 503.
type HistoryHandler struct {
	snapshots repository.SnapshotRepository
	searches  SearchHistory
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(snapshots repository.SnapshotRepository, searches SearchHistory) *HistoryHandler {
	return &HistoryHandler{snapshots: snapshots, searches: searches}
}

// RecentComparisons handles GET /v1/history/comparisons.
func (h *HistoryHandler) RecentComparisons(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "snapshot persistence is disabled"})
		return
	}

	limit := parseLimit(c.Query("limit"), 20)
	snapshots, err := h.snapshots.GetRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comparisons": snapshots})
}

// ComparisonByID handles GET /v1/history/comparisons/:id.
func (h *HistoryHandler) ComparisonByID(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "snapshot persistence is disabled"})
		return
	}

	snapshot, err := h.snapshots.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// RecentSearches handles GET /v1/history/searches.
func (h *HistoryHandler) RecentSearches(c *gin.Context) {
	if h.searches == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "search log is disabled"})
		return
	}

	limit := parseLimit(c.Query("limit"), 20)
	entries, err := h.searches.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"searches": entries})
}

func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
