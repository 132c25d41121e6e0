package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/handler"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/middleware"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/ratelimit"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ComparisonHandler *handler.ComparisonHandler
	HistoryHandler    *handler.HistoryHandler
	Limiter           *ratelimit.Limiter
	NewRelicApp       *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered. The rate
// limiter runs ahead of the comparison routes so rejected requests never
// reach the orchestrator.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	if deps.Limiter != nil {
		v1.Use(middleware.RateLimitMiddleware(deps.Limiter))
	}
	{
		comparisons := v1.Group("/comparisons")
		{
			comparisons.POST("", deps.ComparisonHandler.CompareByAddresses)
			comparisons.POST("/coordinates", deps.ComparisonHandler.CompareByCoordinates)
			comparisons.POST("/quick", deps.ComparisonHandler.QuickEstimate)
		}

		history := v1.Group("/history")
		{
			history.GET("/comparisons", deps.HistoryHandler.RecentComparisons)
			history.GET("/comparisons/:id", deps.HistoryHandler.ComparisonByID)
			history.GET("/searches", deps.HistoryHandler.RecentSearches)
		}
	}

	return router
}
