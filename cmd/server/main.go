package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/app"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/config"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/fetch"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/geo"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/handler"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/ratelimit"
	internalRedis "github.com/mattleonard16/ridecomparsion-sub001/internal/redis"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/repository"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/repository/postgres"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so database/redis can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Fare model and engine.
	model := service.DefaultFareModel()
	if err := model.Validate(); err != nil {
		log.Fatalf("invalid fare model: %v", err)
	}
	engine := service.NewFareEngine(model)

	// External providers behind the resilient fetch client.
	fetchClient := fetch.New(cfg.Fetch.MaxAttempts, cfg.Fetch.Timeout)
	geocoder, err := newGeocoder(cfg.Geo, fetchClient)
	if err != nil {
		log.Fatalf("failed to create geocoder: %v", err)
	}
	router := geo.NewOSRMRouter(cfg.Geo.OSRMURL, fetchClient)

	// Optional fire-and-forget persistence collaborators.
	deps := service.ComparisonDeps{
		Engine:   engine,
		Model:    model,
		Geocoder: geocoder,
		Router:   router,
	}
	var historySnapshots repository.SnapshotRepository
	var searchHistory handler.SearchHistory
	if cfg.Database.Enabled {
		db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewSnapshotRepository(db)
		deps.Snapshots = repo
		historySnapshots = repo
		log.Println("Connected to PostgreSQL (snapshot persistence)")
	}
	if cfg.Redis.Enabled {
		redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		store := internalRedis.NewSearchLogStore(redisClient)
		deps.SearchLog = store
		searchHistory = store
		log.Println("Connected to Redis (search log)")
	}

	comparisons := service.NewComparisonService(deps, service.DefaultComparisonConfig())

	// Admission control.
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(ratelimit.DefaultConfig())
	}

	// Router and HTTP server.
	ginRouter := app.NewRouter(app.RouterDeps{
		ComparisonHandler: handler.NewComparisonHandler(comparisons),
		HistoryHandler:    handler.NewHistoryHandler(historySnapshots, searchHistory),
		Limiter:           limiter,
		NewRelicApp:       nrApp,
	})
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      ginRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// newGeocoder selects the configured geocoding provider.
func newGeocoder(cfg config.GeoConfig, client *fetch.Client) (geo.Geocoder, error) {
	switch cfg.Provider {
	case "google":
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("GEO_PROVIDER=google requires GOOGLE_MAPS_API_KEY")
		}
		return geo.NewGoogleGeocoder(cfg.GoogleAPIKey)
	case "nominatim", "":
		return geo.NewNominatimGeocoder(cfg.NominatimURL, client), nil
	default:
		return nil, fmt.Errorf("unknown geo provider %q", cfg.Provider)
	}
}
