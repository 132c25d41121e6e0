package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/cache"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/geo"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/repository"
)

// SearchLogger records route searches fire-and-forget.
type SearchLogger interface {
	LogSearch(ctx context.Context, pickup, destination string) error
}

// ComparisonConfig tunes the orchestrator's caches.
type ComparisonConfig struct {
	GeocodeTTL       time.Duration
	RouteTTL         time.Duration
	ResultTTL        time.Duration
	PopularResultTTL time.Duration
	CacheCapacity    int

	// PopularRoutes lists normalized "pickup|destination" keys whose
	// comparisons are cached with PopularResultTTL.
	PopularRoutes []string
}

// DefaultComparisonConfig returns the production cache settings.
func DefaultComparisonConfig() ComparisonConfig {
	return ComparisonConfig{
		GeocodeTTL:       24 * time.Hour,
		RouteTTL:         5 * time.Minute,
		ResultTTL:        45 * time.Second,
		PopularResultTTL: 10 * time.Minute,
		CacheCapacity:    500,
		PopularRoutes: []string{
			"mission district, san francisco|sfo",
			"downtown san francisco|sfo",
			"union square, san francisco|sfo",
		},
	}
}

// ComparisonDeps carries the orchestrator's collaborators. Snapshots and
// SearchLog may be nil; persistence is optional and fire-and-forget.
type ComparisonDeps struct {
	Engine    *FareEngine
	Model     *FareModel
	Geocoder  geo.Geocoder
	Router    geo.RouteSource
	Snapshots repository.SnapshotRepository
	SearchLog SearchLogger
}

// ComparisonService answers "compare these services for this trip". It owns
// the geocode, route-metrics, and comparison caches; instances are
// constructed once at process start and injected, never ambient globals.
type ComparisonService struct {
	engine    *FareEngine
	model     *FareModel
	geocoder  geo.Geocoder
	router    geo.RouteSource
	snapshots repository.SnapshotRepository
	searchLog SearchLogger

	geocodeCache    *cache.Cache[domain.Coordinates]
	routeCache      *cache.Cache[domain.RouteMetrics]
	comparisonCache *cache.Cache[*domain.ComparisonComputation]

	resultTTL        time.Duration
	popularResultTTL time.Duration
	popularRoutes    map[string]struct{}
}

// NewComparisonService creates a comparison orchestrator.
func NewComparisonService(deps ComparisonDeps, cfg ComparisonConfig) *ComparisonService {
	popular := make(map[string]struct{}, len(cfg.PopularRoutes))
	for _, r := range cfg.PopularRoutes {
		popular[r] = struct{}{}
	}
	return &ComparisonService{
		engine:           deps.Engine,
		model:            deps.Model,
		geocoder:         deps.Geocoder,
		router:           deps.Router,
		snapshots:        deps.Snapshots,
		searchLog:        deps.SearchLog,
		geocodeCache:     cache.New[domain.Coordinates](cfg.GeocodeTTL, cfg.CacheCapacity),
		routeCache:       cache.New[domain.RouteMetrics](cfg.RouteTTL, cfg.CacheCapacity),
		comparisonCache:  cache.New[*domain.ComparisonComputation](cfg.ResultTTL, cfg.CacheCapacity),
		resultTTL:        cfg.ResultTTL,
		popularResultTTL: cfg.PopularResultTTL,
		popularRoutes:    popular,
	}
}

// CompareOptions tunes one comparison request.
type CompareOptions struct {
	// FilterByEligibility drops services whose route falls outside their
	// service area. When filtering empties the list, the default service
	// set minus geofenced services is used instead.
	FilterByEligibility bool
}

// CompareByAddresses resolves both addresses to coordinates and compares.
// An unresolvable address yields ErrAddressNotFound; transient geocoder
// failures surface as-is so callers can retry them.
func (s *ComparisonService) CompareByAddresses(ctx context.Context, pickupAddr, destAddr string, services []string, at time.Time, opts CompareOptions) (*domain.ComparisonComputation, error) {
	if strings.TrimSpace(pickupAddr) == "" || strings.TrimSpace(destAddr) == "" {
		return nil, ErrEmptyAddress
	}

	cacheKey := normalizeAddress(pickupAddr) + "|" + normalizeAddress(destAddr)
	if comp, ok := s.comparisonCache.Get(cacheKey); ok {
		return comp, nil
	}

	pickup, err := s.resolveAddress(ctx, pickupAddr)
	if err != nil {
		return nil, fmt.Errorf("pickup: %w", err)
	}
	dest, err := s.resolveAddress(ctx, destAddr)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	comp, err := s.CompareByCoordinates(ctx, pickup, dest, services, at, opts)
	if err != nil {
		return nil, err
	}
	comp.Pickup = pickupAddr
	comp.Destination = destAddr

	ttl := s.resultTTL
	if _, popular := s.popularRoutes[cacheKey]; popular {
		ttl = s.popularResultTTL
	}
	s.comparisonCache.SetTTL(cacheKey, comp, ttl)

	s.persistAsync(comp)
	return comp, nil
}

// CompareByCoordinates computes fares for every eligible service between
// two coordinates at the given time.
func (s *ComparisonService) CompareByCoordinates(ctx context.Context, pickup, dest domain.Coordinates, services []string, at time.Time, opts CompareOptions) (*domain.ComparisonComputation, error) {
	if !pickup.InServiceRegion() {
		return nil, ErrInvalidPickup
	}
	if !dest.InServiceRegion() {
		return nil, ErrInvalidDestination
	}
	if at.IsZero() {
		at = time.Now()
	}

	requested := normalizeServices(services)
	eligible := requested
	if opts.FilterByEligibility {
		eligible = s.filterEligible(requested, pickup, dest)
	}

	metrics, err := s.routeMetrics(ctx, pickup, dest)
	if err != nil {
		return nil, err
	}

	return s.compute(pickup, dest, eligible, at, metrics)
}

// QuickEstimate compares services using the straight-line fallback
// estimator instead of the routing provider. Used by callers that need an
// answer even when routing is down; accuracy is correspondingly lower.
func (s *ComparisonService) QuickEstimate(ctx context.Context, pickup, dest domain.Coordinates, services []string, at time.Time) (*domain.ComparisonComputation, error) {
	if !pickup.InServiceRegion() {
		return nil, ErrInvalidPickup
	}
	if !dest.InServiceRegion() {
		return nil, ErrInvalidDestination
	}
	if at.IsZero() {
		at = time.Now()
	}
	metrics := geo.EstimateRouteMetrics(pickup, dest)
	return s.compute(pickup, dest, s.filterEligible(normalizeServices(services), pickup, dest), at, &metrics)
}

// compute runs the fare engine per service and aggregates the result.
func (s *ComparisonService) compute(pickup, dest domain.Coordinates, services []domain.ServiceType, at time.Time, metrics *domain.RouteMetrics) (*domain.ComparisonComputation, error) {
	estimates := make([]domain.ServiceEstimate, 0, len(services))
	for _, svc := range services {
		result, err := s.engine.CalculateFare(FareRequest{
			Service:             svc,
			Pickup:              pickup,
			Destination:         dest,
			DistanceKm:          metrics.DistanceKm,
			DurationMin:         metrics.DurationMin,
			At:                  at,
			ProviderDurationSec: metrics.ProviderDurationSec,
			ExpectedDurationSec: metrics.DurationMin * 60,
		})
		if err != nil {
			return nil, err
		}

		rates, _ := s.model.RatesFor(svc)
		wait := estimateWait(rates, result.Breakdown.SurgeMultiplier, metrics.DurationMin)
		estimates = append(estimates, domain.ServiceEstimate{
			Service:       svc,
			DisplayName:   svc.Display(),
			Price:         fmt.Sprintf("$%.2f", result.Price),
			PriceAmount:   result.Price,
			Breakdown:     result.Breakdown,
			SurgeReason:   result.SurgeReason,
			Confidence:    result.Confidence,
			WaitMinutes:   wait,
			DriversNearby: estimateDrivers(rates, result.Breakdown.SurgeMultiplier, metrics.DistanceKm),
		})
	}

	comp := &domain.ComparisonComputation{
		PickupCoords:      pickup,
		DestinationCoords: dest,
		Route:             *metrics,
		Results:           estimates,
		Surge:             surgeSummary(estimates),
		GeneratedAt:       time.Now().UTC(),
	}
	comp.Recommendation = recommendation(estimates)
	comp.TimeRecommendation = timeRecommendation(at)
	comp.Insight = insight(estimates, comp.Surge)
	return comp, nil
}

// resolveAddress turns an address into coordinates: airport-code fast path,
// then geocode cache, then the external geocoder.
func (s *ComparisonService) resolveAddress(ctx context.Context, address string) (domain.Coordinates, error) {
	if airport, ok := s.model.AirportByCode(strings.ToUpper(strings.TrimSpace(address))); ok {
		return airport.Center, nil
	}

	key := normalizeAddress(address)
	if coords, ok := s.geocodeCache.Get(key); ok {
		return coords, nil
	}

	candidates, err := s.geocoder.Search(ctx, address)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if len(candidates) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w: %q", ErrAddressNotFound, address)
	}

	coords := candidates[0]
	s.geocodeCache.Set(key, coords)
	return coords, nil
}

// routeMetrics is the cache-or-fetch path for route metrics. A router
// failure after retries propagates; nothing is fabricated here.
func (s *ComparisonService) routeMetrics(ctx context.Context, pickup, dest domain.Coordinates) (*domain.RouteMetrics, error) {
	key := routeKey(pickup, dest)
	if metrics, ok := s.routeCache.Get(key); ok {
		return &metrics, nil
	}

	metrics, err := s.router.Route(ctx, pickup, dest)
	if err != nil {
		return nil, err
	}
	s.routeCache.Set(key, *metrics)
	return metrics, nil
}

// filterEligible drops geofenced services whose route leaves their service
// area, falling back to the default non-geofenced set rather than returning
// zero results.
func (s *ComparisonService) filterEligible(services []domain.ServiceType, pickup, dest domain.Coordinates) []domain.ServiceType {
	eligible := make([]domain.ServiceType, 0, len(services))
	for _, svc := range services {
		rates, ok := s.model.RatesFor(svc)
		if !ok {
			continue
		}
		if rates.Geofenced && !s.routeInServiceArea(svc, pickup, dest) {
			continue
		}
		eligible = append(eligible, svc)
	}
	if len(eligible) == 0 {
		return domain.DefaultServices()
	}
	return eligible
}

func (s *ComparisonService) routeInServiceArea(svc domain.ServiceType, pickup, dest domain.Coordinates) bool {
	boxes := s.model.ServiceAreas[svc]
	return coveredBy(pickup, boxes) && coveredBy(dest, boxes)
}

func coveredBy(c domain.Coordinates, boxes []domain.BoundingBox) bool {
	for _, b := range boxes {
		if c.InBox(b) {
			return true
		}
	}
	return false
}

// persistAsync writes the snapshot and search-log entry in a detached
// goroutine. Failures are logged and never observed by the caller.
func (s *ComparisonService) persistAsync(comp *domain.ComparisonComputation) {
	if s.snapshots == nil && s.searchLog == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.snapshots != nil {
			if err := s.snapshots.Create(ctx, snapshotFrom(comp)); err != nil {
				log.Printf("snapshot persist failed: %v", err)
			}
		}
		if s.searchLog != nil {
			if err := s.searchLog.LogSearch(ctx, comp.Pickup, comp.Destination); err != nil {
				log.Printf("search log failed: %v", err)
			}
		}
	}()
}

func snapshotFrom(comp *domain.ComparisonComputation) *domain.ComparisonSnapshot {
	results, err := json.Marshal(comp.Results)
	if err != nil {
		results = nil
	}
	return &domain.ComparisonSnapshot{
		ID:              uuid.New().String(),
		Pickup:          comp.Pickup,
		Destination:     comp.Destination,
		PickupLat:       comp.PickupCoords.Lat,
		PickupLng:       comp.PickupCoords.Lon,
		DestinationLat:  comp.DestinationCoords.Lat,
		DestinationLng:  comp.DestinationCoords.Lon,
		ResultsJSON:     results,
		Recommendation:  comp.Recommendation,
		SurgeMultiplier: comp.Surge.Multiplier,
		CreatedAt:       time.Now().UTC(),
	}
}

// normalizeServices dedupes and lower-cases the requested list, dropping
// unknown names. An empty result falls back to the default set.
func normalizeServices(requested []string) []domain.ServiceType {
	seen := make(map[domain.ServiceType]struct{}, len(requested))
	out := make([]domain.ServiceType, 0, len(requested))
	for _, name := range requested {
		svc, ok := domain.ParseServiceType(name)
		if !ok {
			continue
		}
		if _, dup := seen[svc]; dup {
			continue
		}
		seen[svc] = struct{}{}
		out = append(out, svc)
	}
	if len(out) == 0 {
		return domain.DefaultServices()
	}
	return out
}

func normalizeAddress(addr string) string {
	return strings.ToLower(strings.Join(strings.Fields(addr), " "))
}

func routeKey(pickup, dest domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", pickup.Lon, pickup.Lat, dest.Lon, dest.Lat)
}

// estimateWait is service base minutes plus a demand penalty scaled by
// surge band plus a trip-complexity term, clamped to the service's band.
func estimateWait(rates ServiceRates, surge, durationMin float64) int {
	wait := rates.WaitBaseMinutes
	switch {
	case surge >= 2.0:
		wait += 6
	case surge >= 1.5:
		wait += 4
	case surge > 1.1:
		wait += 2
	}
	wait += int(durationMin / 10)

	if wait < 2 {
		wait = 2
	}
	if wait > rates.WaitMaxMinutes {
		wait = rates.WaitMaxMinutes
	}
	return wait
}

// estimateDrivers is the service's base count minus surge and distance
// penalties, floored at 1.
func estimateDrivers(rates ServiceRates, surge, distanceKm float64) int {
	drivers := rates.DriversBase
	switch {
	case surge >= 2.0:
		drivers -= 3
	case surge >= 1.5:
		drivers -= 2
	case surge > 1.1:
		drivers -= 1
	}
	if distanceKm > 25 {
		drivers -= 2
	} else if distanceKm > 10 {
		drivers--
	}
	if drivers < 1 {
		drivers = 1
	}
	return drivers
}

// surgeSummary reports the strongest surge seen across the estimates.
func surgeSummary(estimates []domain.ServiceEstimate) domain.SurgeInfo {
	var info domain.SurgeInfo
	info.Multiplier = 1.0
	info.Reason = reasonStandard
	for _, e := range estimates {
		if e.Breakdown.SurgeMultiplier > info.Multiplier {
			info.Multiplier = e.Breakdown.SurgeMultiplier
			info.Reason = e.SurgeReason
		}
	}
	info.Active = info.Multiplier > 1.05
	return info
}

// recommendation picks the best-overall service by weighted price/wait
// score and appends secondary sentences when the cheapest or fastest
// service differs.
func recommendation(estimates []domain.ServiceEstimate) string {
	if len(estimates) == 0 {
		return ""
	}

	best := estimates[0]
	cheapest := estimates[0]
	fastest := estimates[0]
	for _, e := range estimates[1:] {
		if score(e) < score(best) {
			best = e
		}
		if e.PriceAmount < cheapest.PriceAmount {
			cheapest = e
		}
		if e.WaitMinutes < fastest.WaitMinutes {
			fastest = e
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Best overall: %s (%s, ~%d min wait).", best.DisplayName, best.Price, best.WaitMinutes)
	if cheapest.Service != best.Service {
		fmt.Fprintf(&sb, " %s is the cheapest option at %s.", cheapest.DisplayName, cheapest.Price)
	}
	if fastest.Service != best.Service && fastest.Service != cheapest.Service {
		fmt.Fprintf(&sb, " %s has the shortest wait at ~%d min.", fastest.DisplayName, fastest.WaitMinutes)
	}
	return sb.String()
}

// score is the weighted price/wait ranking used for recommendations.
func score(e domain.ServiceEstimate) float64 {
	return e.PriceAmount*0.7 + float64(e.WaitMinutes)*0.3
}

// insight is a narrative ranking of services by the weighted score.
func insight(estimates []domain.ServiceEstimate, surge domain.SurgeInfo) string {
	if len(estimates) == 0 {
		return ""
	}

	ranked := make([]domain.ServiceEstimate, len(estimates))
	copy(ranked, estimates)
	sort.Slice(ranked, func(i, j int) bool { return score(ranked[i]) < score(ranked[j]) })

	names := make([]string, len(ranked))
	for i, e := range ranked {
		names[i] = e.DisplayName
	}

	var sb strings.Builder
	if len(names) == 1 {
		fmt.Fprintf(&sb, "%s is the only option for this trip.", names[0])
	} else {
		fmt.Fprintf(&sb, "%s leads on combined price and wait, followed by %s.",
			names[0], strings.Join(names[1:], ", "))
	}
	if surge.Active {
		fmt.Fprintf(&sb, " Demand is elevated right now (%.1fx): %s.", surge.Multiplier, strings.ToLower(surge.Reason))
	}
	return sb.String()
}

// timeRecommendation gives time-of-day booking advice.
func timeRecommendation(at time.Time) string {
	h := at.Hour()
	switch {
	case h >= 23 || h < 5:
		return "Late-night fares run higher; prices usually drop after 5 AM."
	case !isWeekend(at) && ((h >= 7 && h < 9) || (h >= 17 && h < 19)):
		return "Peak commute pricing is in effect; booking after the rush usually costs less."
	default:
		return "Off-peak pricing is in effect; this is a good time to book."
	}
}
