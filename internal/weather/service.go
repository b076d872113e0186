package weather

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/cache"
	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/internal/segment"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetCurrentWeather fetches current weather for a location.
	GetCurrentWeather(ctx context.Context, lat, lon float64) (*Observation, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather sampling service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Cache stores observations keyed by quantized coordinates (optional).
	Cache *cache.Store

	// SampleIntervalKm is the spacing between samples along a route
	// (default: 50 km).
	SampleIntervalKm float64

	// CacheTTL is how long observations stay cached (default: 10 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the cache grid cell size in degrees (default: 0.1).
	// Points within the same cell share cached observations.
	CacheGridSize float64
}

// Service samples weather along route segments and scores driving risk.
type Service struct {
	provider         Provider
	logger           zerolog.Logger
	cache            *cache.Store
	sampleIntervalKm float64
	cacheTTL         time.Duration
	cacheGridSize    float64
}

// NewService creates a new weather sampling service.
func NewService(cfg ServiceConfig) *Service {
	sampleIntervalKm := cfg.SampleIntervalKm
	if sampleIntervalKm == 0 {
		sampleIntervalKm = 50
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1
	}

	return &Service{
		provider:         cfg.Provider,
		logger:           cfg.Logger,
		cache:            cfg.Cache,
		sampleIntervalKm: sampleIntervalKm,
		cacheTTL:         cacheTTL,
		cacheGridSize:    cacheGridSize,
	}
}

// AnalyzeRoute samples weather along one route's segments and aggregates
// the samples into risk sub-scores. A route with no segments yields a
// zero-risk result rather than an error.
func (s *Service) AnalyzeRoute(ctx context.Context, segs segment.RouteSegments) Result {
	if len(segs.Segments) == 0 {
		s.logger.Warn().
			Str("route", segs.RouteName).
			Msg("no segments available for weather sampling")
		return defaultResult(segs.RouteName)
	}

	points := s.samplePoints(segs)

	samples := make([]Sample, 0, len(points))
	for _, p := range points {
		obs := s.observe(ctx, p.Lat, p.Lon)
		samples = append(samples, Sample{
			Observation: *obs,
			VisibilityM: deriveVisibility(obs.WindSpeed, obs.Rainfall),
		})
	}

	result := aggregate(segs.RouteName, samples)

	s.logger.Debug().
		Str("route", segs.RouteName).
		Int("samples", len(samples)).
		Float64("overall_risk", result.OverallRisk).
		Msg("weather risk computed")

	return result
}

// AnalyzeAll analyzes every route's segments in order.
func (s *Service) AnalyzeAll(ctx context.Context, all []segment.RouteSegments) []Result {
	results := make([]Result, len(all))
	for i, segs := range all {
		results[i] = s.AnalyzeRoute(ctx, segs)
	}
	return results
}

// samplePoints picks evenly spaced coordinates along the route, one per
// sampleIntervalKm of cumulative length with a minimum of one. A single
// sample lands at the midpoint of the middle segment.
func (s *Service) samplePoints(segs segment.RouteSegments) []routing.Coordinate {
	total := segs.TotalLength()

	numSamples := int(total / 1000 / s.sampleIntervalKm)
	if numSamples < 1 {
		numSamples = 1
	}

	if numSamples == 1 {
		mid := segs.Segments[len(segs.Segments)/2]
		return []routing.Coordinate{mid.Midpoint()}
	}

	points := make([]routing.Coordinate, 0, numSamples)
	spacing := total / float64(numSamples-1)

	segIdx := 0
	cumulative := 0.0
	for i := 0; i < numSamples; i++ {
		target := float64(i) * spacing

		for segIdx < len(segs.Segments)-1 && cumulative+segs.Segments[segIdx].Length < target {
			cumulative += segs.Segments[segIdx].Length
			segIdx++
		}

		seg := segs.Segments[segIdx]
		ratio := 0.0
		if seg.Length > 0 {
			ratio = (target - cumulative) / seg.Length
		}
		if ratio > 1 {
			ratio = 1
		}

		points = append(points, routing.Coordinate{
			Lat: seg.Start.Lat + ratio*(seg.End.Lat-seg.Start.Lat),
			Lon: seg.Start.Lon + ratio*(seg.End.Lon-seg.Start.Lon),
		})
	}

	return points
}

// observe fetches an observation for a point, serving from cache when
// possible. Provider failure substitutes moderate conditions so the
// analysis still completes.
func (s *Service) observe(ctx context.Context, lat, lon float64) *Observation {
	key := s.cacheKey(lat, lon)

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if obs, ok := v.(*Observation); ok {
				return obs
			}
		}
	}

	obs, err := s.provider.GetCurrentWeather(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("weather lookup failed, substituting moderate conditions")
		return moderateConditions(lat, lon)
	}

	if s.cache != nil {
		s.cache.SetWithTTL(key, obs, s.cacheTTL)
	}

	return obs
}

func (s *Service) cacheKey(lat, lon float64) string {
	gridLat := math.Floor(lat/s.cacheGridSize) * s.cacheGridSize
	gridLon := math.Floor(lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("weather:%.4f,%.4f", gridLat, gridLon)
}

// moderateConditions is the substitute for an unreachable provider: light
// wind, dry, mild temperature.
func moderateConditions(lat, lon float64) *Observation {
	return &Observation{
		Lat:         lat,
		Lon:         lon,
		Temperature: 20,
		CloudCover:  30,
		Rainfall:    0,
		WindSpeed:   5,
		FetchedAt:   time.Now(),
	}
}

// defaultResult stands in for a route that produced no segments: moderate
// conditions, full visibility, zero risk.
func defaultResult(routeName string) Result {
	moderate := moderateConditions(0, 0)
	return Result{
		RouteName:        routeName,
		AvgTemperatureC:  moderate.Temperature,
		AvgCloudCoverPct: moderate.CloudCover,
		AvgRainfallMM:    moderate.Rainfall,
		AvgWindSpeedMS:   moderate.WindSpeed,
		AvgVisibilityM:   10000,
	}
}

func aggregate(routeName string, samples []Sample) Result {
	var temp, cloud, rain, wind, vis float64
	for _, s := range samples {
		temp += s.Temperature
		cloud += s.CloudCover
		rain += s.Rainfall
		wind += s.WindSpeed
		vis += s.VisibilityM
	}
	n := float64(len(samples))
	avgRain := rain / n
	avgWind := wind / n
	avgVis := vis / n

	visRisk := clamp01(1 - avgVis/10000)
	rainRisk := clamp01(avgRain / 50)
	windRisk := clamp01(avgWind / 25)

	return Result{
		RouteName:        routeName,
		Samples:          samples,
		AvgTemperatureC:  temp / n,
		AvgCloudCoverPct: cloud / n,
		AvgRainfallMM:    avgRain,
		AvgWindSpeedMS:   avgWind,
		AvgVisibilityM:   avgVis,
		VisibilityRisk:   visRisk,
		RainRisk:         rainRisk,
		WindRisk:         windRisk,
		OverallRisk:      (visRisk + rainRisk + windRisk) / 3,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
