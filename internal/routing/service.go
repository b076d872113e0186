package routing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/cache"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routing data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Cache is the TTL store for directions responses. If nil, a store
	// with a 5 minute TTL is created.
	Cache *cache.Store

	// MaxAlternatives caps the candidate set size (default: 3).
	MaxAlternatives int
}

// Service provides candidate routes with caching and input validation.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cache           *cache.Store
	maxAlternatives int
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	store := cfg.Cache
	if store == nil {
		store = cache.New(cache.Config{TTL: 5 * time.Minute})
	}

	maxAlternatives := cfg.MaxAlternatives
	if maxAlternatives == 0 {
		maxAlternatives = 3
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cache:           store,
		maxAlternatives: maxAlternatives,
	}
}

// GetDirections returns candidate routes between two points, serving from
// cache when a fresh entry exists.
func (s *Service) GetDirections(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error) {
	if err := ValidateCoordinate(req.Origin); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}
	if err := ValidateCoordinate(req.Destination); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}

	if req.MaxAlternatives <= 0 || req.MaxAlternatives > s.maxAlternatives {
		req.MaxAlternatives = s.maxAlternatives
	}

	key := s.cacheKey(req)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug().Str("cache_key", key).Msg("directions cache hit")
		return cached.(*DirectionsResponse), nil
	}

	s.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Str("provider", s.provider.Name()).
		Msg("fetching directions from provider")

	resp, err := s.provider.GetDirections(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch directions")
		return nil, err
	}

	if len(resp.Routes) > req.MaxAlternatives {
		resp.Routes = resp.Routes[:req.MaxAlternatives]
	}

	s.cache.Set(key, resp)
	s.logger.Debug().
		Str("cache_key", key).
		Int("route_count", len(resp.Routes)).
		Msg("cached directions response")

	return resp, nil
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// cacheKey quantizes both endpoints to ~1.1km grid cells so nearby queries
// share cached data.
func (s *Service) cacheKey(req DirectionsRequest) string {
	const gridSize = 0.01
	grid := func(v float64) float64 {
		return math.Floor(v/gridSize) * gridSize
	}
	return fmt.Sprintf("directions:%.2f,%.2f:%.2f,%.2f:%d",
		grid(req.Origin.Lat), grid(req.Origin.Lon),
		grid(req.Destination.Lat), grid(req.Destination.Lon),
		req.MaxAlternatives,
	)
}

// ValidateCoordinate checks that a coordinate is within valid ranges.
func ValidateCoordinate(c Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]: %w", c.Lat, ErrInvalidCoordinates)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]: %w", c.Lon, ErrInvalidCoordinates)
	}
	return nil
}
