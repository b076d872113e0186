package news

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/cache"
)

// Provider defines the interface for news providers.
type Provider interface {
	// FetchCityNews searches transport headlines mentioning the given cities.
	FetchCityNews(ctx context.Context, cities []string, limit int) ([]Article, error)

	// FetchRegionalNews searches transport headlines for the wider region,
	// used when city-specific results come back empty.
	FetchRegionalNews(ctx context.Context, limit int) ([]Article, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the news service.
type ServiceConfig struct {
	// Provider is the news provider (optional). When nil, deterministic
	// sample headlines are served instead.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Cache stores fetched headline sets per city combination (optional).
	Cache *cache.Store

	// CacheTTL is how long headline sets stay cached (default: 1 hour).
	CacheTTL time.Duration

	// MaxArticles caps the number of returned headlines (default: 10).
	MaxArticles int
}

// Service fetches and caches route-relevant headlines. Fetching is always
// best effort: provider failures degrade to sample headlines, never errors.
type Service struct {
	provider    Provider
	logger      zerolog.Logger
	cache       *cache.Store
	cacheTTL    time.Duration
	maxArticles int
}

// NewService creates a new news service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	maxArticles := cfg.MaxArticles
	if maxArticles == 0 {
		maxArticles = 10
	}

	return &Service{
		provider:    cfg.Provider,
		logger:      cfg.Logger,
		cache:       cfg.Cache,
		cacheTTL:    cacheTTL,
		maxArticles: maxArticles,
	}
}

// FetchRouteNews returns headlines relevant to a route through the given
// cities. Results are cached per sorted city set. An empty city list yields
// no headlines.
func (s *Service) FetchRouteNews(ctx context.Context, cities []string) []Article {
	if len(cities) == 0 {
		s.logger.Warn().Msg("no cities provided for news fetch")
		return nil
	}

	key := cacheKey(cities)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if articles, ok := v.([]Article); ok {
				return articles
			}
		}
	}

	articles := s.fetch(ctx, cities)

	if s.cache != nil {
		s.cache.SetWithTTL(key, articles, s.cacheTTL)
	}

	return articles
}

func (s *Service) fetch(ctx context.Context, cities []string) []Article {
	if s.provider == nil {
		s.logger.Debug().Msg("no news provider configured, serving sample headlines")
		return sampleHeadlines(cities)
	}

	articles, err := s.provider.FetchCityNews(ctx, cities, s.maxArticles)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("provider", s.provider.Name()).
			Msg("city news fetch failed, serving sample headlines")
		return sampleHeadlines(cities)
	}

	if len(articles) == 0 {
		s.logger.Debug().Msg("no city-specific headlines, widening to regional search")
		articles, err = s.provider.FetchRegionalNews(ctx, s.maxArticles)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("provider", s.provider.Name()).
				Msg("regional news fetch failed, serving sample headlines")
			return sampleHeadlines(cities)
		}
	}

	if len(articles) == 0 {
		return sampleHeadlines(cities)
	}

	if len(articles) > s.maxArticles {
		articles = articles[:s.maxArticles]
	}

	s.logger.Info().
		Int("articles", len(articles)).
		Strs("cities", cities).
		Msg("route headlines fetched")

	return articles
}

func cacheKey(cities []string) string {
	normalized := make([]string, len(cities))
	for i, c := range cities {
		normalized[i] = strings.ToLower(strings.TrimSpace(c))
	}
	sort.Strings(normalized)
	return "news:" + strings.Join(normalized, "_")
}

// sampleHeadlines is the deterministic stand-in for an absent or failing
// provider, so downstream sentiment analysis always has material.
func sampleHeadlines(cities []string) []Article {
	cityStr := "major cities"
	firstCity := "Major City"
	if len(cities) > 0 {
		firstCity = cities[0]
		if len(cities) > 1 {
			cityStr = cities[0] + ", " + cities[1]
		} else {
			cityStr = cities[0]
		}
	}

	now := time.Now()
	return []Article{
		{
			UUID:        "sample-1",
			Title:       "Corridor Freight Movement Sees 15% Spike Near " + cityStr,
			Description: "Recent data shows increased activity in the industrial corridor.",
			URL:         "https://example.com/freight-movement",
			Source:      "Logistics Weekly",
			PublishedAt: now,
		},
		{
			UUID:        "sample-2",
			Title:       "New Smart Toll Plazas Operational on Major Highways",
			Description: "Electronic tolling implementation reaches 98% efficiency reducing wait times.",
			URL:         "https://example.com/toll-plazas",
			Source:      "Transport Today",
			PublishedAt: now,
		},
		{
			UUID:        "sample-3",
			Title:       "Infrastructure Development Boost for " + firstCity,
			Description: "Government announces new road infrastructure projects.",
			URL:         "https://example.com/infrastructure",
			Source:      "Business Standard",
			PublishedAt: now.Add(-24 * time.Hour),
		},
		{
			UUID:        "sample-4",
			Title:       "Seasonal Preparedness for Highway Cargo",
			Description: "Transport associations issue guidelines for safe trucking during rain.",
			URL:         "https://example.com/seasonal-prep",
			Source:      "Transport Times",
			PublishedAt: now.Add(-48 * time.Hour),
		},
	}
}
