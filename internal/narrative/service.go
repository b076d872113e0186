package narrative

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/cache"
	"github.com/resilroute/resilroute/internal/news"
)

const (
	// maxRoutesInPrompt caps the routes sent to the generator; reasoning
	// over more than the top candidates adds tokens without value.
	maxRoutesInPrompt = 3

	// maxHeadlinesInPrompt caps headlines sent for sentiment analysis.
	maxHeadlinesInPrompt = 6
)

// Generator defines the interface for LLM text generators.
type Generator interface {
	// GenerateContent produces text for the given prompt.
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// Name returns the generator name for logging.
	Name() string
}

// Request carries everything the narrative service needs for one report.
type Request struct {
	Routes      []RouteSummary
	Origin      string
	Destination string
	Headlines   []news.Article
	Previous    *PreviousAnalysis
}

// ServiceConfig holds configuration for the narrative service.
type ServiceConfig struct {
	// Generator is the LLM collaborator (optional). When nil, reports are
	// built from route-derived defaults.
	Generator Generator

	// Logger for service operations.
	Logger zerolog.Logger

	// Cache stores reports keyed by a request signature hash (optional).
	Cache *cache.Store

	// CacheTTL is how long generated reports stay cached (default: 24 hours).
	CacheTTL time.Duration

	// MaxAttempts bounds generator calls per request (default: 3).
	MaxAttempts int
}

// Service generates narrative reports with retry, caching, and graceful
// degradation to defaults.
type Service struct {
	generator   Generator
	logger      zerolog.Logger
	cache       *cache.Store
	cacheTTL    time.Duration
	maxAttempts int
}

// NewService creates a new narrative service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}

	return &Service{
		generator:   cfg.Generator,
		logger:      cfg.Logger,
		cache:       cfg.Cache,
		cacheTTL:    cacheTTL,
		maxAttempts: maxAttempts,
	}
}

// Generate produces a narrative report for scored routes. It never fails:
// generator outages and unparseable responses fall back to route-derived
// defaults with neutral sentiment.
func (s *Service) Generate(ctx context.Context, req Request) Report {
	if s.generator == nil {
		s.logger.Debug().Msg("no narrative generator configured, using defaults")
		return s.defaultReport(req, "Narrative generation not configured")
	}

	key := s.requestKey(req)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if report, ok := v.(Report); ok {
				s.logger.Debug().Msg("serving cached narrative report")
				return report
			}
		}
	}

	topRoutes := topByResilience(req.Routes, maxRoutesInPrompt)
	titles := headlineTitles(req.Headlines, maxHeadlinesInPrompt)
	prompt := buildPrompt(topRoutes, req.Origin, req.Destination, titles, req.Previous)

	text, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("generator", s.generator.Name()).
			Msg("narrative generation failed, using defaults")
		return s.defaultReport(req, "Narrative generation unavailable")
	}

	var payload struct {
		Routes     map[string]RouteNarrative `json:"routes"`
		Sentiment  *Sentiment                `json:"news_sentiment"`
		Comparison *ComparisonReport         `json:"comparison_report"`
	}
	if err := extractJSON(text, &payload); err != nil {
		s.logger.Warn().Err(err).
			Str("generator", s.generator.Name()).
			Msg("could not parse generator response, using defaults")
		return s.defaultReport(req, "Generator response could not be parsed")
	}

	report := s.buildReport(req, payload.Routes, payload.Sentiment, payload.Comparison)

	if s.cache != nil {
		s.cache.SetWithTTL(key, report, s.cacheTTL)
	}

	s.logger.Info().
		Int("routes", len(report.Routes)).
		Float64("sentiment_score", report.Sentiment.Score).
		Bool("comparison", report.Comparison != nil).
		Msg("narrative report generated")

	return report
}

// generateWithRetry calls the generator with bounded linear backoff.
func (s *Service) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var text string
	attempt := 0

	op := func() error {
		attempt++
		out, err := s.generator.GenerateContent(ctx, prompt)
		if err != nil {
			s.logger.Warn().Err(err).
				Int("attempt", attempt).
				Int("max_attempts", s.maxAttempts).
				Msg("generator call failed")
			return err
		}
		text = out
		return nil
	}

	lb := &linearBackOff{maxAttempts: s.maxAttempts}
	if err := backoff.Retry(op, backoff.WithContext(lb, ctx)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}
	return text, nil
}

// linearBackOff waits 1s before the second attempt, 3s before the third,
// growing by 2s per attempt, and stops after maxAttempts.
type linearBackOff struct {
	attempt     int
	maxAttempts int
}

func (l *linearBackOff) NextBackOff() time.Duration {
	if l.attempt >= l.maxAttempts-1 {
		return backoff.Stop
	}
	d := time.Duration(1+l.attempt*2) * time.Second
	l.attempt++
	return d
}

func (l *linearBackOff) Reset() {
	l.attempt = 0
}

// buildReport validates generated content and fills gaps with defaults.
func (s *Service) buildReport(req Request, routes map[string]RouteNarrative, sentiment *Sentiment, comparison *ComparisonReport) Report {
	report := Report{Routes: make(map[string]RouteNarrative, len(req.Routes))}

	for _, r := range req.Routes {
		if n, ok := routes[r.Name]; ok {
			if n.CreativeName == "" {
				n.CreativeName = r.Name
			}
			report.Routes[r.Name] = n
			continue
		}
		report.Routes[r.Name] = defaultNarrative(r)
	}

	if sentiment != nil {
		sv := *sentiment
		if sv.Score < 0 {
			sv.Score = 0
		}
		if sv.Score > 1 {
			sv.Score = 1
		}
		if sv.RiskFactors == nil {
			sv.RiskFactors = []string{}
		}
		if sv.PositiveFactors == nil {
			sv.PositiveFactors = []string{}
		}
		if sv.Reasoning == "" {
			sv.Reasoning = "Analysis completed"
		}
		if sv.ArticleSentiments == nil {
			sv.ArticleSentiments = []ArticleSentiment{}
		}
		report.Sentiment = sv
	} else {
		report.Sentiment = NeutralSentiment("No sentiment analysis provided")
	}

	if req.Previous != nil {
		report.Comparison = comparison
	}

	return report
}

// defaultReport is the full fallback when the generator cannot contribute.
func (s *Service) defaultReport(req Request, reason string) Report {
	routes := make(map[string]RouteNarrative, len(req.Routes))
	for _, r := range req.Routes {
		routes[r.Name] = defaultNarrative(r)
	}
	return Report{
		Routes:    routes,
		Sentiment: NeutralSentiment(reason),
	}
}

// defaultNarrative derives a plain description from route metrics.
func defaultNarrative(r RouteSummary) RouteNarrative {
	return RouteNarrative{
		CreativeName: r.Name,
		ShortSummary: fmt.Sprintf("%s covering %s in %s", r.Name, r.DistanceText, r.DurationText),
		Reasoning: fmt.Sprintf("Resilience score %.1f based on travel time, distance, emissions and road conditions.",
			r.Resilience),
		IntermediateCities: []City{},
	}
}

// requestKey hashes the request parameters that determine the report so
// identical requests share a cache entry regardless of input ordering.
func (s *Service) requestKey(req Request) string {
	names := make([]string, len(req.Routes))
	scores := make([]float64, len(req.Routes))
	for i, r := range req.Routes {
		names[i] = r.Name
		scores[i] = r.Resilience
	}
	sort.Strings(names)
	sort.Float64s(scores)

	titles := make([]string, len(req.Headlines))
	for i, h := range req.Headlines {
		titles[i] = h.Title
	}
	sort.Strings(titles)

	signature, _ := json.Marshal(struct {
		Routes      []string  `json:"routes"`
		Scores      []float64 `json:"scores"`
		Origin      string    `json:"origin"`
		Destination string    `json:"destination"`
		Titles      []string  `json:"titles"`
		IsReroute   bool      `json:"is_reroute"`
	}{names, scores, req.Origin, req.Destination, titles, req.Previous != nil})

	return fmt.Sprintf("narrative:%x", sha256.Sum256(signature))
}

func topByResilience(routes []RouteSummary, limit int) []RouteSummary {
	sorted := make([]RouteSummary, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Resilience > sorted[j].Resilience
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func headlineTitles(articles []news.Article, limit int) []string {
	if len(articles) > limit {
		articles = articles[:limit]
	}
	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = a.Title
	}
	return titles
}
