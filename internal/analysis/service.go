package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/narrative"
	"github.com/resilroute/resilroute/internal/news"
	"github.com/resilroute/resilroute/internal/road"
	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/internal/scoring"
	"github.com/resilroute/resilroute/internal/segment"
	"github.com/resilroute/resilroute/internal/weather"
)

// ServiceConfig holds configuration for the analysis service.
type ServiceConfig struct {
	// Routing supplies candidate route alternatives (required).
	Routing *routing.Service

	// Weather samples conditions along route geometry (required).
	Weather *weather.Service

	// Road classifies segments and scores road quality (required).
	Road *road.Analyzer

	// News fetches corridor headlines (optional).
	News *news.Service

	// Narrative generates names, reasoning, and sentiment (optional).
	Narrative *narrative.Service

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service runs the analysis pipeline end to end.
type Service struct {
	routing   *routing.Service
	weather   *weather.Service
	road      *road.Analyzer
	news      *news.Service
	narrative *narrative.Service
	logger    zerolog.Logger

	timeAnalyzer     *scoring.TimeAnalyzer
	distanceAnalyzer *scoring.DistanceAnalyzer
	carbonAnalyzer   *scoring.CarbonAnalyzer
	calculator       *scoring.Calculator
}

// NewService creates a new analysis service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		routing:          cfg.Routing,
		weather:          cfg.Weather,
		road:             cfg.Road,
		news:             cfg.News,
		narrative:        cfg.Narrative,
		logger:           cfg.Logger,
		timeAnalyzer:     scoring.NewTimeAnalyzer(cfg.Logger),
		distanceAnalyzer: scoring.NewDistanceAnalyzer(cfg.Logger),
		carbonAnalyzer:   scoring.NewCarbonAnalyzer(cfg.Logger),
		calculator:       scoring.NewCalculator(cfg.Logger),
	}
}

// Analyze runs the full pipeline for one origin-destination pair. Validation
// failures and routing outages come back as a structured error result; every
// later stage recovers locally, so a returned result with routes is always
// fully scored.
func (s *Service) Analyze(ctx context.Context, req Request) Result {
	started := time.Now()

	if err := routing.ValidateCoordinate(req.Origin); err != nil {
		return errorResult(fmt.Sprintf("invalid origin coordinates: %v", err))
	}
	if err := routing.ValidateCoordinate(req.Destination); err != nil {
		return errorResult(fmt.Sprintf("invalid destination coordinates: %v", err))
	}

	s.logger.Info().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Bool("is_reroute", req.Previous != nil).
		Msg("route analysis started")

	directions, err := s.routing.GetDirections(ctx, routing.DirectionsRequest{
		Origin:          req.Origin,
		Destination:     req.Destination,
		MaxAlternatives: req.MaxAlternatives,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("directions lookup failed")
		return errorResult(fmt.Sprintf("could not fetch routes: %v", err))
	}
	if len(directions.Routes) == 0 {
		return errorResult("no routes found between origin and destination")
	}

	routes := directions.Routes
	segments := segment.ExtractAll(routes)

	weatherResults := s.weather.AnalyzeAll(ctx, segments)
	roadResults := s.road.AnalyzeAll(ctx, segments, weatherResults)

	timeResults := s.timeAnalyzer.Analyze(routes)
	distanceResults := s.distanceAnalyzer.Analyze(routes)
	carbonResults := s.carbonAnalyzer.Analyze(routes, segments)

	names := make([]string, len(routes))
	for i, r := range routes {
		names[i] = r.Name
	}

	resilience := s.calculator.Calculate(names,
		timeScoreMap(timeResults),
		distanceScoreMap(distanceResults),
		carbonScoreMap(carbonResults),
		roadScoreMap(roadResults),
		req.Priorities)
	summary := s.calculator.Summarize(resilience)

	report := s.narrate(ctx, req, routes, timeResults, weatherResults, roadResults, carbonResults, resilience)

	enriched := assemble(routes, segments, timeResults, distanceResults, carbonResults, weatherResults, roadResults, report)

	result := Result{
		Routes:           enriched,
		Resilience:       &summary,
		BestRoute:        summary.BestRouteName,
		IsReroute:        req.Previous != nil,
		AnalysisComplete: true,
		AnalyzedAt:       started,
	}
	if report != nil {
		result.Sentiment = &report.Sentiment
		result.Comparison = report.Comparison
	}

	s.logger.Info().
		Str("best_route", result.BestRoute).
		Int("routes", len(result.Routes)).
		Dur("elapsed", time.Since(started)).
		Msg("route analysis complete")

	return result
}

// Rescore recomputes the ranking from already computed component scores and
// a new priority vector. No collaborator is consulted.
func (s *Service) Rescore(req RescoreRequest) (scoring.Summary, error) {
	if len(req.RouteNames) == 0 {
		return scoring.Summary{}, ErrNoRoutes
	}

	s.logger.Info().
		Int("routes", len(req.RouteNames)).
		Msg("re-scoring routes with new priorities")

	results := s.calculator.Calculate(req.RouteNames,
		req.TimeScores, req.DistanceScores, req.CarbonScores, req.RoadScores,
		req.Priorities)

	return s.calculator.Summarize(results), nil
}

// narrate runs the optional news and narrative stages. Both are best
// effort; a nil report means narration is not configured.
func (s *Service) narrate(ctx context.Context, req Request, routes []routing.Route,
	timeResults []scoring.TimeResult, weatherResults []weather.Result,
	roadResults []road.Result, carbonResults []scoring.CarbonResult,
	resilience []scoring.Result) *narrative.Report {

	if s.narrative == nil {
		return nil
	}

	var headlines []news.Article
	if s.news != nil && req.OriginName != "" && req.DestinationName != "" {
		headlines = s.news.FetchRouteNews(ctx, []string{req.OriginName, req.DestinationName})
	}

	overall := make(map[string]float64, len(resilience))
	for _, r := range resilience {
		overall[r.RouteName] = r.Overall
	}
	weatherRisk := make(map[string]float64, len(weatherResults))
	for _, w := range weatherResults {
		weatherRisk[w.RouteName] = w.OverallRisk
	}
	roadScore := make(map[string]float64, len(roadResults))
	for _, r := range roadResults {
		roadScore[r.RouteName] = r.QualityScore
	}
	carbonScore := make(map[string]float64, len(carbonResults))
	for _, c := range carbonResults {
		carbonScore[c.RouteName] = c.Score
	}
	durationText := make(map[string]string, len(timeResults))
	for _, t := range timeResults {
		durationText[t.RouteName] = t.DurationText
	}

	summaries := make([]narrative.RouteSummary, len(routes))
	for i, r := range routes {
		summaries[i] = narrative.RouteSummary{
			Name:         r.Name,
			DistanceText: scoring.FormatDistance(r.DistanceMeters),
			DurationText: durationText[r.Name],
			Resilience:   overall[r.Name],
			WeatherRisk:  weatherRisk[r.Name],
			RoadSafety:   roadScore[r.Name],
			CarbonScore:  carbonScore[r.Name],
		}
	}

	report := s.narrative.Generate(ctx, narrative.Request{
		Routes:      summaries,
		Origin:      req.OriginName,
		Destination: req.DestinationName,
		Headlines:   headlines,
		Previous:    req.Previous,
	})
	return &report
}

func assemble(routes []routing.Route, segments []segment.RouteSegments,
	timeResults []scoring.TimeResult, distanceResults []scoring.DistanceResult,
	carbonResults []scoring.CarbonResult, weatherResults []weather.Result,
	roadResults []road.Result, report *narrative.Report) []EnrichedRoute {

	enriched := make([]EnrichedRoute, len(routes))
	for i, r := range routes {
		enriched[i] = EnrichedRoute{
			Route:    r,
			Segments: segments[i],
			Time:     timeResults[i],
			Distance: distanceResults[i],
			Carbon:   carbonResults[i],
			Weather:  weatherResults[i],
			Road:     roadResults[i],
		}
		if report != nil {
			enriched[i].Narrative = report.Routes[r.Name]
		}
	}
	return enriched
}

func errorResult(msg string) Result {
	return Result{
		Routes:           []EnrichedRoute{},
		AnalysisComplete: false,
		Error:            msg,
		AnalyzedAt:       time.Now(),
	}
}

func timeScoreMap(results []scoring.TimeResult) map[string]float64 {
	m := make(map[string]float64, len(results))
	for _, r := range results {
		m[r.RouteName] = r.Score
	}
	return m
}

func distanceScoreMap(results []scoring.DistanceResult) map[string]float64 {
	m := make(map[string]float64, len(results))
	for _, r := range results {
		m[r.RouteName] = r.Score
	}
	return m
}

func carbonScoreMap(results []scoring.CarbonResult) map[string]float64 {
	m := make(map[string]float64, len(results))
	for _, r := range results {
		m[r.RouteName] = r.Score
	}
	return m
}

func roadScoreMap(results []road.Result) map[string]float64 {
	m := make(map[string]float64, len(results))
	for _, r := range results {
		m[r.RouteName] = r.QualityScore
	}
	return m
}
