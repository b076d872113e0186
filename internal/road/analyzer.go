package road

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/internal/segment"
	"github.com/resilroute/resilroute/internal/weather"
)

// Classifier resolves the road type at a point. Implementations may query a
// road network or estimate heuristically.
type Classifier interface {
	// Classify returns the road type at the given point.
	Classify(ctx context.Context, point routing.Coordinate) (Type, error)

	// Name returns the classifier name for logging.
	Name() string
}

// AnalyzerConfig holds configuration for the road analyzer.
type AnalyzerConfig struct {
	// Classifier resolves road types from a road network (optional).
	// When nil or failing, segment length heuristics are used instead.
	Classifier Classifier

	// Logger for analyzer operations.
	Logger zerolog.Logger
}

// Analyzer scores road quality per route from classified segments.
type Analyzer struct {
	classifier Classifier
	logger     zerolog.Logger
}

// NewAnalyzer creates a road analyzer.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{
		classifier: cfg.Classifier,
		logger:     cfg.Logger,
	}
}

// Analyze classifies a route's segments and computes its quality score.
// Weather risk, when supplied, degrades every segment's base quality by
// risk x 100 points before length weighting. A route without segments
// yields the neutral default of 0.5 quality and 0.5 risk.
func (a *Analyzer) Analyze(ctx context.Context, segs segment.RouteSegments, wx *weather.Result) Result {
	if len(segs.Segments) == 0 {
		a.logger.Warn().
			Str("route", segs.RouteName).
			Msg("no segments available for road analysis")
		return Result{
			RouteName:          segs.RouteName,
			QualityScore:       0.5,
			AvgWeatherRisk:     0.5,
			TypeDistributionKm: map[Type]float64{},
		}
	}

	risk := 0.0
	if wx != nil {
		risk = wx.OverallRisk
	}

	classified := make([]ClassifiedSegment, len(segs.Segments))
	for i, seg := range segs.Segments {
		t := a.classify(ctx, seg)
		classified[i] = ClassifiedSegment{
			Segment:     seg,
			RoadType:    t,
			RoadWidthM:  t.WidthM(),
			BaseQuality: t.Quality(),
		}
	}

	var totalLength, weightedQuality float64
	distribution := make(map[Type]float64)
	for _, cs := range classified {
		adjusted := cs.BaseQuality - risk*100
		if adjusted < 0 {
			adjusted = 0
		}
		weightedQuality += adjusted * cs.Length
		totalLength += cs.Length
		distribution[cs.RoadType] += cs.Length / 1000
	}

	score := 0.5
	if totalLength > 0 {
		score = weightedQuality / totalLength / 100
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	a.logger.Debug().
		Str("route", segs.RouteName).
		Float64("road_quality_score", score).
		Float64("avg_weather_risk", risk).
		Msg("road quality computed")

	return Result{
		RouteName:          segs.RouteName,
		Segments:           classified,
		QualityScore:       score,
		AvgWeatherRisk:     risk,
		TypeDistributionKm: distribution,
	}
}

// AnalyzeAll analyzes every route, pairing weather results by index.
func (a *Analyzer) AnalyzeAll(ctx context.Context, all []segment.RouteSegments, wx []weather.Result) []Result {
	results := make([]Result, len(all))
	for i, segs := range all {
		var w *weather.Result
		if i < len(wx) {
			w = &wx[i]
		}
		results[i] = a.Analyze(ctx, segs, w)
	}
	return results
}

// classify resolves a segment's road type via the configured classifier,
// falling back to the length heuristic when the classifier is absent or
// fails.
func (a *Analyzer) classify(ctx context.Context, seg segment.Segment) Type {
	if a.classifier != nil {
		t, err := a.classifier.Classify(ctx, seg.Midpoint())
		if err == nil {
			return t
		}
		a.logger.Debug().Err(err).
			Str("classifier", a.classifier.Name()).
			Int("segment_id", seg.ID).
			Msg("road classification failed, falling back to length heuristic")
	}
	return EstimateType(seg.Length)
}

// EstimateType guesses the road type from segment length. Long uninterrupted
// segments usually indicate higher road classes.
func EstimateType(lengthM float64) Type {
	switch {
	case lengthM > 10000:
		return TypeMotorway
	case lengthM > 5000:
		return TypePrimary
	case lengthM > 2000:
		return TypeSecondary
	default:
		return TypeTertiary
	}
}
