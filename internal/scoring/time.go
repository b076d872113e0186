package scoring

import (
	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/routing"
)

// TimeResult is the time-dimension score for one route.
type TimeResult struct {
	RouteName    string  `json:"route_name"`
	DurationSecs float64 `json:"duration_s"`
	DurationText string  `json:"duration_text"`
	Score        float64 `json:"time_score"`
}

// TimeAnalyzer scores routes on normalized duration: the fastest route in
// the batch scores 1.0, the slowest 0.0.
type TimeAnalyzer struct {
	logger zerolog.Logger
}

// NewTimeAnalyzer creates a time analyzer.
func NewTimeAnalyzer(logger zerolog.Logger) *TimeAnalyzer {
	return &TimeAnalyzer{logger: logger}
}

// Analyze scores the candidate batch. An empty batch yields an empty result.
func (a *TimeAnalyzer) Analyze(routes []routing.Route) []TimeResult {
	if len(routes) == 0 {
		a.logger.Warn().Msg("no routes provided for time analysis")
		return nil
	}

	durations := make([]float64, len(routes))
	for i, r := range routes {
		durations[i] = r.DurationSecs
	}

	scores := normalizeInverted(durations)

	results := make([]TimeResult, len(routes))
	for i, r := range routes {
		results[i] = TimeResult{
			RouteName:    r.Name,
			DurationSecs: r.DurationSecs,
			DurationText: FormatDuration(r.DurationSecs),
			Score:        scores[i],
		}
		a.logger.Debug().
			Str("route", r.Name).
			Float64("duration_s", r.DurationSecs).
			Float64("time_score", scores[i]).
			Msg("time score computed")
	}

	return results
}
