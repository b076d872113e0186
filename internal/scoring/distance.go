package scoring

import (
	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/routing"
)

// DistanceResult is the distance-dimension score for one route.
type DistanceResult struct {
	RouteName      string  `json:"route_name"`
	DistanceMeters float64 `json:"distance_m"`
	DistanceKm     float64 `json:"distance_km"`
	DistanceText   string  `json:"distance_text"`
	Score          float64 `json:"distance_score"`
}

// DistanceAnalyzer scores routes on normalized length: the shortest route in
// the batch scores 1.0, the longest 0.0.
type DistanceAnalyzer struct {
	logger zerolog.Logger
}

// NewDistanceAnalyzer creates a distance analyzer.
func NewDistanceAnalyzer(logger zerolog.Logger) *DistanceAnalyzer {
	return &DistanceAnalyzer{logger: logger}
}

// Analyze scores the candidate batch. An empty batch yields an empty result.
func (a *DistanceAnalyzer) Analyze(routes []routing.Route) []DistanceResult {
	if len(routes) == 0 {
		a.logger.Warn().Msg("no routes provided for distance analysis")
		return nil
	}

	distances := make([]float64, len(routes))
	for i, r := range routes {
		distances[i] = r.DistanceMeters
	}

	scores := normalizeInverted(distances)

	results := make([]DistanceResult, len(routes))
	for i, r := range routes {
		results[i] = DistanceResult{
			RouteName:      r.Name,
			DistanceMeters: r.DistanceMeters,
			DistanceKm:     r.DistanceMeters / 1000,
			DistanceText:   FormatDistance(r.DistanceMeters),
			Score:          scores[i],
		}
		a.logger.Debug().
			Str("route", r.Name).
			Float64("distance_m", r.DistanceMeters).
			Float64("distance_score", scores[i]).
			Msg("distance score computed")
	}

	return results
}
