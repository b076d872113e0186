package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Unknown component scores count as neutral rather than penalizing a route.
const neutralScore = 0.5

// rationaleThreshold is the component score above which a dimension is
// called out in the selection rationale.
const rationaleThreshold = 0.8

// Result is the aggregate resilience outcome for one route.
type Result struct {
	RouteName     string             `json:"route_name"`
	Overall       float64            `json:"resilience_score"`
	Components    map[string]float64 `json:"component_scores"`
	Contributions map[string]float64 `json:"weighted_contributions"`
	Weights       Weights            `json:"applied_weights"`
	Rank          int                `json:"rank"`
}

// Calculator combines component scores into weighted resilience scores on a
// 0-100 scale and ranks the candidate routes.
type Calculator struct {
	logger zerolog.Logger
}

// NewCalculator creates a resilience calculator.
func NewCalculator(logger zerolog.Logger) *Calculator {
	return &Calculator{logger: logger}
}

// Calculate scores every named route and returns the results ranked best
// first. Routes missing a component score receive the neutral 0.5 for that
// dimension. Equal overall scores are broken by route name ascending so the
// ranking is deterministic across runs.
func (c *Calculator) Calculate(routeNames []string, timeScores, distanceScores, carbonScores, roadScores map[string]float64, priorities Weights) []Result {
	if len(routeNames) == 0 {
		c.logger.Warn().Msg("no routes provided for resilience calculation")
		return nil
	}

	weights := priorities.Normalized()

	results := make([]Result, 0, len(routeNames))
	for _, name := range routeNames {
		components := map[string]float64{
			WeightTime:     componentOrNeutral(timeScores, name),
			WeightDistance: componentOrNeutral(distanceScores, name),
			WeightCarbon:   componentOrNeutral(carbonScores, name),
			WeightRoad:     componentOrNeutral(roadScores, name),
		}

		contributions := make(map[string]float64, len(components))
		var sum float64
		for dim, score := range components {
			contrib := weights[dim] * score
			contributions[dim] = contrib
			sum += contrib
		}

		overall := 100 * sum
		if overall < 0 {
			overall = 0
		}
		if overall > 100 {
			overall = 100
		}

		results = append(results, Result{
			RouteName:     name,
			Overall:       overall,
			Components:    components,
			Contributions: contributions,
			Weights:       weights,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Overall != results[j].Overall {
			return results[i].Overall > results[j].Overall
		}
		return results[i].RouteName < results[j].RouteName
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	c.logger.Info().
		Str("best_route", results[0].RouteName).
		Float64("best_score", results[0].Overall).
		Int("routes", len(results)).
		Msg("resilience scores calculated")

	return results
}

func componentOrNeutral(scores map[string]float64, name string) float64 {
	if s, ok := scores[name]; ok {
		return clamp01(s)
	}
	return neutralScore
}

// Summary describes a ranked result set for presentation.
type Summary struct {
	Routes        []Result `json:"routes"`
	RankedRoutes  []string `json:"ranked_routes"`
	BestRouteName string   `json:"best_route_name"`
	Reason        string   `json:"reason_for_selection"`
}

// Summarize wraps ranked results with the winning route and a rule-based
// rationale naming each dimension the winner clearly excels in.
func (c *Calculator) Summarize(results []Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	ranked := make([]string, len(results))
	for i, r := range results {
		ranked[i] = r.RouteName
	}

	return Summary{
		Routes:        results,
		RankedRoutes:  ranked,
		BestRouteName: results[0].RouteName,
		Reason:        rationale(results[0]),
	}
}

func rationale(best Result) string {
	var reasons []string
	if best.Components[WeightTime] > rationaleThreshold {
		reasons = append(reasons, "excellent time efficiency")
	}
	if best.Components[WeightDistance] > rationaleThreshold {
		reasons = append(reasons, "shortest distance")
	}
	if best.Components[WeightCarbon] > rationaleThreshold {
		reasons = append(reasons, "lowest carbon emissions")
	}
	if best.Components[WeightRoad] > rationaleThreshold {
		reasons = append(reasons, "superior road conditions")
	}
	if len(reasons) == 0 {
		return "Best overall balance of all factors"
	}
	return fmt.Sprintf("Selected for %s", strings.Join(reasons, ", "))
}
