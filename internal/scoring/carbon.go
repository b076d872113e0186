package scoring

import (
	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/internal/segment"
)

// Emission model constants for a single average passenger vehicle.
const (
	emissionFactorKgPerKm = 0.8
	loadFactor            = 1.2
	fuelCorrection        = 1.0
)

// CarbonResult is the emission-dimension score for one route.
type CarbonResult struct {
	RouteName   string  `json:"route_name"`
	DistanceKm  float64 `json:"distance_km"`
	EmissionsKg float64 `json:"carbon_emission_kg"`
	CarbonPerKm float64 `json:"carbon_per_km"`
	Score       float64 `json:"carbon_score"`
}

// CarbonAnalyzer estimates per-route emissions from travelled distance and
// scores them so the lowest-emission route in the batch scores 1.0.
type CarbonAnalyzer struct {
	logger zerolog.Logger
}

// NewCarbonAnalyzer creates a carbon analyzer.
func NewCarbonAnalyzer(logger zerolog.Logger) *CarbonAnalyzer {
	return &CarbonAnalyzer{logger: logger}
}

// Analyze scores the candidate batch. When segment data is available for a
// route its summed segment length is preferred over the declared route
// distance, since segments reflect the geometry actually travelled.
func (a *CarbonAnalyzer) Analyze(routes []routing.Route, segments []segment.RouteSegments) []CarbonResult {
	if len(routes) == 0 {
		a.logger.Warn().Msg("no routes provided for carbon analysis")
		return nil
	}

	segmentLength := make(map[string]float64, len(segments))
	for _, rs := range segments {
		segmentLength[rs.RouteName] = rs.TotalLength()
	}

	emissions := make([]float64, len(routes))
	distancesKm := make([]float64, len(routes))
	for i, r := range routes {
		meters := r.DistanceMeters
		if l, ok := segmentLength[r.Name]; ok && l > 0 {
			meters = l
		}
		km := meters / 1000
		distancesKm[i] = km
		emissions[i] = km * emissionFactorKgPerKm * loadFactor * fuelCorrection
	}

	scores := normalizeInverted(emissions)

	results := make([]CarbonResult, len(routes))
	for i, r := range routes {
		perKm := 0.0
		if distancesKm[i] > 0 {
			perKm = emissions[i] / distancesKm[i]
		}
		results[i] = CarbonResult{
			RouteName:   r.Name,
			DistanceKm:  distancesKm[i],
			EmissionsKg: emissions[i],
			CarbonPerKm: perKm,
			Score:       scores[i],
		}
		a.logger.Debug().
			Str("route", r.Name).
			Float64("carbon_emission_kg", emissions[i]).
			Float64("carbon_score", scores[i]).
			Msg("carbon score computed")
	}

	return results
}
