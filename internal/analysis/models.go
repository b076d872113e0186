// Package analysis orchestrates the full route resilience pipeline: fetch
// alternatives, segment them, score every dimension, rank, and narrate.
package analysis

import (
	"errors"
	"time"

	"github.com/resilroute/resilroute/internal/narrative"
	"github.com/resilroute/resilroute/internal/road"
	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/internal/scoring"
	"github.com/resilroute/resilroute/internal/segment"
	"github.com/resilroute/resilroute/internal/weather"
)

// Analysis errors.
var (
	ErrNoRoutes = errors.New("no routes to score")
)

// Request describes one analysis run.
type Request struct {
	Origin          routing.Coordinate
	Destination     routing.Coordinate
	OriginName      string
	DestinationName string
	Priorities      scoring.Weights
	MaxAlternatives int

	// Previous enables the reroute comparison when set.
	Previous *narrative.PreviousAnalysis
}

// RescoreRequest re-weights already computed component scores. It carries no
// coordinates and triggers no collaborator calls.
type RescoreRequest struct {
	RouteNames     []string
	TimeScores     map[string]float64
	DistanceScores map[string]float64
	CarbonScores   map[string]float64
	RoadScores     map[string]float64
	Priorities     scoring.Weights
}

// EnrichedRoute is one candidate route with everything the pipeline
// computed for it.
type EnrichedRoute struct {
	routing.Route

	Segments segment.RouteSegments  `json:"segments"`
	Time     scoring.TimeResult     `json:"time"`
	Distance scoring.DistanceResult `json:"distance"`
	Carbon   scoring.CarbonResult   `json:"carbon"`
	Weather  weather.Result         `json:"weather"`
	Road     road.Result            `json:"road"`

	Narrative narrative.RouteNarrative `json:"narrative"`
}

// Result is the complete outcome of an analysis run. Failures surface as a
// populated Error field with AnalysisComplete false, never as a panic or a
// partial ranking.
type Result struct {
	Routes     []EnrichedRoute      `json:"routes"`
	Resilience *scoring.Summary     `json:"resilience_scores"`
	BestRoute  string               `json:"best_route"`
	Sentiment  *narrative.Sentiment `json:"news_sentiment,omitempty"`

	IsReroute  bool                        `json:"is_reroute"`
	Comparison *narrative.ComparisonReport `json:"comparison_report,omitempty"`

	AnalysisComplete bool      `json:"analysis_complete"`
	Error            string    `json:"error,omitempty"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
}
