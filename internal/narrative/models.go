// Package narrative turns scored routes and headlines into human-readable
// route names, reasoning, news sentiment, and reroute comparison reports via
// an LLM collaborator. Output is best effort: generation failures degrade to
// route-derived defaults, never errors.
package narrative

import (
	"errors"
	"time"
)

// Narrative errors.
var (
	ErrGeneratorUnavailable = errors.New("narrative generator unavailable")
	ErrMalformedResponse    = errors.New("malformed generator response")
)

// City is an intermediate settlement a route passes through.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// RouteNarrative is the generated description of one route.
type RouteNarrative struct {
	CreativeName       string `json:"route_name"`
	ShortSummary       string `json:"short_summary"`
	Reasoning          string `json:"reasoning"`
	IntermediateCities []City `json:"intermediate_cities"`
}

// ArticleSentiment is the per-headline sentiment verdict.
type ArticleSentiment struct {
	Title     string `json:"title"`
	Sentiment string `json:"sentiment"`
	Impact    string `json:"impact"`
}

// Sentiment is the aggregated news sentiment for the corridor. Score is in
// [0,1] where 0.5 is neutral, above is favorable for transport.
type Sentiment struct {
	Score             float64            `json:"sentiment_score"`
	RiskFactors       []string           `json:"risk_factors"`
	PositiveFactors   []string           `json:"positive_factors"`
	Reasoning         string             `json:"reasoning"`
	ArticleSentiments []ArticleSentiment `json:"article_sentiments"`
}

// NeutralSentiment is the stand-in when no analysis could be produced.
func NeutralSentiment(reason string) Sentiment {
	return Sentiment{
		Score:             0.5,
		RiskFactors:       []string{},
		PositiveFactors:   []string{},
		Reasoning:         reason,
		ArticleSentiments: []ArticleSentiment{},
	}
}

// SentimentChange describes how corridor sentiment moved between analyses.
type SentimentChange struct {
	Direction        string `json:"direction"`
	PercentageChange string `json:"percentage_change"`
	Reason           string `json:"reason"`
}

// RiskComparison groups risks by their lifecycle across a reroute.
type RiskComparison struct {
	NewRisks      []string `json:"new_risks"`
	ResolvedRisks []string `json:"resolved_risks"`
	OngoingRisks  []string `json:"ongoing_risks"`
}

// Tradeoff is one metric compared between the old and new route.
type Tradeoff struct {
	Factor     string `json:"factor"`
	OldValue   string `json:"old_value"`
	NewValue   string `json:"new_value"`
	Change     string `json:"change"`
	Assessment string `json:"assessment"`
}

// ComparisonReport contrasts a fresh analysis with a previous one.
type ComparisonReport struct {
	Summary         string          `json:"summary"`
	SentimentChange SentimentChange `json:"sentiment_change"`
	RiskComparison  RiskComparison  `json:"risk_comparison"`
	Tradeoffs       []Tradeoff      `json:"tradeoffs"`
	Recommendation  string          `json:"recommendation"`
}

// RouteSummary is the bounded per-route context handed to the generator.
type RouteSummary struct {
	Name         string  `json:"id"`
	DistanceText string  `json:"total_distance"`
	DurationText string  `json:"total_time"`
	Resilience   float64 `json:"overall_resilience"`
	WeatherRisk  float64 `json:"weather_risk"`
	RoadSafety   float64 `json:"road_safety"`
	CarbonScore  float64 `json:"carbon_efficiency"`
}

// PreviousAnalysis carries the prior route's outcome into a reroute prompt.
type PreviousAnalysis struct {
	RouteName       string             `json:"route_name"`
	Sentiment       Sentiment          `json:"sentiment_analysis"`
	ResilienceScore float64            `json:"overall"`
	ComponentScores map[string]float64 `json:"component_scores"`
	AnalyzedAt      time.Time          `json:"analyzed_at"`
}

// Report is the full narrative outcome for one analysis.
type Report struct {
	Routes     map[string]RouteNarrative `json:"routes"`
	Sentiment  Sentiment                 `json:"news_sentiment"`
	Comparison *ComparisonReport         `json:"comparison_report,omitempty"`
}
