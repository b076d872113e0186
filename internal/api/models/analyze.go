// Package models provides request and response models for the ResilRoute API.
package models

import "time"

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AnalyzeRequest is the body of POST /v1/routes:analyze.
type AnalyzeRequest struct {
	Origin          Point              `json:"origin"`
	Destination     Point              `json:"destination"`
	OriginName      string             `json:"origin_name,omitempty"`
	DestinationName string             `json:"destination_name,omitempty"`
	Priorities      map[string]float64 `json:"priorities,omitempty"`
	MaxAlternatives int                `json:"max_alternatives,omitempty"`

	// PreviousRoute marks the request as a reroute and feeds the
	// comparison report.
	PreviousRoute *PreviousRoute `json:"previous_route,omitempty"`
}

// PreviousRoute carries a prior analysis outcome into a reroute request.
type PreviousRoute struct {
	RouteName       string             `json:"route_name"`
	ResilienceScore float64            `json:"resilience_score"`
	ComponentScores map[string]float64 `json:"component_scores,omitempty"`
	SentimentScore  float64            `json:"sentiment_score"`
	RiskFactors     []string           `json:"risk_factors,omitempty"`
	PositiveFactors []string           `json:"positive_factors,omitempty"`
	AnalyzedAt      time.Time          `json:"analyzed_at"`
}

// Validate checks the request for structural errors.
func (r *AnalyzeRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, validatePoint("origin", r.Origin)...)
	errs = append(errs, validatePoint("destination", r.Destination)...)

	for key, v := range r.Priorities {
		if v < 0 {
			errs = append(errs, FieldError{
				Field:   "priorities." + key,
				Message: "must be non-negative",
				Code:    "out_of_range",
			})
		}
	}
	if r.MaxAlternatives < 0 {
		errs = append(errs, FieldError{
			Field:   "max_alternatives",
			Message: "must be non-negative",
			Code:    "out_of_range",
		})
	}
	return errs
}

// RescoreRequest is the body of POST /v1/routes:rescore. It re-weights
// component scores from a previous analysis without refetching anything.
type RescoreRequest struct {
	RouteNames     []string           `json:"route_names"`
	TimeScores     map[string]float64 `json:"time_scores"`
	DistanceScores map[string]float64 `json:"distance_scores"`
	CarbonScores   map[string]float64 `json:"carbon_scores"`
	RoadScores     map[string]float64 `json:"road_scores"`
	Priorities     map[string]float64 `json:"priorities"`
}

// Validate checks the request for structural errors.
func (r *RescoreRequest) Validate() []FieldError {
	var errs []FieldError
	if len(r.RouteNames) == 0 {
		errs = append(errs, FieldError{
			Field:   "route_names",
			Message: "at least one route name is required",
			Code:    "required",
		})
	}
	for key, v := range r.Priorities {
		if v < 0 {
			errs = append(errs, FieldError{
				Field:   "priorities." + key,
				Message: "must be non-negative",
				Code:    "out_of_range",
			})
		}
	}
	return errs
}

func validatePoint(field string, p Point) []FieldError {
	var errs []FieldError
	if p.Lat < -90 || p.Lat > 90 {
		errs = append(errs, FieldError{
			Field:   field + ".lat",
			Message: "must be between -90 and 90",
			Code:    "out_of_range",
		})
	}
	if p.Lon < -180 || p.Lon > 180 {
		errs = append(errs, FieldError{
			Field:   field + ".lon",
			Message: "must be between -180 and 180",
			Code:    "out_of_range",
		})
	}
	if p.Lat == 0 && p.Lon == 0 {
		errs = append(errs, FieldError{
			Field:   field,
			Message: "coordinates are required",
			Code:    "required",
		})
	}
	return errs
}
