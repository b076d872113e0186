// Package weather samples conditions along route geometry and condenses
// them into driving-risk sub-scores.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Observation is an instantaneous weather reading at a point.
type Observation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Temperature in Celsius.
	Temperature float64 `json:"temperature_c"`

	// CloudCover percentage (0-100).
	CloudCover float64 `json:"cloudcover_pct"`

	// Rainfall in millimeters.
	Rainfall float64 `json:"rainfall_mm"`

	// WindSpeed in m/s.
	WindSpeed float64 `json:"windspeed_ms"`

	FetchedAt time.Time `json:"fetched_at"`
}

// Sample is an observation enriched with derived visibility, taken at one
// sampling point along a route.
type Sample struct {
	Observation
	VisibilityM float64 `json:"visibility_m"`
}

// Result aggregates a route's weather samples into risk sub-scores, each in
// [0,1] where higher means riskier driving conditions.
type Result struct {
	RouteName string   `json:"route_name"`
	Samples   []Sample `json:"samples"`

	AvgTemperatureC  float64 `json:"avg_temperature_c"`
	AvgCloudCoverPct float64 `json:"avg_cloudcover_pct"`
	AvgRainfallMM    float64 `json:"avg_rainfall_mm"`
	AvgWindSpeedMS   float64 `json:"avg_windspeed_ms"`
	AvgVisibilityM   float64 `json:"avg_visibility_m"`

	VisibilityRisk float64 `json:"visibility_risk"`
	RainRisk       float64 `json:"rain_risk"`
	WindRisk       float64 `json:"wind_risk"`
	OverallRisk    float64 `json:"overall_risk"`
}

// deriveVisibility estimates visibility in meters from wind and rainfall.
// Clear conditions approach 10 km; the floor is 100 m.
func deriveVisibility(windSpeed, rainfall float64) float64 {
	v := 10000 - windSpeed*100 - rainfall*50
	if v < 100 {
		return 100
	}
	return v
}
