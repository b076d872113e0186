// Package road classifies route segments by road type and scores road
// quality, degraded by prevailing weather risk.
package road

import (
	"github.com/resilroute/resilroute/internal/segment"
)

// Type is an OSM-style highway classification.
type Type string

// Known road types.
const (
	TypeMotorway     Type = "motorway"
	TypeTrunk        Type = "trunk"
	TypePrimary      Type = "primary"
	TypeSecondary    Type = "secondary"
	TypeTertiary     Type = "tertiary"
	TypeResidential  Type = "residential"
	TypeService      Type = "service"
	TypeUnclassified Type = "unclassified"
	TypeUnknown      Type = "unknown"
)

// qualityScores are base road quality scores per type on a 0-100 scale.
var qualityScores = map[Type]float64{
	TypeMotorway:     90,
	TypeTrunk:        85,
	TypePrimary:      80,
	TypeSecondary:    70,
	TypeTertiary:     60,
	TypeResidential:  50,
	TypeService:      40,
	TypeUnclassified: 45,
	TypeUnknown:      50,
}

// widthMeters are estimated carriageway widths per type.
var widthMeters = map[Type]float64{
	TypeMotorway:       12.0,
	"motorway_link":    10.0,
	TypeTrunk:          11.0,
	"trunk_link":       9.0,
	TypePrimary:        9.0,
	"primary_link":     7.0,
	TypeSecondary:      7.0,
	"secondary_link":   6.0,
	TypeTertiary:       6.0,
	"tertiary_link":    5.0,
	TypeResidential:    4.0,
	TypeService:        3.0,
	TypeUnclassified:   4.0,
	TypeUnknown:        5.0,
}

// Quality returns the base quality score for the type, 50 if unrecognized.
func (t Type) Quality() float64 {
	if q, ok := qualityScores[t]; ok {
		return q
	}
	return 50
}

// WidthM returns the estimated road width in meters, 5.0 if unrecognized.
func (t Type) WidthM() float64 {
	if w, ok := widthMeters[t]; ok {
		return w
	}
	return 5.0
}

// ClassifiedSegment is a route segment enriched with road attributes.
type ClassifiedSegment struct {
	segment.Segment
	RoadType    Type    `json:"road_type"`
	RoadWidthM  float64 `json:"road_width_m"`
	BaseQuality float64 `json:"base_quality"`
}

// Result is the road quality outcome for one route.
type Result struct {
	RouteName string              `json:"route_name"`
	Segments  []ClassifiedSegment `json:"road_segments"`

	// QualityScore is the length-weighted, weather-adjusted quality in [0,1].
	QualityScore float64 `json:"road_quality_score"`

	// AvgWeatherRisk is the weather risk applied during adjustment.
	AvgWeatherRisk float64 `json:"avg_weather_risk"`

	// TypeDistributionKm maps road type to kilometers travelled on it.
	TypeDistributionKm map[Type]float64 `json:"road_type_distribution_km"`
}
