package road

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/internal/segment"
	"github.com/resilroute/resilroute/internal/weather"
)

func TestEstimateType(t *testing.T) {
	tests := []struct {
		lengthM float64
		want    Type
	}{
		{11000, TypeMotorway},
		{6000, TypePrimary},
		{3000, TypeSecondary},
		{1000, TypeTertiary},
		{0, TypeTertiary},
	}
	for _, tt := range tests {
		if got := EstimateType(tt.lengthM); got != tt.want {
			t.Errorf("EstimateType(%v) = %q, want %q", tt.lengthM, got, tt.want)
		}
	}
}

func TestTypeAttributes(t *testing.T) {
	if q := TypeMotorway.Quality(); q != 90 {
		t.Errorf("motorway quality = %v, want 90", q)
	}
	if q := TypeService.Quality(); q != 40 {
		t.Errorf("service quality = %v, want 40", q)
	}
	if q := Type("bridleway").Quality(); q != 50 {
		t.Errorf("unrecognized type quality = %v, want 50", q)
	}
	if w := TypeMotorway.WidthM(); w != 12.0 {
		t.Errorf("motorway width = %v, want 12.0", w)
	}
	if w := Type("bridleway").WidthM(); w != 5.0 {
		t.Errorf("unrecognized type width = %v, want 5.0", w)
	}
}

func TestAnalyzeHeuristicClassification(t *testing.T) {
	analyzer := NewAnalyzer(AnalyzerConfig{Logger: zerolog.Nop()})

	segs := segment.RouteSegments{
		RouteName: "Route 1",
		Segments: []segment.Segment{
			{ID: 0, Length: 11000},
			{ID: 1, Length: 3000},
		},
	}

	result := analyzer.Analyze(context.Background(), segs, nil)

	if result.Segments[0].RoadType != TypeMotorway {
		t.Errorf("segment 0 type = %q, want motorway", result.Segments[0].RoadType)
	}
	if result.Segments[1].RoadType != TypeSecondary {
		t.Errorf("segment 1 type = %q, want secondary", result.Segments[1].RoadType)
	}

	// (90*11000 + 70*3000) / 14000 / 100
	want := (90.0*11000 + 70.0*3000) / 14000 / 100
	if math.Abs(result.QualityScore-want) > 1e-9 {
		t.Errorf("quality score = %v, want %v", result.QualityScore, want)
	}
}

func TestAnalyzeWeatherDegradesQuality(t *testing.T) {
	analyzer := NewAnalyzer(AnalyzerConfig{Logger: zerolog.Nop()})

	segs := segment.RouteSegments{
		RouteName: "Route 1",
		Segments:  []segment.Segment{{ID: 0, Length: 11000}},
	}
	wx := &weather.Result{RouteName: "Route 1", OverallRisk: 0.3}

	result := analyzer.Analyze(context.Background(), segs, wx)

	// motorway base 90 minus 30 points of weather risk
	want := 60.0 / 100
	if math.Abs(result.QualityScore-want) > 1e-9 {
		t.Errorf("quality score = %v, want %v", result.QualityScore, want)
	}
	if result.AvgWeatherRisk != 0.3 {
		t.Errorf("avg weather risk = %v, want 0.3", result.AvgWeatherRisk)
	}
}

func TestAnalyzeExtremeWeatherFloorsAtZero(t *testing.T) {
	analyzer := NewAnalyzer(AnalyzerConfig{Logger: zerolog.Nop()})

	segs := segment.RouteSegments{
		RouteName: "Route 1",
		Segments:  []segment.Segment{{ID: 0, Length: 1000}},
	}
	wx := &weather.Result{OverallRisk: 1.0}

	result := analyzer.Analyze(context.Background(), segs, wx)
	if result.QualityScore != 0 {
		t.Errorf("quality score = %v under total risk, want 0", result.QualityScore)
	}
}

func TestAnalyzeNoSegmentsDefaults(t *testing.T) {
	analyzer := NewAnalyzer(AnalyzerConfig{Logger: zerolog.Nop()})

	result := analyzer.Analyze(context.Background(), segment.RouteSegments{RouteName: "Route 1"}, nil)

	if result.QualityScore != 0.5 {
		t.Errorf("quality score = %v, want default 0.5", result.QualityScore)
	}
	if result.AvgWeatherRisk != 0.5 {
		t.Errorf("avg weather risk = %v, want default 0.5", result.AvgWeatherRisk)
	}
	if len(result.Segments) != 0 {
		t.Errorf("got %d classified segments, want 0", len(result.Segments))
	}
}

func TestAnalyzeTypeDistribution(t *testing.T) {
	analyzer := NewAnalyzer(AnalyzerConfig{Logger: zerolog.Nop()})

	segs := segment.RouteSegments{
		RouteName: "Route 1",
		Segments: []segment.Segment{
			{ID: 0, Length: 11000},
			{ID: 1, Length: 12000},
			{ID: 2, Length: 1000},
		},
	}

	result := analyzer.Analyze(context.Background(), segs, nil)

	if km := result.TypeDistributionKm[TypeMotorway]; math.Abs(km-23.0) > 1e-9 {
		t.Errorf("motorway distribution = %v km, want 23", km)
	}
	if km := result.TypeDistributionKm[TypeTertiary]; math.Abs(km-1.0) > 1e-9 {
		t.Errorf("tertiary distribution = %v km, want 1", km)
	}
}

type stubClassifier struct {
	roadType Type
	err      error
	calls    int
}

func (s *stubClassifier) Classify(_ context.Context, _ routing.Coordinate) (Type, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.roadType, nil
}

func (s *stubClassifier) Name() string { return "stub" }

func TestAnalyzeUsesClassifier(t *testing.T) {
	classifier := &stubClassifier{roadType: TypeResidential}
	analyzer := NewAnalyzer(AnalyzerConfig{Classifier: classifier, Logger: zerolog.Nop()})

	segs := segment.RouteSegments{
		RouteName: "Route 1",
		Segments:  []segment.Segment{{ID: 0, Length: 11000}},
	}

	result := analyzer.Analyze(context.Background(), segs, nil)

	if classifier.calls != 1 {
		t.Fatalf("classifier called %d times, want 1", classifier.calls)
	}
	// Classifier verdict wins over the length heuristic.
	if result.Segments[0].RoadType != TypeResidential {
		t.Errorf("segment type = %q, want residential from classifier", result.Segments[0].RoadType)
	}
}

func TestAnalyzeClassifierFailureFallsBack(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("overpass timeout")}
	analyzer := NewAnalyzer(AnalyzerConfig{Classifier: classifier, Logger: zerolog.Nop()})

	segs := segment.RouteSegments{
		RouteName: "Route 1",
		Segments:  []segment.Segment{{ID: 0, Length: 11000}},
	}

	result := analyzer.Analyze(context.Background(), segs, nil)
	if result.Segments[0].RoadType != TypeMotorway {
		t.Errorf("segment type = %q after classifier failure, want motorway heuristic", result.Segments[0].RoadType)
	}
}
