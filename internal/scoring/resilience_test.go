package scoring

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
)

func TestCalculateWeightedFormula(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	names := []string{"Route 1"}
	timeScores := map[string]float64{"Route 1": 0.9}
	distanceScores := map[string]float64{"Route 1": 0.7}
	carbonScores := map[string]float64{"Route 1": 0.6}
	roadScores := map[string]float64{"Route 1": 0.4}
	weights := Weights{WeightTime: 0.25, WeightDistance: 0.25, WeightCarbon: 0.25, WeightRoad: 0.25}

	results := calc.Calculate(names, timeScores, distanceScores, carbonScores, roadScores, weights)

	want := 100 * (0.25*0.9 + 0.25*0.7 + 0.25*0.6 + 0.25*0.4)
	if math.Abs(results[0].Overall-want) > 1e-9 {
		t.Errorf("overall = %v, want %v", results[0].Overall, want)
	}
	var contribSum float64
	for _, c := range results[0].Contributions {
		contribSum += c
	}
	if math.Abs(100*contribSum-results[0].Overall) > 1e-9 {
		t.Errorf("contributions sum to %v, overall is %v", 100*contribSum, results[0].Overall)
	}
}

func TestCalculateRenormalizesWeights(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	names := []string{"Route 1"}
	scores := map[string]float64{"Route 1": 1.0}
	weights := Weights{WeightTime: 2, WeightDistance: 2, WeightCarbon: 0, WeightRoad: 0}

	results := calc.Calculate(names, scores, scores, scores, scores, weights)

	var sum float64
	for _, w := range results[0].Weights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("applied weights sum = %v, want 1.0", sum)
	}
	if math.Abs(results[0].Overall-100) > 1e-9 {
		t.Errorf("overall = %v, want 100 when every component is 1.0", results[0].Overall)
	}
}

func TestCalculateMissingScoreDefaultsNeutral(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	names := []string{"Route 1"}
	full := map[string]float64{"Route 1": 1.0}
	weights := Weights{WeightTime: 0.25, WeightDistance: 0.25, WeightCarbon: 0.25, WeightRoad: 0.25}

	results := calc.Calculate(names, full, full, full, map[string]float64{}, weights)

	if results[0].Components[WeightRoad] != 0.5 {
		t.Errorf("missing road score = %v, want neutral 0.5", results[0].Components[WeightRoad])
	}
	want := 100 * (0.25 + 0.25 + 0.25 + 0.25*0.5)
	if math.Abs(results[0].Overall-want) > 1e-9 {
		t.Errorf("overall = %v, want %v", results[0].Overall, want)
	}
}

func TestCalculateBounds(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	names := []string{"Route 1", "Route 2"}
	high := map[string]float64{"Route 1": 1.0, "Route 2": 0.0}
	weights := Weights{WeightTime: 1, WeightDistance: 1, WeightCarbon: 1, WeightRoad: 1}

	results := calc.Calculate(names, high, high, high, high, weights)
	for _, r := range results {
		if r.Overall < 0 || r.Overall > 100 {
			t.Errorf("overall %v for %s out of [0,100]", r.Overall, r.RouteName)
		}
	}
}

func TestCalculateRanking(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	names := []string{"Route 1", "Route 2", "Route 3"}
	distanceScores := map[string]float64{"Route 1": 1.0, "Route 2": 0.5, "Route 3": 0.0}
	neutral := map[string]float64{"Route 1": 0.5, "Route 2": 0.5, "Route 3": 0.5}
	weights := Weights{WeightTime: 0.1, WeightDistance: 0.7, WeightCarbon: 0.1, WeightRoad: 0.1}

	results := calc.Calculate(names, neutral, distanceScores, neutral, neutral, weights)

	wantOrder := []string{"Route 1", "Route 2", "Route 3"}
	for i, want := range wantOrder {
		if results[i].RouteName != want {
			t.Errorf("rank %d = %s, want %s", i+1, results[i].RouteName, want)
		}
		if results[i].Rank != i+1 {
			t.Errorf("rank field = %d, want %d", results[i].Rank, i+1)
		}
	}
}

func TestCalculateTieBreakByName(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	names := []string{"Route B", "Route A"}
	equal := map[string]float64{"Route A": 0.5, "Route B": 0.5}
	weights := Weights{WeightTime: 0.25, WeightDistance: 0.25, WeightCarbon: 0.25, WeightRoad: 0.25}

	results := calc.Calculate(names, equal, equal, equal, equal, weights)
	if results[0].RouteName != "Route A" {
		t.Errorf("tied scores ranked %s first, want Route A by name ascending", results[0].RouteName)
	}
}

func TestSummarizeRationale(t *testing.T) {
	calc := NewCalculator(zerolog.Nop())

	tests := []struct {
		name       string
		components map[string]float64
		want       string
	}{
		{
			name: "single standout dimension",
			components: map[string]float64{
				WeightTime: 0.95, WeightDistance: 0.5, WeightCarbon: 0.5, WeightRoad: 0.5,
			},
			want: "Selected for excellent time efficiency",
		},
		{
			name: "multiple standout dimensions",
			components: map[string]float64{
				WeightTime: 0.9, WeightDistance: 0.9, WeightCarbon: 0.2, WeightRoad: 0.2,
			},
			want: "Selected for excellent time efficiency, shortest distance",
		},
		{
			name: "no dimension above threshold",
			components: map[string]float64{
				WeightTime: 0.6, WeightDistance: 0.6, WeightCarbon: 0.6, WeightRoad: 0.6,
			},
			want: "Best overall balance of all factors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := calc.Summarize([]Result{{RouteName: "Route 1", Components: tt.components}})
			if summary.Reason != tt.want {
				t.Errorf("reason = %q, want %q", summary.Reason, tt.want)
			}
			if summary.BestRouteName != "Route 1" {
				t.Errorf("best route = %q, want %q", summary.BestRouteName, "Route 1")
			}
		})
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := NewCalculator(zerolog.Nop()).Summarize(nil)
	if summary.BestRouteName != "" || len(summary.Routes) != 0 {
		t.Errorf("empty result set produced non-empty summary: %+v", summary)
	}
}
