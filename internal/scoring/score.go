// Package scoring computes per-route component scores (time, distance,
// carbon, road quality) and aggregates them into weighted resilience
// scores.
package scoring

import "fmt"

// Priority weight keys accepted from callers.
const (
	WeightTime     = "time"
	WeightDistance = "distance"
	WeightCarbon   = "carbon_emission"
	WeightRoad     = "road_quality"
)

// Weights maps a scoring dimension to its relative importance. Values are
// non-negative and need not sum to 1.
type Weights map[string]float64

// Normalized returns a copy whose values sum to 1.0. All-zero (or empty)
// weights become equal weights of 0.25 per dimension.
func (w Weights) Normalized() Weights {
	var total float64
	for _, v := range w {
		total += v
	}

	if total == 0 {
		return Weights{
			WeightTime:     0.25,
			WeightDistance: 0.25,
			WeightCarbon:   0.25,
			WeightRoad:     0.25,
		}
	}

	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v / total
	}
	return out
}

// normalizeInverted converts raw metric values into [0,1] scores where the
// minimum raw value scores 1.0 and the maximum scores 0.0. When every value
// is equal, all score 1.0.
func normalizeInverted(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	scores := make([]float64, len(values))
	for i, v := range values {
		if maxV == minV {
			scores[i] = 1.0
			continue
		}
		scores[i] = clamp01(1.0 - (v-minV)/(maxV-minV))
	}
	return scores
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FormatDistance renders meters as "850 m" below one kilometer and
// "123.4 km" above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(meters))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders seconds as "45s", "45m", "2h 30m" or "2h".
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", int(seconds))
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm", int(seconds/60))
	}
	hours := int(seconds / 3600)
	mins := int(seconds/60) % 60
	if mins > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dh", hours)
}
