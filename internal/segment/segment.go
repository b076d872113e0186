// Package segment splits a route's directional steps into geographic
// segments, the unit of road-type and weather sampling downstream.
package segment

import (
	"math"

	"github.com/resilroute/resilroute/internal/routing"
)

// Segment is a sub-piece of a route's geometry bounded by two coordinates.
// Segments are owned by their parent route and never shared.
type Segment struct {
	// ID is a dense 0-based index in step order. Weather sampling walks
	// segments in this order.
	ID     int                `json:"segment_id"`
	Start  routing.Coordinate `json:"start"`
	End    routing.Coordinate `json:"end"`
	Length float64            `json:"length_m"`
}

// Midpoint returns the segment's geometric midpoint.
func (s Segment) Midpoint() routing.Coordinate {
	return routing.Coordinate{
		Lat: (s.Start.Lat + s.End.Lat) / 2,
		Lon: (s.Start.Lon + s.End.Lon) / 2,
	}
}

// RouteSegments holds the extracted segments of one route together with the
// extreme segment lengths.
type RouteSegments struct {
	RouteName string
	Segments  []Segment
	MaxLength float64
	MinLength float64
}

// TotalLength returns the summed segment length in meters.
func (rs RouteSegments) TotalLength() float64 {
	var total float64
	for _, s := range rs.Segments {
		total += s.Length
	}
	return total
}

// Extract produces the ordered segment sequence for a route. Steps whose
// start or end coordinate has a zero component are skipped: providers use
// (0,0) as a sentinel for "unavailable", not a real location. A route with
// no valid steps yields an empty sequence with zero extremes.
func Extract(route *routing.Route) RouteSegments {
	rs := RouteSegments{RouteName: route.Name}

	minLength := math.Inf(1)
	id := 0

	for _, step := range route.Steps {
		if step.StartLocation.IsZero() || step.EndLocation.IsZero() {
			continue
		}

		length := Haversine(step.StartLocation, step.EndLocation)
		rs.Segments = append(rs.Segments, Segment{
			ID:     id,
			Start:  step.StartLocation,
			End:    step.EndLocation,
			Length: length,
		})
		id++

		if length > rs.MaxLength {
			rs.MaxLength = length
		}
		if length < minLength {
			minLength = length
		}
	}

	if len(rs.Segments) == 0 {
		rs.MaxLength = 0
		rs.MinLength = 0
	} else {
		rs.MinLength = minLength
	}

	return rs
}

// ExtractAll extracts segments for every route in the candidate set,
// preserving order.
func ExtractAll(routes []routing.Route) []RouteSegments {
	out := make([]RouteSegments, 0, len(routes))
	for i := range routes {
		out = append(out, Extract(&routes[i]))
	}
	return out
}

// earthRadius is the mean Earth radius in meters.
const earthRadius = 6371000

// Haversine returns the great-circle distance between two coordinates in
// meters.
func Haversine(a, b routing.Coordinate) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
