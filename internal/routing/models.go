// Package routing provides candidate route retrieval for an
// origin-destination query.
package routing

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrInvalidCoordinates indicates coordinates outside valid ranges.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// GetDirections retrieves driving route alternatives between two points.
	GetDirections(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error)
	// Name returns the provider identifier for logging and health reporting.
	Name() string
}

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports whether the coordinate is the (0,0) sentinel used by
// providers for "unavailable".
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 || c.Lon == 0
}

// DirectionsRequest is the request for computing candidate routes.
type DirectionsRequest struct {
	Origin          Coordinate
	Destination     Coordinate
	MaxAlternatives int // maximum alternative routes to return (default: 3)
}

// DirectionsResponse contains the candidate route set for one query.
// Ordering among routes is insertion order only; it carries no meaning
// before scoring.
type DirectionsResponse struct {
	Routes    []Route
	Provider  string
	FetchedAt time.Time
}

// Route is a single candidate route as returned by the provider. It is
// immutable once fetched; pipeline stages derive new data (segments, scores)
// rather than mutating it.
type Route struct {
	Name           string `json:"route_name"`
	DistanceMeters float64
	DurationSecs   float64
	DistanceText   string
	DurationText   string
	Steps          []Step
	// OverviewPolyline is the encoded overview geometry (precision 5).
	OverviewPolyline string
	// Path is the decoded overview geometry.
	Path    []Coordinate
	Bounds  *BoundingBox
	Summary string
}

// BoundingBox is the geographic extent of a route's overview path.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundsOf computes the bounding box of a path. Returns nil for an empty
// path.
func BoundsOf(path []Coordinate) *BoundingBox {
	if len(path) == 0 {
		return nil
	}
	b := &BoundingBox{
		MinLat: path[0].Lat, MaxLat: path[0].Lat,
		MinLon: path[0].Lon, MaxLon: path[0].Lon,
	}
	for _, p := range path[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}
	return b
}

// Step is one directional instruction of a route.
type Step struct {
	StartLocation  Coordinate
	EndLocation    Coordinate
	DistanceMeters float64
	DurationSecs   float64
	Instruction    string
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
