// Package worker provides background job processing for ResilRoute.
package worker

import (
	"time"
)

// Corridor is one origin-destination pair to keep warm.
type Corridor struct {
	// Name is the human-readable name of the corridor.
	Name string

	// Origin and Destination are the corridor endpoints.
	Origin      Point
	Destination Point

	// Cities along the corridor, used for news lookups.
	Cities []string

	// Priority determines prewarm order (lower = higher priority).
	Priority int
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// PrewarmConfig holds configuration for the corridor prewarm job.
type PrewarmConfig struct {
	// Corridors are the origin-destination pairs to analyze.
	// If empty, uses DefaultCorridors.
	Corridors []Corridor

	// Concurrency is the number of concurrent corridor analyses.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each corridor analysis.
	// Default: 60 seconds
	Timeout time.Duration
}

// DefaultPrewarmConfig returns the default prewarm configuration.
func DefaultPrewarmConfig() PrewarmConfig {
	return PrewarmConfig{
		Corridors:   DefaultCorridors(),
		Concurrency: 3,
		Timeout:     60 * time.Second,
	}
}

// DefaultCorridors returns the default high-traffic freight corridors.
func DefaultCorridors() []Corridor {
	return []Corridor{
		{
			Name:        "Mumbai-Pune",
			Priority:    1,
			Origin:      Point{Lat: 19.0760, Lon: 72.8777}, // Mumbai
			Destination: Point{Lat: 18.5204, Lon: 73.8567}, // Pune
			Cities:      []string{"Mumbai", "Pune"},
		},
		{
			Name:        "Delhi-Jaipur",
			Priority:    1,
			Origin:      Point{Lat: 28.7041, Lon: 77.1025}, // Delhi
			Destination: Point{Lat: 26.9124, Lon: 75.7873}, // Jaipur
			Cities:      []string{"Delhi", "Jaipur"},
		},
		{
			Name:        "Bengaluru-Chennai",
			Priority:    1,
			Origin:      Point{Lat: 12.9716, Lon: 77.5946}, // Bengaluru
			Destination: Point{Lat: 13.0827, Lon: 80.2707}, // Chennai
			Cities:      []string{"Bengaluru", "Chennai"},
		},
		{
			Name:        "Ahmedabad-Mumbai",
			Priority:    2,
			Origin:      Point{Lat: 23.0225, Lon: 72.5714}, // Ahmedabad
			Destination: Point{Lat: 19.0760, Lon: 72.8777}, // Mumbai
			Cities:      []string{"Ahmedabad", "Mumbai"},
		},
		{
			Name:        "Hyderabad-Vijayawada",
			Priority:    2,
			Origin:      Point{Lat: 17.3850, Lon: 78.4867}, // Hyderabad
			Destination: Point{Lat: 16.5062, Lon: 80.6480}, // Vijayawada
			Cities:      []string{"Hyderabad", "Vijayawada"},
		},
		{
			Name:        "Kolkata-Durgapur",
			Priority:    3,
			Origin:      Point{Lat: 22.5726, Lon: 88.3639}, // Kolkata
			Destination: Point{Lat: 23.5204, Lon: 87.3119}, // Durgapur
			Cities:      []string{"Kolkata", "Durgapur"},
		},
	}
}

// ByName returns the named corridor, or false when it is not configured.
func (c PrewarmConfig) ByName(name string) (Corridor, bool) {
	for _, corridor := range c.Corridors {
		if corridor.Name == name {
			return corridor, true
		}
	}
	return Corridor{}, false
}

// TotalCorridors returns the number of configured corridors.
func (c PrewarmConfig) TotalCorridors() int {
	return len(c.Corridors)
}
