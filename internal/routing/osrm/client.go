// Package osrm provides a routing.Provider backed by an OSRM server.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/provider/resilient"
	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server. Replace with a
	// self-hosted instance for production traffic.
	DefaultBaseURL = "http://router.project-osrm.org"
)

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the OSRM server URL (optional, defaults to the demo server).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional). If nil, a resilient
	// client with defaults is created.
	HTTPClient *resilient.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM routing API client.
type Client struct {
	baseURL    string
	httpClient *resilient.Client
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilient.NewClient(resilient.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetDirections retrieves driving route alternatives between two points.
func (c *Client) GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error) {
	// OSRM expects lon,lat ordering.
	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=polyline&steps=true&alternatives=true",
		c.baseURL,
		req.Origin.Lon, req.Origin.Lat,
		req.Destination.Lon, req.Destination.Lat,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "executing request",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Err:      routing.ErrProviderUnavailable,
		}
	}

	var osrmResp routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if osrmResp.Code != "Ok" {
		c.logger.Warn().
			Str("code", osrmResp.Code).
			Str("message", osrmResp.Message).
			Msg("osrm returned error code")
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     osrmResp.Code,
			Message:  osrmResp.Message,
			Err:      routing.ErrNoRouteFound,
		}
	}

	routes := make([]routing.Route, 0, len(osrmResp.Routes))
	for i, r := range osrmResp.Routes {
		routes = append(routes, c.toRoute(i, &r))
	}

	c.logger.Debug().Int("route_count", len(routes)).Msg("fetched osrm directions")

	return &routing.DirectionsResponse{
		Routes:    routes,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}, nil
}

// toRoute converts an OSRM route to the domain model.
func (c *Client) toRoute(index int, r *osrmRoute) routing.Route {
	var steps []routing.Step
	for _, leg := range r.Legs {
		for _, s := range leg.Steps {
			step := routing.Step{
				DistanceMeters: s.Distance,
				DurationSecs:   s.Duration,
				Instruction:    s.Maneuver.Type,
			}
			if len(s.Maneuver.Location) == 2 {
				step.StartLocation = routing.Coordinate{Lat: s.Maneuver.Location[1], Lon: s.Maneuver.Location[0]}
			}
			steps = append(steps, step)
		}
	}

	// OSRM steps carry only the maneuver point; each step ends where the
	// next begins, so backfill end locations from the successor.
	for i := range steps {
		if i+1 < len(steps) {
			steps[i].EndLocation = steps[i+1].StartLocation
		}
	}
	// The final step is the arrival maneuver with zero extent; drop it so
	// every remaining step has both endpoints.
	if n := len(steps); n > 0 {
		steps = steps[:n-1]
	}

	distanceText := formatDistance(r.Distance)
	durationText := formatDuration(r.Duration)

	decoded := polyline.Decode(r.Geometry)
	path := make([]routing.Coordinate, 0, len(decoded))
	for _, p := range decoded {
		path = append(path, routing.Coordinate{Lat: p.Lat, Lon: p.Lon})
	}

	return routing.Route{
		Name:             fmt.Sprintf("Route %d", index+1),
		DistanceMeters:   r.Distance,
		DurationSecs:     r.Duration,
		DistanceText:     distanceText,
		DurationText:     durationText,
		Steps:            steps,
		OverviewPolyline: r.Geometry,
		Path:             path,
		Bounds:           routing.BoundsOf(path),
		Summary:          fmt.Sprintf("OSRM Route (%s, %s)", distanceText, durationText),
	}
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(meters))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func formatDuration(seconds float64) string {
	mins := seconds / 60
	if mins < 60 {
		return fmt.Sprintf("%d mins", int(mins))
	}
	hours := int(mins / 60)
	rem := int(mins) % 60
	if rem > 0 {
		return fmt.Sprintf("%d hrs %d mins", hours, rem)
	}
	return fmt.Sprintf("%d hrs", hours)
}

// OSRM API response structures.

type routeResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Geometry string  `json:"geometry"`
	Legs     []struct {
		Steps []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Maneuver struct {
				Type     string    `json:"type"`
				Location []float64 `json:"location"`
			} `json:"maneuver"`
		} `json:"steps"`
	} `json:"legs"`
}
