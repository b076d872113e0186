// Package overpass implements a road classifier backed by the Overpass API
// for OpenStreetMap.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/provider/resilient"
	"github.com/resilroute/resilroute/internal/road"
	"github.com/resilroute/resilroute/internal/routing"
)

const (
	// ClassifierName identifies this road classifier.
	ClassifierName = "overpass"

	// DefaultBaseURL is the public Overpass API endpoint.
	DefaultBaseURL = "https://overpass-api.de/api/interpreter"

	// DefaultSearchRadiusM bounds the highway lookup around a point.
	DefaultSearchRadiusM = 200
)

// ClientConfig holds configuration for the Overpass client.
type ClientConfig struct {
	// BaseURL is the Overpass interpreter endpoint (optional).
	BaseURL string

	// SearchRadiusM is the lookup radius in meters (optional, default 200).
	SearchRadiusM int

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilient.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client queries Overpass for the nearest tagged highway around a point.
type Client struct {
	baseURL       string
	searchRadiusM int
	httpClient    *resilient.Client
	logger        zerolog.Logger
}

// NewClient creates a new Overpass classifier.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	searchRadiusM := cfg.SearchRadiusM
	if searchRadiusM == 0 {
		searchRadiusM = DefaultSearchRadiusM
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilient.NewClient(resilient.DefaultClientConfig(ClassifierName))
	}

	return &Client{
		baseURL:       baseURL,
		searchRadiusM: searchRadiusM,
		httpClient:    httpClient,
		logger:        cfg.Logger,
	}
}

// Name returns the classifier name.
func (c *Client) Name() string {
	return ClassifierName
}

// Classify returns the highway type of the way nearest to the point.
func (c *Client) Classify(ctx context.Context, point routing.Coordinate) (road.Type, error) {
	query := fmt.Sprintf(`[out:json][timeout:10];way(around:%d,%.6f,%.6f)[highway];out tags 1;`,
		c.searchRadiusM, point.Lat, point.Lon)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, body)
	}

	var payload overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	for _, el := range payload.Elements {
		if highway := el.Tags["highway"]; highway != "" {
			return road.Type(highway), nil
		}
	}

	return "", fmt.Errorf("no tagged highway within %dm of (%.4f, %.4f)",
		c.searchRadiusM, point.Lat, point.Lon)
}

type overpassResponse struct {
	Elements []struct {
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}
