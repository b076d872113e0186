// Package thenewsapi implements the news provider interface against
// TheNewsAPI.
package thenewsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/news"
	"github.com/resilroute/resilroute/internal/provider/resilient"
)

const (
	// ProviderName identifies this news provider.
	ProviderName = "thenewsapi"

	// DefaultBaseURL is TheNewsAPI base URL.
	DefaultBaseURL = "https://api.thenewsapi.com/v1"

	// DefaultRegion scopes the widened fallback search.
	DefaultRegion = "India"

	// lookbackDays limits results to recent headlines.
	lookbackDays = 5
)

// transportKeywords narrows results to logistics-relevant headlines.
const transportKeywords = "(logistics | transport | highway | infrastructure | freight | truck | road | accident | diversion | traffic)"

// ClientConfig holds configuration for TheNewsAPI client.
type ClientConfig struct {
	// APIToken is TheNewsAPI token (required).
	APIToken string

	// BaseURL is the API base URL (optional, defaults to TheNewsAPI).
	BaseURL string

	// Region scopes the regional fallback search (optional).
	Region string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilient.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a TheNewsAPI client.
type Client struct {
	apiToken   string
	baseURL    string
	region     string
	httpClient *resilient.Client
	logger     zerolog.Logger
}

// NewClient creates a new TheNewsAPI client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilient.NewClient(resilient.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiToken:   cfg.APIToken,
		baseURL:    baseURL,
		region:     region,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchCityNews searches transport headlines mentioning the given cities.
func (c *Client) FetchCityNews(ctx context.Context, cities []string, limit int) ([]news.Article, error) {
	quoted := make([]string, len(cities))
	for i, city := range cities {
		quoted[i] = fmt.Sprintf("%q", city)
	}
	query := fmt.Sprintf("(%s) + %s", strings.Join(quoted, " | "), transportKeywords)
	return c.search(ctx, query, limit)
}

// FetchRegionalNews searches transport headlines for the configured region.
func (c *Client) FetchRegionalNews(ctx context.Context, limit int) ([]news.Article, error) {
	query := fmt.Sprintf("(%s) + %s", c.region, transportKeywords)
	return c.search(ctx, query, limit)
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]news.Article, error) {
	params := url.Values{
		"api_token":       {c.apiToken},
		"search":          {query},
		"language":        {"en"},
		"limit":           {strconv.Itoa(limit)},
		"categories":      {"business,tech,general"},
		"sort":            {"published_at"},
		"published_after": {time.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")},
	}

	reqURL := fmt.Sprintf("%s/news/all?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("thenewsapi returned status %d: %s", resp.StatusCode, body)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	articles := make([]news.Article, 0, len(payload.Data))
	for _, a := range payload.Data {
		publishedAt, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, news.Article{
			UUID:        a.UUID,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source,
			PublishedAt: publishedAt,
			ImageURL:    a.ImageURL,
		})
	}

	return articles, nil
}

type searchResponse struct {
	Data []struct {
		UUID        string `json:"uuid"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		PublishedAt string `json:"published_at"`
		ImageURL    string `json:"image_url"`
	} `json:"data"`
}
