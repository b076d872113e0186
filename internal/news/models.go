// Package news fetches route-relevant logistics and transport headlines for
// the cities a route passes through.
package news

import (
	"errors"
	"time"
)

// News errors.
var (
	ErrProviderUnavailable = errors.New("news provider unavailable")
)

// Article is a single news item.
type Article struct {
	UUID        string    `json:"uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	ImageURL    string    `json:"image_url,omitempty"`
}
