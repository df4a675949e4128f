// Package search provides the optional web search providers. A provider
// is selected at startup with the same first-available policy the model
// backends use; when no search credential is configured the feature is
// simply absent and chat falls back to a degradation notice.
package search

import (
	"context"
	"errors"
)

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Provider runs a web search and returns up to numResults hits.
type Provider interface {
	Search(ctx context.Context, query string, numResults int) ([]Result, error)
}

// ErrNoProvider is returned when no search backend is configured.
var ErrNoProvider = errors.New("no search provider available: set SERPAPI_KEY or GOOGLE_CSE_KEY and GOOGLE_CX")
