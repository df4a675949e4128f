package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const googleCSEEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleCSE searches through the Google Custom Search JSON API. It needs
// both an API key and a search engine ID (cx).
type GoogleCSE struct {
	apiKey string
	cx     string
	client *http.Client
}

// NewGoogleCSE creates a new Google Custom Search provider.
func NewGoogleCSE(apiKey, cx string) (*GoogleCSE, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("google cse: missing API key or engine ID")
	}
	return &GoogleCSE{
		apiKey: apiKey,
		cx:     cx,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Search runs one query against the custom search engine. The API caps
// a single request at 10 results.
func (g *GoogleCSE) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if numResults > 10 {
		numResults = 10
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cx)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))

	body, err := getJSON(ctx, g.client, googleCSEEndpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("google cse request failed: %w", err)
	}

	var payload struct {
		Items []Result `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode google cse response: %w", err)
	}
	return payload.Items, nil
}

var _ Provider = (*GoogleCSE)(nil)
