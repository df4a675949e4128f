package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const serpAPIEndpoint = "https://serpapi.com/search"

// SerpAPI searches Google through the SerpAPI service.
type SerpAPI struct {
	apiKey string
	client *http.Client
}

// NewSerpAPI creates a new SerpAPI provider. The API key is required.
func NewSerpAPI(apiKey string) (*SerpAPI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("serpapi: missing API key")
	}
	return &SerpAPI{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Search runs one Google query through SerpAPI and returns the organic
// results.
func (s *SerpAPI) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))
	params.Set("api_key", s.apiKey)

	body, err := getJSON(ctx, s.client, serpAPIEndpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("serpapi request failed: %w", err)
	}

	var payload struct {
		OrganicResults []Result `json:"organic_results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode serpapi response: %w", err)
	}

	if len(payload.OrganicResults) > numResults {
		payload.OrganicResults = payload.OrganicResults[:numResults]
	}
	return payload.OrganicResults, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

var _ Provider = (*SerpAPI)(nil)
