package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neochat/internal/config"
	"neochat/pkg/logger"
)

func fakeOllamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestNewOllamaModel_ProbesServer(t *testing.T) {
	ts := fakeOllamaServer(t)

	m, err := NewOllamaModel(context.Background(), "nomic-embed-text", ts.URL)
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestNewOllamaModel_UnreachableServerFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := ts.URL
	ts.Close()

	_, err := NewOllamaModel(context.Background(), "nomic-embed-text", baseURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}

func TestNewFromConfig_ExhaustedChainIsConfigError(t *testing.T) {
	// dead address, so the local fallback cannot answer the probe
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := ts.URL
	ts.Close()

	cfg := &config.AppConfig{}
	cfg.Providers.Ollama.BaseURL = baseURL

	_, err := NewFromConfig(context.Background(), cfg, logger.New("embedding-test", ""))
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestNewFromConfig_LocalFallbackSelected(t *testing.T) {
	ts := fakeOllamaServer(t)

	cfg := &config.AppConfig{}
	cfg.Providers.Ollama.BaseURL = ts.URL
	cfg.Providers.Ollama.EmbeddingModel = "nomic-embed-text"

	embedder, err := NewFromConfig(context.Background(), cfg, logger.New("embedding-test", ""))
	require.NoError(t, err)
	assert.IsType(t, (*OllamaModel)(nil), embedder)
}
