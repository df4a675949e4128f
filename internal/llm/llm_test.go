package llm

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

func TestNewOllama_ProbesServer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	model, err := NewOllama(context.Background(), "llama3", ts.URL)
	require.NoError(t, err)
	require.NotNil(t, model)
}

func TestNewOllama_UnreachableServerFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := ts.URL
	ts.Close()

	_, err := NewOllama(context.Background(), "llama3", baseURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}

func TestNewFromConfig_ExhaustedChainIsConfigError(t *testing.T) {
	// no credentials and a dead local address: every candidate must fail
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := ts.URL
	ts.Close()

	cfg := &config.AppConfig{}
	cfg.Providers.Ollama.BaseURL = baseURL

	_, err := NewFromConfig(context.Background(), cfg, logger.New("llm-test", ""))
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestFlattenMessages(t *testing.T) {
	prompt := flattenMessages([]Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})
	assert.Equal(t, "system: be brief\nuser: hi\nassistant: ", prompt)
}
