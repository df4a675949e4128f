// Package embedding provides the text embedding backends and the startup
// selection policy between them. The backend is chosen once at startup and
// must stay fixed for the lifetime of a vector index: vectors from
// different backends have different dimensions and mixing them corrupts
// the index.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"neochat/internal/config"
	"neochat/internal/rag/interfaces"
	"neochat/pkg/logger"
)

// ErrNoProvider is returned when no embedding backend can be initialized.
// Indexing and retrieval cannot proceed without one.
var ErrNoProvider = errors.New("no embedding backend available: set OPENAI_API_KEY or run a local ollama instance")

// NewFromConfig selects an embedding backend: the remote OpenAI model when
// a credential is configured, otherwise the local Ollama model. Candidates
// are tried in order and the first successful initialization wins.
func NewFromConfig(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (interfaces.Embedder, error) {
	candidates := []struct {
		name string
		init func() (interfaces.Embedder, error)
	}{
		{"openai", func() (interfaces.Embedder, error) {
			return NewOpenAIModel(cfg.Providers.OpenAI.EmbeddingModel, cfg.Credentials.OpenAIAPIKey)
		}},
		{"ollama", func() (interfaces.Embedder, error) {
			return NewOllamaModel(ctx, cfg.Providers.Ollama.EmbeddingModel, cfg.Providers.Ollama.BaseURL)
		}},
	}

	for _, c := range candidates {
		embedder, err := c.init()
		if err != nil {
			log.Warn(fmt.Sprintf("embedding backend %s unavailable: %v", c.name, err))
			continue
		}
		log.Info(fmt.Sprintf("embedding backend selected: %s", c.name))
		return embedder, nil
	}

	return nil, ErrNoProvider
}
