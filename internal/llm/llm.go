// Package llm provides the chat model backends and the startup selection
// policy between them: candidates are tried in a fixed order and the
// first one that initializes wins.
package llm

import (
	"context"
	"errors"
	"fmt"

	"neochat/internal/config"
	"neochat/pkg/logger"
)

const (
	// RoleSystem marks the instruction message at the head of a request.
	RoleSystem = "system"
	// RoleUser marks messages from the human side of the chat.
	RoleUser = "user"
	// RoleAssistant marks messages from the model side of the chat.
	RoleAssistant = "assistant"
)

// Message is one entry in a chat request, in conversation order.
type Message struct {
	Role    string
	Content string
}

// ChatModel is the interface every chat backend implements: an ordered
// message sequence in, a single completed reply out.
type ChatModel interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// ErrNoProvider is returned when no chat backend can be initialized.
var ErrNoProvider = errors.New("no chat model available: set OPENAI_API_KEY, GROQ_API_KEY, GEMINI_API_KEY or run a local ollama instance")

// NewFromConfig selects a chat backend with a first-available policy over
// the configured credentials: OpenAI, then Groq, then Gemini, then the
// local Ollama instance.
func NewFromConfig(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (ChatModel, error) {
	candidates := []struct {
		name string
		init func() (ChatModel, error)
	}{
		{"openai", func() (ChatModel, error) {
			return NewOpenAI(cfg.Providers.OpenAI.ChatModel, cfg.Credentials.OpenAIAPIKey)
		}},
		{"groq", func() (ChatModel, error) {
			return NewGroq(cfg.Providers.Groq.ChatModel, cfg.Credentials.GroqAPIKey)
		}},
		{"gemini", func() (ChatModel, error) {
			return NewGemini(ctx, cfg.Providers.Gemini.ChatModel, cfg.Credentials.GeminiAPIKey)
		}},
		{"ollama", func() (ChatModel, error) {
			return NewOllama(ctx, cfg.Providers.Ollama.ChatModel, cfg.Providers.Ollama.BaseURL)
		}},
	}

	for _, c := range candidates {
		model, err := c.init()
		if err != nil {
			log.Warn(fmt.Sprintf("chat backend %s unavailable: %v", c.name, err))
			continue
		}
		log.Info(fmt.Sprintf("chat backend selected: %s", c.name))
		return model, nil
	}

	return nil, ErrNoProvider
}
