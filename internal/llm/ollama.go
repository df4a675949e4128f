package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// Ollama is a chat client for a local Ollama instance, the last candidate
// in the selection chain when no remote credential is configured.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama creates a new Ollama chat client. An empty baseURL defaults
// to the local Ollama address. The server is probed here so an absent
// instance fails selection and lets the chain exhaust into ErrNoProvider.
func NewOllama(ctx context.Context, model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{
		Timeout: 120 * time.Second,
	}
	client := ollama.NewClient(parsedURL, hc)

	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Heartbeat(probeCtx); err != nil {
		return nil, fmt.Errorf("ollama not reachable at %s: %w", baseURL, err)
	}

	return &Ollama{client: client, model: model}, nil
}

// Chat sends the message sequence to Ollama's chat endpoint and collects
// the single non-streamed reply.
func (o *Ollama) Chat(ctx context.Context, messages []Message) (string, error) {
	ollamaMessages := make([]ollama.Message, len(messages))
	for i, m := range messages {
		ollamaMessages[i] = ollama.Message{Role: m.Role, Content: m.Content}
	}

	stream := false
	var sb strings.Builder
	err := o.client.Chat(ctx, &ollama.ChatRequest{
		Model:    o.model,
		Messages: ollamaMessages,
		Stream:   &stream,
	}, func(resp ollama.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to chat with ollama: %w", err)
	}
	return sb.String(), nil
}

var _ ChatModel = (*Ollama)(nil)
