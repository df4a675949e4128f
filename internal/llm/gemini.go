package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is a chat client for the Google Generative AI API.
type Gemini struct {
	model *genai.GenerativeModel
}

// NewGemini creates a new Gemini chat client. The API key is required.
func NewGemini(ctx context.Context, model, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini chat: missing API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{model: client.GenerativeModel(model)}, nil
}

// Chat flattens the message sequence into a single prompt and generates
// one reply. The genai SDK models multi-turn chat through sessions, which
// the service does not need since history is replayed on every turn.
func (g *Gemini) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(flattenMessages(messages)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// flattenMessages renders a message sequence as a role-prefixed prompt
// for backends without a native message format.
func flattenMessages(messages []Message) string {
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	sb.WriteString(RoleAssistant)
	sb.WriteString(": ")
	return sb.String()
}

var _ ChatModel = (*Gemini)(nil)
