package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// OpenAI is a chat client for the OpenAI API. The Groq backend reuses it
// through Groq's OpenAI-compatible endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a new OpenAI chat client. The API key is required.
func NewOpenAI(model, apiKey string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai chat: missing API key")
	}
	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	return &OpenAI{client: openai.NewClientWithConfig(config), model: model}, nil
}

// NewGroq creates a chat client against Groq's OpenAI-compatible API.
func NewGroq(model, apiKey string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq chat: missing API key")
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = groqBaseURL
	config.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	return &OpenAI{client: openai.NewClientWithConfig(config), model: model}, nil
}

// Chat sends the message sequence as a chat completion request and
// returns the first choice.
func (o *OpenAI) Chat(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: toOpenAIMessages(messages),
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}
	return out
}

var _ ChatModel = (*OpenAI)(nil)
