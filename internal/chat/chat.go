// Package chat wires the conversation turn together: session history,
// retrieved document context, optional web search, and the chat model.
// The orchestrator itself stays thin; every failure of an optional
// capability degrades into a notice instead of an error.
package chat

import (
	"context"
	"fmt"
	"strings"

	"neochat/internal/llm"
	"neochat/internal/search"
	"neochat/internal/session"
	"neochat/pkg/logger"
)

const (
	// ModeConcise asks for short answers. It is the default.
	ModeConcise = "concise"
	// ModeDetailed asks for thorough answers.
	ModeDetailed = "detailed"
)

// webPrefixes route a message to web search instead of retrieval.
var webPrefixes = []string{"web:", "search:", "google:"}

const basePrompt = "You are a helpful assistant. Answer using the provided context when it is relevant; say so when it is not."

// ContextRetriever yields a ready-to-inject context block for a query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, k int) (string, error)
}

// Options tune a single conversation turn.
type Options struct {
	Mode string // ModeConcise or ModeDetailed
}

// Orchestrator runs conversation turns. The search provider may be nil,
// in which case web-prefixed messages get a degradation notice.
type Orchestrator struct {
	sessions   *session.Store
	retriever  ContextRetriever
	model      llm.ChatModel
	searcher   search.Provider
	topK       int
	numResults int
	log        *logger.Logger
}

// NewOrchestrator creates a chat orchestrator.
func NewOrchestrator(sessions *session.Store, retriever ContextRetriever, model llm.ChatModel, searcher search.Provider, topK, numResults int, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		sessions:   sessions,
		retriever:  retriever,
		model:      model,
		searcher:   searcher,
		topK:       topK,
		numResults: numResults,
		log:        log,
	}
}

// Turn handles one user message in a session: the message is persisted,
// answered through either web search or retrieval-augmented generation,
// and the reply is persisted before being returned.
func (o *Orchestrator) Turn(ctx context.Context, sessionID, input string, opts Options) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty message")
	}

	if err := o.sessions.Append(sessionID, session.RoleUser, input); err != nil {
		return "", fmt.Errorf("failed to persist user message: %w", err)
	}

	var reply string
	if query, ok := stripWebPrefix(input); ok {
		reply = o.webSearch(ctx, query)
	} else {
		var err error
		reply, err = o.generate(ctx, sessionID, input, opts)
		if err != nil {
			return "", err
		}
	}

	if err := o.sessions.Append(sessionID, session.RoleAssistant, reply); err != nil {
		return "", fmt.Errorf("failed to persist assistant message: %w", err)
	}
	return reply, nil
}

// generate answers through the model, with document context injected
// when the index yields any. Both optional boundaries degrade: retrieval
// failure drops the context, model failure becomes the reply text, so
// the turn always completes with an assistant message.
func (o *Orchestrator) generate(ctx context.Context, sessionID, input string, opts Options) (string, error) {
	docContext, err := o.retriever.Retrieve(ctx, input, o.topK)
	if err != nil {
		o.log.Warn(fmt.Sprintf("retrieval failed, answering without context: %v", err))
		docContext = ""
	}

	history, err := o.sessions.Load(sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session history: %w", err)
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt(opts.Mode)})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	// The just-persisted user message is the last history entry; the
	// context block is injected into the model's copy only, so stored
	// history stays what the user actually typed.
	if docContext != "" {
		messages[len(messages)-1].Content = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", docContext, input)
	}

	reply, err := o.model.Chat(ctx, messages)
	if err != nil {
		o.log.Warn(fmt.Sprintf("chat model failed: %v", err))
		return fmt.Sprintf("LLM error: %v", err), nil
	}
	return reply, nil
}

// webSearch answers a web-prefixed message with formatted results. Any
// failure degrades into a notice rather than an error.
func (o *Orchestrator) webSearch(ctx context.Context, query string) string {
	if o.searcher == nil {
		return "Web search failed: no search provider configured."
	}

	results, err := o.searcher.Search(ctx, query, o.numResults)
	if err != nil {
		o.log.Warn(fmt.Sprintf("web search failed: %v", err))
		return fmt.Sprintf("Web search failed: %v", err)
	}
	if len(results) == 0 {
		return "Web search returned no results."
	}

	formatted := make([]string, len(results))
	for i, r := range results {
		formatted[i] = fmt.Sprintf("- %s\n%s\n(%s)", r.Title, r.Snippet, r.Link)
	}
	return "Web search results:\n\n" + strings.Join(formatted, "\n\n")
}

func systemPrompt(mode string) string {
	switch mode {
	case ModeDetailed:
		return basePrompt + " Give thorough, well-structured answers."
	default:
		return basePrompt + " Keep answers short and to the point."
	}
}

// stripWebPrefix reports whether the message requests a web search and
// returns the query with the prefix removed.
func stripWebPrefix(input string) (string, bool) {
	lower := strings.ToLower(input)
	for _, prefix := range webPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(input[len(prefix):]), true
		}
	}
	return input, false
}
