package pipeline

import (
	"context"
	"fmt"
	"strings"

	"neochat/internal/rag/interfaces"
	"neochat/pkg/logger"
)

// ContextSeparator joins retrieved chunk texts in the prompt so the model
// can tell where one passage ends and the next begins.
const ContextSeparator = "\n\n---\n\n"

// Retriever answers queries against the vector store and assembles the
// retrieved chunks into a single context block for the prompt.
type Retriever struct {
	store interfaces.VectorStore
	log   *logger.Logger
}

// NewRetriever creates a new Retriever.
func NewRetriever(store interfaces.VectorStore, log *logger.Logger) *Retriever {
	return &Retriever{store: store, log: log}
}

// Retrieve returns the top-k chunk texts for the query joined in rank
// order. An empty string means no context is available, which callers
// treat as "answer without context" rather than a failure.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (string, error) {
	results, err := r.store.Query(ctx, query, k)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}
	if len(results) == 0 {
		r.log.Debug("no context retrieved for query")
		return "", nil
	}

	pieces := make([]string, len(results))
	for i, result := range results {
		pieces[i] = result.Document.Text
	}
	r.log.Info(fmt.Sprintf("retrieved %d chunk(s) for query", len(results)))
	return strings.Join(pieces, ContextSeparator), nil
}
