package interfaces

import (
	"context"

	"neochat/internal/rag/schema"
)

// Loader is the interface for loading a file from disk and converting it
// into a list of Document objects.
type Loader interface {
	Load(ctx context.Context, path string) ([]*schema.Document, error)
}

// Splitter is the interface for splitting a list of Documents into smaller chunks.
type Splitter interface {
	Split(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error)
}

// Embedder is the interface for a text embedding backend.
type Embedder interface {
	// Embed generates the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch generates embedding vectors for a batch of texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// SearchResult pairs a retrieved chunk with its distance from the query.
// Smaller distance means a better match.
type SearchResult struct {
	Document *schema.Document
	Distance float32
}

// VectorStore is the interface for persisting chunk vectors and running
// nearest-neighbor searches over them.
type VectorStore interface {
	// Build adds the given chunks to the store, creating the persisted
	// index when none exists yet. An empty chunk list is an error.
	Build(ctx context.Context, chunks []*schema.Document) error
	// Query embeds the text and returns up to k results ordered by
	// ascending distance. A missing or empty index yields an empty
	// slice, not an error.
	Query(ctx context.Context, text string, k int) ([]SearchResult, error)
}
