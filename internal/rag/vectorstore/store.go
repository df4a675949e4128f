// Package vectorstore persists chunk embeddings on disk and answers
// nearest-neighbor queries over them. The index lives in a single
// directory: when the directory is empty or absent a new index is
// created, otherwise new chunks are appended to the existing one.
//
// Known limitation: the load-append cycle is not protected by a file
// lock, so concurrent writers targeting the same directory can corrupt
// the persisted state. The service runs requests to completion one user
// action at a time, which is why this is accepted rather than locked.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	chromem "github.com/philippgille/chromem-go"

	"neochat/internal/rag/interfaces"
	"neochat/internal/rag/schema"
	"neochat/pkg/logger"
)

const collectionName = "documents"

// ErrEmptyChunks is returned by Build when there is nothing to index.
var ErrEmptyChunks = errors.New("no chunks to index")

// Store is an on-disk vector index backed by an embedded chromem
// database. All vectors in one store must come from the same embedding
// backend; the embedder is fixed at construction time.
type Store struct {
	dir      string
	embedder interfaces.Embedder
	log      *logger.Logger
}

// NewStore creates a Store over the given directory. The directory is
// only touched on the first Build.
func NewStore(dir string, embedder interfaces.Embedder, log *logger.Logger) *Store {
	return &Store{dir: dir, embedder: embedder, log: log}
}

// embeddingFunc adapts the store's embedder to chromem's callback shape.
func (s *Store) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.Embed(ctx, text)
	}
}

// Build persists the given chunks, creating the index when the directory
// holds none yet and appending otherwise. Chunks without an embedding are
// embedded here; chunks that already carry one are stored as-is.
func (s *Store) Build(ctx context.Context, chunks []*schema.Document) error {
	if len(chunks) == 0 {
		return ErrEmptyChunks
	}

	db, err := chromem.NewPersistentDB(s.dir, false)
	if err != nil {
		return fmt.Errorf("failed to open vector store at %s: %w", s.dir, err)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, s.embeddingFunc())
	if err != nil {
		return fmt.Errorf("failed to open collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        chunk.ID,
			Content:   chunk.Text,
			Embedding: chunk.Embedding,
			Metadata:  chunk.Metadata,
		}
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add chunks to vector store: %w", err)
	}

	s.log.Info(fmt.Sprintf("indexed %d chunks, collection now holds %d", len(chunks), collection.Count()))
	return nil
}

// Query embeds the text with the store's embedding backend and returns up
// to k chunks ordered by ascending distance (best match first). A missing
// or empty index yields an empty slice and no error, so callers can treat
// "no index yet" as "no context available".
func (s *Store) Query(ctx context.Context, text string, k int) ([]interfaces.SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}
	if _, err := os.Stat(s.dir); err != nil {
		return nil, nil
	}

	db, err := chromem.NewPersistentDB(s.dir, false)
	if err != nil {
		s.log.Warn(fmt.Sprintf("failed to load vector store at %s: %v", s.dir, err))
		return nil, nil
	}

	collection := db.GetCollection(collectionName, s.embeddingFunc())
	if collection == nil || collection.Count() == 0 {
		return nil, nil
	}
	if k > collection.Count() {
		k = collection.Count()
	}

	results, err := collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector store query failed: %w", err)
	}

	searchResults := make([]interfaces.SearchResult, len(results))
	for i, result := range results {
		searchResults[i] = interfaces.SearchResult{
			Document: &schema.Document{
				ID:        result.ID,
				Text:      result.Content,
				Embedding: result.Embedding,
				Metadata:  result.Metadata,
			},
			// chromem scores by cosine similarity, higher is better;
			// expose the equivalent cosine distance instead.
			Distance: 1 - result.Similarity,
		}
	}
	return searchResults, nil
}

// Reset deletes the persisted index entirely. The next Build starts from
// an empty directory.
func (s *Store) Reset() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to clear vector store: %w", err)
	}
	return os.MkdirAll(s.dir, 0o755)
}

var _ interfaces.VectorStore = (*Store)(nil)
