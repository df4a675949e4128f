package pipeline

import (
	"context"
	"errors"
	"fmt"

	"neochat/internal/rag/interfaces"
	"neochat/internal/rag/schema"
	"neochat/pkg/logger"
)

// ErrNoDocuments is returned when none of the given files could be loaded.
var ErrNoDocuments = errors.New("no documents loaded")

// ErrNoChunks is returned when the loaded documents produced no chunks.
var ErrNoChunks = errors.New("no chunks produced")

// Indexer orchestrates loading, splitting, embedding and storing documents.
type Indexer struct {
	loader   interfaces.Loader
	splitter interfaces.Splitter
	embedder interfaces.Embedder
	store    interfaces.VectorStore
	log      *logger.Logger
}

// NewIndexer creates a new Indexer.
func NewIndexer(
	loader interfaces.Loader,
	splitter interfaces.Splitter,
	embedder interfaces.Embedder,
	store interfaces.VectorStore,
	log *logger.Logger,
) *Indexer {
	return &Indexer{
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		store:    store,
		log:      log,
	}
}

// IndexFiles runs the full indexing pipeline over the given file paths.
// Files that fail to load are skipped; when every file fails, the call
// fails with ErrNoDocuments rather than silently building an empty index.
func (p *Indexer) IndexFiles(ctx context.Context, paths []string) error {
	p.log.Info(fmt.Sprintf("starting indexing for %d file(s)", len(paths)))

	var docs []*schema.Document
	for _, path := range paths {
		loaded, err := p.loader.Load(ctx, path)
		if err != nil {
			p.log.Warn(fmt.Sprintf("failed to load %s: %v", path, err))
			continue
		}
		docs = append(docs, loaded...)
	}
	if len(docs) == 0 {
		return ErrNoDocuments
	}
	p.log.Info(fmt.Sprintf("loaded %d document(s)", len(docs)))

	chunks, err := p.splitter.Split(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to split documents: %w", err)
	}
	if len(chunks) == 0 {
		return ErrNoChunks
	}
	p.log.Info(fmt.Sprintf("split into %d chunk(s)", len(chunks)))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	embeddings, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(embeddings))
	}
	for i, chunk := range chunks {
		chunk.Embedding = embeddings[i]
	}

	if err := p.store.Build(ctx, chunks); err != nil {
		return fmt.Errorf("failed to build vector store: %w", err)
	}

	p.log.Info(fmt.Sprintf("successfully indexed %d chunk(s)", len(chunks)))
	return nil
}
