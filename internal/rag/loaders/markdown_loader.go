package loaders

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"neochat/internal/rag/interfaces"
	"neochat/internal/rag/schema"
)

// MarkdownLoader implements the Loader interface for reading Markdown (.md) files.
// Markdown is kept as-is; the splitter's paragraph separators line up well
// with Markdown structure.
type MarkdownLoader struct{}

// NewMarkdownLoader creates a new MarkdownLoader.
func NewMarkdownLoader() *MarkdownLoader {
	return &MarkdownLoader{}
}

// Load reads a Markdown file and returns it as a single Document.
func (l *MarkdownLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := &schema.Document{
		ID:   uuid.New().String(),
		Text: string(content),
		Metadata: map[string]string{
			schema.MetadataKeyFileName: filepath.Base(path),
		},
	}

	return []*schema.Document{doc}, nil
}

// compile-time check to ensure MarkdownLoader implements the Loader interface
var _ interfaces.Loader = (*MarkdownLoader)(nil)
