package loaders

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/unidoc/unioffice/v2/document"

	"neochat/internal/rag/interfaces"
	"neochat/internal/rag/schema"
)

// DocxLoader implements the Loader interface for reading Word (.docx) files.
type DocxLoader struct{}

// NewDocxLoader creates a new DocxLoader.
func NewDocxLoader() *DocxLoader {
	return &DocxLoader{}
}

// Load reads a .docx file, extracts the text of all paragraphs, and returns
// the whole file as a single Document.
func (l *DocxLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for _, p := range doc.Paragraphs() {
		for _, r := range p.Runs() {
			textBuilder.WriteString(r.Text())
		}
		textBuilder.WriteString("\n")
	}

	result := &schema.Document{
		ID:   uuid.New().String(),
		Text: textBuilder.String(),
		Metadata: map[string]string{
			schema.MetadataKeyFileName: filepath.Base(path),
		},
	}

	return []*schema.Document{result}, nil
}

// compile-time check to ensure DocxLoader implements the Loader interface
var _ interfaces.Loader = (*DocxLoader)(nil)
