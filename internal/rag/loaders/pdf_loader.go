package loaders

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"neochat/internal/rag/interfaces"
	"neochat/internal/rag/schema"
)

// PdfLoader implements the Loader interface for reading PDF files.
type PdfLoader struct{}

// NewPdfLoader creates a new PdfLoader.
func NewPdfLoader() *PdfLoader {
	return &PdfLoader{}
}

// Load reads a PDF file, extracts the plain text of each page, and returns
// a Document per page carrying its page label. Pages whose text cannot be
// extracted are skipped rather than failing the whole file.
func (l *PdfLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var documents []*schema.Document
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}

		documents = append(documents, &schema.Document{
			ID:   uuid.New().String(),
			Text: text,
			Metadata: map[string]string{
				schema.MetadataKeyFileName:  filepath.Base(path),
				schema.MetadataKeyPageLabel: strconv.Itoa(i),
			},
		})
	}

	return documents, nil
}

// compile-time check to ensure PdfLoader implements the Loader interface
var _ interfaces.Loader = (*PdfLoader)(nil)
