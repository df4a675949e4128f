package loaders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"neochat/internal/rag/interfaces"
	"neochat/internal/rag/schema"
	"neochat/pkg/logger"
)

// FallbackLoader implements the Loader interface by dispatching to a
// structured loader chosen from the file's detected MIME type, and falling
// back to the plain text loader when the structured loader fails. When
// both attempts fail, it returns an empty document list and logs the
// failure; callers must treat an empty result as "nothing to index".
type FallbackLoader struct {
	pdf      interfaces.Loader
	docx     interfaces.Loader
	xlsx     interfaces.Loader
	markdown interfaces.Loader
	txt      interfaces.Loader
	log      *logger.Logger
}

// NewFallbackLoader creates a new FallbackLoader.
func NewFallbackLoader(log *logger.Logger) *FallbackLoader {
	return &FallbackLoader{
		pdf:      NewPdfLoader(),
		docx:     NewDocxLoader(),
		xlsx:     NewXlsxLoader(),
		markdown: NewMarkdownLoader(),
		txt:      NewTxtLoader(),
		log:      log,
	}
}

// Load never returns an error: failure to load is signaled by an empty
// document list.
func (l *FallbackLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	structured := l.structuredFor(path)

	// A successful structured load is final even when it yields no
	// documents: an image-only PDF has no text, and re-reading its raw
	// bytes as plain text would index garbage.
	docs, err := structured.Load(ctx, path)
	if err == nil {
		return docs, nil
	}
	l.log.Warn(fmt.Sprintf("structured loader failed for %s, falling back to plain text: %v", path, err))

	docs, err = l.txt.Load(ctx, path)
	if err != nil {
		l.log.Error(fmt.Sprintf("failed to load %s: %v", path, err))
		return nil, nil
	}
	return docs, nil
}

// structuredFor picks the structured loader for a file, preferring the
// detected MIME type over the extension.
func (l *FallbackLoader) structuredFor(path string) interfaces.Loader {
	mtype, err := mimetype.DetectFile(path)
	if err == nil {
		switch {
		case mtype.Is("application/pdf"):
			return l.pdf
		case mtype.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
			return l.docx
		case mtype.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
			return l.xlsx
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return l.pdf
	case ".docx":
		return l.docx
	case ".xlsx":
		return l.xlsx
	case ".md", ".markdown":
		return l.markdown
	default:
		return l.txt
	}
}

// compile-time check to ensure FallbackLoader implements the Loader interface
var _ interfaces.Loader = (*FallbackLoader)(nil)
