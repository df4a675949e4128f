package splitters

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"neochat/internal/rag/interfaces"
	"neochat/internal/rag/schema"
)

// defaultSeparators is the boundary priority used when cutting a chunk:
// paragraph first, then line, then sentence, then word. A hard character
// cut is the implicit last resort when none of these fits in the window.
var defaultSeparators = []string{"\n\n", "\n", ". ", " "}

// RecursiveSplitter implements the Splitter interface by cutting document
// text into overlapping windows of at most ChunkSize characters, preferring
// natural boundaries over hard cuts.
type RecursiveSplitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewRecursiveSplitter creates a RecursiveSplitter. The overlap must be
// strictly smaller than the chunk size, otherwise consecutive windows
// could never advance.
func NewRecursiveSplitter(chunkSize, chunkOverlap int) (*RecursiveSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", chunkOverlap, chunkSize)
	}
	return &RecursiveSplitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}, nil
}

// Split splits every document into chunk documents. Chunks inherit their
// source document's metadata plus source_id and chunk_offset. The output
// is deterministic for a given input and configuration, and is empty only
// when every input document is empty.
func (s *RecursiveSplitter) Split(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error) {
	var chunks []*schema.Document
	for _, doc := range docs {
		if doc.Text == "" {
			continue
		}
		for _, span := range s.splitText(doc.Text) {
			md := doc.CloneMetadata()
			md[schema.MetadataKeySourceID] = doc.ID
			md[schema.MetadataKeyChunkOffset] = strconv.Itoa(span.offset)
			chunks = append(chunks, &schema.Document{
				ID:       uuid.New().String(),
				Text:     span.text,
				Metadata: md,
			})
		}
	}
	return chunks, nil
}

// span is one chunk window: its text and its rune offset in the source.
type span struct {
	offset int
	text   string
}

// splitText walks the text with a window of ChunkSize runes, snapping each
// window's end to the latest natural boundary inside it and stepping back
// ChunkOverlap runes before starting the next window.
func (s *RecursiveSplitter) splitText(text string) []span {
	runes := []rune(text)
	if len(runes) <= s.ChunkSize {
		return []span{{offset: 0, text: text}}
	}

	var spans []span
	start := 0
	for start < len(runes) {
		end := start + s.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = s.snapToBoundary(runes, start, end)
		}
		spans = append(spans, span{offset: start, text: string(runes[start:end])})
		if end == len(runes) {
			break
		}
		next := end - s.ChunkOverlap
		if next <= start {
			// The boundary snap moved the end so close to the start that
			// overlapping would stall; advance without overlap instead.
			next = end
		}
		start = next
	}
	return spans
}

// snapToBoundary returns the cut position for a window [start, limit),
// preferring the latest occurrence of the highest-priority separator.
// The cut lands just after the separator so no characters are lost.
// When no separator occurs in the window, the hard limit is returned.
func (s *RecursiveSplitter) snapToBoundary(runes []rune, start, limit int) int {
	window := string(runes[start:limit])
	for _, sep := range defaultSeparators {
		idx := strings.LastIndex(window, sep)
		if idx <= 0 {
			continue
		}
		cut := start + len([]rune(window[:idx])) + len([]rune(sep))
		if cut > start && cut <= limit {
			return cut
		}
	}
	return limit
}

var _ interfaces.Splitter = (*RecursiveSplitter)(nil)
