package loaders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neochat/internal/rag/schema"
	"neochat/pkg/logger"
)

func TestTxtLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some plain text"), 0o644))

	docs, err := NewTxtLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "some plain text", docs[0].Text)
	assert.Equal(t, "notes.txt", docs[0].Metadata[schema.MetadataKeyFileName])
	assert.NotEmpty(t, docs[0].ID)
}

func TestTxtLoader_MissingFile(t *testing.T) {
	_, err := NewTxtLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFallbackLoader_PlainTextPassesThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nBody."), 0o644))

	l := NewFallbackLoader(logger.New("test", ""))
	docs, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "# Title\n\nBody.", docs[0].Text)
}

func TestFallbackLoader_CorruptStructuredFileFallsBackToText(t *testing.T) {
	dir := t.TempDir()
	// a .pdf extension with no PDF structure: the structured loader fails,
	// the plain text loader still yields the raw bytes
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not really a pdf"), 0o644))

	l := NewFallbackLoader(logger.New("test", ""))
	docs, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "not really a pdf", docs[0].Text)
}

// textlessLoader loads successfully but finds no text, like a structured
// loader handed a scanned, image-only document.
type textlessLoader struct {
	called bool
}

func (l *textlessLoader) Load(_ context.Context, _ string) ([]*schema.Document, error) {
	l.called = true
	return nil, nil
}

func TestFallbackLoader_StructuredEmptySuccessIsFinal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scanned.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%raw bytes that must not be indexed"), 0o644))

	l := NewFallbackLoader(logger.New("test", ""))
	structured := &textlessLoader{}
	l.pdf = structured

	docs, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, structured.called)
	assert.Empty(t, docs, "a successful structured load with no text must not fall back to raw bytes")
}

func TestFallbackLoader_MissingFileYieldsEmptyResult(t *testing.T) {
	l := NewFallbackLoader(logger.New("test", ""))
	docs, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.bin"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}
