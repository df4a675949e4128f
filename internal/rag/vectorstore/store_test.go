package vectorstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neochat/internal/rag/interfaces"
	"neochat/internal/rag/schema"
	"neochat/pkg/logger"
)

// fakeEmbedder maps known texts to fixed vectors so query ordering is
// fully deterministic.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no fake vector for %q", text)
	}
	return v, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

var _ interfaces.Embedder = (*fakeEmbedder)(nil)

func testEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		"the cat sat":   {1, 0, 0},
		"the dog ran":   {0, 1, 0},
		"the bird flew": {0, 0, 1},
		"cats and dogs": {0.7, 0.7, 0},
		"cat":           {1, 0.05, 0},
	}}
}

func chunk(id, text string) *schema.Document {
	return &schema.Document{
		ID:       id,
		Text:     text,
		Metadata: map[string]string{schema.MetadataKeyFileName: "pets.txt"},
	}
}

func TestBuild_EmptyChunksRejected(t *testing.T) {
	store := NewStore(t.TempDir(), testEmbedder(), logger.New("test", ""))
	err := store.Build(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyChunks)
}

func TestQuery_NeverBuiltIndexIsEmptyNotError(t *testing.T) {
	store := NewStore(t.TempDir()+"/does-not-exist", testEmbedder(), logger.New("test", ""))
	results, err := store.Query(context.Background(), "cat", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBuildAndQuery_OrderedByAscendingDistance(t *testing.T) {
	store := NewStore(t.TempDir(), testEmbedder(), logger.New("test", ""))

	chunks := []*schema.Document{
		chunk("1", "the cat sat"),
		chunk("2", "the dog ran"),
		chunk("3", "the bird flew"),
		chunk("4", "cats and dogs"),
	}
	require.NoError(t, store.Build(context.Background(), chunks))

	results, err := store.Query(context.Background(), "cat", 4)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "the cat sat", results[0].Document.Text)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance,
			"results must be ordered by non-decreasing distance")
	}
	assert.Equal(t, "pets.txt", results[0].Document.Metadata[schema.MetadataKeyFileName])
}

func TestQuery_KBoundsResultCount(t *testing.T) {
	store := NewStore(t.TempDir(), testEmbedder(), logger.New("test", ""))

	require.NoError(t, store.Build(context.Background(), []*schema.Document{
		chunk("1", "the cat sat"),
		chunk("2", "the dog ran"),
	}))

	results, err := store.Query(context.Background(), "cat", 4)
	require.NoError(t, err)
	assert.Len(t, results, 2, "k larger than the index is clamped")

	results, err = store.Query(context.Background(), "cat", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestBuild_AppendMatchesSingleBuild(t *testing.T) {
	ctx := context.Background()

	// index built in two passes against the same directory
	dirA := t.TempDir()
	storeA := NewStore(dirA, testEmbedder(), logger.New("test", ""))
	require.NoError(t, storeA.Build(ctx, []*schema.Document{chunk("1", "the cat sat")}))
	// a fresh handle over the same directory loads and appends
	storeA2 := NewStore(dirA, testEmbedder(), logger.New("test", ""))
	require.NoError(t, storeA2.Build(ctx, []*schema.Document{
		chunk("2", "the dog ran"),
		chunk("3", "cats and dogs"),
	}))

	// index built once from the union
	dirB := t.TempDir()
	storeB := NewStore(dirB, testEmbedder(), logger.New("test", ""))
	require.NoError(t, storeB.Build(ctx, []*schema.Document{
		chunk("1", "the cat sat"),
		chunk("2", "the dog ran"),
		chunk("3", "cats and dogs"),
	}))

	resultsA, err := storeA2.Query(ctx, "cat", 3)
	require.NoError(t, err)
	resultsB, err := storeB.Query(ctx, "cat", 3)
	require.NoError(t, err)

	require.Equal(t, len(resultsB), len(resultsA))
	for i := range resultsA {
		assert.Equal(t, resultsB[i].Document.ID, resultsA[i].Document.ID)
		assert.InDelta(t, resultsB[i].Distance, resultsA[i].Distance, 1e-6)
	}
}

func TestReset_DropsTheIndex(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, testEmbedder(), logger.New("test", ""))

	require.NoError(t, store.Build(context.Background(), []*schema.Document{chunk("1", "the cat sat")}))
	require.NoError(t, store.Reset())

	results, err := store.Query(context.Background(), "cat", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}
