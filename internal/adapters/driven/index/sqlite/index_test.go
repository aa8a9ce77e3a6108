package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func newTestIndex(t *testing.T, dir string) *Index {
	t.Helper()
	idx, err := New(Config{
		DataDir:  dir,
		Embedder: local.New(local.Config{Dimensions: 128}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func chunkFrom(source, text string, index int) domain.Chunk {
	return domain.Chunk{
		ID:         uuid.New().String(),
		Text:       text,
		Metadata:   domain.Metadata{Source: source, FileType: ".txt"},
		ChunkIndex: index,
		ChunkSize:  len(text),
	}
}

func TestIndexEmptyInput(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())

	ok, err := idx.Index(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ok)

	count, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSearchFindsRelevantChunk(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	ok, err := idx.Index(ctx, []domain.Chunk{
		chunkFrom("policy.txt", "The refund window is 30 days.", 0),
		chunkFrom("recipes.txt", "Simmer the onions until golden.", 0),
	})
	require.NoError(t, err)
	assert.True(t, ok)

	results, err := idx.Search(ctx, "how long is the refund window", domain.SearchOptions{TopK: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "The refund window is 30 days.", results[0].Text)
	assert.Equal(t, "policy.txt", results[0].Metadata.Source)
	assert.GreaterOrEqual(t, results[0].Score, DefaultThreshold)

	for _, r := range results {
		assert.NotEqual(t, "recipes.txt", r.Metadata.Source,
			"unrelated chunk should fall below the threshold")
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())

	results, err := idx.Search(context.Background(), "anything", domain.SearchOptions{TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchTopKLimit(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	var chunks []domain.Chunk
	for i := 0; i < 6; i++ {
		chunks = append(chunks, chunkFrom("notes.txt",
			fmt.Sprintf("Refund policy clause %d covers the refund window.", i), i))
	}
	_, err := idx.Index(ctx, chunks)
	require.NoError(t, err)

	results, err := idx.Search(ctx, "refund window policy", domain.SearchOptions{TopK: 3})
	require.NoError(t, err)
	assert.Len(t, results, 3)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearchTopKZeroReturnsNothing(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Index(ctx, []domain.Chunk{
		chunkFrom("policy.txt", "The refund window is 30 days.", 0),
		chunkFrom("policy.txt", "Returns require the original receipt.", 1),
	})
	require.NoError(t, err)

	results, err := idx.Search(ctx, "how long is the refund window", domain.SearchOptions{TopK: 0})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = idx.Search(ctx, "how long is the refund window", domain.SearchOptions{TopK: -1})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSourceFilter(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Index(ctx, []domain.Chunk{
		chunkFrom("a.txt", "The refund window is 30 days.", 0),
		chunkFrom("b.txt", "The refund window is 14 days.", 0),
	})
	require.NoError(t, err)

	results, err := idx.Search(ctx, "refund window length",
		domain.SearchOptions{TopK: 10, Source: "b.txt"})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "b.txt", r.Metadata.Source)
	}
}

func TestReindexReplacesSource(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Index(ctx, []domain.Chunk{
		chunkFrom("a.txt", "Old content about shipping rates.", 0),
		chunkFrom("a.txt", "More old content about customs.", 1),
		chunkFrom("b.txt", "Untouched neighbour file.", 0),
	})
	require.NoError(t, err)

	_, err = idx.Index(ctx, []domain.Chunk{
		chunkFrom("a.txt", "Fresh content replacing the old.", 0),
	})
	require.NoError(t, err)

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	results, err := idx.Search(ctx, "old content shipping customs",
		domain.SearchOptions{TopK: 10, Source: "a.txt"})
	require.NoError(t, err)
	for _, r := range results {
		assert.NotContains(t, r.Text, "old content")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := New(Config{
		DataDir:  dir,
		Embedder: local.New(local.Config{Dimensions: 128}),
	})
	require.NoError(t, err)

	_, err = first.Index(ctx, []domain.Chunk{
		chunkFrom("policy.txt", "The refund window is 30 days.", 0),
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	reopened := newTestIndex(t, dir)

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := reopened.Search(ctx, "how long is the refund window", domain.SearchOptions{TopK: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "The refund window is 30 days.", results[0].Text)
}

func TestDeleteBySource(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Index(ctx, []domain.Chunk{
		chunkFrom("a.txt", "Content of file a.", 0),
		chunkFrom("b.txt", "Content of file b.", 0),
	})
	require.NoError(t, err)

	require.NoError(t, idx.DeleteBySource(ctx, "a.txt"))

	sources, err := idx.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt"}, sources)
}

func TestClearAll(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Index(ctx, []domain.Chunk{
		chunkFrom("a.txt", "Some indexed content here.", 0),
	})
	require.NoError(t, err)

	require.NoError(t, idx.ClearAll(ctx))
	require.NoError(t, idx.ClearAll(ctx))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStats(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Index(ctx, []domain.Chunk{
		chunkFrom("a.txt", "First chunk of text.", 0),
		chunkFrom("a.txt", "Second chunk of text.", 1),
	})
	require.NoError(t, err)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, domain.CollectionName, stats.CollectionName)
	assert.Equal(t, local.DefaultModel, stats.EmbeddingModel)
	assert.Equal(t, 128, stats.EmbeddingDimension)
}

func TestSourcesSorted(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Index(ctx, []domain.Chunk{
		chunkFrom("zeta.txt", "Text in the last file.", 0),
		chunkFrom("alpha.txt", "Text in the first file.", 0),
	})
	require.NoError(t, err)

	sources, err := idx.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.txt", "zeta.txt"}, sources)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 0}, b: []float32{1, 0}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "length mismatch", a: []float32{1}, b: []float32{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestVectorCodecRoundTrip(t *testing.T) {
	vec := []float32{0.5, -1.25, 3.75, 0}
	assert.Equal(t, vec, bytesToFloat32Slice(float32SliceToBytes(vec)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}