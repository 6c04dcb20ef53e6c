package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/animesense/internal/profile"
	"github.com/hrygo/animesense/store"
)

func newTestDB(t *testing.T) store.Driver {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "index.db"),
	}
	driver, err := NewDB(p, true)
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close() })
	return driver
}

func seedChunks(t *testing.T, driver store.Driver, collection string) {
	t.Helper()
	ctx := context.Background()
	chunks := []*store.CatalogChunk{
		{ID: "c1", Title: "Naruto Shippuden", Content: "name: Naruto Shippuden", Embedding: []float32{1, 0, 0, 0}},
		{ID: "c2", Title: "Bleach", Content: "name: Bleach", Embedding: []float32{0.9, 0.1, 0, 0}},
		{ID: "c3", Title: "Your Name", Content: "name: Your Name", Embedding: []float32{0, 1, 0, 0}},
		{ID: "c4", Title: "Steins Gate", Content: "name: Steins Gate", Embedding: []float32{0, 0, 1, 0}},
	}
	for _, chunk := range chunks {
		chunk.Collection = collection
		_, err := driver.UpsertCatalogChunk(ctx, chunk)
		require.NoError(t, err)
	}
}

func TestNewDBMissingIndex(t *testing.T) {
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "missing.db"),
	}
	_, err := NewDB(p, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrIndexNotFound)
}

func TestVectorSearchOrdering(t *testing.T) {
	driver := newTestDB(t)
	seedChunks(t, driver, "anime_embeddings")

	results, err := driver.VectorSearch(context.Background(), &store.VectorSearchOptions{
		Vector:     []float32{1, 0, 0, 0},
		Collection: "anime_embeddings",
		Limit:      10,
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "Naruto Shippuden", results[0].Chunk.Title)
	assert.Equal(t, "Bleach", results[1].Chunk.Title)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-5)
}

func TestVectorSearchLimit(t *testing.T) {
	driver := newTestDB(t)
	seedChunks(t, driver, "anime_embeddings")
	ctx := context.Background()

	query := []float32{1, 0, 0, 0}
	small, err := driver.VectorSearch(ctx, &store.VectorSearchOptions{
		Vector: query, Collection: "anime_embeddings", Limit: 2,
	})
	require.NoError(t, err)
	large, err := driver.VectorSearch(ctx, &store.VectorSearchOptions{
		Vector: query, Collection: "anime_embeddings", Limit: 4,
	})
	require.NoError(t, err)

	require.Len(t, small, 2)
	require.Len(t, large, 4)

	// A smaller k is a prefix of a larger k against a fixed index.
	for i, result := range small {
		assert.Equal(t, large[i].Chunk.ID, result.Chunk.ID)
	}
}

func TestVectorSearchScopedToCollection(t *testing.T) {
	driver := newTestDB(t)
	seedChunks(t, driver, "anime_embeddings")
	seedChunks(t, driver, "other_collection")

	results, err := driver.VectorSearch(context.Background(), &store.VectorSearchOptions{
		Vector:     []float32{1, 0, 0, 0},
		Collection: "anime_embeddings",
		Limit:      100,
	})
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestUpsertOverwrites(t *testing.T) {
	driver := newTestDB(t)
	ctx := context.Background()

	chunk := &store.CatalogChunk{
		ID: "c1", Collection: "anime_embeddings",
		Title: "Old", Content: "old", Embedding: []float32{1, 0},
	}
	_, err := driver.UpsertCatalogChunk(ctx, chunk)
	require.NoError(t, err)

	chunk.Title = "New"
	chunk.Content = "new"
	_, err = driver.UpsertCatalogChunk(ctx, chunk)
	require.NoError(t, err)

	count, err := driver.CountCatalogChunks(ctx, "anime_embeddings")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := driver.VectorSearch(ctx, &store.VectorSearchOptions{
		Vector: []float32{1, 0}, Collection: "anime_embeddings", Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "New", results[0].Chunk.Title)
}

func TestDeleteCollection(t *testing.T) {
	driver := newTestDB(t)
	seedChunks(t, driver, "anime_embeddings")
	ctx := context.Background()

	require.NoError(t, driver.DeleteCollection(ctx, "anime_embeddings"))

	count, err := driver.CountCatalogChunks(ctx, "anime_embeddings")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVectorCodecRoundTrip(t *testing.T) {
	vector := []float32{0.25, -1.5, 0, 3.125}
	decoded, err := decodeVector(encodeVector(vector))
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)

	_, err = decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, float64(cosineSimilarity([]float32{1, 0}, []float32{2, 0})), 1e-6)
	assert.InDelta(t, 0.0, float64(cosineSimilarity([]float32{1, 0}, []float32{0, 1})), 1e-6)
	assert.InDelta(t, -1.0, float64(cosineSimilarity([]float32{1, 0}, []float32{-1, 0})), 1e-6)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
