package store

import "github.com/pkg/errors"

// ErrIndexNotFound is returned when no persisted index exists at the
// configured location. Recoverable by rerunning the offline build.
var ErrIndexNotFound = errors.New("index not found")

// CatalogChunk is one embedded slice of a catalog entry. Chunks are
// written only by the offline index build; the serving path reads them.
type CatalogChunk struct {
	ID         string
	Collection string
	Title      string
	Content    string
	Embedding  []float32
	CreatedTs  int64
}

// ChunkWithScore pairs a chunk with its similarity score for a query.
type ChunkWithScore struct {
	Chunk *CatalogChunk
	Score float32 // cosine similarity, higher is closer
}

// VectorSearchOptions configures a similarity search.
type VectorSearchOptions struct {
	Vector     []float32
	Collection string
	Limit      int
}
