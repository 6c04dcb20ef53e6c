package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that a store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// IsInitialized reports whether the index schema exists.
	IsInitialized(ctx context.Context) (bool, error)

	// UpsertCatalogChunk inserts or updates a catalog chunk with its embedding.
	UpsertCatalogChunk(ctx context.Context, chunk *CatalogChunk) (*CatalogChunk, error)

	// CountCatalogChunks returns the number of chunks in a collection.
	CountCatalogChunks(ctx context.Context, collection string) (int, error)

	// DeleteCollection removes all chunks of a collection.
	DeleteCollection(ctx context.Context, collection string) error

	// VectorSearch returns the chunks most similar to the query vector,
	// ordered by descending similarity, at most opts.Limit results.
	VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*ChunkWithScore, error)
}
