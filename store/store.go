package store

import (
	"context"

	"github.com/hrygo/animesense/internal/profile"
)

// Store provides access to the persisted embedding index.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Healthy reports whether the index is loaded and reachable.
func (s *Store) Healthy(ctx context.Context) bool {
	if err := s.driver.GetDB().PingContext(ctx); err != nil {
		return false
	}
	ok, err := s.driver.IsInitialized(ctx)
	return err == nil && ok
}

func (s *Store) UpsertCatalogChunk(ctx context.Context, chunk *CatalogChunk) (*CatalogChunk, error) {
	return s.driver.UpsertCatalogChunk(ctx, chunk)
}

func (s *Store) CountCatalogChunks(ctx context.Context, collection string) (int, error) {
	return s.driver.CountCatalogChunks(ctx, collection)
}

func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	return s.driver.DeleteCollection(ctx, collection)
}

func (s *Store) VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*ChunkWithScore, error) {
	return s.driver.VectorSearch(ctx, opts)
}
