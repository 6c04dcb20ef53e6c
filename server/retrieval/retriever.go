// Package retrieval resolves a free-text query to the most similar
// catalog chunks in the embedding index.
package retrieval

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/animesense/plugin/ai"
	"github.com/hrygo/animesense/store"
)

// Retriever embeds a query and performs similarity search against the
// catalog collection. The index is read-only at serving time, so a
// single Retriever is safe for concurrent use.
type Retriever struct {
	store      *store.Store
	embedder   ai.EmbeddingService
	collection string
	defaultK   int
}

// New creates a Retriever over the given store and embedding service.
func New(s *store.Store, embedder ai.EmbeddingService, collection string, defaultK int) *Retriever {
	if defaultK <= 0 {
		defaultK = 10
	}
	return &Retriever{
		store:      s,
		embedder:   embedder,
		collection: collection,
		defaultK:   defaultK,
	}
}

// Search returns up to k chunks ordered by descending similarity.
// k <= 0 uses the configured default.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]*store.ChunkWithScore, error) {
	if k <= 0 {
		k = r.defaultK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed query")
	}

	results, err := r.store.VectorSearch(ctx, &store.VectorSearchOptions{
		Vector:     vector,
		Collection: r.collection,
		Limit:      k,
	})
	if err != nil {
		return nil, errors.Wrap(err, "similarity search failed")
	}

	return results, nil
}
