// Package indexer implements the offline index build: catalog CSV in,
// persisted embedding index out. It never runs on the serving path.
package indexer

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/animesense/internal/profile"
	"github.com/hrygo/animesense/plugin/ai"
	"github.com/hrygo/animesense/store"
)

// Indexer builds the embedding index from the catalog CSV.
type Indexer struct {
	profile  *profile.Profile
	store    *store.Store
	embedder ai.EmbeddingService
}

// New creates an Indexer.
func New(profile *profile.Profile, s *store.Store, embedder ai.EmbeddingService) *Indexer {
	return &Indexer{
		profile:  profile,
		store:    s,
		embedder: embedder,
	}
}

// Run builds the index: load the CSV, chunk each document, embed in
// batches, and upsert into the collection. Any embedding error aborts
// the whole build; rerunning rebuilds the collection from scratch.
func (i *Indexer) Run(ctx context.Context) error {
	entries, err := LoadCatalog(i.profile.CSVPath)
	if err != nil {
		return err
	}
	slog.Info("catalog loaded", "path", i.profile.CSVPath, "entries", len(entries))

	type pendingChunk struct {
		title   string
		content string
	}
	var pending []pendingChunk
	for _, entry := range entries {
		for _, content := range SplitText(entry.Document, i.profile.ChunkSize, i.profile.ChunkOverlap) {
			pending = append(pending, pendingChunk{title: entry.Title, content: content})
		}
	}
	slog.Info("documents split", "chunks", len(pending))

	if len(pending) == 0 {
		return errors.New("catalog produced no chunks")
	}

	// Rebuild from scratch: no partial-index recovery is supported.
	if err := i.store.DeleteCollection(ctx, i.profile.Collection); err != nil {
		return err
	}

	batchSize := i.profile.BatchSize
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(2)

	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]
		batchStart := start

		group.Go(func() error {
			texts := make([]string, len(batch))
			for j, chunk := range batch {
				texts[j] = chunk.content
			}

			vectors, err := i.embedder.EmbedBatch(groupCtx, texts)
			if err != nil {
				return errors.Wrapf(err, "failed to embed batch at offset %d", batchStart)
			}
			if len(vectors) != len(batch) {
				return errors.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(batch))
			}

			now := time.Now().Unix()
			for j, chunk := range batch {
				if _, err := i.store.UpsertCatalogChunk(groupCtx, &store.CatalogChunk{
					ID:         uuid.NewString(),
					Collection: i.profile.Collection,
					Title:      chunk.title,
					Content:    chunk.content,
					Embedding:  normalize(vectors[j]),
					CreatedTs:  now,
				}); err != nil {
					return err
				}
			}

			slog.Info("batch indexed", "offset", batchStart, "size", len(batch))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	total, err := i.store.CountCatalogChunks(ctx, i.profile.Collection)
	if err != nil {
		return err
	}
	slog.Info("index build completed", "collection", i.profile.Collection, "chunks", total)
	return nil
}

// normalize scales a vector to unit length so cosine similarity reduces
// to a dot product. Zero vectors are returned unchanged.
func normalize(vector []float32) []float32 {
	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vector
	}
	norm = math.Sqrt(norm)

	normalized := make([]float32, len(vector))
	for i, v := range vector {
		normalized[i] = float32(float64(v) / norm)
	}
	return normalized
}
