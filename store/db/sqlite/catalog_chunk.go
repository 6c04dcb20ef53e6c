package sqlite

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/hrygo/animesense/store"
)

// UpsertCatalogChunk inserts or updates a catalog chunk.
func (d *DB) UpsertCatalogChunk(ctx context.Context, chunk *store.CatalogChunk) (*store.CatalogChunk, error) {
	stmt := `
		INSERT INTO catalog_chunk (id, collection, title, content, embedding, created_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET
			collection = EXCLUDED.collection,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			created_ts = EXCLUDED.created_ts
	`

	_, err := d.db.ExecContext(ctx, stmt,
		chunk.ID,
		chunk.Collection,
		chunk.Title,
		chunk.Content,
		encodeVector(chunk.Embedding),
		chunk.CreatedTs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert catalog chunk")
	}

	return chunk, nil
}

// CountCatalogChunks returns the number of chunks in a collection.
func (d *DB) CountCatalogChunks(ctx context.Context, collection string) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM catalog_chunk WHERE collection = ?`, collection,
	).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count catalog chunks")
	}
	return count, nil
}

// DeleteCollection removes all chunks of a collection.
func (d *DB) DeleteCollection(ctx context.Context, collection string) error {
	_, err := d.db.ExecContext(ctx,
		`DELETE FROM catalog_chunk WHERE collection = ?`, collection,
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete collection")
	}
	return nil
}

// VectorSearch scans the collection and scores each chunk by cosine
// similarity against the query vector. Results are ordered by
// descending score and truncated to opts.Limit.
func (d *DB) VectorSearch(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.ChunkWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, collection, title, content, embedding, created_ts
		FROM catalog_chunk
		WHERE collection = ?
	`

	rows, err := d.db.QueryContext(ctx, query, opts.Collection)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query catalog chunks")
	}
	defer rows.Close()

	results := []*store.ChunkWithScore{}
	for rows.Next() {
		var chunk store.CatalogChunk
		var blob []byte

		if err := rows.Scan(
			&chunk.ID,
			&chunk.Collection,
			&chunk.Title,
			&chunk.Content,
			&blob,
			&chunk.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan catalog chunk")
		}

		embedding, err := decodeVector(blob)
		if err != nil {
			return nil, errors.Wrapf(err, "chunk %s", chunk.ID)
		}
		chunk.Embedding = embedding

		results = append(results, &store.ChunkWithScore{
			Chunk: &chunk,
			Score: cosineSimilarity(opts.Vector, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stable sort keeps insertion order for equal scores, which keeps
	// repeated identical queries deterministic.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
