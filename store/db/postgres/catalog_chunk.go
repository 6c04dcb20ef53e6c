package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/hrygo/animesense/store"
)

// UpsertCatalogChunk inserts or updates a catalog chunk.
func (d *DB) UpsertCatalogChunk(ctx context.Context, chunk *store.CatalogChunk) (*store.CatalogChunk, error) {
	stmt := `
		INSERT INTO catalog_chunk (id, collection, title, content, embedding, created_ts)
		VALUES (` + placeholders(6) + `)
		ON CONFLICT (id)
		DO UPDATE SET
			collection = EXCLUDED.collection,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			created_ts = EXCLUDED.created_ts
	`

	vector := pgvector.NewVector(chunk.Embedding)
	if _, err := d.db.ExecContext(ctx, stmt,
		chunk.ID,
		chunk.Collection,
		chunk.Title,
		chunk.Content,
		vector,
		chunk.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert catalog chunk")
	}

	return chunk, nil
}

// CountCatalogChunks returns the number of chunks in a collection.
func (d *DB) CountCatalogChunks(ctx context.Context, collection string) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM catalog_chunk WHERE collection = `+placeholder(1), collection,
	).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count catalog chunks")
	}
	return count, nil
}

// DeleteCollection removes all chunks of a collection.
func (d *DB) DeleteCollection(ctx context.Context, collection string) error {
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM catalog_chunk WHERE collection = `+placeholder(1), collection,
	); err != nil {
		return errors.Wrap(err, "failed to delete collection")
	}
	return nil
}

// VectorSearch performs similarity search using pgvector.
// The <=> operator computes cosine distance (1 - cosine_similarity),
// so ordering by distance ASC returns the most similar chunks first.
func (d *DB) VectorSearch(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.ChunkWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			id, collection, title, content, embedding, created_ts,
			1 - (embedding <=> ` + placeholder(1) + `) AS score
		FROM catalog_chunk
		WHERE collection = ` + placeholder(2) + `
		ORDER BY embedding <=> ` + placeholder(3) + `
		LIMIT ` + placeholder(4)

	vector := pgvector.NewVector(opts.Vector)
	rows, err := d.db.QueryContext(ctx, query,
		vector,
		opts.Collection,
		vector,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search")
	}
	defer rows.Close()

	results := []*store.ChunkWithScore{}
	for rows.Next() {
		var result store.ChunkWithScore
		var chunk store.CatalogChunk
		var embedding pgvector.Vector

		if err := rows.Scan(
			&chunk.ID,
			&chunk.Collection,
			&chunk.Title,
			&chunk.Content,
			&embedding,
			&chunk.CreatedTs,
			&result.Score,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector search result")
		}

		chunk.Embedding = embedding.Slice()
		result.Chunk = &chunk
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
