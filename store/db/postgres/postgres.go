package postgres

import (
	"context"
	"database/sql"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/hrygo/animesense/internal/profile"
	"github.com/hrygo/animesense/store"
)

// ============================================================================
// POSTGRESQL INDEX BACKEND
// ============================================================================
// Requires the pgvector extension. Similarity search runs in the
// database via the <=> cosine distance operator, so large catalogs
// stay cheap to query.
// ============================================================================

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB connects to the PostgreSQL index at profile.DSN. When
// createIfMissing is false (serving mode) a missing catalog_chunk table
// yields store.ErrIndexNotFound.
func NewDB(profile *profile.Profile, createIfMissing bool) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Small pool: the serving path runs one short query per request.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	driver := &DB{db: db, profile: profile}

	ctx := context.Background()
	if createIfMissing {
		if err := driver.applySchema(ctx); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to apply schema")
		}
	} else {
		ok, err := driver.IsInitialized(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}
		if !ok {
			db.Close()
			return nil, errors.Wrap(store.ErrIndexNotFound, "catalog_chunk table does not exist")
		}
	}

	return driver, nil
}

func (d *DB) applySchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS catalog_chunk (
			id TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			embedding vector NOT NULL,
			created_ts BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_chunk_collection ON catalog_chunk (collection)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// IsInitialized reports whether the catalog_chunk table exists.
func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'catalog_chunk'
		)`,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check schema")
	}
	return exists, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}
