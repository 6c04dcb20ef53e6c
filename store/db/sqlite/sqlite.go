package sqlite

import (
	"context"
	"database/sql"
	"os"

	"github.com/pkg/errors"

	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/animesense/internal/profile"
	"github.com/hrygo/animesense/store"
)

// ============================================================================
// SQLITE INDEX BACKEND
// ============================================================================
// The index is a single SQLite file. Embeddings are stored as
// little-endian float32 blobs; similarity search decodes and scores the
// collection in Go since SQLite has no vector distance operator.
// ============================================================================

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite index at profile.DSN. When createIfMissing is
// false (serving mode) a missing index file yields store.ErrIndexNotFound.
func NewDB(profile *profile.Profile, createIfMissing bool) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	if !createIfMissing {
		if _, err := os.Stat(profile.DSN); err != nil {
			return nil, errors.Wrapf(store.ErrIndexNotFound, "no index at %s", profile.DSN)
		}
	}

	db, err := sql.Open("sqlite", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// SQLite allows one writer; the serving path only reads.
	db.SetMaxOpenConns(1)

	driver := &DB{db: db, profile: profile}

	if createIfMissing {
		if err := driver.applySchema(context.Background()); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to apply schema")
		}
	}

	return driver, nil
}

func (d *DB) applySchema(ctx context.Context) error {
	stmt := `
		CREATE TABLE IF NOT EXISTS catalog_chunk (
			id TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			created_ts BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_catalog_chunk_collection ON catalog_chunk (collection);
	`
	_, err := d.db.ExecContext(ctx, stmt)
	return err
}

// IsInitialized reports whether the catalog_chunk table exists.
func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var name string
	err := d.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'catalog_chunk'`,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}
