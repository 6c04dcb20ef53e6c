package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/animesense/internal/profile"
	"github.com/hrygo/animesense/store"
	"github.com/hrygo/animesense/store/db/postgres"
	"github.com/hrygo/animesense/store/db/sqlite"
)

// ============================================================================
// STORE SUPPORT POLICY
// ============================================================================
// This project supports SQLite and PostgreSQL as index backends.
//
// SQLite: single-file on-disk index, zero external services. Similarity
// is computed by scanning the collection, which is fine for catalogs of
// tens of thousands of chunks.
// PostgreSQL: pgvector-backed index for larger catalogs.
// ============================================================================

// NewDBDriver opens the persisted index for serving. It fails with
// store.ErrIndexNotFound when no index exists; run the offline build first.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile, false)
	case "postgres":
		driver, err = postgres.NewDB(profile, false)
	default:
		return nil, errors.Errorf("unknown store driver %q: only 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		if errors.Is(err, store.ErrIndexNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}

// NewBuildDriver opens (or creates) the index for the offline build.
func NewBuildDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile, true)
	case "postgres":
		driver, err = postgres.NewDB(profile, true)
	default:
		return nil, errors.Errorf("unknown store driver %q: only 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create build driver")
	}
	return driver, nil
}
