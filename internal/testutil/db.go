// Package testutil opens throwaway databases for integration tests.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/database"
	"github.com/frahmantamala/travel-expense/internal/reference"
	refRepository "github.com/frahmantamala/travel-expense/internal/reference/repository"
)

// NewDB returns a private in-memory sqlite database with every migration
// applied. The pool is pinned to one connection because each sqlite
// connection to :memory: is its own database.
func NewDB() (*database.DB, error) {
	return open("file::memory:", 1)
}

// NewSeededFileDB opens a migrated, seeded sqlite file at path with a pool
// of several connections, for tests that exercise concurrent writers.
func NewSeededFileDB(path, base string) (*database.DB, error) {
	db, err := open("file:"+path, 4)
	if err != nil {
		return nil, err
	}
	return seed(db, base)
}

func open(source string, conns int) (*database.DB, error) {
	db, err := database.Open(internal.DatabaseConfig{
		Driver:          internal.DriverSQLite,
		Source:          source,
		MaxOpenConns:    conns,
		MaxIdleConns:    conns,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Hour,
	})
	if err != nil {
		return nil, err
	}

	if _, err := db.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("testutil: migrate: %w", err)
	}
	return db, nil
}

// NewSeededDB is NewDB plus the default reference data relative to base.
func NewSeededDB(base string) (*database.DB, error) {
	db, err := NewDB()
	if err != nil {
		return nil, err
	}
	return seed(db, base)
}

func seed(db *database.DB, base string) (*database.DB, error) {
	set, err := reference.DefaultSeedSet(base)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := refRepository.New(db.Gorm).Seed(context.Background(), set); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("testutil: seed: %w", err)
	}
	return db, nil
}
