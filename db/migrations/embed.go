// Package migrations embeds the versioned SQL schema, one directory per
// dialect, and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// NewProvider returns a goose provider over the migrations for driver
// ("sqlite" or "postgres").
func NewProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	var dialect goose.Dialect
	switch driver {
	case "sqlite":
		dialect = goose.DialectSQLite3
	case "postgres":
		dialect = goose.DialectPostgres
	default:
		return nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}

	sub, err := fs.Sub(FS, driver)
	if err != nil {
		return nil, fmt.Errorf("migrations: open %s dir: %w", driver, err)
	}

	return goose.NewProvider(dialect, db, sub)
}

// Up applies every pending migration and returns the resulting schema version.
func Up(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	provider, err := NewProvider(db, driver)
	if err != nil {
		return 0, err
	}
	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("migrations: up: %w", err)
	}
	return provider.GetDBVersion(ctx)
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	provider, err := NewProvider(db, driver)
	if err != nil {
		return 0, err
	}
	if _, err := provider.Down(ctx); err != nil {
		return 0, fmt.Errorf("migrations: down: %w", err)
	}
	return provider.GetDBVersion(ctx)
}
