// Package database opens the relational store behind every repository.
// One *sql.DB pool is shared by gorm (CRUD), sqlx (aggregates) and goose
// (migrations).
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/travel-expense/db/migrations"
	"github.com/frahmantamala/travel-expense/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type DB struct {
	Gorm   *gorm.DB
	SQL    *sql.DB
	X      *sqlx.DB
	Driver string
}

// Open connects using cfg, applies the pool limits and pings the store.
func Open(cfg internal.DatabaseConfig) (*DB, error) {
	var dialector gorm.Dialector
	var sqlxDriver string

	switch cfg.Driver {
	case internal.DriverSQLite:
		dialector = sqlite.Open(cfg.GetDSN())
		sqlxDriver = "sqlite3"
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.GetDSN())
		sqlxDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := internal.WithTimeout(context.Background(), 0)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		Gorm:   gdb,
		SQL:    sqlDB,
		X:      sqlx.NewDb(sqlDB, sqlxDriver),
		Driver: cfg.Driver,
	}, nil
}

// Migrate brings the schema up to the latest version.
func (d *DB) Migrate(ctx context.Context) (int64, error) {
	return migrations.Up(ctx, d.SQL, d.Driver)
}

// Rollback undoes the most recent migration.
func (d *DB) Rollback(ctx context.Context) (int64, error) {
	return migrations.Down(ctx, d.SQL, d.Driver)
}

func (d *DB) Close() error {
	return d.SQL.Close()
}
