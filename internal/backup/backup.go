// Package backup produces consistent copies of the sqlite database.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/google/uuid"
)

// FileLayout is the timestamp format of download file names.
const FileLayout = "20060102_150405"

type Service struct {
	db     *sql.DB
	driver string
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, driver, dir string, logger *slog.Logger) *Service {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Service{
		db:     db,
		driver: driver,
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// FileName is the name offered to the user for a snapshot taken at t.
func FileName(t time.Time) string {
	return "expenses_backup_" + t.Format(FileLayout) + ".db"
}

// Snapshot writes a copy of the database to a new file in the backup
// directory and returns its path. The caller removes the file.
func (s *Service) Snapshot(ctx context.Context) (string, error) {
	path := filepath.Join(s.dir, "snapshot_"+uuid.NewString()+".db")
	if err := s.WriteTo(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTo writes a copy of the database to path, which must not exist.
func (s *Service) WriteTo(ctx context.Context, path string) error {
	if s.driver != internal.DriverSQLite {
		return internal.ErrNotSupported
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("backup: %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("backup: %w", err)
	}

	start := s.now()
	// VACUUM INTO reads one transaction so the copy is consistent while
	// writers continue.
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		s.logger.Error("snapshot failed", "error", err, "path", path)
		return internal.NewStoreError(err)
	}

	s.logger.Info("snapshot written", "path", path, "duration_ms", s.now().Sub(start).Milliseconds())
	return nil
}
