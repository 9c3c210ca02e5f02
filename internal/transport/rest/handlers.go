package rest

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/backup"
	"github.com/frahmantamala/travel-expense/internal/database"
	"github.com/frahmantamala/travel-expense/internal/expense"
	expenseRepository "github.com/frahmantamala/travel-expense/internal/expense/repository"
	"github.com/frahmantamala/travel-expense/internal/reference"
	refRepository "github.com/frahmantamala/travel-expense/internal/reference/repository"
	"github.com/frahmantamala/travel-expense/internal/transport"
	"github.com/frahmantamala/travel-expense/internal/transport/view"
	"github.com/frahmantamala/travel-expense/internal/trip"
	tripRepository "github.com/frahmantamala/travel-expense/internal/trip/repository"
)

// NewHandlers builds every repository, service and handler over db.
// templates holds layout.html and the page templates at its root.
func NewHandlers(db *database.DB, cfg *internal.Config, templates fs.FS, logger *slog.Logger) (Handlers, error) {
	pages, err := view.New(templates, ".")
	if err != nil {
		return Handlers{}, fmt.Errorf("failed to parse templates: %w", err)
	}
	base := transport.NewBaseHandler(logger, pages)

	refService := reference.NewService(refRepository.New(db.Gorm), logger)
	tripService := trip.NewService(tripRepository.NewTripRepository(db.Gorm, db.X), logger)
	expenseService := expense.NewService(expenseRepository.NewExpenseRepository(db.Gorm), logger)
	backupService := backup.NewService(db.SQL, db.Driver, cfg.App.BackupDir, logger)

	baseCurrency := cfg.App.BaseCurrency

	return Handlers{
		Base:        base,
		Trips:       trip.NewHandler(base, tripService, refService, baseCurrency),
		TripsAPI:    trip.NewAPIHandler(base, tripService, baseCurrency),
		Expenses:    expense.NewHandler(base, expenseService, tripService, refService, baseCurrency),
		ExpensesAPI: expense.NewAPIHandler(base, expenseService),
		Reference:   reference.NewHandler(base, refService),
		Backup:      backup.NewHandler(base, backupService),
		Health:      NewHealthHandler(base, db.SQL, db.Driver),
	}, nil
}
