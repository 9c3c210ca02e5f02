package repository

import (
	"context"
	"errors"

	"github.com/frahmantamala/travel-expense/internal"
	tripDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/trip"
	refRepository "github.com/frahmantamala/travel-expense/internal/reference/repository"
	"github.com/frahmantamala/travel-expense/internal/trip"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// expenseAmountsQuery selects each expense with its rate so totals are summed
// as decimals in Go. sqlite keeps NUMERIC columns as REAL, so SUM in SQL
// would round through binary floating point.
const expenseAmountsQuery = `
SELECT e.trip_id, e.amount, er.rate_to_base
FROM expenses e
LEFT JOIN "exchangeRates" er ON er.currency_id = e.currency_id
`

type expenseAmount struct {
	TripID     int64               `db:"trip_id"`
	Amount     decimal.Decimal     `db:"amount"`
	RateToBase decimal.NullDecimal `db:"rate_to_base"`
}

// sumByTrip adds amount × rate_to_base per trip. An expense whose currency
// has no rate contributes nothing.
func sumByTrip(rows []expenseAmount) map[int64]decimal.Decimal {
	totals := make(map[int64]decimal.Decimal)
	for _, row := range rows {
		if !row.RateToBase.Valid {
			continue
		}
		totals[row.TripID] = totals[row.TripID].Add(row.Amount.Mul(row.RateToBase.Decimal))
	}
	return totals
}

// TripRepository stores trips with gorm and computes totals with sqlx over
// the same connection pool.
type TripRepository struct {
	db *gorm.DB
	x  *sqlx.DB
}

func NewTripRepository(db *gorm.DB, x *sqlx.DB) trip.RepositoryAPI {
	return &TripRepository{db: db, x: x}
}

func (r *TripRepository) Create(ctx context.Context, input *trip.TripInput) (int64, error) {
	row := trip.ToDataModel(input)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, input.Name, 0); err != nil {
			return err
		}

		countryID, err := resolveCountry(ctx, tx, input.Country)
		if err != nil {
			return err
		}
		row.CountryID = countryID

		return tx.Create(row).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return row.ID, nil
}

func (r *TripRepository) List(ctx context.Context) ([]*trip.Trip, error) {
	var rows []*tripDatamodel.Trip
	err := r.db.WithContext(ctx).
		Preload("Country").
		Order("start_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, internal.NewStoreError(err)
	}

	var amounts []expenseAmount
	if err := r.x.SelectContext(ctx, &amounts, expenseAmountsQuery); err != nil {
		return nil, internal.NewStoreError(err)
	}
	byTrip := sumByTrip(amounts)

	trips := make([]*trip.Trip, len(rows))
	for i, row := range rows {
		trips[i] = trip.FromDataModel(row)
		trips[i].TotalInBase = byTrip[row.ID]
	}
	return trips, nil
}

func (r *TripRepository) Get(ctx context.Context, id int64) (*trip.Trip, error) {
	var row tripDatamodel.Trip
	err := r.db.WithContext(ctx).Preload("Country").Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, translate(err)
	}

	var amounts []expenseAmount
	query := r.x.Rebind(expenseAmountsQuery + ` WHERE e.trip_id = ?`)
	if err := r.x.SelectContext(ctx, &amounts, query, id); err != nil {
		return nil, internal.NewStoreError(err)
	}

	t := trip.FromDataModel(&row)
	t.TotalInBase = sumByTrip(amounts)[id]
	return t, nil
}

func (r *TripRepository) Update(ctx context.Context, id int64, input *trip.TripInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing tripDatamodel.Trip
		if err := tx.Select("id").Where("id = ?", id).First(&existing).Error; err != nil {
			return err
		}

		if err := ensureUniqueName(tx, input.Name, id); err != nil {
			return err
		}

		countryID, err := resolveCountry(ctx, tx, input.Country)
		if err != nil {
			return err
		}

		return tx.Model(&tripDatamodel.Trip{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":         input.Name,
			"display_name": input.DisplayName,
			"start_date":   input.StartDate,
			"end_date":     input.EndDate,
			"country_id":   countryID,
		}).Error
	})
	return translate(err)
}

// Delete relies on ON DELETE CASCADE to remove the trip's expenses.
func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&tripDatamodel.Trip{}, id)
	if result.Error != nil {
		return internal.NewStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrTripNotFound
	}
	return nil
}

// ensureUniqueName catches duplicates before the insert so the common case
// gets a clean error; the unique index still guards concurrent writers.
func ensureUniqueName(tx *gorm.DB, name string, exceptID int64) error {
	var count int64
	q := tx.Model(&tripDatamodel.Trip{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return internal.ErrDuplicateTripName
	}
	return nil
}

func resolveCountry(ctx context.Context, tx *gorm.DB, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	res, err := refRepository.New(tx).ResolveCountry(ctx, name)
	if err != nil {
		return nil, err
	}
	id, ok := res.ID()
	if !ok {
		return nil, internal.NewInvalidReferenceError("country", name)
	}
	return &id, nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return internal.ErrTripNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return internal.ErrDuplicateTripName
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return internal.ErrInvalidReference.WithCause(err)
	}
	return internal.NewStoreError(err)
}
