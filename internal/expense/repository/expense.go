package repository

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/travel-expense/internal"
	expenseDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/expense"
	tripDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/trip"
	"github.com/frahmantamala/travel-expense/internal/expense"
	refRepository "github.com/frahmantamala/travel-expense/internal/reference/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const expenseColumns = `e.id, e.trip_id, e.purchase_date, e.item, e.amount, e.created_at,
c.name AS category, c.order_index AS category_order, pm.name AS payment_method,
cur.code AS currency_code, cur.symbol AS currency_symbol, er.rate_to_base`

// expenseRow is one expense joined with its reference display data.
type expenseRow struct {
	ID             int64
	TripID         int64
	PurchaseDate   *time.Time
	Item           string
	Amount         decimal.Decimal
	CreatedAt      time.Time
	Category       string
	CategoryOrder  int
	PaymentMethod  string
	CurrencyCode   string
	CurrencySymbol string
	RateToBase     decimal.NullDecimal
}

func (row *expenseRow) toDomain() *expense.Expense {
	return &expense.Expense{
		ID:             row.ID,
		TripID:         row.TripID,
		PurchaseDate:   row.PurchaseDate,
		Category:       row.Category,
		CategoryOrder:  row.CategoryOrder,
		PaymentMethod:  row.PaymentMethod,
		CurrencyCode:   row.CurrencyCode,
		CurrencySymbol: row.CurrencySymbol,
		Item:           row.Item,
		Amount:         row.Amount,
		RateToBase:     row.RateToBase.Decimal,
		CreatedAt:      row.CreatedAt,
	}
}

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

// references holds the resolved ids of an expense's lookups.
type references struct {
	categoryID      int64
	paymentMethodID int64
	currencyID      int64
}

// resolveReferences reports the first name that matches nothing, in form
// order.
func resolveReferences(ctx context.Context, tx *gorm.DB, input *expense.ExpenseInput) (*references, error) {
	repo := refRepository.New(tx)
	refs := &references{}

	res, err := repo.ResolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}
	var ok bool
	if refs.categoryID, ok = res.ID(); !ok {
		return nil, internal.NewInvalidReferenceError("category", input.Category)
	}

	if res, err = repo.ResolvePaymentMethod(ctx, input.PaymentMethod); err != nil {
		return nil, err
	}
	if refs.paymentMethodID, ok = res.ID(); !ok {
		return nil, internal.NewInvalidReferenceError("payment_method", input.PaymentMethod)
	}

	if res, err = repo.ResolveCurrency(ctx, input.Currency); err != nil {
		return nil, err
	}
	if refs.currencyID, ok = res.ID(); !ok {
		return nil, internal.NewInvalidReferenceError("currency", input.Currency)
	}

	return refs, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, tripID int64, input *expense.ExpenseInput) (int64, error) {
	row := expense.ToDataModel(tripID, input)
	row.Amount = input.Amount.Round(2)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTripExists(tx, tripID); err != nil {
			return err
		}

		refs, err := resolveReferences(ctx, tx, input)
		if err != nil {
			return err
		}
		row.CategoryID = refs.categoryID
		row.PaymentMethodID = refs.paymentMethodID
		row.CurrencyID = refs.currencyID

		return tx.Create(row).Error
	})
	if err != nil {
		return 0, translate(err, internal.ErrTripNotFound)
	}
	return row.ID, nil
}

func (r *ExpenseRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("expenses AS e").
		Select(expenseColumns).
		Joins("JOIN categories c ON c.id = e.category_id").
		Joins(`JOIN "paymentMethods" pm ON pm.id = e.payment_method_id`).
		Joins("JOIN currencies cur ON cur.id = e.currency_id").
		Joins(`LEFT JOIN "exchangeRates" er ON er.currency_id = e.currency_id`)
}

// ListByTrip orders by category order_index, then by insertion.
func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID int64, filter expense.Filter) ([]*expense.Expense, error) {
	if err := ensureTripExists(r.db.WithContext(ctx), tripID); err != nil {
		return nil, translate(err, internal.ErrTripNotFound)
	}

	q := r.joined(ctx).Where("e.trip_id = ?", tripID)
	if filter.Date != nil {
		q = q.Where("e.purchase_date = ?", *filter.Date)
	}
	if filter.Category != "" {
		q = q.Where("LOWER(c.name) = ?", filter.Category)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("LOWER(pm.name) = ?", filter.PaymentMethod)
	}

	var rows []*expenseRow
	if err := q.Order("c.order_index ASC, e.id ASC").Scan(&rows).Error; err != nil {
		return nil, internal.NewStoreError(err)
	}

	expenses := make([]*expense.Expense, len(rows))
	for i, row := range rows {
		expenses[i] = row.toDomain()
	}
	return expenses, nil
}

func (r *ExpenseRepository) Get(ctx context.Context, id int64) (*expense.Expense, error) {
	var rows []*expenseRow
	if err := r.joined(ctx).Where("e.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, internal.NewStoreError(err)
	}
	if len(rows) == 0 {
		return nil, internal.ErrExpenseNotFound
	}
	return rows[0].toDomain(), nil
}

func (r *ExpenseRepository) Update(ctx context.Context, id int64, input *expense.ExpenseInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing expenseDatamodel.Expense
		if err := tx.Select("id").Where("id = ?", id).First(&existing).Error; err != nil {
			return err
		}

		refs, err := resolveReferences(ctx, tx, input)
		if err != nil {
			return err
		}

		return tx.Model(&expenseDatamodel.Expense{}).Where("id = ?", id).Updates(map[string]interface{}{
			"purchase_date":     input.PurchaseDate,
			"category_id":       refs.categoryID,
			"payment_method_id": refs.paymentMethodID,
			"currency_id":       refs.currencyID,
			"item":              input.Item,
			"amount":            input.Amount.Round(2),
		}).Error
	})
	return translate(err, internal.ErrExpenseNotFound)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id)
	if result.Error != nil {
		return internal.NewStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}

func ensureTripExists(tx *gorm.DB, tripID int64) error {
	var count int64
	if err := tx.Model(&tripDatamodel.Trip{}).Where("id = ?", tripID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return internal.ErrTripNotFound
	}
	return nil
}

// translate maps gorm errors; notFound is the error a missing row means for
// the calling operation.
func translate(err error, notFound *internal.AppError) error {
	if err == nil {
		return nil
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return internal.ErrInvalidReference.WithCause(err)
	}
	return internal.NewStoreError(err)
}
