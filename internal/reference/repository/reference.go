package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/travel-expense/internal"
	refDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/reference"
	"github.com/frahmantamala/travel-expense/internal/reference"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceRepository reads and seeds the lookup tables. It also resolves
// names to ids; pass a transaction handle to New to resolve inside a write.
type ReferenceRepository struct {
	db *gorm.DB
}

var (
	_ reference.RepositoryAPI = (*ReferenceRepository)(nil)
	_ reference.Resolver      = (*ReferenceRepository)(nil)
)

func New(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) Categories(ctx context.Context) ([]*refDatamodel.Category, error) {
	var categories []*refDatamodel.Category
	if err := r.db.WithContext(ctx).Order("order_index ASC").Find(&categories).Error; err != nil {
		return nil, internal.NewStoreError(err)
	}
	return categories, nil
}

func (r *ReferenceRepository) PaymentMethods(ctx context.Context) ([]*refDatamodel.PaymentMethod, error) {
	var methods []*refDatamodel.PaymentMethod
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&methods).Error; err != nil {
		return nil, internal.NewStoreError(err)
	}
	return methods, nil
}

type currencyRow struct {
	ID          int64
	Code        string
	DisplayName string
	Symbol      string
	IsBase      bool
	RateToBase  decimal.NullDecimal
}

func (r *ReferenceRepository) Currencies(ctx context.Context) ([]*reference.Currency, error) {
	var rows []currencyRow
	err := r.db.WithContext(ctx).
		Table("currencies AS c").
		Select("c.id, c.code, c.display_name, c.symbol, c.is_base, er.rate_to_base").
		Joins(`LEFT JOIN "exchangeRates" er ON er.currency_id = c.id`).
		Order("c.is_base DESC, c.code ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, internal.NewStoreError(err)
	}

	currencies := make([]*reference.Currency, len(rows))
	for i, row := range rows {
		currencies[i] = &reference.Currency{
			ID:          row.ID,
			Code:        row.Code,
			DisplayName: row.DisplayName,
			Symbol:      row.Symbol,
			IsBase:      row.IsBase,
			RateToBase:  row.RateToBase.Decimal,
		}
	}
	return currencies, nil
}

func (r *ReferenceRepository) Countries(ctx context.Context) ([]*refDatamodel.Country, error) {
	var countries []*refDatamodel.Country
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&countries).Error; err != nil {
		return nil, internal.NewStoreError(err)
	}
	return countries, nil
}

// CurrencyByCode returns nil, nil when no currency has code.
func (r *ReferenceRepository) CurrencyByCode(ctx context.Context, code string) (*refDatamodel.Currency, error) {
	var currency refDatamodel.Currency
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&currency).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, internal.NewStoreError(err)
	}
	return &currency, nil
}

func (r *ReferenceRepository) BaseCurrencyCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&refDatamodel.Currency{}).
		Where("is_base = ?", true).
		Order("code ASC").
		Pluck("code", &codes).Error
	if err != nil {
		return nil, internal.NewStoreError(err)
	}
	return codes, nil
}

// Seed inserts the rows of set that are not present yet, all in one
// transaction. Conflicting rows are skipped, never updated.
func (r *ReferenceRepository) Seed(ctx context.Context, set reference.SeedSet) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skip := clause.OnConflict{DoNothing: true}

		for _, c := range set.Categories {
			row := refDatamodel.Category{Name: c.Name, OrderIndex: c.OrderIndex}
			if err := tx.Clauses(skip).Create(&row).Error; err != nil {
				return err
			}
		}

		for _, name := range set.PaymentMethods {
			row := refDatamodel.PaymentMethod{Name: name}
			if err := tx.Clauses(skip).Create(&row).Error; err != nil {
				return err
			}
		}

		for _, c := range set.Currencies {
			row := refDatamodel.Currency{
				Code:        c.Code,
				DisplayName: c.DisplayName,
				Symbol:      c.Symbol,
				IsBase:      c.IsBase,
			}
			if err := tx.Clauses(skip).Create(&row).Error; err != nil {
				return err
			}

			var stored refDatamodel.Currency
			if err := tx.Where("code = ?", c.Code).First(&stored).Error; err != nil {
				return err
			}

			rate := refDatamodel.ExchangeRate{CurrencyID: stored.ID, RateToBase: c.RateToBase}
			if err := tx.Clauses(skip).Create(&rate).Error; err != nil {
				return err
			}
		}

		for _, c := range set.Countries {
			row := refDatamodel.Country{Name: c.Name, Code: c.Code}
			if err := tx.Clauses(skip).Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return internal.NewStoreError(err)
	}
	return nil
}

func (r *ReferenceRepository) resolve(ctx context.Context, model interface{}, column, value string) (reference.Resolution, error) {
	var id int64
	err := r.db.WithContext(ctx).Model(model).
		Select("id").
		Where("LOWER("+column+") = ?", value).
		Limit(1).
		Scan(&id).Error
	if err != nil {
		return reference.Unresolved(), internal.NewStoreError(err)
	}
	if id == 0 {
		return reference.Unresolved(), nil
	}
	return reference.Found(id), nil
}

func (r *ReferenceRepository) ResolveCategory(ctx context.Context, name string) (reference.Resolution, error) {
	return r.resolve(ctx, &refDatamodel.Category{}, "name", normalize(name))
}

func (r *ReferenceRepository) ResolvePaymentMethod(ctx context.Context, name string) (reference.Resolution, error) {
	return r.resolve(ctx, &refDatamodel.PaymentMethod{}, "name", normalize(name))
}

func (r *ReferenceRepository) ResolveCurrency(ctx context.Context, code string) (reference.Resolution, error) {
	return r.resolve(ctx, &refDatamodel.Currency{}, "code", normalize(code))
}

func (r *ReferenceRepository) ResolveCountry(ctx context.Context, name string) (reference.Resolution, error) {
	return r.resolve(ctx, &refDatamodel.Country{}, "name", normalize(name))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
