package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	refDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/reference"
)

type RepositoryAPI interface {
	Categories(ctx context.Context) ([]*refDatamodel.Category, error)
	PaymentMethods(ctx context.Context) ([]*refDatamodel.PaymentMethod, error)
	Currencies(ctx context.Context) ([]*Currency, error)
	Countries(ctx context.Context) ([]*refDatamodel.Country, error)
	CurrencyByCode(ctx context.Context, code string) (*refDatamodel.Currency, error)
	BaseCurrencyCodes(ctx context.Context) ([]string, error)
	Seed(ctx context.Context, set SeedSet) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Categories are returned in display order.
func (s *Service) Categories(ctx context.Context) ([]*Category, error) {
	rows, err := s.repo.Categories(ctx)
	if err != nil {
		s.logger.Error("failed to get categories", "error", err)
		return nil, err
	}

	categories := make([]*Category, len(rows))
	for i, row := range rows {
		categories[i] = CategoryFromDataModel(row)
	}
	return categories, nil
}

func (s *Service) PaymentMethods(ctx context.Context) ([]*PaymentMethod, error) {
	rows, err := s.repo.PaymentMethods(ctx)
	if err != nil {
		s.logger.Error("failed to get payment methods", "error", err)
		return nil, err
	}

	methods := make([]*PaymentMethod, len(rows))
	for i, row := range rows {
		methods[i] = PaymentMethodFromDataModel(row)
	}
	return methods, nil
}

func (s *Service) Currencies(ctx context.Context) ([]*Currency, error) {
	currencies, err := s.repo.Currencies(ctx)
	if err != nil {
		s.logger.Error("failed to get currencies", "error", err)
		return nil, err
	}
	return currencies, nil
}

func (s *Service) Countries(ctx context.Context) ([]*Country, error) {
	rows, err := s.repo.Countries(ctx)
	if err != nil {
		s.logger.Error("failed to get countries", "error", err)
		return nil, err
	}

	countries := make([]*Country, len(rows))
	for i, row := range rows {
		countries[i] = CountryFromDataModel(row)
	}
	return countries, nil
}

func (s *Service) Lookups(ctx context.Context) (*Lookups, error) {
	var (
		l   Lookups
		err error
	)
	if l.Categories, err = s.Categories(ctx); err != nil {
		return nil, err
	}
	if l.PaymentMethods, err = s.PaymentMethods(ctx); err != nil {
		return nil, err
	}
	if l.Currencies, err = s.Currencies(ctx); err != nil {
		return nil, err
	}
	if l.Countries, err = s.Countries(ctx); err != nil {
		return nil, err
	}
	return &l, nil
}

// Seed inserts any missing reference rows. Existing rows are never
// touched, so running it on every startup is safe.
func (s *Service) Seed(ctx context.Context, baseCurrency string) error {
	set, err := DefaultSeedSet(baseCurrency)
	if err != nil {
		return err
	}

	if err := s.repo.Seed(ctx, set); err != nil {
		s.logger.Error("failed to seed reference data", "error", err)
		return err
	}

	s.logger.Info("reference data seeded",
		"categories", len(set.Categories),
		"payment_methods", len(set.PaymentMethods),
		"currencies", len(set.Currencies),
		"countries", len(set.Countries),
		"base_currency", baseCurrency)
	return nil
}

// VerifyBaseCurrency fails unless code exists and is the only currency
// flagged as base.
func (s *Service) VerifyBaseCurrency(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	currency, err := s.repo.CurrencyByCode(ctx, code)
	if err != nil {
		return err
	}
	if currency == nil {
		return fmt.Errorf("base currency %s does not exist", code)
	}

	flagged, err := s.repo.BaseCurrencyCodes(ctx)
	if err != nil {
		return err
	}
	for _, other := range flagged {
		if other != code {
			return fmt.Errorf("currency %s is flagged as base but the configured base currency is %s", other, code)
		}
	}
	if !currency.IsBase {
		return fmt.Errorf("base currency %s is not flagged as base", code)
	}

	s.logger.Info("base currency verified", "code", code)
	return nil
}
