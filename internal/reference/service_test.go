package reference_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	refDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/reference"
	"github.com/frahmantamala/travel-expense/internal/reference"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type MockRepository struct {
	categories []*refDatamodel.Category
	currencies map[string]*refDatamodel.Currency
	seeded     []reference.SeedSet
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{currencies: map[string]*refDatamodel.Currency{}}
}

func (m *MockRepository) Categories(ctx context.Context) ([]*refDatamodel.Category, error) {
	return m.categories, m.failError
}

func (m *MockRepository) PaymentMethods(ctx context.Context) ([]*refDatamodel.PaymentMethod, error) {
	return []*refDatamodel.PaymentMethod{{ID: 1, Name: "card"}}, m.failError
}

func (m *MockRepository) Currencies(ctx context.Context) ([]*reference.Currency, error) {
	return nil, m.failError
}

func (m *MockRepository) Countries(ctx context.Context) ([]*refDatamodel.Country, error) {
	return []*refDatamodel.Country{{ID: 1, Name: "Japan", Code: "JP"}}, m.failError
}

func (m *MockRepository) CurrencyByCode(ctx context.Context, code string) (*refDatamodel.Currency, error) {
	if m.failError != nil {
		return nil, m.failError
	}
	return m.currencies[code], nil
}

func (m *MockRepository) BaseCurrencyCodes(ctx context.Context) ([]string, error) {
	var codes []string
	for code, c := range m.currencies {
		if c.IsBase {
			codes = append(codes, code)
		}
	}
	return codes, m.failError
}

func (m *MockRepository) Seed(ctx context.Context, set reference.SeedSet) error {
	if m.failError != nil {
		return m.failError
	}
	m.seeded = append(m.seeded, set)
	return nil
}

var _ = Describe("Reference Service", func() {
	var (
		mockRepo *MockRepository
		service  *reference.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = reference.NewService(mockRepo, logger)
		ctx = context.Background()
	})

	Describe("Lookups", func() {
		It("should collect every lookup table", func() {
			mockRepo.categories = []*refDatamodel.Category{{ID: 1, Name: "meals", OrderIndex: 1}}

			lookups, err := service.Lookups(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(lookups.Categories).To(HaveLen(1))
			Expect(lookups.PaymentMethods[0].Name).To(Equal("card"))
			Expect(lookups.Countries[0].Flag()).To(Equal("🇯🇵"))
		})

		It("should return the repository error", func() {
			mockRepo.failError = errors.New("database error")

			_, err := service.Lookups(ctx)
			Expect(err).To(MatchError("database error"))
		})
	})

	Describe("Seed", func() {
		It("should hand the seed set for the base currency to the repository", func() {
			Expect(service.Seed(ctx, "jpy")).To(Succeed())
			Expect(mockRepo.seeded).To(HaveLen(1))
			for _, c := range mockRepo.seeded[0].Currencies {
				Expect(c.IsBase).To(Equal(c.Code == "JPY"))
			}
		})

		It("should fail for an unknown base currency", func() {
			Expect(service.Seed(ctx, "ZZZ")).NotTo(Succeed())
			Expect(mockRepo.seeded).To(BeEmpty())
		})
	})

	Describe("VerifyBaseCurrency", func() {
		It("should accept the single flagged base", func() {
			mockRepo.currencies["USD"] = &refDatamodel.Currency{Code: "USD", IsBase: true}
			mockRepo.currencies["EUR"] = &refDatamodel.Currency{Code: "EUR"}

			Expect(service.VerifyBaseCurrency(ctx, "usd")).To(Succeed())
		})

		It("should fail when the currency is missing", func() {
			err := service.VerifyBaseCurrency(ctx, "USD")
			Expect(err).To(MatchError(ContainSubstring("does not exist")))
		})

		It("should fail when another currency is flagged as base", func() {
			mockRepo.currencies["USD"] = &refDatamodel.Currency{Code: "USD", IsBase: true}
			mockRepo.currencies["EUR"] = &refDatamodel.Currency{Code: "EUR"}

			err := service.VerifyBaseCurrency(ctx, "EUR")
			Expect(err).To(MatchError(ContainSubstring("USD is flagged as base")))
		})

		It("should fail when the configured base is not flagged", func() {
			mockRepo.currencies["EUR"] = &refDatamodel.Currency{Code: "EUR"}

			err := service.VerifyBaseCurrency(ctx, "EUR")
			Expect(err).To(MatchError(ContainSubstring("not flagged as base")))
		})
	})
})
