package expense_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var categoryOrder = map[string]int{"meals": 1, "activities": 2, "transportation": 3, "accommodation": 4, "others": 5}

// MockRepository implements expense.RepositoryAPI in memory with the
// default categories and a USD/JPY rate table.
type MockRepository struct {
	trips     map[int64]bool
	expenses  map[int64]*expense.Expense
	rates     map[string]decimal.Decimal
	nextID    int64
	failError error
}

func NewMockRepository(tripIDs ...int64) *MockRepository {
	m := &MockRepository{
		trips:    map[int64]bool{},
		expenses: map[int64]*expense.Expense{},
		rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"JPY": decimal.RequireFromString("0.0067"),
		},
		nextID: 1,
	}
	for _, id := range tripIDs {
		m.trips[id] = true
	}
	return m
}

func (m *MockRepository) build(id, tripID int64, input *expense.ExpenseInput) (*expense.Expense, error) {
	order, ok := categoryOrder[input.Category]
	if !ok {
		return nil, internal.NewInvalidReferenceError("category", input.Category)
	}
	if input.PaymentMethod != "card" && input.PaymentMethod != "cash" {
		return nil, internal.NewInvalidReferenceError("payment_method", input.PaymentMethod)
	}
	rate, ok := m.rates[input.Currency]
	if !ok {
		return nil, internal.NewInvalidReferenceError("currency", input.Currency)
	}
	return &expense.Expense{
		ID:            id,
		TripID:        tripID,
		PurchaseDate:  input.PurchaseDate,
		Category:      input.Category,
		CategoryOrder: order,
		PaymentMethod: input.PaymentMethod,
		CurrencyCode:  input.Currency,
		Item:          input.Item,
		Amount:        input.Amount,
		RateToBase:    rate,
	}, nil
}

func (m *MockRepository) Create(ctx context.Context, tripID int64, input *expense.ExpenseInput) (int64, error) {
	if m.failError != nil {
		return 0, m.failError
	}
	if !m.trips[tripID] {
		return 0, internal.ErrTripNotFound
	}
	e, err := m.build(m.nextID, tripID, input)
	if err != nil {
		return 0, err
	}
	m.expenses[e.ID] = e
	m.nextID++
	return e.ID, nil
}

func (m *MockRepository) ListByTrip(ctx context.Context, tripID int64, filter expense.Filter) ([]*expense.Expense, error) {
	if m.failError != nil {
		return nil, m.failError
	}
	if !m.trips[tripID] {
		return nil, internal.ErrTripNotFound
	}
	var out []*expense.Expense
	for _, e := range m.expenses {
		if e.TripID != tripID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.PaymentMethod != "" && e.PaymentMethod != filter.PaymentMethod {
			continue
		}
		if filter.Date != nil && (e.PurchaseDate == nil || !e.PurchaseDate.Equal(*filter.Date)) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryOrder != out[j].CategoryOrder {
			return out[i].CategoryOrder < out[j].CategoryOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockRepository) Get(ctx context.Context, id int64) (*expense.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, internal.ErrExpenseNotFound
	}
	return e, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, input *expense.ExpenseInput) error {
	if m.failError != nil {
		return m.failError
	}
	current, ok := m.expenses[id]
	if !ok {
		return internal.ErrExpenseNotFound
	}
	e, err := m.build(id, current.TripID, input)
	if err != nil {
		return err
	}
	m.expenses[id] = e
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.expenses[id]; !ok {
		return internal.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

var _ = Describe("Expense Service", func() {
	var (
		mockRepo *MockRepository
		service  *expense.Service
		ctx      context.Context
		form     expense.ExpenseForm
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = NewMockRepository(1)
		service = expense.NewService(mockRepo, logger)
		ctx = context.Background()
		form = expense.ExpenseForm{Category: "meals", PaymentMethod: "cash", Item: "Ramen", Amount: "12.50", Currency: "JPY"}
	})

	Describe("CreateExpense", func() {
		It("should store a valid expense", func() {
			e, err := service.CreateExpense(ctx, 1, form)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Item).To(Equal("ramen"))
			f, _ := e.AmountInBase().Float64()
			Expect(f).To(BeNumerically("~", 0.08375, 1e-9))
		})

		It("should not reach the repository when validation fails", func() {
			form.Amount = "-1"
			_, err := service.CreateExpense(ctx, 1, form)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(mockRepo.expenses).To(BeEmpty())
		})

		It("should pass invalid references through", func() {
			form.Category = "snacks"
			_, err := service.CreateExpense(ctx, 1, form)
			Expect(errors.Is(err, internal.ErrInvalidReference)).To(BeTrue())
			Expect(mockRepo.expenses).To(BeEmpty())
		})

		It("should report a missing trip", func() {
			_, err := service.CreateExpense(ctx, 2, form)
			Expect(errors.Is(err, internal.ErrTripNotFound)).To(BeTrue())
		})

		It("should surface store failures", func() {
			mockRepo.failError = internal.NewStoreError(errors.New("disk full"))
			_, err := service.CreateExpense(ctx, 1, form)
			Expect(errors.Is(err, internal.ErrStore)).To(BeTrue())
		})
	})

	Describe("ListByTrip", func() {
		It("should group by category in category order", func() {
			taxi := form
			taxi.Category, taxi.Item, taxi.Currency = "transportation", "taxi", "USD"
			_, err := service.CreateExpense(ctx, 1, taxi)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateExpense(ctx, 1, form)
			Expect(err).NotTo(HaveOccurred())

			g, err := service.ListByTrip(ctx, 1, expense.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Categories()).To(Equal([]string{"meals", "transportation"}))
		})

		It("should return an empty grouping for a trip without expenses", func() {
			g, err := service.ListByTrip(ctx, 1, expense.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Len()).To(BeZero())
		})
	})

	Describe("UpdateExpense", func() {
		It("should apply the new values", func() {
			e, err := service.CreateExpense(ctx, 1, form)
			Expect(err).NotTo(HaveOccurred())

			form.Amount = "20"
			form.Currency = "usd"
			updated, err := service.UpdateExpense(ctx, e.ID, form)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.CurrencyCode).To(Equal("USD"))
			Expect(updated.AmountInBase().StringFixed(2)).To(Equal("20.00"))
		})

		It("should report a missing expense", func() {
			_, err := service.UpdateExpense(ctx, 42, form)
			Expect(errors.Is(err, internal.ErrExpenseNotFound)).To(BeTrue())
		})
	})

	Describe("DeleteExpense", func() {
		It("should return the deleted expense", func() {
			e, err := service.CreateExpense(ctx, 1, form)
			Expect(err).NotTo(HaveOccurred())

			deleted, err := service.DeleteExpense(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted.TripID).To(Equal(int64(1)))
			Expect(mockRepo.expenses).To(BeEmpty())
		})

		It("should report a missing expense", func() {
			_, err := service.DeleteExpense(ctx, 42)
			Expect(errors.Is(err, internal.ErrExpenseNotFound)).To(BeTrue())
		})
	})
})
