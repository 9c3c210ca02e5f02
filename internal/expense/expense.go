package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/travel-expense/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

// Expense is a stored expense joined with the display data of its
// category, payment method and currency.
type Expense struct {
	ID             int64
	TripID         int64
	PurchaseDate   *time.Time
	Category       string
	CategoryOrder  int
	PaymentMethod  string
	CurrencyCode   string
	CurrencySymbol string
	Item           string
	Amount         decimal.Decimal
	RateToBase     decimal.Decimal
	CreatedAt      time.Time
}

// AmountInBase is Amount converted at the currency's rate to the base
// currency.
func (e *Expense) AmountInBase() decimal.Decimal {
	return e.Amount.Mul(e.RateToBase)
}

// Filter narrows ListByTrip. Zero fields do not filter.
type Filter struct {
	Date          *time.Time
	Category      string
	PaymentMethod string
}

// Group is one category's expenses, in insertion order.
type Group struct {
	Category string
	Expenses []*Expense
}

func (g *Group) TotalInBase() decimal.Decimal {
	total := decimal.Zero
	for _, e := range g.Expenses {
		total = total.Add(e.AmountInBase())
	}
	return total
}

// Grouping maps category name to expenses and remembers the category order
// the expenses arrived in.
type Grouping struct {
	groups []*Group
	index  map[string]int
}

// GroupByCategory expects expenses already sorted by category order, then
// by insertion.
func GroupByCategory(expenses []*Expense) *Grouping {
	g := &Grouping{index: map[string]int{}}
	for _, e := range expenses {
		i, ok := g.index[e.Category]
		if !ok {
			i = len(g.groups)
			g.index[e.Category] = i
			g.groups = append(g.groups, &Group{Category: e.Category})
		}
		g.groups[i].Expenses = append(g.groups[i].Expenses, e)
	}
	return g
}

func (g *Grouping) Groups() []*Group {
	return g.groups
}

func (g *Grouping) Categories() []string {
	names := make([]string, len(g.groups))
	for i, grp := range g.groups {
		names[i] = grp.Category
	}
	return names
}

// Expenses returns the expenses of category, or nil.
func (g *Grouping) Expenses(category string) []*Expense {
	i, ok := g.index[category]
	if !ok {
		return nil
	}
	return g.groups[i].Expenses
}

func (g *Grouping) Len() int {
	return len(g.groups)
}

func (g *Grouping) TotalInBase() decimal.Decimal {
	total := decimal.Zero
	for _, grp := range g.groups {
		total = total.Add(grp.TotalInBase())
	}
	return total
}

// ToDataModel maps validated input onto a row; the reference ids are
// filled in after resolution.
func ToDataModel(tripID int64, input *ExpenseInput) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		TripID:       tripID,
		PurchaseDate: input.PurchaseDate,
		Item:         input.Item,
		Amount:       input.Amount,
	}
}
