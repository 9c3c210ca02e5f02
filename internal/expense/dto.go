package expense

import (
	"strings"
	"time"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const (
	MsgCategoryRequired      = "Category is required."
	MsgPaymentMethodRequired = "Payment method is required."
	MsgItemRequired          = "Item is required."
	MsgAmountRequired        = "Amount is required."
	MsgCurrencyRequired      = "Currency is required."
)

// ExpenseForm holds the raw submitted values; it is also the JSON body of
// the expense endpoints and the values echoed back after a failed submit.
type ExpenseForm struct {
	PurchaseDate  string `json:"purchase_date,omitempty"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	Item          string `json:"item"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// ExpenseInput is a validated, normalized ExpenseForm. Reference names are
// still names here; the repository resolves them.
type ExpenseInput struct {
	PurchaseDate  *time.Time
	Category      string
	PaymentMethod string
	Item          string
	Amount        decimal.Decimal
	Currency      string
}

func (f ExpenseForm) Validate() (*ExpenseInput, *internal.AppError) {
	var (
		purchaseDate *time.Time
		amount       decimal.Decimal
	)

	err := validation.NewChain().
		Require("category", f.Category, MsgCategoryRequired).
		Require("payment_method", f.PaymentMethod, MsgPaymentMethodRequired).
		Require("item", f.Item, MsgItemRequired).
		Require("amount", f.Amount, MsgAmountRequired).
		Require("currency", f.Currency, MsgCurrencyRequired).
		OptionalDate("purchase_date", f.PurchaseDate, &purchaseDate).
		PositiveAmount("amount", f.Amount, &amount).
		Validate()
	if err != nil {
		return nil, err
	}

	return &ExpenseInput{
		PurchaseDate:  purchaseDate,
		Category:      validation.Normalize(f.Category),
		PaymentMethod: validation.Normalize(f.PaymentMethod),
		Item:          validation.Normalize(f.Item),
		Amount:        amount,
		Currency:      strings.ToUpper(strings.TrimSpace(f.Currency)),
	}, nil
}

func FormFromExpense(e *Expense) ExpenseForm {
	form := ExpenseForm{
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		Item:          e.Item,
		Amount:        e.Amount.StringFixed(2),
		Currency:      e.CurrencyCode,
	}
	if e.PurchaseDate != nil {
		form.PurchaseDate = e.PurchaseDate.Format(validation.DateLayout)
	}
	return form
}

// FilterForm is the raw query string of the expenses page.
type FilterForm struct {
	Date          string
	Category      string
	PaymentMethod string
}

func (f FilterForm) Validate() (Filter, *internal.AppError) {
	var date *time.Time
	if err := validation.NewChain().OptionalDate("date", f.Date, &date).Validate(); err != nil {
		return Filter{}, err
	}
	return Filter{
		Date:          date,
		Category:      validation.Normalize(f.Category),
		PaymentMethod: validation.Normalize(f.PaymentMethod),
	}, nil
}

type ExpenseResponse struct {
	ID            int64  `json:"id"`
	TripID        int64  `json:"trip_id"`
	PurchaseDate  string `json:"purchase_date,omitempty"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	Item          string `json:"item"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	AmountInBase  string `json:"amount_in_base"`
}

func (e *Expense) ToResponse() ExpenseResponse {
	resp := ExpenseResponse{
		ID:            e.ID,
		TripID:        e.TripID,
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		Item:          e.Item,
		Amount:        e.Amount.StringFixed(2),
		Currency:      e.CurrencyCode,
		AmountInBase:  e.AmountInBase().StringFixed(2),
	}
	if e.PurchaseDate != nil {
		resp.PurchaseDate = e.PurchaseDate.Format(validation.DateLayout)
	}
	return resp
}

type GroupResponse struct {
	Category    string            `json:"category"`
	TotalInBase string            `json:"total_in_base"`
	Expenses    []ExpenseResponse `json:"expenses"`
}

// GroupedResponse keeps categories as an array so their order survives
// JSON encoding.
type GroupedResponse struct {
	TripID      int64           `json:"trip_id"`
	TotalInBase string          `json:"total_in_base"`
	Groups      []GroupResponse `json:"groups"`
}

func (g *Grouping) ToResponse(tripID int64) GroupedResponse {
	resp := GroupedResponse{
		TripID:      tripID,
		TotalInBase: g.TotalInBase().StringFixed(2),
		Groups:      make([]GroupResponse, 0, g.Len()),
	}
	for _, grp := range g.Groups() {
		gr := GroupResponse{
			Category:    grp.Category,
			TotalInBase: grp.TotalInBase().StringFixed(2),
			Expenses:    make([]ExpenseResponse, len(grp.Expenses)),
		}
		for i, e := range grp.Expenses {
			gr.Expenses[i] = e.ToResponse()
		}
		resp.Groups = append(resp.Groups, gr)
	}
	return resp
}
