package expense

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/frahmantamala/travel-expense/internal/reference"
	"github.com/frahmantamala/travel-expense/internal/transport"
	"github.com/frahmantamala/travel-expense/internal/trip"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, tripID int64, form ExpenseForm) (*Expense, error)
	ListByTrip(ctx context.Context, tripID int64, filter Filter) (*Grouping, error)
	GetExpense(ctx context.Context, id int64) (*Expense, error)
	UpdateExpense(ctx context.Context, id int64, form ExpenseForm) (*Expense, error)
	DeleteExpense(ctx context.Context, id int64) (*Expense, error)
}

type TripReader interface {
	ListTrips(ctx context.Context) ([]*trip.Trip, error)
	GetTrip(ctx context.Context, id int64) (*trip.Trip, error)
}

type LookupsProvider interface {
	Lookups(ctx context.Context) (*reference.Lookups, error)
}

// Handler serves the HTML expense pages.
type Handler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	Trips        TripReader
	Lookups      LookupsProvider
	BaseCurrency string
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, trips TripReader, lookups LookupsProvider, baseCurrency string) *Handler {
	return &Handler{
		BaseHandler:  baseHandler,
		Service:      service,
		Trips:        trips,
		Lookups:      lookups,
		BaseCurrency: baseCurrency,
	}
}

const expensesPath = "/expenses"

func tripExpensesPath(tripID int64) string {
	return fmt.Sprintf("%s?trip_id=%d", expensesPath, tripID)
}

func formFromRequest(r *http.Request) ExpenseForm {
	return ExpenseForm{
		PurchaseDate:  r.PostFormValue("purchase_date"),
		Category:      r.PostFormValue("category"),
		PaymentMethod: r.PostFormValue("payment_method"),
		Item:          r.PostFormValue("item"),
		Amount:        r.PostFormValue("amount"),
		Currency:      r.PostFormValue("currency"),
	}
}

func filterFromRequest(r *http.Request) FilterForm {
	q := r.URL.Query()
	return FilterForm{
		Date:          q.Get("date"),
		Category:      q.Get("category"),
		PaymentMethod: q.Get("payment_method"),
	}
}

// page is everything the expenses view needs besides the trip itself.
type page struct {
	status  int
	form    ExpenseForm
	filter  FilterForm
	message string
}

// Index shows the trip picker and, once a trip is chosen, its expenses
// grouped by category with the filter and the add form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	p := page{status: http.StatusOK, form: ExpenseForm{Currency: h.BaseCurrency}, filter: filterFromRequest(r)}

	raw := r.URL.Query().Get("trip_id")
	if raw == "" {
		h.renderIndex(w, r, nil, p)
		return
	}

	tripID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || tripID <= 0 {
		h.Redirect(w, r, expensesPath, transport.Failure("Trip not found."))
		return
	}

	t, err := h.Trips.GetTrip(r.Context(), tripID)
	if err != nil {
		h.failToIndex(w, r, err)
		return
	}
	h.renderIndex(w, r, t, p)
}

func (h *Handler) renderIndex(w http.ResponseWriter, r *http.Request, t *trip.Trip, p page) {
	ctx := r.Context()

	trips, err := h.Trips.ListTrips(ctx)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	lookups, err := h.Lookups.Lookups(ctx)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	bindings := map[string]any{
		"Trips":          trips,
		"Form":           p.form,
		"Filter":         p.filter,
		"Categories":     lookups.Categories,
		"PaymentMethods": lookups.PaymentMethods,
		"Currencies":     lookups.Currencies,
		"BaseCurrency":   h.BaseCurrency,
	}

	if t != nil {
		bindings["Trip"] = t

		filter, verr := p.filter.Validate()
		if verr != nil {
			p.status = verr.StatusCode
			p.message = verr.UserMessage()
		}
		grouping, err := h.Service.ListByTrip(ctx, t.ID, filter)
		if err != nil {
			h.RenderError(w, r, err)
			return
		}
		bindings["Groups"] = grouping.Groups()
	}

	if p.message != "" {
		bindings["Error"] = p.message
	}
	h.Render(w, r, p.status, "expenses", bindings)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	tripID, err := transport.URLParamID(r, "id")
	if err != nil {
		h.Redirect(w, r, expensesPath, transport.Failure("Trip not found."))
		return
	}

	form := formFromRequest(r)
	if _, err := h.Service.CreateExpense(r.Context(), tripID, form); err != nil {
		if transport.IsRecoverable(err) {
			t, getErr := h.Trips.GetTrip(r.Context(), tripID)
			if getErr != nil {
				h.failToIndex(w, r, getErr)
				return
			}
			h.renderIndex(w, r, t, page{
				status:  transport.StatusOf(err),
				form:    form,
				message: transport.MessageOf(err),
			})
			return
		}
		h.Logger.Error("Create: service error", "error", err, "trip_id", tripID)
		h.failToIndex(w, r, err)
		return
	}

	h.Redirect(w, r, tripExpensesPath(tripID), transport.Success("Expense added."))
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.Redirect(w, r, expensesPath, transport.Failure("Expense not found."))
		return
	}

	e, err := h.Service.GetExpense(r.Context(), id)
	if err != nil {
		h.failToIndex(w, r, err)
		return
	}

	h.renderEdit(w, r, http.StatusOK, e, FormFromExpense(e), "")
}

func (h *Handler) renderEdit(w http.ResponseWriter, r *http.Request, status int, e *Expense, form ExpenseForm, message string) {
	lookups, err := h.Lookups.Lookups(r.Context())
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	bindings := map[string]any{
		"Expense":        e,
		"Form":           form,
		"Categories":     lookups.Categories,
		"PaymentMethods": lookups.PaymentMethods,
		"Currencies":     lookups.Currencies,
	}
	if message != "" {
		bindings["Error"] = message
	}
	h.Render(w, r, status, "expense_edit", bindings)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.Redirect(w, r, expensesPath, transport.Failure("Expense not found."))
		return
	}

	form := formFromRequest(r)
	e, err := h.Service.UpdateExpense(r.Context(), id, form)
	if err != nil {
		if transport.IsRecoverable(err) {
			current, getErr := h.Service.GetExpense(r.Context(), id)
			if getErr != nil {
				h.failToIndex(w, r, getErr)
				return
			}
			h.renderEdit(w, r, transport.StatusOf(err), current, form, transport.MessageOf(err))
			return
		}
		h.failToIndex(w, r, err)
		return
	}

	h.Redirect(w, r, tripExpensesPath(e.TripID), transport.Success("Expense updated."))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.Redirect(w, r, expensesPath, transport.Failure("Expense not found."))
		return
	}

	e, err := h.Service.DeleteExpense(r.Context(), id)
	if err != nil {
		h.failToIndex(w, r, err)
		return
	}

	h.Redirect(w, r, tripExpensesPath(e.TripID), transport.Success("Expense deleted."))
}

func (h *Handler) failToIndex(w http.ResponseWriter, r *http.Request, err error) {
	if transport.IsNotFound(err) {
		h.Redirect(w, r, expensesPath, transport.Failure(transport.MessageOf(err)))
		return
	}
	h.RenderError(w, r, err)
}
