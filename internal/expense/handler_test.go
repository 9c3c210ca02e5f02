package expense_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/expense"
	"github.com/frahmantamala/travel-expense/internal/reference"
	"github.com/frahmantamala/travel-expense/internal/transport"
	"github.com/frahmantamala/travel-expense/internal/trip"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingRenderer struct {
	view     string
	bindings map[string]any
}

func (r *recordingRenderer) Render(w io.Writer, view string, bindings map[string]any) error {
	r.view = view
	r.bindings = bindings
	return nil
}

type stubTrips struct{}

var kyoto = &trip.Trip{
	ID:        1,
	Name:      "Kyoto",
	StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	EndDate:   time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
}

func (stubTrips) ListTrips(ctx context.Context) ([]*trip.Trip, error) {
	return []*trip.Trip{kyoto}, nil
}

func (stubTrips) GetTrip(ctx context.Context, id int64) (*trip.Trip, error) {
	if id != kyoto.ID {
		return nil, internal.ErrTripNotFound
	}
	return kyoto, nil
}

type stubLookups struct{}

func (stubLookups) Lookups(ctx context.Context) (*reference.Lookups, error) {
	return &reference.Lookups{
		Categories:     []*reference.Category{{ID: 1, Name: "meals", OrderIndex: 1}},
		PaymentMethods: []*reference.PaymentMethod{{ID: 1, Name: "card"}, {ID: 2, Name: "cash"}},
		Currencies:     []*reference.Currency{{ID: 1, Code: "USD", Symbol: "$", IsBase: true}},
	}, nil
}

var _ = Describe("Expense Handlers", func() {
	var (
		mockRepo *MockRepository
		renderer *recordingRenderer
		router   *chi.Mux
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = NewMockRepository(kyoto.ID)
		renderer = &recordingRenderer{}
		service := expense.NewService(mockRepo, logger)
		base := transport.NewBaseHandler(logger, renderer)

		html := expense.NewHandler(base, service, stubTrips{}, stubLookups{}, "USD")
		api := expense.NewAPIHandler(base, service)

		router = chi.NewRouter()
		router.Get("/expenses", html.Index)
		router.Post("/trips/{id}/expenses", html.Create)
		router.Get("/expenses/{id}/edit", html.Edit)
		router.Post("/expenses/{id}", html.Update)
		router.Post("/expenses/{id}/delete", html.Delete)
		router.Get("/api/v1/trips/{id}/expenses", api.ListTripExpenses)
		router.Post("/api/v1/trips/{id}/expenses", api.CreateExpense)
		router.Get("/api/v1/expenses/{id}", api.GetExpense)
		router.Put("/api/v1/expenses/{id}", api.UpdateExpense)
		router.Delete("/api/v1/expenses/{id}", api.DeleteExpense)
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	postForm := func(path string, values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	ramen := url.Values{
		"purchase_date":  {"2025-04-02"},
		"category":       {"meals"},
		"payment_method": {"cash"},
		"item":           {"Ramen"},
		"amount":         {"12.50"},
		"currency":       {"JPY"},
	}

	Describe("HTML", func() {
		It("should render the trip picker without a trip", func() {
			w := get("/expenses")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(renderer.view).To(Equal("expenses"))
			Expect(renderer.bindings).NotTo(HaveKey("Trip"))
			Expect(renderer.bindings).To(HaveKey("Filter"))
			Expect(renderer.bindings["Form"]).To(Equal(expense.ExpenseForm{Currency: "USD"}))
		})

		It("should render a trip's grouped expenses", func() {
			Expect(postForm("/trips/1/expenses", ramen).Code).To(Equal(http.StatusSeeOther))

			w := get("/expenses?trip_id=1&category=meals")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(renderer.bindings["Trip"]).To(Equal(kyoto))
			groups := renderer.bindings["Groups"].([]*expense.Group)
			Expect(groups).To(HaveLen(1))
			Expect(groups[0].Category).To(Equal("meals"))
			Expect(renderer.bindings["Filter"]).To(Equal(expense.FilterForm{Category: "meals"}))
		})

		It("should report a malformed filter date and show everything", func() {
			postForm("/trips/1/expenses", ramen)

			w := get("/expenses?trip_id=1&date=soon")
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(renderer.bindings["Error"]).To(Equal("Invalid date format."))
			Expect(renderer.bindings["Groups"]).To(HaveLen(1))
		})

		It("should send an unknown trip back to the picker", func() {
			w := get("/expenses?trip_id=9")
			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/expenses"))
		})

		It("should redirect to the trip after adding an expense", func() {
			w := postForm("/trips/1/expenses", ramen)

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/expenses?trip_id=1"))
			Expect(w.Header().Get("Set-Cookie")).To(ContainSubstring("flash="))
			Expect(mockRepo.expenses).To(HaveLen(1))
		})

		It("should redisplay the form for an unknown category", func() {
			values := url.Values{}
			for k, v := range ramen {
				values[k] = v
			}
			values.Set("category", "snacks")

			w := postForm("/trips/1/expenses", values)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(renderer.view).To(Equal("expenses"))
			Expect(renderer.bindings["Error"]).To(ContainSubstring("snacks"))
			Expect(renderer.bindings["Form"].(expense.ExpenseForm).Category).To(Equal("snacks"))
			Expect(mockRepo.expenses).To(BeEmpty())
		})

		It("should redisplay the form for a bad amount", func() {
			values := url.Values{"category": {"meals"}, "payment_method": {"card"}, "item": {"tea"}, "amount": {"0"}, "currency": {"USD"}}

			w := postForm("/trips/1/expenses", values)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(renderer.bindings["Error"]).To(Equal("Amount must be greater than zero."))
		})

		It("should render the edit page pre-filled", func() {
			postForm("/trips/1/expenses", ramen)

			w := get("/expenses/1/edit")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(renderer.view).To(Equal("expense_edit"))
			Expect(renderer.bindings["Form"]).To(Equal(expense.ExpenseForm{
				PurchaseDate:  "2025-04-02",
				Category:      "meals",
				PaymentMethod: "cash",
				Item:          "ramen",
				Amount:        "12.50",
				Currency:      "JPY",
			}))
		})

		It("should update and return to the trip", func() {
			postForm("/trips/1/expenses", ramen)
			values := url.Values{"category": {"meals"}, "payment_method": {"card"}, "item": {"udon"}, "amount": {"9"}, "currency": {"USD"}}

			w := postForm("/expenses/1", values)
			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/expenses?trip_id=1"))
			Expect(mockRepo.expenses[1].Item).To(Equal("udon"))
		})

		It("should delete and return to the trip", func() {
			postForm("/trips/1/expenses", ramen)

			w := postForm("/expenses/1/delete", nil)
			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/expenses?trip_id=1"))
			Expect(mockRepo.expenses).To(BeEmpty())
		})

		It("should send an unknown expense back to the picker", func() {
			w := postForm("/expenses/5/delete", nil)
			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/expenses"))
		})
	})

	Describe("JSON API", func() {
		postJSON := func(path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		body := `{"category":"meals","payment_method":"cash","item":"Ramen","amount":"12.50","currency":"JPY"}`

		It("should create an expense and return 201", func() {
			w := postJSON("/api/v1/trips/1/expenses", body)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp expense.ExpenseResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Item).To(Equal("ramen"))
			Expect(resp.AmountInBase).To(Equal("0.08"))
		})

		It("should return the grouped list", func() {
			postJSON("/api/v1/trips/1/expenses", body)

			w := get("/api/v1/trips/1/expenses")
			Expect(w.Code).To(Equal(http.StatusOK))
			var resp expense.GroupedResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Groups).To(HaveLen(1))
			Expect(resp.Groups[0].Category).To(Equal("meals"))
		})

		It("should return an empty list for a trip without expenses", func() {
			w := get("/api/v1/trips/1/expenses")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"groups":[]`))
		})

		It("should answer an unknown reference with 422", func() {
			w := postJSON("/api/v1/trips/1/expenses", strings.Replace(body, "cash", "crypto", 1))
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeInvalidReference)))
		})

		It("should answer an unknown trip with 404", func() {
			w := postJSON("/api/v1/trips/3/expenses", body)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should update with PUT", func() {
			postJSON("/api/v1/trips/1/expenses", body)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/expenses/1", strings.NewReader(strings.Replace(body, "JPY", "USD", 1)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"amount_in_base":"12.50"`))
		})

		It("should return 204 after deleting and 404 afterwards", func() {
			postJSON("/api/v1/trips/1/expenses", body)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/expenses/1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNoContent))

			Expect(get("/api/v1/expenses/1").Code).To(Equal(http.StatusNotFound))
		})
	})
})
