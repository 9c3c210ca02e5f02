package rest

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/travel-expense/api"
	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/backup"
	"github.com/frahmantamala/travel-expense/internal/expense"
	"github.com/frahmantamala/travel-expense/internal/reference"
	"github.com/frahmantamala/travel-expense/internal/transport"
	"github.com/frahmantamala/travel-expense/internal/transport/middleware"
	"github.com/frahmantamala/travel-expense/internal/transport/swagger"
	"github.com/frahmantamala/travel-expense/internal/trip"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Base        *transport.BaseHandler
	Trips       *trip.Handler
	TripsAPI    *trip.APIHandler
	Expenses    *expense.Handler
	ExpensesAPI *expense.APIHandler
	Reference   *reference.Handler
	Backup      *backup.Handler
	Health      *HealthHandler
}

// NewRouter mounts the HTML pages at the root and the JSON API under
// /api/v1. validateAPI may be nil to skip OpenAPI request validation.
func NewRouter(h Handlers, static fs.FS, validateAPI func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Recovery(logger, h.Base))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.Base.RenderError(w, r, internal.ErrPageNotFound)
	})

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPI)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Get("/", h.Trips.Index)
	router.Post("/trips", h.Trips.Create)
	router.Get("/trips/{id}/edit", h.Trips.Edit)
	router.Post("/trips/{id}", h.Trips.Update)
	router.Post("/trips/{id}/delete", h.Trips.Delete)

	router.Get("/expenses", h.Expenses.Index)
	router.Post("/trips/{id}/expenses", h.Expenses.Create)
	router.Get("/expenses/{id}/edit", h.Expenses.Edit)
	router.Post("/expenses/{id}", h.Expenses.Update)
	router.Post("/expenses/{id}/delete", h.Expenses.Delete)

	router.Get("/backup", h.Backup.Download)

	router.Route("/api/v1", func(r chi.Router) {
		if validateAPI != nil {
			r.Use(validateAPI)
		}

		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Get("/reference", h.Reference.GetReference)
		r.Get("/categories", h.Reference.GetCategories)

		r.Route("/trips", func(tr chi.Router) {
			tr.Get("/", h.TripsAPI.ListTrips)
			tr.Post("/", h.TripsAPI.CreateTrip)
			tr.Get("/{id}", h.TripsAPI.GetTrip)
			tr.Put("/{id}", h.TripsAPI.UpdateTrip)
			tr.Delete("/{id}", h.TripsAPI.DeleteTrip)

			tr.Get("/{id}/expenses", h.ExpensesAPI.ListTripExpenses)
			tr.Post("/{id}/expenses", h.ExpensesAPI.CreateExpense)
		})

		r.Route("/expenses", func(er chi.Router) {
			er.Get("/{id}", h.ExpensesAPI.GetExpense)
			er.Put("/{id}", h.ExpensesAPI.UpdateExpense)
			er.Delete("/{id}", h.ExpensesAPI.DeleteExpense)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			h.Base.WriteError(w, internal.ErrPageNotFound)
		})
	})

	return router
}
