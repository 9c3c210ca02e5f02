package trip

import (
	"context"
	"net/http"

	"github.com/frahmantamala/travel-expense/internal/reference"
	"github.com/frahmantamala/travel-expense/internal/transport"
)

type ServiceAPI interface {
	CreateTrip(ctx context.Context, form TripForm) (*Trip, error)
	ListTrips(ctx context.Context) ([]*Trip, error)
	GetTrip(ctx context.Context, id int64) (*Trip, error)
	UpdateTrip(ctx context.Context, id int64, form TripForm) (*Trip, error)
	DeleteTrip(ctx context.Context, id int64) error
}

type CountryLister interface {
	Countries(ctx context.Context) ([]*reference.Country, error)
}

// Handler serves the HTML trip pages.
type Handler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	Countries    CountryLister
	BaseCurrency string
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, countries CountryLister, baseCurrency string) *Handler {
	return &Handler{
		BaseHandler:  baseHandler,
		Service:      service,
		Countries:    countries,
		BaseCurrency: baseCurrency,
	}
}

func formFromRequest(r *http.Request) TripForm {
	return TripForm{
		Name:      r.PostFormValue("name"),
		StartDate: r.PostFormValue("start_date"),
		EndDate:   r.PostFormValue("end_date"),
		Country:   r.PostFormValue("country"),
	}
}

// Index lists every trip with its total and the form to add one.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, http.StatusOK, TripForm{}, "")
}

func (h *Handler) renderIndex(w http.ResponseWriter, r *http.Request, status int, form TripForm, message string) {
	trips, err := h.Service.ListTrips(r.Context())
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	countries, err := h.Countries.Countries(r.Context())
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	bindings := map[string]any{
		"Trips":        trips,
		"Countries":    countries,
		"Form":         form,
		"BaseCurrency": h.BaseCurrency,
	}
	if message != "" {
		bindings["Error"] = message
	}
	h.Render(w, r, status, "trips", bindings)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form := formFromRequest(r)

	t, err := h.Service.CreateTrip(r.Context(), form)
	if err != nil {
		if transport.IsRecoverable(err) {
			h.renderIndex(w, r, transport.StatusOf(err), form, transport.MessageOf(err))
			return
		}
		h.Logger.Error("Create: service error", "error", err)
		h.RenderError(w, r, err)
		return
	}

	h.Redirect(w, r, "/", transport.Success("Trip \""+t.Name+"\" added."))
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.Redirect(w, r, "/", transport.Failure("Trip not found."))
		return
	}

	t, err := h.Service.GetTrip(r.Context(), id)
	if err != nil {
		h.failToIndex(w, r, err)
		return
	}

	h.renderEdit(w, r, http.StatusOK, t, FormFromTrip(t), "")
}

func (h *Handler) renderEdit(w http.ResponseWriter, r *http.Request, status int, t *Trip, form TripForm, message string) {
	countries, err := h.Countries.Countries(r.Context())
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	bindings := map[string]any{
		"Trip":      t,
		"Form":      form,
		"Countries": countries,
	}
	if message != "" {
		bindings["Error"] = message
	}
	h.Render(w, r, status, "trip_edit", bindings)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.Redirect(w, r, "/", transport.Failure("Trip not found."))
		return
	}

	form := formFromRequest(r)
	t, err := h.Service.UpdateTrip(r.Context(), id, form)
	if err != nil {
		if transport.IsRecoverable(err) {
			current, getErr := h.Service.GetTrip(r.Context(), id)
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

	h.Redirect(w, r, "/", transport.Success("Trip \""+t.Name+"\" updated."))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.Redirect(w, r, "/", transport.Failure("Trip not found."))
		return
	}

	if err := h.Service.DeleteTrip(r.Context(), id); err != nil {
		h.failToIndex(w, r, err)
		return
	}

	h.Redirect(w, r, "/", transport.Success("Trip deleted."))
}

// failToIndex sends missing trips back to the listing with a message and
// shows the error page for anything else.
func (h *Handler) failToIndex(w http.ResponseWriter, r *http.Request, err error) {
	if transport.IsNotFound(err) {
		h.Redirect(w, r, "/", transport.Failure(transport.MessageOf(err)))
		return
	}
	h.RenderError(w, r, err)
}
