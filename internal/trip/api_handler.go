package trip

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/travel-expense/internal/transport"
)

// APIHandler serves the JSON trip endpoints under /api/v1.
type APIHandler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	BaseCurrency string
}

func NewAPIHandler(baseHandler *transport.BaseHandler, service ServiceAPI, baseCurrency string) *APIHandler {
	return &APIHandler{
		BaseHandler:  baseHandler,
		Service:      service,
		BaseCurrency: baseCurrency,
	}
}

func (h *APIHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Service.ListTrips(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}

	resp := TripsResponse{Trips: make([]TripResponse, len(trips)), BaseCurrency: h.BaseCurrency}
	for i, t := range trips {
		resp.Trips[i] = t.ToResponse()
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var form TripForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.Logger.Error("CreateTrip: invalid request body", "error", err)
		h.WriteBadRequest(w, "invalid request body")
		return
	}

	t, err := h.Service.CreateTrip(r.Context(), form)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t.ToResponse())
}

func (h *APIHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.WriteBadRequest(w, "invalid trip ID")
		return
	}

	t, err := h.Service.GetTrip(r.Context(), id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t.ToResponse())
}

func (h *APIHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.WriteBadRequest(w, "invalid trip ID")
		return
	}

	var form TripForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.Logger.Error("UpdateTrip: invalid request body", "error", err, "trip_id", id)
		h.WriteBadRequest(w, "invalid request body")
		return
	}

	t, err := h.Service.UpdateTrip(r.Context(), id, form)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t.ToResponse())
}

func (h *APIHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.WriteBadRequest(w, "invalid trip ID")
		return
	}

	if err := h.Service.DeleteTrip(r.Context(), id); err != nil {
		h.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
