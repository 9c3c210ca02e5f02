package expense

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/travel-expense/internal/transport"
)

// APIHandler serves the JSON expense endpoints under /api/v1.
type APIHandler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewAPIHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *APIHandler {
	return &APIHandler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *APIHandler) ListTripExpenses(w http.ResponseWriter, r *http.Request) {
	tripID, err := transport.URLParamID(r, "id")
	if err != nil {
		h.WriteBadRequest(w, "invalid trip ID")
		return
	}

	filter, verr := filterFromRequest(r).Validate()
	if verr != nil {
		h.WriteError(w, verr)
		return
	}

	grouping, err := h.Service.ListByTrip(r.Context(), tripID, filter)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, grouping.ToResponse(tripID))
}

func (h *APIHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	tripID, err := transport.URLParamID(r, "id")
	if err != nil {
		h.WriteBadRequest(w, "invalid trip ID")
		return
	}

	var form ExpenseForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err, "trip_id", tripID)
		h.WriteBadRequest(w, "invalid request body")
		return
	}

	e, err := h.Service.CreateExpense(r.Context(), tripID, form)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e.ToResponse())
}

func (h *APIHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.WriteBadRequest(w, "invalid expense ID")
		return
	}

	e, err := h.Service.GetExpense(r.Context(), id)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e.ToResponse())
}

func (h *APIHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.WriteBadRequest(w, "invalid expense ID")
		return
	}

	var form ExpenseForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.Logger.Error("UpdateExpense: invalid request body", "error", err, "expense_id", id)
		h.WriteBadRequest(w, "invalid request body")
		return
	}

	e, err := h.Service.UpdateExpense(r.Context(), id, form)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e.ToResponse())
}

func (h *APIHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := transport.URLParamID(r, "id")
	if err != nil {
		h.WriteBadRequest(w, "invalid expense ID")
		return
	}

	if _, err := h.Service.DeleteExpense(r.Context(), id); err != nil {
		h.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
