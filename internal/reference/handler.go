package reference

import (
	"context"
	"net/http"

	"github.com/frahmantamala/travel-expense/internal/transport"
)

type ServiceAPI interface {
	Lookups(ctx context.Context) (*Lookups, error)
	Categories(ctx context.Context) ([]*Category, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetReference(w http.ResponseWriter, r *http.Request) {
	lookups, err := h.Service.Lookups(r.Context())
	if err != nil {
		h.Logger.Error("GetReference: failed to load reference data", "error", err)
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, lookups.ToResponse())
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.Categories(r.Context())
	if err != nil {
		h.Logger.Error("GetCategories: failed to get categories", "error", err)
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}
