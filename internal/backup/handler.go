package backup

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/frahmantamala/travel-expense/internal/transport"
)

type ServiceAPI interface {
	Snapshot(ctx context.Context) (string, error)
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

// Download streams a fresh snapshot as an attachment and removes the
// temporary file afterwards.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	path, err := h.Service.Snapshot(r.Context())
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			h.Logger.Warn("failed to remove snapshot", "path", path, "error", err)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	name := FileName(info.ModTime())
	w.Header().Set("Content-Type", "application/x-sqlite3")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}
