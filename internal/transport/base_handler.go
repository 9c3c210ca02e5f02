package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/pkg/logger"
	"github.com/go-chi/chi"
)

// Renderer turns a named view plus its bindings into HTML.
type Renderer interface {
	Render(w io.Writer, view string, bindings map[string]any) error
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger   *slog.Logger
	Renderer Renderer
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger, renderer Renderer) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg, Renderer: renderer}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes err as a JSON error body. Anything that is not an
// *internal.AppError is reported as a store failure.
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	appErr := internal.AsAppError(err)
	status, body := appErr.ToHTTPResponse()

	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "code", appErr.Code, "error", err)
	} else {
		h.Logger.Warn("http error", "status", status, "code", appErr.Code, "message", appErr.UserMessage())
	}

	h.WriteJSON(w, status, body)
}

// WriteBadRequest is used for payloads that never reach validation.
func (h *BaseHandler) WriteBadRequest(w http.ResponseWriter, message string) {
	h.WriteError(w, internal.NewBadRequestError(message))
}

// Render writes the view as an HTML page with status. A pending flash
// message is consumed and bound as "Flash".
func (h *BaseHandler) Render(w http.ResponseWriter, r *http.Request, status int, view string, bindings map[string]any) {
	if bindings == nil {
		bindings = map[string]any{}
	}
	if flash, ok := PopFlash(w, r); ok {
		bindings["Flash"] = flash
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.Renderer.Render(w, view, bindings); err != nil {
		h.Logger.Error("failed to render view", "view", view, "error", err)
	}
}

// RenderError shows the error page for failures that have no form to go
// back to.
func (h *BaseHandler) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := internal.AsAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	h.Render(w, r, appErr.StatusCode, "error", map[string]any{
		"Status":  appErr.StatusCode,
		"Message": appErr.UserMessage(),
	})
}

// Redirect sends a 303 to url, carrying an optional one-shot message.
func (h *BaseHandler) Redirect(w http.ResponseWriter, r *http.Request, url string, flash *Flash) {
	if flash != nil {
		SetFlash(w, *flash)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// IsNotFound reports whether err is one of the not-found errors.
func IsNotFound(err error) bool {
	appErr, ok := internal.IsAppError(err)
	return ok && appErr.Type == internal.ErrorTypeNotFound
}

// IsRecoverable reports whether the user can fix err by editing the form.
func IsRecoverable(err error) bool {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return false
	}
	switch appErr.Type {
	case internal.ErrorTypeValidation, internal.ErrorTypeConflict, internal.ErrorTypeInvalidReference:
		return true
	}
	return false
}

// StatusOf returns the HTTP status err maps to.
func StatusOf(err error) int {
	return internal.AsAppError(err).StatusCode
}

// MessageOf returns the text to show the user for err.
func MessageOf(err error) string {
	return internal.AsAppError(err).UserMessage()
}

var errInvalidID = errors.New("invalid id")

// URLParamID parses the chi URL parameter name as a positive int64.
func URLParamID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
