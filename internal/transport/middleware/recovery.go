package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/transport"
)

// Recovery turns a panic into a 500: the JSON error envelope for API
// paths and the error page for everything else.
func Recovery(lg *slog.Logger, base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				lg.ErrorContext(r.Context(), "panic recovered",
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"stack", string(debug.Stack()))

				err := internal.NewStoreError(nil)
				if strings.HasPrefix(r.URL.Path, "/api/") {
					base.WriteError(w, err)
					return
				}
				base.RenderError(w, r, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
