package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/mtlobby/internal/api/apierr"
	"github.com/mcoot/mtlobby/internal/middleware"
)

// Logging logs every API request under the "api" component
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "api")))
}

// Recovery answers a panicking handler with an INTERNAL_ERROR body.
// Upgraded websocket connections have no usable ResponseWriter, so nothing is written for them.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "api")), func(w http.ResponseWriter, r *http.Request, _ any) {
		if rw, ok := w.(*middleware.ResponseWriter); ok && rw.Hijacked() {
			return
		}
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
