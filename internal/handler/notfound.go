package handler

import (
	"log/slog"
	"net/http"

	"github.com/chatterhq/chatter/internal/httperr"
	"github.com/chatterhq/chatter/internal/validation"
)

// NotFound is the fallback for unmatched routes.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Info("unmatched route",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		writeJSON(w, logger, http.StatusNotFound, httperr.Body{
			Errors: []validation.FieldError{{Message: "Requested resource not found"}},
			Path:   "Not found",
		})
	}
}
