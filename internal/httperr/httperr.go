// Package httperr renders every request failure in one uniform shape:
//
//	{ "errors": [{"message", "expected"?, "received"?, "path"?}], "path": <operation> }
//
// Handlers never resolve errors locally; they tag the error with an
// operation name and forward it here.
package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chatterhq/chatter/internal/security/auth"
	"github.com/chatterhq/chatter/internal/service"
	"github.com/chatterhq/chatter/internal/validation"
)

// Body is the uniform error response.
type Body struct {
	Errors []validation.FieldError `json:"errors"`
	Path   string                  `json:"path,omitempty"`
}

// Write classifies err, logs it, and renders the uniform error body. The
// op tag names the operation the handler was performing.
func Write(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	status, fields := classify(err)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("path", op),
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("request rejected",
			slog.String("path", op),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(Body{Errors: fields, Path: op}); encErr != nil {
		logger.Error("failed to encode error response", slog.String("error", encErr.Error()))
	}
}

// InvalidID renders the fixed malformed-identifier rejection. The field
// path carries the operation that was attempted; the top-level path is
// always "Validation" because the request never reached the operation.
func InvalidID(w http.ResponseWriter, logger *slog.Logger, op string) {
	Write(w, logger, "Validation", validation.Violations{{
		Message: "Invalid Id",
		Path:    []string{"params", "id", op},
	}})
}

func classify(err error) (int, []validation.FieldError) {
	var violations validation.Violations
	if errors.As(err, &violations) {
		return http.StatusBadRequest, violations
	}

	switch {
	// Authentication: missing/malformed/expired/bad-signature token.
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrInvalidSignature),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, message(err)

	// Authorization: not the owner.
	case errors.Is(err, service.ErrNotPostOwner),
		errors.Is(err, service.ErrCommentEditForbidden),
		errors.Is(err, service.ErrCommentDeleteForbidden):
		return http.StatusUnauthorized, message(err)

	// Bad input, missing entities, uniqueness conflicts.
	case errors.Is(err, service.ErrBadCredentials),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrGroupNameTaken),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrPostBodyNotFound):
		return http.StatusBadRequest, message(err)
	}

	return http.StatusInternalServerError, []validation.FieldError{{Message: "Some error happened"}}
}

func message(err error) []validation.FieldError {
	return []validation.FieldError{{Message: err.Error()}}
}
