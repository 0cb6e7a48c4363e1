package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/chatterhq/chatter/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// writeJSON renders a success response.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// decodeBody decodes and schema-validates a request payload. Any failure
// comes back as validation.Violations ready for the error writer.
func decodeBody[T any](v *validation.Validator, r *http.Request) (T, error) {
	var payload T
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return payload, validation.Violations{{
			Message: "Invalid request body",
			Path:    []string{"body"},
		}}
	}
	if err := v.Struct(payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// pathID parses the {id} path parameter. ok is false when the value is
// not a well-formed ObjectID; the caller renders the fixed rejection.
func pathID(r *http.Request, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(r.PathValue(param))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
