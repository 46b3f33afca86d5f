package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"restinvoice/internal/core"
	"restinvoice/internal/logger"
	"restinvoice/internal/query"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    any         `json:"data,omitempty"`
	Meta    *query.Meta `json:"meta,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("failed to encode response: %v", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writePage[T any](w http.ResponseWriter, page *query.Page[T]) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: page.Data, Meta: &page.Meta})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// handleServiceError maps a service error onto the HTTP error envelope.
// Unexpected errors are logged and reported without detail.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation),
		errors.Is(err, query.ErrInvalidIdentifier),
		errors.Is(err, query.ErrInvalidOperator),
		errors.Is(err, query.ErrInvalidPagination):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, core.ErrConflict):
		writeError(w, http.StatusConflict, "Conflict")
	default:
		logger.Error.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
