package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyperengineering/ayurcare/internal/store"
	"github.com/hyperengineering/ayurcare/internal/types"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError writes the {"status":"error","message":...} body used by
// every failed API call. errs, when given, are listed as field details.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string, errs ...string) {
	writeJSON(w, status, types.ErrorResponse{
		Status:  statusError,
		Message: message,
		Errors:  errs,
	})
}

// MapStoreError converts store errors to API error responses.
func MapStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "Resource not found")
	case errors.Is(err, store.ErrDuplicateAppointment):
		WriteError(w, r, http.StatusConflict, "An appointment already exists for this email at the requested date and time")
	default:
		// Never expose internal error details to client
		WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
