package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/harsh-0015/freelance-tracker/internal/service"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var (
	errInvalidBody = &service.ValidationError{Message: "Invalid request body"}
	errForbidden   = errors.New("freelancerId does not match the authenticated freelancer")
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps service and storage errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	var notFound *service.NotFoundError

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Message})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFound.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	case errors.Is(err, storage.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Database not connected"})
	case errors.Is(err, errForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	default:
		slog.Error("Unhandled request error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		slog.Debug("Rejected request body", "path", r.URL.Path, "error", err)
		return errInvalidBody
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}
