package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON or writeError, so every error
// body has the same shape:
//
//	{"error": "Conflict", "message": "Booking date already reserved"}
//
// Validation errors also carry "field".

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
)

// maxBodyBytes caps request bodies. Every request here is a handful of
// short fields.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // error kind, e.g. "Not Found"
	Message string `json:"message"`         // safe to show to users
	Field   string `json:"field,omitempty"` // validation errors only
}

// MessageResponse is returned by endpoints that have nothing else to say.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers are already sent, nothing left to do but log
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
//	ErrValidation   → 422
//	ErrRejected     → 400
//	ErrConflict     → 400
//	ErrUnauthorized → 401
//	ErrForbidden    → 403
//	ErrNotFound     → 404
//	anything else   → 500 with a generic message
//
// Note that a conflict is 400, not 409.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, apperror.ErrRejected), errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			w.Header().Set("WWW-Authenticate", "Bearer")
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{
				Error:   appErr.Err.Error(),
				Message: appErr.Message,
				Field:   appErr.Field,
			})
			return
		}
	}

	// The raw message may contain SQL or file paths; never send it.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal Server Error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a single JSON object into dst. Unknown fields are
// ignored; trailing data and oversized bodies are validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperror.ValidationFailed("body", "request body is required")
		case errors.As(err, &maxErr):
			return apperror.ValidationFailed("body", "request body is too large")
		default:
			return apperror.ValidationFailed("body", fmt.Sprintf("invalid JSON body: %s", err.Error()))
		}
	}
	if dec.More() {
		return apperror.ValidationFailed("body", "request body must contain a single JSON object")
	}
	return nil
}
