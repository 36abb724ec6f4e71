package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sagarc03/todos"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Code:  code,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes the error response matching err.
// Validation messages are returned to the caller; other details are only logged.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, todos.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	case errors.Is(err, todos.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Item not found")
	case errors.Is(err, todos.ErrInvalidInput):
		logRequestError(r, http.StatusBadRequest, err)
		WriteError(w, http.StatusBadRequest, "invalid_input", inputMessage(err))
	default:
		logRequestError(r, http.StatusInternalServerError, err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// inputMessage returns the detail following the ErrInvalidInput sentinel in
// err's message, dropping the operation prefixes wrapped around it.
func inputMessage(err error) string {
	msg := err.Error()
	marker := todos.ErrInvalidInput.Error()

	i := strings.Index(msg, marker)
	if i < 0 {
		return marker
	}
	detail := strings.TrimPrefix(msg[i+len(marker):], ": ")
	if detail == "" {
		return marker
	}
	return detail
}

func logRequestError(r *http.Request, status int, err error) {
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"error", err,
		"status", status,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
