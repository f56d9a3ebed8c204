package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/liamwears/moviehub/internal/apperr"
)

// envelope is the common JSON response shape
type envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Message: message, Data: data})
}

// respondError maps err onto the coded envelope. Unexpected errors are
// logged with context and surface as a generic 500.
func respondError(w http.ResponseWriter, logger *log.Logger, err error) {
	appErr := apperr.From(err)
	if appErr.Status >= http.StatusInternalServerError && logger != nil {
		logger.Printf("internal error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &errorBody{Code: appErr.Code, Message: appErr.Message},
	})
}

func respondValidation(w http.ResponseWriter, message string) {
	respondError(w, nil, apperr.Validation(message))
}

// errUnauthorized covers the case of a missing user in context on a route
// that should already have passed RequireAuth
func errUnauthorized() error {
	return apperr.Unauthorized(apperr.CodeUnauthorized, "authentication required")
}

// pathID parses a path value as a positive integer id
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
