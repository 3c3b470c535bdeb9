package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eventoshub/eventos-backend/internal/services"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// serviceError maps the service failure taxonomy onto HTTP statuses. Anything
// outside the taxonomy is logged and returned as a generic 500.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrTokenRevoked):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrLastAdmin),
		errors.Is(err, services.ErrAlreadyEnrolled):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrPasswordPolicy),
		errors.Is(err, services.ErrUnknownRoles),
		errors.Is(err, services.ErrEventMismatch),
		errors.Is(err, services.ErrOutOfWindow),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrInvalidTimestamp),
		errors.Is(err, services.ErrInvalidSchedule):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
