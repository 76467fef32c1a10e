package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/notifyhub/decision-notifier/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// statusFor picks the HTTP status for a batch that had failed records.
// All mapping lives here so individual handlers stay concise.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrPublishFailure),
		errors.Is(err, domain.ErrSendFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrMalformedPayload),
		errors.Is(err, domain.ErrEnvelope):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
