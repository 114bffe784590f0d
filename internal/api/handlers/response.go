package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/application/services"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/observability"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"message": message,
	})
}

// respondWithServiceError maps service errors onto status codes. Internal
// details are logged, never returned.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if infErr, ok := services.AsInferenceError(err); ok {
		observability.LoggerFromContext(r.Context()).Warn().
			Err(infErr).
			Str("kind", string(infErr.Kind)).
			Msg("category inference failed")
		respondWithJSON(w, http.StatusBadGateway, map[string]string{
			"message": "failed to analyze query",
			"error":   string(infErr.Kind),
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type != apperrors.ErrorTypeInternal {
		respondWithError(w, appErr.HTTPStatus(), appErr.Message)
		return
	}

	observability.LoggerFromContext(r.Context()).Error().
		Err(err).
		Str("path", r.URL.Path).
		Msg("request failed")
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
