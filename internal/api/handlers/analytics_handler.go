package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
)

// ZeroResultLister lists searches that found nothing
type ZeroResultLister interface {
	GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}

// AnalyticsHandler exposes search analytics
type AnalyticsHandler struct {
	service ZeroResultLister
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service ZeroResultLister) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// ZeroResultSearches handles GET /api/analytics/zero-result-searches
func (h *AnalyticsHandler) ZeroResultSearches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}

	events, err := h.service.GetZeroResultSearches(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searches": events,
		"count":    len(events),
	})
}
