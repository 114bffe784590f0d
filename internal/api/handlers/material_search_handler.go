package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/middleware"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/application/services"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/pkg/geo"
)

const maxAISearchBodyBytes = 16 << 10

// MaterialSearcher is the search surface the handler needs
type MaterialSearcher interface {
	NearbySearch(ctx context.Context, req services.NearbySearchRequest) (*services.NearbySearchResult, error)
	AISearch(ctx context.Context, req services.AISearchRequest) (*services.AISearchResult, error)
}

// MaterialSearchHandler handles material search HTTP requests
type MaterialSearchHandler struct {
	service MaterialSearcher
}

// NewMaterialSearchHandler creates a new material search handler
func NewMaterialSearchHandler(service MaterialSearcher) *MaterialSearchHandler {
	return &MaterialSearchHandler{service: service}
}

// MaterialResult is a material as returned by the search endpoints.
type MaterialResult struct {
	entities.Material
	Distance       *float64 `json:"distance,omitempty"`
	RelevanceScore *float64 `json:"relevanceScore,omitempty"`
}

// NearbySearchResponse is the body of GET /api/materials/nearby
type NearbySearchResponse struct {
	Materials      []MaterialResult        `json:"materials"`
	Count          int                     `json:"count"`
	SearchLocation services.SearchLocation `json:"searchLocation"`
}

// AISearchRequest is the body of POST /api/materials/ai-search
type AISearchRequest struct {
	Query     string   `json:"query"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    *float64 `json:"radius"`
}

// AISearchResponse is the body of a successful AI search
type AISearchResponse struct {
	Query          string                    `json:"query"`
	Categories     []entities.CategoryWeight `json:"categories"`
	Materials      []MaterialResult          `json:"materials"`
	Count          int                       `json:"count"`
	AIAnalysis     json.RawMessage           `json:"aiAnalysis,omitempty"`
	Model          string                    `json:"model,omitempty"`
	SearchLocation *services.SearchLocation  `json:"searchLocation,omitempty"`
}

// NearbySearch handles GET /api/materials/nearby
func (h *MaterialSearchHandler) NearbySearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := services.ParseCoordinate("lat", q.Get("lat"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	lng, err := services.ParseCoordinate("lng", q.Get("lng"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	radius, err := services.ParseRadius(q.Get("radius"), services.DefaultNearbyRadiusKm)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	categories, err := services.ParseCategoryFilter(q.Get("category"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	result, err := h.service.NearbySearch(r.Context(), services.NearbySearchRequest{
		Latitude:   lat,
		Longitude:  lng,
		RadiusKm:   radius,
		Categories: categories,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	materials := make([]MaterialResult, 0, len(result.Materials))
	for _, m := range result.Materials {
		materials = append(materials, toMaterialResult(m, false))
	}

	respondWithJSON(w, http.StatusOK, NearbySearchResponse{
		Materials:      materials,
		Count:          len(materials),
		SearchLocation: result.Location,
	})
}

// AISearch handles POST /api/materials/ai-search
func (h *MaterialSearchHandler) AISearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAISearchBodyBytes)

	var body AISearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.AISearch(r.Context(), services.AISearchRequest{
		Query:     body.Query,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		RadiusKm:  body.Radius,
		UserID:    middleware.UserIDFromContext(r.Context()),
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	materials := make([]MaterialResult, 0, len(result.Materials))
	for _, m := range result.Materials {
		materials = append(materials, toMaterialResult(m, true))
	}

	respondWithJSON(w, http.StatusOK, AISearchResponse{
		Query:          result.Query,
		Categories:     result.Inference.Categories,
		Materials:      materials,
		Count:          len(materials),
		AIAnalysis:     result.Inference.Raw,
		Model:          result.Inference.Model,
		SearchLocation: result.Location,
	})
}

func toMaterialResult(m entities.ScoredMaterial, withScore bool) MaterialResult {
	out := MaterialResult{Material: m.Material}
	if m.DistanceKm != nil {
		d := geo.RoundKm(*m.DistanceKm)
		out.Distance = &d
	}
	if withScore {
		score := m.RelevanceScore
		out.RelevanceScore = &score
	}
	return out
}
