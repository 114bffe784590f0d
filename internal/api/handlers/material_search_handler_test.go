package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/handlers"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/middleware"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/application/services"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
)

type MockMaterialSearcher struct {
	mock.Mock
}

func (m *MockMaterialSearcher) NearbySearch(ctx context.Context, req services.NearbySearchRequest) (*services.NearbySearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.NearbySearchResult), args.Error(1)
}

func (m *MockMaterialSearcher) AISearch(ctx context.Context, req services.AISearchRequest) (*services.AISearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AISearchResult), args.Error(1)
}

func km(v float64) *float64 { return &v }

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMaterialSearchHandler_NearbySearch_ReturnsContract(t *testing.T) {
	searcher := new(MockMaterialSearcher)
	handler := handlers.NewMaterialSearchHandler(searcher)

	searcher.On("NearbySearch", mock.Anything, services.NearbySearchRequest{
		Latitude:   40.7128,
		Longitude:  -74.006,
		RadiusKm:   10,
		Categories: []entities.Category{entities.CategoryGlassware},
	}).Return(&services.NearbySearchResult{
		Materials: []entities.ScoredMaterial{{
			Material: entities.Material{
				ID:       "m1",
				Title:    "Beakers",
				Category: entities.CategoryGlassware,
				Location: entities.NewGeoPoint(40.7308, -74.006),
				Status:   entities.MaterialStatusAvailable,
			},
			DistanceKm: km(2.0015),
		}},
		Location: services.SearchLocation{Latitude: 40.7128, Longitude: -74.006, RadiusKm: 10},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/materials/nearby?lat=40.7128&lng=-74.006&category=Glassware", nil)
	w := httptest.NewRecorder()
	handler.NearbySearch(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, map[string]interface{}{"latitude": 40.7128, "longitude": -74.006, "radius": float64(10)}, body["searchLocation"])

	materials := body["materials"].([]interface{})
	require.Len(t, materials, 1)
	m := materials[0].(map[string]interface{})
	assert.Equal(t, "m1", m["id"])
	assert.Equal(t, "Glassware", m["category"])
	assert.Equal(t, 2.0, m["distance"])
	assert.NotContains(t, m, "relevanceScore")
	location := m["location"].(map[string]interface{})
	assert.Equal(t, []interface{}{-74.006, 40.7308}, location["coordinates"])
	searcher.AssertExpectations(t)
}

func TestMaterialSearchHandler_NearbySearch_AllCategories(t *testing.T) {
	searcher := new(MockMaterialSearcher)
	handler := handlers.NewMaterialSearchHandler(searcher)
	searcher.On("NearbySearch", mock.Anything, mock.MatchedBy(func(req services.NearbySearchRequest) bool {
		return req.Categories == nil && req.RadiusKm == 3
	})).Return(&services.NearbySearchResult{Materials: []entities.ScoredMaterial{}}, nil)

	w := httptest.NewRecorder()
	handler.NearbySearch(w, httptest.NewRequest(http.MethodGet, "/api/materials/nearby?lat=12.9&lng=77.6&radius=3&category=All", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, []interface{}{}, body["materials"])
	assert.Equal(t, float64(0), body["count"])
}

func TestMaterialSearchHandler_NearbySearch_BadInput(t *testing.T) {
	searcher := new(MockMaterialSearcher)
	handler := handlers.NewMaterialSearchHandler(searcher)

	for _, query := range []string{
		"",
		"lat=12.9",
		"lat=abc&lng=77.6",
		"lat=12.9&lng=77.6&radius=-2",
		"lat=12.9&lng=77.6&category=Furniture",
	} {
		w := httptest.NewRecorder()
		handler.NearbySearch(w, httptest.NewRequest(http.MethodGet, "/api/materials/nearby?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		assert.NotEmpty(t, decodeBody(t, w)["message"], query)
	}
	searcher.AssertNotCalled(t, "NearbySearch", mock.Anything, mock.Anything)
}

func TestMaterialSearchHandler_NearbySearch_StoreFailure(t *testing.T) {
	searcher := new(MockMaterialSearcher)
	handler := handlers.NewMaterialSearchHandler(searcher)
	searcher.On("NearbySearch", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewInternalError("failed to search nearby materials", errors.New("pq: connection refused")))

	w := httptest.NewRecorder()
	handler.NearbySearch(w, httptest.NewRequest(http.MethodGet, "/api/materials/nearby?lat=1&lng=1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{"message": "internal server error"}, decodeBody(t, w))
}

func TestMaterialSearchHandler_AISearch_ReturnsContract(t *testing.T) {
	searcher := new(MockMaterialSearcher)
	handler := handlers.NewMaterialSearchHandler(searcher)

	raw := `{"categories":[{"name":"Electronics","weight":0.7,"reason":"motors"},{"name":"Metals","weight":0.3,"reason":"frame"}]}`
	searcher.On("AISearch", mock.Anything, services.AISearchRequest{
		Query:     "robot arm",
		Latitude:  km(40.7128),
		Longitude: km(-74.006),
		UserID:    "uid-9",
	}).Return(&services.AISearchResult{
		Query: "robot arm",
		Inference: &entities.CategoryInference{
			Query: "robot arm",
			Categories: []entities.CategoryWeight{
				{Name: entities.CategoryElectronics, Weight: 0.7, Reason: "motors"},
				{Name: entities.CategoryMetals, Weight: 0.3, Reason: "frame"},
			},
			Raw:   json.RawMessage(raw),
			Model: "gpt-4o-mini",
		},
		Materials: []entities.ScoredMaterial{{
			Material:       entities.Material{ID: "m1", Category: entities.CategoryElectronics},
			DistanceKm:     km(4.26),
			RelevanceScore: 0.69,
		}},
		Location: &services.SearchLocation{Latitude: 40.7128, Longitude: -74.006, RadiusKm: 50},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/materials/ai-search",
		strings.NewReader(`{"query":"robot arm","latitude":40.7128,"longitude":-74.006}`))
	req.Header.Set(middleware.UserIDHeader, "uid-9")
	w := httptest.NewRecorder()
	middleware.IdentityMiddleware(http.HandlerFunc(handler.AISearch)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "robot arm", body["query"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "gpt-4o-mini", body["model"])

	categories := body["categories"].([]interface{})
	require.Len(t, categories, 2)
	assert.Equal(t, map[string]interface{}{"name": "Electronics", "weight": 0.7, "reason": "motors"}, categories[0])

	analysis, err := json.Marshal(body["aiAnalysis"])
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(analysis))

	m := body["materials"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 4.3, m["distance"])
	assert.Equal(t, 0.69, m["relevanceScore"])
	searcher.AssertExpectations(t)
}

func TestMaterialSearchHandler_AISearch_NoLocationOmitsDistance(t *testing.T) {
	searcher := new(MockMaterialSearcher)
	handler := handlers.NewMaterialSearchHandler(searcher)
	searcher.On("AISearch", mock.Anything, mock.Anything).Return(&services.AISearchResult{
		Query:     "compost bin",
		Inference: &entities.CategoryInference{Categories: []entities.CategoryWeight{{Name: entities.CategoryBioMaterials, Weight: 1, Reason: "organics"}}},
		Materials: []entities.ScoredMaterial{{
			Material:       entities.Material{ID: "b1", Category: entities.CategoryBioMaterials},
			RelevanceScore: 0,
		}},
	}, nil)

	w := httptest.NewRecorder()
	handler.AISearch(w, httptest.NewRequest(http.MethodPost, "/api/materials/ai-search", strings.NewReader(`{"query":"compost bin"}`)))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotContains(t, body, "searchLocation")
	m := body["materials"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, m, "distance")
	assert.Equal(t, float64(0), m["relevanceScore"])
}

func TestMaterialSearchHandler_AISearch_InferenceFailureIsBadGateway(t *testing.T) {
	searcher := new(MockMaterialSearcher)
	handler := handlers.NewMaterialSearchHandler(searcher)
	searcher.On("AISearch", mock.Anything, mock.Anything).
		Return(nil, &services.InferenceError{Kind: services.InferenceInvalidSchema, Err: errors.New("categories missing")})

	w := httptest.NewRecorder()
	handler.AISearch(w, httptest.NewRequest(http.MethodPost, "/api/materials/ai-search", strings.NewReader(`{"query":"robot arm"}`)))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "invalid_schema", body["error"])
	assert.NotEmpty(t, body["message"])
	assert.NotContains(t, body, "materials")
}

func TestMaterialSearchHandler_AISearch_BadRequests(t *testing.T) {
	searcher := new(MockMaterialSearcher)
	handler := handlers.NewMaterialSearchHandler(searcher)
	searcher.On("AISearch", mock.Anything, mock.MatchedBy(func(req services.AISearchRequest) bool {
		return req.Query == ""
	})).Return(nil, apperrors.NewValidationError("query is required"))

	w := httptest.NewRecorder()
	handler.AISearch(w, httptest.NewRequest(http.MethodPost, "/api/materials/ai-search", strings.NewReader(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.AISearch(w, httptest.NewRequest(http.MethodPost, "/api/materials/ai-search", strings.NewReader(`{"query":""}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "query is required", decodeBody(t, w)["message"])
}
