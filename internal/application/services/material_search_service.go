package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/observability"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
)

const (
	// MaxNearbyResults caps a nearby search response.
	MaxNearbyResults = 100

	// MaxAISearchResults caps an AI search response.
	MaxAISearchResults = 50

	// DefaultCandidatePageSize is how many candidates an AI search reads
	// from the store per round trip. Every page is ranked.
	DefaultCandidatePageSize = 250

	// MaxCandidatePageSize is the largest page the Typesense index serves.
	MaxCandidatePageSize = 250

	// boundaryToleranceKm absorbs floating-point error for points on the
	// radius itself.
	boundaryToleranceKm = 1e-9
)

// CategoryInferrer infers weighted categories for a project description.
type CategoryInferrer interface {
	Infer(ctx context.Context, query string) (*entities.CategoryInference, error)
}

// TrustLoader resolves provider trust keyed by provider id. Concurrent
// searches must not see each other's failures.
type TrustLoader interface {
	LoadMany(ctx context.Context, providerIDs []string) (map[string]entities.ProviderTrust, error)
}

// SearchTracker records finished searches. Implementations must not block.
type SearchTracker interface {
	TrackSearch(ctx context.Context, event *entities.SearchEvent)
}

// SearchLocation is the center and radius a search ran with.
type SearchLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius"`
}

// NearbySearchRequest is a validated-at-the-boundary radius search.
// An empty Categories slice means every category.
type NearbySearchRequest struct {
	Latitude   float64
	Longitude  float64
	RadiusKm   float64
	Categories []entities.Category
}

// NearbySearchResult lists materials nearest first.
type NearbySearchResult struct {
	Materials []entities.ScoredMaterial
	Location  SearchLocation
}

// AISearchRequest is a free-text search. Latitude and Longitude are either
// both set or both nil; (0, 0) counts as not set.
type AISearchRequest struct {
	Query     string
	Latitude  *float64
	Longitude *float64
	RadiusKm  *float64
	UserID    string
}

// AISearchResult is the ranked outcome of an AI search. Location is nil when
// the search ran without one.
type AISearchResult struct {
	Query     string
	Inference *entities.CategoryInference
	Materials []entities.ScoredMaterial
	Location  *SearchLocation
}

// MaterialSearchService runs nearby and AI-weighted material searches
type MaterialSearchService struct {
	materials      repositories.MaterialRepository
	users          repositories.UserRepository
	inferrer       CategoryInferrer
	trust          TrustLoader
	ranker         *MaterialRankingService
	tracker        SearchTracker
	metrics        *observability.Metrics
	pageSize       int
}

// NewMaterialSearchService creates a new material search service. users may
// be nil, in which case AI searches without coordinates run without location.
func NewMaterialSearchService(
	materials repositories.MaterialRepository,
	users repositories.UserRepository,
	inferrer CategoryInferrer,
	trust TrustLoader,
	ranker *MaterialRankingService,
) *MaterialSearchService {
	if ranker == nil {
		ranker = NewMaterialRankingService()
	}
	return &MaterialSearchService{
		materials:      materials,
		users:          users,
		inferrer:       inferrer,
		trust:          trust,
		ranker:         ranker,
		pageSize:       DefaultCandidatePageSize,
	}
}

// WithTracker sets where finished AI searches are recorded.
func (s *MaterialSearchService) WithTracker(tracker SearchTracker) *MaterialSearchService {
	s.tracker = tracker
	return s
}

// WithMetrics enables search metrics.
func (s *MaterialSearchService) WithMetrics(metrics *observability.Metrics) *MaterialSearchService {
	s.metrics = metrics
	return s
}

// WithCandidatePageSize overrides the AI search page size. Values outside
// 1..MaxCandidatePageSize are ignored.
func (s *MaterialSearchService) WithCandidatePageSize(size int) *MaterialSearchService {
	if size > 0 && size <= MaxCandidatePageSize {
		s.pageSize = size
	}
	return s
}

// NearbySearch returns available materials within the radius, nearest first.
func (s *MaterialSearchService) NearbySearch(ctx context.Context, req NearbySearchRequest) (*NearbySearchResult, error) {
	if err := ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}
	if err := ValidateRadius(req.RadiusKm); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "MaterialSearchService.NearbySearch")
	defer span.End()

	center := entities.NewGeoPoint(req.Latitude, req.Longitude)
	found, err := s.materials.FindNearby(ctx, repositories.NearbyQuery{
		Center:     center,
		RadiusKm:   req.RadiusKm,
		Categories: req.Categories,
		Limit:      MaxNearbyResults,
	})
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordSearchFailure(ctx, s.metrics, "store")
		return nil, asInternal("failed to search nearby materials", err)
	}

	results := make([]entities.ScoredMaterial, 0, len(found))
	for _, c := range withinRadius(center, req.RadiusKm, found) {
		results = append(results, entities.ScoredMaterial{
			Material:   *c.Material,
			DistanceKm: c.DistanceKm,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].DistanceKm < *results[j].DistanceKm
	})
	if len(results) > MaxNearbyResults {
		results = results[:MaxNearbyResults]
	}

	observability.RecordSearchResult(ctx, s.metrics, "nearby", len(results))

	return &NearbySearchResult{
		Materials: results,
		Location: SearchLocation{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			RadiusKm:  req.RadiusKm,
		},
	}, nil
}

// AISearch infers categories for the query, gathers matching materials and
// ranks them. An inference failure aborts the search with no materials.
func (s *MaterialSearchService) AISearch(ctx context.Context, req AISearchRequest) (*AISearchResult, error) {
	start := time.Now()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, apperrors.NewValidationError("query is required")
	}
	location, err := s.requestedLocation(req)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "MaterialSearchService.AISearch")
	defer span.End()

	if location == nil {
		location = s.defaultLocation(ctx, req)
	}

	inference, err := s.inferrer.Infer(ctx, query)
	if err != nil {
		observability.RecordError(span, err)
		kind := "validation"
		if infErr, ok := AsInferenceError(err); ok {
			kind = string(infErr.Kind)
		}
		observability.RecordSearchFailure(ctx, s.metrics, kind)
		return nil, err
	}

	candidates, err := s.collectCandidates(ctx, inference.CategoryNames(), location)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordSearchFailure(ctx, s.metrics, "store")
		return nil, asInternal("failed to search materials", err)
	}

	if err := s.attachTrust(ctx, candidates); err != nil {
		observability.RecordError(span, err)
		observability.RecordSearchFailure(ctx, s.metrics, "trust")
		return nil, asInternal("failed to load provider ratings", err)
	}

	opts := RankingOptions{}
	mode := "ai_no_location"
	if location != nil {
		opts = RankingOptions{LocationAware: true, RadiusKm: location.RadiusKm}
		mode = "ai_location"
	}
	ranked := s.ranker.Rank(candidates, inference.Categories, opts)
	if len(ranked) > MaxAISearchResults {
		ranked = ranked[:MaxAISearchResults]
	}

	observability.RecordSearchResult(ctx, s.metrics, mode, len(ranked))
	s.track(ctx, req.UserID, inference, location, len(ranked), time.Since(start))

	observability.LoggerFromContext(ctx).Debug().
		Str("mode", mode).
		Int("candidates", len(candidates)).
		Int("results", len(ranked)).
		Msg("ai search ranked")

	return &AISearchResult{
		Query:     query,
		Inference: inference,
		Materials: ranked,
		Location:  location,
	}, nil
}

// requestedLocation validates the coordinates carried by the request. It
// returns nil when the client sent none.
func (s *MaterialSearchService) requestedLocation(req AISearchRequest) (*SearchLocation, error) {
	radius := DefaultAISearchRadiusKm
	if req.RadiusKm != nil {
		if err := ValidateRadius(*req.RadiusKm); err != nil {
			return nil, err
		}
		radius = *req.RadiusKm
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, apperrors.NewValidationError("latitude and longitude must be supplied together")
	}
	if req.Latitude == nil || (*req.Latitude == 0 && *req.Longitude == 0) {
		return nil, nil
	}
	if err := ValidateCoordinates(*req.Latitude, *req.Longitude); err != nil {
		return nil, err
	}

	return &SearchLocation{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		RadiusKm:  radius,
	}, nil
}

// defaultLocation falls back to the signed-in user's saved location. Lookup
// failures degrade to a search without location.
func (s *MaterialSearchService) defaultLocation(ctx context.Context, req AISearchRequest) *SearchLocation {
	if req.UserID == "" || s.users == nil {
		return nil
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("user_id", req.UserID).
				Msg("failed to resolve default search location")
		}
		return nil
	}
	if user == nil || user.DefaultLocation == nil || user.DefaultLocation.IsZero() {
		return nil
	}

	lat, lng := user.DefaultLocation.Latitude(), user.DefaultLocation.Longitude()
	if ValidateCoordinates(lat, lng) != nil {
		return nil
	}

	radius := DefaultAISearchRadiusKm
	if req.RadiusKm != nil {
		radius = *req.RadiusKm
	}
	return &SearchLocation{Latitude: lat, Longitude: lng, RadiusKm: radius}
}

// collectCandidates pages through every available material in categories,
// inside the search radius when location is set.
func (s *MaterialSearchService) collectCandidates(ctx context.Context, categories []entities.Category, location *SearchLocation) ([]RankCandidate, error) {
	var candidates []RankCandidate
	for offset := 0; ; offset += s.pageSize {
		var page []*entities.Material
		var err error

		if location != nil {
			center := entities.NewGeoPoint(location.Latitude, location.Longitude)
			page, err = s.materials.FindNearby(ctx, repositories.NearbyQuery{
				Center:     center,
				RadiusKm:   location.RadiusKm,
				Categories: categories,
				Limit:      s.pageSize,
				Offset:     offset,
			})
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, withinRadius(center, location.RadiusKm, page)...)
		} else {
			page, err = s.materials.Find(ctx, repositories.MaterialFilter{
				Categories: categories,
				Status:     entities.MaterialStatusAvailable,
				Limit:      s.pageSize,
				Offset:     offset,
			})
			if err != nil {
				return nil, err
			}
			for _, m := range page {
				if m == nil || !m.IsAvailable() {
					continue
				}
				cp := *m
				candidates = append(candidates, RankCandidate{Material: &cp})
			}
		}

		if len(page) < s.pageSize {
			return candidates, nil
		}
	}
}

func (s *MaterialSearchService) attachTrust(ctx context.Context, candidates []RankCandidate) error {
	if len(candidates) == 0 || s.trust == nil {
		return nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Material.ProviderID)
	}
	trust, err := s.trust.LoadMany(ctx, ids)
	if err != nil {
		return err
	}
	for i := range candidates {
		if t, ok := trust[candidates[i].Material.ProviderID]; ok {
			candidates[i].Trust = t
		}
	}
	return nil
}

func (s *MaterialSearchService) track(ctx context.Context, userID string, inference *entities.CategoryInference, location *SearchLocation, count int, latency time.Duration) {
	if s.tracker == nil {
		return
	}

	names := make([]string, 0, len(inference.Categories))
	for _, c := range inference.CategoryNames() {
		names = append(names, string(c))
	}
	event := &entities.SearchEvent{
		Query:       inference.Query,
		Categories:  names,
		ResultCount: count,
		LatencyMs:   int(latency.Milliseconds()),
		UserID:      userID,
	}
	if location != nil {
		lat, lng := location.Latitude, location.Longitude
		event.UserLatitude = &lat
		event.UserLongitude = &lng
	}
	s.tracker.TrackSearch(ctx, event)
}

// withinRadius copies the available materials whose exact distance from
// center is at most radiusKm, attaching that distance.
func withinRadius(center entities.GeoPoint, radiusKm float64, materials []*entities.Material) []RankCandidate {
	out := make([]RankCandidate, 0, len(materials))
	for _, m := range materials {
		if m == nil || !m.IsAvailable() {
			continue
		}
		d := center.DistanceKm(m.Location)
		if d > radiusKm+boundaryToleranceKm {
			continue
		}
		cp := *m
		out = append(out, RankCandidate{Material: &cp, DistanceKm: &d})
	}
	return out
}

func asInternal(message string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewInternalError(message, err)
}
