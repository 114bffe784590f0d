package routes

import (
	"net/http"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/handlers"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/middleware"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler    *handlers.MaterialSearchHandler
	analyticsHandler *handlers.AnalyticsHandler
	healthHandler    *handlers.HealthHandler

	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. analyticsHandler and cacheMiddleware may
// be nil.
func NewRouter(
	searchHandler *handlers.MaterialSearchHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	healthHandler *handlers.HealthHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		searchHandler:    searchHandler,
		analyticsHandler: analyticsHandler,
		healthHandler:    healthHandler,
		cacheMiddleware:  cacheMiddleware,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Live)
	r.mux.HandleFunc("GET /health/ready", r.healthHandler.Ready)

	// Material search
	r.mux.HandleFunc("GET /api/materials/nearby", r.searchHandler.NearbySearch)
	r.mux.HandleFunc("POST /api/materials/ai-search", r.searchHandler.AISearch)

	// Analytics
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/zero-result-searches", r.analyticsHandler.ZeroResultSearches)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = middleware.CaptureRoute(r.mux)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.IdentityMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
