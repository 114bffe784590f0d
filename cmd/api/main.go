package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/adapters/cache"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/adapters/database"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/adapters/search"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/handlers"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/middleware"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/routes"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/application/loaders"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/application/services"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/providers"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/openai"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/postgres"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/redis"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/typesense"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/observability"
	"github.com/vanshika145/Upcycle-Connect-sub000/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	healthChecks := map[string]handlers.HealthCheck{"postgres": pgClient.Ping}

	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			healthChecks["redis"] = redisClient.Ping
		}
	}

	// Typesense serves the geo index when enabled; Postgres is the fallback.
	var materialRepo repositories.MaterialRepository = database.NewMaterialAdapter(pgClient)
	if cfg.Typesense.Enabled {
		typesenseClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Typesense client, using PostgreSQL geo queries")
		} else {
			if err := typesenseClient.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to init Typesense schema")
			}
			materialRepo = search.NewTypesenseAdapter(typesenseClient)
			healthChecks["typesense"] = typesenseClient.Ping
		}
	}

	var providerRepo repositories.ProviderRepository = database.NewProviderAdapter(pgClient)
	if cacheProvider != nil {
		providerRepo = database.NewCachedProviderAdapter(providerRepo, cacheProvider, cfg.Search.ProviderTrustTTL)
	}
	userRepo := database.NewUserAdapter(pgClient)

	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OpenAI client")
	}
	defer openaiClient.Close()

	// Initialize services
	inferenceService := services.NewCategoryInferenceService(openaiClient)
	trustSource := loaders.NewProviderTrustSource(providerRepo, loaders.DefaultBatchWait)
	searchService := services.NewMaterialSearchService(
		materialRepo,
		userRepo,
		inferenceService,
		trustSource,
		services.NewMaterialRankingService(),
	).WithMetrics(metrics).WithCandidatePageSize(cfg.Search.CandidatePageSize)

	var analyticsService *services.SearchAnalyticsService
	var analyticsHandler *handlers.AnalyticsHandler
	if cfg.Search.AnalyticsEnabled {
		analyticsService = services.NewSearchAnalyticsService(database.NewSearchAnalyticsAdapter(pgClient))
		searchService.WithTracker(analyticsService)
		analyticsHandler = handlers.NewAnalyticsHandler(analyticsService)
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics, cfg.Search.NearbyCacheTTL)
	}

	router := routes.NewRouter(
		handlers.NewMaterialSearchHandler(searchService),
		analyticsHandler,
		handlers.NewHealthHandler(healthChecks),
		cacheMiddleware,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// AI search waits on the model, so allow more than the OpenAI timeout.
		WriteTimeout: cfg.OpenAI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Flush pending analytics writes
	if analyticsService != nil {
		analyticsService.Wait()
	}

	log.Info().Msg("server stopped")
}
