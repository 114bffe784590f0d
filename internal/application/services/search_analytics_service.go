package services

import (
	"context"
	"sync"
	"time"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/observability"
)

const (
	defaultZeroResultLimit = 100
	maxZeroResultLimit     = 500
	trackTimeout           = 5 * time.Second
)

// SearchAnalyticsService records AI searches and reports on them
type SearchAnalyticsService struct {
	repo repositories.SearchAnalyticsRepository
	wg   sync.WaitGroup
}

// NewSearchAnalyticsService creates a new search analytics service
func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// TrackSearch logs the event in the background. The write outlives the
// request but keeps its trace and logger.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	if event == nil {
		return
	}
	bgCtx := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		writeCtx, cancel := context.WithTimeout(bgCtx, trackTimeout)
		defer cancel()

		if err := s.repo.LogEvent(writeCtx, event); err != nil {
			observability.LoggerFromContext(writeCtx).Warn().
				Err(err).
				Str("query", event.Query).
				Msg("failed to log search event")
		}
	}()
}

// Wait blocks until every pending event has been written or dropped.
func (s *SearchAnalyticsService) Wait() {
	s.wg.Wait()
}

// GetZeroResultSearches lists recent searches that returned nothing.
func (s *SearchAnalyticsService) GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = defaultZeroResultLimit
	}
	if limit > maxZeroResultLimit {
		limit = maxZeroResultLimit
	}
	return s.repo.GetZeroResultSearches(ctx, limit)
}
