package repositories

import (
	"context"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
)

type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
