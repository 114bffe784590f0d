package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
)

type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	reader *sqlx.DB
}

func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		reader: sqlx.NewDb(client.DB(), "postgres"),
	}
}

// searchEventRow mirrors search_events for sqlx scanning.
type searchEventRow struct {
	ID            string         `db:"id"`
	Query         string         `db:"query"`
	Categories    pq.StringArray `db:"categories"`
	ResultCount   int            `db:"result_count"`
	LatencyMs     int            `db:"latency_ms"`
	UserLatitude  *float64       `db:"user_latitude"`
	UserLongitude *float64       `db:"user_longitude"`
	UserID        sql.NullString `db:"user_id"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (r searchEventRow) toEntity() *entities.SearchEvent {
	return &entities.SearchEvent{
		ID:            r.ID,
		Query:         r.Query,
		Categories:    []string(r.Categories),
		ResultCount:   r.ResultCount,
		LatencyMs:     r.LatencyMs,
		UserLatitude:  r.UserLatitude,
		UserLongitude: r.UserLongitude,
		UserID:        r.UserID.String,
		CreatedAt:     r.CreatedAt,
	}
}

func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var userID interface{}
	if event.UserID != "" {
		userID = event.UserID
	}

	query, args, err := a.db.Insert("search_events").Rows(goqu.Record{
		"id":             event.ID,
		"query":          event.Query,
		"categories":     pq.Array(event.Categories),
		"result_count":   event.ResultCount,
		"latency_ms":     event.LatencyMs,
		"user_latitude":  event.UserLatitude,
		"user_longitude": event.UserLongitude,
		"user_id":        userID,
		"created_at":     event.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build search event insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

func (a *SearchAnalyticsAdapter) GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.db.From("search_events").
		Select("id", "query", "categories", "result_count", "latency_ms",
			"user_latitude", "user_longitude", "user_id", "created_at").
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build zero result query", err)
	}

	var rows []searchEventRow
	if err := a.reader.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result searches", err)
	}

	events := make([]*entities.SearchEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toEntity())
	}

	return events, nil
}
