package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
)

// ProviderAdapter reads provider trust from the providers table
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetTrustByIDs returns trust rows for the given provider ids
func (a *ProviderAdapter) GetTrustByIDs(ctx context.Context, ids []string) ([]entities.ProviderTrust, error) {
	if len(ids) == 0 {
		return []entities.ProviderTrust{}, nil
	}

	query, args, err := a.db.From("providers").
		Select("id", "average_rating", "total_reviews").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build provider trust query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query provider trust", err)
	}
	defer rows.Close()

	trust := make([]entities.ProviderTrust, 0, len(ids))
	for rows.Next() {
		var t entities.ProviderTrust
		if err := rows.Scan(&t.ProviderID, &t.AverageRating, &t.TotalReviews); err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider trust", err)
		}
		trust = append(trust, t.Clamp())
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate provider trust", err)
	}

	return trust, nil
}
