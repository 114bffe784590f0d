package repositories

import (
	"context"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
)

// ProviderRepository reads provider trust projections.
type ProviderRepository interface {
	// GetTrustByIDs returns trust for the providers that exist; unknown ids
	// are omitted rather than reported as errors.
	GetTrustByIDs(ctx context.Context, ids []string) ([]entities.ProviderTrust, error)
}
