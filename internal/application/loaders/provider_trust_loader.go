// Package loaders batches per-item lookups that fan out from a single search.
package loaders

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
)

// DefaultBatchWait is how long the loader collects keys before querying.
const DefaultBatchWait = 2 * time.Millisecond

// ProviderTrustLoader batches the provider trust lookups of one search.
// Results are never cached between batches. A loader runs its batches under
// the context of whichever caller opened them, so it must not be shared
// between requests; use ProviderTrustSource for that.
type ProviderTrustLoader struct {
	loader *dataloader.Loader[string, entities.ProviderTrust]
}

// NewProviderTrustLoader creates a loader over repo. wait <= 0 uses
// DefaultBatchWait.
func NewProviderTrustLoader(repo repositories.ProviderRepository, wait time.Duration) *ProviderTrustLoader {
	if wait <= 0 {
		wait = DefaultBatchWait
	}

	batch := func(ctx context.Context, keys []string) []*dataloader.Result[entities.ProviderTrust] {
		results := make([]*dataloader.Result[entities.ProviderTrust], len(keys))
		trust, err := repo.GetTrustByIDs(ctx, keys)

		byID := make(map[string]entities.ProviderTrust, len(trust))
		if err == nil {
			for _, t := range trust {
				byID[t.ProviderID] = t
			}
		}

		for i, key := range keys {
			switch t, ok := byID[key]; {
			case err != nil:
				results[i] = &dataloader.Result[entities.ProviderTrust]{Error: err}
			case ok:
				results[i] = &dataloader.Result[entities.ProviderTrust]{Data: t}
			default:
				// Unknown providers rank as unreviewed.
				results[i] = &dataloader.Result[entities.ProviderTrust]{Data: entities.ProviderTrust{ProviderID: key}}
			}
		}
		return results
	}

	return &ProviderTrustLoader{
		loader: dataloader.NewBatchedLoader(batch,
			dataloader.WithCache[string, entities.ProviderTrust](&dataloader.NoCache[string, entities.ProviderTrust]{}),
			dataloader.WithWait[string, entities.ProviderTrust](wait),
		),
	}
}

// ProviderTrustSource hands every search a loader of its own.
type ProviderTrustSource struct {
	repo repositories.ProviderRepository
	wait time.Duration
}

// NewProviderTrustSource creates a source over repo.
func NewProviderTrustSource(repo repositories.ProviderRepository, wait time.Duration) *ProviderTrustSource {
	return &ProviderTrustSource{repo: repo, wait: wait}
}

// LoadMany resolves providerIDs through a fresh loader bound to ctx.
func (s *ProviderTrustSource) LoadMany(ctx context.Context, providerIDs []string) (map[string]entities.ProviderTrust, error) {
	return NewProviderTrustLoader(s.repo, s.wait).LoadMany(ctx, providerIDs)
}

// LoadMany returns trust keyed by provider id. Duplicate and empty ids are
// ignored.
func (l *ProviderTrustLoader) LoadMany(ctx context.Context, providerIDs []string) (map[string]entities.ProviderTrust, error) {
	seen := make(map[string]struct{}, len(providerIDs))
	keys := make([]string, 0, len(providerIDs))
	for _, id := range providerIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, id)
	}

	out := make(map[string]entities.ProviderTrust, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, errs := l.loader.LoadMany(ctx, keys)()
	for i, key := range keys {
		if i < len(errs) && errs[i] != nil {
			return nil, errs[i]
		}
		if i < len(values) {
			out[key] = values[i]
		}
	}
	return out, nil
}
