package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/providers"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
)

const defaultProviderTrustTTL = 300

// CachedProviderAdapter wraps a ProviderRepository with a read-through cache
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
	ttl     int
}

// NewCachedProviderAdapter creates a new cached provider adapter. ttlSeconds
// <= 0 falls back to five minutes.
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider, ttlSeconds int) repositories.ProviderRepository {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultProviderTrustTTL
	}
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttlSeconds,
	}
}

func providerTrustCacheKey(id string) string {
	return fmt.Sprintf("provider:trust:%s", id)
}

// GetTrustByIDs serves what it can from cache and loads the rest in one query
func (a *CachedProviderAdapter) GetTrustByIDs(ctx context.Context, ids []string) ([]entities.ProviderTrust, error) {
	if len(ids) == 0 {
		return []entities.ProviderTrust{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = providerTrustCacheKey(id)
	}

	cached, err := a.cache.GetMulti(ctx, keys)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("provider trust cache read failed")
		cached = nil
	}

	result := make([]entities.ProviderTrust, 0, len(ids))
	missing := make([]string, 0)
	for i, id := range ids {
		if data, ok := cached[keys[i]]; ok {
			var trust entities.ProviderTrust
			if err := json.Unmarshal(data, &trust); err == nil {
				result = append(result, trust)
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result, nil
	}

	loaded, err := a.adapter.GetTrustByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	items := make(map[string][]byte, len(loaded))
	for _, trust := range loaded {
		if data, err := json.Marshal(trust); err == nil {
			items[providerTrustCacheKey(trust.ProviderID)] = data
		}
	}
	if len(items) > 0 {
		go func() {
			if err := a.cache.SetMulti(context.Background(), items, a.ttl); err != nil {
				log.Warn().Err(err).Int("count", len(items)).Msg("failed to cache provider trust")
			}
		}()
	}

	return append(result, loaded...), nil
}
