package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/api/middleware"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/providers"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := map[string][]byte{}
	for _, k := range keys {
		if v, err := c.Get(ctx, k); err == nil {
			out[k] = v
		}
	}
	return out, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = append([]byte(nil), value...)
	c.ttls[key] = ttl
	return nil
}

func (c *memoryCache) SetMulti(ctx context.Context, items map[string][]byte, ttl int) error {
	for k, v := range items {
		_ = c.Set(ctx, k, v, ttl)
	}
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func countingHandler(status int, body string) (http.Handler, *int) {
	calls := 0
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}), &calls
}

func TestCacheMiddleware_ServesRepeatNearbySearchFromCache(t *testing.T) {
	cache := newMemoryCache()
	next, calls := countingHandler(http.StatusOK, `{"count":0}`)
	handler := middleware.NewCacheMiddleware(cache, nil, 60).Middleware(next)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/materials/nearby?lat=1&lng=2", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	// Same parameters in a different order share the entry.
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/materials/nearby?lng=2&lat=1", nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"count":0}`, second.Body.String())

	assert.Equal(t, 1, *calls)
	for _, ttl := range cache.ttls {
		assert.Equal(t, 60, ttl)
	}
}

func TestCacheMiddleware_SkipsErrorsAndOtherRoutes(t *testing.T) {
	cache := newMemoryCache()
	next, calls := countingHandler(http.StatusBadRequest, `{"message":"lat is required"}`)
	handler := middleware.NewCacheMiddleware(cache, nil, 60).Middleware(next)

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/materials/nearby", nil))
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/materials/ai-search", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 4, *calls)
	assert.Empty(t, cache.data)
}

func TestCacheMiddleware_ZeroTTLDisables(t *testing.T) {
	cache := newMemoryCache()
	next, calls := countingHandler(http.StatusOK, `{}`)
	handler := middleware.NewCacheMiddleware(cache, nil, 0).Middleware(next)

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/materials/nearby?lat=1", nil))
	}
	assert.Equal(t, 2, *calls)
}
