package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/providers"
)

func unreachableAdapter(t *testing.T) providers.CacheProvider {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAdapterFromClient(client)
}

func TestRedisAdapter_GetMultiEmptyKeysSkipsRoundTrip(t *testing.T) {
	adapter := unreachableAdapter(t)

	out, err := adapter.GetMulti(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRedisAdapter_SetMultiEmptyIsNoop(t *testing.T) {
	adapter := unreachableAdapter(t)
	assert.NoError(t, adapter.SetMulti(context.Background(), map[string][]byte{}, 60))
}

func TestRedisAdapter_ConnectionErrorIsNotCacheMiss(t *testing.T) {
	adapter := unreachableAdapter(t)

	_, err := adapter.Get(context.Background(), "provider:trust:p-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrCacheMiss)
}
