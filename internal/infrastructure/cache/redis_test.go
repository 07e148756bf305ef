package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hostelhub/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisIdempotencyStore(t *testing.T) {
	mr, client := newMiniredis(t)
	store := NewRedisIdempotencyStore(client, "")
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.True(t, mr.Exists("hostel:event:processed:evt-1"))

	isNew, err = store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, processed)

	mr.FastForward(2 * time.Minute)

	processed, err = store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, processed)
	assert.NoError(t, store.Close())
}

func TestRedisIdempotencyStore_ConnectionError(t *testing.T) {
	mr, client := newMiniredis(t)
	store := NewRedisIdempotencyStore(client, "custom:")
	mr.Close()

	_, err := store.MarkProcessed(context.Background(), "evt", time.Minute)
	assert.Error(t, err)
}

type dashboard struct {
	Students int64   `json:"students"`
	Rate     float64 `json:"rate"`
}

func jsonCaches(t *testing.T) map[string]JSONCache {
	_, client := newMiniredis(t)
	mem := NewInMemoryJSONCache()
	t.Cleanup(mem.Close)
	return map[string]JSONCache{
		"redis":  NewRedisJSONCache(client, "", WithJSONCacheLogger(zap.NewNop())),
		"memory": mem,
	}
}

func TestJSONCache_GetSet(t *testing.T) {
	for name, c := range jsonCaches(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var got dashboard

			hit, err := c.Get(ctx, "analytics:admin", &got)
			require.NoError(t, err)
			assert.False(t, hit)

			require.NoError(t, c.Set(ctx, "analytics:admin", dashboard{Students: 12, Rate: 0.75}, time.Minute))

			hit, err = c.Get(ctx, "analytics:admin", &got)
			require.NoError(t, err)
			assert.True(t, hit)
			assert.Equal(t, dashboard{Students: 12, Rate: 0.75}, got)
		})
	}
}

func TestJSONCache_DeletePrefix(t *testing.T) {
	for name, c := range jsonCaches(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 5; i++ {
				require.NoError(t, c.Set(ctx, fmt.Sprintf("analytics:student:%d", i), i, time.Minute))
			}
			require.NoError(t, c.Set(ctx, "other:key", 1, time.Minute))

			require.NoError(t, c.DeletePrefix(ctx, "analytics:"))

			var v int
			hit, err := c.Get(ctx, "analytics:student:3", &v)
			require.NoError(t, err)
			assert.False(t, hit)

			hit, err = c.Get(ctx, "other:key", &v)
			require.NoError(t, err)
			assert.True(t, hit)
		})
	}
}

func TestRedisJSONCache_CorruptEntry(t *testing.T) {
	mr, client := newMiniredis(t)
	c := NewRedisJSONCache(client, "p:")
	require.NoError(t, mr.Set("p:broken", "{not json"))

	var got dashboard
	hit, err := c.Get(context.Background(), "broken", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("p:broken"))
}

func TestInMemoryJSONCache_Expiry(t *testing.T) {
	c := NewInMemoryJSONCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var v string
	hit, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisRateLimiter(t *testing.T) {
	_, client := newMiniredis(t)
	limiter := NewRedisRateLimiter(client, 3, time.Minute)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, remaining, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2-i, remaining)
	}

	ok, remaining, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	limiter.now = func() time.Time { return fixed.Add(time.Minute) }
	ok, _, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, limiter.Limit())
}

func TestNewStores(t *testing.T) {
	t.Run("redis disabled falls back to memory", func(t *testing.T) {
		stores := NewStores(config.RedisConfig{Enabled: false}, nil)
		defer stores.Close()

		assert.Nil(t, stores.Client)
		assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
		assert.IsType(t, &InMemoryJSONCache{}, stores.Analytics)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		stores := NewStores(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, zap.NewNop())
		defer stores.Close()

		assert.Nil(t, stores.Client)
		assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	})

	t.Run("reachable redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		var port int
		_, err := fmt.Sscanf(mr.Port(), "%d", &port)
		require.NoError(t, err)

		stores := NewStores(config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}, zap.NewNop())
		defer stores.Close()

		require.NotNil(t, stores.Client)
		assert.IsType(t, &RedisIdempotencyStore{}, stores.Idempotency)
		assert.IsType(t, &RedisJSONCache{}, stores.Analytics)
	})
}
