package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBlacklist(t *testing.T) (*RedisTokenBlacklist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTokenBlacklist(client), mr
}

func TestRedisTokenBlacklist_JTI(t *testing.T) {
	ctx := context.Background()
	bl, mr := newRedisBlacklist(t)

	ok, err := bl.IsBlacklisted(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bl.AddToBlacklist(ctx, "abc", time.Minute))
	ok, err = bl.IsBlacklisted(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = bl.IsBlacklisted(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTokenBlacklist_SkipsExpiredTokens(t *testing.T) {
	bl, mr := newRedisBlacklist(t)
	require.NoError(t, bl.AddToBlacklist(context.Background(), "gone", 0))
	assert.False(t, mr.Exists(jtiKey("gone")))
}

func TestRedisTokenBlacklist_User(t *testing.T) {
	ctx := context.Background()
	bl, mr := newRedisBlacklist(t)

	invalid, err := bl.IsUserTokenInvalidated(ctx, "u1", time.Now())
	require.NoError(t, err)
	assert.False(t, invalid)

	require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "u1", time.Hour))

	invalid, err = bl.IsUserTokenInvalidated(ctx, "u1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalid)

	invalid, err = bl.IsUserTokenInvalidated(ctx, "u1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, invalid)

	require.NoError(t, mr.Set(userKey("u2"), "garbage"))
	_, err = bl.IsUserTokenInvalidated(ctx, "u2", time.Now())
	assert.Error(t, err)
}

func TestRedisTokenBlacklist_ConnectionError(t *testing.T) {
	bl, mr := newRedisBlacklist(t)
	mr.Close()

	_, err := bl.IsBlacklisted(context.Background(), "abc")
	assert.Error(t, err)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()
	now := time.Now()
	bl.nowFunc = func() time.Time { return now }

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))
	ok, _ := bl.IsBlacklisted(ctx, "jti-1")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = bl.IsBlacklisted(ctx, "jti-1")
	assert.False(t, ok)

	issued := now.Add(-time.Second)
	require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "u1", time.Hour))
	invalid, _ := bl.IsUserTokenInvalidated(ctx, "u1", issued)
	assert.True(t, invalid)
	invalid, _ = bl.IsUserTokenInvalidated(ctx, "u1", now.Add(time.Second))
	assert.False(t, invalid)
	invalid, _ = bl.IsUserTokenInvalidated(ctx, "other", issued)
	assert.False(t, invalid)
}
