package window

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreAllow(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	for i := range testLimit {
		res, err := store.Allow(ctx, "rl:auth:ip", testLimit, testWindow)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, testLimit-i-1, res.Remaining)
	}

	res, err := store.Allow(ctx, "rl:auth:ip", testLimit, testWindow)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Positive(t, res.RetryAfter)

	assert.Equal(t, testWindow, mr.TTL("rl:auth:ip"), "key TTL equals the window")

	mr.FastForward(testWindow)
	res, err = store.Allow(ctx, "rl:auth:ip", testLimit, testWindow)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, testLimit-1, res.Remaining)
}

func TestRedisStoreReset(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	_, err := store.Allow(ctx, "k", testLimit, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Allow(context.Background(), "k", testLimit, testWindow)
	require.Error(t, err)
}
