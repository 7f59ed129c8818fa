package flagstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisGetBoolMissingKey(t *testing.T) {
	store := NewRedis(newTestRedis(t), "")

	got, err := store.GetBool(context.Background(), "HAS_REQUESTED_FEEDBACK")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRedisSetThenGet(t *testing.T) {
	store := NewRedis(newTestRedis(t), "feedback:")
	ctx := context.Background()

	require.NoError(t, store.SetBool(ctx, "asked", true))
	got, err := store.GetBool(ctx, "asked")
	require.NoError(t, err)
	assert.True(t, got)

	require.NoError(t, store.SetBool(ctx, "asked", false))
	got, err = store.GetBool(ctx, "asked")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRedisPrefixIsolatesKeys(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	userA := NewRedis(client, "feedback:user:a:")
	userB := NewRedis(client, "feedback:user:b:")

	require.NoError(t, userA.SetBool(ctx, "asked", true))

	got, err := userB.GetBool(ctx, "asked")
	require.NoError(t, err)
	assert.False(t, got, "user B must not see user A's flag")
}

func TestRedisGetBoolConnectionError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	store := NewRedis(client, "")
	_, err = store.GetBool(context.Background(), "asked")
	assert.Error(t, err)
}
