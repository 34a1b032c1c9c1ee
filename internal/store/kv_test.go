package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisKV(client), mr
}

func TestRedisKVSetGet(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))

	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", val)
}

func TestRedisKVMiss(t *testing.T) {
	kv, _ := newTestKV(t)

	_, err := kv.Get(context.Background(), "absent")
	require.ErrorIs(t, err, ErrMiss)
}

func TestRedisKVExpiry(t *testing.T) {
	kv, mr := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestRedisKVDel(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, kv.Del(ctx, "k"))

	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)

	// Deleting an absent key is fine.
	require.NoError(t, kv.Del(ctx, "k"))
}
