package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFromClient(client), mr
}

func TestTryLock_ExclusiveUntilReleased(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	lock, ok, err := r.TryLock(ctx, "jobs:status-updater", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = r.TryLock(ctx, "jobs:status-updater", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.Release(ctx))

	_, ok, err = r.TryLock(ctx, "jobs:status-updater", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTryLock_ExpiresAfterTTL(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	_, ok, err := r.TryLock(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(11 * time.Second)

	_, ok, err = r.TryLock(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRelease_DoesNotDropForeignLock(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	stale, ok, err := r.TryLock(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(11 * time.Second)
	_, ok, err = r.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, stale.Release(ctx))
	assert.True(t, mr.Exists("k"))
}

func TestPing_Unconfigured(t *testing.T) {
	var r *Redis
	assert.Error(t, r.Ping(context.Background()))

	var p *Postgres
	assert.Error(t, p.Ping(context.Background()))
}
