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

func TestRedisRevocationList(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	list := NewRedisRevocationList(client)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationList_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	list := NewRedisRevocationList(client)
	mr.Close()

	_, err := list.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}

func TestMemoryRevocationList(t *testing.T) {
	list := NewMemoryRevocationList()
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	list.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))
	revoked, _ := list.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = list.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
	assert.Empty(t, list.entries)
}
