package service

import (
	"context"
	"testing"

	"bizsim-api/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCacheService(t *testing.T) (*miniredis.Miniredis, *CacheService) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient("redis://"+mr.Addr(), "staging", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewCacheService(client, zap.NewNop())
}

func TestCacheService_DecisionView(t *testing.T) {
	_, cache := setupCacheService(t)
	ctx := context.Background()

	_, ok := cache.GetDecisionView(ctx, "se-1", "team-1")
	assert.False(t, ok)

	payload := []byte(`{"decision":{"id":"dec-1"}}`)
	cache.SetDecisionView(ctx, "se-1", "team-1", payload)

	got, ok := cache.GetDecisionView(ctx, "se-1", "team-1")
	require.True(t, ok)
	assert.Equal(t, payload, got)

	// another team's slot stays independent
	_, ok = cache.GetDecisionView(ctx, "se-1", "team-2")
	assert.False(t, ok)

	cache.InvalidateDecisionView(ctx, "se-1", "team-1")
	_, ok = cache.GetDecisionView(ctx, "se-1", "team-1")
	assert.False(t, ok)
}

func TestCacheService_DecisionViewExpires(t *testing.T) {
	mr, cache := setupCacheService(t)
	ctx := context.Background()

	cache.SetDecisionView(ctx, "se-1", "team-1", []byte("payload"))
	mr.FastForward(redis.TTLDecisionView * 2)

	_, ok := cache.GetDecisionView(ctx, "se-1", "team-1")
	assert.False(t, ok)
}

func TestCacheService_SessionState(t *testing.T) {
	_, cache := setupCacheService(t)
	ctx := context.Background()

	cache.SetSessionState(ctx, "sess-1", []byte(`{"session":{"id":"sess-1"}}`))

	got, ok := cache.GetSessionState(ctx, "sess-1")
	require.True(t, ok)
	assert.NotEmpty(t, got)

	cache.InvalidateSession(ctx, "sess-1")
	_, ok = cache.GetSessionState(ctx, "sess-1")
	assert.False(t, ok)
}

func TestCacheService_IdempotencyLock(t *testing.T) {
	mr, cache := setupCacheService(t)
	ctx := context.Background()

	acquired, err := cache.TryIdempotencyLock(ctx, "activate:se-1")
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = cache.TryIdempotencyLock(ctx, "activate:se-1")
	require.NoError(t, err)
	assert.False(t, acquired)

	// a different operation has its own lock
	acquired, err = cache.TryIdempotencyLock(ctx, "activate:se-2")
	require.NoError(t, err)
	assert.True(t, acquired)

	mr.FastForward(redis.TTLIdempotency * 2)
	acquired, err = cache.TryIdempotencyLock(ctx, "activate:se-1")
	require.NoError(t, err)
	assert.True(t, acquired)
}

// Without Redis configured every cache call degrades to a miss and the
// idempotency lock always grants.
func TestCacheService_Disabled(t *testing.T) {
	ctx := context.Background()
	var cache *CacheService

	_, ok := cache.GetDecisionView(ctx, "se-1", "team-1")
	assert.False(t, ok)
	cache.SetDecisionView(ctx, "se-1", "team-1", []byte("x"))
	cache.InvalidateDecisionView(ctx, "se-1", "team-1")
	cache.InvalidateSession(ctx, "sess-1")

	acquired, err := cache.TryIdempotencyLock(ctx, "activate:se-1")
	require.NoError(t, err)
	assert.True(t, acquired)
}
