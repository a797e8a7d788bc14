package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/cache"
	"vidtube/internal/model"
)

func setup(t *testing.T) (*miniredis.Miniredis, cache.StatsCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, cache.NewStatsCache(client)
}

func TestStatsCache_MissThenHit(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	_, c := setup(t)
	want := &model.ChannelStats{TotalVideos: 3, TotalViews: 120, TotalSubscribers: 7, TotalLikes: 9}

	// ACT
	_, found, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, 1, want))
	got, found, err := c.Get(ctx, 1)

	// ASSERT
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestStatsCache_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	mr, c := setup(t)
	require.NoError(t, c.Set(ctx, 2, &model.ChannelStats{TotalVideos: 1}))

	mr.FastForward(cache.StatsCacheTTL + 1)

	_, found, err := c.Get(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStatsCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	mr, c := setup(t)
	require.NoError(t, c.Set(ctx, 3, &model.ChannelStats{TotalVideos: 1}))

	require.NoError(t, c.Invalidate(ctx, 3))

	assert.False(t, mr.Exists("stats:channel:3"))
}

func TestStatsCache_PartialHashIsMiss(t *testing.T) {
	ctx := context.Background()
	mr, c := setup(t)
	mr.HSet("stats:channel:4", "videos", "1")

	_, found, err := c.Get(ctx, 4)

	require.NoError(t, err)
	assert.False(t, found)
}
