package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"vidtube/internal/logging"
	"vidtube/internal/model"
)

const (
	// StatsCachePrefix is the key prefix for per-channel dashboard stats
	StatsCachePrefix = "stats:channel:"

	// StatsCacheTTL bounds how stale a dashboard read can be
	StatsCacheTTL = 60 * time.Second
)

// StatsCache stores channel dashboard aggregates.
type StatsCache interface {
	// Get returns (stats, found, error). found=false on a miss or expiry.
	Get(ctx context.Context, channelID int64) (*model.ChannelStats, bool, error)

	// Set stores the aggregates as a hash with StatsCacheTTL.
	Set(ctx context.Context, channelID int64, stats *model.ChannelStats) error

	// Invalidate drops the entry so the next read goes to the store.
	Invalidate(ctx context.Context, channelID int64) error
}

// RedisStatsCache implements StatsCache using Redis hashes.
type RedisStatsCache struct {
	client redis.UniversalClient
}

// NewStatsCache creates a new StatsCache backed by Redis.
func NewStatsCache(client redis.UniversalClient) StatsCache {
	return &RedisStatsCache{client: client}
}

func statsKey(channelID int64) string {
	return fmt.Sprintf("%s%d", StatsCachePrefix, channelID)
}

const (
	fieldVideos      = "videos"
	fieldViews       = "views"
	fieldSubscribers = "subscribers"
	fieldLikes       = "likes"
)

func (c *RedisStatsCache) Get(ctx context.Context, channelID int64) (*model.ChannelStats, bool, error) {
	values, err := c.client.HGetAll(ctx, statsKey(channelID)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("get stats: %w", err)
	}
	if len(values) == 0 {
		return nil, false, nil
	}

	var stats model.ChannelStats
	for field, dst := range map[string]*int64{
		fieldVideos:      &stats.TotalVideos,
		fieldViews:       &stats.TotalViews,
		fieldSubscribers: &stats.TotalSubscribers,
		fieldLikes:       &stats.TotalLikes,
	} {
		n, err := strconv.ParseInt(values[field], 10, 64)
		if err != nil {
			// A partial hash is treated as a miss.
			logging.Component(ctx, "stats_cache").WithField("channel", channelID).Warn("discarding malformed entry")
			return nil, false, nil
		}
		*dst = n
	}
	return &stats, true, nil
}

// Set writes all fields and the TTL in one pipeline.
func (c *RedisStatsCache) Set(ctx context.Context, channelID int64, stats *model.ChannelStats) error {
	key := statsKey(channelID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key,
		fieldVideos, stats.TotalVideos,
		fieldViews, stats.TotalViews,
		fieldSubscribers, stats.TotalSubscribers,
		fieldLikes, stats.TotalLikes,
	)
	pipe.Expire(ctx, key, StatsCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set stats: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, channelID int64) error {
	if err := c.client.Del(ctx, statsKey(channelID)).Err(); err != nil {
		return fmt.Errorf("invalidate stats: %w", err)
	}
	return nil
}
