// Package redis opens the shared Redis connection used by the media queue and
// the stats cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vidtube/internal/logging"
)

const pingTimeout = 3 * time.Second

// Client wraps the go-redis client so one pool is shared by every consumer.
type Client struct {
	*redis.Client
}

// Open parses a URL of the form redis://[:password@]host:port[/db] and
// verifies the connection. An empty URL returns (nil, nil): Redis is optional
// and callers fall back to inline behavior.
func Open(ctx context.Context, redisURL string) (*Client, error) {
	if redisURL == "" {
		logging.Component(ctx, "redis").Warn("REDIS_URL not set; media cleanup runs inline and stats are not cached")
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := &Client{Client: redis.NewClient(opts)}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.Client.Ping(pingCtx).Err(); err != nil {
		c.Client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logging.Component(ctx, "redis").WithField("addr", opts.Addr).Info("connected to redis")
	return c, nil
}
