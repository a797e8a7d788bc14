package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vidtube/internal/logging"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event MediaEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client redis.UniversalClient
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client redis.UniversalClient) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD with an auto-generated ID.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event MediaEvent) (string, error) {
	log := logging.Component(ctx, "publisher").WithField("stream", stream).WithField("type", event.Type)
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		log.WithError(err).Error("serialize event failed")
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		log.WithError(err).Error("publish failed")
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"msg_id":   messageID,
		"key":      event.Key,
		"duration": time.Since(startTime),
	}).Debug("published")

	return messageID, nil
}
