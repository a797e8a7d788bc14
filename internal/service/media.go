package service

import (
	"context"

	"vidtube/internal/logging"
	"vidtube/internal/model"
	"vidtube/internal/queue"
)

// BlobStore stores uploaded media. storage.S3Store is the production implementation.
type BlobStore interface {
	Upload(ctx context.Context, kind model.MediaKind, file model.MediaFile) (*model.UploadResult, error)
	Delete(ctx context.Context, key string, kind model.MediaKind) error
}

// Cleanup reasons recorded on media events.
const (
	reasonReplaced = "replaced"
	reasonDeleted  = "deleted"
	reasonAborted  = "aborted"
)

// MediaCleaner schedules best-effort deletion of objects that are no longer
// referenced. With a publisher the delete is queued for the cleanup workers;
// without one, or when publishing fails, it runs inline. Failures are logged
// and never returned.
type MediaCleaner struct {
	store     BlobStore
	publisher queue.Publisher
}

// NewMediaCleaner creates a cleaner. publisher may be nil.
func NewMediaCleaner(store BlobStore, publisher queue.Publisher) *MediaCleaner {
	return &MediaCleaner{store: store, publisher: publisher}
}

// Schedule queues key for deletion. An empty key is ignored.
func (c *MediaCleaner) Schedule(ctx context.Context, key string, kind model.MediaKind, reason string) {
	if c == nil || key == "" {
		return
	}
	log := logging.Component(ctx, "media_cleaner").WithField("key", key).WithField("kind", kind).WithField("reason", reason)

	// The request may be finishing; cleanup must not be cancelled with it.
	ctx = context.WithoutCancel(ctx)

	if c.publisher != nil {
		_, err := c.publisher.Publish(ctx, queue.StreamMedia, queue.NewMediaDeleteEvent(key, string(kind), reason))
		if err == nil {
			return
		}
		log.WithError(err).Warn("queueing cleanup failed, deleting inline")
	}

	if err := c.store.Delete(ctx, key, kind); err != nil {
		log.WithError(err).Warn("media cleanup failed")
	}
}
