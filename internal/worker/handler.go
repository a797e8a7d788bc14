package worker

import (
	"context"
	"fmt"
	"time"

	"vidtube/internal/logging"
	"vidtube/internal/model"
	"vidtube/internal/queue"
)

// ObjectDeleter removes stored media objects.
// This abstracts the blob store so workers don't depend on S3 directly.
type ObjectDeleter interface {
	Delete(ctx context.Context, key string, kind model.MediaKind) error
}

// Handler processes media events from the queue.
type Handler struct {
	deleter ObjectDeleter
}

// NewHandler creates a new event handler.
func NewHandler(deleter ObjectDeleter) *Handler {
	return &Handler{deleter: deleter}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.MediaEvent) error {
	log := logging.Component(ctx, "worker").WithField("type", event.Type)
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventMediaDelete:
		err = h.handleMediaDelete(ctx, event)
	default:
		log.Warn("unknown event type")
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.WithError(err).WithField("duration", time.Since(startTime)).Error("handle event failed")
		return err
	}
	log.WithField("duration", time.Since(startTime)).Debug("handled event")
	return nil
}

func (h *Handler) handleMediaDelete(ctx context.Context, event queue.MediaEvent) error {
	logging.Component(ctx, "worker").WithFields(map[string]interface{}{
		"key":    event.Key,
		"kind":   event.Kind,
		"reason": event.Reason,
	}).Info("deleting media object")

	if err := h.deleter.Delete(ctx, event.Key, model.MediaKind(event.Kind)); err != nil {
		return fmt.Errorf("delete %s: %w", event.Key, err)
	}
	return nil
}
