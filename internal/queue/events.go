package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the media stream
const (
	EventMediaDelete = "media_delete"
)

// Stream names
const (
	StreamMedia = "stream:media"
)

// Consumer group name for cleanup workers
const (
	ConsumerGroupMedia = "media_cleaners"
)

// MediaEvent is a unit of deferred blob-store work.
type MediaEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	// Key is the object key in the blob store; Kind selects the folder and
	// upload path it was created with (image vs. video).
	Key  string `json:"key"`
	Kind string `json:"kind"`

	// Reason is informational only: "replaced", "deleted", "aborted_upload".
	Reason string `json:"reason,omitempty"`
}

// NewMediaDeleteEvent creates an event asking a worker to delete a stored object.
func NewMediaDeleteEvent(key, kind, reason string) MediaEvent {
	return MediaEvent{
		Type:      EventMediaDelete,
		Timestamp: time.Now().Unix(),
		Key:       key,
		Kind:      kind,
		Reason:    reason,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so the event is serialized into a "data" field.
func (e MediaEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseMediaEvent parses a MediaEvent from Redis stream message values.
func ParseMediaEvent(values map[string]interface{}) (MediaEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return MediaEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event MediaEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return MediaEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.Key == "" {
		return MediaEvent{}, fmt.Errorf("event has no key")
	}
	return event, nil
}
