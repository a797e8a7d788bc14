package model

import (
	"time"

	"vidtube/internal/apperr"
)

type Subscription struct {
	SubscriberID int64     `db:"subscriber_id" json:"subscriberId"`
	ChannelID    int64     `db:"channel_id" json:"channelId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// SubscriptionEntry is one row of a subscribers/subscribed-channels listing.
type SubscriptionEntry struct {
	User         UserSummary `db:"profile" json:"user"`
	SubscribedAt time.Time   `db:"subscribed_at" json:"subscribedAt"`
}

// ToggleResult is returned by every edge toggle endpoint.
type ToggleResult struct {
	Subscribed *bool `json:"subscribed,omitempty"`
	Liked      *bool `json:"liked,omitempty"`
}

var (
	ErrCannotSubscribeSelf = apperr.Invalid("cannot subscribe to your own channel")
)

// SubscriptionKey identifies a subscription edge.
type SubscriptionKey struct {
	SubscriberID int64
	ChannelID    int64
}
