package model

import (
	"vidtube/internal/apperr"
)

// ChannelStats aggregates a channel's totals for its dashboard.
type ChannelStats struct {
	TotalVideos      int64 `db:"total_videos" json:"totalVideos"`
	TotalViews       int64 `db:"total_views" json:"totalViews"`
	TotalSubscribers int64 `db:"total_subscribers" json:"totalSubscribers"`
	TotalLikes       int64 `db:"total_likes" json:"totalLikes"`
}

// SearchResult groups matching videos and channels.
type SearchResult struct {
	Videos   []Video       `json:"videos"`
	Channels []UserSummary `json:"channels"`
}

// SearchLimit bounds each result group.
const SearchLimit = 20

var ErrSearchQueryRequired = apperr.Invalid("search query is required")
