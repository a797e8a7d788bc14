package model

import (
	"time"

	"vidtube/internal/apperr"
)

// Video represents an uploaded video with its metadata.
type Video struct {
	ID           int64     `db:"id" json:"id"`
	OwnerID      int64     `db:"owner_id" json:"ownerId"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	VideoURL     string    `db:"video_url" json:"videoFile"`
	VideoKey     string    `db:"video_key" json:"-"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail"`
	ThumbnailKey string    `db:"thumbnail_key" json:"-"`
	Views        int64     `db:"views" json:"views"`
	IsPublished  bool      `db:"is_published" json:"isPublished"`
	Duration     float64   `db:"duration" json:"duration"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	// Joined fields (not in videos table)
	Owner *UserSummary `db:"owner" json:"owner,omitempty"`
}

// OwnerRef implements policy.Owned.
func (v *Video) OwnerRef() int64 { return v.OwnerID }

// VideoDetail is a single video with like aggregates relative to the viewer.
type VideoDetail struct {
	Video
	LikesCount int64 `db:"likes_count" json:"likesCount"`
	IsLiked    bool  `db:"is_liked" json:"isLiked"`
}

// LikedVideo is a video in a user's liked list.
type LikedVideo struct {
	Video
	LikedAt time.Time `db:"liked_at" json:"likedAt"`
}

// VideoListParams are the raw (unparsed) list parameters from the query string.
type VideoListParams struct {
	ListParams
	Query   string
	OwnerID *int64
}

// UploadVideoRequest carries validated upload fields; media are attached by the handler.
type UploadVideoRequest struct {
	Title       string
	Description string
	Duration    float64
	Video       MediaFile
	Thumbnail   MediaFile
}

// UpdateVideoRequest holds optional updates; a nil Thumbnail keeps the current one.
type UpdateVideoRequest struct {
	Title       *string
	Description *string
	Thumbnail   *MediaFile
}

const (
	MaxVideoTitleLength = 200
	MaxVideoSize        = 512 * 1024 * 1024
)

var (
	ErrVideoNotFound     = apperr.New(apperr.NotFound, "video not found")
	ErrNotVideoOwner     = apperr.New(apperr.Forbidden, "you are not allowed to modify this video")
	ErrTitleRequired     = apperr.Invalid("title is required")
	ErrTitleTooLong      = apperr.Invalid("title too long")
	ErrVideoFileRequired = apperr.Invalid("video and thumbnail are required")
	ErrInvalidDuration   = apperr.Invalid("duration must be a non-negative number")
	ErrNothingToUpdate   = apperr.Invalid("at least one field is required")
)
