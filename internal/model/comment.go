package model

import (
	"time"

	"vidtube/internal/apperr"
)

// Comment represents a comment on a video.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	VideoID   int64     `db:"video_id" json:"videoId"`
	OwnerID   int64     `db:"owner_id" json:"ownerId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Owner *UserSummary `db:"owner" json:"owner,omitempty"` // Joined field
}

func (c *Comment) OwnerRef() int64 { return c.OwnerID }

// CommentView is a listed comment with its like aggregates.
type CommentView struct {
	Comment
	LikesCount int64 `db:"likes_count" json:"likesCount"`
	IsLiked    bool  `db:"is_liked" json:"isLiked"`
}

// CommentRequest is the request body for creating or updating a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// Comment constraints
const (
	MaxCommentLength = 2000
)

// Comment errors
var (
	ErrCommentNotFound = apperr.New(apperr.NotFound, "comment not found")
	ErrNotCommentOwner = apperr.New(apperr.Forbidden, "you are not allowed to modify this comment")
	ErrContentRequired = apperr.Invalid("content is required")
	ErrContentTooLong  = apperr.Invalid("content too long")
)
