package model

import (
	"time"

	"vidtube/internal/apperr"
)

// Tweet is a short text post on a channel.
type Tweet struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"ownerId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Owner *UserSummary `db:"owner" json:"owner,omitempty"`
}

func (t *Tweet) OwnerRef() int64 { return t.OwnerID }

type TweetView struct {
	Tweet
	LikesCount int64 `db:"likes_count" json:"likesCount"`
	IsLiked    bool  `db:"is_liked" json:"isLiked"`
}

type TweetRequest struct {
	Content string `json:"content"`
}

const MaxTweetLength = 280

var (
	ErrTweetNotFound = apperr.New(apperr.NotFound, "tweet not found")
	ErrNotTweetOwner = apperr.New(apperr.Forbidden, "you are not allowed to modify this tweet")
)
