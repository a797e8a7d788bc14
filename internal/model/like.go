package model

import (
	"time"

	"vidtube/internal/apperr"
)

// LikeTarget names which column of the likes table a like points at.
type LikeTarget string

const (
	LikeVideo   LikeTarget = "video"
	LikeComment LikeTarget = "comment"
	LikeTweet   LikeTarget = "tweet"
)

// Column returns the likes column holding the target id.
func (t LikeTarget) Column() string {
	switch t {
	case LikeComment:
		return "comment_id"
	case LikeTweet:
		return "tweet_id"
	default:
		return "video_id"
	}
}

// Like is an edge between a liker and exactly one target.
type Like struct {
	ID        int64     `db:"id" json:"id"`
	LikerID   int64     `db:"liker_id" json:"likerId"`
	VideoID   *int64    `db:"video_id" json:"videoId,omitempty"`
	CommentID *int64    `db:"comment_id" json:"commentId,omitempty"`
	TweetID   *int64    `db:"tweet_id" json:"tweetId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// LikeKey identifies a like edge.
type LikeKey struct {
	LikerID  int64
	Target   LikeTarget
	TargetID int64
}

var ErrInvalidLikeTarget = apperr.Invalid("invalid like target")
