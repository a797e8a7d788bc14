package model

import (
	"time"

	"vidtube/internal/apperr"
)

type Playlist struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"ownerId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

func (p *Playlist) OwnerRef() int64 { return p.OwnerID }

// PlaylistSummary is a playlist row in a user's playlist listing.
type PlaylistSummary struct {
	Playlist
	VideoCount int64 `db:"video_count" json:"videoCount"`
}

// PlaylistDetail is a playlist with its ordered videos.
type PlaylistDetail struct {
	Playlist
	Owner  *UserSummary `json:"owner,omitempty"`
	Videos []Video      `json:"videos"`
}

type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

const MaxPlaylistNameLength = 100

var (
	ErrPlaylistNotFound   = apperr.New(apperr.NotFound, "playlist not found")
	ErrNotPlaylistOwner   = apperr.New(apperr.Forbidden, "you are not allowed to modify this playlist")
	ErrNameRequired       = apperr.Invalid("name is required")
	ErrNameTooLong        = apperr.Invalid("name too long")
	ErrVideoAlreadyInList = apperr.New(apperr.Conflict, "video already in playlist")
	ErrVideoNotInList     = apperr.New(apperr.NotFound, "video not in playlist")
)
