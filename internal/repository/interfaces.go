package repository

import (
	"context"

	"vidtube/internal/edge"
	"vidtube/internal/model"
	"vidtube/internal/query"
)

type UserRepository interface {
	Create(ctx context.Context, req *model.RegisterRequest, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateAccount(ctx context.Context, id int64, fullName, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, id int64, url, key string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, id int64, url, key string) (*model.User, error)
	ChannelProfile(ctx context.Context, username string, viewer *int64) (*model.ChannelProfile, error)
	SearchChannels(ctx context.Context, term string, limit int) ([]model.UserSummary, error)
	// Watch history
	AddToWatchHistory(ctx context.Context, userID, videoID int64) error
	WatchHistory(ctx context.Context, userID int64, page query.Paginate) (*model.Page[model.WatchHistoryEntry], error)
}

// CredentialRepository is the only reader and writer of password and refresh-token digests.
type CredentialRepository interface {
	GetByLogin(ctx context.Context, username, email string) (*model.Credentials, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Credentials, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SetRefreshHash(ctx context.Context, userID int64, hash string) error
	// SwapRefreshHash replaces oldHash with newHash in one conditional update and
	// reports whether the stored value matched.
	SwapRefreshHash(ctx context.Context, userID int64, oldHash, newHash string) (bool, error)
	ClearRefreshHash(ctx context.Context, userID int64) error
}

// VideoFilter is a parsed video listing request.
type VideoFilter struct {
	Query              string
	OwnerID            *int64
	IncludeUnpublished bool
	Sort               query.Sort
	Page               query.Paginate
}

type VideoRepository interface {
	Create(ctx context.Context, v *model.Video) error
	GetByID(ctx context.Context, id int64) (*model.Video, error)
	GetDetail(ctx context.Context, id int64, viewer *int64) (*model.VideoDetail, error)
	IncrementViews(ctx context.Context, id int64) error
	Update(ctx context.Context, v *model.Video) error
	SetPublished(ctx context.Context, id int64, published bool) (*model.Video, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f VideoFilter) (*model.Page[model.Video], error)
}

type CommentRepository interface {
	Create(ctx context.Context, videoID, ownerID int64, content string) (*model.Comment, error)
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	Update(ctx context.Context, id int64, content string) (*model.Comment, error)
	Delete(ctx context.Context, id int64) error
	ListByVideo(ctx context.Context, videoID int64, viewer *int64, sort query.Sort, page query.Paginate) (*model.Page[model.CommentView], error)
}

type TweetRepository interface {
	Create(ctx context.Context, ownerID int64, content string) (*model.Tweet, error)
	GetByID(ctx context.Context, id int64) (*model.Tweet, error)
	Update(ctx context.Context, id int64, content string) (*model.Tweet, error)
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64, viewer *int64, page query.Paginate) (*model.Page[model.TweetView], error)
}

type SubscriptionRepository interface {
	edge.Store[model.SubscriptionKey]
	ListSubscribers(ctx context.Context, channelID int64, page query.Paginate) (*model.Page[model.SubscriptionEntry], error)
	ListSubscribedChannels(ctx context.Context, subscriberID int64, page query.Paginate) (*model.Page[model.SubscriptionEntry], error)
}

type LikeRepository interface {
	edge.Store[model.LikeKey]
	LikedVideos(ctx context.Context, userID int64, viewer *int64, page query.Paginate) (*model.Page[model.LikedVideo], error)
}

type PlaylistRepository interface {
	Create(ctx context.Context, ownerID int64, name, description string) (*model.Playlist, error)
	GetByID(ctx context.Context, id int64) (*model.Playlist, error)
	Update(ctx context.Context, id int64, name, description string) (*model.Playlist, error)
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64, page query.Paginate) (*model.Page[model.PlaylistSummary], error)
	Videos(ctx context.Context, playlistID int64) ([]model.Video, error)
	AddVideo(ctx context.Context, playlistID, videoID int64) error
	RemoveVideo(ctx context.Context, playlistID, videoID int64) error
}

type DashboardRepository interface {
	ChannelStats(ctx context.Context, channelID int64) (*model.ChannelStats, error)
}
