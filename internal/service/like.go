package service

import (
	"context"
	"errors"

	"vidtube/internal/edge"
	"vidtube/internal/model"
	"vidtube/internal/query"
	"vidtube/internal/repository"
)

type LikeService struct {
	likes    repository.LikeRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
	stats    StatsInvalidator
}

func NewLikeService(
	likes repository.LikeRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	tweets repository.TweetRepository,
	stats StatsInvalidator,
) *LikeService {
	return &LikeService{
		likes:    likes,
		videos:   videos,
		comments: comments,
		tweets:   tweets,
		stats:    stats,
	}
}

// Toggle likes or unlikes a target and reports whether it is liked afterwards.
// The target must exist. A video, or the video a comment belongs to, must be
// visible to the viewer.
func (s *LikeService) Toggle(ctx context.Context, viewer *model.User, target model.LikeTarget, targetID int64) (bool, error) {
	var videoOwner int64
	switch target {
	case model.LikeVideo:
		v, err := visibleVideo(ctx, s.videos, targetID, viewer)
		if err != nil {
			return false, err
		}
		videoOwner = v.OwnerID
	case model.LikeComment:
		c, err := s.comments.GetByID(ctx, targetID)
		if err != nil {
			return false, err
		}
		if _, err := visibleVideo(ctx, s.videos, c.VideoID, viewer); err != nil {
			if errors.Is(err, model.ErrVideoNotFound) {
				return false, model.ErrCommentNotFound
			}
			return false, err
		}
	case model.LikeTweet:
		if _, err := s.tweets.GetByID(ctx, targetID); err != nil {
			return false, err
		}
	default:
		return false, model.ErrInvalidLikeTarget
	}

	key := model.LikeKey{LikerID: viewer.ID, Target: target, TargetID: targetID}
	outcome, err := edge.Toggle[model.LikeKey](ctx, s.likes, key)
	if err != nil {
		return false, err
	}

	if target == model.LikeVideo {
		invalidateStats(ctx, s.stats, videoOwner)
	}
	return outcome == edge.Created, nil
}

// LikedVideos lists videos liked by userID, most recently liked first. Videos
// unpublished by their owner are hidden from everyone else.
func (s *LikeService) LikedVideos(ctx context.Context, viewer *model.User, userID int64, params model.ListParams) (*model.Page[model.LikedVideo], error) {
	page, err := query.ParsePage(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}
	return s.likes.LikedVideos(ctx, userID, viewerID(viewer), page)
}
