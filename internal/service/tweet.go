package service

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/policy"
	"vidtube/internal/query"
	"vidtube/internal/repository"
)

type TweetService struct {
	tweets repository.TweetRepository
	users  repository.UserRepository
}

func NewTweetService(tweets repository.TweetRepository, users repository.UserRepository) *TweetService {
	return &TweetService{tweets: tweets, users: users}
}

func (s *TweetService) Create(ctx context.Context, viewer *model.User, req *model.TweetRequest) (*model.Tweet, error) {
	content, err := cleanText(req.Content, model.MaxTweetLength, model.ErrContentRequired, model.ErrContentTooLong)
	if err != nil {
		return nil, err
	}
	return s.tweets.Create(ctx, viewer.ID, content)
}

// ListByUser returns a user's tweets, newest first, with like aggregates
// relative to viewer.
func (s *TweetService) ListByUser(ctx context.Context, ownerID int64, viewer *model.User, params model.ListParams) (*model.Page[model.TweetView], error) {
	page, err := query.ParsePage(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.tweets.ListByOwner(ctx, ownerID, viewerID(viewer), page)
}

func (s *TweetService) Update(ctx context.Context, viewer *model.User, id int64, req *model.TweetRequest) (*model.Tweet, error) {
	content, err := cleanText(req.Content, model.MaxTweetLength, model.ErrContentRequired, model.ErrContentTooLong)
	if err != nil {
		return nil, err
	}
	t, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, t, model.ErrNotTweetOwner); err != nil {
		return nil, err
	}
	return s.tweets.Update(ctx, id, content)
}

func (s *TweetService) Delete(ctx context.Context, viewer *model.User, id int64) error {
	t, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(viewer, t, model.ErrNotTweetOwner); err != nil {
		return err
	}
	return s.tweets.Delete(ctx, id)
}
