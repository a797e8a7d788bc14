package service

import (
	"context"
	"errors"

	"vidtube/internal/edge"
	"vidtube/internal/model"
	"vidtube/internal/query"
	"vidtube/internal/repository"
)

type SubscriptionService struct {
	subs  repository.SubscriptionRepository
	users repository.UserRepository
	stats StatsInvalidator
}

func NewSubscriptionService(subs repository.SubscriptionRepository, users repository.UserRepository, stats StatsInvalidator) *SubscriptionService {
	return &SubscriptionService{subs: subs, users: users, stats: stats}
}

// Toggle subscribes viewer to channelID, or unsubscribes when already
// subscribed. It reports whether the viewer is subscribed afterwards.
func (s *SubscriptionService) Toggle(ctx context.Context, viewer *model.User, channelID int64) (bool, error) {
	if viewer.ID == channelID {
		return false, model.ErrCannotSubscribeSelf
	}
	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return false, model.ErrChannelNotFound
		}
		return false, err
	}

	key := model.SubscriptionKey{SubscriberID: viewer.ID, ChannelID: channelID}
	outcome, err := edge.Toggle[model.SubscriptionKey](ctx, s.subs, key)
	if err != nil {
		return false, err
	}

	invalidateStats(ctx, s.stats, channelID)
	return outcome == edge.Created, nil
}

// Subscribers lists users subscribed to channelID. An unknown channel has none.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID int64, params model.ListParams) (*model.Page[model.SubscriptionEntry], error) {
	page, err := query.ParsePage(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}
	return s.subs.ListSubscribers(ctx, channelID, page)
}

// SubscribedChannels lists channels subscriberID follows.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID int64, params model.ListParams) (*model.Page[model.SubscriptionEntry], error) {
	page, err := query.ParsePage(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}
	return s.subs.ListSubscribedChannels(ctx, subscriberID, page)
}
