package service

import (
	"context"

	"vidtube/internal/logging"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// StatsCache is the read-through cache in front of dashboard aggregates.
type StatsCache interface {
	StatsInvalidator
	Get(ctx context.Context, channelID int64) (*model.ChannelStats, bool, error)
	Set(ctx context.Context, channelID int64, stats *model.ChannelStats) error
}

type DashboardService struct {
	repo  repository.DashboardRepository
	cache StatsCache
}

// NewDashboardService creates the service. cache may be nil.
func NewDashboardService(repo repository.DashboardRepository, cache StatsCache) *DashboardService {
	return &DashboardService{repo: repo, cache: cache}
}

// ChannelStats returns the viewer's channel totals. Cache errors fall back to
// the store.
func (s *DashboardService) ChannelStats(ctx context.Context, viewer *model.User) (*model.ChannelStats, error) {
	if s.cache == nil {
		return s.repo.ChannelStats(ctx, viewer.ID)
	}

	log := logging.Component(ctx, "dashboard").WithField("channel", viewer.ID)
	cached, found, err := s.cache.Get(ctx, viewer.ID)
	if err != nil {
		log.WithError(err).Warn("stats cache read failed")
	}
	if found {
		return cached, nil
	}

	stats, err := s.repo.ChannelStats(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, viewer.ID, stats); err != nil {
		log.WithError(err).Warn("stats cache write failed")
	}
	return stats, nil
}
