package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
)

type dashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) ChannelStats(ctx context.Context, channelID int64) (*model.ChannelStats, error) {
	q := `
		SELECT
			(SELECT COUNT(*) FROM videos WHERE owner_id = $1) AS total_videos,
			(SELECT COALESCE(SUM(views), 0)::BIGINT FROM videos WHERE owner_id = $1) AS total_views,
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1) AS total_subscribers,
			(SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.video_id WHERE v.owner_id = $1) AS total_likes
	`
	var stats model.ChannelStats
	if err := r.db.GetContext(ctx, &stats, q, channelID); err != nil {
		return nil, fmt.Errorf("failed to get channel stats: %w", err)
	}
	return &stats, nil
}
