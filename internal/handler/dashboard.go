package handler

import (
	"context"
	"net/http"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

type StatsService interface {
	ChannelStats(ctx context.Context, viewer *model.User) (*model.ChannelStats, error)
}

type ChannelVideoLister interface {
	ChannelVideos(ctx context.Context, viewer *model.User, params model.ListParams) (*model.Page[model.Video], error)
}

// DashboardHandler serves the signed-in channel's own dashboard.
type DashboardHandler struct {
	stats  StatsService
	videos ChannelVideoLister
}

func NewDashboardHandler(stats StatsService, videos ChannelVideoLister) *DashboardHandler {
	return &DashboardHandler{stats: stats, videos: videos}
}

// Stats GET /channel/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.ChannelStats(r.Context(), viewer(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// Videos GET /channel/videos
func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	page, err := h.videos.ChannelVideos(r.Context(), viewer(r), listParams(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}
