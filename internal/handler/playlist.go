package handler

import (
	"context"
	"net/http"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

type PlaylistService interface {
	Create(ctx context.Context, viewer *model.User, req *model.PlaylistRequest) (*model.Playlist, error)
	ListByUser(ctx context.Context, ownerID int64, params model.ListParams) (*model.Page[model.PlaylistSummary], error)
	Get(ctx context.Context, id int64, viewer *model.User) (*model.PlaylistDetail, error)
	AddVideo(ctx context.Context, viewer *model.User, playlistID, videoID int64) error
	RemoveVideo(ctx context.Context, viewer *model.User, playlistID, videoID int64) error
	Update(ctx context.Context, viewer *model.User, id int64, req *model.PlaylistRequest) (*model.Playlist, error)
	Delete(ctx context.Context, viewer *model.User, id int64) error
}

type PlaylistHandler struct {
	playlists PlaylistService
}

func NewPlaylistHandler(playlists PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

// Create POST /playlists
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PlaylistRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	p, err := h.playlists.Create(r.Context(), viewer(r), &req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

// ListByUser GET /playlists/user/{userId}
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	page, err := h.playlists.ListByUser(r.Context(), userID, listParams(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// Get GET /playlists/{id}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	p, err := h.playlists.Get(r.Context(), id, viewer(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// AddVideo POST /playlists/{id}/videos/{videoId}
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	h.entry(w, r, h.playlists.AddVideo, "Video added to playlist")
}

// RemoveVideo DELETE /playlists/{id}/videos/{videoId}
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	h.entry(w, r, h.playlists.RemoveVideo, "Video removed from playlist")
}

func (h *PlaylistHandler) entry(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, viewer *model.User, playlistID, videoID int64) error,
	done string,
) {
	playlistID, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	videoID, err := pathID(r, "videoId")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	if err := apply(r.Context(), viewer(r), playlistID, videoID); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, message(done))
}

// Update PUT /playlists/{id}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	var req model.PlaylistRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	p, err := h.playlists.Update(r.Context(), viewer(r), id, &req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// Delete DELETE /playlists/{id}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	if err := h.playlists.Delete(r.Context(), viewer(r), id); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, message("Playlist deleted successfully"))
}
