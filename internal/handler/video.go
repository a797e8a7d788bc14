package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"vidtube/internal/apperr"
	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

// VideoService is the video surface used by VideoHandler.
type VideoService interface {
	List(ctx context.Context, params model.VideoListParams) (*model.Page[model.Video], error)
	Upload(ctx context.Context, viewer *model.User, req *model.UploadVideoRequest) (*model.Video, error)
	Get(ctx context.Context, id int64, viewer *model.User) (*model.VideoDetail, error)
	Update(ctx context.Context, viewer *model.User, id int64, req *model.UpdateVideoRequest) (*model.Video, error)
	Delete(ctx context.Context, viewer *model.User, id int64) error
	TogglePublish(ctx context.Context, viewer *model.User, id int64) (*model.Video, error)
	Search(ctx context.Context, term string) (*model.SearchResult, error)
}

type VideoHandler struct {
	videos VideoService
}

func NewVideoHandler(videos VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// List GET /videos?page&limit&query&sortBy&sortType&userId
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	params := model.VideoListParams{
		ListParams: listParams(r),
		Query:      strings.TrimSpace(r.URL.Query().Get("query")),
	}
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteAppError(w, r, apperr.Invalid("invalid userId"))
			return
		}
		params.OwnerID = &id
	}

	page, err := h.videos.List(r.Context(), params)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// Upload handles the multipart video upload: title, description, duration,
// videofile (or video) and thumbnail (or thumb).
// POST /videos
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, model.MaxVideoSize+model.MaxImageSizeBytes+1<<20); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	req := &model.UploadVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.WriteAppError(w, r, model.ErrInvalidDuration)
			return
		}
		req.Duration = d
	}

	video, closeVideo, err := formFile(r, "videofile", "videoFile", "video")
	defer closeVideo()
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	thumb, closeThumb, err := formFile(r, "thumbnail", "thumb")
	defer closeThumb()
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	if video != nil {
		req.Video = *video
	}
	if thumb != nil {
		req.Thumbnail = *thumb
	}

	v, err := h.videos.Upload(r.Context(), viewer(r), req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

// Get GET /videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	v, err := h.videos.Get(r.Context(), id, viewer(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

// Update accepts either multipart (title, description, thumbnail) or a JSON
// body with title and description.
// PATCH /videos/{id}
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	req := &model.UpdateVideoRequest{}
	if isMultipart(r) {
		if err := parseMultipart(w, r, model.MaxImageSizeBytes+1<<20); err != nil {
			httputil.WriteAppError(w, r, err)
			return
		}
		req.Title = formValue(r, "title")
		req.Description = formValue(r, "description")

		thumb, closeThumb, err := formFile(r, "thumbnail", "thumb")
		defer closeThumb()
		if err != nil {
			httputil.WriteAppError(w, r, err)
			return
		}
		req.Thumbnail = thumb
	} else {
		var body struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
		}
		if err := httputil.DecodeJSON(w, r, &body); err != nil {
			httputil.WriteAppError(w, r, err)
			return
		}
		req.Title, req.Description = body.Title, body.Description
	}

	v, err := h.videos.Update(r.Context(), viewer(r), id, req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

// Delete DELETE /videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	if err := h.videos.Delete(r.Context(), viewer(r), id); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, message("Video deleted successfully"))
}

// TogglePublish PATCH /videos/{id}/toggle
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	v, err := h.videos.TogglePublish(r.Context(), viewer(r), id)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

// Search GET /search?query=
func (h *VideoHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.videos.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// formValue distinguishes an absent field (nil) from an empty one.
func formValue(r *http.Request, field string) *string {
	if vs, ok := r.MultipartForm.Value[field]; ok && len(vs) > 0 {
		return &vs[0]
	}
	return nil
}
