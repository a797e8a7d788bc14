package handler

import (
	"context"
	"net/http"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

type CommentService interface {
	List(ctx context.Context, videoID int64, viewer *model.User, params model.ListParams) (*model.Page[model.CommentView], error)
	Add(ctx context.Context, viewer *model.User, videoID int64, req *model.CommentRequest) (*model.Comment, error)
	Update(ctx context.Context, viewer *model.User, id int64, req *model.CommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, viewer *model.User, id int64) error
}

type CommentHandler struct {
	comments CommentService
}

func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List GET /comments/{id} where id is the video.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	page, err := h.comments.List(r.Context(), videoID, viewer(r), listParams(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// Add POST /comments/{id} where id is the video.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	var req model.CommentRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	c, err := h.comments.Add(r.Context(), viewer(r), videoID, &req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

// Update PATCH /comments/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	var req model.CommentRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	c, err := h.comments.Update(r.Context(), viewer(r), id, &req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// Delete DELETE /comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	if err := h.comments.Delete(r.Context(), viewer(r), id); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, message("Comment deleted successfully"))
}
