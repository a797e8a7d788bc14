package handler

import (
	"context"
	"net/http"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

type TweetService interface {
	Create(ctx context.Context, viewer *model.User, req *model.TweetRequest) (*model.Tweet, error)
	ListByUser(ctx context.Context, ownerID int64, viewer *model.User, params model.ListParams) (*model.Page[model.TweetView], error)
	Update(ctx context.Context, viewer *model.User, id int64, req *model.TweetRequest) (*model.Tweet, error)
	Delete(ctx context.Context, viewer *model.User, id int64) error
}

type TweetHandler struct {
	tweets TweetService
}

func NewTweetHandler(tweets TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

// Create POST /tweets
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TweetRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	t, err := h.tweets.Create(r.Context(), viewer(r), &req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

// Mine GET /tweets/my-tweets
func (h *TweetHandler) Mine(w http.ResponseWriter, r *http.Request) {
	me := viewer(r)
	h.list(w, r, me.ID)
}

// ListByUser GET /tweets/user/{userId}
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	h.list(w, r, userID)
}

func (h *TweetHandler) list(w http.ResponseWriter, r *http.Request, ownerID int64) {
	page, err := h.tweets.ListByUser(r.Context(), ownerID, viewer(r), listParams(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// Update PUT /tweets/{id}
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	var req model.TweetRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	t, err := h.tweets.Update(r.Context(), viewer(r), id, &req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

// Delete DELETE /tweets/{id}
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	if err := h.tweets.Delete(r.Context(), viewer(r), id); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, message("Tweet deleted successfully"))
}
