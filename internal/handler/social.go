package handler

import (
	"context"
	"net/http"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

type SubscriptionService interface {
	Toggle(ctx context.Context, viewer *model.User, channelID int64) (bool, error)
	Subscribers(ctx context.Context, channelID int64, params model.ListParams) (*model.Page[model.SubscriptionEntry], error)
	SubscribedChannels(ctx context.Context, subscriberID int64, params model.ListParams) (*model.Page[model.SubscriptionEntry], error)
}

type LikeService interface {
	Toggle(ctx context.Context, viewer *model.User, target model.LikeTarget, targetID int64) (bool, error)
	LikedVideos(ctx context.Context, viewer *model.User, userID int64, params model.ListParams) (*model.Page[model.LikedVideo], error)
}

// SocialHandler serves the subscription and like edges.
type SocialHandler struct {
	subs  SubscriptionService
	likes LikeService
}

func NewSocialHandler(subs SubscriptionService, likes LikeService) *SocialHandler {
	return &SocialHandler{subs: subs, likes: likes}
}

// toggleStatus is 201 when the edge was created and 200 when it was removed.
func toggleStatus(present bool) int {
	if present {
		return http.StatusCreated
	}
	return http.StatusOK
}

// ToggleSubscription POST /subscriptions/toggle/{channelId}
func (h *SocialHandler) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channelId")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	subscribed, err := h.subs.Toggle(r.Context(), viewer(r), channelID)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, toggleStatus(subscribed), model.ToggleResult{Subscribed: &subscribed})
}

// Subscribers GET /subscriptions/channel/{channelId}/subscribers
func (h *SocialHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channelId")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	page, err := h.subs.Subscribers(r.Context(), channelID, listParams(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// SubscribedChannels GET /subscriptions/user/{subscriberId}/channels
func (h *SocialHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := pathID(r, "subscriberId")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	page, err := h.subs.SubscribedChannels(r.Context(), subscriberID, listParams(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// ToggleLike returns a handler for POST /likes/{target}/{id}/toggle.
func (h *SocialHandler) ToggleLike(target model.LikeTarget) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httputil.WriteAppError(w, r, err)
			return
		}
		liked, err := h.likes.Toggle(r.Context(), viewer(r), target, id)
		if err != nil {
			httputil.WriteAppError(w, r, err)
			return
		}
		httputil.WriteJSON(w, toggleStatus(liked), model.ToggleResult{Liked: &liked})
	}
}

// LikedVideos GET /likes/videos/{userId}
func (h *SocialHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	page, err := h.likes.LikedVideos(r.Context(), viewer(r), userID, listParams(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}
