package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

// AccountService is the account surface used by UserHandler.
type AccountService interface {
	ChangePassword(ctx context.Context, viewer *model.User, req *model.ChangePasswordRequest) error
	UpdateAccount(ctx context.Context, viewer *model.User, req *model.UpdateAccountRequest) (*model.User, error)
	UpdateAvatar(ctx context.Context, viewer *model.User, file *model.MediaFile) (*model.User, error)
	UpdateCoverImage(ctx context.Context, viewer *model.User, file *model.MediaFile) (*model.User, error)
	ChannelProfile(ctx context.Context, username string, viewer *model.User) (*model.ChannelProfile, error)
	WatchHistory(ctx context.Context, viewer *model.User, params model.ListParams) (*model.Page[model.WatchHistoryEntry], error)
}

type UserHandler struct {
	users AccountService
}

func NewUserHandler(users AccountService) *UserHandler {
	return &UserHandler{users: users}
}

// CurrentUser GET /users/current-user
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, viewer(r))
}

// ChangePassword POST /users/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePasswordRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	if err := h.users.ChangePassword(r.Context(), viewer(r), &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, message("Password changed successfully"))
}

// UpdateAccount PATCH /users/update-details
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateAccountRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	user, err := h.users.UpdateAccount(r.Context(), viewer(r), &req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateAvatar PATCH /users/change-avatar
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "avatar", h.users.UpdateAvatar)
}

// UpdateCoverImage PATCH /users/change-coverImage
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "coverImage", h.users.UpdateCoverImage)
}

func (h *UserHandler) replaceImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(context.Context, *model.User, *model.MediaFile) (*model.User, error),
) {
	if err := parseMultipart(w, r, model.MaxImageSizeBytes+1<<20); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	file, closeFile, err := formFile(r, field)
	defer closeFile()
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	user, err := update(r.Context(), viewer(r), file)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// ChannelProfile GET /users/c/{username}
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.ChannelProfile(r.Context(), chi.URLParam(r, "username"), viewer(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

// WatchHistory GET /users/watch-history
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.WatchHistory(r.Context(), viewer(r), listParams(r))
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}
