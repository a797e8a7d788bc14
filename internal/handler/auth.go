package handler

import (
	"context"
	"net/http"

	"vidtube/internal/apperr"
	"vidtube/internal/config"
	"vidtube/internal/httputil"
	"vidtube/internal/logging"
	"vidtube/internal/model"
)

// SessionService issues, rotates and revokes token pairs.
type SessionService interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenPair, error)
	Rotate(ctx context.Context, presented string) (*model.User, *model.TokenPair, error)
	Revoke(ctx context.Context, userID int64) error
}

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, form *model.RegisterForm) (*model.User, error)
}

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	users    Registrar
	sessions SessionService
	cookies  httputil.CookieOptions
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(users Registrar, sessions SessionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		cookies: httputil.CookieOptions{
			Secure:        cfg.CookieSecure,
			AccessMaxAge:  cfg.AccessTokenMaxAge,
			RefreshMaxAge: cfg.RefreshTokenMaxAge,
		},
	}
}

// Register handles multipart sign-up: username, email, fullname, password,
// avatar (required) and coverImage (optional).
// POST /users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, 2*model.MaxImageSizeBytes+1<<20); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	avatar, closeAvatar, err := formFile(r, "avatar")
	defer closeAvatar()
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}
	cover, closeCover, err := formFile(r, "coverImage")
	defer closeCover()
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), &model.RegisterForm{
		Username:   r.FormValue("username"),
		Email:      r.FormValue("email"),
		FullName:   r.FormValue("fullname"),
		Password:   r.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Login accepts username or email plus password and sets the session cookies.
// POST /users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	user, pair, err := h.sessions.Login(r.Context(), &req)
	if err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	httputil.SetTokenCookies(w, h.cookies, pair.AccessToken, pair.RefreshToken)
	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Refresh rotates the session. The refresh token comes from the refreshToken
// cookie or the JSON body. Every rejection is the same 401.
// POST /users/refresh-token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(httputil.RefreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var req model.RefreshRequest
		if err := httputil.DecodeJSON(w, r, &req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		httputil.WriteAppError(w, r, model.ErrRefreshRejected)
		return
	}

	_, pair, err := h.sessions.Rotate(r.Context(), token)
	if err != nil {
		if apperr.KindOf(err) == apperr.Unauthorized {
			logging.Component(r.Context(), "auth").WithError(err).Info("refresh rejected")
			httputil.ClearTokenCookies(w, h.cookies)
			err = model.ErrRefreshRejected
		}
		httputil.WriteAppError(w, r, err)
		return
	}

	httputil.SetTokenCookies(w, h.cookies, pair.AccessToken, pair.RefreshToken)
	httputil.WriteJSON(w, http.StatusOK, pair)
}

// Logout revokes the refresh token and clears the cookies.
// POST /users/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), viewer(r).ID); err != nil {
		httputil.WriteAppError(w, r, err)
		return
	}

	httputil.ClearTokenCookies(w, h.cookies)
	httputil.WriteJSON(w, http.StatusOK, message("Logged out successfully"))
}
