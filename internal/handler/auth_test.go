package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/config"
	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

type fakeSessions struct {
	user      *model.User
	pair      *model.TokenPair
	loginErr  error
	rotateErr error
	rotated   []string
	revoked   []int64
}

func (f *fakeSessions) Login(_ context.Context, _ *model.LoginRequest) (*model.User, *model.TokenPair, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return f.user, f.pair, nil
}

func (f *fakeSessions) Rotate(_ context.Context, presented string) (*model.User, *model.TokenPair, error) {
	f.rotated = append(f.rotated, presented)
	if f.rotateErr != nil {
		return nil, nil, f.rotateErr
	}
	return f.user, f.pair, nil
}

func (f *fakeSessions) Revoke(_ context.Context, userID int64) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

type fakeRegistrar struct {
	form *model.RegisterForm
	body []byte
	err  error
}

func (f *fakeRegistrar) Register(_ context.Context, form *model.RegisterForm) (*model.User, error) {
	f.form = form
	if form.Avatar != nil {
		f.body, _ = io.ReadAll(form.Avatar.Reader)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &model.User{ID: 1, Username: form.Username}, nil
}

func newAuthHandler() (*AuthHandler, *fakeSessions, *fakeRegistrar) {
	sessions := &fakeSessions{
		user: &model.User{ID: 7, Username: "alice"},
		pair: &model.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 900},
	}
	reg := &fakeRegistrar{}
	cfg := &config.Config{CookieSecure: true, AccessTokenMaxAge: 900, RefreshTokenMaxAge: 864000}
	return NewAuthHandler(reg, sessions, cfg), sessions, reg
}

func TestAuthHandler_Login(t *testing.T) {
	// ARRANGE
	h, _, _ := newAuthHandler()
	req := jsonRequest(http.MethodPost, "/login", map[string]string{"username": "alice", "password": "secret123"})

	// ACT
	rec := serve(http.MethodPost, "/login", h.Login, req, nil)

	// ASSERT
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := cookieMap(rec)
	assert.Equal(t, "new-access", cookies[httputil.AccessTokenCookie].Value)
	assert.Equal(t, "new-refresh", cookies[httputil.RefreshTokenCookie].Value)
	assert.True(t, cookies[httputil.AccessTokenCookie].HttpOnly)

	body := decode[model.LoginResponse](t, rec)
	assert.Equal(t, "alice", body.User.Username)
	assert.Equal(t, "new-access", body.AccessToken)
	assert.Equal(t, 900, body.ExpiresIn)
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name       string
		loginErr   error
		wantStatus int
	}{
		{name: "bad credentials", loginErr: model.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "missing login", loginErr: model.ErrLoginRequired, wantStatus: http.StatusBadRequest},
		{name: "store failure", loginErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sessions, _ := newAuthHandler()
			sessions.loginErr = tt.loginErr

			rec := serve(http.MethodPost, "/login", h.Login, jsonRequest(http.MethodPost, "/login", map[string]string{}), nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestAuthHandler_Refresh_TokenSources(t *testing.T) {
	t.Run("cookie", func(t *testing.T) {
		h, sessions, _ := newAuthHandler()
		req := jsonRequest(http.MethodPost, "/refresh", map[string]string{"refreshToken": "from-body"})
		req.AddCookie(&http.Cookie{Name: httputil.RefreshTokenCookie, Value: "from-cookie"})

		rec := serve(http.MethodPost, "/refresh", h.Refresh, req, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"from-cookie"}, sessions.rotated)
		assert.Equal(t, "new-refresh", cookieMap(rec)[httputil.RefreshTokenCookie].Value)
	})

	t.Run("body", func(t *testing.T) {
		h, sessions, _ := newAuthHandler()
		req := jsonRequest(http.MethodPost, "/refresh", map[string]string{"refreshToken": "from-body"})

		rec := serve(http.MethodPost, "/refresh", h.Refresh, req, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"from-body"}, sessions.rotated)
		pair := decode[model.TokenPair](t, rec)
		assert.Equal(t, "new-access", pair.AccessToken)
	})
}

func TestAuthHandler_Refresh_RejectionsLookAlike(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		rotateErr error
	}{
		{"missing", "", nil},
		{"reused", "old", model.ErrRefreshTokenReused},
		{"expired", "old", model.ErrTokenExpired},
		{"invalid", "old", model.ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sessions, _ := newAuthHandler()
			sessions.rotateErr = tt.rotateErr

			rec := serve(http.MethodPost, "/refresh", h.Refresh,
				jsonRequest(http.MethodPost, "/refresh", map[string]string{"refreshToken": tt.token}), nil)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			body := errorBody(t, rec)
			assert.Equal(t, model.ErrRefreshRejected.Code, body.Code)
			assert.Equal(t, model.ErrRefreshRejected.Message, body.Message)
		})
	}
}

func TestAuthHandler_Refresh_StoreFailureIsNot401(t *testing.T) {
	h, sessions, _ := newAuthHandler()
	sessions.rotateErr = errors.New("connection reset")

	rec := serve(http.MethodPost, "/refresh", h.Refresh,
		jsonRequest(http.MethodPost, "/refresh", map[string]string{"refreshToken": "t"}), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	h, sessions, _ := newAuthHandler()

	rec := serve(http.MethodPost, "/logout", h.Logout, httptest.NewRequest(http.MethodPost, "/logout", nil), &model.User{ID: 7})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{7}, sessions.revoked)
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
	}
}

func TestAuthHandler_Register(t *testing.T) {
	h, _, reg := newAuthHandler()
	req := multipartRequest(t, http.MethodPost, "/register",
		map[string]string{"username": "alice", "email": "a@example.com", "fullname": "Alice", "password": "secret123"},
		filePart{"avatar", "image/png", "png-bytes"},
	)

	rec := serve(http.MethodPost, "/register", h.Register, req, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, reg.form)
	assert.Equal(t, "alice", reg.form.Username)
	assert.Equal(t, "Alice", reg.form.FullName)
	require.NotNil(t, reg.form.Avatar)
	assert.Equal(t, "image/png", reg.form.Avatar.ContentType)
	assert.Equal(t, "png-bytes", string(reg.body))
	assert.Nil(t, reg.form.CoverImage)
}

func TestAuthHandler_Register_RequiresMultipart(t *testing.T) {
	h, _, reg := newAuthHandler()

	rec := serve(http.MethodPost, "/register", h.Register,
		jsonRequest(http.MethodPost, "/register", map[string]string{"username": "alice"}), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, reg.form)
}
