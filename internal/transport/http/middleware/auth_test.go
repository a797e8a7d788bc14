package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

type fakeAuthenticator struct {
	users map[string]*model.User
	seen  []string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*model.User, error) {
	f.seen = append(f.seen, token)
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, model.ErrTokenInvalid
}

func newFakeAuthenticator() *fakeAuthenticator {
	return &fakeAuthenticator{users: map[string]*model.User{
		"cookie-token": {ID: 1, Username: "cookie"},
		"header-token": {ID: 2, Username: "header"},
	}}
}

// echoUser writes the resolved username, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	name := "anonymous"
	if u := UserFromContext(r.Context()); u != nil {
		name = u.Username
	}
	_, _ = w.Write([]byte(name))
})

func request(cookie, bearer string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: httputil.AccessTokenCookie, Value: cookie})
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		bearer     string
		wantStatus int
		wantBody   string
		wantCode   string
	}{
		{"cookie", "cookie-token", "", http.StatusOK, "cookie", ""},
		{"header", "", "header-token", http.StatusOK, "header", ""},
		{"cookie wins over header", "cookie-token", "header-token", http.StatusOK, "cookie", ""},
		{"cookie wins even when invalid", "bogus", "header-token", http.StatusUnauthorized, "", model.CodeTokenInvalid},
		{"missing", "", "", http.StatusUnauthorized, "", "UNAUTHORIZED"},
		{"invalid", "", "bogus", http.StatusUnauthorized, "", model.CodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			auth := newFakeAuthenticator()
			h := Auth(auth)(echoUser)
			rec := httptest.NewRecorder()

			// ACT
			h.ServeHTTP(rec, request(tt.cookie, tt.bearer))

			// ASSERT
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode == "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			var body httputil.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestAuth_MissingTokenSkipsLookup(t *testing.T) {
	auth := newFakeAuthenticator()
	rec := httptest.NewRecorder()

	Auth(auth)(echoUser).ServeHTTP(rec, request("", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, auth.seen)
}

func TestAuth_MalformedHeaderIgnored(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token header-token")
	rec := httptest.NewRecorder()

	Auth(newFakeAuthenticator())(echoUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		bearer   string
		wantBody string
	}{
		{"anonymous", "", "", "anonymous"},
		{"valid", "", "header-token", "header"},
		{"invalid falls back to anonymous", "bogus", "", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			OptionalAuth(newFakeAuthenticator())(echoUser).ServeHTTP(rec, request(tt.cookie, tt.bearer))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
