package model

import (
	"vidtube/internal/apperr"
)

// Token errors. They are distinct inside the service so reuse can be logged, but
// the refresh endpoint writes all of them as the same 401.
var (
	ErrTokenMissing       = apperr.New(apperr.Unauthorized, "missing authentication token")
	ErrTokenInvalid       = apperr.NewCode(apperr.Unauthorized, CodeTokenInvalid, "invalid authentication token")
	ErrTokenExpired       = apperr.NewCode(apperr.Unauthorized, CodeTokenExpired, "authentication token has expired")
	ErrRefreshTokenReused = apperr.NewCode(apperr.Unauthorized, CodeTokenReused, "refresh token reuse detected")
	ErrRefreshRejected    = apperr.New(apperr.Unauthorized, "invalid refresh token")
)

// Token API error codes (used in HTTP responses)
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
	CodeTokenReused  = "TOKEN_REUSED"
)

// TokenPair represents both tokens returned after login/refresh
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // Seconds until access token expires
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// RefreshRequest is the request body for POST /users/refresh-token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
