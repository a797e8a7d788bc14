package model

import (
	"time"

	"vidtube/internal/apperr"
)

// User is the public projection of an account. It has no password
// hash or refresh token field: secrets live in Credentials and never leave the
// auth paths.
type User struct {
	ID            int64     `db:"id" json:"id"`
	Username      string    `db:"username" json:"username"`
	Email         string    `db:"email" json:"email"`
	FullName      string    `db:"full_name" json:"fullname"`
	AvatarURL     string    `db:"avatar_url" json:"avatar"`
	AvatarKey     *string   `db:"avatar_key" json:"-"`
	CoverImageURL *string   `db:"cover_image_url" json:"coverImage"`
	CoverImageKey *string   `db:"cover_image_key" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Credentials holds the secret fields of a user row.
type Credentials struct {
	UserID           int64   `db:"id"`
	PasswordHash     string  `db:"password_hash"`
	RefreshTokenHash *string `db:"refresh_token_hash"`
}

// UserSummary is the owner/profile subset attached to joined views.
type UserSummary struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	FullName  string `db:"full_name" json:"fullname,omitempty"`
	AvatarURL string `db:"avatar_url" json:"avatar"`
}

// ChannelProfile is a user enriched with subscription aggregates relative to a viewer.
type ChannelProfile struct {
	ID                        int64     `db:"id" json:"id"`
	Username                  string    `db:"username" json:"username"`
	Email                     string    `db:"email" json:"email"`
	FullName                  string    `db:"full_name" json:"fullname"`
	AvatarURL                 string    `db:"avatar_url" json:"avatar"`
	CoverImageURL             *string   `db:"cover_image_url" json:"coverImage"`
	CreatedAt                 time.Time `db:"created_at" json:"createdAt"`
	SubscribersCount          int64     `db:"subscribers_count" json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `db:"channels_subscribed_to_count" json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `db:"is_subscribed" json:"isSubscribed"`
}

// RegisterRequest carries validated sign-up fields plus the uploaded media
// locations. The password hash is passed separately.
type RegisterRequest struct {
	Username      string
	Email         string
	FullName      string
	AvatarURL     string
	AvatarKey     string
	CoverImageURL *string
	CoverImageKey *string
}

// RegisterForm is the multipart sign-up form as parsed by the handler.
type RegisterForm struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *MediaFile
	CoverImage *MediaFile
}

// LoginRequest accepts either username or email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

// WatchHistoryEntry is a watched video with its owner profile.
type WatchHistoryEntry struct {
	Video
	WatchedAt time.Time `db:"watched_at" json:"watchedAt"`
}

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes  = 72
	MaxUsernameLength = 30
)

var (
	ErrUserNotFound       = apperr.New(apperr.NotFound, "user not found")
	ErrChannelNotFound    = apperr.New(apperr.NotFound, "channel not found")
	ErrUserExists         = apperr.New(apperr.Conflict, "user with username or email already exists")
	ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "invalid credentials")
	ErrWrongPassword      = apperr.Invalid("invalid old password")
	ErrPasswordTooShort   = apperr.Invalid("password must be at least 8 characters")
	ErrPasswordTooLong    = apperr.Invalid("password must be at most 72 bytes")
	ErrAvatarRequired     = apperr.Invalid("avatar image is required")
	ErrCoverRequired      = apperr.Invalid("cover image is required")
	ErrFieldsRequired     = apperr.Invalid("all fields are required")
	ErrUsernameInvalid    = apperr.Invalid("username must be 1-30 letters, digits, dots or underscores")
	ErrEmailInvalid       = apperr.Invalid("invalid email address")
	ErrLoginRequired      = apperr.Invalid("username or email is required")
)
