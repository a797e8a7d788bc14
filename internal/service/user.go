package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/model"
	"vidtube/internal/query"
	"vidtube/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{1,30}$`)

// UserService handles accounts, profile media and channel views.
type UserService struct {
	repo    repository.UserRepository
	creds   repository.CredentialRepository
	media   BlobStore
	cleaner *MediaCleaner
}

func NewUserService(repo repository.UserRepository, creds repository.CredentialRepository, media BlobStore, cleaner *MediaCleaner) *UserService {
	return &UserService{
		repo:    repo,
		creds:   creds,
		media:   media,
		cleaner: cleaner,
	}
}

// Register validates the form, uploads avatar (required) and cover image
// (optional) and creates the account. Uploaded media are cleaned up when any
// later step fails.
func (s *UserService) Register(ctx context.Context, form *model.RegisterForm) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(form.Username))
	email := strings.ToLower(strings.TrimSpace(form.Email))
	fullName := strings.TrimSpace(form.FullName)

	if username == "" || email == "" || fullName == "" || strings.TrimSpace(form.Password) == "" {
		return nil, model.ErrFieldsRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, model.ErrUsernameInvalid
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.ErrEmailInvalid
	}
	if err := checkPassword(form.Password); err != nil {
		return nil, err
	}
	if form.Avatar == nil {
		return nil, model.ErrAvatarRequired
	}

	// Reject duplicates before paying for uploads; the unique index still
	// decides races.
	if _, err := s.creds.GetByLogin(ctx, username, email); err == nil {
		return nil, model.ErrUserExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	avatar, err := s.media.Upload(ctx, model.MediaAvatar, *form.Avatar)
	if err != nil {
		return nil, err
	}

	req := &model.RegisterRequest{
		Username:  username,
		Email:     email,
		FullName:  fullName,
		AvatarURL: avatar.URL,
		AvatarKey: avatar.Key,
	}

	if form.CoverImage != nil {
		cover, err := s.media.Upload(ctx, model.MediaCover, *form.CoverImage)
		if err != nil {
			s.cleaner.Schedule(ctx, avatar.Key, model.MediaAvatar, reasonAborted)
			return nil, err
		}
		req.CoverImageURL = &cover.URL
		req.CoverImageKey = &cover.Key
	}

	user, err := s.repo.Create(ctx, req, string(hashed))
	if err != nil {
		s.cleaner.Schedule(ctx, avatar.Key, model.MediaAvatar, reasonAborted)
		if req.CoverImageKey != nil {
			s.cleaner.Schedule(ctx, *req.CoverImageKey, model.MediaCover, reasonAborted)
		}
		return nil, err
	}
	return user, nil
}

func checkPassword(password string) error {
	switch {
	case len(password) < model.MinPasswordLength:
		return model.ErrPasswordTooShort
	case len(password) > model.MaxPasswordBytes:
		return model.ErrPasswordTooLong
	}
	return nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, viewer *model.User, req *model.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return model.ErrFieldsRequired
	}
	if err := checkPassword(req.NewPassword); err != nil {
		return err
	}

	creds, err := s.creds.GetByUserID(ctx, viewer.ID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.OldPassword)); err != nil {
		return model.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.creds.UpdatePassword(ctx, viewer.ID, string(hashed))
}

// UpdateAccount replaces full name and email; both are required.
func (s *UserService) UpdateAccount(ctx context.Context, viewer *model.User, req *model.UpdateAccountRequest) (*model.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return nil, model.ErrFieldsRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.ErrEmailInvalid
	}
	return s.repo.UpdateAccount(ctx, viewer.ID, fullName, email)
}

// UpdateAvatar uploads a new avatar and schedules the old one for deletion.
func (s *UserService) UpdateAvatar(ctx context.Context, viewer *model.User, file *model.MediaFile) (*model.User, error) {
	if file == nil {
		return nil, model.ErrAvatarRequired
	}
	res, err := s.media.Upload(ctx, model.MediaAvatar, *file)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.UpdateAvatar(ctx, viewer.ID, res.URL, res.Key)
	if err != nil {
		s.cleaner.Schedule(ctx, res.Key, model.MediaAvatar, reasonAborted)
		return nil, err
	}
	if viewer.AvatarKey != nil {
		s.cleaner.Schedule(ctx, *viewer.AvatarKey, model.MediaAvatar, reasonReplaced)
	}
	return user, nil
}

// UpdateCoverImage uploads a new cover image and schedules the old one for deletion.
func (s *UserService) UpdateCoverImage(ctx context.Context, viewer *model.User, file *model.MediaFile) (*model.User, error) {
	if file == nil {
		return nil, model.ErrCoverRequired
	}
	res, err := s.media.Upload(ctx, model.MediaCover, *file)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.UpdateCoverImage(ctx, viewer.ID, res.URL, res.Key)
	if err != nil {
		s.cleaner.Schedule(ctx, res.Key, model.MediaCover, reasonAborted)
		return nil, err
	}
	if viewer.CoverImageKey != nil {
		s.cleaner.Schedule(ctx, *viewer.CoverImageKey, model.MediaCover, reasonReplaced)
	}
	return user, nil
}

// ChannelProfile returns a channel with subscription aggregates. viewer may be nil.
func (s *UserService) ChannelProfile(ctx context.Context, username string, viewer *model.User) (*model.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrChannelNotFound
	}
	return s.repo.ChannelProfile(ctx, username, viewerID(viewer))
}

// WatchHistory lists the viewer's watched videos, most recent first.
func (s *UserService) WatchHistory(ctx context.Context, viewer *model.User, params model.ListParams) (*model.Page[model.WatchHistoryEntry], error) {
	page, err := query.ParsePage(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}
	return s.repo.WatchHistory(ctx, viewer.ID, page)
}
