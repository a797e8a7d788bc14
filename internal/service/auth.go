package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/config"
	"vidtube/internal/logging"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// accessClaims are carried by access tokens. Refresh tokens use bare
// registered claims.
type accessClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies tokens. Refresh tokens rotate on every use:
// the user row stores the digest of the only valid one, and rotation is a
// compare-and-swap on that digest so a replayed token is detected.
type AuthService struct {
	creds   repository.CredentialRepository
	users   repository.UserRepository
	config  *config.Config
	now     func() time.Time
	compare func(hash, password []byte) error
}

// dummyPasswordHash is compared against when a login names no account, so
// unknown and known users take the same time to reject.
var dummyPasswordHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy password hash: %v", err))
	}
	return hash
})

func NewAuthService(creds repository.CredentialRepository, users repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		creds:   creds,
		users:   users,
		config:  cfg,
		now:     time.Now,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// Login checks the password and starts a fresh session, replacing any
// previous refresh token.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenPair, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" && email == "" {
		return nil, nil, model.ErrLoginRequired
	}
	if req.Password == "" {
		return nil, nil, model.ErrFieldsRequired
	}

	creds, err := s.creds.GetByLogin(ctx, username, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			_ = s.compare(dummyPasswordHash(), []byte(req.Password))
			return nil, nil, model.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := s.compare([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, model.ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, creds.UserID)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.creds.SetRefreshHash(ctx, user.ID, hashToken(pair.RefreshToken)); err != nil {
		return nil, nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	logging.Component(ctx, "auth").WithField("user_id", user.ID).Info("user logged in")
	return user, pair, nil
}

// Rotate exchanges a refresh token for a new pair. A token that verifies but
// no longer matches the stored digest was already rotated or revoked.
func (s *AuthService) Rotate(ctx context.Context, presented string) (*model.User, *model.TokenPair, error) {
	userID, err := s.verify(presented, s.config.RefreshTokenSecret, nil)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, model.ErrTokenInvalid
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	swapped, err := s.creds.SwapRefreshHash(ctx, userID, hashToken(presented), hashToken(pair.RefreshToken))
	if err != nil {
		return nil, nil, err
	}
	if !swapped {
		logging.Component(ctx, "auth").WithField("user_id", userID).Warn("refresh token reuse detected")
		return nil, nil, model.ErrRefreshTokenReused
	}

	return user, pair, nil
}

// Revoke ends the user's session; the current refresh token stops rotating.
func (s *AuthService) Revoke(ctx context.Context, userID int64) error {
	return s.creds.ClearRefreshHash(ctx, userID)
}

// Authenticate verifies an access token and loads the user it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.VerifyAccess(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrTokenInvalid
		}
		return nil, err
	}
	return user, nil
}

// VerifyAccess checks signature and expiry and returns the subject.
func (s *AuthService) VerifyAccess(token string) (int64, error) {
	return s.verify(token, s.config.AccessTokenSecret, &accessClaims{})
}

// IssueAccessToken signs a short-lived token for user.
func (s *AuthService) IssueAccessToken(user *model.User) (string, error) {
	now := s.now()
	claims := accessClaims{
		Username: user.Username,
		RegisteredClaims: s.registered(user.ID, now, time.Duration(s.config.AccessTokenMaxAge)*time.Second),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
}

// IssueRefreshToken signs a long-lived token. The random jti keeps two tokens
// issued in the same second distinct.
func (s *AuthService) IssueRefreshToken(userID int64) (string, error) {
	claims := s.registered(userID, s.now(), time.Duration(s.config.RefreshTokenMaxAge)*time.Second)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.RefreshTokenSecret))
}

func (s *AuthService) registered(userID int64, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

func (s *AuthService) issuePair(user *model.User) (*model.TokenPair, error) {
	access, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.config.AccessTokenMaxAge,
	}, nil
}

// verify parses token with secret into claims (registered claims when nil)
// and returns the numeric subject.
func (s *AuthService) verify(token, secret string, claims jwt.Claims) (int64, error) {
	if strings.TrimSpace(token) == "" {
		return 0, model.ErrTokenMissing
	}
	if claims == nil {
		claims = &jwt.RegisteredClaims{}
	}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, model.ErrTokenExpired
		}
		return 0, model.ErrTokenInvalid
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, model.ErrTokenInvalid
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.ErrTokenInvalid
	}
	return id, nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
