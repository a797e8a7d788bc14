package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
	"vidtube/internal/query"
)

// userColumns never includes password_hash or refresh_token_hash.
const userColumns = `id, username, email, full_name, avatar_url, avatar_key, cover_image_url, cover_image_key, created_at, updated_at`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Username is stored lower-cased.
func (r *userRepository) Create(ctx context.Context, req *model.RegisterRequest, passwordHash string) (*model.User, error) {
	q := `
		INSERT INTO users (username, email, full_name, avatar_url, avatar_key, cover_image_url, cover_image_key, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	var u model.User
	err := r.db.GetContext(ctx, &u, q,
		strings.ToLower(req.Username),
		strings.ToLower(req.Email),
		req.FullName,
		req.AvatarURL,
		req.AvatarKey,
		req.CoverImageURL,
		req.CoverImageKey,
		passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &u, nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, strings.ToLower(username))
}

func (r *userRepository) UpdateAccount(ctx context.Context, id int64, fullName, email string) (*model.User, error) {
	q := `UPDATE users SET full_name = $1, email = $2, updated_at = NOW() WHERE id = $3 RETURNING ` + userColumns
	u, err := r.getOne(ctx, q, fullName, strings.ToLower(email), id)
	if err != nil && isUniqueViolation(err) {
		return nil, model.ErrUserExists
	}
	return u, err
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id int64, url, key string) (*model.User, error) {
	q := `UPDATE users SET avatar_url = $1, avatar_key = $2, updated_at = NOW() WHERE id = $3 RETURNING ` + userColumns
	return r.getOne(ctx, q, url, key, id)
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, id int64, url, key string) (*model.User, error) {
	q := `UPDATE users SET cover_image_url = $1, cover_image_key = $2, updated_at = NOW() WHERE id = $3 RETURNING ` + userColumns
	return r.getOne(ctx, q, url, key, id)
}

func (r *userRepository) getOne(ctx context.Context, q string, args ...any) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, q, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// ChannelProfile loads a user by username with subscription aggregates.
// isSubscribed is relative to viewer and false for anonymous callers.
func (r *userRepository) ChannelProfile(ctx context.Context, username string, viewer *int64) (*model.ChannelProfile, error) {
	p := query.Pipeline{
		From:   "users",
		As:     "u",
		Fields: []string{"id", "username", "email", "full_name", "avatar_url", "cover_image_url", "created_at"},
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{query.Eq{Field: "u.username", Value: strings.ToLower(username)}}},
			query.Count{As: "subscribers_count", Table: "subscriptions", ForeignField: "channel_id", LocalField: "u.id"},
			query.Count{As: "channels_subscribed_to_count", Table: "subscriptions", ForeignField: "subscriber_id", LocalField: "u.id"},
			query.Exists{As: "is_subscribed", Table: "subscriptions", ForeignField: "channel_id", LocalField: "u.id", ViewerField: "subscriber_id", Viewer: viewer},
		},
	}

	profile, err := query.One[model.ChannelProfile](ctx, r.db, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrChannelNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *userRepository) SearchChannels(ctx context.Context, term string, limit int) ([]model.UserSummary, error) {
	p := query.Pipeline{
		From:   "users",
		As:     "u",
		Fields: summaryFields,
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{query.ContainsFold{Fields: []string{"u.username", "u.full_name"}, Term: term}}},
			query.Sort{Column: "u.username"},
			query.Paginate{Page: 1, Limit: limit},
		},
	}
	page, err := query.Run[model.UserSummary](ctx, r.db, p)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// AddToWatchHistory records a view. A repeated view moves the entry to the
// front instead of adding a duplicate.
func (r *userRepository) AddToWatchHistory(ctx context.Context, userID, videoID int64) error {
	q := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
	`
	if _, err := r.db.ExecContext(ctx, q, userID, videoID); err != nil {
		return fmt.Errorf("failed to record watch history: %w", err)
	}
	return nil
}

// WatchHistory lists watched videos most-recent-first, each with its owner
// profile. Videos unpublished since the view are left out unless userID owns them.
func (r *userRepository) WatchHistory(ctx context.Context, userID int64, page query.Paginate) (*model.Page[model.WatchHistoryEntry], error) {
	p := query.Pipeline{
		From:   "watch_history",
		As:     "wh",
		Key:    "video_id",
		Fields: []string{"watched_at"},
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{
				query.Eq{Field: "wh.user_id", Value: userID},
				visibleTo(&userID),
			}},
			flatVideo("wh.video_id"),
			ownerOf("v"),
			query.Sort{Column: "wh.watched_at", Desc: true},
			page,
		},
	}
	return query.Run[model.WatchHistoryEntry](ctx, r.db, p)
}
