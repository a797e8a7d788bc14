package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
)

type credentialRepository struct {
	db *sqlx.DB
}

func NewCredentialRepository(db *sqlx.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

// GetByLogin finds credentials by username or email, whichever is given.
func (r *credentialRepository) GetByLogin(ctx context.Context, username, email string) (*model.Credentials, error) {
	q := `
		SELECT id, password_hash, refresh_token_hash
		FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		LIMIT 1
	`
	return r.get(ctx, q, strings.ToLower(username), strings.ToLower(email))
}

func (r *credentialRepository) GetByUserID(ctx context.Context, userID int64) (*model.Credentials, error) {
	q := `SELECT id, password_hash, refresh_token_hash FROM users WHERE id = $1`
	return r.get(ctx, q, userID)
}

func (r *credentialRepository) get(ctx context.Context, q string, args ...any) (*model.Credentials, error) {
	var c model.Credentials
	if err := r.db.GetContext(ctx, &c, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return &c, nil
}

func (r *credentialRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	q := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	return r.execOne(ctx, q, passwordHash, userID)
}

// SetRefreshHash overwrites the stored digest unconditionally (login).
func (r *credentialRepository) SetRefreshHash(ctx context.Context, userID int64, hash string) error {
	q := `UPDATE users SET refresh_token_hash = $1 WHERE id = $2`
	return r.execOne(ctx, q, hash, userID)
}

// SwapRefreshHash is the compare-and-swap used by rotation. Zero rows affected
// means the stored digest no longer equals oldHash: the token was superseded
// or revoked.
func (r *credentialRepository) SwapRefreshHash(ctx context.Context, userID int64, oldHash, newHash string) (bool, error) {
	q := `UPDATE users SET refresh_token_hash = $1 WHERE id = $2 AND refresh_token_hash = $3`
	result, err := r.db.ExecContext(ctx, q, newHash, userID, oldHash)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

func (r *credentialRepository) ClearRefreshHash(ctx context.Context, userID int64) error {
	q := `UPDATE users SET refresh_token_hash = NULL WHERE id = $1`
	return r.execOne(ctx, q, userID)
}

func (r *credentialRepository) execOne(ctx context.Context, q string, args ...any) error {
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
