package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/model"
	"vidtube/internal/query"
)

const tweetColumns = `id, owner_id, content, created_at, updated_at`

type tweetRepository struct {
	db *sqlx.DB
}

func NewTweetRepository(db *sqlx.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, ownerID int64, content string) (*model.Tweet, error) {
	var t model.Tweet
	q := `INSERT INTO tweets (owner_id, content) VALUES ($1, $2) RETURNING ` + tweetColumns
	if err := r.db.GetContext(ctx, &t, q, ownerID, content); err != nil {
		return nil, fmt.Errorf("insert tweet: %w", err)
	}
	return &t, nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id int64) (*model.Tweet, error) {
	var t model.Tweet
	err := r.db.GetContext(ctx, &t, `SELECT `+tweetColumns+` FROM tweets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tweet: %w", err)
	}
	return &t, nil
}

func (r *tweetRepository) Update(ctx context.Context, id int64, content string) (*model.Tweet, error) {
	var t model.Tweet
	q := `UPDATE tweets SET content = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + tweetColumns
	err := r.db.GetContext(ctx, &t, q, content, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update tweet: %w", err)
	}
	return &t, nil
}

func (r *tweetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrTweetNotFound
	}
	return nil
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID int64, viewer *int64, page query.Paginate) (*model.Page[model.TweetView], error) {
	p := query.Pipeline{
		From:   "tweets",
		As:     "t",
		Fields: []string{"id", "owner_id", "content", "created_at", "updated_at"},
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{query.Eq{Field: "t.owner_id", Value: ownerID}}},
			ownerOf("t"),
			likesCount("tweet_id", "t.id"),
			likedBy("tweet_id", "t.id", viewer),
			query.Sort{Column: "t.created_at", Desc: true},
			page,
		},
	}
	return query.Run[model.TweetView](ctx, r.db, p)
}
