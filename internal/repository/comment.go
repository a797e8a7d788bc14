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

const commentColumns = `id, video_id, owner_id, content, created_at, updated_at`

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, videoID, ownerID int64, content string) (*model.Comment, error) {
	q := `
		INSERT INTO comments (video_id, owner_id, content)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns
	var c model.Comment
	if err := r.db.GetContext(ctx, &c, q, videoID, ownerID, content); err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrVideoNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	err := r.db.GetContext(ctx, &c, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) Update(ctx context.Context, id int64, content string) (*model.Comment, error) {
	q := `
		UPDATE comments
		SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + commentColumns
	var c model.Comment
	err := r.db.GetContext(ctx, &c, q, content, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// ListByVideo returns a page of comments with commenter profile, like count
// and the viewer's like state.
func (r *commentRepository) ListByVideo(ctx context.Context, videoID int64, viewer *int64, sort query.Sort, page query.Paginate) (*model.Page[model.CommentView], error) {
	p := query.Pipeline{
		From:   "comments",
		As:     "c",
		Fields: []string{"id", "video_id", "owner_id", "content", "created_at", "updated_at"},
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{query.Eq{Field: "c.video_id", Value: videoID}}},
			ownerOf("c"),
			likesCount("comment_id", "c.id"),
			likedBy("comment_id", "c.id", viewer),
			sort,
			page,
		},
	}
	return query.Run[model.CommentView](ctx, r.db, p)
}
