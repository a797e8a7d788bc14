package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidtube/internal/edge"
	"vidtube/internal/model"
	"vidtube/internal/query"
)

// likeRepository builds SQL with the target column from model.LikeTarget.Column,
// which only returns fixed column names.
type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Exists(ctx context.Context, k model.LikeKey) (bool, error) {
	q := `SELECT EXISTS(SELECT 1 FROM likes WHERE liker_id = $1 AND ` + k.Target.Column() + ` = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, k.LikerID, k.TargetID); err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

func (r *likeRepository) Create(ctx context.Context, k model.LikeKey) error {
	q := `INSERT INTO likes (liker_id, ` + k.Target.Column() + `) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, q, k.LikerID, k.TargetID); err != nil {
		if isUniqueViolation(err) {
			return edge.ErrDuplicate
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, k model.LikeKey) (bool, error) {
	q := `DELETE FROM likes WHERE liker_id = $1 AND ` + k.Target.Column() + ` = $2`
	result, err := r.db.ExecContext(ctx, q, k.LikerID, k.TargetID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// LikedVideos lists videos liked by userID that viewer may see, most recently
// liked first.
func (r *likeRepository) LikedVideos(ctx context.Context, userID int64, viewer *int64, page query.Paginate) (*model.Page[model.LikedVideo], error) {
	p := query.Pipeline{
		From:   "likes",
		As:     "l",
		Fields: []string{"created_at AS liked_at"},
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{
				query.Eq{Field: "l.liker_id", Value: userID},
				query.IsNotNull{Field: "l.video_id"},
				visibleTo(viewer),
			}},
			flatVideo("l.video_id"),
			ownerOf("v"),
			query.Sort{Column: "l.created_at", Desc: true},
			page,
		},
	}
	return query.Run[model.LikedVideo](ctx, r.db, p)
}
