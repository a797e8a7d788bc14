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

var videoColumns = strings.Join(videoFields, ", ")

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	q := `
		INSERT INTO videos (owner_id, title, description, video_url, video_key, thumbnail_url, thumbnail_key, is_published, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + videoColumns
	err := r.db.GetContext(ctx, v, q,
		v.OwnerID, v.Title, v.Description,
		v.VideoURL, v.VideoKey, v.ThumbnailURL, v.ThumbnailKey,
		v.IsPublished, v.Duration,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	var v model.Video
	err := r.db.GetContext(ctx, &v, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &v, nil
}

// GetDetail loads a video with its owner, like count and the viewer's like state.
func (r *videoRepository) GetDetail(ctx context.Context, id int64, viewer *int64) (*model.VideoDetail, error) {
	p := query.Pipeline{
		From:   "videos",
		As:     "v",
		Fields: videoFields,
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{query.Eq{Field: "v.id", Value: id}}},
			ownerOf("v"),
			likesCount("video_id", "v.id"),
			likedBy("video_id", "v.id", viewer),
		},
	}
	detail, err := query.One[model.VideoDetail](ctx, r.db, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrVideoNotFound
		}
		return nil, err
	}
	return detail, nil
}

// IncrementViews bumps the counter by one. Concurrent increments are not
// deduplicated; every fetch counts.
func (r *videoRepository) IncrementViews(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// Update persists title, description and thumbnail. Owner is immutable.
func (r *videoRepository) Update(ctx context.Context, v *model.Video) error {
	q := `
		UPDATE videos
		SET title = $1, description = $2, thumbnail_url = $3, thumbnail_key = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + videoColumns
	err := r.db.GetContext(ctx, v, q, v.Title, v.Description, v.ThumbnailURL, v.ThumbnailKey, v.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrVideoNotFound
		}
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

func (r *videoRepository) SetPublished(ctx context.Context, id int64, published bool) (*model.Video, error) {
	q := `UPDATE videos SET is_published = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + videoColumns
	var v model.Video
	if err := r.db.GetContext(ctx, &v, q, published, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to update publish status: %w", err)
	}
	return &v, nil
}

func (r *videoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

// List returns one page of videos with owner profiles. Only published videos
// are listed unless the filter asks for a channel's own view.
func (r *videoRepository) List(ctx context.Context, f VideoFilter) (*model.Page[model.Video], error) {
	var conds []query.Cond
	if !f.IncludeUnpublished {
		conds = append(conds, query.Eq{Field: "v.is_published", Value: true})
	}
	if f.OwnerID != nil {
		conds = append(conds, query.Eq{Field: "v.owner_id", Value: *f.OwnerID})
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		conds = append(conds, query.ContainsFold{Fields: []string{"v.title", "v.description"}, Term: term})
	}

	p := query.Pipeline{
		From:   "videos",
		As:     "v",
		Fields: videoFields,
		Stages: []query.Stage{
			query.Match{Conds: conds},
			ownerOf("v"),
			f.Sort,
			f.Page,
		},
	}
	return query.Run[model.Video](ctx, r.db, p)
}
