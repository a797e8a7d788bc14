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

const playlistColumns = `id, owner_id, name, description, created_at, updated_at`

type playlistRepository struct {
	db *sqlx.DB
}

func NewPlaylistRepository(db *sqlx.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, ownerID int64, name, description string) (*model.Playlist, error) {
	q := `INSERT INTO playlists (owner_id, name, description) VALUES ($1, $2, $3) RETURNING ` + playlistColumns
	var p model.Playlist
	if err := r.db.GetContext(ctx, &p, q, ownerID, name, description); err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}
	return &p, nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var p model.Playlist
	err := r.db.GetContext(ctx, &p, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return &p, nil
}

func (r *playlistRepository) Update(ctx context.Context, id int64, name, description string) (*model.Playlist, error) {
	q := `UPDATE playlists SET name = $1, description = $2, updated_at = NOW() WHERE id = $3 RETURNING ` + playlistColumns
	var p model.Playlist
	err := r.db.GetContext(ctx, &p, q, name, description, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	return &p, nil
}

func (r *playlistRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPlaylistNotFound
	}
	return nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID int64, page query.Paginate) (*model.Page[model.PlaylistSummary], error) {
	p := query.Pipeline{
		From:   "playlists",
		As:     "p",
		Fields: []string{"id", "owner_id", "name", "description", "created_at", "updated_at"},
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{query.Eq{Field: "p.owner_id", Value: ownerID}}},
			query.Count{As: "video_count", Table: "playlist_videos", ForeignField: "playlist_id", LocalField: "p.id"},
			query.Sort{Column: "p.created_at", Desc: true},
			page,
		},
	}
	return query.Run[model.PlaylistSummary](ctx, r.db, p)
}

// Videos returns the playlist's videos in insertion order.
func (r *playlistRepository) Videos(ctx context.Context, playlistID int64) ([]model.Video, error) {
	p := query.Pipeline{
		From: "playlist_videos",
		As:   "pv",
		Key:  "position",
		Stages: []query.Stage{
			query.Match{Conds: []query.Cond{query.Eq{Field: "pv.playlist_id", Value: playlistID}}},
			flatVideo("pv.video_id"),
			ownerOf("v"),
		},
	}
	return query.All[model.Video](ctx, r.db, p)
}

func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID int64) error {
	q := `INSERT INTO playlist_videos (playlist_id, video_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, q, playlistID, videoID); err != nil {
		switch {
		case isUniqueViolation(err):
			return model.ErrVideoAlreadyInList
		case isForeignKeyViolation(err):
			return model.ErrVideoNotFound
		}
		return fmt.Errorf("add playlist video: %w", err)
	}
	return nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("remove playlist video: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrVideoNotInList
	}
	return nil
}
