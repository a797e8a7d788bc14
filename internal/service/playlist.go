package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"vidtube/internal/model"
	"vidtube/internal/policy"
	"vidtube/internal/query"
	"vidtube/internal/repository"
)

// PlaylistService manages user playlists. Only the owner may mutate one.
type PlaylistService struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	users     repository.UserRepository
}

func NewPlaylistService(playlists repository.PlaylistRepository, videos repository.VideoRepository, users repository.UserRepository) *PlaylistService {
	return &PlaylistService{playlists: playlists, videos: videos, users: users}
}

func (s *PlaylistService) Create(ctx context.Context, viewer *model.User, req *model.PlaylistRequest) (*model.Playlist, error) {
	name, err := cleanText(req.Name, model.MaxPlaylistNameLength, model.ErrNameRequired, model.ErrNameTooLong)
	if err != nil {
		return nil, err
	}
	return s.playlists.Create(ctx, viewer.ID, name, strings.TrimSpace(req.Description))
}

func (s *PlaylistService) ListByUser(ctx context.Context, ownerID int64, params model.ListParams) (*model.Page[model.PlaylistSummary], error) {
	page, err := query.ParsePage(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}
	return s.playlists.ListByOwner(ctx, ownerID, page)
}

// Get returns the playlist with its owner and videos. Unpublished videos are
// shown to their own owner only.
func (s *PlaylistService) Get(ctx context.Context, id int64, viewer *model.User) (*model.PlaylistDetail, error) {
	p, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, p.OwnerID)
	if err != nil {
		return nil, err
	}
	videos, err := s.playlists.Videos(ctx, id)
	if err != nil {
		return nil, err
	}

	visible := videos[:0]
	for _, v := range videos {
		if v.IsPublished || isOwner(viewer, v.OwnerID) {
			visible = append(visible, v)
		}
	}

	return &model.PlaylistDetail{
		Playlist: *p,
		Owner: &model.UserSummary{
			ID:        owner.ID,
			Username:  owner.Username,
			FullName:  owner.FullName,
			AvatarURL: owner.AvatarURL,
		},
		Videos: visible,
	}, nil
}

func (s *PlaylistService) AddVideo(ctx context.Context, viewer *model.User, playlistID, videoID int64) error {
	if _, err := s.owned(ctx, viewer, playlistID); err != nil {
		return err
	}
	if _, err := visibleVideo(ctx, s.videos, videoID, viewer); err != nil {
		return err
	}
	return s.playlists.AddVideo(ctx, playlistID, videoID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, viewer *model.User, playlistID, videoID int64) error {
	if _, err := s.owned(ctx, viewer, playlistID); err != nil {
		return err
	}
	return s.playlists.RemoveVideo(ctx, playlistID, videoID)
}

// Update changes name and/or description; at least one must be given.
func (s *PlaylistService) Update(ctx context.Context, viewer *model.User, id int64, req *model.PlaylistRequest) (*model.Playlist, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" && description == "" {
		return nil, model.ErrNothingToUpdate
	}
	if utf8.RuneCountInString(name) > model.MaxPlaylistNameLength {
		return nil, model.ErrNameTooLong
	}

	p, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = p.Name
	}
	if description == "" {
		description = p.Description
	}
	return s.playlists.Update(ctx, id, name, description)
}

func (s *PlaylistService) Delete(ctx context.Context, viewer *model.User, id int64) error {
	if _, err := s.owned(ctx, viewer, id); err != nil {
		return err
	}
	return s.playlists.Delete(ctx, id)
}

func (s *PlaylistService) owned(ctx context.Context, viewer *model.User, id int64) (*model.Playlist, error) {
	p, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, p, model.ErrNotPlaylistOwner); err != nil {
		return nil, err
	}
	return p, nil
}
