package service

import (
	"context"
	"math"
	"strings"

	"vidtube/internal/logging"
	"vidtube/internal/model"
	"vidtube/internal/policy"
	"vidtube/internal/query"
	"vidtube/internal/repository"
)

const defaultVideoSort = "createdAt"

// VideoService handles video uploads, reads and owner mutations.
type VideoService struct {
	videos  repository.VideoRepository
	users   repository.UserRepository
	media   BlobStore
	cleaner *MediaCleaner
	stats   StatsInvalidator
}

func NewVideoService(
	videos repository.VideoRepository,
	users repository.UserRepository,
	media BlobStore,
	cleaner *MediaCleaner,
	stats StatsInvalidator,
) *VideoService {
	return &VideoService{
		videos:  videos,
		users:   users,
		media:   media,
		cleaner: cleaner,
		stats:   stats,
	}
}

// List returns published videos, optionally of one owner and matching a text query.
func (s *VideoService) List(ctx context.Context, params model.VideoListParams) (*model.Page[model.Video], error) {
	sort, page, err := parseList(params.ListParams, repository.VideoSortFields, defaultVideoSort)
	if err != nil {
		return nil, err
	}
	return s.videos.List(ctx, repository.VideoFilter{
		Query:   params.Query,
		OwnerID: params.OwnerID,
		Sort:    sort,
		Page:    page,
	})
}

// Upload stores the video file and thumbnail and creates a published video.
// When the second upload fails the first is scheduled for deletion.
func (s *VideoService) Upload(ctx context.Context, viewer *model.User, req *model.UploadVideoRequest) (*model.Video, error) {
	title, err := cleanText(req.Title, model.MaxVideoTitleLength, model.ErrTitleRequired, model.ErrTitleTooLong)
	if err != nil {
		return nil, err
	}
	if req.Video.Reader == nil || req.Thumbnail.Reader == nil {
		return nil, model.ErrVideoFileRequired
	}
	if req.Duration < 0 || math.IsNaN(req.Duration) || math.IsInf(req.Duration, 0) {
		return nil, model.ErrInvalidDuration
	}

	videoFile, err := s.media.Upload(ctx, model.MediaVideo, req.Video)
	if err != nil {
		return nil, err
	}
	thumb, err := s.media.Upload(ctx, model.MediaThumbnail, req.Thumbnail)
	if err != nil {
		s.cleaner.Schedule(ctx, videoFile.Key, model.MediaVideo, reasonAborted)
		return nil, err
	}

	duration := req.Duration
	if videoFile.Duration != nil {
		duration = *videoFile.Duration
	}

	v := &model.Video{
		OwnerID:      viewer.ID,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		VideoURL:     videoFile.URL,
		VideoKey:     videoFile.Key,
		ThumbnailURL: thumb.URL,
		ThumbnailKey: thumb.Key,
		IsPublished:  true,
		Duration:     duration,
	}
	if err := s.videos.Create(ctx, v); err != nil {
		s.cleaner.Schedule(ctx, videoFile.Key, model.MediaVideo, reasonAborted)
		s.cleaner.Schedule(ctx, thumb.Key, model.MediaThumbnail, reasonAborted)
		return nil, err
	}

	invalidateStats(ctx, s.stats, viewer.ID)
	return v, nil
}

// Get returns a video with like aggregates, counts a view and records it in
// the viewer's watch history. Unpublished videos are visible to their owner only.
func (s *VideoService) Get(ctx context.Context, id int64, viewer *model.User) (*model.VideoDetail, error) {
	v, err := s.videos.GetDetail(ctx, id, viewerID(viewer))
	if err != nil {
		return nil, err
	}
	if !v.IsPublished && !isOwner(viewer, v.OwnerID) {
		return nil, model.ErrVideoNotFound
	}

	log := logging.Component(ctx, "video_service").WithField("video_id", id)
	if err := s.videos.IncrementViews(ctx, id); err != nil {
		log.WithError(err).Warn("increment views failed")
	} else {
		v.Views++
	}
	if viewer != nil {
		if err := s.users.AddToWatchHistory(ctx, viewer.ID, id); err != nil {
			log.WithError(err).Warn("record watch history failed")
		}
	}
	return v, nil
}

// Update changes title, description or thumbnail. At least one is required.
func (s *VideoService) Update(ctx context.Context, viewer *model.User, id int64, req *model.UpdateVideoRequest) (*model.Video, error) {
	if req.Title == nil && req.Description == nil && req.Thumbnail == nil {
		return nil, model.ErrNothingToUpdate
	}

	v, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, v, model.ErrNotVideoOwner); err != nil {
		return nil, err
	}

	if req.Title != nil {
		title, err := cleanText(*req.Title, model.MaxVideoTitleLength, model.ErrTitleRequired, model.ErrTitleTooLong)
		if err != nil {
			return nil, err
		}
		v.Title = title
	}
	if req.Description != nil {
		v.Description = strings.TrimSpace(*req.Description)
	}

	oldThumbKey := ""
	if req.Thumbnail != nil {
		thumb, err := s.media.Upload(ctx, model.MediaThumbnail, *req.Thumbnail)
		if err != nil {
			return nil, err
		}
		oldThumbKey = v.ThumbnailKey
		v.ThumbnailURL, v.ThumbnailKey = thumb.URL, thumb.Key
	}

	if err := s.videos.Update(ctx, v); err != nil {
		if oldThumbKey != "" {
			s.cleaner.Schedule(ctx, v.ThumbnailKey, model.MediaThumbnail, reasonAborted)
		}
		return nil, err
	}
	s.cleaner.Schedule(ctx, oldThumbKey, model.MediaThumbnail, reasonReplaced)
	return v, nil
}

// Delete removes the video row and schedules its media for deletion.
func (s *VideoService) Delete(ctx context.Context, viewer *model.User, id int64) error {
	v, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(viewer, v, model.ErrNotVideoOwner); err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, id); err != nil {
		return err
	}

	s.cleaner.Schedule(ctx, v.VideoKey, model.MediaVideo, reasonDeleted)
	s.cleaner.Schedule(ctx, v.ThumbnailKey, model.MediaThumbnail, reasonDeleted)
	invalidateStats(ctx, s.stats, v.OwnerID)
	return nil
}

// TogglePublish flips the published flag.
func (s *VideoService) TogglePublish(ctx context.Context, viewer *model.User, id int64) (*model.Video, error) {
	v, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, v, model.ErrNotVideoOwner); err != nil {
		return nil, err
	}
	return s.videos.SetPublished(ctx, id, !v.IsPublished)
}

// visibleVideo loads a video and hides unpublished ones from everyone but the owner.
func visibleVideo(ctx context.Context, videos repository.VideoRepository, id int64, viewer *model.User) (*model.Video, error) {
	v, err := videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.IsPublished && !isOwner(viewer, v.OwnerID) {
		return nil, model.ErrVideoNotFound
	}
	return v, nil
}

// ChannelVideos lists all of the viewer's own videos, unpublished included.
func (s *VideoService) ChannelVideos(ctx context.Context, viewer *model.User, params model.ListParams) (*model.Page[model.Video], error) {
	sort, page, err := parseList(params, repository.VideoSortFields, defaultVideoSort)
	if err != nil {
		return nil, err
	}
	owner := viewer.ID
	return s.videos.List(ctx, repository.VideoFilter{
		OwnerID:            &owner,
		IncludeUnpublished: true,
		Sort:               sort,
		Page:               page,
	})
}

// Search matches published videos by title/description and channels by
// username/full name.
func (s *VideoService) Search(ctx context.Context, term string) (*model.SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, model.ErrSearchQueryRequired
	}

	videos, err := s.videos.List(ctx, repository.VideoFilter{
		Query: term,
		Sort:  query.Sort{Column: repository.VideoSortFields[defaultVideoSort], Desc: true},
		Page:  query.Paginate{Page: 1, Limit: model.SearchLimit},
	})
	if err != nil {
		return nil, err
	}
	channels, err := s.users.SearchChannels(ctx, term, model.SearchLimit)
	if err != nil {
		return nil, err
	}
	return &model.SearchResult{Videos: videos.Items, Channels: channels}, nil
}
