package service

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/policy"
	"vidtube/internal/repository"
)

type CommentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
}

func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository) *CommentService {
	return &CommentService{comments: comments, videos: videos}
}

// List returns a page of a video's comments with commenter profiles and like
// aggregates relative to viewer.
func (s *CommentService) List(ctx context.Context, videoID int64, viewer *model.User, params model.ListParams) (*model.Page[model.CommentView], error) {
	sort, page, err := parseList(params, repository.CommentSortFields, "createdAt")
	if err != nil {
		return nil, err
	}
	if _, err := visibleVideo(ctx, s.videos, videoID, viewer); err != nil {
		return nil, err
	}
	return s.comments.ListByVideo(ctx, videoID, viewerID(viewer), sort, page)
}

func (s *CommentService) Add(ctx context.Context, viewer *model.User, videoID int64, req *model.CommentRequest) (*model.Comment, error) {
	content, err := cleanText(req.Content, model.MaxCommentLength, model.ErrContentRequired, model.ErrContentTooLong)
	if err != nil {
		return nil, err
	}
	if _, err := visibleVideo(ctx, s.videos, videoID, viewer); err != nil {
		return nil, err
	}
	return s.comments.Create(ctx, videoID, viewer.ID, content)
}

func (s *CommentService) Update(ctx context.Context, viewer *model.User, id int64, req *model.CommentRequest) (*model.Comment, error) {
	content, err := cleanText(req.Content, model.MaxCommentLength, model.ErrContentRequired, model.ErrContentTooLong)
	if err != nil {
		return nil, err
	}
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, c, model.ErrNotCommentOwner); err != nil {
		return nil, err
	}
	return s.comments.Update(ctx, id, content)
}

func (s *CommentService) Delete(ctx context.Context, viewer *model.User, id int64) error {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(viewer, c, model.ErrNotCommentOwner); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}
