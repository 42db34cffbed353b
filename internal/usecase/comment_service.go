package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// CreateCommentInput contains the input parameters for creating a comment.
type CreateCommentInput struct {
	UserID   uuid.UUID
	VideoID  uuid.UUID
	ParentID *uuid.UUID
	Value    string
}

// CommentService defines the interface for comment business logic.
type CommentService interface {
	// CreateComment posts a comment or a one-level reply.
	CreateComment(ctx context.Context, input CreateCommentInput) (*model.Comment, error)

	// DeleteComment removes the viewer's own comment.
	DeleteComment(ctx context.Context, commentID, ownerID uuid.UUID) error

	// ListComments returns one page of a video's comments. A nil parentID
	// selects top-level comments, otherwise the replies of that parent.
	ListComments(ctx context.Context, videoID uuid.UUID, parentID, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.CommentSummary], error)

	// CountComments returns the total number of comments on a video.
	CountComments(ctx context.Context, videoID uuid.UUID) (int64, error)
}

type commentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository) CommentService {
	return &commentService{
		comments: comments,
		videos:   videos,
	}
}

// CreateComment posts a comment. Replies nest exactly one level: the parent
// must exist, belong to the same video, and be a top-level comment itself.
func (s *commentService) CreateComment(ctx context.Context, input CreateCommentInput) (*model.Comment, error) {
	if _, err := s.videos.GetByID(ctx, input.VideoID); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.VideoID != input.VideoID {
			return nil, repository.ErrCommentNotFound
		}
		if parent.IsReply() {
			return nil, model.ErrNestedReply
		}
	}

	comment, err := model.NewComment(input.UserID, input.VideoID, input.ParentID, input.Value)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes the viewer's own comment.
func (s *commentService) DeleteComment(ctx context.Context, commentID, ownerID uuid.UUID) error {
	_, err := s.comments.Delete(ctx, commentID, ownerID)
	return err
}

// ListComments returns one page of a video's comment feed.
func (s *commentService) ListComments(ctx context.Context, videoID uuid.UUID, parentID, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.CommentSummary], error) {
	rows, err := s.comments.List(ctx, videoID, parentID, viewerID, limit, cursor)
	if err != nil {
		return pagination.Page[model.CommentSummary]{}, err
	}

	return pagination.SlicePage(rows, limit, func(c model.CommentSummary) pagination.Cursor {
		return pagination.Cursor{UpdatedAt: c.UpdatedAt, ID: c.ID}
	}), nil
}

// CountComments returns the total number of comments on a video.
func (s *commentService) CountComments(ctx context.Context, videoID uuid.UUID) (int64, error) {
	return s.comments.CountByVideo(ctx, videoID)
}
