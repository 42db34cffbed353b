package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// CommentRepository defines the interface for comment persistence.
type CommentRepository interface {
	// Create persists a new comment.
	Create(ctx context.Context, comment *model.Comment) error

	// GetByID retrieves a comment by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)

	// Delete removes a comment owned by ownerID.
	// Returns ErrCommentNotFound if no such row exists.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Comment, error)

	// List returns one page of a video's comments ordered by
	// (updated_at, id) descending. A nil parentID selects top-level
	// comments; otherwise the replies of that parent. Viewer reactions are
	// resolved against viewerID (nil for anonymous).
	List(ctx context.Context, videoID uuid.UUID, parentID, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.CommentSummary, error)

	// CountByVideo returns the total number of comments on a video.
	CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)
}

// ReactionRepository defines typed like/dislike toggles for videos and
// comments. SetVideoReaction and SetCommentReaction upsert, flipping the
// type on conflict; the Clear variants remove the edge.
type ReactionRepository interface {
	GetVideoReaction(ctx context.Context, userID, videoID uuid.UUID) (*model.VideoReaction, error)
	SetVideoReaction(ctx context.Context, userID, videoID uuid.UUID, reaction model.ReactionType) (*model.VideoReaction, error)
	ClearVideoReaction(ctx context.Context, userID, videoID uuid.UUID) error

	GetCommentReaction(ctx context.Context, userID, commentID uuid.UUID) (*model.CommentReaction, error)
	SetCommentReaction(ctx context.Context, userID, commentID uuid.UUID, reaction model.ReactionType) (*model.CommentReaction, error)
	ClearCommentReaction(ctx context.Context, userID, commentID uuid.UUID) error
}
