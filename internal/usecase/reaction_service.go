package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
)

// ErrInvalidReaction is returned for a reaction type outside like/dislike.
var ErrInvalidReaction = errors.New("reaction must be like or dislike")

// ReactionService toggles typed reactions on videos and comments. Reacting
// with the type already present removes the reaction; reacting with the
// other type flips it.
type ReactionService interface {
	// ToggleVideoReaction toggles the viewer's reaction on a video.
	// Returns the resulting reaction, or nil if the toggle removed it.
	ToggleVideoReaction(ctx context.Context, userID, videoID uuid.UUID, reaction model.ReactionType) (*model.VideoReaction, error)

	// ToggleCommentReaction toggles the viewer's reaction on a comment.
	ToggleCommentReaction(ctx context.Context, userID, commentID uuid.UUID, reaction model.ReactionType) (*model.CommentReaction, error)
}

type reactionService struct {
	reactions repository.ReactionRepository
	videos    repository.VideoRepository
	comments  repository.CommentRepository
}

// NewReactionService creates a new ReactionService instance.
func NewReactionService(
	reactions repository.ReactionRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
) ReactionService {
	return &reactionService{
		reactions: reactions,
		videos:    videos,
		comments:  comments,
	}
}

// ToggleVideoReaction toggles the viewer's reaction on a video.
func (s *reactionService) ToggleVideoReaction(ctx context.Context, userID, videoID uuid.UUID, reaction model.ReactionType) (*model.VideoReaction, error) {
	if !reaction.IsValid() {
		return nil, ErrInvalidReaction
	}

	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	existing, err := s.reactions.GetVideoReaction(ctx, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("get video reaction: %w", err)
	}

	if existing != nil && existing.Type == reaction {
		if err := s.reactions.ClearVideoReaction(ctx, userID, videoID); err != nil {
			return nil, fmt.Errorf("clear video reaction: %w", err)
		}
		return nil, nil
	}

	return s.reactions.SetVideoReaction(ctx, userID, videoID, reaction)
}

// ToggleCommentReaction toggles the viewer's reaction on a comment.
func (s *reactionService) ToggleCommentReaction(ctx context.Context, userID, commentID uuid.UUID, reaction model.ReactionType) (*model.CommentReaction, error) {
	if !reaction.IsValid() {
		return nil, ErrInvalidReaction
	}

	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, err
	}

	existing, err := s.reactions.GetCommentReaction(ctx, userID, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment reaction: %w", err)
	}

	if existing != nil && existing.Type == reaction {
		if err := s.reactions.ClearCommentReaction(ctx, userID, commentID); err != nil {
			return nil, fmt.Errorf("clear comment reaction: %w", err)
		}
		return nil, nil
	}

	return s.reactions.SetCommentReaction(ctx, userID, commentID, reaction)
}
