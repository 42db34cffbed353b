package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
)

// ReactionRepository implements repository.ReactionRepository using PostgreSQL.
type ReactionRepository struct {
	db DBTX
}

// NewReactionRepository creates a new ReactionRepository instance.
func NewReactionRepository(db DBTX) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// GetVideoReaction returns the user's reaction to a video, or nil when none exists.
func (r *ReactionRepository) GetVideoReaction(ctx context.Context, userID, videoID uuid.UUID) (*model.VideoReaction, error) {
	const query = `
		SELECT user_id, video_id, type, created_at, updated_at
		FROM video_reactions
		WHERE user_id = $1 AND video_id = $2
	`

	var (
		reaction model.VideoReaction
		rt       string
	)
	err := r.db.QueryRow(ctx, query, userID, videoID).Scan(
		&reaction.UserID, &reaction.VideoID, &rt, &reaction.CreatedAt, &reaction.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get video reaction: %w", err)
	}

	reaction.Type = model.ReactionType(rt)
	return &reaction, nil
}

// SetVideoReaction upserts the user's reaction to a video, flipping the type
// on conflict (a like replaces a dislike and vice versa).
func (r *ReactionRepository) SetVideoReaction(ctx context.Context, userID, videoID uuid.UUID, reaction model.ReactionType) (*model.VideoReaction, error) {
	const query = `
		INSERT INTO video_reactions (user_id, video_id, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, video_id) DO UPDATE SET type = $3, updated_at = $4
		RETURNING user_id, video_id, type, created_at, updated_at
	`

	var (
		result model.VideoReaction
		rt     string
	)
	err := r.db.QueryRow(ctx, query, userID, videoID, string(reaction), time.Now()).Scan(
		&result.UserID, &result.VideoID, &rt, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set video reaction: %w", err)
	}

	result.Type = model.ReactionType(rt)
	return &result, nil
}

// ClearVideoReaction removes the user's reaction to a video.
func (r *ReactionRepository) ClearVideoReaction(ctx context.Context, userID, videoID uuid.UUID) error {
	const query = `DELETE FROM video_reactions WHERE user_id = $1 AND video_id = $2`

	if _, err := r.db.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to clear video reaction: %w", err)
	}
	return nil
}

// GetCommentReaction returns the user's reaction to a comment, or nil when none exists.
func (r *ReactionRepository) GetCommentReaction(ctx context.Context, userID, commentID uuid.UUID) (*model.CommentReaction, error) {
	const query = `
		SELECT user_id, comment_id, type, created_at, updated_at
		FROM comment_reactions
		WHERE user_id = $1 AND comment_id = $2
	`

	var (
		reaction model.CommentReaction
		rt       string
	)
	err := r.db.QueryRow(ctx, query, userID, commentID).Scan(
		&reaction.UserID, &reaction.CommentID, &rt, &reaction.CreatedAt, &reaction.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment reaction: %w", err)
	}

	reaction.Type = model.ReactionType(rt)
	return &reaction, nil
}

// SetCommentReaction upserts the user's reaction to a comment, flipping the
// type on conflict.
func (r *ReactionRepository) SetCommentReaction(ctx context.Context, userID, commentID uuid.UUID, reaction model.ReactionType) (*model.CommentReaction, error) {
	const query = `
		INSERT INTO comment_reactions (user_id, comment_id, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, comment_id) DO UPDATE SET type = $3, updated_at = $4
		RETURNING user_id, comment_id, type, created_at, updated_at
	`

	var (
		result model.CommentReaction
		rt     string
	)
	err := r.db.QueryRow(ctx, query, userID, commentID, string(reaction), time.Now()).Scan(
		&result.UserID, &result.CommentID, &rt, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set comment reaction: %w", err)
	}

	result.Type = model.ReactionType(rt)
	return &result, nil
}

// ClearCommentReaction removes the user's reaction to a comment.
func (r *ReactionRepository) ClearCommentReaction(ctx context.Context, userID, commentID uuid.UUID) error {
	const query = `DELETE FROM comment_reactions WHERE user_id = $1 AND comment_id = $2`

	if _, err := r.db.Exec(ctx, query, userID, commentID); err != nil {
		return fmt.Errorf("failed to clear comment reaction: %w", err)
	}
	return nil
}

// Compile-time verification that ReactionRepository implements repository.ReactionRepository.
var _ repository.ReactionRepository = (*ReactionRepository)(nil)
