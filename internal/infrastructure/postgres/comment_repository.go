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
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

const commentColumns = `c.id, c.video_id, c.user_id, c.parent_id, c.value, c.created_at, c.updated_at`

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db DBTX
}

// NewCommentRepository creates a new CommentRepository instance.
func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create persists a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	const query = `
		INSERT INTO comments (id, video_id, user_id, parent_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.UserID,
		comment.ParentID,
		comment.Value,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by id.
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments c
		WHERE c.id = $1
	`

	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// Delete removes a comment owned by ownerID. Replies cascade via the
// parent_id foreign key.
func (r *CommentRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Comment, error) {
	const query = `
		DELETE FROM comments c
		WHERE c.id = $1 AND c.user_id = $2
		RETURNING ` + commentColumns + `
	`

	comment, err := scanComment(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}

	return comment, nil
}

// List returns one page of a video's comments ordered by (updated_at, id)
// descending. A nil parentID selects top-level comments, a non-nil one the
// replies of that parent. The viewer's own reaction is attached per row when
// a viewer id is supplied.
func (r *CommentRepository) List(ctx context.Context, videoID uuid.UUID, parentID, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.CommentSummary, error) {
	const query = `
		SELECT ` + commentColumns + `,
			u.id, u.subject, u.name, u.image_url, u.banner_url, u.created_at, u.updated_at,
			(SELECT count(*) FROM comments rc WHERE rc.parent_id = c.id) AS reply_count,
			(SELECT count(*) FROM comment_reactions cr WHERE cr.comment_id = c.id AND cr.type = 'like') AS like_count,
			(SELECT count(*) FROM comment_reactions cr WHERE cr.comment_id = c.id AND cr.type = 'dislike') AS dislike_count,
			(SELECT cr.type FROM comment_reactions cr
			  WHERE cr.comment_id = c.id AND $4::uuid IS NOT NULL AND cr.user_id = $4) AS viewer_reaction
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.video_id = $1
		  AND (($2::uuid IS NULL AND c.parent_id IS NULL) OR c.parent_id = $2)
		  AND ($3::timestamptz IS NULL
		       OR c.updated_at < $3
		       OR (c.updated_at = $3 AND c.id < $5))
		ORDER BY c.updated_at DESC, c.id DESC
		LIMIT $6
	`

	var cursorAt *time.Time
	var cursorID *uuid.UUID
	if cursor != nil {
		cursorAt = &cursor.UpdatedAt
		cursorID = &cursor.ID
	}

	rows, err := r.db.Query(ctx, query, videoID, parentID, cursorAt, viewerID, cursorID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var summaries []model.CommentSummary
	for rows.Next() {
		var (
			s           model.CommentSummary
			ownerBanner *string
			reaction    *string
		)

		err := rows.Scan(
			&s.ID,
			&s.VideoID,
			&s.UserID,
			&s.ParentID,
			&s.Value,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.Owner.ID,
			&s.Owner.Subject,
			&s.Owner.Name,
			&s.Owner.ImageURL,
			&ownerBanner,
			&s.Owner.CreatedAt,
			&s.Owner.UpdatedAt,
			&s.ReplyCount,
			&s.LikeCount,
			&s.DislikeCount,
			&reaction,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment summary: %w", err)
		}

		s.Owner.BannerURL = stringValue(ownerBanner)
		if reaction != nil {
			rt := model.ReactionType(*reaction)
			s.ViewerReaction = &rt
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment summaries: %w", err)
	}

	return summaries, nil
}

// CountByVideo returns the total number of comments on a video.
func (r *CommentRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	const query = `SELECT count(*) FROM comments WHERE video_id = $1`

	var total int64
	if err := r.db.QueryRow(ctx, query, videoID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return total, nil
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var comment model.Comment
	err := row.Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.UserID,
		&comment.ParentID,
		&comment.Value,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Compile-time verification that CommentRepository implements repository.CommentRepository.
var _ repository.CommentRepository = (*CommentRepository)(nil)
