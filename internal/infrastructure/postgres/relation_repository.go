package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// SubscriptionRepository implements repository.SubscriptionRepository using PostgreSQL.
type SubscriptionRepository struct {
	db DBTX
}

// NewSubscriptionRepository creates a new SubscriptionRepository instance.
func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts the viewer->creator edge. The composite primary key makes
// a duplicate subscribe surface as ErrDuplicateSubscription.
func (r *SubscriptionRepository) Create(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error) {
	const query = `
		INSERT INTO subscriptions (viewer_id, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING viewer_id, creator_id, created_at, updated_at
	`

	var sub model.Subscription
	err := r.db.QueryRow(ctx, query, viewerID, creatorID, time.Now()).Scan(
		&sub.ViewerID, &sub.CreatorID, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, repository.ErrDuplicateSubscription
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return &sub, nil
}

// Delete removes the viewer->creator edge.
func (r *SubscriptionRepository) Delete(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error) {
	const query = `
		DELETE FROM subscriptions
		WHERE viewer_id = $1 AND creator_id = $2
		RETURNING viewer_id, creator_id, created_at, updated_at
	`

	var sub model.Subscription
	err := r.db.QueryRow(ctx, query, viewerID, creatorID).Scan(
		&sub.ViewerID, &sub.CreatorID, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to delete subscription: %w", err)
	}

	return &sub, nil
}

// List returns one page of the viewer's subscriptions ordered by
// (updated_at, creator_id) descending, each with the creator's profile,
// subscriber count, and live flag.
func (r *SubscriptionRepository) List(ctx context.Context, viewerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.SubscriptionSummary, error) {
	const query = `
		SELECT sub.viewer_id, sub.creator_id, sub.created_at, sub.updated_at,
			u.id, u.subject, u.name, u.image_url, u.banner_url, u.created_at, u.updated_at,
			(SELECT count(*) FROM subscriptions sc WHERE sc.creator_id = u.id) AS subscriber_count,
			COALESCE(s.is_live, FALSE)
		FROM subscriptions sub
		JOIN users u ON u.id = sub.creator_id
		LEFT JOIN streams s ON s.user_id = sub.creator_id
		WHERE sub.viewer_id = $1
		  AND ($2::timestamptz IS NULL
		       OR sub.updated_at < $2
		       OR (sub.updated_at = $2 AND sub.creator_id < $3))
		ORDER BY sub.updated_at DESC, sub.creator_id DESC
		LIMIT $4
	`

	var cursorAt *time.Time
	var cursorID *uuid.UUID
	if cursor != nil {
		cursorAt = &cursor.UpdatedAt
		cursorID = &cursor.ID
	}

	rows, err := r.db.Query(ctx, query, viewerID, cursorAt, cursorID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var summaries []model.SubscriptionSummary
	for rows.Next() {
		var (
			s      model.SubscriptionSummary
			banner *string
		)

		err := rows.Scan(
			&s.ViewerID,
			&s.CreatorID,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.Creator.ID,
			&s.Creator.Subject,
			&s.Creator.Name,
			&s.Creator.ImageURL,
			&banner,
			&s.Creator.CreatedAt,
			&s.Creator.UpdatedAt,
			&s.SubscriberCount,
			&s.CreatorIsLive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription summary: %w", err)
		}

		s.Creator.BannerURL = stringValue(banner)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription summaries: %w", err)
	}

	return summaries, nil
}

// BlockRepository implements repository.BlockRepository using PostgreSQL.
type BlockRepository struct {
	db DBTX
}

// NewBlockRepository creates a new BlockRepository instance.
func NewBlockRepository(db DBTX) *BlockRepository {
	return &BlockRepository{db: db}
}

// Create inserts the blocker->blocked edge.
func (r *BlockRepository) Create(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error) {
	const query = `
		INSERT INTO blocks (blocker_id, blocked_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING blocker_id, blocked_id, created_at, updated_at
	`

	var block model.Block
	err := r.db.QueryRow(ctx, query, blockerID, blockedID, time.Now()).Scan(
		&block.BlockerID, &block.BlockedID, &block.CreatedAt, &block.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, repository.ErrDuplicateBlock
		}
		return nil, fmt.Errorf("failed to create block: %w", err)
	}

	return &block, nil
}

// Delete removes the blocker->blocked edge.
func (r *BlockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error) {
	const query = `
		DELETE FROM blocks
		WHERE blocker_id = $1 AND blocked_id = $2
		RETURNING blocker_id, blocked_id, created_at, updated_at
	`

	var block model.Block
	err := r.db.QueryRow(ctx, query, blockerID, blockedID).Scan(
		&block.BlockerID, &block.BlockedID, &block.CreatedAt, &block.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrBlockNotFound
		}
		return nil, fmt.Errorf("failed to delete block: %w", err)
	}

	return &block, nil
}

// Exists reports whether blockerID has blocked blockedID.
func (r *BlockRepository) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM blocks WHERE blocker_id = $1 AND blocked_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, blockerID, blockedID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return exists, nil
}

// List returns one page of the users blocked by blockerID ordered by
// (updated_at, blocked_id) descending.
func (r *BlockRepository) List(ctx context.Context, blockerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.BlockSummary, error) {
	const query = `
		SELECT b.blocker_id, b.blocked_id, b.created_at, b.updated_at,
			u.id, u.subject, u.name, u.image_url, u.banner_url, u.created_at, u.updated_at
		FROM blocks b
		JOIN users u ON u.id = b.blocked_id
		WHERE b.blocker_id = $1
		  AND ($2::timestamptz IS NULL
		       OR b.updated_at < $2
		       OR (b.updated_at = $2 AND b.blocked_id < $3))
		ORDER BY b.updated_at DESC, b.blocked_id DESC
		LIMIT $4
	`

	var cursorAt *time.Time
	var cursorID *uuid.UUID
	if cursor != nil {
		cursorAt = &cursor.UpdatedAt
		cursorID = &cursor.ID
	}

	rows, err := r.db.Query(ctx, query, blockerID, cursorAt, cursorID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	defer rows.Close()

	var summaries []model.BlockSummary
	for rows.Next() {
		var (
			s      model.BlockSummary
			banner *string
		)

		err := rows.Scan(
			&s.BlockerID,
			&s.BlockedID,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.Blocked.ID,
			&s.Blocked.Subject,
			&s.Blocked.Name,
			&s.Blocked.ImageURL,
			&banner,
			&s.Blocked.CreatedAt,
			&s.Blocked.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block summary: %w", err)
		}

		s.Blocked.BannerURL = stringValue(banner)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating block summaries: %w", err)
	}

	return summaries, nil
}

// Compile-time interface checks.
var (
	_ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)
	_ repository.BlockRepository        = (*BlockRepository)(nil)
)
