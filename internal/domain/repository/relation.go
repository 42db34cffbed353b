package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// SubscriptionRepository defines the interface for viewer->creator edges.
type SubscriptionRepository interface {
	// Create inserts the edge. Returns ErrDuplicateSubscription if it exists.
	Create(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error)

	// Delete removes the edge. Returns ErrSubscriptionNotFound if absent.
	Delete(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error)

	// List returns one page of the viewer's subscriptions ordered by
	// (updated_at, creator_id) descending.
	List(ctx context.Context, viewerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.SubscriptionSummary, error)
}

// BlockRepository defines the interface for blocker->blocked edges.
type BlockRepository interface {
	// Create inserts the edge. Returns ErrDuplicateBlock if it exists.
	Create(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error)

	// Delete removes the edge. Returns ErrBlockNotFound if absent.
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error)

	// Exists reports whether blockerID has blocked blockedID.
	Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)

	// List returns one page of the users blocked by blockerID ordered by
	// (updated_at, blocked_id) descending.
	List(ctx context.Context, blockerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.BlockSummary, error)
}
