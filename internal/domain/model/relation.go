package model

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a directed viewer->creator edge. Self-referencing edges
// are forbidden; the (ViewerID, CreatorID) pair is the primary key.
type Subscription struct {
	ViewerID  uuid.UUID
	CreatorID uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubscriptionSummary is a subscription as it appears in the viewer's
// subscriptions feed.
type SubscriptionSummary struct {
	Subscription
	Creator         User
	SubscriberCount int64
	CreatorIsLive   bool
}

// Block is a directed blocker->blocked edge keyed by (BlockerID, BlockedID).
type Block struct {
	BlockerID uuid.UUID
	BlockedID uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlockSummary is a block edge joined with the blocked user's profile.
type BlockSummary struct {
	Block
	Blocked User
}
