package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// VideoFilter narrows the video feed. Zero-value fields are ignored.
type VideoFilter struct {
	// OwnerID restricts the feed to one creator's videos.
	OwnerID *uuid.UUID
	// CategoryID restricts the feed to one category.
	CategoryID *uuid.UUID
	// Query is a case-insensitive substring match on the title.
	Query string
	// SubscribedBy restricts the feed to creators this viewer subscribes to.
	SubscribedBy *uuid.UUID
	// IncludePrivate includes non-public videos; only valid for studio
	// queries scoped by OwnerID.
	IncludePrivate bool
	// ExcludeID drops one video from the feed (used by suggestions).
	ExcludeID *uuid.UUID
}

// VideoUpdate carries the owner-editable video fields.
type VideoUpdate struct {
	Title       string
	Description string
	CategoryID  *uuid.UUID
	Visibility  model.Visibility
}

// VideoRepository defines the interface for video persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type VideoRepository interface {
	// Create persists a new video entity.
	Create(ctx context.Context, video *model.Video) error

	// GetByID retrieves a video by its unique identifier.
	// Returns nil and ErrVideoNotFound if the video does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// GetSummary retrieves a video with its owner and aggregate counters.
	GetSummary(ctx context.Context, id uuid.UUID) (*model.VideoSummary, error)

	// Update persists changes to an existing video entity.
	Update(ctx context.Context, video *model.Video) error

	// UpdateDetails applies the owner-editable fields to a video owned by
	// ownerID. Returns ErrVideoNotFound if no such row exists.
	UpdateDetails(ctx context.Context, id, ownerID uuid.UUID, update VideoUpdate) (*model.Video, error)

	// UpdateStatus updates only the status field of a video.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error

	// Delete removes a video owned by ownerID.
	// Returns ErrVideoNotFound if no such row exists.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Video, error)

	// List returns one page of the video feed ordered by
	// (updated_at, id) descending, filtered by filter.
	List(ctx context.Context, filter VideoFilter, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)

	// ListTrending returns one page of public videos ordered by
	// (view_count, id) descending.
	ListTrending(ctx context.Context, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)

	// ListLiked returns one page of videos the user liked, ordered by the
	// reaction's (updated_at, id) descending.
	ListLiked(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)

	// ListHistory returns one page of videos the user viewed, ordered by the
	// view's (updated_at, id) descending.
	ListHistory(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)

	// RecordView upserts the (user, video) view edge, bumping its timestamp.
	RecordView(ctx context.Context, userID, videoID uuid.UUID) error
}
