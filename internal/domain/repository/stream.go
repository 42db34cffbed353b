package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// StreamUpdate carries the owner-editable stream fields.
type StreamUpdate struct {
	Title       string
	Description string
	Visibility  model.StreamVisibility
}

// StreamRepository defines the interface for stream session persistence.
type StreamRepository interface {
	// Create persists a new stream session. Returns ErrDuplicateStream if
	// the broadcaster already has one.
	Create(ctx context.Context, stream *model.Stream) error

	// GetByID retrieves a stream session by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Stream, error)

	// GetByUserID retrieves the broadcaster's stream session.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Stream, error)

	// GetByStreamKey resolves a stream session by its ingest key.
	GetByStreamKey(ctx context.Context, streamKey string) (*model.Stream, error)

	// GetDetail retrieves a broadcaster's stream joined with the viewer's
	// relationship predicates. A nil viewerID yields all-false predicates.
	GetDetail(ctx context.Context, broadcasterID uuid.UUID, viewerID *uuid.UUID) (*model.StreamDetail, error)

	// UpdateDetails applies the owner-editable fields to the stream owned
	// by ownerID.
	UpdateDetails(ctx context.Context, id, ownerID uuid.UUID, update StreamUpdate) (*model.Stream, error)

	// SetLive atomically marks the session live and stores the cached
	// public token, guarded by the event timestamp: an event older than the
	// last applied one returns ErrStaleStreamEvent and changes nothing.
	SetLive(ctx context.Context, streamKey, publicToken string, eventTime time.Time) (*model.Stream, error)

	// SetOffline atomically clears the live flag and the cached token in
	// one update, with the same staleness guard as SetLive.
	SetOffline(ctx context.Context, streamKey string, eventTime time.Time) (*model.Stream, error)

	// Delete removes the broadcaster's stream session, returning the
	// removed row.
	Delete(ctx context.Context, userID uuid.UUID) (*model.Stream, error)

	// List returns one page of the streams feed ordered by (updated_at, id)
	// descending, with each row's viewer-subscribed flag resolved against
	// viewerID (all false when nil).
	List(ctx context.Context, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.StreamSummary, error)
}
