package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// PlaylistRepository defines the interface for playlist persistence.
type PlaylistRepository interface {
	// Create persists a new playlist.
	Create(ctx context.Context, playlist *model.Playlist) error

	// GetByID retrieves a playlist by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error)

	// Delete removes a playlist owned by ownerID.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Playlist, error)

	// List returns one page of the owner's playlists ordered by
	// (updated_at, id) descending.
	List(ctx context.Context, ownerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.PlaylistSummary, error)

	// AddVideo inserts the (playlist, video) membership edge.
	// Returns ErrDuplicatePlaylistVideo if it exists.
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error

	// RemoveVideo removes the membership edge.
	// Returns ErrPlaylistVideoNotFound if absent.
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error

	// ContainsVideo reports whether the playlist contains the video.
	ContainsVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error)

	// ListVideos returns one page of a playlist's videos ordered by the
	// membership edge's (updated_at, video_id) descending.
	ListVideos(ctx context.Context, playlistID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)
}
