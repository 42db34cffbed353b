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

const playlistColumns = `p.id, p.user_id, p.name, p.description, p.created_at, p.updated_at`

// PlaylistRepository implements repository.PlaylistRepository using PostgreSQL.
type PlaylistRepository struct {
	db DBTX
}

// NewPlaylistRepository creates a new PlaylistRepository instance.
func NewPlaylistRepository(db DBTX) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create persists a new playlist.
func (r *PlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	const query = `
		INSERT INTO playlists (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		playlist.ID,
		playlist.UserID,
		playlist.Name,
		playlist.Description,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	return nil
}

// GetByID retrieves a playlist by id.
func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	const query = `SELECT ` + playlistColumns + ` FROM playlists p WHERE p.id = $1`

	playlist, err := scanPlaylist(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	return playlist, nil
}

// Delete removes a playlist owned by ownerID. Membership edges go with it.
func (r *PlaylistRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Playlist, error) {
	const query = `
		DELETE FROM playlists p
		WHERE p.id = $1 AND p.user_id = $2
		RETURNING ` + playlistColumns

	playlist, err := scanPlaylist(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to delete playlist: %w", err)
	}

	return playlist, nil
}

// List returns one page of the owner's playlists ordered by (updated_at, id)
// descending, each with its video count.
func (r *PlaylistRepository) List(ctx context.Context, ownerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.PlaylistSummary, error) {
	const query = `
		SELECT ` + playlistColumns + `,
			(SELECT count(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id) AS video_count
		FROM playlists p
		WHERE p.user_id = $1
		  AND ($2::timestamptz IS NULL
		       OR p.updated_at < $2
		       OR (p.updated_at = $2 AND p.id < $3))
		ORDER BY p.updated_at DESC, p.id DESC
		LIMIT $4
	`

	var cursorAt *time.Time
	var cursorID *uuid.UUID
	if cursor != nil {
		cursorAt = &cursor.UpdatedAt
		cursorID = &cursor.ID
	}

	rows, err := r.db.Query(ctx, query, ownerID, cursorAt, cursorID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var summaries []model.PlaylistSummary
	for rows.Next() {
		var s model.PlaylistSummary
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.Description,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.VideoCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlist summaries: %w", err)
	}

	return summaries, nil
}

// AddVideo inserts the (playlist, video) membership edge.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	const query = `
		INSERT INTO playlist_videos (playlist_id, video_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
	`

	_, err := r.db.Exec(ctx, query, playlistID, videoID, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repository.ErrDuplicatePlaylistVideo
		}
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}

	return nil
}

// RemoveVideo removes the membership edge.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	const query = `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`

	tag, err := r.db.Exec(ctx, query, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrPlaylistVideoNotFound
	}

	return nil
}

// ContainsVideo reports whether the playlist contains the video.
func (r *PlaylistRepository) ContainsVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, playlistID, videoID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check playlist membership: %w", err)
	}
	return exists, nil
}

// ListVideos returns one page of a playlist's videos ordered by the membership
// edge's (updated_at, video_id) descending, so recently added videos come first.
func (r *PlaylistRepository) ListVideos(ctx context.Context, playlistID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	const query = `
		SELECT ` + summaryColumns + `,
			pv.updated_at AS edge_updated_at
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		JOIN users u ON u.id = v.user_id
		WHERE pv.playlist_id = $1
		  AND ($2::timestamptz IS NULL
		       OR pv.updated_at < $2
		       OR (pv.updated_at = $2 AND pv.video_id < $3))
		ORDER BY pv.updated_at DESC, pv.video_id DESC
		LIMIT $4
	`

	var cursorAt *time.Time
	var cursorID *uuid.UUID
	if cursor != nil {
		cursorAt = &cursor.UpdatedAt
		cursorID = &cursor.ID
	}

	rows, err := r.db.Query(ctx, query, playlistID, cursorAt, cursorID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist videos: %w", err)
	}
	defer rows.Close()

	return collectEdgeVideoSummaries(rows)
}

func scanPlaylist(row pgx.Row) (*model.Playlist, error) {
	var p model.Playlist
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Compile-time interface check.
var _ repository.PlaylistRepository = (*PlaylistRepository)(nil)
