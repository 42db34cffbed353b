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

const streamColumns = `
	s.id, s.user_id, s.title, s.description, s.stream_key, s.playback_id,
	s.visibility, s.is_live, s.public_token, s.last_status_at, s.created_at, s.updated_at`

// StreamRepository implements repository.StreamRepository using PostgreSQL.
type StreamRepository struct {
	db DBTX
}

// NewStreamRepository creates a new StreamRepository instance.
func NewStreamRepository(db DBTX) *StreamRepository {
	return &StreamRepository{db: db}
}

// Create persists a new stream session. The unique index on user_id enforces
// at most one session per broadcaster.
func (r *StreamRepository) Create(ctx context.Context, stream *model.Stream) error {
	const query = `
		INSERT INTO streams (id, user_id, title, description, stream_key, playback_id,
		                     visibility, is_live, public_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		stream.ID,
		stream.UserID,
		stream.Title,
		nullString(stream.Description),
		stream.StreamKey,
		stream.PlaybackID,
		string(stream.Visibility),
		stream.IsLive,
		nullString(stream.PublicToken),
		stream.CreatedAt,
		stream.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repository.ErrDuplicateStream
		}
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// GetByID retrieves a stream session by id.
func (r *StreamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Stream, error) {
	const query = `
		SELECT` + streamColumns + `
		FROM streams s
		WHERE s.id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByUserID retrieves the broadcaster's stream session.
func (r *StreamRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Stream, error) {
	const query = `
		SELECT` + streamColumns + `
		FROM streams s
		WHERE s.user_id = $1
	`
	return r.getOne(ctx, query, userID)
}

// GetByStreamKey resolves a stream session by its ingest key.
func (r *StreamRepository) GetByStreamKey(ctx context.Context, streamKey string) (*model.Stream, error) {
	const query = `
		SELECT` + streamColumns + `
		FROM streams s
		WHERE s.stream_key = $1
	`
	return r.getOne(ctx, query, streamKey)
}

// GetDetail retrieves a broadcaster's stream joined with the relationship
// predicates for the requesting viewer. The viewer id may be nil; each
// predicate subselect guards on it so anonymous viewers resolve to false
// rather than joining against a null key.
func (r *StreamRepository) GetDetail(ctx context.Context, broadcasterID uuid.UUID, viewerID *uuid.UUID) (*model.StreamDetail, error) {
	const query = `
		SELECT` + streamColumns + `,
			u.id, u.subject, u.name, u.image_url, u.banner_url, u.created_at, u.updated_at,
			($2::uuid IS NOT NULL AND EXISTS(
				SELECT 1 FROM blocks b WHERE b.blocker_id = s.user_id AND b.blocked_id = $2)),
			($2::uuid IS NOT NULL AND EXISTS(
				SELECT 1 FROM subscriptions sub WHERE sub.viewer_id = $2 AND sub.creator_id = s.user_id)),
			($2::uuid IS NOT NULL AND s.user_id = $2)
		FROM streams s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1
	`

	var (
		d           model.StreamDetail
		visibility  string
		description *string
		token       *string
		ownerBanner *string
	)

	err := r.db.QueryRow(ctx, query, broadcasterID, viewerID).Scan(
		&d.ID,
		&d.UserID,
		&d.Title,
		&description,
		&d.StreamKey,
		&d.PlaybackID,
		&visibility,
		&d.IsLive,
		&token,
		&d.LastStatusAt,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.Owner.ID,
		&d.Owner.Subject,
		&d.Owner.Name,
		&d.Owner.ImageURL,
		&ownerBanner,
		&d.Owner.CreatedAt,
		&d.Owner.UpdatedAt,
		&d.Relationship.IsBlocked,
		&d.Relationship.IsSubscribed,
		&d.Relationship.IsOwner,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrStreamNotFound
		}
		return nil, fmt.Errorf("failed to get stream detail: %w", err)
	}

	d.Visibility = model.StreamVisibility(visibility)
	d.Description = stringValue(description)
	d.PublicToken = stringValue(token)
	d.Owner.BannerURL = stringValue(ownerBanner)

	return &d, nil
}

// UpdateDetails applies the owner-editable fields to the stream owned by ownerID.
func (r *StreamRepository) UpdateDetails(ctx context.Context, id, ownerID uuid.UUID, update repository.StreamUpdate) (*model.Stream, error) {
	const query = `
		UPDATE streams s
		SET title = $3, description = $4, visibility = $5, updated_at = $6
		WHERE s.id = $1 AND s.user_id = $2
		RETURNING` + streamColumns + `
	`

	stream, err := scanStream(r.db.QueryRow(ctx, query,
		id,
		ownerID,
		update.Title,
		nullString(update.Description),
		string(update.Visibility),
		time.Now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrStreamNotFound
		}
		return nil, fmt.Errorf("failed to update stream details: %w", err)
	}

	return stream, nil
}

// SetLive atomically marks the session live and stores the cached public
// token. The last_status_at guard rejects events older than the one already
// applied, so a delayed "active" cannot clobber a newer "disconnected".
func (r *StreamRepository) SetLive(ctx context.Context, streamKey, publicToken string, eventTime time.Time) (*model.Stream, error) {
	const query = `
		UPDATE streams s
		SET is_live = TRUE, public_token = $2, last_status_at = $3, updated_at = $3
		WHERE s.stream_key = $1
		  AND (s.last_status_at IS NULL OR s.last_status_at < $3)
		RETURNING` + streamColumns + `
	`
	return r.transition(ctx, query, streamKey, eventTime, nullString(publicToken))
}

// SetOffline atomically clears the live flag and the cached token in one
// update, with the same staleness guard as SetLive.
func (r *StreamRepository) SetOffline(ctx context.Context, streamKey string, eventTime time.Time) (*model.Stream, error) {
	const query = `
		UPDATE streams s
		SET is_live = FALSE, public_token = NULL, last_status_at = $2, updated_at = $2
		WHERE s.stream_key = $1
		  AND (s.last_status_at IS NULL OR s.last_status_at < $2)
		RETURNING` + streamColumns + `
	`
	return r.transition(ctx, query, streamKey, eventTime)
}

// transition runs a guarded status update. When no row comes back the two
// failure modes are distinguished by re-resolving the key: a missing session
// is ErrStreamNotFound, an existing one means the guard rejected the event.
func (r *StreamRepository) transition(ctx context.Context, query, streamKey string, eventTime time.Time, extra ...any) (*model.Stream, error) {
	args := append([]any{streamKey}, append(extra, eventTime)...)

	stream, err := scanStream(r.db.QueryRow(ctx, query, args...))
	if err == nil {
		return stream, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to transition stream status: %w", err)
	}

	if _, lookupErr := r.GetByStreamKey(ctx, streamKey); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, repository.ErrStaleStreamEvent
}

// Delete removes the broadcaster's stream session, returning the removed row.
func (r *StreamRepository) Delete(ctx context.Context, userID uuid.UUID) (*model.Stream, error) {
	const query = `
		DELETE FROM streams s
		WHERE s.user_id = $1
		RETURNING` + streamColumns + `
	`

	stream, err := scanStream(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrStreamNotFound
		}
		return nil, fmt.Errorf("failed to delete stream: %w", err)
	}

	return stream, nil
}

// List returns one page of the streams feed ordered by (updated_at, id)
// descending.
func (r *StreamRepository) List(ctx context.Context, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.StreamSummary, error) {
	const query = `
		SELECT` + streamColumns + `,
			u.id, u.subject, u.name, u.image_url, u.banner_url, u.created_at, u.updated_at,
			($1::uuid IS NOT NULL AND EXISTS(
				SELECT 1 FROM subscriptions sub WHERE sub.viewer_id = $1 AND sub.creator_id = s.user_id))
		FROM streams s
		JOIN users u ON u.id = s.user_id
		WHERE ($2::timestamptz IS NULL
		       OR s.updated_at < $2
		       OR (s.updated_at = $2 AND s.id < $3))
		ORDER BY s.updated_at DESC, s.id DESC
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
		return nil, fmt.Errorf("failed to query streams feed: %w", err)
	}
	defer rows.Close()

	var summaries []model.StreamSummary
	for rows.Next() {
		var (
			s           model.StreamSummary
			visibility  string
			description *string
			token       *string
			ownerBanner *string
		)

		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Title,
			&description,
			&s.StreamKey,
			&s.PlaybackID,
			&visibility,
			&s.IsLive,
			&token,
			&s.LastStatusAt,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.Owner.ID,
			&s.Owner.Subject,
			&s.Owner.Name,
			&s.Owner.ImageURL,
			&ownerBanner,
			&s.Owner.CreatedAt,
			&s.Owner.UpdatedAt,
			&s.ViewerSubscribed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stream summary: %w", err)
		}

		s.Visibility = model.StreamVisibility(visibility)
		s.Description = stringValue(description)
		s.PublicToken = stringValue(token)
		s.Owner.BannerURL = stringValue(ownerBanner)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stream summaries: %w", err)
	}

	return summaries, nil
}

func (r *StreamRepository) getOne(ctx context.Context, query string, arg any) (*model.Stream, error) {
	stream, err := scanStream(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrStreamNotFound
		}
		return nil, fmt.Errorf("failed to get stream: %w", err)
	}
	return stream, nil
}

func scanStream(row pgx.Row) (*model.Stream, error) {
	var (
		stream      model.Stream
		visibility  string
		description *string
		token       *string
	)

	err := row.Scan(
		&stream.ID,
		&stream.UserID,
		&stream.Title,
		&description,
		&stream.StreamKey,
		&stream.PlaybackID,
		&visibility,
		&stream.IsLive,
		&token,
		&stream.LastStatusAt,
		&stream.CreatedAt,
		&stream.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	stream.Visibility = model.StreamVisibility(visibility)
	stream.Description = stringValue(description)
	stream.PublicToken = stringValue(token)

	return &stream, nil
}

// Compile-time verification that StreamRepository implements repository.StreamRepository.
var _ repository.StreamRepository = (*StreamRepository)(nil)
