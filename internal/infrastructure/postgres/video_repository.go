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

// videoColumns is the canonical select list for a bare video row.
const videoColumns = `
	v.id, v.user_id, v.category_id, v.title, v.description, v.status, v.visibility,
	v.original_url, v.hls_url, v.thumbnail_url, v.duration, v.created_at, v.updated_at`

// summaryColumns extends videoColumns with the owner and per-row aggregates
// every feed returns.
const summaryColumns = videoColumns + `,
	u.id, u.subject, u.name, u.image_url, u.banner_url, u.created_at, u.updated_at,
	(SELECT count(*) FROM video_views vv WHERE vv.video_id = v.id) AS view_count,
	(SELECT count(*) FROM video_reactions vr WHERE vr.video_id = v.id AND vr.type = 'like') AS like_count,
	(SELECT count(*) FROM video_reactions vr WHERE vr.video_id = v.id AND vr.type = 'dislike') AS dislike_count`

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create persists a new video entity.
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (id, user_id, category_id, title, description, status, visibility,
		                    original_url, hls_url, thumbnail_url, duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.UserID,
		video.CategoryID,
		video.Title,
		nullString(video.Description),
		video.Status.String(),
		string(video.Visibility),
		nullString(video.OriginalURL),
		nullString(video.HLSURL),
		nullString(video.ThumbnailURL),
		video.Duration,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repository.ErrDuplicateVideo
		}
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by its unique identifier.
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	const query = `
		SELECT` + videoColumns + `
		FROM videos v
		WHERE v.id = $1
	`

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}

	return video, nil
}

// GetSummary retrieves a video with its owner and aggregate counters.
func (r *VideoRepository) GetSummary(ctx context.Context, id uuid.UUID) (*model.VideoSummary, error) {
	const query = `
		SELECT` + summaryColumns + `
		FROM videos v
		JOIN users u ON u.id = v.user_id
		WHERE v.id = $1
	`

	summary, err := scanVideoSummary(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video summary: %w", err)
	}

	return summary, nil
}

// Update persists changes to an existing video entity.
func (r *VideoRepository) Update(ctx context.Context, video *model.Video) error {
	const query = `
		UPDATE videos
		SET title = $2, description = $3, category_id = $4, status = $5, visibility = $6,
		    original_url = $7, hls_url = $8, thumbnail_url = $9, duration = $10, updated_at = $11
		WHERE id = $1
	`

	video.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		video.ID,
		video.Title,
		nullString(video.Description),
		video.CategoryID,
		video.Status.String(),
		string(video.Visibility),
		nullString(video.OriginalURL),
		nullString(video.HLSURL),
		nullString(video.ThumbnailURL),
		video.Duration,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// UpdateDetails applies the owner-editable fields to a video owned by ownerID.
func (r *VideoRepository) UpdateDetails(ctx context.Context, id, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error) {
	const query = `
		UPDATE videos v
		SET title = $3, description = $4, category_id = $5, visibility = $6, updated_at = $7
		WHERE v.id = $1 AND v.user_id = $2
		RETURNING` + videoColumns + `
	`

	video, err := scanVideo(r.db.QueryRow(ctx, query,
		id,
		ownerID,
		update.Title,
		nullString(update.Description),
		update.CategoryID,
		string(update.Visibility),
		time.Now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to update video details: %w", err)
	}

	return video, nil
}

// UpdateStatus updates only the status field of a video.
func (r *VideoRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	const query = `
		UPDATE videos
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, status.String(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to update video status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// Delete removes a video owned by ownerID, returning the removed row.
func (r *VideoRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Video, error) {
	const query = `
		DELETE FROM videos v
		WHERE v.id = $1 AND v.user_id = $2
		RETURNING` + videoColumns + `
	`

	video, err := scanVideo(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to delete video: %w", err)
	}

	return video, nil
}

// List returns one page of the video feed ordered by (updated_at, id)
// descending. The cursor predicate is the composite comparison
// (updated_at, id) < (cursor.updated_at, cursor.id), written out so ties on
// updated_at still order deterministically by id.
func (r *VideoRepository) List(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	const query = `
		SELECT` + summaryColumns + `
		FROM videos v
		JOIN users u ON u.id = v.user_id
		WHERE ($1::uuid IS NULL OR v.user_id = $1)
		  AND ($2::uuid IS NULL OR v.category_id = $2)
		  AND ($3::text IS NULL OR v.title ILIKE '%' || $3 || '%')
		  AND ($4::uuid IS NULL OR v.user_id IN (
		        SELECT s.creator_id FROM subscriptions s WHERE s.viewer_id = $4))
		  AND ($5::boolean OR v.visibility = 'public')
		  AND ($6::uuid IS NULL OR v.id <> $6)
		  AND ($7::timestamptz IS NULL
		       OR v.updated_at < $7
		       OR (v.updated_at = $7 AND v.id < $8))
		ORDER BY v.updated_at DESC, v.id DESC
		LIMIT $9
	`

	var cursorAt *time.Time
	var cursorID *uuid.UUID
	if cursor != nil {
		cursorAt = &cursor.UpdatedAt
		cursorID = &cursor.ID
	}

	rows, err := r.db.Query(ctx, query,
		filter.OwnerID,
		filter.CategoryID,
		nullString(filter.Query),
		filter.SubscribedBy,
		filter.IncludePrivate,
		filter.ExcludeID,
		cursorAt,
		cursorID,
		limit+1,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query video feed: %w", err)
	}
	defer rows.Close()

	return collectVideoSummaries(rows)
}

// ListTrending returns one page of public videos ordered by the derived
// view count. The aggregate is materialized in a derived table exposing
// only (id, view_count) so the cursor can compare them exactly like stored
// sort columns; the full summary row is joined back through the id.
func (r *VideoRepository) ListTrending(ctx context.Context, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	const query = `
		SELECT` + summaryColumns + `
		FROM (
			SELECT p.id,
			       (SELECT count(*) FROM video_views pv WHERE pv.video_id = p.id) AS view_count
			FROM videos p
			WHERE p.visibility = 'public'
		) t
		JOIN videos v ON v.id = t.id
		JOIN users u ON u.id = v.user_id
		WHERE ($1::bigint IS NULL
		       OR t.view_count < $1
		       OR (t.view_count = $1 AND t.id < $2))
		ORDER BY t.view_count DESC, t.id DESC
		LIMIT $3
	`

	var cursorViews *int64
	var cursorID *uuid.UUID
	if cursor != nil && cursor.ViewCount != nil {
		cursorViews = cursor.ViewCount
		cursorID = &cursor.ID
	}

	rows, err := r.db.Query(ctx, query, cursorViews, cursorID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query trending feed: %w", err)
	}
	defer rows.Close()

	return collectVideoSummaries(rows)
}

// ListLiked returns one page of videos the user liked, ordered by the
// reaction edge rather than the video row so re-liking resurfaces a video.
func (r *VideoRepository) ListLiked(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	const query = `
		SELECT` + summaryColumns + `,
			lr.updated_at AS edge_updated_at
		FROM video_reactions lr
		JOIN videos v ON v.id = lr.video_id
		JOIN users u ON u.id = v.user_id
		WHERE lr.user_id = $1 AND lr.type = 'like'
		  AND ($2::timestamptz IS NULL
		       OR lr.updated_at < $2
		       OR (lr.updated_at = $2 AND v.id < $3))
		ORDER BY lr.updated_at DESC, v.id DESC
		LIMIT $4
	`

	return r.listByEdge(ctx, query, userID, limit, cursor)
}

// ListHistory returns one page of videos the user viewed, most recent first.
func (r *VideoRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	const query = `
		SELECT` + summaryColumns + `,
			hv.updated_at AS edge_updated_at
		FROM video_views hv
		JOIN videos v ON v.id = hv.video_id
		JOIN users u ON u.id = v.user_id
		WHERE hv.user_id = $1
		  AND ($2::timestamptz IS NULL
		       OR hv.updated_at < $2
		       OR (hv.updated_at = $2 AND v.id < $3))
		ORDER BY hv.updated_at DESC, v.id DESC
		LIMIT $4
	`

	return r.listByEdge(ctx, query, userID, limit, cursor)
}

func (r *VideoRepository) listByEdge(ctx context.Context, query string, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	var cursorAt *time.Time
	var cursorID *uuid.UUID
	if cursor != nil {
		cursorAt = &cursor.UpdatedAt
		cursorID = &cursor.ID
	}

	rows, err := r.db.Query(ctx, query, userID, cursorAt, cursorID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query video edge feed: %w", err)
	}
	defer rows.Close()

	return collectEdgeVideoSummaries(rows)
}

// RecordView upserts the (user, video) view edge. Repeat views bump the
// edge's updated_at, which drives the history feed's ordering.
func (r *VideoRepository) RecordView(ctx context.Context, userID, videoID uuid.UUID) error {
	const query = `
		INSERT INTO video_views (user_id, video_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id, video_id) DO UPDATE SET updated_at = $3
	`

	if _, err := r.db.Exec(ctx, query, userID, videoID, time.Now()); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

// scanVideo scans a single bare video row.
func scanVideo(row pgx.Row) (*model.Video, error) {
	var (
		video       model.Video
		status      string
		visibility  string
		description *string
		originalURL *string
		hlsURL      *string
		thumbnail   *string
	)

	err := row.Scan(
		&video.ID,
		&video.UserID,
		&video.CategoryID,
		&video.Title,
		&description,
		&status,
		&visibility,
		&originalURL,
		&hlsURL,
		&thumbnail,
		&video.Duration,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	video.Status = model.Status(status)
	video.Visibility = model.Visibility(visibility)
	video.Description = stringValue(description)
	video.OriginalURL = stringValue(originalURL)
	video.HLSURL = stringValue(hlsURL)
	video.ThumbnailURL = stringValue(thumbnail)

	return &video, nil
}

// scanVideoSummary scans a summary row (video + owner + aggregates). Extra
// destinations receive any trailing columns the query adds.
func scanVideoSummary(row pgx.Row, extra ...any) (*model.VideoSummary, error) {
	var (
		s           model.VideoSummary
		status      string
		visibility  string
		description *string
		originalURL *string
		hlsURL      *string
		thumbnail   *string
		ownerBanner *string
	)

	dest := []any{
		&s.ID,
		&s.UserID,
		&s.CategoryID,
		&s.Title,
		&description,
		&status,
		&visibility,
		&originalURL,
		&hlsURL,
		&thumbnail,
		&s.Duration,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.Owner.ID,
		&s.Owner.Subject,
		&s.Owner.Name,
		&s.Owner.ImageURL,
		&ownerBanner,
		&s.Owner.CreatedAt,
		&s.Owner.UpdatedAt,
		&s.ViewCount,
		&s.LikeCount,
		&s.DislikeCount,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	s.Status = model.Status(status)
	s.Visibility = model.Visibility(visibility)
	s.Description = stringValue(description)
	s.OriginalURL = stringValue(originalURL)
	s.HLSURL = stringValue(hlsURL)
	s.ThumbnailURL = stringValue(thumbnail)
	s.Owner.BannerURL = stringValue(ownerBanner)

	return &s, nil
}

func collectVideoSummaries(rows pgx.Rows) ([]model.VideoSummary, error) {
	var summaries []model.VideoSummary
	for rows.Next() {
		s, err := scanVideoSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video summary: %w", err)
		}
		summaries = append(summaries, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video summaries: %w", err)
	}

	return summaries, nil
}

// collectEdgeVideoSummaries handles feeds ordered by a relationship edge,
// whose queries select the edge's updated_at as a trailing column.
func collectEdgeVideoSummaries(rows pgx.Rows) ([]model.VideoSummary, error) {
	var summaries []model.VideoSummary
	for rows.Next() {
		var edgeAt time.Time
		s, err := scanVideoSummary(rows, &edgeAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video summary: %w", err)
		}
		s.EdgeUpdatedAt = &edgeAt
		summaries = append(summaries, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video summaries: %w", err)
	}

	return summaries, nil
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
