package usecase

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// CreateVideoInput contains the input parameters for creating a video.
type CreateVideoInput struct {
	UserID      uuid.UUID
	Title       string
	Description string
	CategoryID  *uuid.UUID
	FileName    string
}

// CreateVideoOutput contains the result of creating a video.
type CreateVideoOutput struct {
	Video     *model.Video
	UploadURL string
}

// VideoService defines the interface for video business logic operations.
type VideoService interface {
	// CreateVideo creates video metadata and returns a presigned upload URL.
	CreateVideo(ctx context.Context, input CreateVideoInput) (*CreateVideoOutput, error)

	// TriggerProcess initiates transcoding for an uploaded video.
	// This operation is idempotent - calling it on an already processing video returns nil.
	TriggerProcess(ctx context.Context, videoID uuid.UUID) error

	// GetVideo retrieves video information by ID.
	GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	// WatchVideo retrieves a video summary for a viewer, hiding videos the
	// viewer may not see (private non-owned, or owned by a blocker).
	WatchVideo(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*model.VideoSummary, error)

	// UpdateVideo applies owner-editable fields to the viewer's own video.
	UpdateVideo(ctx context.Context, videoID, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error)

	// DeleteVideo removes the viewer's own video.
	DeleteVideo(ctx context.Context, videoID, ownerID uuid.UUID) error

	// ListVideos returns one page of the filtered video feed.
	ListVideos(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)

	// ListTrending returns one page of public videos by popularity.
	ListTrending(ctx context.Context, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)

	// ListSuggestions returns one page of videos related to the given video.
	ListSuggestions(ctx context.Context, videoID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)

	// ListLiked returns one page of the viewer's liked videos.
	ListLiked(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)

	// ListHistory returns one page of the viewer's watch history.
	ListHistory(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)

	// RecordView upserts the viewer's view edge for a video.
	RecordView(ctx context.Context, userID, videoID uuid.UUID) error
}

// VideoServiceConfig holds configuration for VideoService.
type VideoServiceConfig struct {
	UploadURLExpiry time.Duration
}

// DefaultVideoServiceConfig returns the default configuration.
func DefaultVideoServiceConfig() VideoServiceConfig {
	return VideoServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
	}
}

type videoService struct {
	repo    repository.VideoRepository
	access  repository.AccessRepository
	storage repository.ObjectStorage
	queue   repository.MessageQueue

	uploadURLExpiry time.Duration
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	repo repository.VideoRepository,
	access repository.AccessRepository,
	storage repository.ObjectStorage,
	queue repository.MessageQueue,
	cfg VideoServiceConfig,
) VideoService {
	return &videoService{
		repo:            repo,
		access:          access,
		storage:         storage,
		queue:           queue,
		uploadURLExpiry: cfg.UploadURLExpiry,
	}
}

// CreateVideo creates video metadata and generates a presigned upload URL.
func (s *videoService) CreateVideo(ctx context.Context, input CreateVideoInput) (*CreateVideoOutput, error) {
	video, err := model.NewVideo(input.UserID, input.Title)
	if err != nil {
		return nil, err
	}
	video.Description = input.Description
	video.CategoryID = input.CategoryID

	key := s.generateOriginalKey(video.ID, input.FileName)

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, key, s.uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate presigned upload URL: %w", err)
	}

	video.SetOriginalURL(key)

	if err := s.repo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	return &CreateVideoOutput{
		Video:     video,
		UploadURL: uploadURL,
	}, nil
}

// TriggerProcess initiates async transcoding for a video.
// Idempotency: returns nil if video is already processing.
func (s *videoService) TriggerProcess(ctx context.Context, videoID uuid.UUID) error {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}

	if video.Status == model.StatusProcessing {
		return nil
	}

	if video.Status == model.StatusReady || video.Status == model.StatusFailed {
		return ErrVideoAlreadyCompleted
	}

	if err := video.TransitionTo(model.StatusProcessing); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, video); err != nil {
		return fmt.Errorf("update video status: %w", err)
	}

	task := repository.TranscodeTask{
		VideoID:      video.ID,
		SourceKey:    video.OriginalURL,
		OutputPrefix: s.generateHLSOutputKey(video.ID),
	}

	if err := s.queue.PublishTranscodeTask(ctx, task); err != nil {
		return fmt.Errorf("publish transcode task: %w", err)
	}

	return nil
}

// GetVideo retrieves video information by ID.
func (s *videoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	return s.repo.GetByID(ctx, videoID)
}

// WatchVideo retrieves a video summary, enforcing visibility. A private
// video or one whose owner blocked the viewer reads as not found rather
// than unauthorized, so its existence leaks nothing.
func (s *videoService) WatchVideo(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*model.VideoSummary, error) {
	summary, err := s.repo.GetSummary(ctx, videoID)
	if err != nil {
		return nil, err
	}

	rel, err := s.access.Relationship(ctx, viewerID, summary.UserID)
	if err != nil {
		return nil, fmt.Errorf("evaluate relationship: %w", err)
	}

	if rel.IsBlocked {
		return nil, repository.ErrVideoNotFound
	}
	if summary.Visibility != model.VisibilityPublic && !rel.IsOwner {
		return nil, repository.ErrVideoNotFound
	}

	return summary, nil
}

// UpdateVideo applies owner-editable fields.
func (s *videoService) UpdateVideo(ctx context.Context, videoID, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error) {
	if update.Title == "" {
		return nil, model.ErrEmptyTitle
	}
	if !update.Visibility.IsValid() {
		return nil, model.ErrInvalidVisibility
	}
	return s.repo.UpdateDetails(ctx, videoID, ownerID, update)
}

// DeleteVideo removes the viewer's own video.
func (s *videoService) DeleteVideo(ctx context.Context, videoID, ownerID uuid.UUID) error {
	_, err := s.repo.Delete(ctx, videoID, ownerID)
	return err
}

// ListVideos returns one page of the filtered feed.
func (s *videoService) ListVideos(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	rows, err := s.repo.List(ctx, filter, limit, cursor)
	if err != nil {
		return pagination.Page[model.VideoSummary]{}, err
	}
	return videoPage(rows, limit), nil
}

// ListTrending returns one page of the popularity-ordered feed.
func (s *videoService) ListTrending(ctx context.Context, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	rows, err := s.repo.ListTrending(ctx, limit, cursor)
	if err != nil {
		return pagination.Page[model.VideoSummary]{}, err
	}
	return pagination.SlicePage(rows, limit, trendingCursor), nil
}

// ListSuggestions returns videos related to the given one: same category,
// the video itself excluded.
func (s *videoService) ListSuggestions(ctx context.Context, videoID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return pagination.Page[model.VideoSummary]{}, err
	}

	filter := repository.VideoFilter{
		CategoryID: video.CategoryID,
		ExcludeID:  &video.ID,
	}

	rows, err := s.repo.List(ctx, filter, limit, cursor)
	if err != nil {
		return pagination.Page[model.VideoSummary]{}, err
	}
	return videoPage(rows, limit), nil
}

// ListLiked returns one page of the viewer's liked feed.
func (s *videoService) ListLiked(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	rows, err := s.repo.ListLiked(ctx, userID, limit, cursor)
	if err != nil {
		return pagination.Page[model.VideoSummary]{}, err
	}
	return videoPage(rows, limit), nil
}

// ListHistory returns one page of the viewer's watch history.
func (s *videoService) ListHistory(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	rows, err := s.repo.ListHistory(ctx, userID, limit, cursor)
	if err != nil {
		return pagination.Page[model.VideoSummary]{}, err
	}
	return videoPage(rows, limit), nil
}

// RecordView upserts the viewer's view edge. Repeat views bump the edge.
func (s *videoService) RecordView(ctx context.Context, userID, videoID uuid.UUID) error {
	return s.repo.RecordView(ctx, userID, videoID)
}

// generateOriginalKey creates the storage key for original video files.
// Format: originals/{video_id}/{filename}
func (s *videoService) generateOriginalKey(videoID uuid.UUID, filename string) string {
	return path.Join("originals", videoID.String(), filename)
}

// generateHLSOutputKey creates the storage key prefix for HLS output.
// Format: hls/{video_id}/
func (s *videoService) generateHLSOutputKey(videoID uuid.UUID) string {
	return path.Join("hls", videoID.String()) + "/"
}
