package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/cache"
	"github.com/vidcast-dev/vidcast/internal/transcoder"
)

// DefaultMaxAttempts bounds how often a failing task is retried before the
// video is marked failed.
const DefaultMaxAttempts = 3

// TranscodeServiceConfig holds configuration for TranscodeService.
type TranscodeServiceConfig struct {
	// TempDir is where per-task scratch directories are created.
	TempDir string
	// MaxAttempts is the retry budget per task.
	MaxAttempts int
	// Ladder is the set of renditions produced for every upload.
	Ladder []transcoder.Rendition
}

// DefaultTranscodeServiceConfig returns the default configuration.
func DefaultTranscodeServiceConfig() TranscodeServiceConfig {
	return TranscodeServiceConfig{
		TempDir:     os.TempDir(),
		MaxAttempts: DefaultMaxAttempts,
		Ladder:      transcoder.DefaultLadder(),
	}
}

// TranscodeService turns queued transcode tasks into finished, watchable
// videos.
type TranscodeService interface {
	// ProcessTask handles one task. A nil return acknowledges the message;
	// that covers both success and permanent failure (attempt budget spent).
	// An error return asks the queue to retry.
	ProcessTask(ctx context.Context, task repository.TranscodeTask) error
}

type transcodeService struct {
	repo       repository.VideoRepository
	storage    repository.ObjectStorage
	transcoder transcoder.Transcoder
	cache      cache.VideoCache

	tempDir     string
	maxAttempts int
	ladder      []transcoder.Rendition
}

// NewTranscodeService creates a new TranscodeService instance.
func NewTranscodeService(
	repo repository.VideoRepository,
	storage repository.ObjectStorage,
	tc transcoder.Transcoder,
	videoCache cache.VideoCache,
	cfg TranscodeServiceConfig,
) TranscodeService {
	return &transcodeService{
		repo:        repo,
		storage:     storage,
		transcoder:  tc,
		cache:       videoCache,
		tempDir:     cfg.TempDir,
		maxAttempts: cfg.MaxAttempts,
		ladder:      cfg.Ladder,
	}
}

// ProcessTask downloads the original, transcodes the full rendition ladder,
// uploads the output and flips the video to READY.
func (s *transcodeService) ProcessTask(ctx context.Context, task repository.TranscodeTask) error {
	if task.Attempt >= s.maxAttempts {
		if err := s.markFailed(ctx, task.VideoID); err != nil {
			// Ack anyway; retrying a task whose budget is spent only burns
			// workers. The video stays in PROCESSING for investigation.
			slog.Error("failed to mark video as failed",
				"video_id", task.VideoID,
				"attempt", task.Attempt,
				"error", err,
			)
		}
		return nil
	}

	workDir, err := s.createWorkDir(task.VideoID)
	if err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	sourcePath, err := s.downloadSource(ctx, task.SourceKey, workDir)
	if err != nil {
		return fmt.Errorf("download source: %w", err)
	}

	outputDir := filepath.Join(workDir, "out")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	result, err := s.transcoder.Transcode(ctx, sourcePath, outputDir, s.ladder)
	if err != nil {
		return fmt.Errorf("transcode: %w", err)
	}

	masterKey, thumbKey, err := s.uploadResult(ctx, task.OutputPrefix, outputDir, result)
	if err != nil {
		return fmt.Errorf("upload output: %w", err)
	}

	if err := s.markReady(ctx, task.VideoID, masterKey, thumbKey, result.Duration.Milliseconds()); err != nil {
		return fmt.Errorf("mark video ready: %w", err)
	}

	return nil
}

func (s *transcodeService) createWorkDir(videoID uuid.UUID) (string, error) {
	workDir := filepath.Join(s.tempDir, "vidcast", videoID.String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	return workDir, nil
}

func (s *transcodeService) downloadSource(ctx context.Context, key, workDir string) (string, error) {
	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("storage download: %w", err)
	}
	defer func() { _ = reader.Close() }()

	filename := filepath.Base(key)
	if filename == "." || filename == "/" {
		filename = "source.mp4"
	}

	localPath := filepath.Join(workDir, filename)
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create local file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("copy to local file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close local file: %w", err)
	}

	return localPath, nil
}

// uploadResult copies every produced file to object storage, preserving the
// layout under the task's output prefix. Returns the master playlist and
// thumbnail keys.
func (s *transcodeService) uploadResult(ctx context.Context, prefix, outputDir string, result *transcoder.Result) (string, string, error) {
	masterKey, err := s.uploadAs(ctx, prefix, outputDir, result.MasterPlaylistPath, "application/vnd.apple.mpegurl")
	if err != nil {
		return "", "", fmt.Errorf("master playlist: %w", err)
	}

	thumbKey, err := s.uploadAs(ctx, prefix, outputDir, result.ThumbnailPath, "image/jpeg")
	if err != nil {
		return "", "", fmt.Errorf("thumbnail: %w", err)
	}

	for _, rendition := range result.Renditions {
		if _, err := s.uploadAs(ctx, prefix, outputDir, rendition.PlaylistPath, "application/vnd.apple.mpegurl"); err != nil {
			return "", "", fmt.Errorf("rendition %s playlist: %w", rendition.Rendition.Name, err)
		}
		for _, segment := range rendition.SegmentPaths {
			if _, err := s.uploadAs(ctx, prefix, outputDir, segment, "video/mp2t"); err != nil {
				return "", "", fmt.Errorf("rendition %s segment %s: %w",
					rendition.Rendition.Name, filepath.Base(segment), err)
			}
		}
	}

	return masterKey, thumbKey, nil
}

func (s *transcodeService) uploadAs(ctx context.Context, prefix, outputDir, localPath, contentType string) (string, error) {
	rel, err := filepath.Rel(outputDir, localPath)
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", localPath, err)
	}
	key := prefix + filepath.ToSlash(rel)

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := s.storage.Upload(ctx, key, file, contentType); err != nil {
		return "", fmt.Errorf("storage upload: %w", err)
	}
	return key, nil
}

// markReady records the transcode output on the video row and flips it to
// READY. A video no longer in PROCESSING was changed concurrently (deleted
// and re-created, or already finished); the result is discarded.
func (s *transcodeService) markReady(ctx context.Context, videoID uuid.UUID, masterKey, thumbKey string, durationMillis int64) error {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return fmt.Errorf("get video: %w", err)
	}

	if video.Status != model.StatusProcessing {
		return nil
	}

	video.SetHLSURL(masterKey)
	video.ThumbnailURL = thumbKey
	video.Duration = durationMillis
	if err := video.TransitionTo(model.StatusReady); err != nil {
		return fmt.Errorf("transition to ready: %w", err)
	}

	if err := s.repo.Update(ctx, video); err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	s.invalidate(ctx, videoID)
	return nil
}

func (s *transcodeService) markFailed(ctx context.Context, videoID uuid.UUID) error {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return fmt.Errorf("get video: %w", err)
	}

	if video.Status != model.StatusProcessing {
		return nil
	}

	if err := video.TransitionTo(model.StatusFailed); err != nil {
		return fmt.Errorf("transition to failed: %w", err)
	}

	if err := s.repo.Update(ctx, video); err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	s.invalidate(ctx, videoID)
	return nil
}

// invalidate drops the cached copy so API reads see the new status. A cache
// error is logged, not returned; the entry expires on its own TTL.
func (s *transcodeService) invalidate(ctx context.Context, videoID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, videoID); err != nil {
		slog.Warn("failed to invalidate cached video",
			"video_id", videoID,
			"error", err,
		)
	}
}
