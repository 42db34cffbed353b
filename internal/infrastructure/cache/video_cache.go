package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
)

// VideoCache is a read-through cache for video metadata. The read path
// populates it and the transcode worker invalidates it when a video changes
// state.
type VideoCache interface {
	// Get returns the cached video, or nil with no error on a miss.
	Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	// Set stores a video under its ID for the given TTL.
	Set(ctx context.Context, video *model.Video, ttl time.Duration) error

	// Delete evicts a video. Evicting an absent key is not an error.
	Delete(ctx context.Context, videoID uuid.UUID) error
}
