package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidStreamVisibility is returned for a visibility outside
// public/subscribers.
var ErrInvalidStreamVisibility = errors.New("stream visibility must be public or subscribers")

// StreamVisibility controls who may watch a live stream.
type StreamVisibility string

const (
	StreamVisibilityPublic      StreamVisibility = "public"
	StreamVisibilitySubscribers StreamVisibility = "subscribers"
)

func (v StreamVisibility) IsValid() bool {
	return v == StreamVisibilityPublic || v == StreamVisibilitySubscribers
}

// Stream is a broadcaster's live-streaming session record. At most one
// non-deleted stream exists per broadcaster; the stream key is the opaque
// ingest secret the media platform echoes back in webhook events.
type Stream struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	Description  string
	StreamKey    string
	PlaybackID   string
	Visibility   StreamVisibility
	IsLive       bool
	PublicToken  string
	LastStatusAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewStream validates and builds a stream session. Credentials (stream key,
// playback id) are supplied by the caller.
func NewStream(userID uuid.UUID, title, description, streamKey, playbackID string, visibility StreamVisibility) (*Stream, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}
	if !visibility.IsValid() {
		return nil, ErrInvalidStreamVisibility
	}

	now := time.Now()
	return &Stream{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		StreamKey:   streamKey,
		PlaybackID:  playbackID,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// StreamSummary is a stream as it appears in the streams feed.
type StreamSummary struct {
	Stream
	Owner            User
	ViewerSubscribed bool
}

// StreamDetail is a stream joined with the relationship predicates for the
// requesting viewer, as returned by the watch-page lookup.
type StreamDetail struct {
	Stream
	Owner        User
	Relationship Relationship
}
