package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyPlaylistName   = errors.New("playlist name cannot be empty")
	ErrPlaylistNameTooLong = errors.New("playlist name exceeds maximum length of 255 characters")
)

// Playlist is a user-owned ordered collection of videos.
type Playlist struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlaylist validates and builds a playlist.
func NewPlaylist(userID uuid.UUID, name, description string) (*Playlist, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if name == "" {
		return nil, ErrEmptyPlaylistName
	}
	if len(name) > maxTitleLength {
		return nil, ErrPlaylistNameTooLong
	}

	now := time.Now()
	return &Playlist{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PlaylistSummary is a playlist as it appears in the playlists feed.
type PlaylistSummary struct {
	Playlist
	VideoCount int64
}
