package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// CreatePlaylistInput contains the input parameters for creating a playlist.
type CreatePlaylistInput struct {
	UserID      uuid.UUID
	Name        string
	Description string
}

// PlaylistService manages user-owned playlists and their contents.
type PlaylistService interface {
	// CreatePlaylist creates a playlist.
	CreatePlaylist(ctx context.Context, input CreatePlaylistInput) (*model.Playlist, error)

	// DeletePlaylist removes the viewer's own playlist.
	DeletePlaylist(ctx context.Context, playlistID, ownerID uuid.UUID) error

	// ListPlaylists returns one page of the owner's playlists.
	ListPlaylists(ctx context.Context, ownerID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.PlaylistSummary], error)

	// AddVideo adds a video to the viewer's own playlist.
	AddVideo(ctx context.Context, playlistID, videoID, ownerID uuid.UUID) error

	// RemoveVideo removes a video from the viewer's own playlist.
	RemoveVideo(ctx context.Context, playlistID, videoID, ownerID uuid.UUID) error

	// ContainsVideo reports whether the playlist contains the video.
	ContainsVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error)

	// ListVideos returns one page of a playlist's videos, most recently
	// added first.
	ListVideos(ctx context.Context, playlistID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)
}

type playlistService struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
}

// NewPlaylistService creates a new PlaylistService instance.
func NewPlaylistService(playlists repository.PlaylistRepository, videos repository.VideoRepository) PlaylistService {
	return &playlistService{
		playlists: playlists,
		videos:    videos,
	}
}

// CreatePlaylist creates a playlist.
func (s *playlistService) CreatePlaylist(ctx context.Context, input CreatePlaylistInput) (*model.Playlist, error) {
	playlist, err := model.NewPlaylist(input.UserID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}

	return playlist, nil
}

// DeletePlaylist removes the viewer's own playlist.
func (s *playlistService) DeletePlaylist(ctx context.Context, playlistID, ownerID uuid.UUID) error {
	_, err := s.playlists.Delete(ctx, playlistID, ownerID)
	return err
}

// ListPlaylists returns one page of the owner's playlists.
func (s *playlistService) ListPlaylists(ctx context.Context, ownerID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.PlaylistSummary], error) {
	rows, err := s.playlists.List(ctx, ownerID, limit, cursor)
	if err != nil {
		return pagination.Page[model.PlaylistSummary]{}, err
	}

	return pagination.SlicePage(rows, limit, func(p model.PlaylistSummary) pagination.Cursor {
		return pagination.Cursor{UpdatedAt: p.UpdatedAt, ID: p.ID}
	}), nil
}

// AddVideo adds a video to the viewer's own playlist.
func (s *playlistService) AddVideo(ctx context.Context, playlistID, videoID, ownerID uuid.UUID) error {
	if err := s.requireOwnership(ctx, playlistID, ownerID); err != nil {
		return err
	}
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return err
	}
	return s.playlists.AddVideo(ctx, playlistID, videoID)
}

// RemoveVideo removes a video from the viewer's own playlist.
func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, videoID, ownerID uuid.UUID) error {
	if err := s.requireOwnership(ctx, playlistID, ownerID); err != nil {
		return err
	}
	return s.playlists.RemoveVideo(ctx, playlistID, videoID)
}

// ContainsVideo reports whether the playlist contains the video.
func (s *playlistService) ContainsVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	return s.playlists.ContainsVideo(ctx, playlistID, videoID)
}

// ListVideos returns one page of a playlist's videos, keyed by the
// membership edge.
func (s *playlistService) ListVideos(ctx context.Context, playlistID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	rows, err := s.playlists.ListVideos(ctx, playlistID, limit, cursor)
	if err != nil {
		return pagination.Page[model.VideoSummary]{}, err
	}
	return videoPage(rows, limit), nil
}

func (s *playlistService) requireOwnership(ctx context.Context, playlistID, ownerID uuid.UUID) error {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.UserID != ownerID {
		return ErrNotAuthorized
	}
	return nil
}
