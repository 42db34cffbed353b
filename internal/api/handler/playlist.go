package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/api/middleware"
	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type PlaylistResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type PlaylistSummaryResponse struct {
	PlaylistResponse
	VideoCount int64 `json:"video_count"`
}

type PlaylistContainsResponse struct {
	Contains bool `json:"contains"`
}

// PlaylistHandler handles playlist-related HTTP requests.
type PlaylistHandler struct {
	svc usecase.PlaylistService
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(svc usecase.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

// Create handles POST /v1/playlists
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	var req CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	playlist, err := h.svc.CreatePlaylist(r.Context(), usecase.CreatePlaylistInput{
		UserID:      viewer.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toPlaylistResponse(playlist))
}

// Delete handles DELETE /v1/playlists/{id}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	playlistID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_playlist_id", "Playlist ID must be a valid UUID")
		return
	}

	if err := h.svc.DeletePlaylist(r.Context(), playlistID, viewer.ID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/me/playlists
func (h *PlaylistHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.svc.ListPlaylists(r.Context(), viewer.ID, page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("playlists", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toPlaylistSummaryResponse))
}

// AddVideo handles PUT /v1/playlists/{id}/videos/{videoID}
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	playlistID, videoID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	if err := h.svc.AddVideo(r.Context(), playlistID, videoID, viewer.ID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveVideo handles DELETE /v1/playlists/{id}/videos/{videoID}
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	playlistID, videoID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	if err := h.svc.RemoveVideo(r.Context(), playlistID, videoID, viewer.ID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ContainsVideo handles GET /v1/playlists/{id}/videos/{videoID}
func (h *PlaylistHandler) ContainsVideo(w http.ResponseWriter, r *http.Request) {
	playlistID, videoID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	contains, err := h.svc.ContainsVideo(r.Context(), playlistID, videoID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, PlaylistContainsResponse{Contains: contains})
}

// ListVideos handles GET /v1/playlists/{id}/videos
func (h *PlaylistHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	playlistID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_playlist_id", "Playlist ID must be a valid UUID")
		return
	}

	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.svc.ListVideos(r.Context(), playlistID, page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("playlist_videos", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toVideoSummaryResponse))
}

func (h *PlaylistHandler) pathIDs(w http.ResponseWriter, r *http.Request) (playlistID, videoID uuid.UUID, ok bool) {
	playlistID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_playlist_id", "Playlist ID must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}
	videoID, err = uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}
	return playlistID, videoID, true
}

func toPlaylistResponse(p *model.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPlaylistSummaryResponse(s model.PlaylistSummary) PlaylistSummaryResponse {
	return PlaylistSummaryResponse{
		PlaylistResponse: toPlaylistResponse(&s.Playlist),
		VideoCount:       s.VideoCount,
	}
}
