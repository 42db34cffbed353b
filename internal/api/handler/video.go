package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/api/middleware"
	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/metrics"
	"github.com/vidcast-dev/vidcast/internal/pagination"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

// Request/Response types

type CreateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	FileName    string `json:"file_name"`
}

type CreateVideoResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	UploadURL string `json:"upload_url"`
	CreatedAt string `json:"created_at"`
}

type UpdateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id,omitempty"`
	Visibility  string `json:"visibility"`
}

type VideoResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	CategoryID   string `json:"category_id,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
	Visibility   string `json:"visibility"`
	OriginalURL  string `json:"original_url,omitempty"`
	HLSURL       string `json:"hls_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Duration     int64  `json:"duration,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type UserSummaryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

type VideoSummaryResponse struct {
	VideoResponse
	Owner        UserSummaryResponse `json:"owner"`
	ViewCount    int64               `json:"view_count"`
	LikeCount    int64               `json:"like_count"`
	DislikeCount int64               `json:"dislike_count"`
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc usecase.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Create handles POST /v1/videos
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	var req CreateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if req.Title == "" {
		Error(w, http.StatusBadRequest, "invalid_title", "Title is required")
		return
	}
	if req.FileName == "" {
		Error(w, http.StatusBadRequest, "invalid_file_name", "File name is required")
		return
	}

	var categoryID *uuid.UUID
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_category_id", "Category ID must be a valid UUID")
			return
		}
		categoryID = &id
	}

	output, err := h.svc.CreateVideo(r.Context(), usecase.CreateVideoInput{
		UserID:      viewer.ID,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  categoryID,
		FileName:    req.FileName,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, CreateVideoResponse{
		ID:        output.Video.ID.String(),
		UserID:    output.Video.UserID.String(),
		Title:     output.Video.Title,
		Status:    output.Video.Status.String(),
		UploadURL: output.UploadURL,
		CreatedAt: output.Video.CreatedAt.Format(time.RFC3339),
	})
}

// TriggerProcess handles POST /v1/videos/{id}/process
func (h *VideoHandler) TriggerProcess(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	if err := h.svc.TriggerProcess(r.Context(), videoID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// Get handles GET /v1/videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	summary, err := h.svc.WatchVideo(r.Context(), videoID, viewerID(r))
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoSummaryResponse(*summary))
}

// Update handles PATCH /v1/videos/{id}
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	var req UpdateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	update := repository.VideoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Visibility:  model.Visibility(req.Visibility),
	}
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_category_id", "Category ID must be a valid UUID")
			return
		}
		update.CategoryID = &id
	}

	video, err := h.svc.UpdateVideo(r.Context(), videoID, viewer.ID, update)
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponse(video))
}

// Delete handles DELETE /v1/videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	if err := h.svc.DeleteVideo(r.Context(), videoID, viewer.ID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.svc.ListVideos(r.Context(), filter, page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("videos", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toVideoSummaryResponse))
}

// ListTrending handles GET /v1/videos/trending
func (h *VideoHandler) ListTrending(w http.ResponseWriter, r *http.Request) {
	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	// Trending cursors carry the view count. A cursor minted by a
	// timestamp-ordered feed would silently restart from the top here.
	if page.Cursor != nil && page.Cursor.ViewCount == nil {
		Error(w, http.StatusBadRequest, "invalid_cursor", "Cursor was not issued by the trending feed")
		return
	}

	result, err := h.svc.ListTrending(r.Context(), page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("trending", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toVideoSummaryResponse))
}

// ListSuggestions handles GET /v1/videos/{id}/suggestions
func (h *VideoHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.svc.ListSuggestions(r.Context(), videoID, page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("suggestions", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toVideoSummaryResponse))
}

// ListLiked handles GET /v1/me/videos/liked
func (h *VideoHandler) ListLiked(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.svc.ListLiked(r.Context(), viewer.ID, page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("liked", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toVideoSummaryResponse))
}

// ListHistory handles GET /v1/me/videos/history
func (h *VideoHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.svc.ListHistory(r.Context(), viewer.ID, page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("history", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toVideoSummaryResponse))
}

// RecordView handles POST /v1/videos/{id}/views
func (h *VideoHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	if err := h.svc.RecordView(r.Context(), viewer.ID, videoID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseFilter builds the feed filter from query parameters. The mine=true
// form scopes the feed to the signed-in owner's videos, private included.
func (h *VideoHandler) parseFilter(r *http.Request) (repository.VideoFilter, error) {
	var filter repository.VideoFilter
	q := r.URL.Query()

	filter.Query = q.Get("q")

	if raw := q.Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errInvalidQueryID("category_id")
		}
		filter.CategoryID = &id
	}

	if raw := q.Get("owner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errInvalidQueryID("owner_id")
		}
		filter.OwnerID = &id
	}

	viewer := middleware.Viewer(r.Context())
	if q.Get("subscribed") == "true" {
		if viewer == nil {
			return filter, errSignInRequired("subscribed")
		}
		filter.SubscribedBy = &viewer.ID
	}
	if q.Get("mine") == "true" {
		if viewer == nil {
			return filter, errSignInRequired("mine")
		}
		filter.OwnerID = &viewer.ID
		filter.IncludePrivate = true
	}

	return filter, nil
}

func errInvalidQueryID(param string) error {
	return fmt.Errorf("%s must be a valid UUID", param)
}

func errSignInRequired(param string) error {
	return fmt.Errorf("%s=true requires a signed-in viewer", param)
}

func viewerID(r *http.Request) *uuid.UUID {
	if viewer := middleware.Viewer(r.Context()); viewer != nil {
		return &viewer.ID
	}
	return nil
}

func countFeedPage(feed string, cursor *pagination.Cursor) {
	page := metrics.FeedPageFirst
	if cursor != nil {
		page = metrics.FeedPageContinuation
	}
	metrics.FeedPagesTotal.WithLabelValues(feed, page).Inc()
}

func toVideoResponse(v *model.Video) VideoResponse {
	resp := VideoResponse{
		ID:           v.ID.String(),
		UserID:       v.UserID.String(),
		Title:        v.Title,
		Description:  v.Description,
		Status:       v.Status.String(),
		Visibility:   string(v.Visibility),
		OriginalURL:  v.OriginalURL,
		HLSURL:       v.HLSURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.Format(time.RFC3339),
	}
	if v.CategoryID != nil {
		resp.CategoryID = v.CategoryID.String()
	}
	return resp
}

func toVideoSummaryResponse(s model.VideoSummary) VideoSummaryResponse {
	return VideoSummaryResponse{
		VideoResponse: toVideoResponse(&s.Video),
		Owner:         toUserSummaryResponse(s.Owner),
		ViewCount:     s.ViewCount,
		LikeCount:     s.LikeCount,
		DislikeCount:  s.DislikeCount,
	}
}

func toUserSummaryResponse(u model.User) UserSummaryResponse {
	return UserSummaryResponse{
		ID:       u.ID.String(),
		Name:     u.Name,
		ImageURL: u.ImageURL,
	}
}
