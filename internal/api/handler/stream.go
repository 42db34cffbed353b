package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/api/middleware"
	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/broadcast"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 15 * time.Second

type CreateStreamRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
}

type UpdateStreamRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

type ToggleMuteRequest struct {
	Subject string `json:"subject"`
}

type ToggleMuteResponse struct {
	Muted bool `json:"muted"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// StreamResponse is the broadcaster's own view of the stream session.
// It is the only surface that exposes the ingest credentials.
type StreamResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StreamKey   string `json:"stream_key"`
	PlaybackID  string `json:"playback_id"`
	Visibility  string `json:"visibility"`
	IsLive      bool   `json:"is_live"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type StreamSummaryResponse struct {
	ID               string              `json:"id"`
	Owner            UserSummaryResponse `json:"owner"`
	Title            string              `json:"title"`
	Description      string              `json:"description,omitempty"`
	PlaybackID       string              `json:"playback_id"`
	Visibility       string              `json:"visibility"`
	IsLive           bool                `json:"is_live"`
	ViewerSubscribed bool                `json:"viewer_subscribed"`
	UpdatedAt        string              `json:"updated_at"`
}

type WatchStreamResponse struct {
	ID           string              `json:"id"`
	Owner        UserSummaryResponse `json:"owner"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	PlaybackID   string              `json:"playback_id"`
	Visibility   string              `json:"visibility"`
	IsLive       bool                `json:"is_live"`
	IsOwner      bool                `json:"is_owner"`
	IsSubscribed bool                `json:"is_subscribed"`
	Muted        bool                `json:"muted"`
}

// StreamSubscriber subscribes a caller to one stream session's event topic.
type StreamSubscriber interface {
	Subscribe(ctx context.Context, streamID uuid.UUID) *broadcast.Subscription
}

// StreamHandler handles live stream session HTTP requests.
type StreamHandler struct {
	svc usecase.StreamService
	bus StreamSubscriber
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(svc usecase.StreamService, bus StreamSubscriber) *StreamHandler {
	return &StreamHandler{svc: svc, bus: bus}
}

// Create handles POST /v1/streams
func (h *StreamHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	var req CreateStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	stream, err := h.svc.CreateStream(r.Context(), usecase.CreateStreamInput{
		UserID:      viewer.ID,
		Title:       req.Title,
		Description: req.Description,
		Visibility:  model.StreamVisibility(req.Visibility),
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toStreamResponse(stream))
}

// GetOwn handles GET /v1/me/stream
func (h *StreamHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	stream, err := h.svc.GetOwnStream(r.Context(), viewer.ID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toStreamResponse(stream))
}

// Update handles PATCH /v1/streams/{id}
func (h *StreamHandler) Update(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	streamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_stream_id", "Stream ID must be a valid UUID")
		return
	}

	var req UpdateStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	stream, err := h.svc.UpdateStream(r.Context(), streamID, viewer.ID, repository.StreamUpdate{
		Title:       req.Title,
		Description: req.Description,
		Visibility:  model.StreamVisibility(req.Visibility),
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toStreamResponse(stream))
}

// Delete handles DELETE /v1/me/stream
func (h *StreamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	if err := h.svc.DeleteStream(r.Context(), viewer.ID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/streams
func (h *StreamHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.svc.ListStreams(r.Context(), viewerID(r), page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("streams", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toStreamSummaryResponse))
}

// Watch handles GET /v1/users/{id}/stream
func (h *StreamHandler) Watch(w http.ResponseWriter, r *http.Request) {
	broadcasterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	output, err := h.svc.WatchStream(r.Context(), broadcasterID, middleware.Viewer(r.Context()))
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toWatchStreamResponse(output))
}

// IssuePlaybackToken handles POST /v1/streams/{id}/playback-token
func (h *StreamHandler) IssuePlaybackToken(w http.ResponseWriter, r *http.Request) {
	streamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_stream_id", "Stream ID must be a valid UUID")
		return
	}

	tok, err := h.svc.IssuePlaybackToken(r.Context(), streamID, middleware.Viewer(r.Context()))
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, TokenResponse{Token: tok})
}

// IssueChatToken handles POST /v1/streams/{id}/chat-token
func (h *StreamHandler) IssueChatToken(w http.ResponseWriter, r *http.Request) {
	streamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_stream_id", "Stream ID must be a valid UUID")
		return
	}

	tok, err := h.svc.IssueChatToken(r.Context(), streamID, middleware.Viewer(r.Context()))
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, TokenResponse{Token: tok})
}

// ToggleMute handles PUT /v1/streams/{id}/mute
func (h *StreamHandler) ToggleMute(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	streamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_stream_id", "Stream ID must be a valid UUID")
		return
	}

	var req ToggleMuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Subject == "" {
		Error(w, http.StatusBadRequest, "invalid_subject", "Subject is required")
		return
	}

	muted, err := h.svc.ToggleMute(r.Context(), streamID, viewer.ID, req.Subject)
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, ToggleMuteResponse{Muted: muted})
}

// Events handles GET /v1/streams/{id}/events, a server-sent event feed of
// the stream's status and moderation events. The connection stays open
// until the client disconnects.
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_stream_id", "Stream ID must be a valid UUID")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		Error(w, http.StatusInternalServerError, "streaming_unsupported", "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.bus.Subscribe(r.Context(), streamID)
	defer sub.Close()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case event, open := <-sub.Ch:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
			flusher.Flush()
		}
	}
}

func toStreamResponse(s *model.Stream) StreamResponse {
	return StreamResponse{
		ID:          s.ID.String(),
		UserID:      s.UserID.String(),
		Title:       s.Title,
		Description: s.Description,
		StreamKey:   s.StreamKey,
		PlaybackID:  s.PlaybackID,
		Visibility:  string(s.Visibility),
		IsLive:      s.IsLive,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

func toStreamSummaryResponse(s model.StreamSummary) StreamSummaryResponse {
	return StreamSummaryResponse{
		ID:               s.ID.String(),
		Owner:            toUserSummaryResponse(s.Owner),
		Title:            s.Title,
		Description:      s.Description,
		PlaybackID:       s.PlaybackID,
		Visibility:       string(s.Visibility),
		IsLive:           s.IsLive,
		ViewerSubscribed: s.ViewerSubscribed,
		UpdatedAt:        s.UpdatedAt.Format(time.RFC3339),
	}
}

func toWatchStreamResponse(o *usecase.WatchStreamOutput) WatchStreamResponse {
	d := o.Detail
	return WatchStreamResponse{
		ID:           d.ID.String(),
		Owner:        toUserSummaryResponse(d.Owner),
		Title:        d.Title,
		Description:  d.Description,
		PlaybackID:   d.PlaybackID,
		Visibility:   string(d.Visibility),
		IsLive:       d.IsLive,
		IsOwner:      d.Relationship.IsOwner,
		IsSubscribed: d.Relationship.IsSubscribed,
		Muted:        o.Muted,
	}
}
