package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/api/middleware"
	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

type ToggleReactionRequest struct {
	Type string `json:"type"`
}

// ToggleReactionResponse reports the reaction state after the toggle.
// Reaction is empty when the toggle cleared it.
type ToggleReactionResponse struct {
	Reaction string `json:"reaction,omitempty"`
}

// ReactionHandler handles like/dislike toggles on videos and comments.
type ReactionHandler struct {
	svc usecase.ReactionService
}

// NewReactionHandler creates a new ReactionHandler.
func NewReactionHandler(svc usecase.ReactionService) *ReactionHandler {
	return &ReactionHandler{svc: svc}
}

// ToggleVideo handles PUT /v1/videos/{id}/reaction
func (h *ReactionHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	var req ToggleReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	reaction, err := h.svc.ToggleVideoReaction(r.Context(), viewer.ID, videoID, model.ReactionType(req.Type))
	if err != nil {
		ServiceError(w, err)
		return
	}

	var resp ToggleReactionResponse
	if reaction != nil {
		resp.Reaction = string(reaction.Type)
	}
	JSON(w, http.StatusOK, resp)
}

// ToggleComment handles PUT /v1/comments/{id}/reaction
func (h *ReactionHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_comment_id", "Comment ID must be a valid UUID")
		return
	}

	var req ToggleReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	reaction, err := h.svc.ToggleCommentReaction(r.Context(), viewer.ID, commentID, model.ReactionType(req.Type))
	if err != nil {
		ServiceError(w, err)
		return
	}

	var resp ToggleReactionResponse
	if reaction != nil {
		resp.Reaction = string(reaction.Type)
	}
	JSON(w, http.StatusOK, resp)
}
