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

type CreateCommentRequest struct {
	Value    string `json:"value"`
	ParentID string `json:"parent_id,omitempty"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	VideoID   string `json:"video_id"`
	UserID    string `json:"user_id"`
	ParentID  string `json:"parent_id,omitempty"`
	Value     string `json:"value"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CommentSummaryResponse struct {
	CommentResponse
	Owner          UserSummaryResponse `json:"owner"`
	ReplyCount     int64               `json:"reply_count"`
	LikeCount      int64               `json:"like_count"`
	DislikeCount   int64               `json:"dislike_count"`
	ViewerReaction string              `json:"viewer_reaction,omitempty"`
}

type CommentCountResponse struct {
	Count int64 `json:"count"`
}

// CommentHandler handles comment-related HTTP requests.
type CommentHandler struct {
	svc usecase.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc usecase.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Create handles POST /v1/videos/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		id, err := uuid.Parse(req.ParentID)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_parent_id", "Parent ID must be a valid UUID")
			return
		}
		parentID = &id
	}

	comment, err := h.svc.CreateComment(r.Context(), usecase.CreateCommentInput{
		UserID:   viewer.ID,
		VideoID:  videoID,
		ParentID: parentID,
		Value:    req.Value,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toCommentResponse(comment))
}

// Delete handles DELETE /v1/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_comment_id", "Comment ID must be a valid UUID")
		return
	}

	if err := h.svc.DeleteComment(r.Context(), commentID, viewer.ID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/videos/{id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
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

	var parentID *uuid.UUID
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_request", errInvalidQueryID("parent_id").Error())
			return
		}
		parentID = &id
	}

	result, err := h.svc.ListComments(r.Context(), videoID, parentID, viewerID(r), page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("comments", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toCommentSummaryResponse))
}

// Count handles GET /v1/videos/{id}/comments/count
func (h *CommentHandler) Count(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	count, err := h.svc.CountComments(r.Context(), videoID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, CommentCountResponse{Count: count})
}

func toCommentResponse(c *model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID.String(),
		VideoID:   c.VideoID.String(),
		UserID:    c.UserID.String(),
		Value:     c.Value,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
	if c.ParentID != nil {
		resp.ParentID = c.ParentID.String()
	}
	return resp
}

func toCommentSummaryResponse(s model.CommentSummary) CommentSummaryResponse {
	resp := CommentSummaryResponse{
		CommentResponse: toCommentResponse(&s.Comment),
		Owner:           toUserSummaryResponse(s.Owner),
		ReplyCount:      s.ReplyCount,
		LikeCount:       s.LikeCount,
		DislikeCount:    s.DislikeCount,
	}
	if s.ViewerReaction != nil {
		resp.ViewerReaction = string(*s.ViewerReaction)
	}
	return resp
}
