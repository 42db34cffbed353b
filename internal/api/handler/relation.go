package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/api/middleware"
	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

type SubscriptionResponse struct {
	ViewerID  string `json:"viewer_id"`
	CreatorID string `json:"creator_id"`
	CreatedAt string `json:"created_at"`
}

type SubscriptionSummaryResponse struct {
	SubscriptionResponse
	Creator         UserSummaryResponse `json:"creator"`
	SubscriberCount int64               `json:"subscriber_count"`
	CreatorIsLive   bool                `json:"creator_is_live"`
}

type BlockResponse struct {
	BlockerID string `json:"blocker_id"`
	BlockedID string `json:"blocked_id"`
	CreatedAt string `json:"created_at"`
}

type BlockSummaryResponse struct {
	BlockResponse
	Blocked UserSummaryResponse `json:"blocked"`
}

type BlockStatusResponse struct {
	BlockedBy bool `json:"blocked_by"`
}

// RelationHandler handles subscription and block edges between users.
type RelationHandler struct {
	subs   usecase.SubscriptionService
	blocks usecase.BlockService
}

// NewRelationHandler creates a new RelationHandler.
func NewRelationHandler(subs usecase.SubscriptionService, blocks usecase.BlockService) *RelationHandler {
	return &RelationHandler{subs: subs, blocks: blocks}
}

// Subscribe handles PUT /v1/users/{id}/subscription
func (h *RelationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	creatorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	sub, err := h.subs.Subscribe(r.Context(), viewer.ID, creatorID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toSubscriptionResponse(sub))
}

// Unsubscribe handles DELETE /v1/users/{id}/subscription
func (h *RelationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	creatorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	if _, err := h.subs.Unsubscribe(r.Context(), viewer.ID, creatorID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSubscriptions handles GET /v1/me/subscriptions
func (h *RelationHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.subs.ListSubscriptions(r.Context(), viewer.ID, page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("subscriptions", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toSubscriptionSummaryResponse))
}

// Block handles PUT /v1/users/{id}/block
func (h *RelationHandler) Block(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	blockedID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	block, err := h.blocks.Block(r.Context(), viewer.ID, blockedID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toBlockResponse(block))
}

// Unblock handles DELETE /v1/users/{id}/block
func (h *RelationHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	blockedID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	if _, err := h.blocks.Unblock(r.Context(), viewer.ID, blockedID); err != nil {
		ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// IsBlockedBy handles GET /v1/users/{id}/block. It reports whether the user
// has blocked the requesting viewer, which watch pages use to hide streams.
func (h *RelationHandler) IsBlockedBy(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	blocked, err := h.blocks.IsBlockedBy(r.Context(), userID, viewer.ID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, BlockStatusResponse{BlockedBy: blocked})
}

// ListBlocked handles GET /v1/me/blocks
func (h *RelationHandler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	page, err := ParsePageQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.blocks.ListBlocked(r.Context(), viewer.ID, page.Limit, page.Cursor)
	if err != nil {
		ServiceError(w, err)
		return
	}

	countFeedPage("blocks", page.Cursor)
	JSON(w, http.StatusOK, NewPageResponse(result, toBlockSummaryResponse))
}

func toSubscriptionResponse(s *model.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ViewerID:  s.ViewerID.String(),
		CreatorID: s.CreatorID.String(),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

func toSubscriptionSummaryResponse(s model.SubscriptionSummary) SubscriptionSummaryResponse {
	return SubscriptionSummaryResponse{
		SubscriptionResponse: toSubscriptionResponse(&s.Subscription),
		Creator:              toUserSummaryResponse(s.Creator),
		SubscriberCount:      s.SubscriberCount,
		CreatorIsLive:        s.CreatorIsLive,
	}
}

func toBlockResponse(b *model.Block) BlockResponse {
	return BlockResponse{
		BlockerID: b.BlockerID.String(),
		BlockedID: b.BlockedID.String(),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func toBlockSummaryResponse(s model.BlockSummary) BlockSummaryResponse {
	return BlockSummaryResponse{
		BlockResponse: toBlockResponse(&s.Block),
		Blocked:       toUserSummaryResponse(s.Blocked),
	}
}
