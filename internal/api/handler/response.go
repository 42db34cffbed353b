package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// ServiceError maps domain and usecase sentinels onto the HTTP error
// taxonomy. Handlers fall through here after their own request validation.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotAuthorized):
		Error(w, http.StatusUnauthorized, "unauthorized", "You are not allowed to perform this action")
	case errors.Is(err, repository.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "video_not_found", "Video not found")
	case errors.Is(err, repository.ErrStreamNotFound):
		Error(w, http.StatusNotFound, "stream_not_found", "Stream not found")
	case errors.Is(err, repository.ErrUserNotFound):
		Error(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, repository.ErrCommentNotFound):
		Error(w, http.StatusNotFound, "comment_not_found", "Comment not found")
	case errors.Is(err, repository.ErrSubscriptionNotFound):
		Error(w, http.StatusNotFound, "subscription_not_found", "Subscription not found")
	case errors.Is(err, repository.ErrBlockNotFound):
		Error(w, http.StatusNotFound, "block_not_found", "Block not found")
	case errors.Is(err, repository.ErrPlaylistNotFound):
		Error(w, http.StatusNotFound, "playlist_not_found", "Playlist not found")
	case errors.Is(err, repository.ErrPlaylistVideoNotFound):
		Error(w, http.StatusNotFound, "playlist_video_not_found", "Video is not in the playlist")
	case errors.Is(err, repository.ErrDuplicateSubscription):
		Error(w, http.StatusConflict, "already_subscribed", "Already subscribed to this creator")
	case errors.Is(err, repository.ErrDuplicateBlock):
		Error(w, http.StatusConflict, "already_blocked", "User is already blocked")
	case errors.Is(err, repository.ErrDuplicatePlaylistVideo):
		Error(w, http.StatusConflict, "video_already_in_playlist", "Video is already in the playlist")
	case errors.Is(err, repository.ErrDuplicateStream):
		Error(w, http.StatusConflict, "stream_already_exists", "A stream session already exists for this broadcaster")
	case errors.Is(err, usecase.ErrVideoAlreadyCompleted):
		Error(w, http.StatusConflict, "video_already_completed", "Video processing has already completed")
	case errors.Is(err, usecase.ErrSelfSubscription):
		Error(w, http.StatusBadRequest, "self_subscription", "You cannot subscribe to yourself")
	case errors.Is(err, usecase.ErrSelfBlock):
		Error(w, http.StatusBadRequest, "self_block", "You cannot block yourself")
	case errors.Is(err, usecase.ErrInvalidReaction):
		Error(w, http.StatusBadRequest, "invalid_reaction", "Reaction must be like or dislike")
	case errors.Is(err, model.ErrInvalidUserID):
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID cannot be empty")
	case errors.Is(err, model.ErrEmptyTitle):
		Error(w, http.StatusBadRequest, "invalid_title", "Title cannot be empty")
	case errors.Is(err, model.ErrTitleTooLong):
		Error(w, http.StatusBadRequest, "invalid_title", "Title exceeds maximum length")
	case errors.Is(err, model.ErrInvalidVisibility):
		Error(w, http.StatusBadRequest, "invalid_visibility", "Visibility must be public or private")
	case errors.Is(err, model.ErrInvalidStreamVisibility):
		Error(w, http.StatusBadRequest, "invalid_visibility", "Visibility must be public or subscribers")
	case errors.Is(err, model.ErrEmptyComment):
		Error(w, http.StatusBadRequest, "invalid_comment", "Comment cannot be empty")
	case errors.Is(err, model.ErrCommentTooLong):
		Error(w, http.StatusBadRequest, "invalid_comment", "Comment exceeds maximum length")
	case errors.Is(err, model.ErrNestedReply):
		Error(w, http.StatusBadRequest, "nested_reply", "Replies cannot be nested")
	case errors.Is(err, model.ErrEmptyPlaylistName):
		Error(w, http.StatusBadRequest, "invalid_playlist_name", "Playlist name cannot be empty")
	case errors.Is(err, model.ErrPlaylistNameTooLong):
		Error(w, http.StatusBadRequest, "invalid_playlist_name", "Playlist name exceeds maximum length")
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// PageQuery holds the normalized pagination parameters of a feed request.
type PageQuery struct {
	Limit  int
	Cursor *pagination.Cursor
}

// ParsePageQuery reads limit and cursor from the query string. Limits are
// clamped, not rejected; a malformed cursor is a client error.
func ParsePageQuery(r *http.Request) (PageQuery, error) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return PageQuery{}, errors.New("limit must be an integer")
		}
		limit = n
	}

	cursor, err := pagination.Decode(r.URL.Query().Get("cursor"))
	if err != nil {
		return PageQuery{}, errors.New("cursor is malformed")
	}

	return PageQuery{Limit: pagination.ClampLimit(limit), Cursor: cursor}, nil
}

// PageResponse is the envelope for one page of any feed.
type PageResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// NewPageResponse maps a service page into the wire envelope, converting
// each item with fn.
func NewPageResponse[S, T any](page pagination.Page[S], fn func(S) T) PageResponse[T] {
	items := make([]T, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, fn(it))
	}

	resp := PageResponse[T]{Items: items}
	if page.NextCursor != nil {
		resp.NextCursor = page.NextCursor.Encode()
	}
	return resp
}
