package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

func TestStreamHandler_List(t *testing.T) {
	now := time.Now()
	ownerID := uuid.New()

	summary := model.StreamSummary{
		Stream: model.Stream{
			ID:         uuid.New(),
			UserID:     ownerID,
			Title:      "Live Coding",
			StreamKey:  "sk_secret",
			PlaybackID: "pb_123",
			Visibility: model.StreamVisibilityPublic,
			IsLive:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Owner:            model.User{ID: ownerID, Name: "creator"},
		ViewerSubscribed: true,
	}

	mock := &mockStreamService{
		listStreamsFn: func(ctx context.Context, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.StreamSummary], error) {
			return pagination.Page[model.StreamSummary]{
				Items: []model.StreamSummary{summary},
			}, nil
		},
	}
	h := NewStreamHandler(mock, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/streams", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp PageResponse[StreamSummaryResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Items))
	}
	got := resp.Items[0]
	if got.ID != summary.ID.String() {
		t.Errorf("id = %q, want %q", got.ID, summary.ID.String())
	}
	if !got.IsLive || !got.ViewerSubscribed {
		t.Errorf("is_live = %v, viewer_subscribed = %v, want both true", got.IsLive, got.ViewerSubscribed)
	}
	if got.PlaybackID != "pb_123" {
		t.Errorf("playback_id = %q, want pb_123", got.PlaybackID)
	}

	// The feed row is a fixed public shape. Anything extra either leaks
	// broadcaster credentials or serializes a value nothing populates.
	var envelope struct {
		Items []map[string]json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to unmarshal raw items: %v", err)
	}
	wantKeys := map[string]bool{
		"id": true, "owner": true, "title": true, "playback_id": true,
		"visibility": true, "is_live": true, "viewer_subscribed": true,
		"updated_at": true,
	}
	for key := range envelope.Items[0] {
		if !wantKeys[key] {
			t.Errorf("unexpected key %q in feed row", key)
		}
	}
}
