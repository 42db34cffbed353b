package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/api/middleware"
	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

// Mock VideoService

type mockVideoService struct {
	createVideoFn     func(ctx context.Context, input usecase.CreateVideoInput) (*usecase.CreateVideoOutput, error)
	triggerProcessFn  func(ctx context.Context, videoID uuid.UUID) error
	getVideoFn        func(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	watchVideoFn      func(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*model.VideoSummary, error)
	updateVideoFn     func(ctx context.Context, videoID, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error)
	deleteVideoFn     func(ctx context.Context, videoID, ownerID uuid.UUID) error
	listVideosFn      func(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)
	listTrendingFn    func(ctx context.Context, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)
	listSuggestionsFn func(ctx context.Context, videoID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)
	listLikedFn       func(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)
	listHistoryFn     func(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error)
	recordViewFn      func(ctx context.Context, userID, videoID uuid.UUID) error
}

func (m *mockVideoService) CreateVideo(ctx context.Context, input usecase.CreateVideoInput) (*usecase.CreateVideoOutput, error) {
	if m.createVideoFn != nil {
		return m.createVideoFn(ctx, input)
	}
	return nil, nil
}

func (m *mockVideoService) TriggerProcess(ctx context.Context, videoID uuid.UUID) error {
	if m.triggerProcessFn != nil {
		return m.triggerProcessFn(ctx, videoID)
	}
	return nil
}

func (m *mockVideoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	if m.getVideoFn != nil {
		return m.getVideoFn(ctx, videoID)
	}
	return nil, nil
}

func (m *mockVideoService) WatchVideo(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*model.VideoSummary, error) {
	if m.watchVideoFn != nil {
		return m.watchVideoFn(ctx, videoID, viewerID)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoService) UpdateVideo(ctx context.Context, videoID, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error) {
	if m.updateVideoFn != nil {
		return m.updateVideoFn(ctx, videoID, ownerID, update)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoService) DeleteVideo(ctx context.Context, videoID, ownerID uuid.UUID) error {
	if m.deleteVideoFn != nil {
		return m.deleteVideoFn(ctx, videoID, ownerID)
	}
	return nil
}

func (m *mockVideoService) ListVideos(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	if m.listVideosFn != nil {
		return m.listVideosFn(ctx, filter, limit, cursor)
	}
	return pagination.Page[model.VideoSummary]{}, nil
}

func (m *mockVideoService) ListTrending(ctx context.Context, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	if m.listTrendingFn != nil {
		return m.listTrendingFn(ctx, limit, cursor)
	}
	return pagination.Page[model.VideoSummary]{}, nil
}

func (m *mockVideoService) ListSuggestions(ctx context.Context, videoID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	if m.listSuggestionsFn != nil {
		return m.listSuggestionsFn(ctx, videoID, limit, cursor)
	}
	return pagination.Page[model.VideoSummary]{}, nil
}

func (m *mockVideoService) ListLiked(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	if m.listLikedFn != nil {
		return m.listLikedFn(ctx, userID, limit, cursor)
	}
	return pagination.Page[model.VideoSummary]{}, nil
}

func (m *mockVideoService) ListHistory(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
	if m.listHistoryFn != nil {
		return m.listHistoryFn(ctx, userID, limit, cursor)
	}
	return pagination.Page[model.VideoSummary]{}, nil
}

func (m *mockVideoService) RecordView(ctx context.Context, userID, videoID uuid.UUID) error {
	if m.recordViewFn != nil {
		return m.recordViewFn(ctx, userID, videoID)
	}
	return nil
}

// asViewer attaches a signed-in viewer to the request, the way the auth
// middleware would.
func asViewer(req *http.Request, viewer *model.User) *http.Request {
	return req.WithContext(middleware.WithViewer(req.Context(), viewer))
}

func testSummary(videoID, ownerID uuid.UUID) model.VideoSummary {
	now := time.Now()
	return model.VideoSummary{
		Video: model.Video{
			ID:         videoID,
			UserID:     ownerID,
			Title:      "Test Video",
			Status:     model.StatusReady,
			Visibility: model.VisibilityPublic,
			HLSURL:     "hls/" + videoID.String() + "/master.m3u8",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Owner:     model.User{ID: ownerID, Name: "creator"},
		ViewCount: 42,
		LikeCount: 7,
	}
}

func TestVideoHandler_Create(t *testing.T) {
	viewer := &model.User{ID: uuid.New(), Name: "uploader"}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(m *mockVideoService)
		wantStatusCode int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name: "successful creation",
			requestBody: CreateVideoRequest{
				Title:    "Test Video",
				FileName: "video.mp4",
			},
			setupMock: func(m *mockVideoService) {
				m.createVideoFn = func(ctx context.Context, input usecase.CreateVideoInput) (*usecase.CreateVideoOutput, error) {
					if input.UserID != viewer.ID {
						t.Errorf("expected owner %s from the session, got %s", viewer.ID, input.UserID)
					}
					video := &model.Video{
						ID:        uuid.New(),
						UserID:    input.UserID,
						Title:     input.Title,
						Status:    model.StatusPendingUpload,
						CreatedAt: time.Now(),
						UpdatedAt: time.Now(),
					}
					return &usecase.CreateVideoOutput{
						Video:     video,
						UploadURL: "http://minio:9000/videos/upload?signature=xyz",
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, body []byte) {
				var resp CreateVideoResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.UploadURL == "" {
					t.Error("expected upload URL to be non-empty")
				}
				if resp.Status != "PENDING_UPLOAD" {
					t.Errorf("expected status PENDING_UPLOAD, got %s", resp.Status)
				}
			},
		},
		{
			name:           "invalid JSON body",
			requestBody:    "invalid json",
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "empty title",
			requestBody: CreateVideoRequest{
				Title:    "",
				FileName: "video.mp4",
			},
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "empty file name",
			requestBody: CreateVideoRequest{
				Title:    "Test Video",
				FileName: "",
			},
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "invalid category ID",
			requestBody: CreateVideoRequest{
				Title:      "Test Video",
				FileName:   "video.mp4",
				CategoryID: "not-a-uuid",
			},
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "service error - title too long",
			requestBody: CreateVideoRequest{
				Title:    "Test Video",
				FileName: "video.mp4",
			},
			setupMock: func(m *mockVideoService) {
				m.createVideoFn = func(ctx context.Context, input usecase.CreateVideoInput) (*usecase.CreateVideoOutput, error) {
					return nil, model.ErrTitleTooLong
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockVideoService{}
			tt.setupMock(mock)
			h := NewVideoHandler(mock)

			var body []byte
			switch v := tt.requestBody.(type) {
			case string:
				body = []byte(v)
			default:
				var err error
				body, err = json.Marshal(v)
				if err != nil {
					t.Fatalf("failed to marshal request body: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/videos", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.Create(rec, asViewer(req, viewer))

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, rec.Body.Bytes())
			}
		})
	}
}

func TestVideoHandler_TriggerProcess(t *testing.T) {
	tests := []struct {
		name           string
		videoID        string
		setupMock      func(m *mockVideoService)
		wantStatusCode int
	}{
		{
			name:    "successful trigger",
			videoID: uuid.New().String(),
			setupMock: func(m *mockVideoService) {
				m.triggerProcessFn = func(ctx context.Context, videoID uuid.UUID) error {
					return nil
				}
			},
			wantStatusCode: http.StatusAccepted,
		},
		{
			name:           "invalid video ID",
			videoID:        "not-a-uuid",
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "video not found",
			videoID: uuid.New().String(),
			setupMock: func(m *mockVideoService) {
				m.triggerProcessFn = func(ctx context.Context, videoID uuid.UUID) error {
					return repository.ErrVideoNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:    "video already completed",
			videoID: uuid.New().String(),
			setupMock: func(m *mockVideoService) {
				m.triggerProcessFn = func(ctx context.Context, videoID uuid.UUID) error {
					return usecase.ErrVideoAlreadyCompleted
				}
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockVideoService{}
			tt.setupMock(mock)
			h := NewVideoHandler(mock)

			r := chi.NewRouter()
			r.Post("/v1/videos/{id}/process", h.TriggerProcess)

			req := httptest.NewRequest(http.MethodPost, "/v1/videos/"+tt.videoID+"/process", nil)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}
		})
	}
}

func TestVideoHandler_Get(t *testing.T) {
	viewer := &model.User{ID: uuid.New()}

	tests := []struct {
		name           string
		videoID        string
		viewer         *model.User
		setupMock      func(m *mockVideoService)
		wantStatusCode int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name:    "successful watch",
			videoID: uuid.New().String(),
			viewer:  viewer,
			setupMock: func(m *mockVideoService) {
				m.watchVideoFn = func(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*model.VideoSummary, error) {
					if viewerID == nil || *viewerID != viewer.ID {
						t.Error("expected the session viewer to be forwarded")
					}
					s := testSummary(videoID, uuid.New())
					return &s, nil
				}
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var resp VideoSummaryResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Status != "READY" {
					t.Errorf("expected status READY, got %s", resp.Status)
				}
				if resp.Owner.Name != "creator" {
					t.Errorf("expected owner name creator, got %s", resp.Owner.Name)
				}
				if resp.ViewCount != 42 {
					t.Errorf("expected view count 42, got %d", resp.ViewCount)
				}
			},
		},
		{
			name:    "anonymous viewer forwarded as nil",
			videoID: uuid.New().String(),
			viewer:  nil,
			setupMock: func(m *mockVideoService) {
				m.watchVideoFn = func(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*model.VideoSummary, error) {
					if viewerID != nil {
						t.Error("expected nil viewer for an anonymous request")
					}
					s := testSummary(videoID, uuid.New())
					return &s, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid video ID",
			videoID:        "not-a-uuid",
			viewer:         viewer,
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "video not found",
			videoID: uuid.New().String(),
			viewer:  viewer,
			setupMock: func(m *mockVideoService) {
				m.watchVideoFn = func(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*model.VideoSummary, error) {
					return nil, repository.ErrVideoNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockVideoService{}
			tt.setupMock(mock)
			h := NewVideoHandler(mock)

			r := chi.NewRouter()
			r.Get("/v1/videos/{id}", h.Get)

			req := httptest.NewRequest(http.MethodGet, "/v1/videos/"+tt.videoID, nil)
			if tt.viewer != nil {
				req = asViewer(req, tt.viewer)
			}
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, rec.Body.Bytes())
			}
		})
	}
}

func TestVideoHandler_List(t *testing.T) {
	ownerID := uuid.New()

	t.Run("returns items and next cursor", func(t *testing.T) {
		next := pagination.Cursor{UpdatedAt: time.Now().UTC().Truncate(time.Second), ID: uuid.New()}
		mock := &mockVideoService{
			listVideosFn: func(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
				if limit != 2 {
					t.Errorf("expected limit 2, got %d", limit)
				}
				if cursor != nil {
					t.Error("expected no cursor on the first page")
				}
				return pagination.Page[model.VideoSummary]{
					Items:      []model.VideoSummary{testSummary(uuid.New(), ownerID), testSummary(uuid.New(), ownerID)},
					NextCursor: &next,
				}, nil
			},
		}
		h := NewVideoHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "/v1/videos?limit=2", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var resp PageResponse[VideoSummaryResponse]
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if len(resp.Items) != 2 {
			t.Errorf("expected 2 items, got %d", len(resp.Items))
		}
		if resp.NextCursor != next.Encode() {
			t.Errorf("expected next cursor %q, got %q", next.Encode(), resp.NextCursor)
		}
	})

	t.Run("last page omits next cursor", func(t *testing.T) {
		mock := &mockVideoService{
			listVideosFn: func(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
				return pagination.Page[model.VideoSummary]{
					Items: []model.VideoSummary{testSummary(uuid.New(), ownerID)},
				}, nil
			},
		}
		h := NewVideoHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "/v1/videos", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		var body map[string]json.RawMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if _, ok := body["next_cursor"]; ok {
			t.Error("expected next_cursor to be omitted on the last page")
		}
	})

	t.Run("malformed cursor rejected", func(t *testing.T) {
		h := NewVideoHandler(&mockVideoService{})

		req := httptest.NewRequest(http.MethodGet, "/v1/videos?cursor=%21%21not-base64", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("subscribed filter requires a viewer", func(t *testing.T) {
		h := NewVideoHandler(&mockVideoService{
			listVideosFn: func(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
				t.Error("expected the request to be rejected before the service call")
				return pagination.Page[model.VideoSummary]{}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/videos?subscribed=true", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("subscribed filter scopes to the viewer", func(t *testing.T) {
		viewer := &model.User{ID: uuid.New()}
		h := NewVideoHandler(&mockVideoService{
			listVideosFn: func(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
				if filter.SubscribedBy == nil || *filter.SubscribedBy != viewer.ID {
					t.Error("expected the subscribed filter to carry the viewer id")
				}
				return pagination.Page[model.VideoSummary]{}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/videos?subscribed=true", nil)
		rec := httptest.NewRecorder()
		h.List(rec, asViewer(req, viewer))

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})
}

func TestVideoHandler_ListTrending(t *testing.T) {
	ownerID := uuid.New()

	t.Run("forwards a trending cursor", func(t *testing.T) {
		views := int64(42)
		cursor := pagination.Cursor{ID: uuid.New(), ViewCount: &views}
		mock := &mockVideoService{
			listTrendingFn: func(ctx context.Context, limit int, got *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
				if got == nil || got.ViewCount == nil || *got.ViewCount != views {
					t.Error("expected the decoded cursor to carry the view count")
				}
				return pagination.Page[model.VideoSummary]{
					Items: []model.VideoSummary{testSummary(uuid.New(), ownerID)},
				}, nil
			},
		}
		h := NewVideoHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "/v1/videos/trending?cursor="+cursor.Encode(), nil)
		rec := httptest.NewRecorder()
		h.ListTrending(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("rejects a cursor from a timestamp feed", func(t *testing.T) {
		cursor := pagination.Cursor{UpdatedAt: time.Now(), ID: uuid.New()}
		h := NewVideoHandler(&mockVideoService{
			listTrendingFn: func(ctx context.Context, limit int, got *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
				t.Error("expected the request to be rejected before the service call")
				return pagination.Page[model.VideoSummary]{}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/videos/trending?cursor="+cursor.Encode(), nil)
		rec := httptest.NewRecorder()
		h.ListTrending(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("no cursor starts from the top", func(t *testing.T) {
		h := NewVideoHandler(&mockVideoService{
			listTrendingFn: func(ctx context.Context, limit int, got *pagination.Cursor) (pagination.Page[model.VideoSummary], error) {
				if got != nil {
					t.Error("expected no cursor on the first page")
				}
				return pagination.Page[model.VideoSummary]{}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/videos/trending", nil)
		rec := httptest.NewRecorder()
		h.ListTrending(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})
}

func TestVideoHandler_Update(t *testing.T) {
	viewer := &model.User{ID: uuid.New()}
	videoID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(m *mockVideoService)
		wantStatusCode int
	}{
		{
			name: "successful update",
			requestBody: UpdateVideoRequest{
				Title:      "New Title",
				Visibility: "private",
			},
			setupMock: func(m *mockVideoService) {
				m.updateVideoFn = func(ctx context.Context, id, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error) {
					if ownerID != viewer.ID {
						t.Errorf("expected owner %s, got %s", viewer.ID, ownerID)
					}
					return &model.Video{
						ID:         id,
						UserID:     ownerID,
						Title:      update.Title,
						Visibility: update.Visibility,
						Status:     model.StatusReady,
						CreatedAt:  time.Now(),
						UpdatedAt:  time.Now(),
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "empty title rejected by the service",
			requestBody: UpdateVideoRequest{
				Title:      "",
				Visibility: "public",
			},
			setupMock: func(m *mockVideoService) {
				m.updateVideoFn = func(ctx context.Context, id, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error) {
					return nil, model.ErrEmptyTitle
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "not the owner reads as not found",
			requestBody: UpdateVideoRequest{
				Title:      "New Title",
				Visibility: "public",
			},
			setupMock: func(m *mockVideoService) {
				m.updateVideoFn = func(ctx context.Context, id, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error) {
					return nil, repository.ErrVideoNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockVideoService{}
			tt.setupMock(mock)
			h := NewVideoHandler(mock)

			r := chi.NewRouter()
			r.Patch("/v1/videos/{id}", h.Update)

			body, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatalf("failed to marshal request body: %v", err)
			}

			req := httptest.NewRequest(http.MethodPatch, "/v1/videos/"+videoID.String(), bytes.NewReader(body))
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, asViewer(req, viewer))

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}
		})
	}
}

func TestVideoHandler_RecordView(t *testing.T) {
	viewer := &model.User{ID: uuid.New()}
	videoID := uuid.New()

	recorded := false
	mock := &mockVideoService{
		recordViewFn: func(ctx context.Context, userID, vID uuid.UUID) error {
			recorded = true
			if userID != viewer.ID {
				t.Errorf("expected viewer %s, got %s", viewer.ID, userID)
			}
			if vID != videoID {
				t.Errorf("expected video %s, got %s", videoID, vID)
			}
			return nil
		},
	}
	h := NewVideoHandler(mock)

	r := chi.NewRouter()
	r.Post("/v1/videos/{id}/views", h.RecordView)

	req := httptest.NewRequest(http.MethodPost, "/v1/videos/"+videoID.String()+"/views", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, asViewer(req, viewer))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if !recorded {
		t.Error("expected the view to be recorded")
	}
}
