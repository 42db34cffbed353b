package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

func TestCommentService_CreateComment(t *testing.T) {
	videoID := uuid.New()
	otherVideoID := uuid.New()
	userID := uuid.New()
	parentID := uuid.New()
	replyID := uuid.New()

	video := &model.Video{ID: videoID, UserID: uuid.New(), Title: "Test Video"}
	topLevel := &model.Comment{ID: parentID, VideoID: videoID, UserID: uuid.New(), Value: "first"}
	reply := &model.Comment{ID: replyID, VideoID: videoID, UserID: uuid.New(), ParentID: &parentID, Value: "second"}
	foreignParent := &model.Comment{ID: uuid.New(), VideoID: otherVideoID, UserID: uuid.New(), Value: "elsewhere"}

	comments := map[uuid.UUID]*model.Comment{
		topLevel.ID:      topLevel,
		reply.ID:         reply,
		foreignParent.ID: foreignParent,
	}

	tests := []struct {
		name    string
		input   CreateCommentInput
		wantErr error
	}{
		{
			name:  "top-level comment",
			input: CreateCommentInput{UserID: userID, VideoID: videoID, Value: "nice video"},
		},
		{
			name:  "reply to a top-level comment",
			input: CreateCommentInput{UserID: userID, VideoID: videoID, ParentID: &parentID, Value: "agreed"},
		},
		{
			name:    "reply to a reply rejected",
			input:   CreateCommentInput{UserID: userID, VideoID: videoID, ParentID: &replyID, Value: "too deep"},
			wantErr: model.ErrNestedReply,
		},
		{
			name:    "parent on another video reads as not found",
			input:   CreateCommentInput{UserID: userID, VideoID: videoID, ParentID: &foreignParent.ID, Value: "cross-post"},
			wantErr: repository.ErrCommentNotFound,
		},
		{
			name:    "empty comment rejected",
			input:   CreateCommentInput{UserID: userID, VideoID: videoID, Value: ""},
			wantErr: model.ErrEmptyComment,
		},
		{
			name:    "comment too long rejected",
			input:   CreateCommentInput{UserID: userID, VideoID: videoID, Value: strings.Repeat("a", 1001)},
			wantErr: model.ErrCommentTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commentRepo := &mockCommentRepository{
				getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
					if c, ok := comments[id]; ok {
						return c, nil
					}
					return nil, repository.ErrCommentNotFound
				},
			}
			videoRepo := &mockVideoRepository{
				getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Video, error) {
					if id == videoID {
						return video, nil
					}
					return nil, repository.ErrVideoNotFound
				},
			}

			svc := NewCommentService(commentRepo, videoRepo)

			comment, err := svc.CreateComment(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if comment.VideoID != tt.input.VideoID {
				t.Errorf("expected video ID %s, got %s", tt.input.VideoID, comment.VideoID)
			}
			if comment.Value != tt.input.Value {
				t.Errorf("expected value %q, got %q", tt.input.Value, comment.Value)
			}
		})
	}
}

func TestCommentService_CreateComment_VideoNotFound(t *testing.T) {
	videoRepo := &mockVideoRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Video, error) {
			return nil, repository.ErrVideoNotFound
		},
	}

	svc := NewCommentService(&mockCommentRepository{}, videoRepo)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:  uuid.New(),
		VideoID: uuid.New(),
		Value:   "orphan",
	})
	if !errors.Is(err, repository.ErrVideoNotFound) {
		t.Fatalf("expected %v, got %v", repository.ErrVideoNotFound, err)
	}
}

func TestCommentService_ListComments_Pagination(t *testing.T) {
	videoID := uuid.New()

	rows := make([]model.CommentSummary, 5)
	for i := range rows {
		rows[i] = model.CommentSummary{
			Comment: model.Comment{ID: uuid.New(), VideoID: videoID, Value: "comment"},
		}
	}

	commentRepo := &mockCommentRepository{
		listFn: func(ctx context.Context, vID uuid.UUID, parentID, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.CommentSummary, error) {
			return rows, nil
		},
	}

	svc := NewCommentService(commentRepo, &mockVideoRepository{})

	page, err := svc.ListComments(context.Background(), videoID, nil, nil, 4, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(page.Items))
	}
	if page.NextCursor == nil {
		t.Fatal("expected a next cursor")
	}
	if page.NextCursor.ID != page.Items[3].ID {
		t.Errorf("expected cursor ID %s, got %s", page.Items[3].ID, page.NextCursor.ID)
	}
}
