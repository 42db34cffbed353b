package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyComment   = errors.New("comment cannot be empty")
	ErrCommentTooLong = errors.New("comment exceeds maximum length of 1000 characters")
	ErrNestedReply    = errors.New("cannot reply to a reply")
)

const maxCommentLength = 1000

// Comment is a comment on a video. Replies nest exactly one level deep:
// a comment with a non-nil ParentID can itself never be a parent.
type Comment struct {
	ID        uuid.UUID
	VideoID   uuid.UUID
	UserID    uuid.UUID
	ParentID  *uuid.UUID
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComment validates and builds a comment.
func NewComment(userID, videoID uuid.UUID, parentID *uuid.UUID, value string) (*Comment, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if value == "" {
		return nil, ErrEmptyComment
	}
	if len(value) > maxCommentLength {
		return nil, ErrCommentTooLong
	}

	now := time.Now()
	return &Comment{
		ID:        uuid.New(),
		VideoID:   videoID,
		UserID:    userID,
		ParentID:  parentID,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentSummary is a comment as it appears in the comments feed.
type CommentSummary struct {
	Comment
	Owner          User
	ReplyCount     int64
	LikeCount      int64
	DislikeCount   int64
	ViewerReaction *ReactionType
}
