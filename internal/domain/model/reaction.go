package model

import (
	"time"

	"github.com/google/uuid"
)

// ReactionType is a typed like/dislike reaction.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

func (t ReactionType) IsValid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// VideoReaction is one user's reaction to a video. The (UserID, VideoID)
// pair is the primary key; reacting again with the other type flips it.
type VideoReaction struct {
	UserID    uuid.UUID
	VideoID   uuid.UUID
	Type      ReactionType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentReaction is one user's reaction to a comment, keyed by
// (UserID, CommentID).
type CommentReaction struct {
	UserID    uuid.UUID
	CommentID uuid.UUID
	Type      ReactionType
	CreatedAt time.Time
	UpdatedAt time.Time
}
