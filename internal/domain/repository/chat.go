package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatService is the client side of the externally hosted chat platform.
// Channels are keyed 1:1 by stream session id. All methods are best-effort
// from the caller's perspective: persisted stream state stays authoritative
// when the chat platform is unavailable.
type ChatService interface {
	// CreateChannel provisions the channel for a new stream session.
	CreateChannel(ctx context.Context, channelID uuid.UUID, ownerSubject string) error

	// DeleteChannel tears the channel down when the session is deleted.
	DeleteChannel(ctx context.Context, channelID uuid.UUID) error

	// ResetChannel truncates history, removes all members, and unfreezes.
	// Called on every transition to live; idempotent.
	ResetChannel(ctx context.Context, channelID uuid.UUID) error

	// FreezeChannel freezes the channel when the stream goes offline.
	FreezeChannel(ctx context.Context, channelID uuid.UUID) error

	// AddMember joins a viewer to the channel.
	AddMember(ctx context.Context, channelID uuid.UUID, subject string) error

	// BanUser bans a viewer from the owner's channel and ejects them.
	BanUser(ctx context.Context, channelID uuid.UUID, subject, reason string) error

	// UnbanUser lifts a ban.
	UnbanUser(ctx context.Context, channelID uuid.UUID, subject string) error

	// IsBanned reports whether the viewer is banned from the channel.
	IsBanned(ctx context.Context, channelID uuid.UUID, subject string) (bool, error)

	// CreateUserToken mints a chat credential for a viewer (or "guest").
	CreateUserToken(subject string, ttl time.Duration) (string, error)
}

// StreamEvent is a message published on a stream session's topic.
type StreamEvent struct {
	Name    string `json:"name"`
	IsLive  bool   `json:"is_live,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Stream event names.
const (
	EventStatusChanged = "statusChanged"
	EventUserBanned    = "userBanned"
)

// EventBus broadcasts stream session events to connected viewers. One topic
// exists per stream session, named deterministically from its id.
type EventBus interface {
	// PublishStreamStatus publishes statusChanged{isLive} on the stream's topic.
	PublishStreamStatus(ctx context.Context, streamID uuid.UUID, isLive bool) error

	// PublishUserBanned publishes userBanned{subject} on the stream's topic.
	PublishUserBanned(ctx context.Context, streamID uuid.UUID, subject string) error
}
