package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
	"github.com/vidcast-dev/vidcast/internal/token"
)

// GuestSubject is the chat and playback identity for anonymous viewers.
const GuestSubject = "guest"

// CreateStreamInput contains the input parameters for creating a stream.
type CreateStreamInput struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Visibility  model.StreamVisibility
}

// WatchStreamOutput is the watch-page payload for one broadcaster's stream.
type WatchStreamOutput struct {
	Detail *model.StreamDetail
	// Muted reports whether the viewer is banned from the stream's chat.
	Muted bool
}

// StreamServiceConfig holds configuration for StreamService.
type StreamServiceConfig struct {
	// PublicTokenTTL bounds the cached token minted when a public stream
	// goes live.
	PublicTokenTTL time.Duration
	// ViewerTokenTTL bounds per-viewer playback tokens.
	ViewerTokenTTL time.Duration
	// ChatTokenTTL bounds chat credentials.
	ChatTokenTTL time.Duration
}

// DefaultStreamServiceConfig returns the default configuration.
func DefaultStreamServiceConfig() StreamServiceConfig {
	return StreamServiceConfig{
		PublicTokenTTL: 12 * time.Hour,
		ViewerTokenTTL: time.Hour,
		ChatTokenTTL:   time.Hour,
	}
}

// StreamService manages stream sessions: lifecycle, presence transitions
// driven by media-platform webhooks, and access-gated token issuance.
type StreamService interface {
	// CreateStream provisions a stream session and its chat channel.
	CreateStream(ctx context.Context, input CreateStreamInput) (*model.Stream, error)

	// GetOwnStream retrieves the broadcaster's stream session, keys included.
	GetOwnStream(ctx context.Context, userID uuid.UUID) (*model.Stream, error)

	// UpdateStream applies owner-editable fields.
	UpdateStream(ctx context.Context, streamID, ownerID uuid.UUID, update repository.StreamUpdate) (*model.Stream, error)

	// DeleteStream removes the broadcaster's stream session and tears down
	// its chat channel.
	DeleteStream(ctx context.Context, userID uuid.UUID) error

	// ListStreams returns one page of the streams feed.
	ListStreams(ctx context.Context, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.StreamSummary], error)

	// WatchStream resolves a broadcaster's stream for the watch page,
	// enforcing the block gate and joining the viewer to chat.
	WatchStream(ctx context.Context, broadcasterID uuid.UUID, viewer *model.User) (*WatchStreamOutput, error)

	// IssuePlaybackToken mints a fresh viewer-scoped playback token after
	// evaluating the access matrix. Never cached.
	IssuePlaybackToken(ctx context.Context, streamID uuid.UUID, viewer *model.User) (string, error)

	// IssueChatToken mints a chat credential for the viewer (or a guest).
	IssueChatToken(ctx context.Context, streamID uuid.UUID, viewer *model.User) (string, error)

	// ToggleMute bans the subject from the stream's chat, or lifts the ban
	// if one exists. Only the stream owner may call it.
	ToggleMute(ctx context.Context, streamID, ownerID uuid.UUID, subject string) (bool, error)

	// HandleStreamActive applies an OFFLINE->LIVE transition reported by the
	// media platform.
	HandleStreamActive(ctx context.Context, streamKey string, eventTime time.Time) error

	// HandleStreamDisconnected applies a LIVE->OFFLINE transition.
	HandleStreamDisconnected(ctx context.Context, streamKey string, eventTime time.Time) error
}

type streamService struct {
	streams repository.StreamRepository
	access  repository.AccessRepository
	chat    repository.ChatService
	bus     repository.EventBus
	signer  *token.Signer

	publicTokenTTL time.Duration
	viewerTokenTTL time.Duration
	chatTokenTTL   time.Duration
}

// NewStreamService creates a new StreamService instance.
func NewStreamService(
	streams repository.StreamRepository,
	access repository.AccessRepository,
	chat repository.ChatService,
	bus repository.EventBus,
	signer *token.Signer,
	cfg StreamServiceConfig,
) StreamService {
	return &streamService{
		streams:        streams,
		access:         access,
		chat:           chat,
		bus:            bus,
		signer:         signer,
		publicTokenTTL: cfg.PublicTokenTTL,
		viewerTokenTTL: cfg.ViewerTokenTTL,
		chatTokenTTL:   cfg.ChatTokenTTL,
	}
}

// CreateStream provisions a stream session with fresh ingest credentials.
// The chat channel is created alongside; a chat outage does not fail the
// stream itself.
func (s *streamService) CreateStream(ctx context.Context, input CreateStreamInput) (*model.Stream, error) {
	streamKey, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("generate stream key: %w", err)
	}
	playbackID, err := randomHex(16)
	if err != nil {
		return nil, fmt.Errorf("generate playback id: %w", err)
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = model.StreamVisibilityPublic
	}

	stream, err := model.NewStream(input.UserID, input.Title, input.Description, streamKey, playbackID, visibility)
	if err != nil {
		return nil, err
	}

	if err := s.streams.Create(ctx, stream); err != nil {
		return nil, err
	}

	if err := s.chat.CreateChannel(ctx, stream.ID, input.UserID.String()); err != nil {
		slog.Warn("failed to create chat channel",
			slog.String("stream_id", stream.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return stream, nil
}

// GetOwnStream retrieves the broadcaster's stream session.
func (s *streamService) GetOwnStream(ctx context.Context, userID uuid.UUID) (*model.Stream, error) {
	return s.streams.GetByUserID(ctx, userID)
}

// UpdateStream applies owner-editable fields.
func (s *streamService) UpdateStream(ctx context.Context, streamID, ownerID uuid.UUID, update repository.StreamUpdate) (*model.Stream, error) {
	if update.Title == "" {
		return nil, model.ErrEmptyTitle
	}
	if !update.Visibility.IsValid() {
		return nil, model.ErrInvalidStreamVisibility
	}
	return s.streams.UpdateDetails(ctx, streamID, ownerID, update)
}

// DeleteStream removes the broadcaster's stream session.
func (s *streamService) DeleteStream(ctx context.Context, userID uuid.UUID) error {
	stream, err := s.streams.Delete(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.chat.DeleteChannel(ctx, stream.ID); err != nil {
		slog.Warn("failed to delete chat channel",
			slog.String("stream_id", stream.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ListStreams returns one page of the streams feed.
func (s *streamService) ListStreams(ctx context.Context, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.StreamSummary], error) {
	rows, err := s.streams.List(ctx, viewerID, limit, cursor)
	if err != nil {
		return pagination.Page[model.StreamSummary]{}, err
	}

	return pagination.SlicePage(rows, limit, func(st model.StreamSummary) pagination.Cursor {
		return pagination.Cursor{UpdatedAt: st.UpdatedAt, ID: st.ID}
	}), nil
}

// WatchStream resolves the watch page for a broadcaster's stream. A blocked
// viewer is refused outright. Signed-in viewers are joined to the chat
// channel; chat failures degrade to a page without membership.
func (s *streamService) WatchStream(ctx context.Context, broadcasterID uuid.UUID, viewer *model.User) (*WatchStreamOutput, error) {
	detail, err := s.streams.GetDetail(ctx, broadcasterID, viewerUUID(viewer))
	if err != nil {
		return nil, err
	}

	if detail.Relationship.IsBlocked {
		return nil, ErrNotAuthorized
	}

	out := &WatchStreamOutput{Detail: detail}

	if viewer != nil && !detail.Relationship.IsOwner {
		muted, err := s.chat.IsBanned(ctx, detail.ID, viewer.Subject)
		if err != nil {
			slog.Warn("failed to check chat ban",
				slog.String("stream_id", detail.ID.String()),
				slog.String("error", err.Error()),
			)
		}
		out.Muted = muted

		if !muted {
			if err := s.chat.AddMember(ctx, detail.ID, viewer.Subject); err != nil {
				slog.Warn("failed to join chat channel",
					slog.String("stream_id", detail.ID.String()),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return out, nil
}

// IssuePlaybackToken evaluates the access matrix and mints a fresh
// viewer-scoped token. Blocked viewers are always refused; subscribers-only
// streams additionally require a subscription or ownership.
func (s *streamService) IssuePlaybackToken(ctx context.Context, streamID uuid.UUID, viewer *model.User) (string, error) {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return "", err
	}

	rel, err := s.access.Relationship(ctx, viewerUUID(viewer), stream.UserID)
	if err != nil {
		return "", fmt.Errorf("evaluate relationship: %w", err)
	}

	if rel.IsBlocked {
		return "", ErrNotAuthorized
	}
	if stream.Visibility == model.StreamVisibilitySubscribers && !rel.IsSubscribed && !rel.IsOwner {
		return "", ErrNotAuthorized
	}

	return s.signer.Sign(viewerSubject(viewer), token.AudiencePlayback, stream.PlaybackID, s.viewerTokenTTL)
}

// IssueChatToken mints a chat credential for the viewer.
func (s *streamService) IssueChatToken(ctx context.Context, streamID uuid.UUID, viewer *model.User) (string, error) {
	if _, err := s.streams.GetByID(ctx, streamID); err != nil {
		return "", err
	}
	return s.chat.CreateUserToken(viewerSubject(viewer), s.chatTokenTTL)
}

// ToggleMute bans or unbans the subject in the stream's chat and tells
// connected viewers about new bans.
func (s *streamService) ToggleMute(ctx context.Context, streamID, ownerID uuid.UUID, subject string) (bool, error) {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return false, err
	}
	if stream.UserID != ownerID {
		return false, ErrNotAuthorized
	}

	banned, err := s.chat.IsBanned(ctx, stream.ID, subject)
	if err != nil {
		return false, fmt.Errorf("check chat ban: %w", err)
	}

	if banned {
		if err := s.chat.UnbanUser(ctx, stream.ID, subject); err != nil {
			return false, fmt.Errorf("unban user: %w", err)
		}
		return false, nil
	}

	if err := s.chat.BanUser(ctx, stream.ID, subject, "muted by broadcaster"); err != nil {
		return false, fmt.Errorf("ban user: %w", err)
	}

	if err := s.bus.PublishUserBanned(ctx, stream.ID, subject); err != nil {
		slog.Warn("failed to publish user banned event",
			slog.String("stream_id", stream.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return true, nil
}

// HandleStreamActive applies an OFFLINE->LIVE transition. The persisted
// state is the source of truth: the guarded update lands first, and the
// chat reset and viewer broadcast afterwards are best-effort.
func (s *streamService) HandleStreamActive(ctx context.Context, streamKey string, eventTime time.Time) error {
	stream, err := s.streams.GetByStreamKey(ctx, streamKey)
	if err != nil {
		return err
	}

	var publicToken string
	if stream.Visibility == model.StreamVisibilityPublic {
		publicToken, err = s.signer.Sign(GuestSubject, token.AudiencePlayback, stream.PlaybackID, s.publicTokenTTL)
		if err != nil {
			return fmt.Errorf("mint public playback token: %w", err)
		}
	}

	updated, err := s.streams.SetLive(ctx, streamKey, publicToken, eventTime)
	if err != nil {
		return err
	}

	if err := s.chat.ResetChannel(ctx, updated.ID); err != nil {
		slog.Warn("failed to reset chat channel",
			slog.String("stream_id", updated.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.publishStatus(ctx, updated.ID, true)

	return nil
}

// HandleStreamDisconnected applies a LIVE->OFFLINE transition, clearing the
// cached token and freezing chat.
func (s *streamService) HandleStreamDisconnected(ctx context.Context, streamKey string, eventTime time.Time) error {
	updated, err := s.streams.SetOffline(ctx, streamKey, eventTime)
	if err != nil {
		return err
	}

	if err := s.chat.FreezeChannel(ctx, updated.ID); err != nil {
		slog.Warn("failed to freeze chat channel",
			slog.String("stream_id", updated.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.publishStatus(ctx, updated.ID, false)

	return nil
}

func (s *streamService) publishStatus(ctx context.Context, streamID uuid.UUID, isLive bool) {
	if err := s.bus.PublishStreamStatus(ctx, streamID, isLive); err != nil {
		slog.Warn("failed to publish stream status event",
			slog.String("stream_id", streamID.String()),
			slog.Bool("is_live", isLive),
			slog.String("error", err.Error()),
		)
	}
}

func viewerUUID(viewer *model.User) *uuid.UUID {
	if viewer == nil {
		return nil
	}
	return &viewer.ID
}

func viewerSubject(viewer *model.User) string {
	if viewer == nil {
		return GuestSubject
	}
	return viewer.Subject
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
