package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// BlockService manages blocker->blocked edges. Blocking also ejects the
// blocked user from the blocker's live chat when one exists; those side
// effects are best-effort and never fail the block itself.
type BlockService interface {
	// Block creates the edge. Self-blocking is rejected.
	Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error)

	// Unblock removes the edge and lifts any chat ban.
	Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error)

	// IsBlockedBy reports whether blockerID has blocked blockedID.
	IsBlockedBy(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)

	// ListBlocked returns one page of the users blocked by blockerID.
	ListBlocked(ctx context.Context, blockerID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.BlockSummary], error)
}

type blockService struct {
	blocks  repository.BlockRepository
	users   repository.UserRepository
	streams repository.StreamRepository
	chat    repository.ChatService
	bus     repository.EventBus
}

// NewBlockService creates a new BlockService instance.
func NewBlockService(
	blocks repository.BlockRepository,
	users repository.UserRepository,
	streams repository.StreamRepository,
	chat repository.ChatService,
	bus repository.EventBus,
) BlockService {
	return &blockService{
		blocks:  blocks,
		users:   users,
		streams: streams,
		chat:    chat,
		bus:     bus,
	}
}

// Block creates the blocker->blocked edge and ejects the blocked user from
// the blocker's chat channel.
func (s *blockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error) {
	if blockerID == blockedID {
		return nil, ErrSelfBlock
	}

	blocked, err := s.users.GetByID(ctx, blockedID)
	if err != nil {
		return nil, err
	}

	block, err := s.blocks.Create(ctx, blockerID, blockedID)
	if err != nil {
		return nil, err
	}

	s.banFromChat(ctx, blockerID, blocked.Subject)

	return block, nil
}

// Unblock removes the edge and lifts the chat ban.
func (s *blockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error) {
	block, err := s.blocks.Delete(ctx, blockerID, blockedID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.users.GetByID(ctx, blockedID)
	if err == nil {
		s.unbanFromChat(ctx, blockerID, blocked.Subject)
	}

	return block, nil
}

// IsBlockedBy reports whether blockerID has blocked blockedID.
func (s *blockService) IsBlockedBy(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	return s.blocks.Exists(ctx, blockerID, blockedID)
}

// ListBlocked returns one page of the blocker's block list.
func (s *blockService) ListBlocked(ctx context.Context, blockerID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.BlockSummary], error) {
	rows, err := s.blocks.List(ctx, blockerID, limit, cursor)
	if err != nil {
		return pagination.Page[model.BlockSummary]{}, err
	}

	return pagination.SlicePage(rows, limit, func(b model.BlockSummary) pagination.Cursor {
		return pagination.Cursor{UpdatedAt: b.UpdatedAt, ID: b.BlockedID}
	}), nil
}

// banFromChat bans the subject from the blocker's chat channel and tells
// connected viewers. No-op when the blocker has no stream session.
func (s *blockService) banFromChat(ctx context.Context, blockerID uuid.UUID, subject string) {
	stream, err := s.streams.GetByUserID(ctx, blockerID)
	if err != nil {
		if !errors.Is(err, repository.ErrStreamNotFound) {
			slog.Warn("failed to resolve stream for chat ban",
				slog.String("blocker_id", blockerID.String()),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	if err := s.chat.BanUser(ctx, stream.ID, subject, "blocked by broadcaster"); err != nil {
		slog.Warn("failed to ban user from chat",
			slog.String("stream_id", stream.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	if err := s.bus.PublishUserBanned(ctx, stream.ID, subject); err != nil {
		slog.Warn("failed to publish user banned event",
			slog.String("stream_id", stream.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *blockService) unbanFromChat(ctx context.Context, blockerID uuid.UUID, subject string) {
	stream, err := s.streams.GetByUserID(ctx, blockerID)
	if err != nil {
		if !errors.Is(err, repository.ErrStreamNotFound) {
			slog.Warn("failed to resolve stream for chat unban",
				slog.String("blocker_id", blockerID.String()),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	if err := s.chat.UnbanUser(ctx, stream.ID, subject); err != nil {
		slog.Warn("failed to unban user from chat",
			slog.String("stream_id", stream.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
