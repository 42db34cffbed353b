package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// SubscriptionService manages viewer->creator subscription edges.
type SubscriptionService interface {
	// Subscribe creates the edge. Self-subscription is rejected.
	Subscribe(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error)

	// Unsubscribe removes the edge.
	Unsubscribe(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error)

	// ListSubscriptions returns one page of the viewer's subscriptions.
	ListSubscriptions(ctx context.Context, viewerID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.SubscriptionSummary], error)
}

type subscriptionService struct {
	subs  repository.SubscriptionRepository
	users repository.UserRepository
}

// NewSubscriptionService creates a new SubscriptionService instance.
func NewSubscriptionService(subs repository.SubscriptionRepository, users repository.UserRepository) SubscriptionService {
	return &subscriptionService{
		subs:  subs,
		users: users,
	}
}

// Subscribe creates the viewer->creator edge.
func (s *subscriptionService) Subscribe(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error) {
	if viewerID == creatorID {
		return nil, ErrSelfSubscription
	}

	if _, err := s.users.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}

	return s.subs.Create(ctx, viewerID, creatorID)
}

// Unsubscribe removes the viewer->creator edge.
func (s *subscriptionService) Unsubscribe(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error) {
	if viewerID == creatorID {
		return nil, ErrSelfSubscription
	}

	return s.subs.Delete(ctx, viewerID, creatorID)
}

// ListSubscriptions returns one page of the viewer's subscription feed,
// keyed by the edge's (updated_at, creator_id).
func (s *subscriptionService) ListSubscriptions(ctx context.Context, viewerID uuid.UUID, limit int, cursor *pagination.Cursor) (pagination.Page[model.SubscriptionSummary], error) {
	rows, err := s.subs.List(ctx, viewerID, limit, cursor)
	if err != nil {
		return pagination.Page[model.SubscriptionSummary]{}, err
	}

	return pagination.SlicePage(rows, limit, func(sub model.SubscriptionSummary) pagination.Cursor {
		return pagination.Cursor{UpdatedAt: sub.UpdatedAt, ID: sub.CreatorID}
	}), nil
}
