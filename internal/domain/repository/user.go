package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create persists a new user. Returns ErrDuplicateUser if a user with
	// the same subject already exists.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by internal id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetBySubject retrieves a user by the identity provider's subject id.
	GetBySubject(ctx context.Context, subject string) (*model.User, error)

	// UpdateBySubject applies profile fields pushed by the identity webhook.
	UpdateBySubject(ctx context.Context, subject, name, imageURL string) (*model.User, error)

	// DeleteBySubject removes the user provisioned for a subject.
	DeleteBySubject(ctx context.Context, subject string) error
}

// AccessRepository evaluates the viewer-relationship predicates gating
// access to a creator's content.
type AccessRepository interface {
	// Relationship returns the block/subscription/ownership predicates for
	// viewerID against ownerID. A nil viewerID short-circuits to all-false
	// without querying.
	Relationship(ctx context.Context, viewerID *uuid.UUID, ownerID uuid.UUID) (model.Relationship, error)
}
