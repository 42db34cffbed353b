package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
)

// UpsertUserInput carries the profile fields pushed by the identity webhook.
type UpsertUserInput struct {
	Subject  string
	Name     string
	ImageURL string
}

// UserService provisions users from identity webhook events and resolves
// the viewer behind a verified session.
type UserService interface {
	// UpsertUser creates or updates the user for a subject.
	UpsertUser(ctx context.Context, input UpsertUserInput) (*model.User, error)

	// DeleteUser removes the user provisioned for a subject.
	DeleteUser(ctx context.Context, subject string) error

	// GetUser retrieves a user by internal id.
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)

	// ResolveViewer resolves the internal user for a session subject.
	// Returns nil without error when no user exists yet for the subject;
	// the caller treats such requests as anonymous.
	ResolveViewer(ctx context.Context, subject string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// UpsertUser creates the user on first sight of a subject and updates the
// profile on later events. Exactly one internal row exists per subject.
func (s *userService) UpsertUser(ctx context.Context, input UpsertUserInput) (*model.User, error) {
	user, err := s.users.UpdateBySubject(ctx, input.Subject, input.Name, input.ImageURL)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &model.User{
		ID:        uuid.New(),
		Subject:   input.Subject,
		Name:      input.Name,
		ImageURL:  input.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent webhook delivery may have created the row first.
		if errors.Is(err, repository.ErrDuplicateUser) {
			return s.users.UpdateBySubject(ctx, input.Subject, input.Name, input.ImageURL)
		}
		return nil, err
	}

	return user, nil
}

// DeleteUser removes the user provisioned for a subject.
func (s *userService) DeleteUser(ctx context.Context, subject string) error {
	return s.users.DeleteBySubject(ctx, subject)
}

// GetUser retrieves a user by internal id.
func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ResolveViewer resolves the internal user for a session subject.
func (s *userService) ResolveViewer(ctx context.Context, subject string) (*model.User, error) {
	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
