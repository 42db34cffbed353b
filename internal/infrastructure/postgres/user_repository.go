package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
)

const userColumns = `u.id, u.subject, u.name, u.image_url, u.banner_url, u.created_at, u.updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user provisioned by the identity webhook.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	const query = `
		INSERT INTO users (id, subject, name, image_url, banner_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Subject,
		user.Name,
		user.ImageURL,
		nullString(user.BannerURL),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repository.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by internal id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetBySubject retrieves a user by the identity provider's subject id.
func (r *UserRepository) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.subject = $1
	`
	return r.getOne(ctx, query, subject)
}

// UpdateBySubject applies profile fields pushed by the identity webhook.
func (r *UserRepository) UpdateBySubject(ctx context.Context, subject, name, imageURL string) (*model.User, error) {
	const query = `
		UPDATE users u
		SET name = $2, image_url = $3, updated_at = $4
		WHERE u.subject = $1
		RETURNING ` + userColumns + `
	`

	user, err := scanUser(r.db.QueryRow(ctx, query, subject, name, imageURL, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteBySubject removes the user provisioned for a subject.
func (r *UserRepository) DeleteBySubject(ctx context.Context, subject string) error {
	const query = `DELETE FROM users WHERE subject = $1`

	tag, err := r.db.Exec(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user   model.User
		banner *string
	)

	err := row.Scan(
		&user.ID,
		&user.Subject,
		&user.Name,
		&user.ImageURL,
		&banner,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.BannerURL = stringValue(banner)
	return &user, nil
}

// AccessRepository implements repository.AccessRepository using PostgreSQL.
type AccessRepository struct {
	db DBTX
}

// NewAccessRepository creates a new AccessRepository instance.
func NewAccessRepository(db DBTX) *AccessRepository {
	return &AccessRepository{db: db}
}

// Relationship evaluates the block and subscription predicates in one round
// trip. A nil viewer never reaches the database: anonymous viewers are never
// blocked, subscribed, or owners.
func (r *AccessRepository) Relationship(ctx context.Context, viewerID *uuid.UUID, ownerID uuid.UUID) (model.Relationship, error) {
	if viewerID == nil {
		return model.Relationship{}, nil
	}
	if *viewerID == ownerID {
		return model.Relationship{IsOwner: true}, nil
	}

	const query = `
		SELECT
			EXISTS(SELECT 1 FROM blocks b WHERE b.blocker_id = $2 AND b.blocked_id = $1),
			EXISTS(SELECT 1 FROM subscriptions s WHERE s.viewer_id = $1 AND s.creator_id = $2)
	`

	var rel model.Relationship
	err := r.db.QueryRow(ctx, query, *viewerID, ownerID).Scan(&rel.IsBlocked, &rel.IsSubscribed)
	if err != nil {
		return model.Relationship{}, fmt.Errorf("failed to evaluate relationship: %w", err)
	}

	return rel, nil
}

// Compile-time interface checks.
var (
	_ repository.UserRepository   = (*UserRepository)(nil)
	_ repository.AccessRepository = (*AccessRepository)(nil)
)
