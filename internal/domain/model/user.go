package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the internal user record. Subject is the identity provider's
// stable subject id; exactly one internal row exists per subject.
type User struct {
	ID        uuid.UUID
	Subject   string
	Name      string
	ImageURL  string
	BannerURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Relationship holds the viewer-relationship predicates that gate access to
// a creator's content. All fields are false for anonymous viewers.
type Relationship struct {
	IsBlocked    bool
	IsSubscribed bool
	IsOwner      bool
}
