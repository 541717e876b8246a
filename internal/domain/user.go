package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Identity is the authenticated caller of an operation, as resolved from a
// bearer token.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}

// IsAdmin reports whether the caller bypasses ownership checks.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Authenticated reports whether the identity carries a user.
func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
