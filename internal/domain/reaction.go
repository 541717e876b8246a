package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Valid reports whether t is a known reaction type.
func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

type Reaction struct {
	ID        uuid.UUID
	Type      ReactionType
	PhotoID   uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// ReactionCounts aggregates reactions on a single photo.
type ReactionCounts struct {
	Likes    int
	Dislikes int
}

// ReactionRepository handles reaction persistence.
type ReactionRepository interface {
	// Replace stores the reaction, dropping any earlier reaction by the
	// same user on the same photo.
	Replace(ctx context.Context, reaction *Reaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPhoto(ctx context.Context, photoID uuid.UUID) ([]Reaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Reaction, error)
	CountByPhoto(ctx context.Context, photoID uuid.UUID) (ReactionCounts, error)
}
