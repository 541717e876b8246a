package domain

import (
	"context"

	"github.com/google/uuid"
)

// Album groups photos. Membership lives on the photo side; Photos is
// populated on read.
type Album struct {
	ID     uuid.UUID
	Title  string
	UserID uuid.UUID
	Photos []Photo
}

// AlbumRepository handles album persistence.
type AlbumRepository interface {
	Create(ctx context.Context, album *Album) error
	GetByID(ctx context.Context, id uuid.UUID) (*Album, error)
	List(ctx context.Context) ([]Album, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Album, error)
	FindByTitle(ctx context.Context, title string) ([]Album, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	// Delete removes the album and unfiles its photos in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}
