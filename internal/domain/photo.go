package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Photo is an uploaded image. URL points at the blob store and never
// changes after creation. AlbumID is nil for unfiled photos.
type Photo struct {
	ID          uuid.UUID
	URL         string
	Description string
	CreatedAt   time.Time
	AlbumID     *uuid.UUID
	UserID      uuid.UUID
	Reactions   []Reaction
}

// InAlbum reports whether the photo is filed under the given album.
func (p *Photo) InAlbum(albumID uuid.UUID) bool {
	return p.AlbumID != nil && *p.AlbumID == albumID
}

// FileUpload is the raw content handed to the media manager.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PhotoRepository handles photo persistence. Membership changes are
// expressed as bulk statements so that one call is one atomic save.
type PhotoRepository interface {
	Create(ctx context.Context, photo *Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, limit, offset int) ([]Photo, error)
	Count(ctx context.Context) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Photo, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	ListByAlbum(ctx context.Context, albumID uuid.UUID, limit, offset int) ([]Photo, error)
	CountByAlbum(ctx context.Context, albumID uuid.UUID) (int, error)

	// AssignAlbum sets album_id on every photo whose id is in ids. Unknown
	// ids are ignored. Returns the number of photos updated.
	AssignAlbum(ctx context.Context, albumID uuid.UUID, ids []uuid.UUID) (int64, error)
	// ClearAlbum unsets album_id on photos whose id is in ids and which are
	// currently filed under albumID.
	ClearAlbum(ctx context.Context, albumID uuid.UUID, ids []uuid.UUID) (int64, error)
}
