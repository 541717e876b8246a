package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

// PhotoService owns the photo lifecycle: the relational record and the blob
// behind its URL.
type PhotoService struct {
	photos    domain.PhotoRepository
	albums    domain.AlbumRepository
	reactions domain.ReactionRepository
	media     *MediaManager
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(photos domain.PhotoRepository, albums domain.AlbumRepository, reactions domain.ReactionRepository, media *MediaManager) *PhotoService {
	return &PhotoService{photos: photos, albums: albums, reactions: reactions, media: media}
}

// AddPhoto uploads the content and then records the photo. If the record
// cannot be written the uploaded blob is deleted again.
func (s *PhotoService) AddPhoto(ctx context.Context, caller domain.Identity, upload domain.FileUpload, description string) (*domain.Photo, error) {
	if err := authenticated(caller); err != nil {
		return nil, err
	}

	url, err := s.media.Upload(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	photo := &domain.Photo{
		URL:         url,
		Description: description,
		UserID:      caller.UserID,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		// The request may already be cancelled; the blob must still go.
		if rmErr := s.media.Remove(context.WithoutCancel(ctx), photo); rmErr != nil {
			slog.Error("failed to remove orphaned blob", "url", url, "error", rmErr)
		}
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}
		return nil, fmt.Errorf("create photo record: %w", err)
	}

	slog.Info("photo uploaded", "photo_id", photo.ID, "user_id", caller.UserID)
	return photo, nil
}

// GetPhoto returns a photo with its reactions.
func (s *PhotoService) GetPhoto(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}
	reactions, err := s.reactions.ListByPhoto(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	photo.Reactions = reactions
	return photo, nil
}

// UpdatePhoto overwrites the description of an existing photo. Only the
// owner or an admin may change it; the stored owner is authoritative.
func (s *PhotoService) UpdatePhoto(ctx context.Context, caller domain.Identity, photo *domain.Photo) (*domain.Photo, error) {
	if err := authorize(caller, photo.UserID); err != nil {
		return nil, err
	}

	existing, err := s.photos.GetByID(ctx, photo.ID)
	if err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}
	if err := authorize(caller, existing.UserID); err != nil {
		return nil, err
	}

	if err := s.photos.UpdateDescription(ctx, photo.ID, photo.Description); err != nil {
		return nil, fmt.Errorf("update photo: %w", err)
	}
	existing.Description = photo.Description
	return existing, nil
}

// DeletePhoto removes the blob and then the record.
func (s *PhotoService) DeletePhoto(ctx context.Context, caller domain.Identity, id uuid.UUID) error {
	if err := authenticated(caller); err != nil {
		return err
	}

	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get photo: %w", err)
	}
	if err := authorize(caller, photo.UserID); err != nil {
		return err
	}

	if err := s.media.Remove(ctx, photo); err != nil {
		return fmt.Errorf("remove blob: %w", err)
	}
	if err := s.photos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}

	slog.Info("photo deleted", "photo_id", id, "user_id", caller.UserID)
	return nil
}

// ListPhotos returns one page of all photos, newest first.
func (s *PhotoService) ListPhotos(ctx context.Context, page, pageSize int) (domain.Page[domain.Photo], error) {
	page, pageSize = normalizePage(page, pageSize)
	items, err := s.photos.List(ctx, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return domain.Page[domain.Photo]{}, fmt.Errorf("list photos: %w", err)
	}
	total, err := s.photos.Count(ctx)
	if err != nil {
		return domain.Page[domain.Photo]{}, fmt.Errorf("count photos: %w", err)
	}
	return domain.Page[domain.Photo]{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

// ListUserPhotos returns one page of the caller's photos.
func (s *PhotoService) ListUserPhotos(ctx context.Context, caller domain.Identity, page, pageSize int) (domain.Page[domain.Photo], error) {
	if err := authenticated(caller); err != nil {
		return domain.Page[domain.Photo]{}, err
	}
	page, pageSize = normalizePage(page, pageSize)
	items, err := s.photos.ListByUser(ctx, caller.UserID, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return domain.Page[domain.Photo]{}, fmt.Errorf("list user photos: %w", err)
	}
	total, err := s.photos.CountByUser(ctx, caller.UserID)
	if err != nil {
		return domain.Page[domain.Photo]{}, fmt.Errorf("count user photos: %w", err)
	}
	return domain.Page[domain.Photo]{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

// ListAlbumPhotos returns one page of an album's photos.
func (s *PhotoService) ListAlbumPhotos(ctx context.Context, albumID uuid.UUID, page, pageSize int) (domain.Page[domain.Photo], error) {
	if _, err := s.albums.GetByID(ctx, albumID); err != nil {
		return domain.Page[domain.Photo]{}, fmt.Errorf("get album: %w", err)
	}
	page, pageSize = normalizePage(page, pageSize)
	items, err := s.photos.ListByAlbum(ctx, albumID, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return domain.Page[domain.Photo]{}, fmt.Errorf("list album photos: %w", err)
	}
	total, err := s.photos.CountByAlbum(ctx, albumID)
	if err != nil {
		return domain.Page[domain.Photo]{}, fmt.Errorf("count album photos: %w", err)
	}
	return domain.Page[domain.Photo]{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}
