package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

const maxAlbumTitle = 200

// AlbumService manages albums and which photos are filed under them.
type AlbumService struct {
	albums domain.AlbumRepository
	photos domain.PhotoRepository
}

// NewAlbumService creates a new AlbumService.
func NewAlbumService(albums domain.AlbumRepository, photos domain.PhotoRepository) *AlbumService {
	return &AlbumService{albums: albums, photos: photos}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: album title is required", domain.ErrInvalidInput)
	}
	if len(title) > maxAlbumTitle {
		return "", fmt.Errorf("%w: album title must be at most %d characters", domain.ErrInvalidInput, maxAlbumTitle)
	}
	return title, nil
}

// CreateAlbum creates an empty album owned by the caller.
func (s *AlbumService) CreateAlbum(ctx context.Context, caller domain.Identity, title string) (*domain.Album, error) {
	if err := authenticated(caller); err != nil {
		return nil, err
	}
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	album := &domain.Album{Title: title, UserID: caller.UserID}
	if err := s.albums.Create(ctx, album); err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}
	return album, nil
}

// GetAlbum returns an album with all of its photos.
func (s *AlbumService) GetAlbum(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	if err := s.loadPhotos(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

func (s *AlbumService) loadPhotos(ctx context.Context, album *domain.Album) error {
	n, err := s.photos.CountByAlbum(ctx, album.ID)
	if err != nil {
		return fmt.Errorf("count album photos: %w", err)
	}
	album.Photos = nil
	if n == 0 {
		return nil
	}
	photos, err := s.photos.ListByAlbum(ctx, album.ID, n, 0)
	if err != nil {
		return fmt.Errorf("list album photos: %w", err)
	}
	album.Photos = photos
	return nil
}

func (s *AlbumService) ListAlbums(ctx context.Context) ([]domain.Album, error) {
	return s.albums.List(ctx)
}

func (s *AlbumService) FindAlbumsByTitle(ctx context.Context, title string) ([]domain.Album, error) {
	return s.albums.FindByTitle(ctx, strings.TrimSpace(title))
}

func (s *AlbumService) ListUserAlbums(ctx context.Context, caller domain.Identity) ([]domain.Album, error) {
	if err := authenticated(caller); err != nil {
		return nil, err
	}
	return s.albums.ListByUser(ctx, caller.UserID)
}

// UpdateAlbum renames an album.
func (s *AlbumService) UpdateAlbum(ctx context.Context, caller domain.Identity, id uuid.UUID, title string) (*domain.Album, error) {
	album, err := s.authorizedAlbum(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	title, err = validateTitle(title)
	if err != nil {
		return nil, err
	}
	if err := s.albums.UpdateTitle(ctx, id, title); err != nil {
		return nil, fmt.Errorf("update album: %w", err)
	}
	album.Title = title
	return album, nil
}

// AddPhotosToAlbum files the given photos under the album in one statement.
// Unknown ids are skipped and photos in another album are moved.
func (s *AlbumService) AddPhotosToAlbum(ctx context.Context, caller domain.Identity, albumID uuid.UUID, photoIDs []uuid.UUID) (*domain.Album, error) {
	album, err := s.authorizedAlbum(ctx, caller, albumID)
	if err != nil {
		return nil, err
	}

	n, err := s.photos.AssignAlbum(ctx, albumID, photoIDs)
	if err != nil {
		return nil, fmt.Errorf("assign photos: %w", err)
	}
	slog.Debug("photos added to album", "album_id", albumID, "requested", len(photoIDs), "assigned", n)

	if err := s.loadPhotos(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// RemovePhotosFromAlbum unfiles the given photos, touching only those that
// are currently in this album.
func (s *AlbumService) RemovePhotosFromAlbum(ctx context.Context, caller domain.Identity, albumID uuid.UUID, photoIDs []uuid.UUID) (bool, error) {
	if _, err := s.authorizedAlbum(ctx, caller, albumID); err != nil {
		return false, err
	}

	n, err := s.photos.ClearAlbum(ctx, albumID, photoIDs)
	if err != nil {
		return false, fmt.Errorf("clear photos: %w", err)
	}
	slog.Debug("photos removed from album", "album_id", albumID, "requested", len(photoIDs), "removed", n)
	return true, nil
}

// DeleteAlbum deletes the album. Its photos survive, unfiled.
func (s *AlbumService) DeleteAlbum(ctx context.Context, caller domain.Identity, id uuid.UUID) (bool, error) {
	if _, err := s.authorizedAlbum(ctx, caller, id); err != nil {
		return false, err
	}
	if err := s.albums.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete album: %w", err)
	}
	slog.Info("album deleted", "album_id", id, "user_id", caller.UserID)
	return true, nil
}

// authorizedAlbum loads the album and checks that caller may modify it.
func (s *AlbumService) authorizedAlbum(ctx context.Context, caller domain.Identity, id uuid.UUID) (*domain.Album, error) {
	if err := authenticated(caller); err != nil {
		return nil, err
	}
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	if err := authorize(caller, album.UserID); err != nil {
		return nil, err
	}
	return album, nil
}
