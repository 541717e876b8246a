package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// PhotoDTO is the JSON representation of a photo. Reactions are only
// present on single-photo reads.
type PhotoDTO struct {
	ID          uuid.UUID     `json:"id"`
	URL         string        `json:"url"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"createdAt"`
	AlbumID     *uuid.UUID    `json:"albumId"`
	UserID      uuid.UUID     `json:"userId"`
	Reactions   []ReactionDTO `json:"reactions,omitempty"`
}

func toPhotoDTO(p *domain.Photo) PhotoDTO {
	dto := PhotoDTO{
		ID:          p.ID,
		URL:         p.URL,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		AlbumID:     p.AlbumID,
		UserID:      p.UserID,
	}
	if p.Reactions != nil {
		dto.Reactions = toReactionDTOs(p.Reactions)
	}
	return dto
}

func toPhotoDTOs(photos []domain.Photo) []PhotoDTO {
	dtos := make([]PhotoDTO, len(photos))
	for i := range photos {
		dtos[i] = toPhotoDTO(&photos[i])
	}
	return dtos
}

// PageDTO wraps one page of a listing.
type PageDTO[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

func toPhotoPageDTO(p domain.Page[domain.Photo]) PageDTO[PhotoDTO] {
	return PageDTO[PhotoDTO]{
		Items:    toPhotoDTOs(p.Items),
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
	}
}

// AlbumDTO is the JSON representation of an album.
type AlbumDTO struct {
	ID     uuid.UUID  `json:"id"`
	Title  string     `json:"title"`
	UserID uuid.UUID  `json:"userId"`
	Photos []PhotoDTO `json:"photos"`
}

func toAlbumDTO(a *domain.Album) AlbumDTO {
	return AlbumDTO{
		ID:     a.ID,
		Title:  a.Title,
		UserID: a.UserID,
		Photos: toPhotoDTOs(a.Photos),
	}
}

func toAlbumDTOs(albums []domain.Album) []AlbumDTO {
	dtos := make([]AlbumDTO, len(albums))
	for i := range albums {
		dtos[i] = toAlbumDTO(&albums[i])
	}
	return dtos
}

// ReactionDTO is the JSON representation of a reaction.
type ReactionDTO struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	PhotoID   uuid.UUID `json:"photoId"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt string    `json:"createdAt"`
}

func toReactionDTO(r *domain.Reaction) ReactionDTO {
	return ReactionDTO{
		ID:        r.ID,
		Type:      string(r.Type),
		PhotoID:   r.PhotoID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func toReactionDTOs(reactions []domain.Reaction) []ReactionDTO {
	dtos := make([]ReactionDTO, len(reactions))
	for i := range reactions {
		dtos[i] = toReactionDTO(&reactions[i])
	}
	return dtos
}

// ReactionCountsDTO carries like and dislike totals for one photo.
type ReactionCountsDTO struct {
	LikesCount    int `json:"likesCount"`
	DislikesCount int `json:"dislikesCount"`
}
