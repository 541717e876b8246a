package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

// ReactionService records likes and dislikes. A user holds at most one
// reaction per photo.
type ReactionService struct {
	reactions domain.ReactionRepository
	photos    domain.PhotoRepository
}

// NewReactionService creates a new ReactionService.
func NewReactionService(reactions domain.ReactionRepository, photos domain.PhotoRepository) *ReactionService {
	return &ReactionService{reactions: reactions, photos: photos}
}

// AddReaction stores the caller's reaction to a photo, replacing any
// earlier one.
func (s *ReactionService) AddReaction(ctx context.Context, caller domain.Identity, typ domain.ReactionType, photoID uuid.UUID) (*domain.Reaction, error) {
	if err := authenticated(caller); err != nil {
		return nil, err
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown reaction type %q", domain.ErrInvalidInput, typ)
	}
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}

	reaction := &domain.Reaction{Type: typ, PhotoID: photoID, UserID: caller.UserID}
	if err := s.reactions.Replace(ctx, reaction); err != nil {
		return nil, fmt.Errorf("save reaction: %w", err)
	}
	return reaction, nil
}

func (s *ReactionService) GetReaction(ctx context.Context, id uuid.UUID) (*domain.Reaction, error) {
	return s.reactions.GetByID(ctx, id)
}

// DeleteReaction removes a reaction. Only its author or an admin may.
func (s *ReactionService) DeleteReaction(ctx context.Context, caller domain.Identity, id uuid.UUID) error {
	if err := authenticated(caller); err != nil {
		return err
	}
	reaction, err := s.reactions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get reaction: %w", err)
	}
	if err := authorize(caller, reaction.UserID); err != nil {
		return err
	}
	if err := s.reactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return nil
}

func (s *ReactionService) CountReactions(ctx context.Context, photoID uuid.UUID) (domain.ReactionCounts, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return domain.ReactionCounts{}, fmt.Errorf("get photo: %w", err)
	}
	return s.reactions.CountByPhoto(ctx, photoID)
}

func (s *ReactionService) ListPhotoReactions(ctx context.Context, photoID uuid.UUID) ([]domain.Reaction, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return s.reactions.ListByPhoto(ctx, photoID)
}

func (s *ReactionService) ListUserReactions(ctx context.Context, caller domain.Identity) ([]domain.Reaction, error) {
	if err := authenticated(caller); err != nil {
		return nil, err
	}
	return s.reactions.ListByUser(ctx, caller.UserID)
}
