package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/repositories"
)

type AvatarService struct {
	avatarRepo repositories.AvatarRepo
}

func NewAvatarService(avatarRepo repositories.AvatarRepo) *AvatarService {
	return &AvatarService{avatarRepo: avatarRepo}
}

// Get returns an active avatar owned by userID
func (s *AvatarService) Get(ctx context.Context, avatarID, userID uuid.UUID) (*models.Avatar, error) {
	avatar, err := s.avatarRepo.GetByID(ctx, avatarID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAvatarNotFound
		}
		return nil, fmt.Errorf("failed to load avatar: %w", err)
	}
	return avatar, nil
}

// Trash moves an avatar to the trash; it is purged after the retention period
func (s *AvatarService) Trash(ctx context.Context, avatarID, userID uuid.UUID) error {
	if err := s.avatarRepo.Trash(ctx, avatarID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAvatarNotFound
		}
		return fmt.Errorf("failed to trash avatar: %w", err)
	}
	log.Info().Str("avatar_id", avatarID.String()).Msg("🗑️ Avatar moved to trash")
	return nil
}

func (s *AvatarService) Restore(ctx context.Context, avatarID, userID uuid.UUID) error {
	if err := s.avatarRepo.Restore(ctx, avatarID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAvatarNotFound
		}
		return fmt.Errorf("failed to restore avatar: %w", err)
	}
	log.Info().Str("avatar_id", avatarID.String()).Msg("♻️ Avatar restored")
	return nil
}
