package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/repositories"
)

type PromptVersionService struct {
	avatars     *AvatarService
	versionRepo repositories.PromptVersionRepo
}

func NewPromptVersionService(avatars *AvatarService, versionRepo repositories.PromptVersionRepo) *PromptVersionService {
	return &PromptVersionService{avatars: avatars, versionRepo: versionRepo}
}

func (s *PromptVersionService) List(ctx context.Context, avatarID, userID uuid.UUID) ([]models.PromptVersion, error) {
	if _, err := s.avatars.Get(ctx, avatarID, userID); err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.List(ctx, avatarID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt versions: %w", err)
	}
	return versions, nil
}

// Create saves a new numbered version, activating it when requested
func (s *PromptVersionService) Create(ctx context.Context, avatarID, userID uuid.UUID, req *models.CreatePromptVersionRequest) (*models.PromptVersion, error) {
	if strings.TrimSpace(req.SystemPrompt) == "" {
		return nil, invalid("system_prompt is required")
	}
	if _, err := s.avatars.Get(ctx, avatarID, userID); err != nil {
		return nil, err
	}

	version := &models.PromptVersion{
		AvatarID:           avatarID,
		UserID:             userID,
		SystemPrompt:       strings.TrimSpace(req.SystemPrompt),
		PersonalityTraits:  req.PersonalityTraits,
		BehaviorRules:      req.BehaviorRules,
		ComplianceRules:    req.ComplianceRules,
		ResponseGuidelines: req.ResponseGuidelines,
		Notes:              req.Notes,
		IsActive:           req.Activate,
	}
	if err := s.versionRepo.Create(ctx, version); err != nil {
		return nil, fmt.Errorf("failed to create prompt version: %w", err)
	}

	log.Info().
		Str("avatar_id", avatarID.String()).
		Int("version", version.VersionNumber).
		Bool("active", version.IsActive).
		Msg("📝 Prompt version created")
	return version, nil
}

// Activate switches the avatar's active version atomically
func (s *PromptVersionService) Activate(ctx context.Context, avatarID, userID, versionID uuid.UUID) (*models.PromptVersion, error) {
	version, err := s.versionRepo.Activate(ctx, avatarID, userID, versionID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrVersionNotFound):
			return nil, ErrVersionNotFound
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrAvatarNotFound
		}
		return nil, fmt.Errorf("failed to activate prompt version: %w", err)
	}

	log.Info().
		Str("avatar_id", avatarID.String()).
		Int("version", version.VersionNumber).
		Msg("✅ Prompt version activated")
	return version, nil
}
