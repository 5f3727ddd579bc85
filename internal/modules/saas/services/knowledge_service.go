package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/repositories"
)

type KnowledgeService struct {
	avatars       *AvatarService
	knowledgeRepo repositories.KnowledgeRepo
}

func NewKnowledgeService(avatars *AvatarService, knowledgeRepo repositories.KnowledgeRepo) *KnowledgeService {
	return &KnowledgeService{avatars: avatars, knowledgeRepo: knowledgeRepo}
}

func (s *KnowledgeService) ListFiles(ctx context.Context, avatarID, userID uuid.UUID) ([]models.KnowledgeFile, error) {
	if _, err := s.avatars.Get(ctx, avatarID, userID); err != nil {
		return nil, err
	}
	files, err := s.knowledgeRepo.ListFiles(ctx, avatarID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge files: %w", err)
	}
	return files, nil
}

// RegisterFile stores extracted text as a pending file; the ingestion job embeds it
func (s *KnowledgeService) RegisterFile(ctx context.Context, avatarID, userID uuid.UUID, req *models.CreateKnowledgeFileRequest) (*models.KnowledgeFile, error) {
	if strings.TrimSpace(req.FileName) == "" {
		return nil, invalid("file_name is required")
	}
	if strings.TrimSpace(req.ExtractedText) == "" {
		return nil, invalid("extracted_text is required")
	}
	if _, err := s.avatars.Get(ctx, avatarID, userID); err != nil {
		return nil, err
	}

	linked := true
	if req.IsLinked != nil {
		linked = *req.IsLinked
	}

	file := &models.KnowledgeFile{
		AvatarID:         avatarID,
		UserID:           userID,
		FileName:         strings.TrimSpace(req.FileName),
		FileURL:          req.FileURL,
		ExtractedText:    req.ExtractedText,
		IsLinked:         linked,
		IsShareable:      req.IsShareable,
		ProcessingStatus: models.KnowledgeStatusPending,
	}
	if err := s.knowledgeRepo.CreateFile(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to register knowledge file: %w", err)
	}

	log.Info().Str("avatar_id", avatarID.String()).Str("file", file.FileName).Msg("📄 Knowledge file registered")
	return file, nil
}
