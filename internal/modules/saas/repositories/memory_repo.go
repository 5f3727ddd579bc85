package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemoryRepo interface {
	Create(ctx context.Context, memory *models.Memory) error
	Recent(ctx context.Context, avatarID, userID uuid.UUID, limit int) ([]models.Memory, error)
}

type memoryRepo struct {
	db *gorm.DB
}

func NewMemoryRepo(db *gorm.DB) MemoryRepo {
	return &memoryRepo{db: db}
}

func (r *memoryRepo) Create(ctx context.Context, memory *models.Memory) error {
	return r.db.WithContext(ctx).Create(memory).Error
}

func (r *memoryRepo) Recent(ctx context.Context, avatarID, userID uuid.UUID, limit int) ([]models.Memory, error) {
	var memories []models.Memory
	err := r.db.WithContext(ctx).
		Where("avatar_id = ? AND user_id = ?", avatarID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&memories).Error
	return memories, err
}
