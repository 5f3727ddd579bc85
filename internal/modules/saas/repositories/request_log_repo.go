package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestLogRepo interface {
	Create(ctx context.Context, entry *models.APIRequestLog) error
	CountByAvatar(ctx context.Context, avatarID uuid.UUID) (int64, error)
}

type requestLogRepo struct {
	db *gorm.DB
}

func NewRequestLogRepo(db *gorm.DB) RequestLogRepo {
	return &requestLogRepo{db: db}
}

func (r *requestLogRepo) Create(ctx context.Context, entry *models.APIRequestLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *requestLogRepo) CountByAvatar(ctx context.Context, avatarID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.APIRequestLog{}).
		Where("avatar_id = ?", avatarID).
		Count(&count).Error
	return count, err
}
