package repositories

import (
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvatarRepo interface {
	Create(ctx context.Context, avatar *models.Avatar) error
	// GetByID returns an active (non-trashed) avatar owned by userID
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Avatar, error)
	Trash(ctx context.Context, id, userID uuid.UUID) error
	Restore(ctx context.Context, id, userID uuid.UUID) error
	// PurgeTrashed hard-deletes avatars trashed before cutoff and returns how many went
	PurgeTrashed(ctx context.Context, cutoff time.Time) (int64, error)
}

type avatarRepo struct {
	db *gorm.DB
}

func NewAvatarRepo(db *gorm.DB) AvatarRepo {
	return &avatarRepo{db: db}
}

func (r *avatarRepo) Create(ctx context.Context, avatar *models.Avatar) error {
	return r.db.WithContext(ctx).Create(avatar).Error
}

func (r *avatarRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Avatar, error) {
	var avatar models.Avatar
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.AvatarStatusActive).
		First(&avatar).Error
	if err != nil {
		return nil, err
	}
	return &avatar, nil
}

func (r *avatarRepo) Trash(ctx context.Context, id, userID uuid.UUID) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.Avatar{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.AvatarStatusActive).
		Updates(map[string]interface{}{
			"status":     models.AvatarStatusTrashed,
			"trashed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *avatarRepo) Restore(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Avatar{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.AvatarStatusTrashed).
		Updates(map[string]interface{}{
			"status":     models.AvatarStatusActive,
			"trashed_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *avatarRepo) PurgeTrashed(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("status = ? AND trashed_at < ?", models.AvatarStatusTrashed, cutoff).
		Delete(&models.Avatar{})
	return result.RowsAffected, result.Error
}
