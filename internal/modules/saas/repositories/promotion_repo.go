package repositories

import (
	"context"
	"strings"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromotionRepo interface {
	Create(ctx context.Context, promotion *models.Promotion) error
	// ListActive returns promotions flagged active; date window and usage cap are checked by callers
	ListActive(ctx context.Context, avatarID uuid.UUID) ([]models.Promotion, error)
	List(ctx context.Context, avatarID, userID uuid.UUID) ([]models.Promotion, error)
	// FindByCode matches the promo code case-insensitively regardless of validity
	FindByCode(ctx context.Context, avatarID uuid.UUID, code string) (*models.Promotion, error)
}

type promotionRepo struct {
	db *gorm.DB
}

func NewPromotionRepo(db *gorm.DB) PromotionRepo {
	return &promotionRepo{db: db}
}

func (r *promotionRepo) Create(ctx context.Context, promotion *models.Promotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

func (r *promotionRepo) ListActive(ctx context.Context, avatarID uuid.UUID) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.db.WithContext(ctx).
		Where("avatar_id = ? AND is_active = ?", avatarID, true).
		Order("created_at ASC").
		Find(&promotions).Error
	return promotions, err
}

func (r *promotionRepo) List(ctx context.Context, avatarID, userID uuid.UUID) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.db.WithContext(ctx).
		Where("avatar_id = ? AND user_id = ?", avatarID, userID).
		Order("created_at DESC").
		Find(&promotions).Error
	return promotions, err
}

func (r *promotionRepo) FindByCode(ctx context.Context, avatarID uuid.UUID, code string) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.db.WithContext(ctx).
		Where("avatar_id = ? AND LOWER(promo_code) = ?", avatarID, strings.ToLower(strings.TrimSpace(code))).
		First(&promotion).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}
