package repositories

import (
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKeyRepo interface {
	Create(ctx context.Context, key *models.PlatformAPIKey) error
	FindByHash(ctx context.Context, keyHash string) (*models.PlatformAPIKey, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type apiKeyRepo struct {
	db *gorm.DB
}

func NewAPIKeyRepo(db *gorm.DB) APIKeyRepo {
	return &apiKeyRepo{db: db}
}

func (r *apiKeyRepo) Create(ctx context.Context, key *models.PlatformAPIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *apiKeyRepo) FindByHash(ctx context.Context, keyHash string) (*models.PlatformAPIKey, error) {
	var key models.PlatformAPIKey
	if err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.PlatformAPIKey{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"last_used_at":  time.Now().UTC(),
		}).Error
}

type ProviderKeyRepo interface {
	Create(ctx context.Context, key *models.ProviderKey) error
	// GetActiveKey returns the tenant's active credential for provider
	GetActiveKey(ctx context.Context, userID uuid.UUID, provider string) (string, error)
}

type providerKeyRepo struct {
	db *gorm.DB
}

func NewProviderKeyRepo(db *gorm.DB) ProviderKeyRepo {
	return &providerKeyRepo{db: db}
}

func (r *providerKeyRepo) Create(ctx context.Context, key *models.ProviderKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *providerKeyRepo) GetActiveKey(ctx context.Context, userID uuid.UUID, provider string) (string, error) {
	var key models.ProviderKey
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ? AND is_active = ?", userID, provider, true).
		Order("updated_at DESC").
		First(&key).Error
	if err != nil {
		return "", err
	}
	return key.APIKey, nil
}
