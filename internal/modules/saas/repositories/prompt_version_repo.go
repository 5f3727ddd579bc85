package repositories

import (
	"context"
	"errors"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrVersionNotFound is returned when a version does not belong to the avatar
var ErrVersionNotFound = errors.New("prompt version not found")

type PromptVersionRepo interface {
	GetByID(ctx context.Context, avatarID, versionID uuid.UUID) (*models.PromptVersion, error)
	// GetActive returns gorm.ErrRecordNotFound when the avatar has no active version
	GetActive(ctx context.Context, avatarID uuid.UUID) (*models.PromptVersion, error)
	List(ctx context.Context, avatarID, userID uuid.UUID) ([]models.PromptVersion, error)
	// Create assigns the next version number for the avatar
	Create(ctx context.Context, version *models.PromptVersion) error
	// Activate makes versionID the only active version of the avatar in one transaction
	Activate(ctx context.Context, avatarID, userID, versionID uuid.UUID) (*models.PromptVersion, error)
}

type promptVersionRepo struct {
	db *gorm.DB
}

func NewPromptVersionRepo(db *gorm.DB) PromptVersionRepo {
	return &promptVersionRepo{db: db}
}

func (r *promptVersionRepo) GetByID(ctx context.Context, avatarID, versionID uuid.UUID) (*models.PromptVersion, error) {
	var version models.PromptVersion
	err := r.db.WithContext(ctx).
		Where("id = ? AND avatar_id = ?", versionID, avatarID).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *promptVersionRepo) GetActive(ctx context.Context, avatarID uuid.UUID) (*models.PromptVersion, error) {
	var version models.PromptVersion
	err := r.db.WithContext(ctx).
		Where("avatar_id = ? AND is_active = ?", avatarID, true).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *promptVersionRepo) List(ctx context.Context, avatarID, userID uuid.UUID) ([]models.PromptVersion, error) {
	var versions []models.PromptVersion
	err := r.db.WithContext(ctx).
		Where("avatar_id = ? AND user_id = ?", avatarID, userID).
		Order("version_number DESC").
		Find(&versions).Error
	return versions, err
}

func (r *promptVersionRepo) Create(ctx context.Context, version *models.PromptVersion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAvatar(tx, version.AvatarID, version.UserID); err != nil {
			return err
		}

		var maxVersion int
		err := tx.Model(&models.PromptVersion{}).
			Where("avatar_id = ?", version.AvatarID).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&maxVersion).Error
		if err != nil {
			return err
		}
		version.VersionNumber = maxVersion + 1

		// A new version only becomes active through the activation path
		wantActive := version.IsActive
		version.IsActive = false
		if err := tx.Create(version).Error; err != nil {
			return err
		}
		if wantActive {
			if err := activateLocked(tx, version.AvatarID, version.ID); err != nil {
				return err
			}
			version.IsActive = true
		}
		return nil
	})
}

func (r *promptVersionRepo) Activate(ctx context.Context, avatarID, userID, versionID uuid.UUID) (*models.PromptVersion, error) {
	var activated models.PromptVersion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAvatar(tx, avatarID, userID); err != nil {
			return err
		}

		if err := tx.Where("id = ? AND avatar_id = ?", versionID, avatarID).First(&activated).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVersionNotFound
			}
			return err
		}

		if err := activateLocked(tx, avatarID, versionID); err != nil {
			return err
		}
		activated.IsActive = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &activated, nil
}

// lockAvatar takes the row lock that serializes activations of one avatar
func lockAvatar(tx *gorm.DB, avatarID, userID uuid.UUID) error {
	var avatar models.Avatar
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ? AND user_id = ?", avatarID, userID).
		First(&avatar).Error
}

// activateLocked must run inside a transaction holding the avatar lock
func activateLocked(tx *gorm.DB, avatarID, versionID uuid.UUID) error {
	err := tx.Model(&models.PromptVersion{}).
		Where("avatar_id = ? AND is_active = ? AND id <> ?", avatarID, true, versionID).
		Update("is_active", false).Error
	if err != nil {
		return err
	}

	result := tx.Model(&models.PromptVersion{}).
		Where("id = ? AND avatar_id = ?", versionID, avatarID).
		Update("is_active", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return ErrVersionNotFound
	}
	return nil
}
