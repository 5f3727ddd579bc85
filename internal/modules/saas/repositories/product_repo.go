package repositories

import (
	"context"
	"strings"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepo interface {
	GetByID(ctx context.Context, avatarID, productID uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Search(ctx context.Context, avatarID uuid.UUID, term string, limit int) ([]models.Product, error)
	ByCategory(ctx context.Context, avatarID uuid.UUID, category string) ([]models.Product, error)
	Categories(ctx context.Context, avatarID uuid.UUID) ([]string, error)
	// UpsertBySKU inserts or updates products keyed by (avatar_id, sku)
	UpsertBySKU(ctx context.Context, products []models.Product) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, avatarID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND avatar_id = ? AND is_active = ?", productID, avatarID, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var products []models.Product

	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("avatar_id = ? AND is_active = ?", filter.AvatarID, true)

	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if !filter.IncludeOutOfStock {
		query = query.Where("in_stock = ?", true)
	}

	if filter.SearchTerm != "" {
		query = withSearchTerm(query, filter.SearchTerm)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("category ASC, name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Search(ctx context.Context, avatarID uuid.UUID, term string, limit int) ([]models.Product, error) {
	return r.List(ctx, models.ProductFilter{
		AvatarID:          avatarID,
		SearchTerm:        term,
		IncludeOutOfStock: true,
		Limit:             limit,
	})
}

func (r *productRepo) ByCategory(ctx context.Context, avatarID uuid.UUID, category string) ([]models.Product, error) {
	return r.List(ctx, models.ProductFilter{
		AvatarID:          avatarID,
		Category:          category,
		IncludeOutOfStock: true,
	})
}

func (r *productRepo) Categories(ctx context.Context, avatarID uuid.UUID) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("avatar_id = ? AND is_active = ? AND category IS NOT NULL AND category <> ''", avatarID, true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepo) UpsertBySKU(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "avatar_id"}, {Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "category", "price", "in_stock",
			"stock_quantity", "image_url", "images", "is_active", "updated_at",
		}),
	}).Create(&products).Error
}

// withSearchTerm matches name, category, SKU and description case-insensitively
func withSearchTerm(query *gorm.DB, term string) *gorm.DB {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	return query.Where(
		"LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(description) LIKE ?",
		pattern, pattern, pattern, pattern,
	)
}
