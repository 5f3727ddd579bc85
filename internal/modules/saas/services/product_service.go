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

const maxImportBatch = 1000

type ProductService struct {
	avatars     *AvatarService
	productRepo repositories.ProductRepo
}

func NewProductService(avatars *AvatarService, productRepo repositories.ProductRepo) *ProductService {
	return &ProductService{
		avatars:     avatars,
		productRepo: productRepo,
	}
}

// ListProducts lists an avatar's active catalog
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if _, err := s.avatars.Get(ctx, filter.AvatarID, filter.UserID); err != nil {
		return nil, err
	}
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ImportProducts upserts a catalog batch keyed by SKU. Invalid rows are
// skipped and reported; a repeated SKU in one batch keeps the last row.
func (s *ProductService) ImportProducts(ctx context.Context, avatarID, userID uuid.UUID, req *models.ImportProductsRequest) (*models.ImportProductsResult, error) {
	if len(req.Products) == 0 {
		return nil, invalid("products must not be empty")
	}
	if len(req.Products) > maxImportBatch {
		return nil, invalid("at most %d products per import", maxImportBatch)
	}
	if _, err := s.avatars.Get(ctx, avatarID, userID); err != nil {
		return nil, err
	}

	result := &models.ImportProductsResult{}
	bySKU := make(map[string]int)
	var products []models.Product

	for i, item := range req.Products {
		sku := strings.TrimSpace(item.SKU)
		name := strings.TrimSpace(item.Name)
		switch {
		case sku == "":
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: sku is required", i+1))
			continue
		case name == "":
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): name is required", i+1, sku))
			continue
		case item.Price < 0:
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): price cannot be negative", i+1, sku))
			continue
		}

		inStock := true
		if item.InStock != nil {
			inStock = *item.InStock
		}

		product := models.Product{
			AvatarID:      avatarID,
			UserID:        userID,
			SKU:           sku,
			Name:          name,
			Description:   item.Description,
			Category:      strings.TrimSpace(item.Category),
			Price:         item.Price,
			InStock:       inStock,
			StockQuantity: item.StockQuantity,
			ImageURL:      item.ImageURL,
			Images:        item.Images,
			IsActive:      true,
		}

		if idx, dup := bySKU[sku]; dup {
			products[idx] = product
			result.Skipped++
			continue
		}
		bySKU[sku] = len(products)
		products = append(products, product)
	}

	if err := s.productRepo.UpsertBySKU(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to import products: %w", err)
	}
	result.Imported = len(products)

	log.Info().
		Str("avatar_id", avatarID.String()).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("📦 Product catalog imported")
	return result, nil
}
