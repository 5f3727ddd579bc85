package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/agent"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/repositories"
)

type PromotionService struct {
	avatars       *AvatarService
	promotionRepo repositories.PromotionRepo
	now           func() time.Time
}

func NewPromotionService(avatars *AvatarService, promotionRepo repositories.PromotionRepo) *PromotionService {
	return &PromotionService{avatars: avatars, promotionRepo: promotionRepo, now: time.Now}
}

func (s *PromotionService) List(ctx context.Context, avatarID, userID uuid.UUID) ([]models.Promotion, error) {
	if _, err := s.avatars.Get(ctx, avatarID, userID); err != nil {
		return nil, err
	}
	promotions, err := s.promotionRepo.List(ctx, avatarID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

// Create stores a promotion after checking the discount range and scope
func (s *PromotionService) Create(ctx context.Context, avatarID, userID uuid.UUID, req *models.CreatePromotionRequest) (*models.Promotion, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}

	switch req.DiscountType {
	case models.DiscountTypePercentage:
		if req.DiscountValue <= 0 || req.DiscountValue > 100 {
			return nil, invalid("percentage discount_value must be between 0 and 100")
		}
	case models.DiscountTypeFixed:
		if req.DiscountValue <= 0 {
			return nil, invalid("fixed discount_value must be greater than 0")
		}
	default:
		return nil, invalid("discount_type must be %q or %q", models.DiscountTypePercentage, models.DiscountTypeFixed)
	}

	appliesTo := req.AppliesTo
	if appliesTo == "" {
		appliesTo = models.AppliesToAll
	}
	switch appliesTo {
	case models.AppliesToAll:
	case models.AppliesToCategories:
		if len(req.ApplicableCategories) == 0 {
			return nil, invalid("applicable_categories is required when applies_to is %q", appliesTo)
		}
	case models.AppliesToProducts:
		if len(req.ApplicableProductIDs) == 0 {
			return nil, invalid("applicable_product_ids is required when applies_to is %q", appliesTo)
		}
		for _, id := range req.ApplicableProductIDs {
			if _, err := uuid.Parse(id); err != nil {
				return nil, invalid("invalid product id %q", id)
			}
		}
	default:
		return nil, invalid("unknown applies_to %q", appliesTo)
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, invalid("end_date must be after start_date")
	}
	if req.MaxUses != nil && *req.MaxUses < 0 {
		return nil, invalid("max_uses cannot be negative")
	}

	if _, err := s.avatars.Get(ctx, avatarID, userID); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	promotion := &models.Promotion{
		AvatarID:             avatarID,
		UserID:               userID,
		Title:                title,
		Description:          req.Description,
		DiscountType:         req.DiscountType,
		DiscountValue:        req.DiscountValue,
		PromoCode:            strings.TrimSpace(req.PromoCode),
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		MaxUses:              req.MaxUses,
		AppliesTo:            appliesTo,
		ApplicableCategories: req.ApplicableCategories,
		ApplicableProductIDs: req.ApplicableProductIDs,
		ImageURL:             req.ImageURL,
		IsActive:             active,
	}
	if err := s.promotionRepo.Create(ctx, promotion); err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	log.Info().
		Str("avatar_id", avatarID.String()).
		Str("promotion", promotion.Title).
		Str("type", promotion.DiscountType).
		Msg("🏷️ Promotion created")
	return promotion, nil
}

// ValidateCode runs the same promo-code check the assistant uses
func (s *PromotionService) ValidateCode(ctx context.Context, avatarID, userID uuid.UUID, code string) (*agent.PromoValidation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("code is required")
	}

	avatar, err := s.avatars.Get(ctx, avatarID, userID)
	if err != nil {
		return nil, err
	}

	promo, err := s.promotionRepo.FindByCode(ctx, avatarID, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up promo code: %w", err)
	}

	validation := agent.ValidatePromoCode(promo, avatar.PriceVisible, s.now(), nil)
	return &validation, nil
}
