package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/services"
)

type PromotionHandler struct {
	promotionService *services.PromotionService
}

func NewPromotionHandler(promotionService *services.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

type validatePromoRequest struct {
	Code string `json:"code"`
}

// ListPromotions godoc
// @Summary List promotions
// @Tags Promotions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Success 200 {array} models.Promotion
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/promotions [get]
func (h *PromotionHandler) ListPromotions(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	promotions, err := h.promotionService.List(c.UserContext(), avatarID, userID)
	if err != nil {
		return serviceError(c, err, "Failed to list promotions")
	}
	return c.JSON(promotions)
}

// CreatePromotion godoc
// @Summary Create a promotion
// @Description Percentage discounts must be within (0, 100]; fixed discounts must be positive
// @Tags Promotions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Param promotion body models.CreatePromotionRequest true "Promotion data"
// @Success 201 {object} models.Promotion
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/promotions [post]
func (h *PromotionHandler) CreatePromotion(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	var req models.CreatePromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	promotion, err := h.promotionService.Create(c.UserContext(), avatarID, userID, &req)
	if err != nil {
		return serviceError(c, err, "Failed to create promotion")
	}
	return c.Status(fiber.StatusCreated).JSON(promotion)
}

// ValidatePromoCode godoc
// @Summary Validate a promo code
// @Description Checks a code the same way the assistant does: active, started, not expired and under its usage cap
// @Tags Promotions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Param request body validatePromoRequest true "Promo code"
// @Success 200 {object} agent.PromoValidation
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/promotions/validate [post]
func (h *PromotionHandler) ValidatePromoCode(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	var req validatePromoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	validation, err := h.promotionService.ValidateCode(c.UserContext(), avatarID, userID, req.Code)
	if err != nil {
		return serviceError(c, err, "Failed to validate promo code")
	}
	return c.JSON(validation)
}
