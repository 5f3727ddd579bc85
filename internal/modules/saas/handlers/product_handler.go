package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/services"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ListProducts godoc
// @Summary List products
// @Description List an avatar's catalog with optional filters (requires authentication)
// @Tags Products
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Param category query string false "Filter by category"
// @Param search query string false "Search name, category, SKU and description"
// @Param include_out_of_stock query bool false "Include out-of-stock products"
// @Param limit query int false "Limit results"
// @Success 200 {array} models.Product
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/products [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	filter := models.ProductFilter{
		AvatarID:          avatarID,
		UserID:            userID,
		Category:          c.Query("category"),
		SearchTerm:        c.Query("search"),
		IncludeOutOfStock: c.QueryBool("include_out_of_stock", false),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	products, err := h.productService.ListProducts(c.UserContext(), filter)
	if err != nil {
		return serviceError(c, err, "Failed to list products")
	}
	return c.JSON(products)
}

// ImportProducts godoc
// @Summary Import products
// @Description Upsert a catalog batch keyed by SKU (requires authentication)
// @Tags Products
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Param products body models.ImportProductsRequest true "Catalog rows"
// @Success 200 {object} models.ImportProductsResult
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/products/import [post]
func (h *ProductHandler) ImportProducts(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	var req models.ImportProductsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.productService.ImportProducts(c.UserContext(), avatarID, userID, &req)
	if err != nil {
		return serviceError(c, err, "Failed to import products")
	}
	return c.JSON(result)
}
