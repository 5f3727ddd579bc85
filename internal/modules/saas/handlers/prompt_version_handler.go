package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/services"
)

type PromptVersionHandler struct {
	versionService *services.PromptVersionService
}

func NewPromptVersionHandler(versionService *services.PromptVersionService) *PromptVersionHandler {
	return &PromptVersionHandler{versionService: versionService}
}

// ListVersions godoc
// @Summary List prompt versions
// @Description List every prompt version of an avatar, newest first
// @Tags Prompt Versions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Success 200 {array} models.PromptVersion
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/prompt-versions [get]
func (h *PromptVersionHandler) ListVersions(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	versions, err := h.versionService.List(c.UserContext(), avatarID, userID)
	if err != nil {
		return serviceError(c, err, "Failed to list prompt versions")
	}
	return c.JSON(versions)
}

// CreateVersion godoc
// @Summary Create a prompt version
// @Description Save a new numbered version of the avatar's instructions, optionally activating it
// @Tags Prompt Versions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Param version body models.CreatePromptVersionRequest true "Version data"
// @Success 201 {object} models.PromptVersion
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/prompt-versions [post]
func (h *PromptVersionHandler) CreateVersion(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	var req models.CreatePromptVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	version, err := h.versionService.Create(c.UserContext(), avatarID, userID, &req)
	if err != nil {
		return serviceError(c, err, "Failed to create prompt version")
	}
	return c.Status(fiber.StatusCreated).JSON(version)
}

// ActivateVersion godoc
// @Summary Activate a prompt version
// @Description Make one version the avatar's only active version
// @Tags Prompt Versions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Param versionId path string true "Prompt version ID"
// @Success 200 {object} models.PromptVersion
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/prompt-versions/{versionId}/activate [post]
func (h *PromptVersionHandler) ActivateVersion(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	versionID, err := uuid.Parse(c.Params("versionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid version ID",
		})
	}

	version, err := h.versionService.Activate(c.UserContext(), avatarID, userID, versionID)
	if err != nil {
		return serviceError(c, err, "Failed to activate prompt version")
	}
	return c.JSON(version)
}
