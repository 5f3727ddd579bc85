package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/services"
)

type KnowledgeHandler struct {
	knowledgeService *services.KnowledgeService
}

func NewKnowledgeHandler(knowledgeService *services.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService}
}

// ListFiles godoc
// @Summary List knowledge files
// @Tags Knowledge
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Success 200 {array} models.KnowledgeFile
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/knowledge-files [get]
func (h *KnowledgeHandler) ListFiles(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	files, err := h.knowledgeService.ListFiles(c.UserContext(), avatarID, userID)
	if err != nil {
		return serviceError(c, err, "Failed to list knowledge files")
	}
	return c.JSON(files)
}

// RegisterFile godoc
// @Summary Register a knowledge file
// @Description Stores extracted text as a pending file; the ingestion job chunks and embeds it
// @Tags Knowledge
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Param file body models.CreateKnowledgeFileRequest true "Extracted document"
// @Success 202 {object} models.KnowledgeFile
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/knowledge-files [post]
func (h *KnowledgeHandler) RegisterFile(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	var req models.CreateKnowledgeFileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	file, err := h.knowledgeService.RegisterFile(c.UserContext(), avatarID, userID, &req)
	if err != nil {
		return serviceError(c, err, "Failed to register knowledge file")
	}
	return c.Status(fiber.StatusAccepted).JSON(file)
}
