package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/services"
)

type AvatarHandler struct {
	avatarService *services.AvatarService
}

func NewAvatarHandler(avatarService *services.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService}
}

// TrashAvatar godoc
// @Summary Move an avatar to the trash
// @Description Trashed avatars stop answering and are purged after the retention period
// @Tags Avatars
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id} [delete]
func (h *AvatarHandler) TrashAvatar(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	if err := h.avatarService.Trash(c.UserContext(), avatarID, userID); err != nil {
		return serviceError(c, err, "Failed to trash avatar")
	}
	return c.JSON(fiber.Map{
		"message": "Avatar moved to trash",
	})
}

// RestoreAvatar godoc
// @Summary Restore a trashed avatar
// @Tags Avatars
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Avatar ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /avatars/{id}/restore [post]
func (h *AvatarHandler) RestoreAvatar(c *fiber.Ctx) error {
	userID, avatarID, ok := ownerAndAvatar(c)
	if !ok {
		return nil
	}

	if err := h.avatarService.Restore(c.UserContext(), avatarID, userID); err != nil {
		return serviceError(c, err, "Failed to restore avatar")
	}
	return c.JSON(fiber.Map{
		"message": "Avatar restored",
	})
}
