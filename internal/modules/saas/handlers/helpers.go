package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/services"
)

// ownerAndAvatar reads the session user and the :id avatar param.
// When ok is false the error response has already been written.
func ownerAndAvatar(c *fiber.Ctx) (userID, avatarID uuid.UUID, ok bool) {
	principal, found := auth.PrincipalFrom(c)
	if !found {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
		return uuid.Nil, uuid.Nil, false
	}

	avatarID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid avatar ID",
		})
		return uuid.Nil, uuid.Nil, false
	}
	return principal.UserID, avatarID, true
}

// serviceError answers with the status class of a service error
func serviceError(c *fiber.Ctx, err error, action string) error {
	switch {
	case services.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case services.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("❌ " + action)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": action,
	})
}
