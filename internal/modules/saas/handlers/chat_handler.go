package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/agent"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/auth"
)

// TurnHandler is the orchestrator entry point
type TurnHandler interface {
	HandleTurn(ctx context.Context, caller agent.Caller, req *agent.ChatRequest) (*agent.ChatResponse, error)
}

type ChatHandler struct {
	engine TurnHandler
}

func NewChatHandler(engine TurnHandler) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// Chat godoc
// @Summary Send a message to an avatar
// @Description Runs one conversational turn: context retrieval, tool calls against the catalog and a final reply
// @Tags Chat
// @Accept json
// @Produce json
// @Param x-api-key header string true "Platform API key, or test-mode with a Bearer session token"
// @Param Authorization header string false "Bearer token (test-mode only)"
// @Param request body agent.ChatRequest true "Chat turn"
// @Success 200 {object} agent.ChatResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /functions/v1/avatar-chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req agent.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	caller := agent.Caller{
		UserID:             principal.UserID,
		APIKeyID:           principal.APIKeyID,
		RestrictedAvatarID: principal.RestrictedAvatarID,
		Endpoint:           c.Path(),
		Method:             c.Method(),
	}

	resp, err := h.engine.HandleTurn(c.UserContext(), caller, &req)
	if err != nil {
		status := agent.StatusOf(err)
		var agentErr *agent.Error
		if errors.As(err, &agentErr) {
			if status >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("avatar_id", req.AvatarID).Msg("❌ Chat turn failed")
			}
			return c.Status(status).JSON(fiber.Map{"error": agentErr.Error()})
		}

		log.Error().Err(err).Str("avatar_id", req.AvatarID).Msg("❌ Chat turn failed")
		return c.Status(status).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(resp)
}
