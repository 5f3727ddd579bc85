package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/auth"
)

// Handlers groups every HTTP handler of the saas module
type Handlers struct {
	Chat          *ChatHandler
	PromptVersion *PromptVersionHandler
	Product       *ProductHandler
	Promotion     *PromotionHandler
	Avatar        *AvatarHandler
	Knowledge     *KnowledgeHandler
	Health        *HealthHandler
}

// RegisterRoutes mounts the chat endpoint and the session-guarded dashboard routes
func RegisterRoutes(app *fiber.App, h Handlers, authn *auth.Authenticator) {
	if h.Health != nil {
		app.Get("/health", h.Health.GetHealth)
	}

	// Chat routes
	chatAuth := auth.ChatAuth(authn)
	app.Post("/functions/v1/avatar-chat", chatAuth, h.Chat.Chat)
	app.Post("/v1/chat", chatAuth, h.Chat.Chat)

	// Dashboard routes
	avatars := app.Group("/avatars", auth.SessionAuth(authn))

	avatars.Delete("/:id", h.Avatar.TrashAvatar)
	avatars.Post("/:id/restore", h.Avatar.RestoreAvatar)

	avatars.Get("/:id/prompt-versions", h.PromptVersion.ListVersions)
	avatars.Post("/:id/prompt-versions", h.PromptVersion.CreateVersion)
	avatars.Post("/:id/prompt-versions/:versionId/activate", h.PromptVersion.ActivateVersion)

	avatars.Get("/:id/products", h.Product.ListProducts)
	avatars.Post("/:id/products/import", h.Product.ImportProducts)

	avatars.Get("/:id/promotions", h.Promotion.ListPromotions)
	avatars.Post("/:id/promotions", h.Promotion.CreatePromotion)
	avatars.Post("/:id/promotions/validate", h.Promotion.ValidatePromoCode)

	avatars.Get("/:id/knowledge-files", h.Knowledge.ListFiles)
	avatars.Post("/:id/knowledge-files", h.Knowledge.RegisterFile)
}
