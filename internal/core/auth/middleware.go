package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const principalKey = "principal"

// ChatAuth accepts either x-api-key or, with x-api-key: test-mode, a Bearer session token
func ChatAuth(authn *Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := strings.TrimSpace(c.Get("x-api-key"))
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing API key",
			})
		}

		if apiKey == TestModeKey {
			return sessionAuth(c, authn)
		}

		principal, err := authn.AuthenticateAPIKey(c.UserContext(), apiKey)
		if err != nil {
			if errors.Is(err, ErrMissingScope) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			if isCredentialError(err) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			log.Error().Err(err).Msg("❌ API key lookup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to verify API key",
			})
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// SessionAuth guards dashboard routes with a Bearer session token
func SessionAuth(authn *Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return sessionAuth(c, authn)
	}
}

func sessionAuth(c *fiber.Ctx, authn *Authenticator) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing authorization header",
		})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format. Use: Bearer <token>",
		})
	}

	principal, err := authn.AuthenticateSession(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFrom returns the caller stored by ChatAuth or SessionAuth
func PrincipalFrom(c *fiber.Ctx) (*Principal, bool) {
	p, ok := c.Locals(principalKey).(*Principal)
	return p, ok && p != nil
}

func isCredentialError(err error) bool {
	return errors.Is(err, ErrInvalidAPIKey) ||
		errors.Is(err, ErrAPIKeyInactive) ||
		errors.Is(err, ErrAPIKeyExpired)
}
