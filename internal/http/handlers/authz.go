package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

// Authenticate attaches the claims of a valid bearer token to the request.
// Requests without a token, or with a bad one, still proceed.
func Authenticate(tokens *services.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		raw, found := strings.CutPrefix(h, "Bearer ")
		if !found || raw == "" {
			return c.Next()
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			applog.Security(c, "auth.token.invalid", map[string]any{"error": err.Error()})
			return c.Next()
		}
		c.Locals("userID", claims.UserID)
		c.Locals("claims", claims)
		return c.Next()
	}
}
