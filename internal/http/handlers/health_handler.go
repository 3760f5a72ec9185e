package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/docstore"
	"storefront/internal/identity"
	applog "storefront/internal/log"
)

type HealthHandler struct {
	Store docstore.Store
	Users identity.Provider
}

// Check probes both backing services.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.Users.Ping(c.UserContext()); err != nil {
		applog.Error(c, "health.identity.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Identity provider connection failed", nil)
	}
	if err := h.Store.Ping(c.UserContext()); err != nil {
		applog.Error(c, "health.docstore.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Document store connection failed", nil)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Backend connection is successful"})
}
