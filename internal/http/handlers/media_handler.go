package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
)

type MediaHandler struct {
	Dir string
}

// Serve sends a stored upload, refusing anything that could leave Dir.
func (h *MediaHandler) Serve(c *fiber.Ctx) error {
	path := c.Params("*")
	rawLower := strings.ToLower(path)
	// Block encoded traversal attempts as well as raw .. or null bytes
	if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return c.SendStatus(fiber.StatusNotFound)
	}
	clean := filepath.Clean(path)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return c.SendStatus(fiber.StatusNotFound)
	}
	dir := h.Dir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return c.SendFile(filepath.Join(dir, clean), true)
}
