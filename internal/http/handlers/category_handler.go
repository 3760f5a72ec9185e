package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/log"
	"storefront/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, "categories.list.fail", "Category", err)
	}
	return c.JSON(cats)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Category")
	if !ok {
		return err
	}
	cat, err := h.Catalog.GetCategory(c.UserContext(), domain.CategoryID(id))
	if err != nil {
		return respondError(c, "categories.get.fail", "Category", err)
	}
	return c.JSON(cat)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in services.CategoryInput
	if ok, err := bind(c, &in); !ok {
		return err
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), in)
	if err != nil {
		return respondError(c, "categories.create.fail", "Category", err)
	}
	log.Audit(c, "categories.create", map[string]any{"category_id": cat.ID})
	return c.JSON(cat)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Category")
	if !ok {
		return err
	}
	var in services.CategoryInput
	if ok, err := bind(c, &in); !ok {
		return err
	}
	cat, err := h.Catalog.UpdateCategory(c.UserContext(), domain.CategoryID(id), in)
	if err != nil {
		return respondError(c, "categories.update.fail", "Category", err)
	}
	log.Audit(c, "categories.update", map[string]any{"category_id": id})
	return c.JSON(cat)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Category")
	if !ok {
		return err
	}
	if err := h.Catalog.DeleteCategory(c.UserContext(), domain.CategoryID(id)); err != nil {
		return respondError(c, "categories.delete.fail", "Category", err)
	}
	log.Audit(c, "categories.delete", map[string]any{"category_id": id})
	return c.JSON(fiber.Map{"success": true, "message": "The category is deleted"})
}
