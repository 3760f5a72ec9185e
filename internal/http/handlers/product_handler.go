package handlers

import (
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/log"
	"storefront/internal/media"
	"storefront/internal/services"
	"storefront/internal/validate"
)

const maxGalleryImages = 10

func init() {
	// multipart product fields carry prices as plain strings
	fiber.SetParserDecoder(fiber.ParserConfig{
		IgnoreUnknownKeys: true,
		ZeroEmpty:         true,
		ParserType: []fiber.ParserType{{
			Customtype: decimal.Decimal{},
			Converter: func(s string) reflect.Value {
				d, err := decimal.NewFromString(strings.TrimSpace(s))
				if err != nil {
					return reflect.Value{}
				}
				return reflect.ValueOf(d)
			},
		}},
	})
}

type ProductHandler struct {
	Catalog *services.CatalogService
	Uploads *media.Store
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, size := validate.Page(c.Query("page"), c.Query("pageSize"))
	products, err := h.Catalog.ListProducts(c.UserContext(), page, size)
	if err != nil {
		return respondError(c, "products.list.fail", "Product", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Product")
	if !ok {
		return err
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), domain.ProductID(id))
	if err != nil {
		return respondError(c, "products.get.fail", "Product", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Count(c *fiber.Ctx) error {
	n, err := h.Catalog.CountProducts(c.UserContext())
	if err != nil {
		return respondError(c, "products.count.fail", "Product", err)
	}
	return c.JSON(fiber.Map{"productCount": n})
}

func (h *ProductHandler) Featured(c *fiber.Ctx) error {
	n, ok := validate.Count(c.Params("count"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "count"})
		return fail(c, fiber.StatusBadRequest, "count must be a non-negative integer", nil)
	}
	products, err := h.Catalog.Featured(c.UserContext(), n)
	if err != nil {
		return respondError(c, "products.featured.fail", "Product", err)
	}
	return c.JSON(products)
}

// Create accepts JSON or multipart. A multipart request may carry one
// `image` file; it is checked before anything is written and stored under
// the upload directory. The product's image field is the one the caller sent.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if ok, err := bind(c, &in); !ok {
		return err
	}

	files, ok, err := h.formFiles(c, "image")
	if !ok {
		return err
	}
	if len(files) > 1 {
		return fail(c, fiber.StatusBadRequest, "only one image may be uploaded", nil)
	}
	var stored string
	if len(files) == 1 {
		if stored, err = h.Uploads.Save(files[0]); err != nil {
			return respondError(c, "products.create.upload", "Product", err)
		}
	}

	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		if stored != "" {
			h.discard(c, []string{stored})
		}
		return respondError(c, "products.create.fail", "Product", err)
	}
	fields := map[string]any{"product_id": p.ID}
	if stored != "" {
		fields["upload"] = media.URL(c.BaseURL(), stored)
	}
	log.Audit(c, "products.create", fields)
	return c.JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Product")
	if !ok {
		return err
	}
	var in services.ProductInput
	if ok, err := bind(c, &in); !ok {
		return err
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), domain.ProductID(id), in)
	if err != nil {
		return respondError(c, "products.update.fail", "Product", err)
	}
	log.Audit(c, "products.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Product")
	if !ok {
		return err
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), domain.ProductID(id)); err != nil {
		if isNotFound(err) {
			return fail(c, fiber.StatusNotFound, "Product cannot find", nil)
		}
		return respondError(c, "products.delete.fail", "Product", err)
	}
	log.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted successfully"})
}

// Gallery replaces the product's images with the uploaded `images` files.
// Every file is checked before any is stored.
func (h *ProductHandler) Gallery(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Product")
	if !ok {
		return err
	}
	files, ok, err := h.formFiles(c, "images")
	if !ok {
		return err
	}
	if len(files) > maxGalleryImages {
		return fail(c, fiber.StatusBadRequest, "at most 10 images may be uploaded", nil)
	}
	for _, fh := range files {
		if _, err := h.Uploads.Check(fh); err != nil {
			return respondError(c, "products.gallery.upload", "Product", err)
		}
	}
	if _, err := h.Catalog.GetProduct(c.UserContext(), domain.ProductID(id)); err != nil {
		return respondError(c, "products.gallery.fail", "Product", err)
	}

	names := make([]string, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := h.Uploads.Save(fh)
		if err != nil {
			h.discard(c, names)
			return respondError(c, "products.gallery.upload", "Product", err)
		}
		names = append(names, name)
		urls = append(urls, media.URL(c.BaseURL(), name))
	}
	p, err := h.Catalog.SetGallery(c.UserContext(), domain.ProductID(id), urls)
	if err != nil {
		h.discard(c, names)
		return respondError(c, "products.gallery.fail", "Product", err)
	}
	log.Audit(c, "products.gallery", map[string]any{"product_id": id, "images": len(urls)})
	return c.JSON(p)
}

// discard removes uploads written for a request that then failed.
func (h *ProductHandler) discard(c *fiber.Ctx, names []string) {
	if err := h.Uploads.Remove(names...); err != nil {
		log.Error(c, "products.upload.cleanup", err, map[string]any{"files": len(names)})
	}
}

// formFiles returns the files sent under field; non-multipart requests have
// none. When ok is false the 400 response has already been written.
func (h *ProductHandler) formFiles(c *fiber.Ctx, field string) ([]*multipart.FileHeader, bool, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, true, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		log.Security(c, "validation.fail", map[string]any{"reason": "multipart"})
		return nil, false, fail(c, fiber.StatusBadRequest, "Invalid multipart body", nil)
	}
	return form.File[field], true, nil
}
