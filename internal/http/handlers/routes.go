package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "storefront/internal/log"
	"storefront/internal/media"
)

// Mount registers every route on app: uploads and liveness at the root,
// the resource API under cfg.APIURL.
func (d *Deps) Mount(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get(strings.TrimSuffix(media.URLPath, "/")+"/*", d.MediaHandler.Serve)

	api := app.Group(d.cfg.APIURL, Authenticate(d.Tokens))

	p := api.Group("/products")
	p.Get("/", d.ProductHandler.List)
	p.Get("/get/count", d.ProductHandler.Count)
	p.Get("/get/featured/:count", d.ProductHandler.Featured)
	p.Put("/gallery-images/:id", d.ProductHandler.Gallery)
	p.Get("/:id", d.ProductHandler.Get)
	p.Post("/", d.ProductHandler.Create)
	p.Put("/:id", d.ProductHandler.Update)
	p.Delete("/:id", d.ProductHandler.Delete)

	cat := api.Group("/categories")
	cat.Get("/", d.CategoryHandler.List)
	cat.Get("/:id", d.CategoryHandler.Get)
	cat.Post("/", d.CategoryHandler.Create)
	cat.Put("/:id", d.CategoryHandler.Update)
	cat.Delete("/:id", d.CategoryHandler.Delete)

	u := api.Group("/users")
	u.Get("/", d.UserHandler.List)
	u.Get("/get/count", d.UserHandler.Count)
	u.Get("/:id", d.UserHandler.Get)
	u.Post("/register", d.UserHandler.Register)
	u.Post("/login", d.loginLimiter(), d.UserHandler.Login)
	u.Delete("/:id", d.UserHandler.Delete)

	o := api.Group("/orders")
	o.Get("/", d.OrderHandler.List)
	o.Get("/:id", d.OrderHandler.Get)
	o.Post("/", d.OrderHandler.Create)
	o.Put("/:id", d.OrderHandler.Update)
	o.Delete("/:id", d.OrderHandler.Delete)

	api.Get("/checkFirebaseConnection", d.HealthHandler.Check)
}

func (d *Deps) loginLimiter() fiber.Handler {
	if d.cfg.LoginRateLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        d.cfg.LoginRateLimit,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return fail(c, fiber.StatusTooManyRequests, "Too many attempts. Please try again later.", nil)
		},
	})
}
