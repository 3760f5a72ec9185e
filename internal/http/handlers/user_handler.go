package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type UserHandler struct {
	Users *services.UserService
	Auth  *services.AuthService
}

// credentials uses the same email rule as Registration so every account
// that can register can also log in.
type credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		return respondError(c, "users.list.fail", "User", err)
	}
	return c.JSON(users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "User")
	if !ok {
		return err
	}
	u, err := h.Users.Get(c.UserContext(), domain.UserID(id))
	if err != nil {
		return respondError(c, "users.get.fail", "User", err)
	}
	return c.JSON(u)
}

func (h *UserHandler) Count(c *fiber.Ctx) error {
	n, err := h.Users.Count(c.UserContext())
	if err != nil {
		return respondError(c, "users.count.fail", "User", err)
	}
	return c.JSON(fiber.Map{"userCount": n})
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var in services.Registration
	if ok, err := bind(c, &in); !ok {
		return err
	}
	if in.IsAdmin {
		log.Security(c, "auth.register.admin_ignored", map[string]any{"email": in.Email})
	}
	sess, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, "auth.register.fail", "User", err)
	}
	log.Audit(c, "auth.register", map[string]any{"email": sess.User})
	return c.JSON(sess)
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return fail(c, fiber.StatusUnauthorized, "Invalid email/password", nil)
	}
	email := in.Email
	sess, err := h.Auth.Login(c.UserContext(), email, in.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return respondError(c, "auth.login.fail", "User", err)
	}
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(sess)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "User")
	if !ok {
		return err
	}
	if err := h.Users.Delete(c.UserContext(), domain.UserID(id)); err != nil {
		return respondError(c, "users.delete.fail", "User", err)
	}
	log.Audit(c, "users.delete", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}
