package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/docstore"
	"storefront/internal/identity"
	applog "storefront/internal/log"
	"storefront/internal/media"
	"storefront/internal/services"
	"storefront/internal/validate"
)

const msgInternal = "Something went wrong. Please try again."

// fail writes the error envelope. detail, when non-nil, is exposed to the
// caller and must never be an internal error.
func fail(c *fiber.Ctx, status int, msg string, detail error) error {
	body := fiber.Map{"success": false}
	if msg != "" {
		body["message"] = msg
	}
	if detail != nil {
		body["error"] = detail.Error()
	}
	return c.Status(status).JSON(body)
}

// respondError maps a service error onto a status code. what names the
// resource for not-found messages.
func respondError(c *fiber.Ctx, action, what string, err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, identity.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, what+" not found", nil)
	case errors.Is(err, services.ErrMissingProduct),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, media.ErrInvalidImageType),
		errors.Is(err, identity.ErrEmailExists),
		errors.Is(err, identity.ErrPasswordTooLong):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "error": err.Error()})
		return fail(c, fiber.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrBadCreds):
		return fail(c, fiber.StatusUnauthorized, "Invalid email/password", nil)
	}
	applog.Error(c, action, err, nil)
	return fail(c, fiber.StatusInternalServerError, msgInternal, nil)
}

// bind parses the request body into out and runs its validate tags. When
// ok is false the 400 response has already been written.
func bind(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "body"})
		return false, fail(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := validate.Struct(out); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"error": err.Error()})
		return false, fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	return true, nil
}

// pathID reads and checks the :id parameter; on failure the 404 response
// has already been written.
func pathID(c *fiber.Ctx, what string) (string, bool, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return "", false, fail(c, fiber.StatusNotFound, what+" not found", nil)
	}
	return id, true, nil
}

// ErrorHandler renders errors that escape a handler as the JSON envelope
// without internal details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := msgInternal
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	return fail(c, code, msg, nil)
}

func isNotFound(err error) bool {
	return errors.Is(err, docstore.ErrNotFound) || errors.Is(err, identity.ErrUserNotFound)
}
