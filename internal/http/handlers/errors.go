package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/validate"
)

const friendlyError = "Something went wrong. Please try again."

// storeError maps a service error to its HTTP response. Unexpected errors
// are logged under action and answered without internals.
func storeError(c *fiber.Ctx, action string, err error) error {
	var inv *repos.InventoryError
	switch {
	case errors.As(err, &inv):
		applog.Warn(c, action+".inventory", map[string]any{
			"product_id": inv.ProductID, "requested": inv.Requested, "available": inv.Available,
		})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "inventory",
			"message":   inv.Error(),
			"productId": inv.ProductID,
			"name":      inv.Name,
			"requested": inv.Requested,
			"available": inv.Available,
		})
	case errors.Is(err, repos.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	case errors.Is(err, repos.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	case errors.Is(err, repos.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": err.Error()})
	default:
		applog.Error(c, action+".fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": friendlyError})
	}
}

// bindJSON decodes the body into out and validates it. On failure the 400
// response is already written and the returned error only short-circuits
// the handler.
func bindJSON(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "bad_body"})
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request_body"})
	}
	if err := validate.Struct(out); err != nil {
		fields := validate.Fields(err)
		applog.Security(c, "validation.fail", map[string]any{"fields": fields})
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "fields": fields})
	}
	return true, nil
}

// idParam reads a positive integer path parameter.
func idParam(c *fiber.Ctx, name string) (int, bool) {
	id, ok := validate.ID(c.Params(name))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": name, "value": c.Params(name)})
	}
	return id, ok
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
}

// ErrorHandler is the app-wide fiber error handler. Client errors keep
// their message; anything else gets the friendly page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	// Avoid leaking internals; best-effort render
	if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
		"Message": friendlyError,
	}); rerr != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(friendlyError)
	}
	return nil
}
