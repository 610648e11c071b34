package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type InventoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/availability?productId=&qty=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing productId",
		})
	}
	qty := validate.Qty(c.Query("qty"))

	p, err := h.Catalog.Get(id)
	if err != nil {
		return storeError(c, "availability", err)
	}
	return c.JSON(fiber.Map{
		"productId": p.ID,
		"requested": qty,
		"inventory": p.Inventory,
		"available": p.Inventory >= qty,
	})
}
