package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.Categories())
}

// GET /api/categories/:name/products
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("name"))
	name, ok := validate.Name(raw)
	if err != nil || !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
	}
	return c.JSON(h.Catalog.List(services.ProductQuery{Category: name}))
}
