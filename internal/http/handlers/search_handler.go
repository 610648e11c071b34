package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/log"
	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// productQuery reads search, category and featured from the query string.
// A search term outside the allowed characters is rejected.
func productQuery(c *fiber.Ctx) (services.ProductQuery, bool) {
	var q services.ProductQuery
	raw := c.Query("search", c.Query("q"))
	if strings.TrimSpace(raw) != "" {
		s, ok := validate.Q(raw)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "search", "value": raw})
			return q, false
		}
		q.Search = s
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		name, ok := validate.Name(cat)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return q, false
		}
		q.Category = name
	}
	q.Featured = c.QueryBool("featured", false)
	return q, true
}

// GET /api/search?q=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	if strings.TrimSpace(c.Query("q")) == "" {
		return c.JSON(fiber.Map{"q": "", "products": []any{}, "count": 0})
	}
	q, ok := productQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Enter a valid keyword (letters/numbers only)"})
	}
	products := h.Catalog.List(q)
	return c.JSON(fiber.Map{"q": q.Search, "category": q.Category, "products": products, "count": len(products)})
}
