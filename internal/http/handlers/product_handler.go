package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type productRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl" validate:"omitempty,max=500"`
	Category    string          `json:"category" validate:"required,max=100"`
	Inventory   int             `json:"inventory" validate:"min=0"`
	SKU         string          `json:"sku" validate:"required,sku"`
	Featured    bool            `json:"featured"`
}

type productPatchRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,max=500"`
	Category    *string          `json:"category" validate:"omitempty,min=1,max=100"`
	// Negative values are clamped to zero by the store.
	Inventory *int    `json:"inventory"`
	SKU       *string `json:"sku" validate:"omitempty,sku"`
	Featured  *bool   `json:"featured"`
}

// GET /api/products?search=&category=&featured=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q, ok := productQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Enter a valid keyword (letters/numbers only)"})
	}
	return c.JSON(h.Catalog.List(q))
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c)
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return storeError(c, "product.get", err)
	}
	return c.JSON(p)
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	p, err := h.Catalog.Create(domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    strings.TrimSpace(req.Category),
		Inventory:   req.Inventory,
		SKU:         req.SKU,
		Featured:    req.Featured,
	})
	if err != nil {
		return storeError(c, "admin.product.create", err)
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product_id": p.ID, "sku": p.SKU})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c)
	}
	var req productPatchRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	p, err := h.Catalog.Update(id, domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Inventory:   req.Inventory,
		SKU:         req.SKU,
		Featured:    req.Featured,
	})
	if err != nil {
		return storeError(c, "admin.product.update", err)
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": id, "inventory": p.Inventory})
	return c.JSON(p)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c)
	}
	if err := h.Catalog.Delete(id); err != nil {
		return storeError(c, "admin.product.delete", err)
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
