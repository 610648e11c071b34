package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartLine struct {
	ProductID int `json:"productId" validate:"required,min=1"`
	Quantity  int `json:"quantity" validate:"required,min=1,max=1000"`
}

type cartRequest struct {
	Items []cartLine `json:"items" validate:"dive"`
}

func toLines(in []cartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(in))
	for _, l := range in {
		out = append(out, domain.CartLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

// GET /api/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	return c.JSON(h.Cart.View(u.ID))
}

// PUT /api/cart replaces the whole cart.
func (h *CartHandler) Replace(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	var req cartRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	cv, err := h.Cart.Replace(u.ID, toLines(req.Items))
	if err != nil {
		return storeError(c, "cart.update", err)
	}
	applog.Info(c, "cart.update", map[string]any{"lines": len(cv.Items), "units": cv.Count})
	return c.JSON(cv)
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	if err := h.Cart.Clear(u.ID); err != nil {
		return storeError(c, "cart.clear", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
