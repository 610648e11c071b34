package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
	"shopfront/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type placeOrderRequest struct {
	// Empty means "order the cart".
	Items           []cartLine `json:"items" validate:"omitempty,dive"`
	PaymentMethod   string     `json:"paymentMethod" validate:"omitempty,max=50"`
	ShippingAddress string     `json:"shippingAddress" validate:"omitempty,max=500"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// POST /api/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	var req placeOrderRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	d, err := h.Orders.Place(c.UserContext(), u.ID, services.Checkout{
		Lines:           toLines(req.Items),
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return storeError(c, "order.place", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": d.Order.ID,
		"total":    d.Order.Total.StringFixed(2),
		"lines":    len(d.Items),
	})
	c.Location("/api/orders/" + strconv.Itoa(d.Order.ID))
	return c.Status(fiber.StatusCreated).JSON(d)
}

// GET /api/orders lists the caller's orders; admins see every order.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	return c.JSON(h.Orders.List(u))
}

// GET /api/orders/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c)
	}
	d, err := h.Orders.Get(u, id)
	if err != nil {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		return storeError(c, "order.view", err)
	}
	return c.JSON(d)
}

// PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c)
	}
	var req statusRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	o, err := h.Orders.UpdateStatus(id, req.Status)
	if err != nil {
		return storeError(c, "admin.orders.update", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": o.Status})
	return c.JSON(o)
}
