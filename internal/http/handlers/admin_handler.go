package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
)

type AdminHandler struct {
	Analytics *services.AnalyticsService
}

// periodParam reads ?period=, defaulting to all orders. An unknown period
// is answered with 400 and ok=false.
func periodParam(c *fiber.Ctx) (domain.Period, bool) {
	raw := c.Query("period")
	if raw == "" {
		return domain.PeriodAll, true
	}
	p, err := domain.ParsePeriod(raw)
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "period", "value": raw})
		return "", false
	}
	return p, true
}

func badPeriod(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "period must be one of daily, weekly, monthly, yearly, all",
	})
}

// limitParam clamps ?limit= to [1, 100].
func limitParam(c *fiber.Ctx, def int) int {
	n := c.QueryInt("limit", def)
	if n < 1 {
		return def
	}
	return min(n, 100)
}

// GET /api/admin/recent-orders
func (h *AdminHandler) RecentOrders(c *fiber.Ctx) error {
	p, ok := periodParam(c)
	if !ok {
		return badPeriod(c)
	}
	return c.JSON(h.Analytics.RecentOrders(limitParam(c, 10), p))
}

// GET /api/admin/low-stock?threshold=
func (h *AdminHandler) LowStock(c *fiber.Ctx) error {
	return c.JSON(h.Analytics.LowStock(c.QueryInt("threshold", -1)))
}

// GET /api/admin/revenue
func (h *AdminHandler) Revenue(c *fiber.Ctx) error {
	p, ok := periodParam(c)
	if !ok {
		return badPeriod(c)
	}
	return c.JSON(h.Analytics.Revenue(p))
}

// GET /api/admin/categories
func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	p, ok := periodParam(c)
	if !ok {
		return badPeriod(c)
	}
	return c.JSON(h.Analytics.Categories(p))
}

// GET /api/admin/top-products
func (h *AdminHandler) TopProducts(c *fiber.Ctx) error {
	p, ok := periodParam(c)
	if !ok {
		return badPeriod(c)
	}
	return c.JSON(h.Analytics.TopProducts(limitParam(c, 5), p))
}

// GET /api/admin/payment-methods
func (h *AdminHandler) PaymentMethods(c *fiber.Ctx) error {
	p, ok := periodParam(c)
	if !ok {
		return badPeriod(c)
	}
	return c.JSON(h.Analytics.PaymentMethods(p))
}

// GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	p, ok := periodParam(c)
	if !ok {
		return badPeriod(c)
	}
	return c.JSON(h.Analytics.Dashboard(p))
}

// POST /api/admin/reset
func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	if err := h.Analytics.Reset(); err != nil {
		return storeError(c, "admin.reset", err)
	}
	applog.Audit(c, "admin.reset", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// GET /admin
func (h *AdminHandler) Page(c *fiber.Ctx) error {
	p, ok := periodParam(c)
	if !ok {
		p = domain.PeriodAll
	}
	return render(c, "admin_dashboard", fiber.Map{
		"Dashboard": h.Analytics.Dashboard(p),
		"Periods":   []domain.Period{domain.PeriodDaily, domain.PeriodWeekly, domain.PeriodMonthly, domain.PeriodYearly, domain.PeriodAll},
	})
}

// POST /admin/reset, behind the CSRF check.
func (h *AdminHandler) ResetForm(c *fiber.Ctx) error {
	if err := h.Analytics.Reset(); err != nil {
		applog.Error(c, "admin.reset.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not reset data"})
	}
	applog.Audit(c, "admin.reset", map[string]any{"via": "form"})
	return c.Redirect("/admin")
}
