package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "shopfront/internal/log"
)

// Limits caps request rates on the abuse-prone routes. Zero fields fall
// back to the production values.
type Limits struct {
	Login        int
	Search       int
	Availability int
}

func (l Limits) orDefault() Limits {
	if l.Login <= 0 {
		l.Login = 5
	}
	if l.Search <= 0 {
		l.Search = 20
	}
	if l.Availability <= 0 {
		l.Availability = 15
	}
	return l
}

// Mount registers every route. Session must already run before it.
func (d *Deps) Mount(app *fiber.App, limits Limits) {
	limits = limits.orDefault()
	api := app.Group("/api")

	// Auth routes (login throttled)
	api.Post("/register", d.AuthHandler.Register)
	api.Post("/login", limiter.New(limiter.Config{
		Max:        limits.Login,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	api.Post("/logout", d.AuthHandler.Logout)
	api.Get("/user", RequireUser(), d.AuthHandler.Me)
	api.Post("/user/password", RequireUser(), d.AuthHandler.ChangePassword)

	// Catalog
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Post("/products", RequireAdmin(), d.ProductHandler.Create)
	api.Put("/products/:id", RequireAdmin(), d.ProductHandler.Update)
	api.Delete("/products/:id", RequireAdmin(), d.ProductHandler.Delete)
	api.Get("/categories", d.CategoryHandler.List)
	api.Get("/categories/:name/products", d.CategoryHandler.Products)
	api.Get("/search", limiter.New(limiter.Config{Max: limits.Search, Expiration: time.Minute}), d.SearchHandler.Search)
	api.Get("/availability", limiter.New(limiter.Config{
		Max:        limits.Availability,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.InventoryHandler.Check)

	// Cart & Orders
	api.Get("/cart", RequireUser(), d.CartHandler.View)
	api.Put("/cart", RequireUser(), d.CartHandler.Replace)
	api.Delete("/cart", RequireUser(), d.CartHandler.Clear)
	api.Post("/orders", RequireUser(), d.OrderHandler.Place)
	api.Get("/orders", RequireUser(), d.OrderHandler.History)
	api.Get("/orders/:id", RequireUser(), d.OrderHandler.View)
	api.Patch("/orders/:id/status", RequireAdmin(), d.OrderHandler.UpdateStatus)

	// Admin API
	admin := api.Group("/admin", RequireAdmin())
	admin.Get("/recent-orders", d.AdminHandler.RecentOrders)
	admin.Get("/low-stock", d.AdminHandler.LowStock)
	admin.Get("/revenue", d.AdminHandler.Revenue)
	admin.Get("/categories", d.AdminHandler.Categories)
	admin.Get("/top-products", d.AdminHandler.TopProducts)
	admin.Get("/payment-methods", d.AdminHandler.PaymentMethods)
	admin.Get("/dashboard", d.AdminHandler.Dashboard)
	admin.Post("/reset", d.AdminHandler.Reset)
	admin.Get("/events", d.EventsHandler.Stream)

	// Admin pages; the form posts carry a CSRF token.
	page := app.Group("/admin", RequireAdminPage(), csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"token_present": c.FormValue("csrf") != ""})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	page.Get("/", d.AdminHandler.Page)
	page.Post("/reset", d.AdminHandler.ResetForm)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
