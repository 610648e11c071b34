package handlers

import (
	"shopfront/internal/config"
	"shopfront/internal/events"
	"shopfront/internal/repos"
	"shopfront/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	ProductHandler   *ProductHandler
	CategoryHandler  *CategoryHandler
	SearchHandler    *SearchHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	AdminHandler     *AdminHandler
	EventsHandler    *EventsHandler
}

// NewDeps wires services and handlers over one store. Order-created events
// go to the broker and, when set, to extra publishers such as SQS.
func NewDeps(store *repos.Store, sessions *repos.SessionRepo, cfg config.Config, broker *events.Broker, extra ...events.Publisher) *Deps {
	authSvc := services.NewAuthService(store, sessions)
	catalogSvc := services.NewCatalogService(store)
	cartSvc := services.NewCartService(store)
	orderSvc := services.NewOrderService(store, append(events.Multi{broker}, extra...))
	analyticsSvc := services.NewAnalyticsService(store, cfg.LowStockThreshold)

	return &Deps{
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Orders: orderSvc},
		AdminHandler:     &AdminHandler{Analytics: analyticsSvc},
		EventsHandler:    &EventsHandler{Broker: broker},
	}
}
