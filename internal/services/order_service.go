package services

import (
	"context"
	"fmt"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/events"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
)

type OrderService struct {
	Orders *repos.Store
	Events events.Publisher
	Now    func() time.Time
}

func NewOrderService(store *repos.Store, pub events.Publisher) *OrderService {
	return &OrderService{Orders: store, Events: pub, Now: time.Now}
}

// Checkout is a customer's order request. With no Lines the user's cart is
// ordered and cleared once the order is committed.
type Checkout struct {
	Lines           []domain.CartLine
	PaymentMethod   string
	ShippingAddress string
}

type OrderDetail struct {
	Order domain.Order       `json:"order"`
	Items []domain.OrderItem `json:"items"`
}

// Place creates an order for userID. Prices always come from the current
// catalog; inventory is checked and decremented by the store in one step.
func (s *OrderService) Place(ctx context.Context, userID int, in Checkout) (OrderDetail, error) {
	lines, fromCart := in.Lines, false
	if len(lines) == 0 {
		for _, it := range s.Orders.GetUserCart(userID) {
			lines = append(lines, domain.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		fromCart = true
	}
	if len(lines) == 0 {
		return OrderDetail{}, fmt.Errorf("%w: cart is empty", repos.ErrValidation)
	}
	items := make([]domain.NewOrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.NewOrderItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	o, err := s.Orders.CreateOrder(domain.NewOrder{
		UserID:          userID,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
	}, items)
	if err = settled("order.place", err); err != nil {
		return OrderDetail{}, err
	}

	if fromCart {
		if err := settled("order.cart.clear", s.Orders.ClearUserCart(userID)); err != nil {
			applog.Error(nil, "order.cart.clear.fail", err, map[string]any{"order_id": o.ID, "user_id": userID})
		}
	}
	if s.Events != nil {
		if err := s.Events.Publish(ctx, events.OrderCreated(o, s.Now())); err != nil {
			applog.Error(nil, "order.event.publish.fail", err, map[string]any{"order_id": o.ID})
		}
	}
	return OrderDetail{Order: o, Items: s.Orders.GetOrderItemsByOrderID(o.ID)}, nil
}

// Get returns an order with its lines. Orders of other users are reported
// as not found unless the caller is an admin.
func (s *OrderService) Get(viewer domain.User, id int) (OrderDetail, error) {
	o, err := s.Orders.GetOrder(id)
	if err != nil {
		return OrderDetail{}, err
	}
	if o.UserID != viewer.ID && !viewer.IsAdmin {
		return OrderDetail{}, fmt.Errorf("order %d: %w", id, repos.ErrNotFound)
	}
	return OrderDetail{Order: o, Items: s.Orders.GetOrderItemsByOrderID(o.ID)}, nil
}

// List returns the viewer's orders, or every order for an admin; newest first.
func (s *OrderService) List(viewer domain.User) []domain.Order {
	if viewer.IsAdmin {
		return s.Orders.ListOrders()
	}
	return s.Orders.GetOrdersByUserID(viewer.ID)
}

func (s *OrderService) UpdateStatus(id int, raw string) (domain.Order, error) {
	status, err := domain.ParseOrderStatus(raw)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %w", repos.ErrValidation, err)
	}
	o, err := s.Orders.UpdateOrderStatus(id, status)
	return o, settled("order.status", err)
}
