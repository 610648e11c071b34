package repos

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
)

// CreateOrder validates every line against current stock and, only if all
// lines pass, stores the order and its items and decrements inventory.
// Validation and commit share one write lock, so concurrent orders for the
// same product cannot both pass the check and oversell it.
//
// A zero item price is filled from the product; a zero order total is
// computed from the lines.
func (s *Store) CreateOrder(in domain.NewOrder, items []domain.NewOrderItem) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, invalid("order has no items")
	}
	status := in.Status
	if status == "" {
		status = domain.OrderPending
	}
	if !status.Valid() {
		return domain.Order{}, invalid("unknown order status %q", in.Status)
	}
	requested := map[int]int{}
	for _, it := range items {
		if it.Quantity <= 0 {
			return domain.Order{}, invalid("quantity for product %d must be positive", it.ProductID)
		}
		if it.Price.IsNegative() {
			return domain.Order{}, invalid("price for product %d must not be negative", it.ProductID)
		}
		requested[it.ProductID] += it.Quantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validation pass: nothing is mutated until every product checks out.
	for _, it := range items {
		p, ok := s.products[it.ProductID]
		if !ok {
			return domain.Order{}, fmt.Errorf("%w: id %d", ErrProductNotFound, it.ProductID)
		}
		if p.Inventory < requested[it.ProductID] {
			return domain.Order{}, &InventoryError{
				ProductID: p.ID,
				Name:      p.Name,
				Requested: requested[it.ProductID],
				Available: p.Inventory,
			}
		}
	}

	// Commit pass.
	order := domain.Order{
		ID:              s.nextOrderID,
		UserID:          in.UserID,
		Status:          status,
		Total:           in.Total,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   in.PaymentStatus,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       s.now(),
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentPending
	}
	s.nextOrderID++

	total := decimal.Zero
	for _, it := range items {
		p := s.products[it.ProductID]
		price := it.Price
		if price.IsZero() {
			price = p.Price
		}
		item := domain.OrderItem{
			ID:        s.nextOrderItemID,
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     price,
		}
		s.nextOrderItemID++
		s.orderItems[item.ID] = item
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))

		setInventory(&p, p.Inventory-it.Quantity)
		s.products[p.ID] = p
	}
	if order.Total.IsZero() {
		order.Total = total
	}
	s.orders[order.ID] = order

	return order, errors.Join(s.saveProducts(), s.saveOrders())
}

func (s *Store) GetOrder(id int) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	return o, nil
}

// ListOrders returns every order, newest first.
func (s *Store) ListOrders() []domain.Order {
	return s.filterOrders(func(domain.Order) bool { return true })
}

func (s *Store) GetOrdersByUserID(userID int) []domain.Order {
	return s.filterOrders(func(o domain.Order) bool { return o.UserID == userID })
}

func (s *Store) GetOrderItemsByOrderID(orderID int) []domain.OrderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.OrderItem{}
	for _, id := range sortedKeys(s.orderItems) {
		if it := s.orderItems[id]; it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

// UpdateOrderStatus overwrites the status. Any status may follow any other.
func (s *Store) UpdateOrderStatus(id int, status domain.OrderStatus) (domain.Order, error) {
	status = domain.OrderStatus(strings.ToLower(string(status)))
	if !status.Valid() {
		return domain.Order{}, invalid("unknown order status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	o.Status = status
	s.orders[id] = o
	return o, s.saveOrders()
}

func (s *Store) filterOrders(keep func(domain.Order) bool) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Order{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}
