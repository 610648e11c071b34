package repos

import (
	"fmt"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
)

// GetUserCart returns the user's cart lines; an unknown user has an empty cart.
func (s *Store) GetUserCart(userID int) []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CartItem{}, s.carts[userID]...)
}

// UpdateUserCart replaces the user's cart. Each line gets a fresh snapshot
// of its product. Quantities above current stock are logged but accepted;
// stock is only enforced when the order is placed.
func (s *Store) UpdateUserCart(userID int, lines []domain.CartLine) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	items := make([]domain.CartItem, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, invalid("quantity for product %d must be positive", l.ProductID)
		}
		p, ok := s.products[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, l.ProductID)
		}
		if l.Quantity > p.Inventory {
			applog.Warn(nil, "store.cart.over_inventory", map[string]any{
				"user_id": userID, "product_id": p.ID, "quantity": l.Quantity, "inventory": p.Inventory,
			})
		}
		items = append(items, domain.CartItem{
			ProductID: p.ID,
			Quantity:  l.Quantity,
			Product:   domain.SnapshotOf(p),
		})
	}
	s.carts[userID] = items
	return append([]domain.CartItem{}, items...), s.saveCarts()
}

// ClearUserCart drops the user's cart.
func (s *Store) ClearUserCart(userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[userID]; !ok {
		return nil
	}
	delete(s.carts, userID)
	return s.saveCarts()
}
