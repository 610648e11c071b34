package services

import (
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

type CartService struct {
	Carts *repos.Store
}

func NewCartService(store *repos.Store) *CartService {
	return &CartService{Carts: store}
}

type CartView struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

// View prices the cart from the snapshots taken at the last update.
func (s *CartService) View(userID int) CartView {
	return viewOf(s.Carts.GetUserCart(userID))
}

func (s *CartService) Replace(userID int, lines []domain.CartLine) (CartView, error) {
	items, err := s.Carts.UpdateUserCart(userID, lines)
	if err = settled("cart.update", err); err != nil {
		return CartView{}, err
	}
	return viewOf(items), nil
}

func (s *CartService) Clear(userID int) error {
	return settled("cart.clear", s.Carts.ClearUserCart(userID))
}

func viewOf(items []domain.CartItem) CartView {
	v := CartView{Items: items, Total: decimal.Zero}
	for _, it := range items {
		v.Total = v.Total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		v.Count += it.Quantity
	}
	return v
}
