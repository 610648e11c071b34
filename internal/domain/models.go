package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Inventory   int             `json:"inventory"`
	SKU         string          `json:"sku"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProductPatch carries a partial product update; nil fields are left alone.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Inventory   *int             `json:"inventory,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Featured    *bool            `json:"featured,omitempty"`
}

type Order struct {
	ID              int             `json:"id"`
	UserID          int             `json:"userId"`
	Status          OrderStatus     `json:"status"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingAddress string          `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"orderId"`
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"` // unit price at order time
}

// NewOrder is the caller-supplied part of an order; the store fills in
// id, defaults and timestamps.
type NewOrder struct {
	UserID          int
	Status          OrderStatus
	Total           decimal.Decimal
	PaymentMethod   string
	PaymentStatus   string
	ShippingAddress string
}

// NewOrderItem is one requested line. A zero Price means "use the current
// product price".
type NewOrderItem struct {
	ProductID int
	Quantity  int
	Price     decimal.Decimal
}

// ProductSnapshot is the denormalized copy of a product kept on a cart line.
type ProductSnapshot struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	Category string          `json:"category"`
	SKU      string          `json:"sku"`
}

type CartItem struct {
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
}

// CartLine is a requested cart entry before the product snapshot is taken.
type CartLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func SnapshotOf(p Product) ProductSnapshot {
	return ProductSnapshot{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		Category: p.Category,
		SKU:      p.SKU,
	}
}
