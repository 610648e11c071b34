package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenuePoint is one bucket of a revenue series.
type RevenuePoint struct {
	Label   string          `json:"label"`
	Start   time.Time       `json:"start"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type RevenueStats struct {
	Daily   []RevenuePoint `json:"daily"`
	Weekly  []RevenuePoint `json:"weekly"`
	Monthly []RevenuePoint `json:"monthly"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type TopProduct struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type PaymentMethodStat struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}
