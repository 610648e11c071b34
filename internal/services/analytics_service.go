package services

import (
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

type AnalyticsService struct {
	Store             *repos.Store
	LowStockThreshold int
}

func NewAnalyticsService(store *repos.Store, lowStock int) *AnalyticsService {
	return &AnalyticsService{Store: store, LowStockThreshold: lowStock}
}

type Totals struct {
	Orders            int             `json:"orders"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	Customers         int             `json:"customers"`
}

type Dashboard struct {
	Period         domain.Period              `json:"period"`
	Totals         Totals                     `json:"totals"`
	Revenue        domain.RevenueStats        `json:"revenue"`
	Categories     []domain.CategoryCount     `json:"categories"`
	TopProducts    []domain.TopProduct        `json:"topProducts"`
	PaymentMethods []domain.PaymentMethodStat `json:"paymentMethods"`
	RecentOrders   []domain.Order             `json:"recentOrders"`
	LowStock       []domain.Product           `json:"lowStock"`
}

func (s *AnalyticsService) Totals(p domain.Period) Totals {
	t := Totals{Revenue: decimal.Zero, AverageOrderValue: decimal.Zero}
	customers := map[int]bool{}
	for _, o := range s.Store.OrdersInPeriod(p) {
		t.Orders++
		t.Revenue = t.Revenue.Add(o.Total)
		customers[o.UserID] = true
	}
	t.Customers = len(customers)
	if t.Orders > 0 {
		t.AverageOrderValue = t.Revenue.Div(decimal.NewFromInt(int64(t.Orders))).Round(2)
	}
	return t
}

// Dashboard bundles every admin widget for one period.
func (s *AnalyticsService) Dashboard(p domain.Period) Dashboard {
	return Dashboard{
		Period:         p,
		Totals:         s.Totals(p),
		Revenue:        s.Store.GetRevenueStats(p),
		Categories:     s.Store.GetCategoryDistribution(p),
		TopProducts:    s.Store.GetTopSellingProducts(5, p),
		PaymentMethods: s.Store.GetPaymentMethodDistribution(p),
		RecentOrders:   s.Store.GetRecentOrders(10, p),
		LowStock:       s.Store.GetLowStockProducts(s.LowStockThreshold),
	}
}

func (s *AnalyticsService) RecentOrders(limit int, p domain.Period) []domain.Order {
	return s.Store.GetRecentOrders(limit, p)
}

// LowStock uses the configured threshold when threshold is negative.
func (s *AnalyticsService) LowStock(threshold int) []domain.Product {
	if threshold < 0 {
		threshold = s.LowStockThreshold
	}
	return s.Store.GetLowStockProducts(threshold)
}

func (s *AnalyticsService) Revenue(p domain.Period) domain.RevenueStats {
	return s.Store.GetRevenueStats(p)
}

func (s *AnalyticsService) Categories(p domain.Period) []domain.CategoryCount {
	return s.Store.GetCategoryDistribution(p)
}

func (s *AnalyticsService) TopProducts(limit int, p domain.Period) []domain.TopProduct {
	return s.Store.GetTopSellingProducts(limit, p)
}

func (s *AnalyticsService) PaymentMethods(p domain.Period) []domain.PaymentMethodStat {
	return s.Store.GetPaymentMethodDistribution(p)
}

// Reset wipes catalog, orders and carts; users stay.
func (s *AnalyticsService) Reset() error {
	return settled("admin.reset", s.Store.ClearAllData())
}
