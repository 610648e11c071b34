package repos

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
)

// ordersIn returns the orders created at or after the period's start.
// Callers hold s.mu.
func (s *Store) ordersIn(p domain.Period) []domain.Order {
	start, filtered := p.Start(s.now())
	out := []domain.Order{}
	for _, o := range s.orders {
		if filtered && o.CreatedAt.Before(start) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// OrdersInPeriod returns the period's orders, newest first.
func (s *Store) OrdersInPeriod(p domain.Period) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.ordersIn(p)
	sortNewestFirst(out)
	return out
}

// GetRecentOrders returns at most limit orders from the period, newest
// first. A non-positive limit returns all of them.
func (s *Store) GetRecentOrders(limit int, p domain.Period) []domain.Order {
	out := s.OrdersInPeriod(p)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// itemsFor collects the line items of the given orders. Callers hold s.mu.
func (s *Store) itemsFor(orders []domain.Order) []domain.OrderItem {
	ids := make(map[int]bool, len(orders))
	for _, o := range orders {
		ids[o.ID] = true
	}
	out := []domain.OrderItem{}
	for _, id := range sortedKeys(s.orderItems) {
		if it := s.orderItems[id]; ids[it.OrderID] {
			out = append(out, it)
		}
	}
	return out
}

type revenueSeries map[string]*domain.RevenuePoint

func (r revenueSeries) add(label string, start time.Time, amount decimal.Decimal) {
	pt, ok := r[label]
	if !ok {
		pt = &domain.RevenuePoint{Label: label, Start: start, Revenue: decimal.Zero}
		r[label] = pt
	}
	pt.Revenue = pt.Revenue.Add(amount)
	pt.Orders++
}

func (r revenueSeries) sorted() []domain.RevenuePoint {
	out := make([]domain.RevenuePoint, 0, len(r))
	for _, pt := range r {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// GetRevenueStats buckets order totals by day, by week of year and by
// month, all at once. Orders with a non-positive total or no timestamp are
// skipped.
func (s *Store) GetRevenueStats(p domain.Period) domain.RevenueStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc := s.now().Location()
	daily, weekly, monthly := revenueSeries{}, revenueSeries{}, revenueSeries{}
	for _, o := range s.ordersIn(p) {
		if !o.Total.IsPositive() || o.CreatedAt.IsZero() {
			continue
		}
		t := o.CreatedAt.In(loc)
		y, m, d := t.Date()

		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		daily.add(day.Format("2006-01-02"), day, o.Total)

		week := (t.YearDay()-1)/7 + 1
		weekStart := time.Date(y, time.January, 1, 0, 0, 0, 0, loc).AddDate(0, 0, (week-1)*7)
		weekly.add(fmt.Sprintf("%d-W%02d", y, week), weekStart, o.Total)

		month := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		monthly.add(month.Format("January 2006"), month, o.Total)
	}
	return domain.RevenueStats{
		Daily:   daily.sorted(),
		Weekly:  weekly.sorted(),
		Monthly: monthly.sorted(),
	}
}

// GetCategoryDistribution sums ordered quantities per product category.
// Lines whose product has since been deleted count as "unknown".
func (s *Store) GetCategoryDistribution(p domain.Period) []domain.CategoryCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int{}
	for _, it := range s.itemsFor(s.ordersIn(p)) {
		category := "unknown"
		if prod, ok := s.products[it.ProductID]; ok && prod.Category != "" {
			category = prod.Category
		}
		counts[category] += it.Quantity
	}
	out := make([]domain.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, domain.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// GetTopSellingProducts ranks products by units sold in the period. Deleted
// products are left out.
func (s *Store) GetTopSellingProducts(limit int, p domain.Period) []domain.TopProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byProduct := map[int]*domain.TopProduct{}
	for _, it := range s.itemsFor(s.ordersIn(p)) {
		prod, ok := s.products[it.ProductID]
		if !ok {
			continue
		}
		tp, ok := byProduct[it.ProductID]
		if !ok {
			tp = &domain.TopProduct{ProductID: prod.ID, Name: prod.Name, Category: prod.Category, Revenue: decimal.Zero}
			byProduct[it.ProductID] = tp
		}
		tp.Quantity += it.Quantity
		tp.Revenue = tp.Revenue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	out := make([]domain.TopProduct, 0, len(byProduct))
	for _, tp := range byProduct {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetPaymentMethodDistribution counts orders and sums totals per payment
// method; orders without one are grouped under "unknown".
func (s *Store) GetPaymentMethodDistribution(p domain.Period) []domain.PaymentMethodStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byMethod := map[string]*domain.PaymentMethodStat{}
	for _, o := range s.ordersIn(p) {
		method := o.PaymentMethod
		if method == "" {
			method = "unknown"
		}
		st, ok := byMethod[method]
		if !ok {
			st = &domain.PaymentMethodStat{Method: method, Total: decimal.Zero}
			byMethod[method] = st
		}
		st.Count++
		st.Total = st.Total.Add(o.Total)
	}
	out := make([]domain.PaymentMethodStat, 0, len(byMethod))
	for _, st := range byMethod {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Method < out[j].Method
	})
	return out
}
