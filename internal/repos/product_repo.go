package repos

import (
	"sort"
	"strings"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
)

// CreateProduct stores p under a fresh id. SKUs are unique.
func (s *Store) CreateProduct(p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	if p.Name == "" || p.SKU == "" {
		return domain.Product{}, invalid("name and sku are required")
	}
	if p.Price.IsNegative() {
		return domain.Product{}, invalid("price must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skuTaken(p.SKU, 0) {
		return domain.Product{}, fmtConflict("sku", p.SKU)
	}
	p.ID = s.nextProductID
	s.nextProductID++
	p.CreatedAt = s.now()
	setInventory(&p, p.Inventory)
	s.products[p.ID] = p
	return p, s.saveProducts()
}

func (s *Store) GetProduct(id int) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *Store) ListProducts() []domain.Product {
	return s.filterProducts(func(domain.Product) bool { return true })
}

// UpdateProduct applies a partial update. A negative inventory is clamped
// to zero rather than rejected.
func (s *Store) UpdateProduct(id int, patch domain.ProductPatch) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Product{}, invalid("name must not be empty")
		}
		p.Name = name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return domain.Product{}, invalid("price must not be negative")
		}
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.SKU != nil {
		sku := strings.TrimSpace(*patch.SKU)
		if sku == "" {
			return domain.Product{}, invalid("sku must not be empty")
		}
		if s.skuTaken(sku, id) {
			return domain.Product{}, fmtConflict("sku", sku)
		}
		p.SKU = sku
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Inventory != nil {
		setInventory(&p, *patch.Inventory)
	}
	s.products[id] = p
	return p, s.saveProducts()
}

// DeleteProduct reports whether a product with id existed.
func (s *Store) DeleteProduct(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, s.saveProducts()
}

// SearchProducts matches q case-insensitively against name, description
// and category.
func (s *Store) SearchProducts(q string) []domain.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	return s.filterProducts(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q)
	})
}

func (s *Store) GetFeaturedProducts() []domain.Product {
	return s.filterProducts(func(p domain.Product) bool { return p.Featured })
}

func (s *Store) GetProductsByCategoryName(category string) []domain.Product {
	category = strings.TrimSpace(category)
	return s.filterProducts(func(p domain.Product) bool { return strings.EqualFold(p.Category, category) })
}

// ListCategories returns the distinct category names in use, sorted.
func (s *Store) ListCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range s.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// GetLowStockProducts lists products with inventory at or below threshold,
// lowest stock first.
func (s *Store) GetLowStockProducts(threshold int) []domain.Product {
	out := s.filterProducts(func(p domain.Product) bool { return p.Inventory <= threshold })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Inventory < out[j].Inventory })
	return out
}

func (s *Store) filterProducts(keep func(domain.Product) bool) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Product{}
	for _, id := range sortedKeys(s.products) {
		if p := s.products[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) skuTaken(sku string, exceptID int) bool {
	for id, p := range s.products {
		if id != exceptID && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

// setInventory is the single write path for stock levels; it never stores a
// negative count.
func setInventory(p *domain.Product, qty int) {
	if qty < 0 {
		applog.Warn(nil, "store.product.inventory.clamp", map[string]any{
			"product_id": p.ID, "requested": qty,
		})
		qty = 0
	}
	p.Inventory = qty
}
