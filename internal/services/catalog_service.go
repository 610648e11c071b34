package services

import (
	"strings"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

type CatalogService struct {
	Prods *repos.Store
}

func NewCatalogService(store *repos.Store) *CatalogService {
	return &CatalogService{Prods: store}
}

// ProductQuery narrows a product listing. Empty fields do not filter.
type ProductQuery struct {
	Search   string
	Category string
	Featured bool
}

func (s *CatalogService) List(q ProductQuery) []domain.Product {
	var out []domain.Product
	switch {
	case q.Search != "":
		out = s.Prods.SearchProducts(q.Search)
	case q.Featured:
		out = s.Prods.GetFeaturedProducts()
	case q.Category != "":
		out = s.Prods.GetProductsByCategoryName(q.Category)
	default:
		return s.Prods.ListProducts()
	}
	// Search and featured can be combined with the other filters.
	filtered := out[:0]
	for _, p := range out {
		if q.Featured && !p.Featured {
			continue
		}
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func (s *CatalogService) Get(id int) (domain.Product, error) {
	return s.Prods.GetProduct(id)
}

func (s *CatalogService) Categories() []string {
	return s.Prods.ListCategories()
}

func (s *CatalogService) Create(p domain.Product) (domain.Product, error) {
	p, err := s.Prods.CreateProduct(p)
	return p, settled("catalog.create", err)
}

func (s *CatalogService) Update(id int, patch domain.ProductPatch) (domain.Product, error) {
	p, err := s.Prods.UpdateProduct(id, patch)
	return p, settled("catalog.update", err)
}

// Delete removes a product; a missing product is reported as ErrNotFound.
func (s *CatalogService) Delete(id int) error {
	ok, err := s.Prods.DeleteProduct(id)
	if err = settled("catalog.delete", err); err != nil {
		return err
	}
	if !ok {
		return repos.ErrProductNotFound
	}
	return nil
}
