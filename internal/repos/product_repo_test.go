package repos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestUpdateProduct_ClampsNegativeInventory(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mkProduct(t, s, "SKU-1", "Home", "10.00", 4)

	got, err := s.UpdateProduct(p.ID, domain.ProductPatch{Inventory: intPtr(-3)})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Inventory)

	stored, err := s.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Inventory)

	created := mkProduct(t, s, "SKU-2", "Home", "1.00", -5)
	assert.Equal(t, 0, created.Inventory)
}

func TestUpdateProduct_NotFoundAndSKUConflict(t *testing.T) {
	s, _, _ := newTestStore(t)
	mkProduct(t, s, "SKU-1", "Home", "10.00", 4)
	p2 := mkProduct(t, s, "SKU-2", "Home", "10.00", 4)

	_, err := s.UpdateProduct(42, domain.ProductPatch{Inventory: intPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	sku := "sku-1"
	_, err = s.UpdateProduct(p2.ID, domain.ProductPatch{SKU: &sku})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.CreateProduct(domain.Product{Name: "dup", SKU: "SKU-2"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteProduct_ReportsExistence(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mkProduct(t, s, "SKU-1", "Home", "10.00", 4)

	ok, err := s.DeleteProduct(p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteProduct(p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.GetProduct(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchAndFilters(t *testing.T) {
	s, _, _ := newTestStore(t)
	lamp, err := s.CreateProduct(domain.Product{Name: "Desk Lamp", Description: "warm light", Category: "Home", SKU: "L1", Featured: true})
	require.NoError(t, err)
	shoe, err := s.CreateProduct(domain.Product{Name: "Trail Shoe", Description: "grippy sole", Category: "Footwear", SKU: "S1"})
	require.NoError(t, err)
	_, err = s.CreateProduct(domain.Product{Name: "Mug", Description: "for a homely kitchen", Category: "Kitchen", SKU: "M1"})
	require.NoError(t, err)

	ids := func(ps []domain.Product) []int {
		out := []int{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []int{lamp.ID}, ids(s.SearchProducts("LAMP")))
	assert.Equal(t, []int{shoe.ID}, ids(s.SearchProducts("footwear")))
	assert.Len(t, s.SearchProducts("home"), 2) // category of one, description of another
	assert.Empty(t, s.SearchProducts("nothing-matches"))

	assert.Equal(t, []int{lamp.ID}, ids(s.GetFeaturedProducts()))
	assert.Equal(t, []int{shoe.ID}, ids(s.GetProductsByCategoryName("footwear")))
	assert.Equal(t, []string{"Footwear", "Home", "Kitchen"}, s.ListCategories())
}

func TestGetLowStockProducts(t *testing.T) {
	s, _, _ := newTestStore(t)
	a := mkProduct(t, s, "A", "x", "1", 7)
	b := mkProduct(t, s, "B", "x", "1", 0)
	mkProduct(t, s, "C", "x", "1", 50)
	d := mkProduct(t, s, "D", "x", "1", 3)

	low := s.GetLowStockProducts(7)
	require.Len(t, low, 3)
	assert.Equal(t, []int{b.ID, d.ID, a.ID}, []int{low[0].ID, low[1].ID, low[2].ID})
}
