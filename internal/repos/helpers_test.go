package repos

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Set(t time.Time) { c.t = t }

var testNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *testClock, string) {
	t.Helper()
	dir := t.TempDir()
	clock := &testClock{t: testNow}
	s := NewStore(Options{Dir: dir, Now: clock.Now})
	require.NoError(t, s.Init())
	return s, clock, dir
}

func reopen(t *testing.T, dir string, seed bool) *Store {
	t.Helper()
	s := NewStore(Options{Dir: dir, Seed: seed, Now: func() time.Time { return testNow }})
	require.NoError(t, s.Init())
	return s
}

func mkProduct(t *testing.T, s *Store, sku, category, price string, inventory int) domain.Product {
	t.Helper()
	p, err := s.CreateProduct(domain.Product{
		Name:        "Product " + sku,
		Description: "about " + sku,
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Inventory:   inventory,
		SKU:         sku,
	})
	require.NoError(t, err)
	return p
}

func mkUser(t *testing.T, s *Store, username string) domain.User {
	t.Helper()
	u, err := s.CreateUser(domain.NewUser{
		Username: username,
		Email:    username + "@example.com",
		Password: domain.PlaintextCredential("Secret123!"),
	})
	require.NoError(t, err)
	return u
}

func mkOrder(t *testing.T, s *Store, userID int, method string, items ...domain.NewOrderItem) domain.Order {
	t.Helper()
	o, err := s.CreateOrder(domain.NewOrder{UserID: userID, PaymentMethod: method}, items)
	require.NoError(t, err)
	return o
}

func line(productID, qty int) domain.NewOrderItem {
	return domain.NewOrderItem{ProductID: productID, Quantity: qty}
}
