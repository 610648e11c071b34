package repos

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
)

func TestCreateOrder_RejectsOversell(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mkProduct(t, s, "P", "Home", "5.00", 2)

	_, err := s.CreateOrder(domain.NewOrder{UserID: 1}, []domain.NewOrderItem{line(p.ID, 3)})
	require.ErrorIs(t, err, ErrInsufficientInventory)

	var invErr *InventoryError
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, 3, invErr.Requested)
	assert.Equal(t, 2, invErr.Available)

	stored, _ := s.GetProduct(p.ID)
	assert.Equal(t, 2, stored.Inventory)
	assert.Empty(t, s.ListOrders())
}

func TestCreateOrder_DecrementsInventory(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mkProduct(t, s, "P", "Home", "5.00", 5)

	o, err := s.CreateOrder(domain.NewOrder{UserID: 1, PaymentMethod: "paypal"}, []domain.NewOrderItem{line(p.ID, 2)})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, domain.PaymentPending, o.PaymentStatus)
	assert.Equal(t, testNow, o.CreatedAt)
	assert.True(t, decimal.RequireFromString("10").Equal(o.Total))

	stored, _ := s.GetProduct(p.ID)
	assert.Equal(t, 3, stored.Inventory)

	items := s.GetOrderItemsByOrderID(o.ID)
	require.Len(t, items, 1)
	assert.Equal(t, o.ID, items[0].OrderID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, p.Price.Equal(items[0].Price))
}

func TestCreateOrder_AllOrNothing(t *testing.T) {
	s, _, _ := newTestStore(t)
	plenty := mkProduct(t, s, "A", "Home", "1.00", 10)
	scarce := mkProduct(t, s, "B", "Home", "1.00", 1)

	_, err := s.CreateOrder(domain.NewOrder{UserID: 1}, []domain.NewOrderItem{line(plenty.ID, 4), line(scarce.ID, 2)})
	require.ErrorIs(t, err, ErrInsufficientInventory)

	_, err = s.CreateOrder(domain.NewOrder{UserID: 1}, []domain.NewOrderItem{line(plenty.ID, 4), line(999, 1)})
	require.ErrorIs(t, err, ErrProductNotFound)
	require.ErrorIs(t, err, ErrNotFound)

	a, _ := s.GetProduct(plenty.ID)
	b, _ := s.GetProduct(scarce.ID)
	assert.Equal(t, 10, a.Inventory)
	assert.Equal(t, 1, b.Inventory)
	assert.Empty(t, s.ListOrders())
	assert.Empty(t, s.GetOrderItemsByOrderID(1))

	// The id counter did not move either.
	o := mkOrder(t, s, 1, "card", line(plenty.ID, 1))
	assert.Equal(t, 1, o.ID)
}

func TestCreateOrder_SumsRepeatedLinesBeforeChecking(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mkProduct(t, s, "P", "Home", "1.00", 3)

	_, err := s.CreateOrder(domain.NewOrder{UserID: 1}, []domain.NewOrderItem{line(p.ID, 2), line(p.ID, 2)})
	require.ErrorIs(t, err, ErrInsufficientInventory)

	stored, _ := s.GetProduct(p.ID)
	assert.Equal(t, 3, stored.Inventory)
}

func TestCreateOrder_Validation(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mkProduct(t, s, "P", "Home", "1.00", 3)

	_, err := s.CreateOrder(domain.NewOrder{UserID: 1}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.CreateOrder(domain.NewOrder{UserID: 1}, []domain.NewOrderItem{line(p.ID, 0)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.CreateOrder(domain.NewOrder{UserID: 1, Status: "lost"}, []domain.NewOrderItem{line(p.ID, 1)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrder_ConcurrentNeverOversells(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mkProduct(t, s, "P", "Home", "1.00", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateOrder(domain.NewOrder{UserID: 1}, []domain.NewOrderItem{line(p.ID, 1)}); err == nil {
				mu.Lock()
				placed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stored, _ := s.GetProduct(p.ID)
	assert.Equal(t, 10, placed)
	assert.Equal(t, 0, stored.Inventory)
	assert.Len(t, s.ListOrders(), 10)
}

func TestUpdateOrderStatus_AnyTransition(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mkProduct(t, s, "P", "Home", "1.00", 3)
	o := mkOrder(t, s, 1, "card", line(p.ID, 1))

	for _, st := range []domain.OrderStatus{domain.OrderDelivered, domain.OrderPending, domain.OrderCancelled, domain.OrderShipped} {
		got, err := s.UpdateOrderStatus(o.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}

	_, err := s.UpdateOrderStatus(o.ID, "teleported")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.UpdateOrderStatus(404, domain.OrderShipped)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrdersByUser_NewestFirst(t *testing.T) {
	s, clock, _ := newTestStore(t)
	p := mkProduct(t, s, "P", "Home", "1.00", 10)

	first := mkOrder(t, s, 7, "card", line(p.ID, 1))
	clock.Set(testNow.Add(time.Hour))
	second := mkOrder(t, s, 7, "card", line(p.ID, 1))
	mkOrder(t, s, 8, "card", line(p.ID, 1))

	got := s.GetOrdersByUserID(7)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}
