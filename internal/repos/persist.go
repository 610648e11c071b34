package repos

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
)

const (
	userFileName    = "user-data.json"
	productFileName = "product-data.json"
	orderFileName   = "order-data.json"
	cartFileName    = "user-cart-data.json"
)

type userFile struct {
	Users      []domain.User `json:"users"`
	NextUserID int           `json:"nextUserId"`
}

type productFile struct {
	Products      []domain.Product `json:"products"`
	NextProductID int              `json:"nextProductId"`
}

type orderFile struct {
	Orders          []domain.Order     `json:"orders"`
	OrderItems      []domain.OrderItem `json:"orderItems"`
	NextOrderID     int                `json:"nextOrderId"`
	NextOrderItemID int                `json:"nextOrderItemId"`
}

type cartEntry struct {
	UserID    int               `json:"userId"`
	CartItems []domain.CartItem `json:"cartItems"`
}

type cartFile struct {
	Carts []cartEntry `json:"carts"`
}

// writeSnapshot marshals v and replaces dir/name atomically: the data goes to
// a temp file in the same directory which is then renamed over the target.
func (s *Store) writeSnapshot(name string, v any) error {
	err := func() error {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return err
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
		if err != nil {
			return err
		}
		tmpName := tmp.Name()
		defer os.Remove(tmpName)

		if _, err := tmp.Write(b); err != nil {
			tmp.Close()
			return err
		}
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			return err
		}
		if err := tmp.Close(); err != nil {
			return err
		}
		return os.Rename(tmpName, filepath.Join(s.dir, name))
	}()
	if err != nil {
		applog.Error(nil, "store.save.fail", err, map[string]any{"file": name})
		return fmt.Errorf("%w: save %s: %w", ErrPersistence, name, err)
	}
	return nil
}

// readSnapshot decodes dir/name into v. It reports false when the file is
// missing, unreadable or corrupt; a corrupt file is deleted so the next
// start does not trip over it again.
func (s *Store) readSnapshot(name string, v any) bool {
	path := filepath.Join(s.dir, name)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		applog.Error(nil, "store.load.fail", err, map[string]any{"file": name})
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		applog.Warn(nil, "store.load.corrupt", map[string]any{"file": name, "err": err.Error()})
		if rmErr := os.Remove(path); rmErr != nil {
			applog.Error(nil, "store.load.corrupt.remove", rmErr, map[string]any{"file": name})
		}
		return false
	}
	return true
}

// nextID keeps a restored counter ahead of every id actually present.
func nextID(saved, maxID int) int {
	if saved > maxID {
		return saved
	}
	return maxID + 1
}

func (s *Store) saveUsers() error {
	f := userFile{Users: make([]domain.User, 0, len(s.users)), NextUserID: s.nextUserID}
	for _, id := range sortedKeys(s.users) {
		f.Users = append(f.Users, s.users[id])
	}
	return s.writeSnapshot(userFileName, f)
}

// userRows decodes users one by one so a single bad record is skipped
// instead of failing the whole file.
type userRows struct {
	Users      []json.RawMessage `json:"users"`
	NextUserID int               `json:"nextUserId"`
}

func (s *Store) loadUsers() bool {
	var f userRows
	if !s.readSnapshot(userFileName, &f) {
		return false
	}
	s.resetUsers()
	maxID := 0
	for i, raw := range f.Users {
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			applog.Warn(nil, "store.load.user.skip", map[string]any{"index": i, "err": err.Error()})
			continue
		}
		s.users[u.ID] = u
		maxID = max(maxID, u.ID)
	}
	s.nextUserID = nextID(f.NextUserID, maxID)
	return len(s.users) > 0
}

func (s *Store) saveProducts() error {
	f := productFile{Products: make([]domain.Product, 0, len(s.products)), NextProductID: s.nextProductID}
	for _, id := range sortedKeys(s.products) {
		f.Products = append(f.Products, s.products[id])
	}
	return s.writeSnapshot(productFileName, f)
}

func (s *Store) loadProducts() bool {
	var f productFile
	if !s.readSnapshot(productFileName, &f) {
		return false
	}
	s.products = map[int]domain.Product{}
	maxID := 0
	for _, p := range f.Products {
		setInventory(&p, p.Inventory)
		s.products[p.ID] = p
		maxID = max(maxID, p.ID)
	}
	s.nextProductID = nextID(f.NextProductID, maxID)
	return true
}

func (s *Store) saveOrders() error {
	f := orderFile{
		Orders:          make([]domain.Order, 0, len(s.orders)),
		OrderItems:      make([]domain.OrderItem, 0, len(s.orderItems)),
		NextOrderID:     s.nextOrderID,
		NextOrderItemID: s.nextOrderItemID,
	}
	for _, id := range sortedKeys(s.orders) {
		f.Orders = append(f.Orders, s.orders[id])
	}
	for _, id := range sortedKeys(s.orderItems) {
		f.OrderItems = append(f.OrderItems, s.orderItems[id])
	}
	return s.writeSnapshot(orderFileName, f)
}

func (s *Store) loadOrders() bool {
	var f orderFile
	if !s.readSnapshot(orderFileName, &f) {
		return false
	}
	s.orders = map[int]domain.Order{}
	s.orderItems = map[int]domain.OrderItem{}
	maxOrder, maxItem := 0, 0
	for _, o := range f.Orders {
		s.orders[o.ID] = o
		maxOrder = max(maxOrder, o.ID)
	}
	for _, it := range f.OrderItems {
		s.orderItems[it.ID] = it
		maxItem = max(maxItem, it.ID)
	}
	s.nextOrderID = nextID(f.NextOrderID, maxOrder)
	s.nextOrderItemID = nextID(f.NextOrderItemID, maxItem)
	return true
}

func (s *Store) saveCarts() error {
	f := cartFile{Carts: make([]cartEntry, 0, len(s.carts))}
	for _, uid := range sortedKeys(s.carts) {
		f.Carts = append(f.Carts, cartEntry{UserID: uid, CartItems: s.carts[uid]})
	}
	return s.writeSnapshot(cartFileName, f)
}

func (s *Store) loadCarts() bool {
	var f cartFile
	if !s.readSnapshot(cartFileName, &f) {
		return false
	}
	s.carts = map[int][]domain.CartItem{}
	for _, c := range f.Carts {
		s.carts[c.UserID] = c.CartItems
	}
	return true
}
