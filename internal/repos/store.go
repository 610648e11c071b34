package repos

import (
	"sort"
	"sync"
	"time"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
)

// Options configures a Store.
type Options struct {
	// Dir holds the JSON snapshot files. It is created on first write.
	Dir string
	// Seed loads the default admin, sample catalog and synthetic order
	// history for any entity kind that has no usable file.
	Seed bool
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// Store keeps every entity kind in memory and mirrors each kind to its own
// JSON file after every mutation. All methods are safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	dir  string
	seed bool
	now  func() time.Time

	users      map[int]domain.User
	products   map[int]domain.Product
	orders     map[int]domain.Order
	orderItems map[int]domain.OrderItem
	carts      map[int][]domain.CartItem

	nextUserID      int
	nextProductID   int
	nextOrderID     int
	nextOrderItemID int
}

func NewStore(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Store{dir: opts.Dir, seed: opts.Seed, now: now}
	s.resetUsers()
	s.resetCatalog()
	return s
}

// Init loads all persisted state. Users load first so seeded orders can
// reference the admin, then products, orders and carts.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loadUsers() && s.seed {
		s.seedUsers()
	}
	if err := s.migrateCredentials(); err != nil {
		return err
	}
	if !s.loadProducts() && s.seed {
		s.seedProducts()
	}
	if !s.loadOrders() && s.seed {
		s.seedOrders()
	}
	s.loadCarts()

	applog.Info(nil, "store.init", map[string]any{
		"dir":      s.dir,
		"users":    len(s.users),
		"products": len(s.products),
		"orders":   len(s.orders),
		"carts":    len(s.carts),
	})
	return nil
}

// migrateCredentials hashes any plaintext password that came from seed data
// or a hand-edited file.
func (s *Store) migrateCredentials() error {
	migrated := 0
	for id, u := range s.users {
		if _, ok := u.Password.Plaintext(); !ok {
			continue
		}
		cred, err := u.Password.Hashed()
		if err != nil {
			return err
		}
		u.Password = cred
		s.users[id] = u
		migrated++
	}
	if migrated == 0 {
		return nil
	}
	applog.Info(nil, "store.users.credentials.migrate", map[string]any{"count": migrated})
	// A failed write is already logged; the hashed credentials stay in memory
	// and are written with the next user mutation.
	_ = s.saveUsers()
	return nil
}

func (s *Store) resetUsers() {
	s.users = map[int]domain.User{}
	s.nextUserID = 1
}

func (s *Store) resetCatalog() {
	s.products = map[int]domain.Product{}
	s.orders = map[int]domain.Order{}
	s.orderItems = map[int]domain.OrderItem{}
	s.carts = map[int][]domain.CartItem{}
	s.nextProductID = 1
	s.nextOrderID = 1
	s.nextOrderItemID = 1
}

// ClearAllData wipes products, orders, order items and carts and resets
// their id counters. Users are kept. The first failed save is returned; the
// in-memory wipe stands regardless.
func (s *Store) ClearAllData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetCatalog()
	applog.Warn(nil, "store.reset", map[string]any{"users_kept": len(s.users)})

	errs := []error{s.saveProducts(), s.saveOrders(), s.saveCarts()}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
