package repos

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
)

const (
	SeedAdminUsername = "admin"
	SeedAdminEmail    = "admin@shopfront.test"
	SeedAdminPassword = "Admin123!"
)

// seedUsers inserts the default admin with a plaintext credential;
// migrateCredentials hashes it right after.
func (s *Store) seedUsers() {
	applog.Info(nil, "store.seed.users", nil)
	name := "Store Admin"
	s.resetUsers()
	s.users[1] = domain.User{
		ID:        1,
		Username:  SeedAdminUsername,
		Email:     SeedAdminEmail,
		Password:  domain.PlaintextCredential(SeedAdminPassword),
		FullName:  &name,
		IsAdmin:   true,
		CreatedAt: s.now(),
	}
	s.nextUserID = 2
}

type seedProduct struct {
	name, desc, price, image, category, sku string
	inventory                                int
	featured                                 bool
}

var sampleCatalog = []seedProduct{
	{"Wireless Headphones", "Over-ear noise cancelling headphones with 30h battery.", "129.99", "/images/headphones.jpg", "Electronics", "ELEC-HP-001", 25, true},
	{"Smart Watch", "Fitness tracking, notifications and heart-rate monitor.", "199.00", "/images/watch.jpg", "Electronics", "ELEC-SW-002", 15, true},
	{"Bluetooth Speaker", "Portable waterproof speaker.", "59.50", "/images/speaker.jpg", "Electronics", "ELEC-SP-003", 40, false},
	{"Cotton T-Shirt", "Organic cotton crew neck tee.", "19.99", "/images/tshirt.jpg", "Clothing", "CLO-TS-001", 120, false},
	{"Denim Jacket", "Classic fit denim jacket.", "79.00", "/images/jacket.jpg", "Clothing", "CLO-JK-002", 8, true},
	{"Running Shoes", "Lightweight trainers for daily runs.", "89.95", "/images/shoes.jpg", "Footwear", "FTW-RS-001", 30, false},
	{"Ceramic Mug Set", "Set of four stoneware mugs.", "34.00", "/images/mugs.jpg", "Home", "HOME-MG-001", 5, false},
	{"Desk Lamp", "Dimmable LED desk lamp with USB port.", "42.25", "/images/lamp.jpg", "Home", "HOME-LP-002", 18, true},
	{"Yoga Mat", "Non-slip 6mm exercise mat.", "25.00", "/images/yogamat.jpg", "Sports", "SPT-YM-001", 3, false},
	{"Paperback Novel", "Bestselling mystery novel.", "14.99", "/images/novel.jpg", "Books", "BOOK-NV-001", 60, false},
}

func (s *Store) seedProducts() {
	applog.Info(nil, "store.seed.products", map[string]any{"count": len(sampleCatalog)})
	s.products = map[int]domain.Product{}
	s.nextProductID = 1
	for _, sp := range sampleCatalog {
		id := s.nextProductID
		s.nextProductID++
		s.products[id] = domain.Product{
			ID:          id,
			Name:        sp.name,
			Description: sp.desc,
			Price:       decimal.RequireFromString(sp.price),
			ImageURL:    sp.image,
			Category:    sp.category,
			Inventory:   sp.inventory,
			SKU:         sp.sku,
			Featured:    sp.featured,
			CreatedAt:   s.now(),
		}
	}
	_ = s.saveProducts()
}

var seedPaymentMethods = []string{"credit_card", "paypal", "bank_transfer"}

// seedOrders fabricates order history from January through the current
// month. Each month gets a few more orders than the previous one so the
// revenue charts trend upwards. Historical orders do not touch inventory.
func (s *Store) seedOrders() {
	s.orders = map[int]domain.Order{}
	s.orderItems = map[int]domain.OrderItem{}
	s.nextOrderID = 1
	s.nextOrderItemID = 1

	productIDs := sortedKeys(s.products)
	if len(productIDs) == 0 {
		return
	}
	userID := 1
	for _, id := range sortedKeys(s.users) {
		if s.users[id].IsAdmin {
			userID = id
			break
		}
	}

	now := s.now()
	loc := now.Location()
	rng := rand.New(rand.NewPCG(uint64(now.Year()), 42))
	statuses := []domain.OrderStatus{domain.OrderDelivered, domain.OrderDelivered, domain.OrderShipped, domain.OrderProcessing, domain.OrderCancelled}

	for month := time.January; month <= now.Month(); month++ {
		first := time.Date(now.Year(), month, 1, 0, 0, 0, 0, loc)
		days := first.AddDate(0, 1, -1).Day()
		if month == now.Month() {
			days = now.Day()
		}
		count := 2 + int(month)
		for i := 0; i < count; i++ {
			created := first.Add(time.Duration(rng.IntN(days))*24*time.Hour +
				time.Duration(9+rng.IntN(10))*time.Hour +
				time.Duration(rng.IntN(60))*time.Minute)
			if created.After(now) {
				created = now
			}
			orderID := s.nextOrderID
			s.nextOrderID++

			total := decimal.Zero
			lines := 1 + rng.IntN(3)
			for l := 0; l < lines; l++ {
				p := s.products[productIDs[rng.IntN(len(productIDs))]]
				qty := 1 + rng.IntN(2)
				itemID := s.nextOrderItemID
				s.nextOrderItemID++
				s.orderItems[itemID] = domain.OrderItem{
					ID:        itemID,
					OrderID:   orderID,
					ProductID: p.ID,
					Quantity:  qty,
					Price:     p.Price,
				}
				total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
			}

			status := statuses[rng.IntN(len(statuses))]
			if month == now.Month() && status == domain.OrderDelivered {
				status = domain.OrderPending
			}
			payment := "paid"
			if status == domain.OrderPending {
				payment = domain.PaymentPending
			}
			s.orders[orderID] = domain.Order{
				ID:              orderID,
				UserID:          userID,
				Status:          status,
				Total:           total,
				PaymentMethod:   seedPaymentMethods[rng.IntN(len(seedPaymentMethods))],
				PaymentStatus:   payment,
				ShippingAddress: "1 Sample Street, Springfield",
				CreatedAt:       created,
			}
		}
	}
	applog.Info(nil, "store.seed.orders", map[string]any{"count": len(s.orders)})
	_ = s.saveOrders()
}
