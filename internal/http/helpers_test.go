package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	"shopfront/internal/config"
	"shopfront/internal/domain"
	"shopfront/internal/events"
	"shopfront/internal/http/handlers"
	"shopfront/internal/repos"
	"shopfront/web"
)

const (
	adminPassword = "Admin123!"
	userPassword  = "Secret123!"
)

type testEnv struct {
	app    *fiber.App
	store  *repos.Store
	deps   *handlers.Deps
	broker *events.Broker
}

// Minimal app with the real routes over an empty store.
func newTestEnv(t *testing.T, limits handlers.Limits) *testEnv {
	t.Helper()
	store := repos.NewStore(repos.Options{Dir: t.TempDir()})
	if err := store.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}
	db, err := repos.OpenSessionDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	broker := events.NewBroker(8)
	deps := handlers.NewDeps(store, repos.NewSessionRepo(db), config.Config{LowStockThreshold: 5}, broker)

	app := fiber.New(fiber.Config{Views: web.Views()})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB
	app.Use(requestid.New())
	app.Use(handlers.Session(deps.Auth))
	deps.Mount(app, limits)
	return &testEnv{app: app, store: store, deps: deps, broker: broker}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, sid string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := e.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp, string(out)
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// register signs up a regular user and returns its session id.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	resp, body := e.do(t, "POST", "/api/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": userPassword,
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: got %d body=%s", username, resp.StatusCode, body)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("sid not set after register")
	}
	return sid
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, body := e.do(t, "POST", "/api/login", map[string]string{"username": username, "password": password}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: got %d body=%s", username, resp.StatusCode, body)
	}
	return extractCookie(resp, "sid")
}

// admin creates an administrator directly in the store and logs it in.
func (e *testEnv) admin(t *testing.T) string {
	t.Helper()
	if _, err := e.store.CreateUser(domain.NewUser{
		Username: "root",
		Email:    "root@example.com",
		Password: domain.PlaintextCredential(adminPassword),
		IsAdmin:  true,
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return e.login(t, "root", adminPassword)
}

func (e *testEnv) product(t *testing.T, name, sku, price string, inventory int) domain.Product {
	t.Helper()
	p, err := e.store.CreateProduct(domain.Product{
		Name:      name,
		SKU:       sku,
		Category:  "Home",
		Price:     decimal.RequireFromString(price),
		Inventory: inventory,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	UserID int                    `json:"user_id"`
	Fields map[string]interface{} `json:"fields"`
}

// capture logs by temporarily replacing the standard logger output
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	mu.Lock()
	defer mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
