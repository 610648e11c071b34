package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/http/handlers"
	"shopfront/internal/services"
)

func TestOrderEventsStream(t *testing.T) {
	env := newTestEnv(t, handlers.Limits{Login: 100})
	admin := env.admin(t)
	p := env.product(t, "Plate", "PLT-1", "6.25", 4)
	buyer, err := env.store.CreateUser(domain.NewUser{
		Username: "lena",
		Email:    "lena@example.com",
		Password: domain.PlaintextCredential(userPassword),
	})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	env.deps.EventsHandler.Done = done
	env.deps.EventsHandler.KeepAlive = time.Hour

	// Once the stream is subscribed, place an order and end the stream.
	placed := make(chan error, 1)
	go func() {
		defer close(done)
		deadline := time.Now().Add(5 * time.Second)
		for env.broker.Subscribers() == 0 {
			if time.Now().After(deadline) {
				placed <- context.DeadlineExceeded
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		_, err := env.deps.OrderHandler.Orders.Place(context.Background(), buyer.ID, services.Checkout{
			Lines:         []domain.CartLine{{ProductID: p.ID, Quantity: 2}},
			PaymentMethod: "paypal",
		})
		placed <- err
	}()

	req := httptest.NewRequest("GET", "/api/admin/events", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: admin})
	resp, err := env.app.Test(req, 10000)
	if err != nil {
		t.Fatalf("stream request: %v", err)
	}
	if err := <-placed; err != nil {
		t.Fatalf("place order: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("Content-Type = %q", ct)
	}
	raw, _ := io.ReadAll(resp.Body)
	body := string(raw)
	if !strings.HasPrefix(body, ": connected") {
		t.Fatalf("stream should open with a comment line: %q", body)
	}
	if !strings.Contains(body, "event: order-created") {
		t.Fatalf("order event missing: %q", body)
	}
	if !strings.Contains(body, `"paymentMethod":"paypal"`) {
		t.Fatalf("event payload missing order: %q", body)
	}
	if n := env.broker.Subscribers(); n != 0 {
		t.Fatalf("subscriber not released: %d", n)
	}
}

func TestOrderEventsRequireAdmin(t *testing.T) {
	env := newTestEnv(t, handlers.Limits{Login: 100})
	user := env.register(t, "mike")

	if resp, _ := env.do(t, "GET", "/api/admin/events", nil, user); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403, got %d", resp.StatusCode)
	}
}
