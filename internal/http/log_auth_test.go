package handlers_test

import (
	"net/http"
	"testing"

	"shopfront/internal/http/handlers"
)

func TestLoginFailureAndSuccessAreLogged(t *testing.T) {
	env := newTestEnv(t, handlers.Limits{Login: 100})
	env.register(t, "heidi")

	entries := captureLogs(t, func() {
		resp, _ := env.do(t, "POST", "/api/login", map[string]string{"username": "heidi", "password": "Wrong123!"}, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("bad login: want 401, got %d", resp.StatusCode)
		}
		env.login(t, "heidi", userPassword)
	})

	fail, ok := findLog(entries, "auth.login.fail")
	if !ok {
		t.Fatalf("auth.login.fail not logged; entries=%+v", entries)
	}
	if fail.Level != "warn" || fail.Fields["username"] != "heidi" {
		t.Fatalf("unexpected fail entry %+v", fail)
	}
	if _, leaked := fail.Fields["password"]; leaked {
		t.Fatal("password must never be logged")
	}

	ok2, found := findLog(entries, "auth.login.success")
	if !found {
		t.Fatalf("auth.login.success not logged; entries=%+v", entries)
	}
	if ok2.Level != "audit" || ok2.UserID == 0 {
		t.Fatalf("unexpected success entry %+v", ok2)
	}
}
