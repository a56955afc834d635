package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	"shopfront/internal/http/handlers"
)

type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "POST", "/auth/register", "", map[string]string{
		"username": "carol", "email": "Carol@Example.com", "password": "Str0ng!pass",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register: want 201, got %d (%s)", resp.StatusCode, body)
	}
	reg := decode[authResponse](t, body)
	if reg.Token == "" || reg.User.Email != "carol@example.com" || reg.User.IsAdmin {
		t.Fatalf("unexpected register response: %+v", reg)
	}
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == handlers.TokenCookie {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("token cookie missing or not hardened: %+v", cookie)
	}
	if strings.Contains(string(body), "password_hash") {
		t.Fatalf("hash leaked in response: %s", body)
	}

	// duplicate email, different casing
	resp, _ = env.do(t, "POST", "/auth/register", "", map[string]string{
		"username": "carol2", "email": "carol@example.com", "password": "Str0ng!pass",
	})
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("duplicate register: want 409, got %d", resp.StatusCode)
	}

	resp, body = env.do(t, "POST", "/auth/login", "", map[string]string{"email": "carol@example.com", "password": "Str0ng!pass"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login: want 200, got %d (%s)", resp.StatusCode, body)
	}
	tok := decode[authResponse](t, body).Token

	resp, body = env.do(t, "GET", "/auth/me", tok, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("me: want 200, got %d", resp.StatusCode)
	}
	if me := decode[domain.User](t, body); me.Username != "carol" {
		t.Fatalf("me: got %+v", me)
	}

	// cookie works as well as the bearer header
	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: handlers.TokenCookie, Value: tok})
	r2, err := env.app.Test(req, -1)
	if err != nil || r2.StatusCode != fiber.StatusOK {
		t.Fatalf("me via cookie: err=%v status=%v", err, r2.StatusCode)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	cases := []map[string]string{
		{"username": "x", "email": "not-an-email", "password": "Str0ng!pass"},
		{"username": "x", "email": "x@example.com", "password": "weak"},
		{"username": "", "email": "x@example.com", "password": "Str0ng!pass"},
	}
	for _, c := range cases {
		resp, body := env.do(t, "POST", "/auth/register", "", c)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("register %v: want 400, got %d (%s)", c, resp.StatusCode, body)
		}
	}
	resp, _ := env.do(t, "POST", "/auth/register", "", "{not json")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("malformed body: want 400, got %d", resp.StatusCode)
	}
}

func TestLoginFailureIsLogged(t *testing.T) {
	env := newTestEnv(t)
	var status int
	entries := captureLogs(t, func() {
		resp, _ := env.do(t, "POST", "/auth/login", "", map[string]string{"email": "alice@shopfront.test", "password": "wrong-Pass1!"})
		status = resp.StatusCode
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("want 401, got %d", status)
	}
	e, ok := findAction(entries, "auth.login.fail")
	if !ok || e.Level != "warn" {
		t.Fatalf("expected warn auth.login.fail, got %+v", entries)
	}

	entries = captureLogs(t, func() {
		resp, _ := env.do(t, "POST", "/auth/login", "", map[string]string{"email": "alice@shopfront.test", "password": "Passw0rd!"})
		status = resp.StatusCode
	})
	if status != fiber.StatusOK {
		t.Fatalf("want 200, got %d", status)
	}
	if e, ok := findAction(entries, "auth.login.success"); !ok || e.UserID != aliceID {
		t.Fatalf("expected auth.login.success for alice, got %+v", entries)
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, "POST", "/auth/logout", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == handlers.TokenCookie && c.Value != "" {
			t.Fatalf("cookie not cleared: %+v", c)
		}
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, "GET", "/auth/me", "not.a.jwt", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
	resp, _ = env.do(t, "GET", "/cart", "", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("anonymous cart: want 401, got %d", resp.StatusCode)
	}
}

func TestProfileOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice, bob := env.token(t, aliceID), env.token(t, bobID)

	resp, _ := env.do(t, "GET", "/users/1", bob, nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("foreign profile: want 403, got %d", resp.StatusCode)
	}
	resp, _ = env.do(t, "PUT", "/users/1", bob, map[string]string{"username": "mallory"})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("foreign update: want 403, got %d", resp.StatusCode)
	}

	resp, body := env.do(t, "PUT", "/users/1", alice, map[string]string{"username": "alice2", "password": "N3w!passwd"})
	if resp.StatusCode != fiber.StatusOK || decode[domain.User](t, body).Username != "alice2" {
		t.Fatalf("own update: %d (%s)", resp.StatusCode, body)
	}
	resp, _ = env.do(t, "POST", "/auth/login", "", map[string]string{"email": "alice@shopfront.test", "password": "N3w!passwd"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login with new password: %d", resp.StatusCode)
	}
	resp, _ = env.do(t, "PUT", "/users/1", alice, map[string]string{"email": "bob@shopfront.test"})
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("taken email: want 409, got %d", resp.StatusCode)
	}

	resp, _ = env.do(t, "GET", "/users/2", env.token(t, adminID), nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin read: %d", resp.StatusCode)
	}
}
