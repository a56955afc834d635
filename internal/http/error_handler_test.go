package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"shopfront/internal/http/handlers"
)

func TestErrorHandlerHidesInternals(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	var resp *http.Response
	entries := captureLogs(t, func() {
		var err error
		resp, err = app.Test(httptest.NewRequest("GET", "/err", nil))
		if err != nil {
			t.Fatalf("test request failed: %v", err)
		}
	})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if !strings.Contains(s, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", s)
	}
	if strings.Contains(s, "db timeout") || strings.Contains(s, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", s)
	}
	if e, ok := findAction(entries, "server.error"); !ok || e.Level != "error" {
		t.Fatalf("server.error not logged: %+v", entries)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	body, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusTeapot || !strings.Contains(string(body), "short and stout") {
		t.Fatalf("client error should pass through: %d %s", resp.StatusCode, body)
	}
}

func TestUnknownTokenIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, bobID)
	if _, err := env.db.Exec(`DELETE FROM users WHERE id = ?`, bobID); err != nil {
		t.Fatal(err)
	}
	resp, _ := env.do(t, "GET", "/cart", tok, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("token for deleted user: want 401, got %d", resp.StatusCode)
	}
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t)
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use("/auth/login", limiter.New(limiter.Config{Max: 3, Expiration: time.Minute}))
	handlers.Register(app, env.deps)

	for i := 0; i < 4; i++ {
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"alice@shopfront.test","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if i < 3 && resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("attempt %d: want 401, got %d", i, resp.StatusCode)
		}
		if i == 3 && resp.StatusCode != fiber.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}
}

func TestBodySizeLimit(t *testing.T) {
	env := newTestEnv(t)
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler, BodyLimit: 1 << 20})
	handlers.Register(app, env.deps)

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	// fasthttp may refuse the body before a response is written
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversize, got %d", resp.StatusCode)
	}
}
