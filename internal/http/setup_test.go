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
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"shopfront/internal/config"
	"shopfront/internal/http/handlers"
	"shopfront/internal/repos"
)

// Seeded demo users.
const (
	aliceID int64 = 1
	bobID   int64 = 2
	adminID int64 = 3
)

type testEnv struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{DBDriver: repos.DriverSQLite, DBDSN: ":memory:", JWTSecret: "test-secret", JWTTTL: time.Hour}
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN, true)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	app := fiber.New(fiber.Config{Views: handlers.Views(), ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	deps := handlers.NewDeps(db, cfg, handlers.Options{})
	handlers.Register(app, deps)
	return &testEnv{app: app, db: db, deps: deps}
}

// token signs a token for a seeded user.
func (e *testEnv) token(t *testing.T, userID int64) string {
	t.Helper()
	u, err := repos.NewUserRepo(e.db).ByID(t.Context(), userID)
	if err != nil {
		t.Fatalf("load user %d: %v", userID, err)
	}
	tok, err := e.deps.Auth.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

// do sends a JSON request; tok may be empty for anonymous calls.
func (e *testEnv) do(t *testing.T, method, path, tok string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatal(err)
			}
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID int64          `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

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

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
