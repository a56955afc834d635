package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
)

// TokenCookie carries the JWT for browser clients.
const TokenCookie = "token"

func tokenFrom(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	return c.Cookies(TokenCookie)
}

func authenticate(c *fiber.Ctx, auth *services.AuthService) (*domain.User, bool) {
	tok := tokenFrom(c)
	if tok == "" {
		return nil, false
	}
	u, err := auth.CurrentUser(c.UserContext(), tok)
	if err != nil || u == nil {
		applog.Security(c, "auth.token.reject", map[string]any{"reason": errString(err)})
		return nil, false
	}
	c.Locals("user", u)
	return u, true
}

// RequireUser rejects requests without a valid token with 401.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := authenticate(c, auth); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": domain.ErrUnauthenticated.Error()})
		}
		return c.Next()
	}
}

// RequireAdmin is RequireUser plus the admin flag; non-admins get 403.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := authenticate(c, auth)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": domain.ErrUnauthenticated.Error()})
		}
		if !u.IsAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": domain.ErrAccessDenied.Error()})
		}
		return c.Next()
	}
}

// currentUser is only valid behind RequireUser or RequireAdmin.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func identity(c *fiber.Ctx) domain.Identity {
	u := currentUser(c)
	if u == nil {
		return domain.Identity{}
	}
	return domain.Identity{UserID: u.ID, IsAdmin: u.IsAdmin}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
