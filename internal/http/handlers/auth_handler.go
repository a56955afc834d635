package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	"shopfront/internal/log"
	"shopfront/internal/services"
)

type AuthHandler struct {
	Auth         *services.AuthService
	CookieSecure bool
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,mail"`
	Password string `json:"password" validate:"required,password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) setToken(c *fiber.Ctx, tok string) {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    tok,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(h.Auth.TTL),
	})
}

// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "auth.register", err)
	}
	u, tok, err := h.Auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return fail(c, "auth.register", err)
	}
	h.setToken(c, tok)
	c.Locals("user", u)
	log.Audit(c, "auth.register", map[string]any{"email": u.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u, "token": tok})
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": domain.ErrBadCreds.Error()})
	}
	u, tok, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, "auth.login", err)
	}
	h.setToken(c, tok)
	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{"user": u, "token": tok})
}

// POST /auth/logout expires the cookie. Bearer tokens stay valid until expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"message": "logged out"})
}

// GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
