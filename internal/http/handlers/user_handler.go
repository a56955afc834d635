package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/log"
	"shopfront/internal/services"
)

type UserHandler struct {
	Users *services.UserService
}

type profileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,mail"`
	Password *string `json:"password" validate:"omitempty,password"`
}

// GET /users (admin)
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		return fail(c, "users.list", err)
	}
	return c.JSON(users)
}

// GET /users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "users.get", err)
	}
	u, err := h.Users.Get(c.UserContext(), identity(c), id)
	if err != nil {
		return fail(c, "users.get", err)
	}
	return c.JSON(u)
}

// PUT /users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "users.update", err)
	}
	var req profileRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "users.update", err)
	}
	u, err := h.Users.Update(c.UserContext(), identity(c), id, services.ProfileUpdate{
		Username: req.Username, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		return fail(c, "users.update", err)
	}
	log.Audit(c, "users.update", map[string]any{"target_id": id, "password_changed": req.Password != nil})
	return c.JSON(u)
}
