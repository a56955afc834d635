package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/log"
	"shopfront/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=2000"`
}

// GET /reviews/product/:productId
func (h *ReviewHandler) ListForProduct(c *fiber.Ctx) error {
	pid, err := paramID(c, "productId")
	if err != nil {
		return fail(c, "reviews.list", err)
	}
	rs, err := h.Reviews.ListForProduct(c.UserContext(), pid)
	if err != nil {
		return fail(c, "reviews.list", err)
	}
	return c.JSON(rs)
}

// POST /reviews/product/:productId
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	pid, err := paramID(c, "productId")
	if err != nil {
		return fail(c, "review.create", err)
	}
	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "review.create", err)
	}
	rv, err := h.Reviews.AddReview(c.UserContext(), currentUser(c).ID, pid, req.Rating, req.Comment)
	if err != nil {
		return fail(c, "review.create", err)
	}
	log.Audit(c, "review.create", map[string]any{"review_id": rv.ID, "product_id": pid})
	return c.Status(fiber.StatusCreated).JSON(rv)
}

// DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "review.delete", err)
	}
	if err := h.Reviews.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, "review.delete", err)
	}
	log.Audit(c, "review.delete", map[string]any{"review_id": id})
	return c.JSON(fiber.Map{"message": "review deleted"})
}
