package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	"shopfront/internal/log"
	"shopfront/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gte=1"`
	VariantID int64 `json:"variant_id" validate:"required,gte=1"`
	Quantity  *int  `json:"quantity" validate:"omitempty,max=10000"`
}

type qtyRequest struct {
	Quantity *int `json:"quantity" validate:"omitempty,max=10000"`
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(cv)
}

// POST /cart/add answers 201 for a new line and 200 when an existing line grew.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addItemRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "cart.add", err)
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	item, created, err := h.Cart.AddItem(c.UserContext(), currentUser(c).ID, req.ProductID, req.VariantID, qty)
	if err != nil {
		return fail(c, "cart.add", err)
	}
	log.Info(c, "cart.add", map[string]any{"variant_id": req.VariantID, "quantity": qty, "created": created})
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(item)
}

// PUT /cart/item/:itemId
func (h *CartHandler) Update(c *fiber.Ctx) error {
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return fail(c, "cart.update", err)
	}
	var req qtyRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "cart.update", err)
	}
	if req.Quantity == nil {
		return fail(c, "cart.update", domain.Invalid("quantity value missing"))
	}
	item, err := h.Cart.UpdateItem(c.UserContext(), currentUser(c).ID, itemID, *req.Quantity)
	if err != nil {
		return fail(c, "cart.update", err)
	}
	return c.JSON(item)
}

// DELETE /cart/item/:itemId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return fail(c, "cart.remove", err)
	}
	if err := h.Cart.RemoveItem(c.UserContext(), currentUser(c).ID, itemID); err != nil {
		return fail(c, "cart.remove", err)
	}
	return c.JSON(fiber.Map{"message": "item removed"})
}

// DELETE /cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(c.UserContext(), currentUser(c).ID); err != nil {
		return fail(c, "cart.clear", err)
	}
	return c.JSON(fiber.Map{"message": "cart cleared"})
}
