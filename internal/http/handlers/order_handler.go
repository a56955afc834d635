package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
)

type OrderHandler struct {
	Order *services.OrderService
}

type placeOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"max=500"`
}

type statusRequest struct {
	Status        string `json:"status" validate:"required"`
	PaymentStatus string `json:"payment_status"`
}

// POST /orders checks out the caller's cart. The body is optional.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeOrderRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return fail(c, "order.place", err)
		}
	}
	u := currentUser(c)
	od, err := h.Order.Checkout(c.UserContext(), u.ID, req.ShippingAddress)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			applog.Security(c, "order.place.empty", nil)
		}
		return fail(c, "order.place", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id":  od.Order.ID,
		"reference": od.Order.Reference,
		"total":     od.Order.TotalAmount.StringFixed(2),
		"items":     len(od.Items),
	})
	return c.Status(fiber.StatusCreated).JSON(od)
}

// GET /orders/:id returns the order to its owner or an admin.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "order.view", err)
	}
	od, err := h.Order.Get(c.UserContext(), identity(c), id)
	if errors.Is(err, domain.ErrAccessDenied) {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	}
	if err != nil {
		return fail(c, "order.view", err)
	}
	return c.JSON(od)
}

// GET /orders/my
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Order.ListMine(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return fail(c, "orders.history", err)
	}
	return c.JSON(orders)
}

// GET /orders and GET /admin/orders
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	orders, err := h.Order.ListAll(c.UserContext())
	if err != nil {
		return fail(c, "admin.orders.list", err)
	}
	return c.JSON(orders)
}

// PUT /orders/:id/status and PUT /admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "admin.orders.update", err)
	}
	var req statusRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "admin.orders.update", err)
	}
	o, err := h.Order.UpdateStatus(c.UserContext(), id, req.Status, req.PaymentStatus)
	if err != nil {
		return fail(c, "admin.orders.update", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": o.Status, "payment_status": o.PaymentStatus})
	return c.JSON(o)
}
