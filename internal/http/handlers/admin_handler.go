package handlers

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
)

type AdminHandler struct {
	Users   *services.UserService
	Reviews *services.ReviewService
	Coupons *services.CouponService
	Export  *services.ExportService
}

type couponRequest struct {
	Code               string `json:"code" validate:"required,max=50"`
	DiscountPercentage int    `json:"discount_percentage" validate:"required,gte=1,lte=100"`
	ValidFrom          string `json:"valid_from"`
	ValidTo            string `json:"valid_to"`
	UsageLimit         int    `json:"usage_limit" validate:"gte=0"`
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		return fail(c, "admin.users.list", err)
	}
	return c.JSON(users)
}

// PUT /admin/users/:id/role accepts exactly {"is_admin": <bool>}.
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "admin.users.role", err)
	}
	var req struct {
		IsAdmin *bool `json:"is_admin"`
	}
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil || req.IsAdmin == nil {
		return fail(c, "admin.users.role", domain.Invalid(`body must be {"is_admin": true|false}`))
	}
	u, err := h.Users.SetAdmin(c.UserContext(), id, *req.IsAdmin)
	if err != nil {
		return fail(c, "admin.users.role", err)
	}
	applog.Audit(c, "admin.users.role", map[string]any{"target_id": id, "is_admin": u.IsAdmin})
	return c.JSON(u)
}

// GET /admin/reviews
func (h *AdminHandler) ListReviews(c *fiber.Ctx) error {
	rs, err := h.Reviews.ListAll(c.UserContext())
	if err != nil {
		return fail(c, "admin.reviews.list", err)
	}
	return c.JSON(rs)
}

// DELETE /admin/reviews/:id
func (h *AdminHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "admin.reviews.delete", err)
	}
	if err := h.Reviews.AdminDelete(c.UserContext(), id); err != nil {
		return fail(c, "admin.reviews.delete", err)
	}
	applog.Audit(c, "admin.reviews.delete", map[string]any{"review_id": id})
	return c.JSON(fiber.Map{"message": "review deleted"})
}

// GET /admin/coupons
func (h *AdminHandler) ListCoupons(c *fiber.Ctx) error {
	cs, err := h.Coupons.List(c.UserContext())
	if err != nil {
		return fail(c, "admin.coupons.list", err)
	}
	return c.JSON(cs)
}

// POST /admin/coupons
func (h *AdminHandler) CreateCoupon(c *fiber.Ctx) error {
	var req couponRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "admin.coupons.create", err)
	}
	cp, err := h.Coupons.Create(c.UserContext(), domain.Coupon{
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		ValidFrom:          req.ValidFrom,
		ValidTo:            req.ValidTo,
		UsageLimit:         req.UsageLimit,
	})
	if err != nil {
		return fail(c, "admin.coupons.create", err)
	}
	applog.Audit(c, "admin.coupons.create", map[string]any{"coupon_id": cp.ID, "code": cp.Code})
	return c.Status(fiber.StatusCreated).JSON(cp)
}

// DELETE /admin/coupons/:id
func (h *AdminHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "admin.coupons.delete", err)
	}
	if err := h.Coupons.Delete(c.UserContext(), id); err != nil {
		return fail(c, "admin.coupons.delete", err)
	}
	applog.Audit(c, "admin.coupons.delete", map[string]any{"coupon_id": id})
	return c.JSON(fiber.Map{"message": "coupon deleted"})
}

// GET /admin/products/export
func (h *AdminHandler) ExportProducts(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.Export.WriteProducts(c.UserContext(), &buf); err != nil {
		return fail(c, "admin.products.export", err)
	}
	name := "products-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	applog.Audit(c, "admin.products.export", map[string]any{"bytes": buf.Len()})
	return c.Send(buf.Bytes())
}
