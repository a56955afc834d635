package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	"shopfront/internal/log"
	"shopfront/internal/services"
	"shopfront/internal/validate"
)

// CategoryHandler serves both categories and brands; they share shape and rules.
type CategoryHandler struct {
	Catalog *services.CatalogService
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type brandRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Country *string `json:"country" validate:"omitempty,max=100"`
}

// GET /categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, "categories.list", err)
	}
	return c.JSON(cats)
}

// POST /categories (admin)
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "categories.create", err)
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return fail(c, "categories.create", domain.Invalid("name must be 1-100 characters"))
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), name, deref(req.Description))
	if err != nil {
		return fail(c, "categories.create", err)
	}
	log.Audit(c, "catalog.category.create", map[string]any{"category_id": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// PUT /categories/:id (admin)
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "categories.update", err)
	}
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "categories.update", err)
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return fail(c, "categories.update", domain.Invalid("name must be 1-100 characters"))
	}
	cat, err := h.Catalog.UpdateCategory(c.UserContext(), id, name, req.Description)
	if err != nil {
		return fail(c, "categories.update", err)
	}
	log.Audit(c, "catalog.category.update", map[string]any{"category_id": id})
	return c.JSON(cat)
}

// DELETE /categories/:id (admin)
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "categories.delete", err)
	}
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return fail(c, "categories.delete", err)
	}
	log.Audit(c, "catalog.category.delete", map[string]any{"category_id": id})
	return c.JSON(fiber.Map{"message": "category deleted"})
}

// GET /brands
func (h *CategoryHandler) ListBrands(c *fiber.Ctx) error {
	brands, err := h.Catalog.ListBrands(c.UserContext())
	if err != nil {
		return fail(c, "brands.list", err)
	}
	return c.JSON(brands)
}

// POST /brands (admin)
func (h *CategoryHandler) CreateBrand(c *fiber.Ctx) error {
	var req brandRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "brands.create", err)
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return fail(c, "brands.create", domain.Invalid("name must be 1-100 characters"))
	}
	b, err := h.Catalog.CreateBrand(c.UserContext(), name, deref(req.Country))
	if err != nil {
		return fail(c, "brands.create", err)
	}
	log.Audit(c, "catalog.brand.create", map[string]any{"brand_id": b.ID})
	return c.Status(fiber.StatusCreated).JSON(b)
}

// PUT /brands/:id (admin)
func (h *CategoryHandler) UpdateBrand(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "brands.update", err)
	}
	var req brandRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "brands.update", err)
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return fail(c, "brands.update", domain.Invalid("name must be 1-100 characters"))
	}
	b, err := h.Catalog.UpdateBrand(c.UserContext(), id, name, req.Country)
	if err != nil {
		return fail(c, "brands.update", err)
	}
	log.Audit(c, "catalog.brand.update", map[string]any{"brand_id": id})
	return c.JSON(b)
}

// DELETE /brands/:id (admin)
func (h *CategoryHandler) DeleteBrand(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "brands.delete", err)
	}
	if err := h.Catalog.DeleteBrand(c.UserContext(), id); err != nil {
		return fail(c, "brands.delete", err)
	}
	log.Audit(c, "catalog.brand.delete", map[string]any{"brand_id": id})
	return c.JSON(fiber.Map{"message": "brand deleted"})
}
