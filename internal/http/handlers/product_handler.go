package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	"shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type productRequest struct {
	Name          string           `json:"name" validate:"required,max=255"`
	CategoryID    *int64           `json:"category_id"`
	BrandID       *int64           `json:"brand_id"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Gender        string           `json:"gender" validate:"max=50"`
	Material      string           `json:"material" validate:"max=100"`
}

type productPatchRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=255"`
	CategoryID    *int64           `json:"category_id"`
	BrandID       *int64           `json:"brand_id"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Gender        *string          `json:"gender" validate:"omitempty,max=50"`
	Material      *string          `json:"material" validate:"omitempty,max=100"`
}

type variantRequest struct {
	Size     *string          `json:"size" validate:"omitempty,max=20"`
	Color    *string          `json:"color" validate:"omitempty,max=50"`
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

type imageRequest struct {
	URL string `json:"url" validate:"required,max=255"`
}

func optDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// GET /products?categoryId=&brandId=&gender=&minPrice=&maxPrice=&search=&page=&limit=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var f domain.ProductFilter
	if raw := c.Query("categoryId"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return fail(c, "products.list", domain.Invalid("categoryId must be a positive integer"))
		}
		f.CategoryID = &id
	}
	if raw := c.Query("brandId"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return fail(c, "products.list", domain.Invalid("brandId must be a positive integer"))
		}
		f.BrandID = &id
	}
	for _, p := range []struct {
		key string
		dst **decimal.Decimal
	}{{"minPrice", &f.MinPrice}, {"maxPrice", &f.MaxPrice}} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return fail(c, "products.list", domain.Invalid("%s must be a non-negative number", p.key))
		}
		*p.dst = &d
	}
	if raw := c.Query("search"); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return fail(c, "products.list", domain.Invalid("search contains unsupported characters"))
		}
		f.Search = q
	}
	f.Gender = c.Query("gender")
	f.Page, f.Limit = validate.Page(c.Query("page"), c.Query("limit"))

	products, err := h.Catalog.ListProducts(c.UserContext(), f)
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(products)
}

// GET /products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "products.get", err)
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "products.get", err)
	}
	return c.JSON(p)
}

// POST /products (admin)
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "products.create", err)
	}
	if req.Price == nil {
		return fail(c, "products.create", domain.Invalid("price value missing"))
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), repos.ProductFields{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
		Description:   req.Description,
		Price:         *req.Price,
		DiscountPrice: optDecimal(req.DiscountPrice),
		Gender:        req.Gender,
		Material:      req.Material,
	})
	if err != nil {
		return fail(c, "products.create", err)
	}
	log.Audit(c, "catalog.product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /products/:id (admin)
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "products.update", err)
	}
	var req productPatchRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "products.update", err)
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, repos.ProductPatch{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Gender:        req.Gender,
		Material:      req.Material,
	})
	if err != nil {
		return fail(c, "products.update", err)
	}
	log.Audit(c, "catalog.product.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// DELETE /products/:id (admin)
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, "products.delete", err)
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return fail(c, "products.delete", err)
	}
	log.Audit(c, "catalog.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "product deleted"})
}

// POST /products/:id/variants (admin)
func (h *ProductHandler) AddVariant(c *fiber.Ctx) error {
	pid, err := paramID(c, "id")
	if err != nil {
		return fail(c, "variants.create", err)
	}
	var req variantRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "variants.create", err)
	}
	v, err := h.Catalog.AddVariant(c.UserContext(), pid, repos.VariantFields{
		Size:     deref(req.Size),
		Color:    deref(req.Color),
		Quantity: deref(req.Quantity),
		Price:    optDecimal(req.Price),
	})
	if err != nil {
		return fail(c, "variants.create", err)
	}
	log.Audit(c, "catalog.variant.create", map[string]any{"product_id": pid, "variant_id": v.ID})
	return c.Status(fiber.StatusCreated).JSON(v)
}

// PUT /products/:id/variants/:variantId (admin)
func (h *ProductHandler) UpdateVariant(c *fiber.Ctx) error {
	pid, err := paramID(c, "id")
	if err != nil {
		return fail(c, "variants.update", err)
	}
	vid, err := paramID(c, "variantId")
	if err != nil {
		return fail(c, "variants.update", err)
	}
	var req variantRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "variants.update", err)
	}
	v, err := h.Catalog.UpdateVariant(c.UserContext(), pid, vid, repos.VariantPatch{
		Size: req.Size, Color: req.Color, Quantity: req.Quantity, Price: req.Price,
	})
	if err != nil {
		return fail(c, "variants.update", err)
	}
	log.Audit(c, "catalog.variant.update", map[string]any{"product_id": pid, "variant_id": vid})
	return c.JSON(v)
}

// DELETE /products/:id/variants/:variantId (admin)
func (h *ProductHandler) DeleteVariant(c *fiber.Ctx) error {
	pid, err := paramID(c, "id")
	if err != nil {
		return fail(c, "variants.delete", err)
	}
	vid, err := paramID(c, "variantId")
	if err != nil {
		return fail(c, "variants.delete", err)
	}
	if err := h.Catalog.DeleteVariant(c.UserContext(), pid, vid); err != nil {
		return fail(c, "variants.delete", err)
	}
	log.Audit(c, "catalog.variant.delete", map[string]any{"product_id": pid, "variant_id": vid})
	return c.JSON(fiber.Map{"message": "variant deleted"})
}

// POST /products/:id/images (admin)
func (h *ProductHandler) AddImage(c *fiber.Ctx) error {
	pid, err := paramID(c, "id")
	if err != nil {
		return fail(c, "images.create", err)
	}
	var req imageRequest
	if err := bind(c, &req); err != nil {
		return fail(c, "images.create", err)
	}
	im, err := h.Catalog.AddImage(c.UserContext(), pid, req.URL)
	if err != nil {
		return fail(c, "images.create", err)
	}
	log.Audit(c, "catalog.image.create", map[string]any{"product_id": pid, "image_id": im.ID})
	return c.Status(fiber.StatusCreated).JSON(im)
}

// DELETE /products/:id/images/:imageId (admin)
func (h *ProductHandler) DeleteImage(c *fiber.Ctx) error {
	pid, err := paramID(c, "id")
	if err != nil {
		return fail(c, "images.delete", err)
	}
	iid, err := paramID(c, "imageId")
	if err != nil {
		return fail(c, "images.delete", err)
	}
	if err := h.Catalog.DeleteImage(c.UserContext(), pid, iid); err != nil {
		return fail(c, "images.delete", err)
	}
	log.Audit(c, "catalog.image.delete", map[string]any{"product_id": pid, "image_id": iid})
	return c.JSON(fiber.Map{"message": "image deleted"})
}
