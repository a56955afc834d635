package repos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, name, category_id, brand_id, COALESCE(description,'') AS description,
    price, discount_price, COALESCE(gender,'') AS gender, COALESCE(material,'') AS material,
    CAST(created_at AS TEXT) AS created_at, CAST(updated_at AS TEXT) AS updated_at`

const variantCols = `id, product_id, COALESCE(size,'') AS size, COALESCE(color,'') AS color, quantity, price`

// ProductFields is the full set of writable product columns.
type ProductFields struct {
	Name          string
	CategoryID    *int64
	BrandID       *int64
	Description   string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Gender        string
	Material      string
}

// ProductPatch updates only the non-nil fields.
type ProductPatch struct {
	Name          *string
	CategoryID    *int64
	BrandID       *int64
	Description   *string
	Price         *decimal.Decimal
	DiscountPrice *decimal.Decimal
	Gender        *string
	Material      *string
}

type VariantFields struct {
	Size     string
	Color    string
	Quantity int
	Price    decimal.NullDecimal
}

type VariantPatch struct {
	Size     *string
	Color    *string
	Quantity *int
	Price    *decimal.Decimal
}

// List applies the filter and offset paging. Page and Limit must already be normalized.
func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	priceExpr := "CAST(price AS REAL)"
	if isPostgres(r.db) {
		priceExpr = "price"
	}
	where := []string{"1=1"}
	args := []any{}
	if f.CategoryID != nil {
		where = append(where, "category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.BrandID != nil {
		where = append(where, "brand_id = ?")
		args = append(args, *f.BrandID)
	}
	if f.Gender != "" {
		where = append(where, "LOWER(gender) = LOWER(?)")
		args = append(args, f.Gender)
	}
	if f.MinPrice != nil {
		where = append(where, priceExpr+" >= ?")
		args = append(args, money(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, priceExpr+" <= ?")
		args = append(args, money(*f.MaxPrice))
	}
	if f.Search != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
	}
	q := `SELECT ` + productCols + `
	  FROM products
	  WHERE ` + strings.Join(where, " AND ") + `
	  ORDER BY id
	  LIMIT ? OFFSET ?`
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(q), args...)
	return out, err
}

// All returns every product, used by the admin export.
func (r *ProductRepo) All(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+productCols+` FROM products ORDER BY id`)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`SELECT `+productCols+` FROM products WHERE id = ?`), id)
	return p, notFound(err, "product")
}

// Details attaches variants and images to the given products with two queries.
func (r *ProductRepo) Details(ctx context.Context, products []domain.Product) ([]domain.ProductDetail, error) {
	out := make([]domain.ProductDetail, 0, len(products))
	if len(products) == 0 {
		return out, nil
	}
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	var variants []domain.Variant
	q, args, err := sqlx.In(`SELECT `+variantCols+` FROM product_variants WHERE product_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	if err := sqlx.SelectContext(ctx, r.db, &variants, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}

	var images []domain.ProductImage
	q, args, err = sqlx.In(`SELECT id, product_id, url FROM product_images WHERE product_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	if err := sqlx.SelectContext(ctx, r.db, &images, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}

	byProduct := make(map[int64]*domain.ProductDetail, len(products))
	for _, p := range products {
		out = append(out, domain.ProductDetail{Product: p, Variants: []domain.Variant{}, Images: []domain.ProductImage{}})
	}
	for i := range out {
		byProduct[out[i].ID] = &out[i]
	}
	for _, v := range variants {
		if d, ok := byProduct[v.ProductID]; ok {
			d.Variants = append(d.Variants, v)
		}
	}
	for _, im := range images {
		if d, ok := byProduct[im.ProductID]; ok {
			d.Images = append(d.Images, im)
		}
	}
	return out, nil
}

func (r *ProductRepo) Create(ctx context.Context, f ProductFields) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`
	  INSERT INTO products(name, category_id, brand_id, description, price, discount_price, gender, material)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	  RETURNING `+productCols),
		f.Name, f.CategoryID, f.BrandID, f.Description, money(f.Price), nullMoney(f.DiscountPrice), f.Gender, f.Material)
	if isForeignKeyViolation(err) {
		return p, domain.Invalid("unknown category or brand")
	}
	return p, err
}

func (r *ProductRepo) Update(ctx context.Context, id int64, p ProductPatch) (domain.Product, error) {
	var out domain.Product
	err := sqlx.GetContext(ctx, r.db, &out, r.db.Rebind(`
	  UPDATE products SET
	    name = COALESCE(?, name),
	    category_id = COALESCE(?, category_id),
	    brand_id = COALESCE(?, brand_id),
	    description = COALESCE(?, description),
	    price = COALESCE(?, price),
	    discount_price = COALESCE(?, discount_price),
	    gender = COALESCE(?, gender),
	    material = COALESCE(?, material),
	    updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	  RETURNING `+productCols),
		p.Name, p.CategoryID, p.BrandID, p.Description, optMoney(p.Price), optMoney(p.DiscountPrice), p.Gender, p.Material, id)
	if isForeignKeyViolation(err) {
		return out, domain.Invalid("unknown category or brand")
	}
	return out, notFound(err, "product")
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "product")
}

// ---------- Variants ----------

func (r *ProductRepo) Variant(ctx context.Context, id int64) (domain.Variant, error) {
	var v domain.Variant
	err := sqlx.GetContext(ctx, r.db, &v, r.db.Rebind(`SELECT `+variantCols+` FROM product_variants WHERE id = ?`), id)
	return v, notFound(err, "variant")
}

// EffectivePrice resolves the variant's current unit price, falling back to
// the product price when the variant carries none.
func (r *ProductRepo) EffectivePrice(ctx context.Context, variantID int64) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := sqlx.GetContext(ctx, r.db, &price, r.db.Rebind(`
	  SELECT COALESCE(v.price, p.price)
	  FROM product_variants v
	  JOIN products p ON p.id = v.product_id
	  WHERE v.id = ?
	`), variantID)
	return price, notFound(err, "variant")
}

func (r *ProductRepo) AddVariant(ctx context.Context, productID int64, f VariantFields) (domain.Variant, error) {
	var v domain.Variant
	err := sqlx.GetContext(ctx, r.db, &v, r.db.Rebind(`
	  INSERT INTO product_variants(product_id, size, color, quantity, price)
	  VALUES(?, ?, ?, ?, ?)
	  RETURNING `+variantCols), productID, f.Size, f.Color, f.Quantity, nullMoney(f.Price))
	if isForeignKeyViolation(err) {
		return v, domain.Missing("product")
	}
	return v, err
}

func (r *ProductRepo) UpdateVariant(ctx context.Context, productID, variantID int64, p VariantPatch) (domain.Variant, error) {
	var v domain.Variant
	err := sqlx.GetContext(ctx, r.db, &v, r.db.Rebind(`
	  UPDATE product_variants SET
	    size = COALESCE(?, size),
	    color = COALESCE(?, color),
	    quantity = COALESCE(?, quantity),
	    price = COALESCE(?, price)
	  WHERE id = ? AND product_id = ?
	  RETURNING `+variantCols), p.Size, p.Color, p.Quantity, optMoney(p.Price), variantID, productID)
	return v, notFound(err, "variant")
}

func (r *ProductRepo) DeleteVariant(ctx context.Context, productID, variantID int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM product_variants WHERE id = ? AND product_id = ?`), variantID, productID)
	if err != nil {
		return err
	}
	return mustAffect(res, "variant")
}

// ---------- Images ----------

func (r *ProductRepo) AddImage(ctx context.Context, productID int64, url string) (domain.ProductImage, error) {
	var im domain.ProductImage
	err := sqlx.GetContext(ctx, r.db, &im, r.db.Rebind(`
	  INSERT INTO product_images(product_id, url) VALUES(?, ?)
	  RETURNING id, product_id, url`), productID, url)
	if isForeignKeyViolation(err) {
		return im, domain.Missing("product")
	}
	return im, err
}

func (r *ProductRepo) DeleteImage(ctx context.Context, productID, imageID int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM product_images WHERE id = ? AND product_id = ?`), imageID, productID)
	if err != nil {
		return err
	}
	return mustAffect(res, "image")
}
