package domain

import "github.com/shopspring/decimal"

type User struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Email     string `db:"email" json:"email"`
	Hash      string `db:"password_hash" json:"-"`
	IsAdmin   bool   `db:"is_admin" json:"is_admin"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Identity is what the auth layer hands to the core for protected operations.
type Identity struct {
	UserID  int64
	IsAdmin bool
}

type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

type Brand struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Country string `db:"country" json:"country"`
}

type Product struct {
	ID            int64               `db:"id" json:"id"`
	Name          string              `db:"name" json:"name"`
	CategoryID    *int64              `db:"category_id" json:"category_id"`
	BrandID       *int64              `db:"brand_id" json:"brand_id"`
	Description   string              `db:"description" json:"description"`
	Price         decimal.Decimal     `db:"price" json:"price"`
	DiscountPrice decimal.NullDecimal `db:"discount_price" json:"discount_price"`
	Gender        string              `db:"gender" json:"gender"`
	Material      string              `db:"material" json:"material"`
	CreatedAt     string              `db:"created_at" json:"created_at"`
	UpdatedAt     string              `db:"updated_at" json:"updated_at"`
}

// Variant is a purchasable SKU. Price, when set, overrides the product price.
type Variant struct {
	ID        int64               `db:"id" json:"id"`
	ProductID int64               `db:"product_id" json:"product_id"`
	Size      string              `db:"size" json:"size"`
	Color     string              `db:"color" json:"color"`
	Quantity  int                 `db:"quantity" json:"quantity"`
	Price     decimal.NullDecimal `db:"price" json:"price"`
}

type ProductImage struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	URL       string `db:"url" json:"url"`
}

type ProductDetail struct {
	Product
	Variants []Variant      `json:"variants"`
	Images   []ProductImage `json:"images"`
}

// ProductFilter drives the public product listing.
type ProductFilter struct {
	CategoryID *int64
	BrandID    *int64
	Gender     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Page       int
	Limit      int
}

type Review struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	OrderID   *int64 `db:"order_id" json:"order_id"`
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Coupon struct {
	ID                 int64  `db:"id" json:"id"`
	Code               string `db:"code" json:"code"`
	DiscountPercentage int    `db:"discount_percentage" json:"discount_percentage"`
	ValidFrom          string `db:"valid_from" json:"valid_from,omitempty"`
	ValidTo            string `db:"valid_to" json:"valid_to,omitempty"`
	UsageLimit         int    `db:"usage_limit" json:"usage_limit"`
}
