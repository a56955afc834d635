package domain

import "github.com/shopspring/decimal"

type Cart struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ID        int64 `db:"id" json:"id"`
	CartID    int64 `db:"cart_id" json:"cart_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	VariantID int64 `db:"variant_id" json:"variant_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
}

// CartLine is a cart item joined with the live catalog for display.
type CartLine struct {
	CartItem
	ProductName string          `db:"product_name" json:"product_name"`
	Size        string          `db:"size" json:"size"`
	Color       string          `db:"color" json:"color"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal    decimal.Decimal `db:"-" json:"subtotal"`
}

type CartView struct {
	Cart     Cart            `json:"cart"`
	Items    []CartLine      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// MaxItemQuantity caps the quantity of a single cart line.
const MaxItemQuantity = 10000
