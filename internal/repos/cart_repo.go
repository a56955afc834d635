package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type CartRepo struct{ db sqlx.ExtContext }

func NewCartRepo(db sqlx.ExtContext) *CartRepo { return &CartRepo{db: db} }

const cartCols = `id, user_id, CAST(created_at AS TEXT) AS created_at, CAST(updated_at AS TEXT) AS updated_at`

// EnsureCart returns the user's cart, creating it on first use. When lock is
// set the cart row is locked for the rest of the surrounding transaction.
func (r *CartRepo) EnsureCart(ctx context.Context, userID int64, lock bool) (domain.Cart, error) {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO carts(user_id) VALUES(?)
	  ON CONFLICT(user_id) DO NOTHING
	`), userID); err != nil {
		return domain.Cart{}, err
	}
	q := `SELECT ` + cartCols + ` FROM carts WHERE user_id = ?`
	if lock {
		q += forUpdate(r.db)
	}
	var c domain.Cart
	err := sqlx.GetContext(ctx, r.db, &c, r.db.Rebind(q), userID)
	return c, err
}

// UpsertItem adds qty to the line for variantID, inserting it when absent.
// An increment that would push the line past domain.MaxItemQuantity is rejected.
func (r *CartRepo) UpsertItem(ctx context.Context, cartID, productID, variantID int64, qty int) (domain.CartItem, error) {
	var it domain.CartItem
	err := sqlx.GetContext(ctx, r.db, &it, r.db.Rebind(`
	  INSERT INTO cart_items(cart_id, product_id, variant_id, quantity)
	  VALUES(?, ?, ?, ?)
	  ON CONFLICT(cart_id, variant_id) DO UPDATE
	  SET quantity = cart_items.quantity + excluded.quantity
	  WHERE cart_items.quantity + excluded.quantity <= ?
	  RETURNING id, cart_id, product_id, variant_id, quantity
	`), cartID, productID, variantID, qty, domain.MaxItemQuantity)
	if errors.Is(err, sql.ErrNoRows) {
		return it, domain.Invalid("quantity must be at most %d per line", domain.MaxItemQuantity)
	}
	if err != nil {
		return it, err
	}
	return it, r.touch(ctx, cartID)
}

// SetQty replaces the quantity of an item only if it belongs to cartID.
func (r *CartRepo) SetQty(ctx context.Context, cartID, itemID int64, qty int) (domain.CartItem, error) {
	var it domain.CartItem
	err := sqlx.GetContext(ctx, r.db, &it, r.db.Rebind(`
	  UPDATE cart_items SET quantity = ?
	  WHERE id = ? AND cart_id = ?
	  RETURNING id, cart_id, product_id, variant_id, quantity
	`), qty, itemID, cartID)
	if err != nil {
		return it, notFound(err, "cart item")
	}
	return it, r.touch(ctx, cartID)
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM cart_items WHERE id = ? AND cart_id = ?`), itemID, cartID)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "cart item"); err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

// Clear empties the cart; the cart row itself is kept.
func (r *CartRepo) Clear(ctx context.Context, cartID int64) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM cart_items WHERE cart_id = ?`), cartID); err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

// Lines joins each item with the catalog; unit_price is the variant price,
// falling back to the product price.
func (r *CartRepo) Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	out := []domain.CartLine{}
	if err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
	  SELECT ci.id, ci.cart_id, ci.product_id, ci.variant_id, ci.quantity,
	         p.name AS product_name,
	         COALESCE(v.size,'') AS size, COALESCE(v.color,'') AS color,
	         COALESCE(v.price, p.price) AS unit_price
	  FROM cart_items ci
	  JOIN product_variants v ON v.id = ci.variant_id
	  JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.id
	`), cartID); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Subtotal = out[i].UnitPrice.Mul(decimalInt(out[i].Quantity))
	}
	return out, nil
}

func (r *CartRepo) touch(ctx context.Context, cartID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`), cartID)
	return err
}

// Items returns the raw cart lines without catalog joins.
func (r *CartRepo) Items(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
	  SELECT id, cart_id, product_id, variant_id, quantity
	  FROM cart_items WHERE cart_id = ? ORDER BY id
	`), cartID)
	return out, err
}
