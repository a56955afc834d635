package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
)

type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
    id, reference, user_id, total_amount, status, payment_status,
    COALESCE(shipping_address,'') AS shipping_address,
    CAST(created_at AS TEXT) AS created_at, CAST(updated_at AS TEXT) AS updated_at`

const orderItemCols = `id, order_id, product_id, variant_id, quantity, price`

// Create inserts a new order header in Pending/Unpaid state.
func (r *OrderRepo) Create(ctx context.Context, userID int64, reference string, total decimal.Decimal, shipping string) (domain.Order, error) {
	var o domain.Order
	err := sqlx.GetContext(ctx, r.db, &o, r.db.Rebind(`
	  INSERT INTO orders(reference, user_id, total_amount, status, payment_status, shipping_address)
	  VALUES(?, ?, ?, ?, ?, ?)
	  RETURNING `+orderCols),
		reference, userID, money(total), string(domain.OrderPending), string(domain.PaymentUnpaid), shipping)
	return o, err
}

// InsertItem writes one price-snapshot line.
func (r *OrderRepo) InsertItem(ctx context.Context, orderID, productID, variantID int64, qty int, price decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO order_items(order_id, product_id, variant_id, quantity, price)
	  VALUES(?, ?, ?, ?, ?)
	`), orderID, productID, variantID, qty, money(price))
	return err
}

func (r *OrderRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	err := sqlx.GetContext(ctx, r.db, &o, r.db.Rebind(`SELECT `+orderCols+` FROM orders WHERE id = ?`), id)
	return o, notFound(err, "order")
}

func (r *OrderRepo) Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
	  SELECT `+orderItemCols+` FROM order_items WHERE order_id = ? ORDER BY id
	`), orderID)
	return out, err
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
	  SELECT `+orderCols+` FROM orders WHERE user_id = ? ORDER BY id DESC
	`), userID)
	return out, err
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+orderCols+` FROM orders ORDER BY id DESC`)
	return out, err
}

// UpdateStatus sets the order status and, when given, the payment status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, payment *domain.PaymentStatus) (domain.Order, error) {
	var ps any
	if payment != nil {
		ps = string(*payment)
	}
	var o domain.Order
	err := sqlx.GetContext(ctx, r.db, &o, r.db.Rebind(`
	  UPDATE orders SET
	    status = ?,
	    payment_status = COALESCE(?, payment_status),
	    updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	  RETURNING `+orderCols), string(status), ps, id)
	return o, notFound(err, "order")
}
