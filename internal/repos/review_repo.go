package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type ReviewRepo struct{ db sqlx.ExtContext }

func NewReviewRepo(db sqlx.ExtContext) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewCols = `id, user_id, product_id, order_id, rating, COALESCE(comment,'') AS comment, CAST(created_at AS TEXT) AS created_at`

// PurchaseProof returns the id of an order of userID containing productID.
// Any matching order is acceptable; ok is false when none exists.
func (r *ReviewRepo) PurchaseProof(ctx context.Context, userID, productID int64) (orderID int64, ok bool, err error) {
	err = sqlx.GetContext(ctx, r.db, &orderID, r.db.Rebind(`
	  SELECT o.id
	  FROM order_items oi
	  JOIN orders o ON o.id = oi.order_id
	  WHERE o.user_id = ? AND oi.product_id = ?
	  LIMIT 1
	`), userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return orderID, true, nil
}

func (r *ReviewRepo) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, r.db.Rebind(`
	  SELECT COUNT(*) FROM reviews WHERE user_id = ? AND product_id = ?
	`), userID, productID)
	return n > 0, err
}

// Create inserts a review; the (user, product) unique index turns a racing
// duplicate into domain.ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, userID, productID, orderID int64, rating int, comment string) (domain.Review, error) {
	var rv domain.Review
	err := sqlx.GetContext(ctx, r.db, &rv, r.db.Rebind(`
	  INSERT INTO reviews(user_id, product_id, order_id, rating, comment)
	  VALUES(?, ?, ?, ?, ?)
	  RETURNING `+reviewCols), userID, productID, orderID, rating, comment)
	if isUniqueViolation(err) {
		return rv, domain.ErrDuplicateReview
	}
	return rv, err
}

func (r *ReviewRepo) ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	out := []domain.Review{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
	  SELECT `+reviewCols+` FROM reviews WHERE product_id = ? ORDER BY id DESC
	`), productID)
	return out, err
}

func (r *ReviewRepo) ListAll(ctx context.Context) ([]domain.Review, error) {
	out := []domain.Review{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+reviewCols+` FROM reviews ORDER BY id DESC`)
	return out, err
}

func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM reviews WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "review")
}

func (r *ReviewRepo) ByID(ctx context.Context, id int64) (domain.Review, error) {
	var rv domain.Review
	err := sqlx.GetContext(ctx, r.db, &rv, r.db.Rebind(`SELECT `+reviewCols+` FROM reviews WHERE id = ?`), id)
	return rv, notFound(err, "review")
}
