package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type CouponRepo struct{ db sqlx.ExtContext }

func NewCouponRepo(db sqlx.ExtContext) *CouponRepo { return &CouponRepo{db: db} }

const couponCols = `id, code, discount_percentage,
    COALESCE(CAST(valid_from AS TEXT),'') AS valid_from,
    COALESCE(CAST(valid_to AS TEXT),'') AS valid_to, usage_limit`

func (r *CouponRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	out := []domain.Coupon{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+couponCols+` FROM coupons ORDER BY id`)
	return out, err
}

// Create stores a coupon; empty validity bounds are stored as NULL.
func (r *CouponRepo) Create(ctx context.Context, c domain.Coupon) (domain.Coupon, error) {
	var out domain.Coupon
	err := sqlx.GetContext(ctx, r.db, &out, r.db.Rebind(`
	  INSERT INTO coupons(code, discount_percentage, valid_from, valid_to, usage_limit)
	  VALUES(?, ?, ?, ?, ?)
	  RETURNING `+couponCols), c.Code, c.DiscountPercentage, nullString(c.ValidFrom), nullString(c.ValidTo), c.UsageLimit)
	if isUniqueViolation(err) {
		return out, fmt.Errorf("%w: coupon code already exists", domain.ErrConflict)
	}
	return out, err
}

func (r *CouponRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM coupons WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "coupon")
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
