package services

import (
	"context"
	"strings"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

// CouponService administers coupon records. Coupons are not applied to
// checkout totals.
type CouponService struct {
	Coupons *repos.CouponRepo
}

func NewCouponService(coupons *repos.CouponRepo) *CouponService {
	return &CouponService{Coupons: coupons}
}

func (s *CouponService) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.Coupons.List(ctx)
}

// Create normalizes the code to upper case and checks the validity window.
func (s *CouponService) Create(ctx context.Context, c domain.Coupon) (domain.Coupon, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return domain.Coupon{}, domain.Invalid("code value missing")
	}
	if c.DiscountPercentage < 1 || c.DiscountPercentage > 100 {
		return domain.Coupon{}, domain.Invalid("discount_percentage must be between 1 and 100")
	}
	if c.UsageLimit == 0 {
		c.UsageLimit = 1
	}
	if c.UsageLimit < 0 {
		return domain.Coupon{}, domain.Invalid("usage_limit must be at least 1")
	}
	from, err := parseDate("valid_from", c.ValidFrom)
	if err != nil {
		return domain.Coupon{}, err
	}
	to, err := parseDate("valid_to", c.ValidTo)
	if err != nil {
		return domain.Coupon{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return domain.Coupon{}, domain.Invalid("valid_to must not be before valid_from")
	}
	c.ValidFrom, c.ValidTo = formatDate(from), formatDate(to)
	return s.Coupons.Create(ctx, c)
}

func (s *CouponService) Delete(ctx context.Context, id int64) error {
	return s.Coupons.Delete(ctx, id)
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Invalid("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", field)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateTime)
}
