package repos

import "github.com/shopspring/decimal"

// Money is stored with two decimals so sqlite TEXT columns and postgres
// NUMERIC(10,2) columns hold the same representation.

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func nullMoney(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return money(d.Decimal)
}

func optMoney(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return money(*d)
}

func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
