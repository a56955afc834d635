package domain

import "github.com/shopspring/decimal"

// MaxAmount is the largest value a NUMERIC(10,2) money column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

// CheckAmount rejects negative amounts, amounts with sub-cent digits and
// amounts outside the storable range.
func CheckAmount(field string, d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return Invalid("%s must not be negative", field)
	case !d.Equal(d.Round(2)):
		return Invalid("%s must have at most 2 decimal places", field)
	case d.GreaterThan(MaxAmount):
		return Invalid("%s must be at most %s", field, MaxAmount.StringFixed(2))
	}
	return nil
}
