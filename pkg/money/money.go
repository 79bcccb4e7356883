package money

import "github.com/shopspring/decimal"

// Ledger precision: 2 fraction digits, half-up.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Round rounds d to the ledger precision. decimal.Round is half away
// from zero, which equals half-up for the non-negative amounts the
// ledger carries.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Percent returns base × pct / 100 rounded to the ledger precision.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(pct).Div(hundred))
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
