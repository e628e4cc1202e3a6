package domain

import "github.com/shopspring/decimal"

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.NewFromInt(MaxAmountCents)
)

// ToCents converts a dollar amount to integer cents, rounding half to even.
// Amounts with at most two fractional digits convert exactly.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).RoundBank(0).IntPart()
}

// ExceedsMaxAmount reports whether amount, once in cents, would not fit the
// amount column. It compares in decimal so nothing wraps.
func ExceedsMaxAmount(amount decimal.Decimal) bool {
	return amount.Mul(hundred).RoundBank(0).GreaterThan(maxAmount)
}

// FromCents renders cents as a dollar string with two decimals.
func FromCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
