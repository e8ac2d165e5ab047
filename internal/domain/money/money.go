// Package money holds the amount limits shared by the ledger tables.
package money

import "github.com/shopspring/decimal"

// MaxAmount is the largest value a NUMERIC(12, 2) column stores.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ValidAmount reports whether amount, rounded to cents, is positive and fits
// the amount columns.
func ValidAmount(amount decimal.Decimal) bool {
	rounded := amount.Round(2)
	return rounded.IsPositive() && rounded.LessThanOrEqual(MaxAmount)
}

// Fits reports whether a running total still fits the total columns.
func Fits(total decimal.Decimal) bool {
	return total.LessThanOrEqual(MaxAmount)
}
