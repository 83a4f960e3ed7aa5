// Package pricing turns an estimate snapshot into priced meal sections and
// the stored monetary totals of an estimate.
//
// Everything in this package is pure: no I/O, no shared state. Callers load
// the estimate, its selections and the tenant defaults, then persist the
// returned totals themselves.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds an amount to cents, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PerGuest divides an amount across a guest count, rounded to cents.
// A zero or negative count yields zero instead of a division error.
func PerGuest(amount decimal.Decimal, guests int) decimal.Decimal {
	if guests <= 0 {
		return decimal.Zero
	}
	return Round2(amount.Div(decimal.NewFromInt(int64(guests))))
}

// Convert applies a manual exchange rate to an amount for display in the
// estimate's currency. Rates that are zero or negative are treated as 1.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return Round2(amount)
	}
	return Round2(amount.Mul(rate))
}

// parseOverride reads a manual per-meal price. Blank or non-numeric values
// report ok=false so the computed price is kept.
func parseOverride(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return Round2(d), true
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
