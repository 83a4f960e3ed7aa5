package pricing

import "github.com/shopspring/decimal"

// Resolve applies the rate fallback chain: estimate override, then tenant
// default, then zero.
func Resolve(override, tenantDefault *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	if tenantDefault != nil {
		return *tenantDefault
	}
	return decimal.Zero
}

func HourlyRate(e Estimate, d Defaults) decimal.Decimal {
	return Resolve(e.HourlyRate, d.HourlyRate)
}

func TipPerWaiter(e Estimate, d Defaults) decimal.Decimal {
	return Resolve(e.TipPerWaiter, d.TipPerWaiter)
}

func DishesPerPerson(e Estimate, d Defaults) decimal.Decimal {
	return Resolve(e.DishesPerPerson, d.DishesPerPerson)
}

func DishesFlatFee(e Estimate, d Defaults) decimal.Decimal {
	return Resolve(e.DishesFlatFee, d.DishesFlatFee)
}
