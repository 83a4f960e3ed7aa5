package pricing

import "github.com/shopspring/decimal"

// DishesTotal prices the real-dishes upgrade: per person x adults plus a
// flat fee. Zero for a-la-carte or when real dishes were not requested.
func DishesTotal(e Estimate, d Defaults) decimal.Decimal {
	if e.ALaCarte || !e.WantsRealDishes {
		return decimal.Zero
	}
	adults := decimal.NewFromInt(int64(nonNegative(e.Adults)))
	total := DishesPerPerson(e, d).Mul(adults).Add(DishesFlatFee(e, d))
	return Round2(total)
}
