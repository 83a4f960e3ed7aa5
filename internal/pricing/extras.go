package pricing

import "github.com/shopspring/decimal"

// ExtrasTotal sums the extra lines. An override price is taken verbatim;
// otherwise price x quantity, further multiplied by the adult count for
// per-person extras. Lines pointing at unknown extras contribute nothing
// unless they carry an override.
func ExtrasTotal(e Estimate, cat Catalog) decimal.Decimal {
	total := decimal.Zero
	adults := decimal.NewFromInt(int64(nonNegative(e.Adults)))
	for _, line := range e.Lines {
		if line.OverridePrice != nil {
			total = total.Add(*line.OverridePrice)
			continue
		}
		extra, ok := cat.ExtraItem(line.ExtraID)
		if !ok {
			continue
		}
		price := extra.Price.Mul(line.Quantity)
		if extra.ChargeType == ChargePerPerson {
			price = price.Mul(adults)
		}
		total = total.Add(price)
	}
	return Round2(total)
}
