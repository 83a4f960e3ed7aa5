package pricing

import "github.com/shopspring/decimal"

// Totals are the derived money fields stored on an estimate.
type Totals struct {
	FoodPricePerPerson decimal.Decimal
	ExtrasTotal        decimal.Decimal
	StaffTotal         decimal.Decimal
	DishesTotal        decimal.Decimal
	GrandTotal         decimal.Decimal
	DepositAmount      decimal.Decimal
	BalanceDue         decimal.Decimal
}

// FoodTotal is the food subtotal the grand total was built from.
func (t Totals) FoodTotal() decimal.Decimal {
	return t.GrandTotal.Sub(t.ExtrasTotal).Sub(t.StaffTotal).Sub(t.DishesTotal)
}

// RecalcTotals computes the stored totals of an estimate. Unsaved estimates
// get all-zero totals. The result depends only on its inputs, so repeating
// the call without changes returns identical values.
func RecalcTotals(e Estimate, cat Catalog, d Defaults) Totals {
	if !e.Persisted() {
		return Totals{}
	}
	return totalsFrom(e, cat, d, MealSections(e, cat))
}

func totalsFrom(e Estimate, cat Catalog, d Defaults, sections []MealSection) Totals {
	foodPP := FoodPricePerPerson(sections)
	extras := ExtrasTotal(e, cat)
	staff := StaffTotal(e, d)
	dishes := DishesTotal(e, d)

	foodTotal := foodPP.Mul(decimal.NewFromInt(int64(nonNegative(e.Adults))))
	grand := Round2(foodTotal.Add(extras).Add(staff).Add(dishes))
	deposit := Round2(grand.Mul(e.DepositPercentage).Div(hundred))
	balance := Round2(grand.Sub(deposit))

	return Totals{
		FoodPricePerPerson: foodPP,
		ExtrasTotal:        extras,
		StaffTotal:         staff,
		DishesTotal:        dishes,
		GrandTotal:         grand,
		DepositAmount:      deposit,
		BalanceDue:         balance,
	}
}

// Breakdown is everything the presentation layer shows for an estimate.
type Breakdown struct {
	Totals         Totals
	FoodTotal      decimal.Decimal
	Sections       []MealSection
	BaseWaiters    int
	Waiters        int
	MealGrandTotal decimal.Decimal
}

// Calculate runs the sectioning once and derives totals and staffing from
// it. Totals match RecalcTotals for the same inputs.
func Calculate(e Estimate, cat Catalog, d Defaults) Breakdown {
	sections := MealSections(e, cat)
	b := Breakdown{
		Sections:       sections,
		BaseWaiters:    BaseWaiterCount(e.Adults),
		Waiters:        WaiterCount(e.Adults, e.ExtraWaiters),
		MealGrandTotal: MealGrandTotal(sections),
	}
	if e.Persisted() {
		b.Totals = totalsFrom(e, cat, d, sections)
		b.FoodTotal = b.Totals.FoodTotal()
	}
	return b
}
