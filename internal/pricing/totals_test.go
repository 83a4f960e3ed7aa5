package pricing

import (
	"fmt"
	"testing"
)

func singleItemEstimate() (Estimate, MapCatalog) {
	cat := MapCatalog{Items: map[string]MenuItem{
		"main": {ID: "main", Name: "Main", Category: "Mains", CostPerServing: dec("10.00"), Markup: dec("3.00"), DefaultServings: dec("1.0")},
	}}
	e := Estimate{
		ID:                "est-1",
		Adults:            20,
		DepositPercentage: dec("30"),
		Choices:           []FoodChoice{{ItemID: "main", Included: true}},
	}
	return e, cat
}

func TestRecalcTotals_EndToEnd(t *testing.T) {
	e, cat := singleItemEstimate()

	got := RecalcTotals(e, cat, Defaults{})

	assertMoney(t, "FoodPricePerPerson", got.FoodPricePerPerson, "30.00")
	assertMoney(t, "FoodTotal", got.FoodTotal(), "600.00")
	assertMoney(t, "ExtrasTotal", got.ExtrasTotal, "0")
	assertMoney(t, "StaffTotal", got.StaffTotal, "0")
	assertMoney(t, "DishesTotal", got.DishesTotal, "0")
	assertMoney(t, "GrandTotal", got.GrandTotal, "600.00")
	assertMoney(t, "DepositAmount", got.DepositAmount, "180.00")
	assertMoney(t, "BalanceDue", got.BalanceDue, "420.00")
}

func TestRecalcTotals_FullEstimate(t *testing.T) {
	e := multiMealEstimate()
	e.Adults = 60
	e.StaffHours = dec("6")
	e.WantsRealDishes = true
	e.DepositPercentage = dec("25")
	e.Lines = []ExtraLine{
		{ExtraID: "favors", Quantity: dec("1")},
		{ExtraID: "popcorn", Quantity: dec("1")},
	}
	d := Defaults{HourlyRate: decPtr("50"), TipPerWaiter: decPtr("80"), DishesPerPerson: decPtr("16"), DishesFlatFee: decPtr("400")}

	got := RecalcTotals(e, testCatalog(), d)

	// food 41.00 x 60 = 2460.00, extras 300 + 5, staff 1140, dishes 1360
	assertMoney(t, "FoodPricePerPerson", got.FoodPricePerPerson, "41.00")
	assertMoney(t, "ExtrasTotal", got.ExtrasTotal, "305.00")
	assertMoney(t, "StaffTotal", got.StaffTotal, "1140.00")
	assertMoney(t, "DishesTotal", got.DishesTotal, "1360.00")
	assertMoney(t, "GrandTotal", got.GrandTotal, "5265.00")
	assertMoney(t, "DepositAmount", got.DepositAmount, "1316.25")
	assertMoney(t, "BalanceDue", got.BalanceDue, "3948.75")
}

func TestRecalcTotals_Idempotent(t *testing.T) {
	e := multiMealEstimate()
	e.DepositPercentage = dec("33.33")
	e.StaffHours = dec("4.75")
	e.ManualMealPrices = map[string]string{"Shabbos Lunch": "17.333"}
	d := Defaults{HourlyRate: decPtr("47.35"), TipPerWaiter: decPtr("12.10")}

	first := RecalcTotals(e, testCatalog(), d)
	second := RecalcTotals(e, testCatalog(), d)

	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Errorf("RecalcTotals not idempotent:\n first=%v\nsecond=%v", first, second)
	}
}

func TestRecalcTotals_Invariants(t *testing.T) {
	cat := testCatalog()
	d := Defaults{HourlyRate: decPtr("47.35"), TipPerWaiter: decPtr("12.10"), DishesPerPerson: decPtr("16.99"), DishesFlatFee: decPtr("400")}
	deposits := []string{"0", "12.5", "30", "33.33", "66.67", "99.99", "100"}

	for _, adults := range []int{0, 1, 37, 101, 263} {
		for _, deposit := range deposits {
			for _, aLaCarte := range []bool{false, true} {
				name := fmt.Sprintf("adults=%d deposit=%s alacarte=%v", adults, deposit, aLaCarte)
				t.Run(name, func(t *testing.T) {
					e := multiMealEstimate()
					e.Adults = adults
					e.Kids = 3
					e.DepositPercentage = dec(deposit)
					e.ALaCarte = aLaCarte
					e.WantsRealDishes = true
					e.StaffHours = dec("5.25")
					e.ExtraWaiters = 1
					e.ManualMealPrices = map[string]string{"Shabbos Lunch": "9.999"}
					e.Lines = []ExtraLine{
						{ExtraID: "favors", Quantity: dec("1.5")},
						{ExtraID: "projector", Quantity: dec("1"), OverridePrice: decPtr("333.33")},
					}

					got := RecalcTotals(e, cat, d)

					food := got.FoodPricePerPerson.Mul(dec(fmt.Sprint(adults)))
					sum := food.Add(got.ExtrasTotal).Add(got.StaffTotal).Add(got.DishesTotal)
					if !got.GrandTotal.Equal(sum) {
						t.Errorf("grand %s != parts %s", got.GrandTotal, sum)
					}
					if !got.DepositAmount.Add(got.BalanceDue).Equal(got.GrandTotal) {
						t.Errorf("deposit %s + balance %s != grand %s", got.DepositAmount, got.BalanceDue, got.GrandTotal)
					}
					if aLaCarte && (!got.StaffTotal.IsZero() || !got.DishesTotal.IsZero()) {
						t.Errorf("a la carte should zero staff and dishes, got %s / %s", got.StaffTotal, got.DishesTotal)
					}
					for _, v := range []string{got.GrandTotal.String(), got.DepositAmount.String(), got.BalanceDue.String()} {
						if !dec(v).Equal(Round2(dec(v))) {
							t.Errorf("%s is not a whole number of cents", v)
						}
					}
				})
			}
		}
	}
}

func TestRecalcTotals_UnsavedEstimate(t *testing.T) {
	e, cat := singleItemEstimate()
	e.ID = ""
	e.WantsRealDishes = true

	got := RecalcTotals(e, cat, Defaults{DishesFlatFee: decPtr("400")})

	if fmt.Sprint(got) != fmt.Sprint(Totals{}) {
		t.Errorf("expected zero totals for unsaved estimate, got %v", got)
	}
}

func TestCalculate(t *testing.T) {
	e := multiMealEstimate()
	e.Adults = 76
	e.ExtraWaiters = 2
	e.DepositPercentage = dec("30")
	d := Defaults{}

	b := Calculate(e, testCatalog(), d)

	if b.BaseWaiters != 4 || b.Waiters != 6 {
		t.Errorf("waiters = %d/%d, want 4/6", b.BaseWaiters, b.Waiters)
	}
	if len(b.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(b.Sections))
	}
	if fmt.Sprint(b.Totals) != fmt.Sprint(RecalcTotals(e, testCatalog(), d)) {
		t.Errorf("Calculate totals differ from RecalcTotals")
	}
	assertMoney(t, "FoodTotal", b.FoodTotal, "3116.00")
}
