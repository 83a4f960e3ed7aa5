package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

// optDec returns nil for an empty string.
func optDec(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	return decPtr(s)
}

func intPtr(n int) *int {
	return &n
}

func assertMoney(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", label, got.StringFixed(2), want)
	}
}

// testCatalog has a plain main, a dessert, a kids item and two extras.
func testCatalog() MapCatalog {
	return MapCatalog{
		Items: map[string]MenuItem{
			"brisket": {ID: "brisket", Name: "Brisket", Category: "Mains", CostPerServing: dec("10.00"), Markup: dec("3.00"), DefaultServings: dec("1.00")},
			"salad":   {ID: "salad", Name: "Garden Salad", Category: "Starters", CostPerServing: dec("2.50"), Markup: dec("2.00"), DefaultServings: dec("1.00")},
			"nuggets": {ID: "nuggets", Name: "Chicken Nuggets", Category: "Kids Menu", CostPerServing: dec("3.00"), Markup: dec("2.00"), DefaultServings: dec("1.00")},
			"bread":   {ID: "bread", Name: "Challah", CostPerServing: dec("1.00"), Markup: dec("3.00"), DefaultServings: dec("0.50")},
		},
		Extras: map[string]ExtraItem{
			"popcorn":   {ID: "popcorn", Name: "Popcorn Machine", ChargeType: ChargePerEvent, Price: dec("5.00")},
			"favors":    {ID: "favors", Name: "Favors", ChargeType: ChargePerPerson, Price: dec("5.00")},
			"projector": {ID: "projector", Name: "Projector", ChargeType: ChargePerEvent, Price: dec("400.00")},
		},
	}
}
