package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func multiMealEstimate() Estimate {
	return Estimate{
		ID:       "est-1",
		Adults:   20,
		Kids:     5,
		MealPlan: []string{"Friday Dinner", "Shabbos Lunch"},
		Choices: []FoodChoice{
			{ItemID: "brisket", MealName: "", Included: true},
			{ItemID: "salad", MealName: "Friday Dinner", Included: true},
			{ItemID: "nuggets", MealName: "Friday Dinner", Included: true},
			{ItemID: "bread", MealName: "Shabbos Lunch", Included: true, Servings: decPtr("2")},
			{ItemID: "salad", MealName: "Shabbos Lunch", Included: false},
			{ItemID: "brisket", MealName: "Sunday Brunch", Included: true},
			{ItemID: "missing", MealName: "Shabbos Lunch", Included: true},
		},
	}
}

func TestMealSections(t *testing.T) {
	sections := MealSections(multiMealEstimate(), testCatalog())
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	t.Run("first meal collects blank meal names", func(t *testing.T) {
		s := sections[0]
		if s.Name != "Friday Dinner" {
			t.Errorf("Name = %q, want Friday Dinner", s.Name)
		}
		assertMoney(t, "PricePerGuest", s.PricePerGuest, "35.00")
		assertMoney(t, "PricePerChild", s.PricePerChild, "6.00")
		assertMoney(t, "Total", s.Total, "700.00")
		assertMoney(t, "KidsTotal", s.KidsTotal, "30.00")

		if len(s.Categories) != 2 || s.Categories[0].Name != "Mains" || s.Categories[1].Name != "Starters" {
			t.Errorf("Categories = %+v, want Mains then Starters", s.Categories)
		}
		if len(s.KidsCategories) != 1 || s.KidsCategories[0].Name != "Kids Menu (Kids)" {
			t.Errorf("KidsCategories = %+v, want Kids Menu (Kids)", s.KidsCategories)
		}
	})

	t.Run("second meal uses servings override and default category", func(t *testing.T) {
		s := sections[1]
		assertMoney(t, "PricePerGuest", s.PricePerGuest, "6.00")
		assertMoney(t, "Total", s.Total, "120.00")
		assertMoney(t, "KidsTotal", s.KidsTotal, "0")
		if len(s.Categories) != 1 || s.Categories[0].Name != UncategorisedName {
			t.Fatalf("Categories = %+v, want single %q group", s.Categories, UncategorisedName)
		}
		line := s.Categories[0].Lines[0]
		assertMoney(t, "line servings", line.Servings, "2")
		assertMoney(t, "line price", line.PricePerGuest, "6.00")
	})

	t.Run("rollups", func(t *testing.T) {
		assertMoney(t, "FoodPricePerPerson", FoodPricePerPerson(sections), "41.00")
		assertMoney(t, "MealGrandTotal", MealGrandTotal(sections), "850.00")
	})
}

func TestMealSections_RoundsOncePerBucket(t *testing.T) {
	cat := MapCatalog{Items: map[string]MenuItem{}}
	var choices []FoodChoice
	for _, id := range []string{"a", "b", "c"} {
		cat.Items[id] = MenuItem{ID: id, Name: id, Category: "Sides", CostPerServing: dec("0.005"), Markup: dec("1"), DefaultServings: dec("1")}
		choices = append(choices, FoodChoice{ItemID: id, Included: true})
	}
	e := Estimate{ID: "est", Adults: 1, Choices: choices}

	sections := MealSections(e, cat)
	// 0.015 rounds to 0.02; rounding each item first would give 0.03.
	assertMoney(t, "PricePerGuest", sections[0].PricePerGuest, "0.02")
}

func TestMealSections_ManualOverride(t *testing.T) {
	cat := MapCatalog{Items: map[string]MenuItem{
		"roast":   {ID: "roast", Name: "Roast", Category: "Mains", CostPerServing: dec("12.50"), Markup: dec("2"), DefaultServings: dec("1")},
		"nuggets": {ID: "nuggets", Name: "Nuggets", Category: "KIDS", CostPerServing: dec("3"), Markup: dec("2"), DefaultServings: dec("1")},
	}}
	base := Estimate{
		ID:     "est",
		Adults: 10,
		Kids:   4,
		Choices: []FoodChoice{
			{ItemID: "roast", Included: true},
			{ItemID: "nuggets", Included: true},
		},
	}

	tests := []struct {
		name          string
		override      string
		wantPerGuest  string
		wantTotal     string
		wantKidsTotal string
	}{
		{"no override", "", "25.00", "250.00", "24.00"},
		{"override replaces adult price", "30", "30.00", "300.00", "24.00"},
		{"override is rounded", "30.555", "30.56", "305.60", "24.00"},
		{"malformed override ignored", "thirty", "25.00", "250.00", "24.00"},
		{"blank override ignored", "   ", "25.00", "250.00", "24.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			e.ManualMealPrices = map[string]string{DefaultMealName: tt.override}
			s := MealSections(e, cat)[0]
			assertMoney(t, "PricePerGuest", s.PricePerGuest, tt.wantPerGuest)
			assertMoney(t, "Total", s.Total, tt.wantTotal)
			assertMoney(t, "PricePerChild", s.PricePerChild, "6.00")
			assertMoney(t, "KidsTotal", s.KidsTotal, tt.wantKidsTotal)
		})
	}
}

func TestMealSections_MealGuestOverride(t *testing.T) {
	e := multiMealEstimate()
	e.MealGuests = map[string]MealGuests{
		"Friday Dinner": {Adults: intPtr(8)},
		"Shabbos Lunch": {Kids: intPtr(2)},
	}

	sections := MealSections(e, testCatalog())
	assertMoney(t, "Friday Total", sections[0].Total, "280.00")
	assertMoney(t, "Friday KidsTotal", sections[0].KidsTotal, "30.00")
	if sections[1].Adults != 20 || sections[1].Kids != 2 {
		t.Errorf("Shabbos counts = %d/%d, want 20/2", sections[1].Adults, sections[1].Kids)
	}
	// The per-person rollup ignores guest overrides.
	assertMoney(t, "FoodPricePerPerson", FoodPricePerPerson(sections), "41.00")
}

func TestMealSections_UnsavedEstimate(t *testing.T) {
	e := multiMealEstimate()
	e.ID = ""

	sections := MealSections(e, testCatalog())
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	for i, want := range []string{"Friday Dinner", "Shabbos Lunch"} {
		s := sections[i]
		if s.Name != want {
			t.Errorf("section %d name = %q, want %q", i, s.Name, want)
		}
		if s.Categories == nil || len(s.Categories) != 0 || s.KidsCategories == nil || len(s.KidsCategories) != 0 {
			t.Errorf("section %d should have empty, non-nil category lists", i)
		}
		for _, v := range []decimal.Decimal{s.PricePerGuest, s.PricePerChild, s.Total, s.KidsTotal} {
			if !v.IsZero() {
				t.Errorf("section %d has non-zero amount %s", i, v)
			}
		}
	}
}
