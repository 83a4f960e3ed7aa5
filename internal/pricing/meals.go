package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UncategorisedName labels menu items that have no category.
const UncategorisedName = "Chef's Selection"

// Line is one priced food choice inside a meal section.
type Line struct {
	ItemID   string
	Name     string
	Servings decimal.Decimal
	// PricePerGuest is servings x cost x markup for this item alone, rounded
	// for display. Section prices are summed unrounded.
	PricePerGuest decimal.Decimal
	Notes         string
}

// CategoryGroup is the display grouping of lines by category name.
type CategoryGroup struct {
	Name  string
	Lines []Line
}

// MealSection is one meal of the plan with its adult and kids buckets.
type MealSection struct {
	Name           string
	Categories     []CategoryGroup
	KidsCategories []CategoryGroup
	PricePerGuest  decimal.Decimal
	PricePerChild  decimal.Decimal
	Total          decimal.Decimal
	KidsTotal      decimal.Decimal
	// Adults and Kids are the counts the two totals were computed with.
	Adults int
	Kids   int
}

// MealSections prices every meal of the estimate's plan in plan order.
//
// A choice belongs to the kids bucket when its category name contains "kid"
// (any case). Bucket prices are summed over the bucket and rounded once. A
// parseable manual price for the meal replaces the adult price; the kids
// price is never overridden. An unsaved estimate gets empty, zero-priced
// sections so forms can show the plan before the first save.
func MealSections(e Estimate, cat Catalog) []MealSection {
	plan := NormalizeMealPlan(e.MealPlan)
	sections := make([]MealSection, 0, len(plan))
	if !e.Persisted() {
		for _, name := range plan {
			sections = append(sections, MealSection{
				Name:           name,
				Categories:     []CategoryGroup{},
				KidsCategories: []CategoryGroup{},
			})
		}
		return sections
	}

	defaultMeal := plan[0]
	for _, meal := range plan {
		adultGroups := newGroupSet()
		kidsGroups := newGroupSet()
		adultSum := decimal.Zero
		kidsSum := decimal.Zero

		for _, ch := range e.Choices {
			if !ch.Included || mealOf(ch, defaultMeal) != meal {
				continue
			}
			item, ok := cat.MenuItem(ch.ItemID)
			if !ok {
				continue
			}
			servings := item.DefaultServings
			if ch.Servings != nil && !ch.Servings.IsZero() {
				servings = *ch.Servings
			}
			price := servings.Mul(item.CostPerServing).Mul(item.Markup)
			line := Line{
				ItemID:        item.ID,
				Name:          item.Name,
				Servings:      servings,
				PricePerGuest: Round2(price),
				Notes:         ch.Notes,
			}
			category := item.Category
			if category == "" {
				category = UncategorisedName
			}
			if isKidsCategory(item.Category) {
				kidsGroups.add(category+" (Kids)", line)
				kidsSum = kidsSum.Add(price)
			} else {
				adultGroups.add(category, line)
				adultSum = adultSum.Add(price)
			}
		}

		pricePerGuest := Round2(adultSum)
		if override, ok := parseOverride(e.ManualMealPrices[meal]); ok {
			pricePerGuest = override
		}
		pricePerChild := Round2(kidsSum)

		adults, kids := mealGuests(e, meal)
		sections = append(sections, MealSection{
			Name:           meal,
			Categories:     adultGroups.groups(),
			KidsCategories: kidsGroups.groups(),
			PricePerGuest:  pricePerGuest,
			PricePerChild:  pricePerChild,
			Total:          Round2(pricePerGuest.Mul(decimal.NewFromInt(int64(adults)))),
			KidsTotal:      Round2(pricePerChild.Mul(decimal.NewFromInt(int64(kids)))),
			Adults:         adults,
			Kids:           kids,
		})
	}
	return sections
}

// FoodPricePerPerson sums the adult price-per-guest of every section.
// Kids prices are not part of this rollup.
func FoodPricePerPerson(sections []MealSection) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sections {
		total = total.Add(s.PricePerGuest)
	}
	return Round2(total)
}

// MealGrandTotal sums adult and kids totals over all sections.
func MealGrandTotal(sections []MealSection) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sections {
		total = total.Add(s.Total).Add(s.KidsTotal)
	}
	return Round2(total)
}

func mealOf(ch FoodChoice, defaultMeal string) string {
	if name := strings.TrimSpace(ch.MealName); name != "" {
		return name
	}
	return defaultMeal
}

func isKidsCategory(category string) bool {
	return strings.Contains(strings.ToLower(category), "kid")
}

func mealGuests(e Estimate, meal string) (adults, kids int) {
	adults, kids = nonNegative(e.Adults), nonNegative(e.Kids)
	override, ok := e.MealGuests[meal]
	if !ok {
		return adults, kids
	}
	if override.Adults != nil {
		adults = nonNegative(*override.Adults)
	}
	if override.Kids != nil {
		kids = nonNegative(*override.Kids)
	}
	return adults, kids
}

// groupSet keeps category groups in first-seen order.
type groupSet struct {
	order []string
	lines map[string][]Line
}

func newGroupSet() *groupSet {
	return &groupSet{lines: make(map[string][]Line)}
}

func (g *groupSet) add(name string, line Line) {
	if _, ok := g.lines[name]; !ok {
		g.order = append(g.order, name)
	}
	g.lines[name] = append(g.lines[name], line)
}

func (g *groupSet) groups() []CategoryGroup {
	out := make([]CategoryGroup, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, CategoryGroup{Name: name, Lines: g.lines[name]})
	}
	return out
}
