package pricing

import "github.com/shopspring/decimal"

// ChargeType controls whether an extra is priced once or per adult guest.
type ChargeType string

const (
	ChargePerEvent  ChargeType = "PER_EVENT"
	ChargePerPerson ChargeType = "PER_PERSON"
)

// MenuItem is the catalog data the engine needs to price a food choice.
type MenuItem struct {
	ID              string
	Name            string
	Category        string // empty when uncategorised
	CostPerServing  decimal.Decimal
	Markup          decimal.Decimal
	DefaultServings decimal.Decimal
}

// ExtraItem is the catalog data the engine needs to price an extra line.
type ExtraItem struct {
	ID         string
	Name       string
	ChargeType ChargeType
	Price      decimal.Decimal
}

// Catalog resolves the items an estimate references. Implementations are
// expected to be scoped to the estimate's tenant already.
type Catalog interface {
	MenuItem(id string) (MenuItem, bool)
	ExtraItem(id string) (ExtraItem, bool)
}

// MapCatalog is a Catalog backed by two maps keyed by id.
type MapCatalog struct {
	Items  map[string]MenuItem
	Extras map[string]ExtraItem
}

func (c MapCatalog) MenuItem(id string) (MenuItem, bool) {
	item, ok := c.Items[id]
	return item, ok
}

func (c MapCatalog) ExtraItem(id string) (ExtraItem, bool) {
	extra, ok := c.Extras[id]
	return extra, ok
}

// FoodChoice is one menu item selected for one meal.
type FoodChoice struct {
	ItemID   string
	MealName string // blank means the first meal of the plan
	Included bool
	Servings *decimal.Decimal // nil falls back to the item default
	Notes    string
}

// ExtraLine is one selected extra.
type ExtraLine struct {
	ExtraID       string
	Quantity      decimal.Decimal
	OverridePrice *decimal.Decimal // replaces the computed price when set
}

// MealGuests overrides the guest counts used for one meal section's totals.
type MealGuests struct {
	Adults *int `json:"adults,omitempty"`
	Kids   *int `json:"kids,omitempty"`
}

// Estimate is the snapshot of an estimate the engine prices. ID is empty for
// an estimate that has not been persisted yet.
type Estimate struct {
	ID                string
	Adults            int
	Kids              int
	MealPlan          []string
	ALaCarte          bool
	WantsRealDishes   bool
	StaffHours        decimal.Decimal
	ExtraWaiters      int
	DepositPercentage decimal.Decimal

	HourlyRate      *decimal.Decimal
	TipPerWaiter    *decimal.Decimal
	DishesPerPerson *decimal.Decimal
	DishesFlatFee   *decimal.Decimal

	// ManualMealPrices maps a meal name to a raw adult price-per-guest.
	ManualMealPrices map[string]string
	MealGuests       map[string]MealGuests

	Choices []FoodChoice
	Lines   []ExtraLine
}

// Persisted reports whether the estimate has a stored identity.
func (e Estimate) Persisted() bool {
	return e.ID != ""
}

// Defaults are the tenant-level fallbacks for the estimate overrides.
// A nil field means the tenant has no value configured.
type Defaults struct {
	HourlyRate      *decimal.Decimal
	TipPerWaiter    *decimal.Decimal
	DishesPerPerson *decimal.Decimal
	DishesFlatFee   *decimal.Decimal
}
