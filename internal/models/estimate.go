package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MealGuests overrides adult and/or kids counts for one meal.
type MealGuests struct {
	Adults *int `json:"adults,omitempty"`
	Kids   *int `json:"kids,omitempty"`
}

// Estimate is one priced quote for a customer event.
type Estimate struct {
	// ID is empty until the estimate is stored.
	ID       string
	TenantID string

	// Number is the sequential, tenant-scoped estimate/invoice number.
	Number int

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	EventType     string
	EventDate     time.Time
	EventLocation string

	GuestCount     int
	GuestCountKids int

	Currency     Currency
	ExchangeRate decimal.Decimal

	// MealPlan is the ordered list of meal names. Normalised on save.
	MealPlan []string

	// ALaCarte is delivery-only service: no staff and no real dishes.
	ALaCarte bool

	WantsRealDishes          bool
	RealDishesPricePerPerson *decimal.Decimal
	RealDishesFlatFee        *decimal.Decimal

	StaffHours        decimal.Decimal
	ExtraWaiters      int
	StaffHourlyRate   *decimal.Decimal
	StaffTipPerWaiter *decimal.Decimal

	DepositPercentage decimal.Decimal

	// ManualMealTotals maps meal name to a raw adult price-per-guest.
	ManualMealTotals map[string]string
	MealGuests       map[string]MealGuests

	NotesInternal    string
	NotesForCustomer string
	PaymentTerms     string
	IsInvoice        bool

	// Computed by the pricing engine. Never set these directly.
	FoodPricePerPerson decimal.Decimal
	ExtrasTotal        decimal.Decimal
	StaffTotal         decimal.Decimal
	DishesTotal        decimal.Decimal
	GrandTotal         decimal.Decimal
	DepositAmount      decimal.Decimal
	BalanceDue         decimal.Decimal

	CreatedAt int64
	UpdatedAt int64
}

// NewEstimate returns an unsaved estimate with the usual defaults.
func NewEstimate(tenantID, customerName string) *Estimate {
	return &Estimate{
		TenantID:          tenantID,
		CustomerName:      customerName,
		EventDate:         time.Now().UTC().Truncate(24 * time.Hour),
		Currency:          CurrencyILS,
		ExchangeRate:      decimal.NewFromInt(1),
		StaffHours:        decimal.RequireFromString("6.00"),
		DepositPercentage: decimal.RequireFromString("30.00"),
	}
}

// FoodChoice is a menu item selected for one meal of an estimate.
type FoodChoice struct {
	ID         string
	EstimateID string
	MenuItemID string
	MealName   string
	Included   bool

	// ServingsPerPerson overrides the item default when set.
	ServingsPerPerson *decimal.Decimal
	Notes             string
}

// ExtraLine is an extra selected on an estimate.
type ExtraLine struct {
	ID            string
	EstimateID    string
	ExtraItemID   string
	Quantity      decimal.Decimal
	OverridePrice *decimal.Decimal
	Notes         string
}

// Selection is the complete set of choices and lines to store on an
// estimate. It always replaces whatever was stored before.
type Selection struct {
	Choices []FoodChoice
	Lines   []ExtraLine
}
