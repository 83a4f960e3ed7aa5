package models

import "github.com/shopspring/decimal"

// ExtraCategory groups extras on forms and exports.
type ExtraCategory string

const (
	ExtraDecor   ExtraCategory = "DECOR"
	ExtraRental  ExtraCategory = "RENTAL"
	ExtraService ExtraCategory = "SERVICE"
	ExtraOther   ExtraCategory = "OTHER"
)

// ChargeType decides whether an extra is charged once or per adult guest.
type ChargeType string

const (
	ChargePerEvent  ChargeType = "PER_EVENT"
	ChargePerPerson ChargeType = "PER_PERSON"
)

// MenuCategory is a tenant-defined heading for menu items. Categories whose
// name contains "kid" are priced against the kids guest count.
type MenuCategory struct {
	ID        string
	TenantID  string
	Name      string
	SortOrder int
}

// MenuItem is a food item in a tenant's catalog.
type MenuItem struct {
	ID       string
	TenantID string

	// CategoryID is empty for uncategorised items.
	CategoryID string
	// CategoryName is filled by the store when the item is loaded.
	CategoryName string

	Name        string
	Description string

	// CostPerServing is the internal cost of one serving for one person.
	CostPerServing decimal.Decimal

	// Markup multiplies cost into customer price (3.00 means cost x3).
	Markup decimal.Decimal

	// DefaultServingsPerPerson allows half portions and the like.
	DefaultServingsPerPerson decimal.Decimal

	Active bool
}

// PricePerServing is cost x markup rounded to cents.
func (m MenuItem) PricePerServing() decimal.Decimal {
	return m.CostPerServing.Mul(m.Markup).Round(2)
}

// ExtraItem is a decor, rental or service add-on.
type ExtraItem struct {
	ID         string
	TenantID   string
	Name       string
	Category   ExtraCategory
	ChargeType ChargeType

	// Cost is internal; Price is what the customer pays per event or per person.
	Cost  decimal.Decimal
	Price decimal.Decimal

	Notes  string
	Active bool
}

// MenuTemplate is a named, reusable selection of menu items.
type MenuTemplate struct {
	ID        string
	TenantID  string
	Name      string
	ItemIDs   []string
	CreatedAt int64
}
