package models

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code supported on estimates.
type Currency string

const (
	CurrencyILS Currency = "ILS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyILS, CurrencyUSD, CurrencyEUR, CurrencyGBP:
		return true
	}
	return false
}

// DefaultPaymentTerms is copied onto new estimates that have none.
const DefaultPaymentTerms = "30% deposit due upon acceptance to reserve date. Remaining balance due on " +
	"the event date unless alternate arrangements are approved in writing."

// FirstEstimateNumber is where a new tenant's estimate numbering starts.
const FirstEstimateNumber = 1000

// Tenant is one catering business and its pricing defaults.
type Tenant struct {
	// ID is the unique identifier for the tenant (UUID format).
	ID string

	Name string

	// Slug identifies the tenant in public links. Generated from Name when empty.
	Slug string

	DefaultCurrency Currency

	// Pricing defaults used when an estimate does not override them.
	DefaultFoodMarkup        decimal.Decimal
	StaffHourlyRate          *decimal.Decimal
	StaffTipPerWaiter        *decimal.Decimal
	RealDishesPricePerPerson *decimal.Decimal
	RealDishesFlatFee        *decimal.Decimal

	DefaultPaymentTerms string

	// EstimateNumberCounter is the next estimate number to issue.
	EstimateNumberCounter int

	CreatedAt int64
}

// NewTenant returns a tenant carrying the standard pricing defaults.
func NewTenant(name string) *Tenant {
	return &Tenant{
		Name:                     name,
		Slug:                     Slugify(name),
		DefaultCurrency:          CurrencyILS,
		DefaultFoodMarkup:        decimal.RequireFromString("3.00"),
		StaffHourlyRate:          decPtr("50.00"),
		StaffTipPerWaiter:        decPtr("80.00"),
		RealDishesPricePerPerson: decPtr("16.00"),
		RealDishesFlatFee:        decPtr("400.00"),
		DefaultPaymentTerms:      DefaultPaymentTerms,
		EstimateNumberCounter:    FirstEstimateNumber,
	}
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
// It returns "caterer" when nothing usable is left.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "caterer"
	}
	return b.String()
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
