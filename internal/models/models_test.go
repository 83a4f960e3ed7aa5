package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Olive & Fig Catering", "olive-fig-catering"},
		{"  Shuk  Kitchen!! ", "shuk-kitchen"},
		{"Café 21", "café-21"},
		{"!!!", "caterer"},
		{"", "caterer"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewTenant(t *testing.T) {
	tenant := NewTenant("Olive & Fig Catering")

	if tenant.Slug != "olive-fig-catering" || tenant.DefaultCurrency != CurrencyILS {
		t.Errorf("tenant = %+v", tenant)
	}
	if tenant.EstimateNumberCounter != FirstEstimateNumber {
		t.Errorf("counter = %d, want %d", tenant.EstimateNumberCounter, FirstEstimateNumber)
	}
	checks := map[string]*decimal.Decimal{
		"50":  tenant.StaffHourlyRate,
		"80":  tenant.StaffTipPerWaiter,
		"16":  tenant.RealDishesPricePerPerson,
		"400": tenant.RealDishesFlatFee,
	}
	for want, got := range checks {
		if got == nil || !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("default = %v, want %s", got, want)
		}
	}
}

func TestPricePerServing(t *testing.T) {
	item := MenuItem{CostPerServing: decimal.RequireFromString("3.333"), Markup: decimal.RequireFromString("3")}
	if got := item.PricePerServing(); !got.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("PricePerServing = %s, want 10.00", got)
	}
}

func TestCurrencyValid(t *testing.T) {
	for _, c := range []Currency{CurrencyILS, CurrencyUSD, CurrencyEUR, CurrencyGBP} {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if Currency("JPY").Valid() || Currency("").Valid() {
		t.Error("unsupported currency reported valid")
	}
}
