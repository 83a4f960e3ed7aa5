package service

import (
	"context"
	"fmt"

	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/pricing"
	"github.com/mmynk/caterbase/internal/storage"
)

// tenantCatalog is the tenant's full catalog keyed by id, inactive rows
// included so estimates keep pricing items that were retired later.
type tenantCatalog struct {
	pricing.MapCatalog
	items  map[string]*models.MenuItem
	extras map[string]*models.ExtraItem
}

func loadCatalog(ctx context.Context, store storage.CatalogStore, tenantID string) (*tenantCatalog, error) {
	items, err := store.ListMenuItems(ctx, tenantID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	extras, err := store.ListExtraItems(ctx, tenantID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load extras: %w", err)
	}

	cat := &tenantCatalog{
		MapCatalog: pricing.MapCatalog{
			Items:  make(map[string]pricing.MenuItem, len(items)),
			Extras: make(map[string]pricing.ExtraItem, len(extras)),
		},
		items:  make(map[string]*models.MenuItem, len(items)),
		extras: make(map[string]*models.ExtraItem, len(extras)),
	}
	for _, it := range items {
		cat.items[it.ID] = it
		cat.Items[it.ID] = pricing.MenuItem{
			ID:              it.ID,
			Name:            it.Name,
			Category:        it.CategoryName,
			CostPerServing:  it.CostPerServing,
			Markup:          it.Markup,
			DefaultServings: it.DefaultServingsPerPerson,
		}
	}
	for _, ex := range extras {
		cat.extras[ex.ID] = ex
		cat.Extras[ex.ID] = pricing.ExtraItem{
			ID:         ex.ID,
			Name:       ex.Name,
			ChargeType: pricing.ChargeType(ex.ChargeType),
			Price:      ex.Price,
		}
	}
	return cat, nil
}

func pricingDefaults(t *models.Tenant) pricing.Defaults {
	return pricing.Defaults{
		HourlyRate:      t.StaffHourlyRate,
		TipPerWaiter:    t.StaffTipPerWaiter,
		DishesPerPerson: t.RealDishesPricePerPerson,
		DishesFlatFee:   t.RealDishesFlatFee,
	}
}

func pricingEstimate(est *models.Estimate, sel *models.Selection) pricing.Estimate {
	pe := pricing.Estimate{
		ID:                est.ID,
		Adults:            est.GuestCount,
		Kids:              est.GuestCountKids,
		MealPlan:          est.MealPlan,
		ALaCarte:          est.ALaCarte,
		WantsRealDishes:   est.WantsRealDishes,
		StaffHours:        est.StaffHours,
		ExtraWaiters:      est.ExtraWaiters,
		DepositPercentage: est.DepositPercentage,
		HourlyRate:        est.StaffHourlyRate,
		TipPerWaiter:      est.StaffTipPerWaiter,
		DishesPerPerson:   est.RealDishesPricePerPerson,
		DishesFlatFee:     est.RealDishesFlatFee,
		ManualMealPrices:  est.ManualMealTotals,
	}
	if len(est.MealGuests) > 0 {
		pe.MealGuests = make(map[string]pricing.MealGuests, len(est.MealGuests))
		for meal, g := range est.MealGuests {
			pe.MealGuests[meal] = pricing.MealGuests{Adults: g.Adults, Kids: g.Kids}
		}
	}
	if sel == nil {
		return pe
	}
	for _, ch := range sel.Choices {
		pe.Choices = append(pe.Choices, pricing.FoodChoice{
			ItemID:   ch.MenuItemID,
			MealName: ch.MealName,
			Included: ch.Included,
			Servings: ch.ServingsPerPerson,
			Notes:    ch.Notes,
		})
	}
	for _, line := range sel.Lines {
		pe.Lines = append(pe.Lines, pricing.ExtraLine{
			ExtraID:       line.ExtraItemID,
			Quantity:      line.Quantity,
			OverridePrice: line.OverridePrice,
		})
	}
	return pe
}

func applyTotals(est *models.Estimate, t pricing.Totals) {
	est.FoodPricePerPerson = t.FoodPricePerPerson
	est.ExtrasTotal = t.ExtrasTotal
	est.StaffTotal = t.StaffTotal
	est.DishesTotal = t.DishesTotal
	est.GrandTotal = t.GrandTotal
	est.DepositAmount = t.DepositAmount
	est.BalanceDue = t.BalanceDue
}
