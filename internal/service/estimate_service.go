package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/caterbase/internal/metrics"
	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/pricing"
	"github.com/mmynk/caterbase/internal/storage"
)

// FoodSelection is one menu item chosen for one meal. A blank MealName
// means the first meal of the plan; a nil Servings keeps the item default.
type FoodSelection struct {
	MenuItemID string
	MealName   string
	Servings   *decimal.Decimal
	Notes      string
}

// ExtraSelection is one chosen extra. A nil Quantity means 1.
type ExtraSelection struct {
	ExtraItemID   string
	Quantity      *decimal.Decimal
	OverridePrice *decimal.Decimal
	Notes         string
}

// SelectionInput is the full, already parsed selection for an estimate.
// It always replaces the stored selection.
type SelectionInput struct {
	Foods  []FoodSelection
	Extras []ExtraSelection

	// TemplateID fills the first meal from a template when Foods is empty.
	TemplateID string
	// SaveAsTemplate stores the chosen items under this template name.
	SaveAsTemplate string
}

// ExtraLineView is a priced extra line for display and export.
type ExtraLineView struct {
	Name       string
	ChargeType models.ChargeType
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Amount     decimal.Decimal
	Overridden bool
	Notes      string
}

// EstimateBreakdown is everything needed to present a stored estimate.
type EstimateBreakdown struct {
	Estimate *models.Estimate
	Tenant   *models.Tenant
	Pricing  pricing.Breakdown
	Extras   []ExtraLineView

	// GrandTotalConverted is the grand total at the estimate's exchange rate.
	GrandTotalConverted decimal.Decimal
	// PerGuest is the grand total per adult guest.
	PerGuest decimal.Decimal
}

// EstimateService saves estimates and keeps their stored totals current.
type EstimateService struct {
	store   storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewEstimateService creates an EstimateService. m may be nil.
func NewEstimateService(store storage.Store, m *metrics.Metrics, logger *slog.Logger) *EstimateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EstimateService{store: store, metrics: m, logger: logger}
}

var one = decimal.NewFromInt(1)

func validateEstimate(est *models.Estimate) error {
	switch {
	case strings.TrimSpace(est.CustomerName) == "":
		return invalidf("customer name is required")
	case est.GuestCount < 0 || est.GuestCountKids < 0:
		return invalidf("guest counts must not be negative")
	case est.ExtraWaiters < 0:
		return invalidf("extra waiters must not be negative")
	case est.StaffHours.IsNegative():
		return invalidf("staff hours must not be negative")
	case est.DepositPercentage.IsNegative() || est.DepositPercentage.GreaterThan(decimal.NewFromInt(100)):
		return invalidf("deposit percentage must be between 0 and 100")
	case est.Currency != "" && !est.Currency.Valid():
		return invalidf("unsupported currency %q", est.Currency)
	case est.ExchangeRate.IsNegative():
		return invalidf("exchange rate must not be negative")
	}
	for _, d := range []*decimal.Decimal{est.StaffHourlyRate, est.StaffTipPerWaiter, est.RealDishesPricePerPerson, est.RealDishesFlatFee} {
		if d != nil && d.IsNegative() {
			return invalidf("rates and fees must not be negative")
		}
	}
	for meal, g := range est.MealGuests {
		if (g.Adults != nil && *g.Adults < 0) || (g.Kids != nil && *g.Kids < 0) {
			return invalidf("guest override for %q must not be negative", meal)
		}
	}
	return nil
}

// SaveEstimate stores est and replaces its selection, then recalculates
// and stores the totals. Everything happens in one transaction and the
// totals are computed from the selection as re-read after the insert.
func (s *EstimateService) SaveEstimate(ctx context.Context, tenantID string, est *models.Estimate, in SelectionInput) (*models.Estimate, error) {
	if err := validateEstimate(est); err != nil {
		return nil, err
	}
	// Work on a copy so a rolled back save leaves the caller's value alone.
	work := *est
	est = &work
	est.TenantID = tenantID
	start := time.Now()

	var saved *models.Estimate
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		tenant, err := tx.GetTenant(ctx, tenantID)
		if err != nil {
			return err
		}

		if est.ID != "" {
			existing, err := tx.GetEstimate(ctx, tenantID, est.ID)
			if err != nil {
				return err
			}
			est.CreatedAt = existing.CreatedAt
			est.IsInvoice = existing.IsInvoice
			if est.Number == 0 {
				est.Number = existing.Number
			}
		}
		if est.Number == 0 {
			if est.Number, err = tx.NextEstimateNumber(ctx, tenantID); err != nil {
				return err
			}
		}

		est.MealPlan = pricing.NormalizeMealPlan(est.MealPlan)
		if strings.TrimSpace(est.PaymentTerms) == "" {
			est.PaymentTerms = tenant.DefaultPaymentTerms
		}
		if est.Currency == "" {
			est.Currency = tenant.DefaultCurrency
		}
		if est.ExchangeRate.IsZero() {
			est.ExchangeRate = one
		}

		if err := tx.SaveEstimate(ctx, est); err != nil {
			return err
		}

		cat, err := loadCatalog(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		sel, err := s.buildSelection(ctx, tx, tenantID, est.MealPlan, cat, in)
		if err != nil {
			return err
		}
		if err := tx.ReplaceSelection(ctx, est.ID, sel); err != nil {
			return err
		}

		if name := strings.TrimSpace(in.SaveAsTemplate); name != "" && len(sel.Choices) > 0 {
			tmpl := &models.MenuTemplate{TenantID: tenantID, Name: name, ItemIDs: templateItems(sel)}
			if err := tx.SaveTemplate(ctx, tmpl); err != nil {
				return err
			}
			s.logger.Info("Saved menu template", "tenant_id", tenantID, "template", name, "items", len(tmpl.ItemIDs))
		}

		saved, err = recalc(ctx, tx, tenant, est.ID, cat)
		return err
	})
	if err != nil {
		s.logger.Error("SaveEstimate failed", "tenant_id", tenantID, "estimate_id", est.ID, "error", err)
		return nil, err
	}

	s.metrics.ObserveRecalc("save", start)
	s.logger.Info("Estimate saved",
		"tenant_id", tenantID,
		"estimate_id", saved.ID,
		"number", saved.Number,
		"grand_total", saved.GrandTotal.StringFixed(2),
	)
	return saved, nil
}

// buildSelection turns the input into rows: one per chosen item per meal
// and one per chosen extra. Ids must belong to the tenant's catalog.
func (s *EstimateService) buildSelection(ctx context.Context, tx storage.Store, tenantID string, plan []string, cat *tenantCatalog, in SelectionInput) (models.Selection, error) {
	var sel models.Selection
	inPlan := make(map[string]bool, len(plan))
	for _, meal := range plan {
		inPlan[meal] = true
	}

	type key struct{ item, meal string }
	seen := make(map[key]bool)
	for _, f := range in.Foods {
		if _, ok := cat.items[f.MenuItemID]; !ok {
			return sel, invalidf("unknown menu item %q", f.MenuItemID)
		}
		meal := strings.TrimSpace(f.MealName)
		if meal == "" {
			meal = plan[0]
		}
		if !inPlan[meal] {
			return sel, invalidf("meal %q is not in the meal plan", meal)
		}
		if f.Servings != nil && f.Servings.IsNegative() {
			return sel, invalidf("servings must not be negative")
		}
		k := key{f.MenuItemID, meal}
		if seen[k] {
			continue
		}
		seen[k] = true
		sel.Choices = append(sel.Choices, models.FoodChoice{
			MenuItemID:        f.MenuItemID,
			MealName:          meal,
			Included:          true,
			ServingsPerPerson: f.Servings,
			Notes:             f.Notes,
		})
	}

	if len(sel.Choices) == 0 && in.TemplateID != "" {
		tmpl, err := tx.GetTemplate(ctx, tenantID, in.TemplateID)
		if err != nil {
			return sel, err
		}
		for _, id := range tmpl.ItemIDs {
			k := key{id, plan[0]}
			if _, ok := cat.items[id]; !ok || seen[k] {
				continue
			}
			seen[k] = true
			sel.Choices = append(sel.Choices, models.FoodChoice{MenuItemID: id, MealName: plan[0], Included: true})
		}
		s.logger.Debug("Applied menu template", "template_id", tmpl.ID, "items", len(sel.Choices))
	}

	for _, x := range in.Extras {
		if _, ok := cat.extras[x.ExtraItemID]; !ok {
			return sel, invalidf("unknown extra %q", x.ExtraItemID)
		}
		qty := one
		if x.Quantity != nil {
			qty = *x.Quantity
		}
		if qty.IsNegative() {
			return sel, invalidf("extra quantity must not be negative")
		}
		if x.OverridePrice != nil && x.OverridePrice.IsNegative() {
			return sel, invalidf("override price must not be negative")
		}
		sel.Lines = append(sel.Lines, models.ExtraLine{
			ExtraItemID:   x.ExtraItemID,
			Quantity:      qty,
			OverridePrice: x.OverridePrice,
			Notes:         x.Notes,
		})
	}
	return sel, nil
}

func templateItems(sel models.Selection) []string {
	seen := make(map[string]bool, len(sel.Choices))
	ids := make([]string, 0, len(sel.Choices))
	for _, ch := range sel.Choices {
		if !seen[ch.MenuItemID] {
			seen[ch.MenuItemID] = true
			ids = append(ids, ch.MenuItemID)
		}
	}
	return ids
}

// recalc reloads the estimate and its selection, prices them and writes
// the totals. cat may be nil, in which case it is loaded.
func recalc(ctx context.Context, tx storage.Store, tenant *models.Tenant, estimateID string, cat *tenantCatalog) (*models.Estimate, error) {
	est, err := tx.GetEstimate(ctx, tenant.ID, estimateID)
	if err != nil {
		return nil, err
	}
	sel, err := tx.GetSelection(ctx, estimateID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		if cat, err = loadCatalog(ctx, tx, tenant.ID); err != nil {
			return nil, err
		}
	}

	totals := pricing.RecalcTotals(pricingEstimate(est, sel), cat, pricingDefaults(tenant))
	applyTotals(est, totals)
	if err := tx.UpdateTotals(ctx, est); err != nil {
		return nil, err
	}
	return est, nil
}

// Recalculate re-prices a stored estimate against the current catalog and
// tenant defaults and stores the result.
func (s *EstimateService) Recalculate(ctx context.Context, tenantID, estimateID string) (*models.Estimate, error) {
	start := time.Now()
	var est *models.Estimate
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		tenant, err := tx.GetTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		est, err = recalc(ctx, tx, tenant, estimateID, nil)
		return err
	})
	if err != nil {
		s.logger.Error("Recalculate failed", "tenant_id", tenantID, "estimate_id", estimateID, "error", err)
		return nil, err
	}
	s.metrics.ObserveRecalc("manual", start)
	return est, nil
}

// RecalculateAll re-prices every estimate of the tenant. Catalog edits call
// it so stored totals follow price changes.
func (s *EstimateService) RecalculateAll(ctx context.Context, tenantID string) (int, error) {
	start := time.Now()
	var n int
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		tenant, err := tx.GetTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		estimates, err := tx.ListEstimates(ctx, tenantID)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		for _, est := range estimates {
			if _, err := recalc(ctx, tx, tenant, est.ID, cat); err != nil {
				return fmt.Errorf("estimate %s: %w", est.ID, err)
			}
		}
		n = len(estimates)
		return nil
	})
	if err != nil {
		s.logger.Error("RecalculateAll failed", "tenant_id", tenantID, "error", err)
		return 0, err
	}
	s.metrics.ObserveRecalc("catalog", start)
	s.logger.Info("Recalculated estimates", "tenant_id", tenantID, "count", n)
	return n, nil
}

// GetEstimate returns one of the tenant's estimates.
func (s *EstimateService) GetEstimate(ctx context.Context, tenantID, estimateID string) (*models.Estimate, error) {
	return s.store.GetEstimate(ctx, tenantID, estimateID)
}

// ListEstimates returns the tenant's estimates.
func (s *EstimateService) ListEstimates(ctx context.Context, tenantID string) ([]*models.Estimate, error) {
	return s.store.ListEstimates(ctx, tenantID)
}

// DeleteEstimate removes an estimate and its selection.
func (s *EstimateService) DeleteEstimate(ctx context.Context, tenantID, estimateID string) error {
	if err := s.store.DeleteEstimate(ctx, tenantID, estimateID); err != nil {
		return err
	}
	s.logger.Info("Estimate deleted", "tenant_id", tenantID, "estimate_id", estimateID)
	return nil
}

// Breakdown prices a stored estimate for display without writing anything.
func (s *EstimateService) Breakdown(ctx context.Context, tenantID, estimateID string) (*EstimateBreakdown, error) {
	tenant, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	est, err := s.store.GetEstimate(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}
	sel, err := s.store.GetSelection(ctx, estimateID)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(ctx, s.store, tenantID)
	if err != nil {
		return nil, err
	}

	pb := pricing.Calculate(pricingEstimate(est, sel), cat, pricingDefaults(tenant))
	b := &EstimateBreakdown{
		Estimate:            est,
		Tenant:              tenant,
		Pricing:             pb,
		GrandTotalConverted: pricing.Convert(pb.Totals.GrandTotal, est.ExchangeRate),
		PerGuest:            pricing.PerGuest(pb.Totals.GrandTotal, est.GuestCount),
	}
	for _, line := range sel.Lines {
		extra, ok := cat.extras[line.ExtraItemID]
		if !ok {
			continue
		}
		view := ExtraLineView{
			Name:       extra.Name,
			ChargeType: extra.ChargeType,
			Quantity:   line.Quantity,
			UnitPrice:  extra.Price,
			Notes:      line.Notes,
		}
		if line.OverridePrice != nil {
			view.Amount = *line.OverridePrice
			view.Overridden = true
		} else {
			amount := extra.Price.Mul(line.Quantity)
			if extra.ChargeType == models.ChargePerPerson {
				amount = amount.Mul(decimal.NewFromInt(int64(est.GuestCount)))
			}
			view.Amount = pricing.Round2(amount)
		}
		b.Extras = append(b.Extras, view)
	}
	return b, nil
}

// ConvertToInvoice marks an estimate as an invoice. Numbers and totals
// are kept.
func (s *EstimateService) ConvertToInvoice(ctx context.Context, tenantID, estimateID string) (*models.Estimate, error) {
	var est *models.Estimate
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		var err error
		if est, err = tx.GetEstimate(ctx, tenantID, estimateID); err != nil {
			return err
		}
		if est.IsInvoice {
			return nil
		}
		est.IsInvoice = true
		return tx.SaveEstimate(ctx, est)
	})
	if err != nil {
		s.logger.Error("ConvertToInvoice failed", "tenant_id", tenantID, "estimate_id", estimateID, "error", err)
		return nil, err
	}
	s.logger.Info("Estimate converted to invoice", "tenant_id", tenantID, "estimate_id", estimateID, "number", est.Number)
	return est, nil
}
