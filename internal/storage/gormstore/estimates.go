package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mmynk/caterbase/internal/models"
)

var estimateUpdateColumns = []string{
	"number", "customer_name", "customer_phone", "customer_email", "event_type", "event_date",
	"event_location", "guest_count", "guest_count_kids", "currency", "exchange_rate", "meal_plan",
	"a_la_carte", "wants_real_dishes", "real_dishes_price_per_person", "real_dishes_flat_fee",
	"staff_hours", "extra_waiters", "staff_hourly_rate", "staff_tip_per_waiter",
	"deposit_percentage", "manual_meal_totals", "meal_guests", "notes_internal",
	"notes_for_customer", "payment_terms", "is_invoice", "food_price_per_person", "extras_total",
	"staff_total", "dishes_total", "grand_total", "deposit_amount", "balance_due", "updated_at",
}

var totalsColumns = []string{
	"food_price_per_person", "extras_total", "staff_total", "dishes_total", "grand_total",
	"deposit_amount", "balance_due",
}

// SaveEstimate inserts a new estimate or updates an existing one.
func (s *Store) SaveEstimate(ctx context.Context, est *models.Estimate) error {
	now := time.Now().Unix()
	est.UpdatedAt = now

	if est.ID == "" {
		rec := estimateToRecord(est)
		rec.ID = uuid.New().String()
		rec.CreatedAt = now
		if err := s.conn(ctx).Create(&rec).Error; err != nil {
			return wrap("failed to insert estimate", "estimate", rec.ID, err)
		}
		est.ID, est.CreatedAt = rec.ID, rec.CreatedAt
		return nil
	}

	rec := estimateToRecord(est)
	res := s.conn(ctx).Model(&estimateRecord{}).
		Where("id = ? AND tenant_id = ?", est.ID, est.TenantID).
		Select(estimateUpdateColumns).
		Updates(&rec)
	return requireRow(res, "failed to update estimate", "estimate", est.ID)
}

// GetEstimate retrieves one of the tenant's estimates.
func (s *Store) GetEstimate(ctx context.Context, tenantID, estimateID string) (*models.Estimate, error) {
	var rec estimateRecord
	if err := s.conn(ctx).Where("id = ? AND tenant_id = ?", estimateID, tenantID).First(&rec).Error; err != nil {
		return nil, wrap("failed to get estimate", "estimate", estimateID, err)
	}
	return rec.toModel(), nil
}

// ListEstimates lists the tenant's estimates, newest event first.
func (s *Store) ListEstimates(ctx context.Context, tenantID string) ([]*models.Estimate, error) {
	var recs []estimateRecord
	err := s.conn(ctx).Where("tenant_id = ?", tenantID).
		Order("event_date DESC, created_at DESC").Find(&recs).Error
	if err != nil {
		return nil, wrap("failed to list estimates", "estimate", tenantID, err)
	}
	estimates := make([]*models.Estimate, 0, len(recs))
	for _, r := range recs {
		estimates = append(estimates, r.toModel())
	}
	return estimates, nil
}

// DeleteEstimate removes an estimate together with its selection rows.
func (s *Store) DeleteEstimate(ctx context.Context, tenantID, estimateID string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND tenant_id = ?", estimateID, tenantID).Delete(&estimateRecord{})
		if err := requireRow(res, "failed to delete estimate", "estimate", estimateID); err != nil {
			return err
		}
		return clearSelection(tx, estimateID)
	})
}

func clearSelection(tx *gorm.DB, estimateID string) error {
	if err := tx.Where("estimate_id = ?", estimateID).Delete(&foodChoiceRecord{}).Error; err != nil {
		return wrap("failed to clear food choices", "estimate", estimateID, err)
	}
	if err := tx.Where("estimate_id = ?", estimateID).Delete(&extraLineRecord{}).Error; err != nil {
		return wrap("failed to clear extra lines", "estimate", estimateID, err)
	}
	return nil
}

// ReplaceSelection swaps the estimate's choices and lines for sel.
func (s *Store) ReplaceSelection(ctx context.Context, estimateID string, sel models.Selection) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearSelection(tx, estimateID); err != nil {
			return err
		}

		if len(sel.Choices) > 0 {
			recs := make([]foodChoiceRecord, len(sel.Choices))
			for i := range sel.Choices {
				ch := &sel.Choices[i]
				ch.ID = uuid.New().String()
				ch.EstimateID = estimateID
				recs[i] = foodChoiceRecord{
					ID:                ch.ID,
					EstimateID:        estimateID,
					MenuItemID:        ch.MenuItemID,
					MealName:          ch.MealName,
					Position:          i,
					Included:          ch.Included,
					ServingsPerPerson: nullDec(ch.ServingsPerPerson),
					Notes:             ch.Notes,
				}
			}
			if err := tx.Create(&recs).Error; err != nil {
				return wrap("failed to insert food choices", "estimate", estimateID, err)
			}
		}

		if len(sel.Lines) > 0 {
			recs := make([]extraLineRecord, len(sel.Lines))
			for i := range sel.Lines {
				line := &sel.Lines[i]
				line.ID = uuid.New().String()
				line.EstimateID = estimateID
				recs[i] = extraLineRecord{
					ID:            line.ID,
					EstimateID:    estimateID,
					ExtraItemID:   line.ExtraItemID,
					Position:      i,
					Quantity:      line.Quantity,
					OverridePrice: nullDec(line.OverridePrice),
					Notes:         line.Notes,
				}
			}
			if err := tx.Create(&recs).Error; err != nil {
				return wrap("failed to insert extra lines", "estimate", estimateID, err)
			}
		}
		return nil
	})
}

// GetSelection loads the estimate's choices and lines in insertion order.
func (s *Store) GetSelection(ctx context.Context, estimateID string) (*models.Selection, error) {
	var choices []foodChoiceRecord
	if err := s.conn(ctx).Where("estimate_id = ?", estimateID).Order("position").Find(&choices).Error; err != nil {
		return nil, wrap("failed to query food choices", "estimate", estimateID, err)
	}
	var lines []extraLineRecord
	if err := s.conn(ctx).Where("estimate_id = ?", estimateID).Order("position").Find(&lines).Error; err != nil {
		return nil, wrap("failed to query extra lines", "estimate", estimateID, err)
	}

	sel := &models.Selection{}
	for _, r := range choices {
		sel.Choices = append(sel.Choices, models.FoodChoice{
			ID:                r.ID,
			EstimateID:        r.EstimateID,
			MenuItemID:        r.MenuItemID,
			MealName:          r.MealName,
			Included:          r.Included,
			ServingsPerPerson: decPtr(r.ServingsPerPerson),
			Notes:             r.Notes,
		})
	}
	for _, r := range lines {
		sel.Lines = append(sel.Lines, models.ExtraLine{
			ID:            r.ID,
			EstimateID:    r.EstimateID,
			ExtraItemID:   r.ExtraItemID,
			Quantity:      r.Quantity,
			OverridePrice: decPtr(r.OverridePrice),
			Notes:         r.Notes,
		})
	}
	return sel, nil
}

// UpdateTotals writes only the computed totals of an estimate.
func (s *Store) UpdateTotals(ctx context.Context, est *models.Estimate) error {
	rec := estimateToRecord(est)
	res := s.conn(ctx).Model(&estimateRecord{}).
		Where("id = ? AND tenant_id = ?", est.ID, est.TenantID).
		Select(totalsColumns).
		Updates(&rec)
	return requireRow(res, "failed to update totals", "estimate", est.ID)
}
