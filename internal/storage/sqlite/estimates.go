package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/caterbase/internal/models"
)

const eventDateLayout = "2006-01-02"

const estimateColumns = `id, tenant_id, number, customer_name, customer_phone, customer_email,
	event_type, event_date, event_location, guest_count, guest_count_kids, currency, exchange_rate,
	meal_plan, a_la_carte, wants_real_dishes, real_dishes_price_per_person, real_dishes_flat_fee,
	staff_hours, extra_waiters, staff_hourly_rate, staff_tip_per_waiter, deposit_percentage,
	manual_meal_totals, meal_guests, notes_internal, notes_for_customer, payment_terms, is_invoice,
	food_price_per_person, extras_total, staff_total, dishes_total, grand_total, deposit_amount,
	balance_due, created_at, updated_at`

// SaveEstimate inserts a new estimate or updates an existing one.
func (s *SQLiteStore) SaveEstimate(ctx context.Context, est *models.Estimate) error {
	now := time.Now().Unix()
	est.UpdatedAt = now

	mealPlan, err := toJSON(nonNilStrings(est.MealPlan))
	if err != nil {
		return fmt.Errorf("failed to encode meal plan: %w", err)
	}
	manual, err := toJSON(nonNilMap(est.ManualMealTotals))
	if err != nil {
		return fmt.Errorf("failed to encode manual meal totals: %w", err)
	}
	guests := est.MealGuests
	if guests == nil {
		guests = map[string]models.MealGuests{}
	}
	mealGuests, err := toJSON(guests)
	if err != nil {
		return fmt.Errorf("failed to encode meal guests: %w", err)
	}

	var number any
	if est.Number != 0 {
		number = est.Number
	}

	if est.ID == "" {
		est.ID = uuid.New().String()
		est.CreatedAt = now
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO estimates (`+estimateColumns+`)
			 VALUES (`+placeholders(38)+`)`,
			est.ID, est.TenantID, number, est.CustomerName, est.CustomerPhone, est.CustomerEmail,
			est.EventType, est.EventDate.Format(eventDateLayout), est.EventLocation,
			est.GuestCount, est.GuestCountKids, string(est.Currency), est.ExchangeRate.String(),
			mealPlan, boolInt(est.ALaCarte), boolInt(est.WantsRealDishes),
			nullDec(est.RealDishesPricePerPerson), nullDec(est.RealDishesFlatFee),
			est.StaffHours.String(), est.ExtraWaiters,
			nullDec(est.StaffHourlyRate), nullDec(est.StaffTipPerWaiter),
			est.DepositPercentage.String(), manual, mealGuests,
			est.NotesInternal, est.NotesForCustomer, est.PaymentTerms, boolInt(est.IsInvoice),
			est.FoodPricePerPerson.String(), est.ExtrasTotal.String(), est.StaffTotal.String(),
			est.DishesTotal.String(), est.GrandTotal.String(), est.DepositAmount.String(),
			est.BalanceDue.String(), est.CreatedAt, est.UpdatedAt,
		)
		if err != nil {
			est.ID = ""
			return wrapWrite("failed to insert estimate", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE estimates SET number = ?, customer_name = ?, customer_phone = ?, customer_email = ?,
			event_type = ?, event_date = ?, event_location = ?, guest_count = ?, guest_count_kids = ?,
			currency = ?, exchange_rate = ?, meal_plan = ?, a_la_carte = ?, wants_real_dishes = ?,
			real_dishes_price_per_person = ?, real_dishes_flat_fee = ?, staff_hours = ?,
			extra_waiters = ?, staff_hourly_rate = ?, staff_tip_per_waiter = ?,
			deposit_percentage = ?, manual_meal_totals = ?, meal_guests = ?, notes_internal = ?,
			notes_for_customer = ?, payment_terms = ?, is_invoice = ?,
			food_price_per_person = ?, extras_total = ?, staff_total = ?, dishes_total = ?,
			grand_total = ?, deposit_amount = ?, balance_due = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		number, est.CustomerName, est.CustomerPhone, est.CustomerEmail,
		est.EventType, est.EventDate.Format(eventDateLayout), est.EventLocation,
		est.GuestCount, est.GuestCountKids, string(est.Currency), est.ExchangeRate.String(),
		mealPlan, boolInt(est.ALaCarte), boolInt(est.WantsRealDishes),
		nullDec(est.RealDishesPricePerPerson), nullDec(est.RealDishesFlatFee),
		est.StaffHours.String(), est.ExtraWaiters,
		nullDec(est.StaffHourlyRate), nullDec(est.StaffTipPerWaiter),
		est.DepositPercentage.String(), manual, mealGuests,
		est.NotesInternal, est.NotesForCustomer, est.PaymentTerms, boolInt(est.IsInvoice),
		est.FoodPricePerPerson.String(), est.ExtrasTotal.String(), est.StaffTotal.String(),
		est.DishesTotal.String(), est.GrandTotal.String(), est.DepositAmount.String(),
		est.BalanceDue.String(), est.UpdatedAt,
		est.ID, est.TenantID,
	)
	if err != nil {
		return wrapWrite("failed to update estimate", err)
	}
	return requireRow(res, "estimate", est.ID)
}

func scanEstimate(row interface{ Scan(...any) error }) (*models.Estimate, error) {
	est := &models.Estimate{}
	var (
		number                            sql.NullInt64
		eventDate, currency               string
		mealPlan, manual, mealGuests      string
		aLaCarte, wantsDishes, isInvoice  int
		dishesPP, dishesFlat, hourly, tip decimal.NullDecimal
	)
	err := row.Scan(&est.ID, &est.TenantID, &number, &est.CustomerName, &est.CustomerPhone,
		&est.CustomerEmail, &est.EventType, &eventDate, &est.EventLocation, &est.GuestCount,
		&est.GuestCountKids, &currency, &est.ExchangeRate, &mealPlan, &aLaCarte, &wantsDishes,
		&dishesPP, &dishesFlat, &est.StaffHours, &est.ExtraWaiters, &hourly, &tip,
		&est.DepositPercentage, &manual, &mealGuests, &est.NotesInternal, &est.NotesForCustomer,
		&est.PaymentTerms, &isInvoice, &est.FoodPricePerPerson, &est.ExtrasTotal, &est.StaffTotal,
		&est.DishesTotal, &est.GrandTotal, &est.DepositAmount, &est.BalanceDue,
		&est.CreatedAt, &est.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if number.Valid {
		est.Number = int(number.Int64)
	}
	if est.EventDate, err = time.Parse(eventDateLayout, eventDate); err != nil {
		return nil, fmt.Errorf("failed to parse event date %q: %w", eventDate, err)
	}
	est.Currency = models.Currency(currency)
	est.ALaCarte = aLaCarte != 0
	est.WantsRealDishes = wantsDishes != 0
	est.IsInvoice = isInvoice != 0
	est.RealDishesPricePerPerson = decPtr(dishesPP)
	est.RealDishesFlatFee = decPtr(dishesFlat)
	est.StaffHourlyRate = decPtr(hourly)
	est.StaffTipPerWaiter = decPtr(tip)

	if err := fromJSON(mealPlan, &est.MealPlan); err != nil {
		return nil, fmt.Errorf("failed to decode meal plan: %w", err)
	}
	if err := fromJSON(manual, &est.ManualMealTotals); err != nil {
		return nil, fmt.Errorf("failed to decode manual meal totals: %w", err)
	}
	if err := fromJSON(mealGuests, &est.MealGuests); err != nil {
		return nil, fmt.Errorf("failed to decode meal guests: %w", err)
	}
	return est, nil
}

// GetEstimate retrieves one of the tenant's estimates.
func (s *SQLiteStore) GetEstimate(ctx context.Context, tenantID, estimateID string) (*models.Estimate, error) {
	est, err := scanEstimate(s.db.QueryRowContext(ctx,
		`SELECT `+estimateColumns+` FROM estimates WHERE id = ? AND tenant_id = ?`,
		estimateID, tenantID))
	if isNoRows(err) {
		return nil, notFound("estimate", estimateID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}
	return est, nil
}

// ListEstimates lists the tenant's estimates, newest event first.
func (s *SQLiteStore) ListEstimates(ctx context.Context, tenantID string) ([]*models.Estimate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+estimateColumns+` FROM estimates WHERE tenant_id = ?
		 ORDER BY event_date DESC, created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}
	defer rows.Close()

	var estimates []*models.Estimate
	for rows.Next() {
		est, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan estimate: %w", err)
		}
		estimates = append(estimates, est)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate estimates: %w", err)
	}
	return estimates, nil
}

// DeleteEstimate removes an estimate. Selection rows cascade.
func (s *SQLiteStore) DeleteEstimate(ctx context.Context, tenantID, estimateID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM estimates WHERE id = ? AND tenant_id = ?`, estimateID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete estimate: %w", err)
	}
	return requireRow(res, "estimate", estimateID)
}

// ReplaceSelection swaps the estimate's choices and lines for sel.
func (s *SQLiteStore) ReplaceSelection(ctx context.Context, estimateID string, sel models.Selection) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM estimate_food_choices WHERE estimate_id = ?`, estimateID); err != nil {
		return fmt.Errorf("failed to clear food choices: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM estimate_extra_lines WHERE estimate_id = ?`, estimateID); err != nil {
		return fmt.Errorf("failed to clear extra lines: %w", err)
	}

	for i := range sel.Choices {
		ch := &sel.Choices[i]
		ch.ID = uuid.New().String()
		ch.EstimateID = estimateID
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO estimate_food_choices (id, estimate_id, menu_item_id, meal_name, included,
				servings_per_person, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ch.ID, estimateID, ch.MenuItemID, ch.MealName, boolInt(ch.Included),
			nullDec(ch.ServingsPerPerson), ch.Notes,
		)
		if err != nil {
			return wrapWrite("failed to insert food choice", err)
		}
	}

	for i := range sel.Lines {
		line := &sel.Lines[i]
		line.ID = uuid.New().String()
		line.EstimateID = estimateID
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO estimate_extra_lines (id, estimate_id, extra_item_id, quantity,
				override_price, notes)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			line.ID, estimateID, line.ExtraItemID, line.Quantity.String(),
			nullDec(line.OverridePrice), line.Notes,
		)
		if err != nil {
			return wrapWrite("failed to insert extra line", err)
		}
	}
	return nil
}

// GetSelection loads the estimate's choices and lines in insertion order.
func (s *SQLiteStore) GetSelection(ctx context.Context, estimateID string) (*models.Selection, error) {
	sel := &models.Selection{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, estimate_id, menu_item_id, meal_name, included, servings_per_person, notes
		 FROM estimate_food_choices WHERE estimate_id = ? ORDER BY rowid`, estimateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query food choices: %w", err)
	}
	for rows.Next() {
		var ch models.FoodChoice
		var included int
		var servings decimal.NullDecimal
		if err := rows.Scan(&ch.ID, &ch.EstimateID, &ch.MenuItemID, &ch.MealName, &included,
			&servings, &ch.Notes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan food choice: %w", err)
		}
		ch.Included = included != 0
		ch.ServingsPerPerson = decPtr(servings)
		sel.Choices = append(sel.Choices, ch)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate food choices: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, estimate_id, extra_item_id, quantity, override_price, notes
		 FROM estimate_extra_lines WHERE estimate_id = ? ORDER BY rowid`, estimateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query extra lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line models.ExtraLine
		var override decimal.NullDecimal
		if err := rows.Scan(&line.ID, &line.EstimateID, &line.ExtraItemID, &line.Quantity,
			&override, &line.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan extra line: %w", err)
		}
		line.OverridePrice = decPtr(override)
		sel.Lines = append(sel.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate extra lines: %w", err)
	}
	return sel, nil
}

// UpdateTotals writes only the computed totals of an estimate.
func (s *SQLiteStore) UpdateTotals(ctx context.Context, est *models.Estimate) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE estimates SET food_price_per_person = ?, extras_total = ?, staff_total = ?,
			dishes_total = ?, grand_total = ?, deposit_amount = ?, balance_due = ?
		 WHERE id = ? AND tenant_id = ?`,
		est.FoodPricePerPerson.String(), est.ExtrasTotal.String(), est.StaffTotal.String(),
		est.DishesTotal.String(), est.GrandTotal.String(), est.DepositAmount.String(),
		est.BalanceDue.String(), est.ID, est.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update totals: %w", err)
	}
	return requireRow(res, "estimate", est.ID)
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
