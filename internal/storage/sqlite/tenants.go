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

const tenantColumns = `id, name, slug, default_currency, default_food_markup, staff_hourly_rate,
	staff_tip_per_waiter, real_dishes_price_per_person, real_dishes_flat_fee,
	default_payment_terms, estimate_number_counter, created_at`

// CreateTenant persists a new tenant.
func (s *SQLiteStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = uuid.New().String()
	}
	if tenant.CreatedAt == 0 {
		tenant.CreatedAt = time.Now().Unix()
	}
	if tenant.Slug == "" {
		tenant.Slug = models.Slugify(tenant.Name)
	}
	if tenant.EstimateNumberCounter == 0 {
		tenant.EstimateNumberCounter = models.FirstEstimateNumber
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tenants (`+tenantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tenant.ID, tenant.Name, tenant.Slug, string(tenant.DefaultCurrency), tenant.DefaultFoodMarkup.String(),
		nullDec(tenant.StaffHourlyRate), nullDec(tenant.StaffTipPerWaiter),
		nullDec(tenant.RealDishesPricePerPerson), nullDec(tenant.RealDishesFlatFee),
		tenant.DefaultPaymentTerms, tenant.EstimateNumberCounter, tenant.CreatedAt,
	)
	return wrapWrite("failed to insert tenant", err)
}

// GetTenant retrieves a tenant by ID.
func (s *SQLiteStore) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	var currency string
	var hourly, tip, dishesPP, dishesFlat decimal.NullDecimal

	err := s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, tenantID,
	).Scan(&tenant.ID, &tenant.Name, &tenant.Slug, &currency, &tenant.DefaultFoodMarkup,
		&hourly, &tip, &dishesPP, &dishesFlat,
		&tenant.DefaultPaymentTerms, &tenant.EstimateNumberCounter, &tenant.CreatedAt)
	if isNoRows(err) {
		return nil, notFound("tenant", tenantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	tenant.DefaultCurrency = models.Currency(currency)
	tenant.StaffHourlyRate = decPtr(hourly)
	tenant.StaffTipPerWaiter = decPtr(tip)
	tenant.RealDishesPricePerPerson = decPtr(dishesPP)
	tenant.RealDishesFlatFee = decPtr(dishesFlat)
	return tenant, nil
}

// UpdateTenant updates a tenant's profile and pricing defaults. The estimate
// counter is only changed through NextEstimateNumber.
func (s *SQLiteStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tenants SET name = ?, slug = ?, default_currency = ?, default_food_markup = ?,
			staff_hourly_rate = ?, staff_tip_per_waiter = ?, real_dishes_price_per_person = ?,
			real_dishes_flat_fee = ?, default_payment_terms = ?
		 WHERE id = ?`,
		tenant.Name, tenant.Slug, string(tenant.DefaultCurrency), tenant.DefaultFoodMarkup.String(),
		nullDec(tenant.StaffHourlyRate), nullDec(tenant.StaffTipPerWaiter),
		nullDec(tenant.RealDishesPricePerPerson), nullDec(tenant.RealDishesFlatFee),
		tenant.DefaultPaymentTerms, tenant.ID,
	)
	if err != nil {
		return wrapWrite("failed to update tenant", err)
	}
	return requireRow(res, "tenant", tenant.ID)
}

// NextEstimateNumber hands out the tenant's next estimate number.
func (s *SQLiteStore) NextEstimateNumber(ctx context.Context, tenantID string) (int, error) {
	var number int
	err := s.db.QueryRowContext(ctx,
		`UPDATE tenants SET estimate_number_counter = estimate_number_counter + 1
		 WHERE id = ? RETURNING estimate_number_counter - 1`, tenantID,
	).Scan(&number)
	if isNoRows(err) {
		return 0, notFound("tenant", tenantID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to advance estimate counter: %w", err)
	}
	return number, nil
}

// requireRow turns "no rows affected" into storage.ErrNotFound.
func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
