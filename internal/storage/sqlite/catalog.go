package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/caterbase/internal/models"
)

// GetOrCreateCategory finds a tenant category by name, creating it if needed.
func (s *SQLiteStore) GetOrCreateCategory(ctx context.Context, tenantID, name string) (*models.MenuCategory, error) {
	cat := &models.MenuCategory{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, sort_order FROM menu_categories WHERE tenant_id = ? AND name = ?`,
		tenantID, name,
	).Scan(&cat.ID, &cat.TenantID, &cat.Name, &cat.SortOrder)
	if err == nil {
		return cat, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	cat = &models.MenuCategory{ID: uuid.New().String(), TenantID: tenantID, Name: name}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO menu_categories (id, tenant_id, name, sort_order) VALUES (?, ?, ?, ?)`,
		cat.ID, cat.TenantID, cat.Name, cat.SortOrder,
	)
	if err != nil {
		return nil, wrapWrite("failed to insert category", err)
	}
	return cat, nil
}

// ListCategories returns a tenant's categories in display order.
func (s *SQLiteStore) ListCategories(ctx context.Context, tenantID string) ([]*models.MenuCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, sort_order FROM menu_categories
		 WHERE tenant_id = ? ORDER BY sort_order, name`, tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var cats []*models.MenuCategory
	for rows.Next() {
		cat := &models.MenuCategory{}
		if err := rows.Scan(&cat.ID, &cat.TenantID, &cat.Name, &cat.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return cats, nil
}

// CreateMenuItem persists a new menu item.
func (s *SQLiteStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO menu_items (id, tenant_id, category_id, name, description, cost_per_serving,
			markup, default_servings_per_person, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.TenantID, nullString(item.CategoryID), item.Name, item.Description,
		item.CostPerServing.String(), item.Markup.String(), item.DefaultServingsPerPerson.String(),
		boolInt(item.Active),
	)
	return wrapWrite("failed to insert menu item", err)
}

// UpdateMenuItem updates an existing menu item of the same tenant.
func (s *SQLiteStore) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE menu_items SET category_id = ?, name = ?, description = ?, cost_per_serving = ?,
			markup = ?, default_servings_per_person = ?, active = ?
		 WHERE id = ? AND tenant_id = ?`,
		nullString(item.CategoryID), item.Name, item.Description, item.CostPerServing.String(),
		item.Markup.String(), item.DefaultServingsPerPerson.String(), boolInt(item.Active),
		item.ID, item.TenantID,
	)
	if err != nil {
		return wrapWrite("failed to update menu item", err)
	}
	return requireRow(res, "menu item", item.ID)
}

const menuItemSelect = `
	SELECT i.id, i.tenant_id, COALESCE(i.category_id, ''), COALESCE(c.name, ''), i.name, i.description,
		i.cost_per_serving, i.markup, i.default_servings_per_person, i.active
	FROM menu_items i
	LEFT JOIN menu_categories c ON c.id = i.category_id`

func scanMenuItem(row interface{ Scan(...any) error }) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	var active int
	err := row.Scan(&item.ID, &item.TenantID, &item.CategoryID, &item.CategoryName, &item.Name,
		&item.Description, &item.CostPerServing, &item.Markup, &item.DefaultServingsPerPerson, &active)
	item.Active = active != 0
	return item, err
}

// GetMenuItem retrieves one of the tenant's menu items.
func (s *SQLiteStore) GetMenuItem(ctx context.Context, tenantID, itemID string) (*models.MenuItem, error) {
	item, err := scanMenuItem(s.db.QueryRowContext(ctx,
		menuItemSelect+` WHERE i.id = ? AND i.tenant_id = ?`, itemID, tenantID))
	if isNoRows(err) {
		return nil, notFound("menu item", itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

// ListMenuItems lists the tenant's menu items in menu order.
func (s *SQLiteStore) ListMenuItems(ctx context.Context, tenantID string, activeOnly bool) ([]*models.MenuItem, error) {
	query := menuItemSelect + ` WHERE i.tenant_id = ?`
	if activeOnly {
		query += ` AND i.active = 1`
	}
	query += ` ORDER BY COALESCE(c.sort_order, 0), COALESCE(c.name, ''), i.name`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}
	return items, nil
}

// CreateExtraItem persists a new extra.
func (s *SQLiteStore) CreateExtraItem(ctx context.Context, extra *models.ExtraItem) error {
	if extra.ID == "" {
		extra.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extra_items (id, tenant_id, name, category, charge_type, cost, price, notes, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		extra.ID, extra.TenantID, extra.Name, string(extra.Category), string(extra.ChargeType),
		extra.Cost.String(), extra.Price.String(), extra.Notes, boolInt(extra.Active),
	)
	return wrapWrite("failed to insert extra item", err)
}

// UpdateExtraItem updates an existing extra of the same tenant.
func (s *SQLiteStore) UpdateExtraItem(ctx context.Context, extra *models.ExtraItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE extra_items SET name = ?, category = ?, charge_type = ?, cost = ?, price = ?,
			notes = ?, active = ?
		 WHERE id = ? AND tenant_id = ?`,
		extra.Name, string(extra.Category), string(extra.ChargeType), extra.Cost.String(),
		extra.Price.String(), extra.Notes, boolInt(extra.Active), extra.ID, extra.TenantID,
	)
	if err != nil {
		return wrapWrite("failed to update extra item", err)
	}
	return requireRow(res, "extra item", extra.ID)
}

const extraSelect = `SELECT id, tenant_id, name, category, charge_type, cost, price, notes, active FROM extra_items`

func scanExtra(row interface{ Scan(...any) error }) (*models.ExtraItem, error) {
	extra := &models.ExtraItem{}
	var category, chargeType string
	var active int
	err := row.Scan(&extra.ID, &extra.TenantID, &extra.Name, &category, &chargeType,
		&extra.Cost, &extra.Price, &extra.Notes, &active)
	extra.Category = models.ExtraCategory(category)
	extra.ChargeType = models.ChargeType(chargeType)
	extra.Active = active != 0
	return extra, err
}

// GetExtraItem retrieves one of the tenant's extras.
func (s *SQLiteStore) GetExtraItem(ctx context.Context, tenantID, extraID string) (*models.ExtraItem, error) {
	extra, err := scanExtra(s.db.QueryRowContext(ctx,
		extraSelect+` WHERE id = ? AND tenant_id = ?`, extraID, tenantID))
	if isNoRows(err) {
		return nil, notFound("extra item", extraID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get extra item: %w", err)
	}
	return extra, nil
}

// ListExtraItems lists the tenant's extras ordered by category and name.
func (s *SQLiteStore) ListExtraItems(ctx context.Context, tenantID string, activeOnly bool) ([]*models.ExtraItem, error) {
	query := extraSelect + ` WHERE tenant_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY category, name`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list extra items: %w", err)
	}
	defer rows.Close()

	var extras []*models.ExtraItem
	for rows.Next() {
		extra, err := scanExtra(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan extra item: %w", err)
		}
		extras = append(extras, extra)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate extra items: %w", err)
	}
	return extras, nil
}

// SaveTemplate upserts a template by (tenant, name).
func (s *SQLiteStore) SaveTemplate(ctx context.Context, tmpl *models.MenuTemplate) error {
	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	if tmpl.CreatedAt == 0 {
		tmpl.CreatedAt = time.Now().Unix()
	}
	itemIDs, err := toJSON(nonNilStrings(tmpl.ItemIDs))
	if err != nil {
		return fmt.Errorf("failed to encode template items: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO menu_templates (id, tenant_id, name, item_ids, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (tenant_id, name) DO UPDATE SET item_ids = excluded.item_ids
		 RETURNING id, created_at`,
		tmpl.ID, tmpl.TenantID, tmpl.Name, itemIDs, tmpl.CreatedAt,
	).Scan(&tmpl.ID, &tmpl.CreatedAt)
	return wrapWrite("failed to save template", err)
}

func scanTemplate(row interface{ Scan(...any) error }) (*models.MenuTemplate, error) {
	tmpl := &models.MenuTemplate{}
	var itemIDs string
	if err := row.Scan(&tmpl.ID, &tmpl.TenantID, &tmpl.Name, &itemIDs, &tmpl.CreatedAt); err != nil {
		return nil, err
	}
	if err := fromJSON(itemIDs, &tmpl.ItemIDs); err != nil {
		return nil, fmt.Errorf("failed to decode template items: %w", err)
	}
	return tmpl, nil
}

// GetTemplate retrieves one of the tenant's templates.
func (s *SQLiteStore) GetTemplate(ctx context.Context, tenantID, templateID string) (*models.MenuTemplate, error) {
	tmpl, err := scanTemplate(s.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, item_ids, created_at FROM menu_templates WHERE id = ? AND tenant_id = ?`,
		templateID, tenantID))
	if isNoRows(err) {
		return nil, notFound("template", templateID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return tmpl, nil
}

// ListTemplates lists the tenant's templates by name.
func (s *SQLiteStore) ListTemplates(ctx context.Context, tenantID string) ([]*models.MenuTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, item_ids, created_at FROM menu_templates WHERE tenant_id = ? ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var tmpls []*models.MenuTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		tmpls = append(tmpls, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return tmpls, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
