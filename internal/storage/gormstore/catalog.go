package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mmynk/caterbase/internal/models"
)

// GetOrCreateCategory finds a tenant category by name, creating it if needed.
func (s *Store) GetOrCreateCategory(ctx context.Context, tenantID, name string) (*models.MenuCategory, error) {
	// The id is only set on create; a non-zero key on rec would join the lookup.
	var rec categoryRecord
	err := s.conn(ctx).
		Where(categoryRecord{TenantID: tenantID, Name: name}).
		Attrs(categoryRecord{ID: uuid.New().String()}).
		FirstOrCreate(&rec).Error
	if err != nil {
		return nil, wrap("failed to get or create category", "category", name, err)
	}
	return &models.MenuCategory{ID: rec.ID, TenantID: rec.TenantID, Name: rec.Name, SortOrder: rec.SortOrder}, nil
}

// ListCategories returns a tenant's categories in display order.
func (s *Store) ListCategories(ctx context.Context, tenantID string) ([]*models.MenuCategory, error) {
	var recs []categoryRecord
	if err := s.conn(ctx).Where("tenant_id = ?", tenantID).Order("sort_order, name").Find(&recs).Error; err != nil {
		return nil, wrap("failed to list categories", "category", tenantID, err)
	}
	cats := make([]*models.MenuCategory, 0, len(recs))
	for _, r := range recs {
		cats = append(cats, &models.MenuCategory{ID: r.ID, TenantID: r.TenantID, Name: r.Name, SortOrder: r.SortOrder})
	}
	return cats, nil
}

// CreateMenuItem persists a new menu item.
func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	rec := menuItemToRecord(item)
	return wrap("failed to insert menu item", "menu item", item.ID, s.conn(ctx).Create(&rec).Error)
}

// UpdateMenuItem updates an existing menu item of the same tenant.
func (s *Store) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	rec := menuItemToRecord(item)
	res := s.conn(ctx).Model(&menuItemRecord{}).
		Where("id = ? AND tenant_id = ?", item.ID, item.TenantID).
		Select("category_id", "name", "description", "cost_per_serving", "markup",
			"default_servings_per_person", "active").
		Updates(&rec)
	return requireRow(res, "failed to update menu item", "menu item", item.ID)
}

func (s *Store) menuItems(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Model(&menuItemRecord{}).
		Select("menu_items.*, COALESCE(menu_categories.name, '') AS category_name").
		Joins("LEFT JOIN menu_categories ON menu_categories.id = menu_items.category_id")
}

// GetMenuItem retrieves one of the tenant's menu items.
func (s *Store) GetMenuItem(ctx context.Context, tenantID, itemID string) (*models.MenuItem, error) {
	var rec menuItemRecord
	err := s.menuItems(ctx).
		Where("menu_items.id = ? AND menu_items.tenant_id = ?", itemID, tenantID).
		Take(&rec).Error
	if err != nil {
		return nil, wrap("failed to get menu item", "menu item", itemID, err)
	}
	return rec.toModel(), nil
}

// ListMenuItems lists the tenant's menu items in menu order.
func (s *Store) ListMenuItems(ctx context.Context, tenantID string, activeOnly bool) ([]*models.MenuItem, error) {
	q := s.menuItems(ctx).Where("menu_items.tenant_id = ?", tenantID)
	if activeOnly {
		q = q.Where("menu_items.active = ?", true)
	}
	var recs []menuItemRecord
	err := q.Order("COALESCE(menu_categories.sort_order, 0), COALESCE(menu_categories.name, ''), menu_items.name").
		Find(&recs).Error
	if err != nil {
		return nil, wrap("failed to list menu items", "menu item", tenantID, err)
	}
	items := make([]*models.MenuItem, 0, len(recs))
	for _, r := range recs {
		items = append(items, r.toModel())
	}
	return items, nil
}

// CreateExtraItem persists a new extra.
func (s *Store) CreateExtraItem(ctx context.Context, extra *models.ExtraItem) error {
	if extra.ID == "" {
		extra.ID = uuid.New().String()
	}
	rec := extraToRecord(extra)
	return wrap("failed to insert extra item", "extra item", extra.ID, s.conn(ctx).Create(&rec).Error)
}

// UpdateExtraItem updates an existing extra of the same tenant.
func (s *Store) UpdateExtraItem(ctx context.Context, extra *models.ExtraItem) error {
	rec := extraToRecord(extra)
	res := s.conn(ctx).Model(&extraRecord{}).
		Where("id = ? AND tenant_id = ?", extra.ID, extra.TenantID).
		Select("name", "category", "charge_type", "cost", "price", "notes", "active").
		Updates(&rec)
	return requireRow(res, "failed to update extra item", "extra item", extra.ID)
}

// GetExtraItem retrieves one of the tenant's extras.
func (s *Store) GetExtraItem(ctx context.Context, tenantID, extraID string) (*models.ExtraItem, error) {
	var rec extraRecord
	if err := s.conn(ctx).Where("id = ? AND tenant_id = ?", extraID, tenantID).First(&rec).Error; err != nil {
		return nil, wrap("failed to get extra item", "extra item", extraID, err)
	}
	return rec.toModel(), nil
}

// ListExtraItems lists the tenant's extras ordered by category and name.
func (s *Store) ListExtraItems(ctx context.Context, tenantID string, activeOnly bool) ([]*models.ExtraItem, error) {
	q := s.conn(ctx).Where("tenant_id = ?", tenantID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var recs []extraRecord
	if err := q.Order("category, name").Find(&recs).Error; err != nil {
		return nil, wrap("failed to list extra items", "extra item", tenantID, err)
	}
	extras := make([]*models.ExtraItem, 0, len(recs))
	for _, r := range recs {
		extras = append(extras, r.toModel())
	}
	return extras, nil
}

// SaveTemplate upserts a template by (tenant, name).
func (s *Store) SaveTemplate(ctx context.Context, tmpl *models.MenuTemplate) error {
	itemIDs := tmpl.ItemIDs
	if itemIDs == nil {
		itemIDs = []string{}
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var existing templateRecord
		err := tx.Where("tenant_id = ? AND name = ?", tmpl.TenantID, tmpl.Name).First(&existing).Error
		switch {
		case err == nil:
			existing.ItemIDs = itemIDs
			if err := tx.Model(&existing).Select("item_ids").Updates(&existing).Error; err != nil {
				return wrap("failed to update template", "template", existing.ID, err)
			}
			tmpl.ID, tmpl.CreatedAt = existing.ID, existing.CreatedAt
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return wrap("failed to look up template", "template", tmpl.Name, err)
		}

		if tmpl.ID == "" {
			tmpl.ID = uuid.New().String()
		}
		if tmpl.CreatedAt == 0 {
			tmpl.CreatedAt = time.Now().Unix()
		}
		rec := templateRecord{ID: tmpl.ID, TenantID: tmpl.TenantID, Name: tmpl.Name, ItemIDs: itemIDs, CreatedAt: tmpl.CreatedAt}
		return wrap("failed to insert template", "template", tmpl.ID, tx.Create(&rec).Error)
	})
}

// GetTemplate retrieves one of the tenant's templates.
func (s *Store) GetTemplate(ctx context.Context, tenantID, templateID string) (*models.MenuTemplate, error) {
	var rec templateRecord
	if err := s.conn(ctx).Where("id = ? AND tenant_id = ?", templateID, tenantID).First(&rec).Error; err != nil {
		return nil, wrap("failed to get template", "template", templateID, err)
	}
	return rec.toModel(), nil
}

// ListTemplates lists the tenant's templates by name.
func (s *Store) ListTemplates(ctx context.Context, tenantID string) ([]*models.MenuTemplate, error) {
	var recs []templateRecord
	if err := s.conn(ctx).Where("tenant_id = ?", tenantID).Order("name").Find(&recs).Error; err != nil {
		return nil, wrap("failed to list templates", "template", tenantID, err)
	}
	tmpls := make([]*models.MenuTemplate, 0, len(recs))
	for _, r := range recs {
		tmpls = append(tmpls, r.toModel())
	}
	return tmpls, nil
}
