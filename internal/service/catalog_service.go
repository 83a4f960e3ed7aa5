package service

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/mmynk/caterbase/internal/menuimport"
	"github.com/mmynk/caterbase/internal/metrics"
	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/storage"
)

// ImportResult counts the rows created by an import.
type ImportResult struct {
	MenuItems int `json:"menu_items"`
	Extras    int `json:"extras"`
}

// CatalogService manages a tenant's menu items, extras and templates.
type CatalogService struct {
	store     storage.Store
	estimates *EstimateService
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewCatalogService creates a CatalogService. When estimates is non-nil,
// price edits re-price the tenant's stored estimates.
func NewCatalogService(store storage.Store, estimates *EstimateService, m *metrics.Metrics, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{store: store, estimates: estimates, metrics: m, logger: logger}
}

func validateMenuItem(item *models.MenuItem) error {
	switch {
	case strings.TrimSpace(item.Name) == "":
		return invalidf("menu item name is required")
	case item.CostPerServing.IsNegative():
		return invalidf("cost per serving must not be negative")
	case item.Markup.IsNegative():
		return invalidf("markup must not be negative")
	case !item.DefaultServingsPerPerson.IsPositive():
		return invalidf("default servings per person must be positive")
	}
	return nil
}

func validateExtra(extra *models.ExtraItem) error {
	switch {
	case strings.TrimSpace(extra.Name) == "":
		return invalidf("extra name is required")
	case extra.Cost.IsNegative() || extra.Price.IsNegative():
		return invalidf("extra cost and price must not be negative")
	}
	switch extra.ChargeType {
	case models.ChargePerEvent, models.ChargePerPerson:
	default:
		return invalidf("unknown charge type %q", extra.ChargeType)
	}
	switch extra.Category {
	case models.ExtraDecor, models.ExtraRental, models.ExtraService, models.ExtraOther:
	default:
		return invalidf("unknown extra category %q", extra.Category)
	}
	return nil
}

// resolveCategory sets item.CategoryID from categoryName, creating the
// category when needed. A blank name leaves the item uncategorised.
func resolveCategory(ctx context.Context, tx storage.Store, item *models.MenuItem, categoryName string) error {
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		item.CategoryID = ""
		return nil
	}
	cat, err := tx.GetOrCreateCategory(ctx, item.TenantID, categoryName)
	if err != nil {
		return err
	}
	item.CategoryID = cat.ID
	item.CategoryName = cat.Name
	return nil
}

// CreateMenuItem adds a menu item. A zero markup takes the tenant default
// and zero servings become 1.
func (s *CatalogService) CreateMenuItem(ctx context.Context, tenantID string, item *models.MenuItem, categoryName string) (*models.MenuItem, error) {
	item.TenantID = tenantID
	if item.DefaultServingsPerPerson.IsZero() {
		item.DefaultServingsPerPerson = one
	}
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if item.Markup.IsZero() {
			tenant, err := tx.GetTenant(ctx, tenantID)
			if err != nil {
				return err
			}
			item.Markup = tenant.DefaultFoodMarkup
		}
		if err := validateMenuItem(item); err != nil {
			return err
		}
		if err := resolveCategory(ctx, tx, item, categoryName); err != nil {
			return err
		}
		return tx.CreateMenuItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Menu item created", "tenant_id", tenantID, "item_id", item.ID, "name", item.Name)
	return item, nil
}

// UpdateMenuItem saves an edited menu item and re-prices stored estimates.
func (s *CatalogService) UpdateMenuItem(ctx context.Context, tenantID string, item *models.MenuItem, categoryName string) (*models.MenuItem, error) {
	item.TenantID = tenantID
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := resolveCategory(ctx, tx, item, categoryName); err != nil {
			return err
		}
		return tx.UpdateMenuItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	s.repriceEstimates(ctx, tenantID)
	return item, nil
}

// GetMenuItem returns one of the tenant's menu items.
func (s *CatalogService) GetMenuItem(ctx context.Context, tenantID, itemID string) (*models.MenuItem, error) {
	return s.store.GetMenuItem(ctx, tenantID, itemID)
}

// ListMenuItems lists the tenant's menu in menu order.
func (s *CatalogService) ListMenuItems(ctx context.Context, tenantID string, activeOnly bool) ([]*models.MenuItem, error) {
	return s.store.ListMenuItems(ctx, tenantID, activeOnly)
}

// ListCategories lists the tenant's menu categories.
func (s *CatalogService) ListCategories(ctx context.Context, tenantID string) ([]*models.MenuCategory, error) {
	return s.store.ListCategories(ctx, tenantID)
}

// CreateExtraItem adds an extra. Empty category and charge type default to
// OTHER and PER_EVENT.
func (s *CatalogService) CreateExtraItem(ctx context.Context, tenantID string, extra *models.ExtraItem) (*models.ExtraItem, error) {
	extra.TenantID = tenantID
	if extra.Category == "" {
		extra.Category = models.ExtraOther
	}
	if extra.ChargeType == "" {
		extra.ChargeType = models.ChargePerEvent
	}
	if err := validateExtra(extra); err != nil {
		return nil, err
	}
	if err := s.store.CreateExtraItem(ctx, extra); err != nil {
		return nil, err
	}
	s.logger.Info("Extra created", "tenant_id", tenantID, "extra_id", extra.ID, "name", extra.Name)
	return extra, nil
}

// UpdateExtraItem saves an edited extra and re-prices stored estimates.
func (s *CatalogService) UpdateExtraItem(ctx context.Context, tenantID string, extra *models.ExtraItem) (*models.ExtraItem, error) {
	extra.TenantID = tenantID
	if err := validateExtra(extra); err != nil {
		return nil, err
	}
	if err := s.store.UpdateExtraItem(ctx, extra); err != nil {
		return nil, err
	}
	s.repriceEstimates(ctx, tenantID)
	return extra, nil
}

// GetExtraItem returns one of the tenant's extras.
func (s *CatalogService) GetExtraItem(ctx context.Context, tenantID, extraID string) (*models.ExtraItem, error) {
	return s.store.GetExtraItem(ctx, tenantID, extraID)
}

// ListExtraItems lists the tenant's extras.
func (s *CatalogService) ListExtraItems(ctx context.Context, tenantID string, activeOnly bool) ([]*models.ExtraItem, error) {
	return s.store.ListExtraItems(ctx, tenantID, activeOnly)
}

// ListTemplates lists the tenant's menu templates.
func (s *CatalogService) ListTemplates(ctx context.Context, tenantID string) ([]*models.MenuTemplate, error) {
	return s.store.ListTemplates(ctx, tenantID)
}

// SaveTemplate creates or replaces a named template. Every item must
// belong to the tenant.
func (s *CatalogService) SaveTemplate(ctx context.Context, tenantID, name string, itemIDs []string) (*models.MenuTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("template name is required")
	}
	tmpl := &models.MenuTemplate{TenantID: tenantID, Name: name, ItemIDs: itemIDs}
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		for _, id := range itemIDs {
			if _, err := tx.GetMenuItem(ctx, tenantID, id); err != nil {
				return err
			}
		}
		return tx.SaveTemplate(ctx, tmpl)
	})
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// ImportCSV creates menu items and extras from a catalog CSV. Either every
// row is imported or none is.
func (s *CatalogService) ImportCSV(ctx context.Context, tenantID string, r io.Reader) (ImportResult, error) {
	var res ImportResult
	rows, err := menuimport.Parse(r)
	if err != nil {
		return res, invalidf("%v", err)
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		tenant, err := tx.GetTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		for _, row := range rows {
			markup := tenant.DefaultFoodMarkup
			if row.Markup != nil {
				markup = *row.Markup
			}

			if !row.Food {
				extra := &models.ExtraItem{
					TenantID:   tenantID,
					Name:       row.Name,
					Category:   models.ExtraRental,
					ChargeType: models.ChargePerEvent,
					Cost:       row.Cost,
					Price:      row.ExtraPrice(markup),
					Notes:      row.Description,
					Active:     row.Active,
				}
				if err := tx.CreateExtraItem(ctx, extra); err != nil {
					return err
				}
				res.Extras++
				continue
			}

			item := &models.MenuItem{
				TenantID:                 tenantID,
				Name:                     row.Name,
				Description:              row.Description,
				CostPerServing:           row.Cost,
				Markup:                   markup,
				DefaultServingsPerPerson: row.Servings,
				Active:                   row.Active,
			}
			if err := resolveCategory(ctx, tx, item, row.Category); err != nil {
				return err
			}
			if err := tx.CreateMenuItem(ctx, item); err != nil {
				return err
			}
			res.MenuItems++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Catalog import failed", "tenant_id", tenantID, "error", err)
		return ImportResult{}, err
	}

	s.metrics.AddImported("menu_item", res.MenuItems)
	s.metrics.AddImported("extra", res.Extras)
	s.logger.Info("Catalog imported", "tenant_id", tenantID, "menu_items", res.MenuItems, "extras", res.Extras)
	return res, nil
}

func (s *CatalogService) repriceEstimates(ctx context.Context, tenantID string) {
	if s.estimates == nil {
		return
	}
	if _, err := s.estimates.RecalculateAll(ctx, tenantID); err != nil {
		s.logger.Warn("Failed to re-price estimates after catalog edit", "tenant_id", tenantID, "error", err)
	}
}
