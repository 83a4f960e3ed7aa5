// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/caterbase/internal/models"
)

// ErrNotFound is returned (wrapped) when a row does not exist for the
// given tenant.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned (wrapped) when a unique constraint would be broken.
var ErrConflict = errors.New("already exists")

// TenantStore persists tenants and their estimate numbering.
type TenantStore interface {
	// CreateTenant persists a new tenant. tenant.ID is populated by the store.
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error

	// NextEstimateNumber returns the tenant's counter and increments it.
	NextEstimateNumber(ctx context.Context, tenantID string) (int, error)
}

// OwnerStore persists owner accounts.
type OwnerStore interface {
	CreateOwner(ctx context.Context, owner *models.Owner) error
	// GetOwnerByEmail returns ErrNotFound when no owner uses the address.
	GetOwnerByEmail(ctx context.Context, email string) (*models.Owner, error)
	GetOwnerByID(ctx context.Context, id string) (*models.Owner, error)
}

// CatalogStore persists a tenant's menu and extras catalog. Every lookup is
// scoped by tenant ID.
type CatalogStore interface {
	// GetOrCreateCategory finds a category by exact name or creates it.
	GetOrCreateCategory(ctx context.Context, tenantID, name string) (*models.MenuCategory, error)
	ListCategories(ctx context.Context, tenantID string) ([]*models.MenuCategory, error)

	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	GetMenuItem(ctx context.Context, tenantID, itemID string) (*models.MenuItem, error)
	// ListMenuItems returns items ordered by category sort order, category
	// name and item name.
	ListMenuItems(ctx context.Context, tenantID string, activeOnly bool) ([]*models.MenuItem, error)

	CreateExtraItem(ctx context.Context, extra *models.ExtraItem) error
	UpdateExtraItem(ctx context.Context, extra *models.ExtraItem) error
	GetExtraItem(ctx context.Context, tenantID, extraID string) (*models.ExtraItem, error)
	ListExtraItems(ctx context.Context, tenantID string, activeOnly bool) ([]*models.ExtraItem, error)

	// SaveTemplate creates the template or replaces the items of the
	// tenant's template with the same name.
	SaveTemplate(ctx context.Context, tmpl *models.MenuTemplate) error
	GetTemplate(ctx context.Context, tenantID, templateID string) (*models.MenuTemplate, error)
	ListTemplates(ctx context.Context, tenantID string) ([]*models.MenuTemplate, error)
}

// EstimateStore persists estimates and their selection rows.
type EstimateStore interface {
	// SaveEstimate inserts the estimate when estimate.ID is empty (and
	// assigns the ID) or updates it otherwise. Totals are written as given.
	SaveEstimate(ctx context.Context, estimate *models.Estimate) error
	GetEstimate(ctx context.Context, tenantID, estimateID string) (*models.Estimate, error)
	ListEstimates(ctx context.Context, tenantID string) ([]*models.Estimate, error)
	DeleteEstimate(ctx context.Context, tenantID, estimateID string) error

	// ReplaceSelection deletes every food choice and extra line of the
	// estimate and inserts the given ones. It never patches rows in place.
	ReplaceSelection(ctx context.Context, estimateID string, sel models.Selection) error
	GetSelection(ctx context.Context, estimateID string) (*models.Selection, error)

	// UpdateTotals writes only the computed total columns.
	UpdateTotals(ctx context.Context, estimate *models.Estimate) error
}

// Store is the full persistence surface used by the services. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL via gorm)
// without changing the service layer.
type Store interface {
	TenantStore
	OwnerStore
	CatalogStore
	EstimateStore

	// WithTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithTx on a transactional store runs fn in the same transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases any resources held by the store.
	Close() error
}
