package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	gormsqlite "gorm.io/driver/sqlite"

	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/storage"
	"github.com/mmynk/caterbase/internal/storage/gormstore"
	"github.com/mmynk/caterbase/internal/storage/sqlite"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decP(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertMoney(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", label, got.StringFixed(2), want)
	}
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newGormTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := gormstore.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "gorm.db")), false)
	if err != nil {
		t.Fatalf("Failed to open gorm store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var backends = []struct {
	name string
	open func(t *testing.T) storage.Store
}{
	{"sqlite", newTestStore},
	{"gorm", newGormTestStore},
}

// forEachBackend runs fn with a fresh fixture on every storage backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, f *fixture)) {
	t.Helper()
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, newFixture(t, b.open(t)))
		})
	}
}

type fixture struct {
	store     storage.Store
	tenant    *models.Tenant
	estimates *EstimateService
	catalog   *CatalogService

	steak  *models.MenuItem // 10.00 x 3.00
	salad  *models.MenuItem // 2.50 x 2.00
	favors *models.ExtraItem
	proj   *models.ExtraItem
}

func newFixture(t *testing.T, store storage.Store) *fixture {
	t.Helper()
	ctx := context.Background()

	tenant := models.NewTenant("Olive & Fig Catering")
	if err := store.CreateTenant(ctx, tenant); err != nil {
		t.Fatalf("CreateTenant failed: %v", err)
	}

	f := &fixture{store: store, tenant: tenant}
	f.estimates = NewEstimateService(store, nil, discard)
	f.catalog = NewCatalogService(store, f.estimates, nil, discard)
	f.steak = f.addItem(t, tenant.ID, "Mains", "Steak Strip", "10.00", "3.00")
	f.salad = f.addItem(t, tenant.ID, "Starters", "Garden Salad", "2.50", "2.00")
	f.favors = f.addExtra(t, tenant.ID, "Favors", models.ChargePerPerson, "5.00")
	f.proj = f.addExtra(t, tenant.ID, "Projector", models.ChargePerEvent, "400.00")
	return f
}

func (f *fixture) addItem(t *testing.T, tenantID, category, name, cost, markup string) *models.MenuItem {
	t.Helper()
	item, err := f.catalog.CreateMenuItem(context.Background(), tenantID, &models.MenuItem{
		Name:           name,
		CostPerServing: dec(cost),
		Markup:         dec(markup),
		Active:         true,
	}, category)
	if err != nil {
		t.Fatalf("CreateMenuItem(%s) failed: %v", name, err)
	}
	return item
}

func (f *fixture) addExtra(t *testing.T, tenantID, name string, charge models.ChargeType, price string) *models.ExtraItem {
	t.Helper()
	extra, err := f.catalog.CreateExtraItem(context.Background(), tenantID, &models.ExtraItem{
		Name:       name,
		ChargeType: charge,
		Price:      dec(price),
		Active:     true,
	})
	if err != nil {
		t.Fatalf("CreateExtraItem(%s) failed: %v", name, err)
	}
	return extra
}

// deliveryEstimate is an a-la-carte estimate for 20 adults, so staff and
// dishes stay out of the totals.
func deliveryEstimate(tenantID string) *models.Estimate {
	est := models.NewEstimate(tenantID, "Dana Levi")
	est.GuestCount = 20
	est.ALaCarte = true
	return est
}
