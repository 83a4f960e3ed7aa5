package gormstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"

	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "gorm.db")), false)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGormStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tenant := models.NewTenant("Gorm Catering")
	if err := store.CreateTenant(ctx, tenant); err != nil {
		t.Fatalf("CreateTenant failed: %v", err)
	}

	t.Run("tenant defaults round trip", func(t *testing.T) {
		got, err := store.GetTenant(ctx, tenant.ID)
		if err != nil {
			t.Fatalf("GetTenant failed: %v", err)
		}
		if got.RealDishesFlatFee == nil || !got.RealDishesFlatFee.Equal(dec("400")) {
			t.Errorf("RealDishesFlatFee = %v, want 400", got.RealDishesFlatFee)
		}
		if _, err := store.GetTenant(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("NextEstimateNumber increments", func(t *testing.T) {
		first, err := store.NextEstimateNumber(ctx, tenant.ID)
		if err != nil {
			t.Fatalf("NextEstimateNumber failed: %v", err)
		}
		second, _ := store.NextEstimateNumber(ctx, tenant.ID)
		if first != 1000 || second != 1001 {
			t.Errorf("numbers = %d, %d; want 1000, 1001", first, second)
		}
	})

	t.Run("duplicate owner email conflicts", func(t *testing.T) {
		if err := store.CreateOwner(ctx, models.NewOwner(tenant.ID, "a@example.com", "A", "h")); err != nil {
			t.Fatalf("CreateOwner failed: %v", err)
		}
		err := store.CreateOwner(ctx, models.NewOwner(tenant.ID, "a@example.com", "B", "h"))
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
	})

	cat, err := store.GetOrCreateCategory(ctx, tenant.ID, "Kids Menu")
	if err != nil {
		t.Fatalf("GetOrCreateCategory failed: %v", err)
	}
	item := &models.MenuItem{
		TenantID: tenant.ID, CategoryID: cat.ID, Name: "Nuggets", CostPerServing: dec("3"),
		Markup: dec("2"), DefaultServingsPerPerson: dec("1"), Active: true,
	}
	if err := store.CreateMenuItem(ctx, item); err != nil {
		t.Fatalf("CreateMenuItem failed: %v", err)
	}

	t.Run("menu item carries category name", func(t *testing.T) {
		got, err := store.GetMenuItem(ctx, tenant.ID, item.ID)
		if err != nil {
			t.Fatalf("GetMenuItem failed: %v", err)
		}
		if got.CategoryName != "Kids Menu" || got.CategoryID != cat.ID {
			t.Errorf("category = %q/%q", got.CategoryName, got.CategoryID)
		}
		again, err := store.GetOrCreateCategory(ctx, tenant.ID, "Kids Menu")
		if err != nil {
			t.Fatalf("GetOrCreateCategory (existing) failed: %v", err)
		}
		if again.ID != cat.ID {
			t.Errorf("category recreated: %s != %s", again.ID, cat.ID)
		}
	})

	t.Run("template upsert keeps id", func(t *testing.T) {
		a := &models.MenuTemplate{TenantID: tenant.ID, Name: "Party"}
		if err := store.SaveTemplate(ctx, a); err != nil {
			t.Fatalf("SaveTemplate failed: %v", err)
		}
		b := &models.MenuTemplate{TenantID: tenant.ID, Name: "Party", ItemIDs: []string{item.ID}}
		if err := store.SaveTemplate(ctx, b); err != nil {
			t.Fatalf("SaveTemplate failed: %v", err)
		}
		got, err := store.GetTemplate(ctx, tenant.ID, a.ID)
		if err != nil {
			t.Fatalf("GetTemplate failed: %v", err)
		}
		if b.ID != a.ID || len(got.ItemIDs) != 1 {
			t.Errorf("template = %+v, want id %s with 1 item", got, a.ID)
		}
	})

	t.Run("estimate, selection and totals", func(t *testing.T) {
		est := models.NewEstimate(tenant.ID, "Noa")
		est.EventDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		est.GuestCount = 10
		est.MealPlan = []string{"Lunch"}
		if err := store.SaveEstimate(ctx, est); err != nil {
			t.Fatalf("SaveEstimate failed: %v", err)
		}

		sel := models.Selection{Choices: []models.FoodChoice{
			{MenuItemID: item.ID, MealName: "Lunch", Included: true},
		}}
		err := store.WithTx(ctx, func(tx storage.Store) error {
			if err := tx.ReplaceSelection(ctx, est.ID, sel); err != nil {
				return err
			}
			est.GrandTotal = dec("60")
			return tx.UpdateTotals(ctx, est)
		})
		if err != nil {
			t.Fatalf("WithTx failed: %v", err)
		}

		got, err := store.GetEstimate(ctx, tenant.ID, est.ID)
		if err != nil {
			t.Fatalf("GetEstimate failed: %v", err)
		}
		if !got.GrandTotal.Equal(dec("60")) || got.MealPlan[0] != "Lunch" || got.Number != 0 {
			t.Errorf("estimate = %+v", got)
		}
		loaded, err := store.GetSelection(ctx, est.ID)
		if err != nil {
			t.Fatalf("GetSelection failed: %v", err)
		}
		if len(loaded.Choices) != 1 || loaded.Choices[0].ServingsPerPerson != nil {
			t.Errorf("choices = %+v", loaded.Choices)
		}

		if err := store.DeleteEstimate(ctx, tenant.ID, est.ID); err != nil {
			t.Fatalf("DeleteEstimate failed: %v", err)
		}
		loaded, _ = store.GetSelection(ctx, est.ID)
		if len(loaded.Choices) != 0 {
			t.Errorf("choices survived delete: %d", len(loaded.Choices))
		}
	})

	t.Run("rolled back transaction leaves no estimate", func(t *testing.T) {
		est := models.NewEstimate(tenant.ID, "Rollback")
		boom := errors.New("boom")
		err := store.WithTx(ctx, func(tx storage.Store) error {
			if err := tx.SaveEstimate(ctx, est); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
		if _, err := store.GetEstimate(ctx, tenant.ID, est.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestGetOrCreateCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := models.NewTenant("First Caterer")
	b := models.NewTenant("Second Caterer")
	for _, tenant := range []*models.Tenant{a, b} {
		if err := store.CreateTenant(ctx, tenant); err != nil {
			t.Fatalf("CreateTenant failed: %v", err)
		}
	}

	first, err := store.GetOrCreateCategory(ctx, a.ID, "Mains")
	if err != nil {
		t.Fatalf("GetOrCreateCategory failed: %v", err)
	}
	second, err := store.GetOrCreateCategory(ctx, a.ID, "Mains")
	if err != nil {
		t.Fatalf("GetOrCreateCategory (existing) failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second id = %s, want %s", second.ID, first.ID)
	}

	other, err := store.GetOrCreateCategory(ctx, b.ID, "Mains")
	if err != nil {
		t.Fatalf("GetOrCreateCategory (other tenant) failed: %v", err)
	}
	if other.ID == first.ID {
		t.Error("tenants share a category")
	}

	cats, err := store.ListCategories(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 1 {
		t.Errorf("categories = %d, want 1", len(cats))
	}
}
