// Package gormstore provides a gorm-backed implementation of storage.Store.
// Production uses PostgreSQL; any gorm dialector works.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on top of a *gorm.DB.
type Store struct {
	db   *gorm.DB
	inTx bool
}

// OpenPostgres connects to PostgreSQL and migrates the schema.
func OpenPostgres(dsn string, debug bool) (*Store, error) {
	return Open(postgres.Open(dsn), debug)
}

// Open connects through the given dialector and migrates the schema.
func Open(dialector gorm.Dialector, debug bool) (*Store, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(allRecords()...); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s.inTx {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn inside a transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, inTx: true})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
}

// wrap maps gorm's translated errors onto the storage sentinels.
func wrap(msg, kind, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(kind, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w: %v", msg, storage.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func requireRow(res *gorm.DB, msg, kind, id string) error {
	if res.Error != nil {
		return wrap(msg, kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(kind, id)
	}
	return nil
}

// CreateTenant persists a new tenant.
func (s *Store) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
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
	rec := tenantToRecord(tenant)
	return wrap("failed to insert tenant", "tenant", tenant.ID, s.conn(ctx).Create(&rec).Error)
}

// GetTenant retrieves a tenant by ID.
func (s *Store) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	var rec tenantRecord
	if err := s.conn(ctx).Where("id = ?", tenantID).First(&rec).Error; err != nil {
		return nil, wrap("failed to get tenant", "tenant", tenantID, err)
	}
	return rec.toModel(), nil
}

// UpdateTenant updates profile and defaults but never the estimate counter.
func (s *Store) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	rec := tenantToRecord(tenant)
	res := s.conn(ctx).Model(&tenantRecord{}).Where("id = ?", tenant.ID).
		Select("name", "slug", "default_currency", "default_food_markup", "staff_hourly_rate",
			"staff_tip_per_waiter", "real_dishes_price_per_person", "real_dishes_flat_fee",
			"default_payment_terms").
		Updates(&rec)
	return requireRow(res, "failed to update tenant", "tenant", tenant.ID)
}

// NextEstimateNumber hands out the tenant's next estimate number. The row
// stays locked by the increment until the transaction ends.
func (s *Store) NextEstimateNumber(ctx context.Context, tenantID string) (int, error) {
	var number int
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&tenantRecord{}).Where("id = ?", tenantID).
			Update("estimate_number_counter", gorm.Expr("estimate_number_counter + 1"))
		if err := requireRow(res, "failed to advance estimate counter", "tenant", tenantID); err != nil {
			return err
		}
		var rec tenantRecord
		if err := tx.Select("estimate_number_counter").Where("id = ?", tenantID).First(&rec).Error; err != nil {
			return wrap("failed to read estimate counter", "tenant", tenantID, err)
		}
		number = rec.EstimateNumberCounter - 1
		return nil
	})
	return number, err
}

// CreateOwner persists a new owner.
func (s *Store) CreateOwner(ctx context.Context, owner *models.Owner) error {
	if owner.ID == "" {
		owner.ID = uuid.New().String()
	}
	rec := ownerRecord{
		ID:           owner.ID,
		TenantID:     owner.TenantID,
		Email:        owner.Email,
		DisplayName:  owner.DisplayName,
		PasswordHash: owner.PasswordHash,
		CreatedAt:    owner.CreatedAt,
		UpdatedAt:    owner.UpdatedAt,
	}
	if err := s.conn(ctx).Create(&rec).Error; err != nil {
		return wrap("failed to insert owner", "owner", owner.ID, err)
	}
	owner.CreatedAt, owner.UpdatedAt = rec.CreatedAt, rec.UpdatedAt
	return nil
}

// GetOwnerByEmail retrieves the owner using the login address.
func (s *Store) GetOwnerByEmail(ctx context.Context, email string) (*models.Owner, error) {
	var rec ownerRecord
	if err := s.conn(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		return nil, wrap("failed to get owner", "owner", email, err)
	}
	return rec.toModel(), nil
}

// GetOwnerByID retrieves an owner by ID.
func (s *Store) GetOwnerByID(ctx context.Context, id string) (*models.Owner, error) {
	var rec ownerRecord
	if err := s.conn(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, wrap("failed to get owner", "owner", id, err)
	}
	return rec.toModel(), nil
}
