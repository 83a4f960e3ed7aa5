package gormstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/caterbase/internal/models"
)

// Records mirror the SQLite schema. Money is stored as NUMERIC.

type tenantRecord struct {
	ID                       string              `gorm:"primaryKey"`
	Name                     string              `gorm:"not null"`
	Slug                     string              `gorm:"uniqueIndex;not null"`
	DefaultCurrency          string              `gorm:"not null"`
	DefaultFoodMarkup        decimal.Decimal     `gorm:"type:numeric;not null"`
	StaffHourlyRate          decimal.NullDecimal `gorm:"type:numeric"`
	StaffTipPerWaiter        decimal.NullDecimal `gorm:"type:numeric"`
	RealDishesPricePerPerson decimal.NullDecimal `gorm:"type:numeric"`
	RealDishesFlatFee        decimal.NullDecimal `gorm:"type:numeric"`
	DefaultPaymentTerms      string
	EstimateNumberCounter    int `gorm:"not null;default:1000"`
	CreatedAt                int64
}

func (tenantRecord) TableName() string { return "tenants" }

type ownerRecord struct {
	ID           string `gorm:"primaryKey"`
	TenantID     string `gorm:"index;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	DisplayName  string
	PasswordHash string `gorm:"not null"`
	CreatedAt    int64
	UpdatedAt    int64
}

func (ownerRecord) TableName() string { return "owners" }

type categoryRecord struct {
	ID        string `gorm:"primaryKey"`
	TenantID  string `gorm:"uniqueIndex:idx_category_tenant_name;not null"`
	Name      string `gorm:"uniqueIndex:idx_category_tenant_name;not null"`
	SortOrder int
}

func (categoryRecord) TableName() string { return "menu_categories" }

type menuItemRecord struct {
	ID                       string  `gorm:"primaryKey"`
	TenantID                 string  `gorm:"index;not null"`
	CategoryID               *string `gorm:"index"`
	CategoryName             string  `gorm:"->;-:migration"`
	Name                     string  `gorm:"not null"`
	Description              string
	CostPerServing           decimal.Decimal `gorm:"type:numeric;not null"`
	Markup                   decimal.Decimal `gorm:"type:numeric;not null"`
	DefaultServingsPerPerson decimal.Decimal `gorm:"type:numeric;not null"`
	Active                   bool
}

func (menuItemRecord) TableName() string { return "menu_items" }

type extraRecord struct {
	ID         string `gorm:"primaryKey"`
	TenantID   string `gorm:"index;not null"`
	Name       string `gorm:"not null"`
	Category   string
	ChargeType string
	Cost       decimal.Decimal `gorm:"type:numeric;not null"`
	Price      decimal.Decimal `gorm:"type:numeric;not null"`
	Notes      string
	Active     bool
}

func (extraRecord) TableName() string { return "extra_items" }

type templateRecord struct {
	ID        string   `gorm:"primaryKey"`
	TenantID  string   `gorm:"uniqueIndex:idx_template_tenant_name;not null"`
	Name      string   `gorm:"uniqueIndex:idx_template_tenant_name;not null"`
	ItemIDs   []string `gorm:"type:text;serializer:json"`
	CreatedAt int64
}

func (templateRecord) TableName() string { return "menu_templates" }

type estimateRecord struct {
	ID       string `gorm:"primaryKey"`
	TenantID string `gorm:"index;uniqueIndex:idx_estimate_tenant_number;not null"`
	Number   *int   `gorm:"uniqueIndex:idx_estimate_tenant_number"`

	CustomerName  string `gorm:"not null"`
	CustomerPhone string
	CustomerEmail string
	EventType     string
	EventDate     time.Time
	EventLocation string

	GuestCount     int
	GuestCountKids int
	Currency       string
	ExchangeRate   decimal.Decimal `gorm:"type:numeric"`
	MealPlan       []string        `gorm:"type:text;serializer:json"`

	ALaCarte                 bool
	WantsRealDishes          bool
	RealDishesPricePerPerson decimal.NullDecimal `gorm:"type:numeric"`
	RealDishesFlatFee        decimal.NullDecimal `gorm:"type:numeric"`
	StaffHours               decimal.Decimal     `gorm:"type:numeric"`
	ExtraWaiters             int
	StaffHourlyRate          decimal.NullDecimal `gorm:"type:numeric"`
	StaffTipPerWaiter        decimal.NullDecimal `gorm:"type:numeric"`
	DepositPercentage        decimal.Decimal     `gorm:"type:numeric"`

	ManualMealTotals map[string]string            `gorm:"type:text;serializer:json"`
	MealGuests       map[string]models.MealGuests `gorm:"type:text;serializer:json"`

	NotesInternal    string
	NotesForCustomer string
	PaymentTerms     string
	IsInvoice        bool

	FoodPricePerPerson decimal.Decimal `gorm:"type:numeric"`
	ExtrasTotal        decimal.Decimal `gorm:"type:numeric"`
	StaffTotal         decimal.Decimal `gorm:"type:numeric"`
	DishesTotal        decimal.Decimal `gorm:"type:numeric"`
	GrandTotal         decimal.Decimal `gorm:"type:numeric"`
	DepositAmount      decimal.Decimal `gorm:"type:numeric"`
	BalanceDue         decimal.Decimal `gorm:"type:numeric"`

	CreatedAt int64
	UpdatedAt int64
}

func (estimateRecord) TableName() string { return "estimates" }

type foodChoiceRecord struct {
	ID                string              `gorm:"primaryKey"`
	EstimateID        string              `gorm:"index;uniqueIndex:idx_choice_item_meal;not null"`
	MenuItemID        string              `gorm:"uniqueIndex:idx_choice_item_meal;not null"`
	MealName          string              `gorm:"uniqueIndex:idx_choice_item_meal"`
	Position          int                 `gorm:"not null"`
	Included          bool                `gorm:"not null"`
	ServingsPerPerson decimal.NullDecimal `gorm:"type:numeric"`
	Notes             string
}

func (foodChoiceRecord) TableName() string { return "estimate_food_choices" }

type extraLineRecord struct {
	ID            string              `gorm:"primaryKey"`
	EstimateID    string              `gorm:"index;not null"`
	ExtraItemID   string              `gorm:"not null"`
	Position      int                 `gorm:"not null"`
	Quantity      decimal.Decimal     `gorm:"type:numeric"`
	OverridePrice decimal.NullDecimal `gorm:"type:numeric"`
	Notes         string
}

func (extraLineRecord) TableName() string { return "estimate_extra_lines" }

func allRecords() []any {
	return []any{
		&tenantRecord{}, &ownerRecord{}, &categoryRecord{}, &menuItemRecord{}, &extraRecord{},
		&templateRecord{}, &estimateRecord{}, &foodChoiceRecord{}, &extraLineRecord{},
	}
}

func nullDec(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func tenantToRecord(t *models.Tenant) tenantRecord {
	return tenantRecord{
		ID:                       t.ID,
		Name:                     t.Name,
		Slug:                     t.Slug,
		DefaultCurrency:          string(t.DefaultCurrency),
		DefaultFoodMarkup:        t.DefaultFoodMarkup,
		StaffHourlyRate:          nullDec(t.StaffHourlyRate),
		StaffTipPerWaiter:        nullDec(t.StaffTipPerWaiter),
		RealDishesPricePerPerson: nullDec(t.RealDishesPricePerPerson),
		RealDishesFlatFee:        nullDec(t.RealDishesFlatFee),
		DefaultPaymentTerms:      t.DefaultPaymentTerms,
		EstimateNumberCounter:    t.EstimateNumberCounter,
		CreatedAt:                t.CreatedAt,
	}
}

func (r tenantRecord) toModel() *models.Tenant {
	return &models.Tenant{
		ID:                       r.ID,
		Name:                     r.Name,
		Slug:                     r.Slug,
		DefaultCurrency:          models.Currency(r.DefaultCurrency),
		DefaultFoodMarkup:        r.DefaultFoodMarkup,
		StaffHourlyRate:          decPtr(r.StaffHourlyRate),
		StaffTipPerWaiter:        decPtr(r.StaffTipPerWaiter),
		RealDishesPricePerPerson: decPtr(r.RealDishesPricePerPerson),
		RealDishesFlatFee:        decPtr(r.RealDishesFlatFee),
		DefaultPaymentTerms:      r.DefaultPaymentTerms,
		EstimateNumberCounter:    r.EstimateNumberCounter,
		CreatedAt:                r.CreatedAt,
	}
}

func (r ownerRecord) toModel() *models.Owner {
	return &models.Owner{
		ID:           r.ID,
		TenantID:     r.TenantID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func menuItemToRecord(m *models.MenuItem) menuItemRecord {
	return menuItemRecord{
		ID:                       m.ID,
		TenantID:                 m.TenantID,
		CategoryID:               strPtr(m.CategoryID),
		Name:                     m.Name,
		Description:              m.Description,
		CostPerServing:           m.CostPerServing,
		Markup:                   m.Markup,
		DefaultServingsPerPerson: m.DefaultServingsPerPerson,
		Active:                   m.Active,
	}
}

func (r menuItemRecord) toModel() *models.MenuItem {
	item := &models.MenuItem{
		ID:                       r.ID,
		TenantID:                 r.TenantID,
		CategoryName:             r.CategoryName,
		Name:                     r.Name,
		Description:              r.Description,
		CostPerServing:           r.CostPerServing,
		Markup:                   r.Markup,
		DefaultServingsPerPerson: r.DefaultServingsPerPerson,
		Active:                   r.Active,
	}
	if r.CategoryID != nil {
		item.CategoryID = *r.CategoryID
	}
	return item
}

func extraToRecord(e *models.ExtraItem) extraRecord {
	return extraRecord{
		ID:         e.ID,
		TenantID:   e.TenantID,
		Name:       e.Name,
		Category:   string(e.Category),
		ChargeType: string(e.ChargeType),
		Cost:       e.Cost,
		Price:      e.Price,
		Notes:      e.Notes,
		Active:     e.Active,
	}
}

func (r extraRecord) toModel() *models.ExtraItem {
	return &models.ExtraItem{
		ID:         r.ID,
		TenantID:   r.TenantID,
		Name:       r.Name,
		Category:   models.ExtraCategory(r.Category),
		ChargeType: models.ChargeType(r.ChargeType),
		Cost:       r.Cost,
		Price:      r.Price,
		Notes:      r.Notes,
		Active:     r.Active,
	}
}

func (r templateRecord) toModel() *models.MenuTemplate {
	return &models.MenuTemplate{
		ID:        r.ID,
		TenantID:  r.TenantID,
		Name:      r.Name,
		ItemIDs:   r.ItemIDs,
		CreatedAt: r.CreatedAt,
	}
}

func estimateToRecord(e *models.Estimate) estimateRecord {
	r := estimateRecord{
		ID:                       e.ID,
		TenantID:                 e.TenantID,
		CustomerName:             e.CustomerName,
		CustomerPhone:            e.CustomerPhone,
		CustomerEmail:            e.CustomerEmail,
		EventType:                e.EventType,
		EventDate:                e.EventDate,
		EventLocation:            e.EventLocation,
		GuestCount:               e.GuestCount,
		GuestCountKids:           e.GuestCountKids,
		Currency:                 string(e.Currency),
		ExchangeRate:             e.ExchangeRate,
		MealPlan:                 e.MealPlan,
		ALaCarte:                 e.ALaCarte,
		WantsRealDishes:          e.WantsRealDishes,
		RealDishesPricePerPerson: nullDec(e.RealDishesPricePerPerson),
		RealDishesFlatFee:        nullDec(e.RealDishesFlatFee),
		StaffHours:               e.StaffHours,
		ExtraWaiters:             e.ExtraWaiters,
		StaffHourlyRate:          nullDec(e.StaffHourlyRate),
		StaffTipPerWaiter:        nullDec(e.StaffTipPerWaiter),
		DepositPercentage:        e.DepositPercentage,
		ManualMealTotals:         e.ManualMealTotals,
		MealGuests:               e.MealGuests,
		NotesInternal:            e.NotesInternal,
		NotesForCustomer:         e.NotesForCustomer,
		PaymentTerms:             e.PaymentTerms,
		IsInvoice:                e.IsInvoice,
		FoodPricePerPerson:       e.FoodPricePerPerson,
		ExtrasTotal:              e.ExtrasTotal,
		StaffTotal:               e.StaffTotal,
		DishesTotal:              e.DishesTotal,
		GrandTotal:               e.GrandTotal,
		DepositAmount:            e.DepositAmount,
		BalanceDue:               e.BalanceDue,
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
	}
	if e.Number != 0 {
		n := e.Number
		r.Number = &n
	}
	if r.MealPlan == nil {
		r.MealPlan = []string{}
	}
	if r.ManualMealTotals == nil {
		r.ManualMealTotals = map[string]string{}
	}
	if r.MealGuests == nil {
		r.MealGuests = map[string]models.MealGuests{}
	}
	return r
}

func (r estimateRecord) toModel() *models.Estimate {
	e := &models.Estimate{
		ID:                       r.ID,
		TenantID:                 r.TenantID,
		CustomerName:             r.CustomerName,
		CustomerPhone:            r.CustomerPhone,
		CustomerEmail:            r.CustomerEmail,
		EventType:                r.EventType,
		EventDate:                r.EventDate.UTC(),
		EventLocation:            r.EventLocation,
		GuestCount:               r.GuestCount,
		GuestCountKids:           r.GuestCountKids,
		Currency:                 models.Currency(r.Currency),
		ExchangeRate:             r.ExchangeRate,
		MealPlan:                 r.MealPlan,
		ALaCarte:                 r.ALaCarte,
		WantsRealDishes:          r.WantsRealDishes,
		RealDishesPricePerPerson: decPtr(r.RealDishesPricePerPerson),
		RealDishesFlatFee:        decPtr(r.RealDishesFlatFee),
		StaffHours:               r.StaffHours,
		ExtraWaiters:             r.ExtraWaiters,
		StaffHourlyRate:          decPtr(r.StaffHourlyRate),
		StaffTipPerWaiter:        decPtr(r.StaffTipPerWaiter),
		DepositPercentage:        r.DepositPercentage,
		ManualMealTotals:         r.ManualMealTotals,
		MealGuests:               r.MealGuests,
		NotesInternal:            r.NotesInternal,
		NotesForCustomer:         r.NotesForCustomer,
		PaymentTerms:             r.PaymentTerms,
		IsInvoice:                r.IsInvoice,
		FoodPricePerPerson:       r.FoodPricePerPerson,
		ExtrasTotal:              r.ExtrasTotal,
		StaffTotal:               r.StaffTotal,
		DishesTotal:              r.DishesTotal,
		GrandTotal:               r.GrandTotal,
		DepositAmount:            r.DepositAmount,
		BalanceDue:               r.BalanceDue,
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
	if r.Number != nil {
		e.Number = *r.Number
	}
	return e
}
