package httpapi

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/pricing"
	"github.com/mmynk/caterbase/internal/service"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	BusinessName string `json:"business_name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	DisplayName  string `json:"display_name" validate:"required,max=200"`
	Password     string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type menuItemRequest struct {
	Category                 string           `json:"category"`
	Name                     string           `json:"name" validate:"required,max=200"`
	Description              string           `json:"description"`
	CostPerServing           decimal.Decimal  `json:"cost_per_serving" validate:"min=0"`
	Markup                   *decimal.Decimal `json:"markup" validate:"omitempty,min=0"`
	DefaultServingsPerPerson *decimal.Decimal `json:"default_servings_per_person" validate:"omitempty,gt=0"`
	Active                   *bool            `json:"active"`
}

func (req menuItemRequest) toModel() *models.MenuItem {
	item := &models.MenuItem{
		Name:           req.Name,
		Description:    req.Description,
		CostPerServing: req.CostPerServing,
		Active:         req.Active == nil || *req.Active,
	}
	if req.Markup != nil {
		item.Markup = *req.Markup
	}
	if req.DefaultServingsPerPerson != nil {
		item.DefaultServingsPerPerson = *req.DefaultServingsPerPerson
	}
	return item
}

type extraRequest struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Category   string          `json:"category" validate:"omitempty,oneof=DECOR RENTAL SERVICE OTHER"`
	ChargeType string          `json:"charge_type" validate:"omitempty,oneof=PER_EVENT PER_PERSON"`
	Cost       decimal.Decimal `json:"cost" validate:"min=0"`
	Price      decimal.Decimal `json:"price" validate:"min=0"`
	Notes      string          `json:"notes"`
	Active     *bool           `json:"active"`
}

func (req extraRequest) toModel() *models.ExtraItem {
	return &models.ExtraItem{
		Name:       req.Name,
		Category:   models.ExtraCategory(req.Category),
		ChargeType: models.ChargeType(req.ChargeType),
		Cost:       req.Cost,
		Price:      req.Price,
		Notes:      req.Notes,
		Active:     req.Active == nil || *req.Active,
	}
}

type templateRequest struct {
	Name    string   `json:"name" validate:"required,max=200"`
	ItemIDs []string `json:"item_ids" validate:"dive,required"`
}

type foodRequest struct {
	MenuItemID string           `json:"menu_item_id" validate:"required"`
	MealName   string           `json:"meal_name"`
	Servings   *decimal.Decimal `json:"servings" validate:"omitempty,min=0"`
	Notes      string           `json:"notes"`
}

type extraLineRequest struct {
	ExtraItemID   string           `json:"extra_item_id" validate:"required"`
	Quantity      *decimal.Decimal `json:"quantity" validate:"omitempty,min=0"`
	OverridePrice *decimal.Decimal `json:"override_price" validate:"omitempty,min=0"`
	Notes         string           `json:"notes"`
}

// estimateRequest is the full estimate form. Saving it replaces every
// field and the whole selection.
type estimateRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,max=200"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`

	EventType     string `json:"event_type"`
	EventDate     string `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	EventLocation string `json:"event_location"`

	GuestCount     int `json:"guest_count" validate:"min=0"`
	GuestCountKids int `json:"guest_count_kids" validate:"min=0"`

	Currency     string           `json:"currency" validate:"omitempty,oneof=ILS USD EUR GBP"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate" validate:"omitempty,gt=0"`

	// MealPlan wins over MealPlanText when both are given.
	MealPlan     []string `json:"meal_plan"`
	MealPlanText string   `json:"meal_plan_text"`

	ALaCarte                 bool             `json:"a_la_carte"`
	WantsRealDishes          bool             `json:"wants_real_dishes"`
	RealDishesPricePerPerson *decimal.Decimal `json:"real_dishes_price_per_person" validate:"omitempty,min=0"`
	RealDishesFlatFee        *decimal.Decimal `json:"real_dishes_flat_fee" validate:"omitempty,min=0"`

	StaffHours        *decimal.Decimal `json:"staff_hours" validate:"omitempty,min=0"`
	ExtraWaiters      int              `json:"extra_waiters" validate:"min=0"`
	StaffHourlyRate   *decimal.Decimal `json:"staff_hourly_rate" validate:"omitempty,min=0"`
	StaffTipPerWaiter *decimal.Decimal `json:"staff_tip_per_waiter" validate:"omitempty,min=0"`

	DepositPercentage *decimal.Decimal `json:"deposit_percentage" validate:"omitempty,min=0,max=100"`

	ManualMealTotals map[string]string            `json:"manual_meal_totals"`
	MealGuests       map[string]models.MealGuests `json:"meal_guests"`

	NotesInternal    string `json:"notes_internal"`
	NotesForCustomer string `json:"notes_for_customer"`
	PaymentTerms     string `json:"payment_terms"`

	Foods          []foodRequest      `json:"foods" validate:"dive"`
	Extras         []extraLineRequest `json:"extras" validate:"dive"`
	TemplateID     string             `json:"template_id"`
	SaveAsTemplate string             `json:"save_as_template" validate:"max=200"`
}

func (req estimateRequest) toModel(tenantID string) (*models.Estimate, error) {
	est := models.NewEstimate(tenantID, req.CustomerName)
	if req.EventDate != "" {
		date, err := time.Parse(dateLayout, req.EventDate)
		if err != nil {
			return nil, fmt.Errorf("%w: event_date: %v", errBadRequest, err)
		}
		est.EventDate = date
	}

	est.CustomerPhone = req.CustomerPhone
	est.CustomerEmail = req.CustomerEmail
	est.EventType = req.EventType
	est.EventLocation = req.EventLocation
	est.GuestCount = req.GuestCount
	est.GuestCountKids = req.GuestCountKids
	est.Currency = models.Currency(req.Currency)
	if req.ExchangeRate != nil {
		est.ExchangeRate = *req.ExchangeRate
	}

	est.MealPlan = req.MealPlan
	if len(est.MealPlan) == 0 {
		est.MealPlan = pricing.ParseMealPlan(req.MealPlanText)
	}

	est.ALaCarte = req.ALaCarte
	est.WantsRealDishes = req.WantsRealDishes
	est.RealDishesPricePerPerson = req.RealDishesPricePerPerson
	est.RealDishesFlatFee = req.RealDishesFlatFee
	if req.StaffHours != nil {
		est.StaffHours = *req.StaffHours
	}
	est.ExtraWaiters = req.ExtraWaiters
	est.StaffHourlyRate = req.StaffHourlyRate
	est.StaffTipPerWaiter = req.StaffTipPerWaiter
	if req.DepositPercentage != nil {
		est.DepositPercentage = *req.DepositPercentage
	}
	est.ManualMealTotals = req.ManualMealTotals
	est.MealGuests = req.MealGuests
	est.NotesInternal = req.NotesInternal
	est.NotesForCustomer = req.NotesForCustomer
	est.PaymentTerms = req.PaymentTerms
	return est, nil
}

func (req estimateRequest) selection() service.SelectionInput {
	in := service.SelectionInput{TemplateID: req.TemplateID, SaveAsTemplate: req.SaveAsTemplate}
	for _, f := range req.Foods {
		in.Foods = append(in.Foods, service.FoodSelection{
			MenuItemID: f.MenuItemID,
			MealName:   f.MealName,
			Servings:   f.Servings,
			Notes:      f.Notes,
		})
	}
	for _, x := range req.Extras {
		in.Extras = append(in.Extras, service.ExtraSelection{
			ExtraItemID:   x.ExtraItemID,
			Quantity:      x.Quantity,
			OverridePrice: x.OverridePrice,
			Notes:         x.Notes,
		})
	}
	return in
}
