package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/pricing"
	"github.com/mmynk/caterbase/internal/service"
)

// money renders amounts with two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optMoney(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

type tenantView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	DefaultCurrency string `json:"default_currency"`
}

func newTenantView(t *models.Tenant) tenantView {
	return tenantView{ID: t.ID, Name: t.Name, Slug: t.Slug, DefaultCurrency: string(t.DefaultCurrency)}
}

type sessionView struct {
	Token       string     `json:"token"`
	OwnerID     string     `json:"owner_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Tenant      tenantView `json:"tenant"`
}

func newSessionView(s *service.Session) sessionView {
	return sessionView{
		Token:       s.Token,
		OwnerID:     s.Owner.ID,
		Email:       s.Owner.Email,
		DisplayName: s.Owner.DisplayName,
		Tenant:      newTenantView(s.Tenant),
	}
}

type menuItemView struct {
	ID                       string `json:"id"`
	CategoryID               string `json:"category_id,omitempty"`
	Category                 string `json:"category,omitempty"`
	Name                     string `json:"name"`
	Description              string `json:"description,omitempty"`
	CostPerServing           string `json:"cost_per_serving"`
	Markup                   string `json:"markup"`
	DefaultServingsPerPerson string `json:"default_servings_per_person"`
	PricePerServing          string `json:"price_per_serving"`
	Active                   bool   `json:"active"`
}

func newMenuItemView(it *models.MenuItem) menuItemView {
	return menuItemView{
		ID:                       it.ID,
		CategoryID:               it.CategoryID,
		Category:                 it.CategoryName,
		Name:                     it.Name,
		Description:              it.Description,
		CostPerServing:           money(it.CostPerServing),
		Markup:                   it.Markup.String(),
		DefaultServingsPerPerson: it.DefaultServingsPerPerson.String(),
		PricePerServing:          money(it.PricePerServing()),
		Active:                   it.Active,
	}
}

type extraView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	ChargeType string `json:"charge_type"`
	Cost       string `json:"cost"`
	Price      string `json:"price"`
	Notes      string `json:"notes,omitempty"`
	Active     bool   `json:"active"`
}

func newExtraView(x *models.ExtraItem) extraView {
	return extraView{
		ID:         x.ID,
		Name:       x.Name,
		Category:   string(x.Category),
		ChargeType: string(x.ChargeType),
		Cost:       money(x.Cost),
		Price:      money(x.Price),
		Notes:      x.Notes,
		Active:     x.Active,
	}
}

type categoryView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type templateView struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	ItemIDs []string `json:"item_ids"`
}

type totalsView struct {
	FoodPricePerPerson string `json:"food_price_per_person"`
	ExtrasTotal        string `json:"extras_total"`
	StaffTotal         string `json:"staff_total"`
	DishesTotal        string `json:"dishes_total"`
	GrandTotal         string `json:"grand_total"`
	DepositAmount      string `json:"deposit_amount"`
	BalanceDue         string `json:"balance_due"`
}

type estimateView struct {
	ID            string `json:"id"`
	Number        int    `json:"number"`
	IsInvoice     bool   `json:"is_invoice"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`

	EventType     string `json:"event_type,omitempty"`
	EventDate     string `json:"event_date"`
	EventLocation string `json:"event_location,omitempty"`

	GuestCount     int    `json:"guest_count"`
	GuestCountKids int    `json:"guest_count_kids"`
	Currency       string `json:"currency"`
	ExchangeRate   string `json:"exchange_rate"`

	MealPlan []string `json:"meal_plan"`

	ALaCarte                 bool    `json:"a_la_carte"`
	WantsRealDishes          bool    `json:"wants_real_dishes"`
	RealDishesPricePerPerson *string `json:"real_dishes_price_per_person,omitempty"`
	RealDishesFlatFee        *string `json:"real_dishes_flat_fee,omitempty"`
	StaffHours               string  `json:"staff_hours"`
	ExtraWaiters             int     `json:"extra_waiters"`
	StaffHourlyRate          *string `json:"staff_hourly_rate,omitempty"`
	StaffTipPerWaiter        *string `json:"staff_tip_per_waiter,omitempty"`
	DepositPercentage        string  `json:"deposit_percentage"`

	ManualMealTotals map[string]string            `json:"manual_meal_totals,omitempty"`
	MealGuests       map[string]models.MealGuests `json:"meal_guests,omitempty"`

	NotesInternal    string `json:"notes_internal,omitempty"`
	NotesForCustomer string `json:"notes_for_customer,omitempty"`
	PaymentTerms     string `json:"payment_terms"`

	Totals    totalsView `json:"totals"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

func unixTime(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func newEstimateView(e *models.Estimate) estimateView {
	return estimateView{
		ID:                       e.ID,
		Number:                   e.Number,
		IsInvoice:                e.IsInvoice,
		CustomerName:             e.CustomerName,
		CustomerPhone:            e.CustomerPhone,
		CustomerEmail:            e.CustomerEmail,
		EventType:                e.EventType,
		EventDate:                e.EventDate.Format(dateLayout),
		EventLocation:            e.EventLocation,
		GuestCount:               e.GuestCount,
		GuestCountKids:           e.GuestCountKids,
		Currency:                 string(e.Currency),
		ExchangeRate:             e.ExchangeRate.String(),
		MealPlan:                 e.MealPlan,
		ALaCarte:                 e.ALaCarte,
		WantsRealDishes:          e.WantsRealDishes,
		RealDishesPricePerPerson: optMoney(e.RealDishesPricePerPerson),
		RealDishesFlatFee:        optMoney(e.RealDishesFlatFee),
		StaffHours:               e.StaffHours.String(),
		ExtraWaiters:             e.ExtraWaiters,
		StaffHourlyRate:          optMoney(e.StaffHourlyRate),
		StaffTipPerWaiter:        optMoney(e.StaffTipPerWaiter),
		DepositPercentage:        e.DepositPercentage.String(),
		ManualMealTotals:         e.ManualMealTotals,
		MealGuests:               e.MealGuests,
		NotesInternal:            e.NotesInternal,
		NotesForCustomer:         e.NotesForCustomer,
		PaymentTerms:             e.PaymentTerms,
		Totals: totalsView{
			FoodPricePerPerson: money(e.FoodPricePerPerson),
			ExtrasTotal:        money(e.ExtrasTotal),
			StaffTotal:         money(e.StaffTotal),
			DishesTotal:        money(e.DishesTotal),
			GrandTotal:         money(e.GrandTotal),
			DepositAmount:      money(e.DepositAmount),
			BalanceDue:         money(e.BalanceDue),
		},
		CreatedAt: unixTime(e.CreatedAt),
		UpdatedAt: unixTime(e.UpdatedAt),
	}
}

type lineView struct {
	ItemID        string `json:"item_id"`
	Name          string `json:"name"`
	Servings      string `json:"servings"`
	PricePerGuest string `json:"price_per_guest"`
	Notes         string `json:"notes,omitempty"`
}

type groupView struct {
	Name  string     `json:"name"`
	Lines []lineView `json:"lines"`
}

type sectionView struct {
	Name           string      `json:"name"`
	Categories     []groupView `json:"categories"`
	KidsCategories []groupView `json:"kids_categories"`
	PricePerGuest  string      `json:"price_per_guest"`
	PricePerChild  string      `json:"price_per_child"`
	Adults         int         `json:"adults"`
	Kids           int         `json:"kids"`
	Total          string      `json:"total"`
	KidsTotal      string      `json:"kids_total"`
}

func newGroupViews(groups []pricing.CategoryGroup) []groupView {
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		gv := groupView{Name: g.Name, Lines: make([]lineView, 0, len(g.Lines))}
		for _, l := range g.Lines {
			gv.Lines = append(gv.Lines, lineView{
				ItemID:        l.ItemID,
				Name:          l.Name,
				Servings:      l.Servings.String(),
				PricePerGuest: money(l.PricePerGuest),
				Notes:         l.Notes,
			})
		}
		views = append(views, gv)
	}
	return views
}

type extraLineView struct {
	Name       string `json:"name"`
	ChargeType string `json:"charge_type"`
	Quantity   string `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	Amount     string `json:"amount"`
	Overridden bool   `json:"overridden"`
	Notes      string `json:"notes,omitempty"`
}

type breakdownView struct {
	Estimate            estimateView    `json:"estimate"`
	Meals               []sectionView   `json:"meals"`
	Extras              []extraLineView `json:"extras"`
	FoodTotal           string          `json:"food_total"`
	MealGrandTotal      string          `json:"meal_grand_total"`
	BaseWaiters         int             `json:"base_waiters"`
	Waiters             int             `json:"waiters"`
	PerGuest            string          `json:"per_guest"`
	GrandTotalConverted string          `json:"grand_total_converted"`
}

func newBreakdownView(b *service.EstimateBreakdown) breakdownView {
	v := breakdownView{
		Estimate:            newEstimateView(b.Estimate),
		Meals:               make([]sectionView, 0, len(b.Pricing.Sections)),
		Extras:              make([]extraLineView, 0, len(b.Extras)),
		FoodTotal:           money(b.Pricing.FoodTotal),
		MealGrandTotal:      money(b.Pricing.MealGrandTotal),
		BaseWaiters:         b.Pricing.BaseWaiters,
		Waiters:             b.Pricing.Waiters,
		PerGuest:            money(b.PerGuest),
		GrandTotalConverted: money(b.GrandTotalConverted),
	}
	for _, s := range b.Pricing.Sections {
		v.Meals = append(v.Meals, sectionView{
			Name:           s.Name,
			Categories:     newGroupViews(s.Categories),
			KidsCategories: newGroupViews(s.KidsCategories),
			PricePerGuest:  money(s.PricePerGuest),
			PricePerChild:  money(s.PricePerChild),
			Adults:         s.Adults,
			Kids:           s.Kids,
			Total:          money(s.Total),
			KidsTotal:      money(s.KidsTotal),
		})
	}
	for _, x := range b.Extras {
		v.Extras = append(v.Extras, extraLineView{
			Name:       x.Name,
			ChargeType: string(x.ChargeType),
			Quantity:   x.Quantity.String(),
			UnitPrice:  money(x.UnitPrice),
			Amount:     money(x.Amount),
			Overridden: x.Overridden,
			Notes:      x.Notes,
		})
	}
	return v
}
