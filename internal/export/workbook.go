// Package export renders estimate breakdowns as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/caterbase/internal/pricing"
	"github.com/mmynk/caterbase/internal/service"
)

const (
	SummarySheet = "Summary"
	MenuSheet    = "Menu"
	ExtrasSheet  = "Extras"
)

// Workbook builds a workbook with a summary sheet, the menu by meal and
// category, and the priced extras. The caller closes the file.
func Workbook(b *service.EstimateBreakdown) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SummarySheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1") // default sheet

	for _, name := range []string{MenuSheet, ExtrasSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create %s sheet: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	w := &sheetWriter{f: f, bold: bold, money: money}
	w.summary(b)
	w.menu(b)
	w.extras(b)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// Write renders the workbook to out.
func Write(out io.Writer, b *service.EstimateBreakdown) error {
	f, err := Workbook(b)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(out)
}

// sheetWriter keeps the first error so the layout code reads top to bottom.
type sheetWriter struct {
	f     *excelize.File
	bold  int
	money int
	err   error
}

func (w *sheetWriter) row(sheet string, r int, values ...any) {
	if w.err != nil || len(values) == 0 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		w.err = err
		return
	}
	var amounts []string
	for i, v := range values {
		if d, ok := v.(decimal.Decimal); ok {
			values[i] = d.InexactFloat64()
			name, _ := excelize.CoordinatesToCellName(i+1, r)
			amounts = append(amounts, name)
		}
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write %s row %d: %w", sheet, r, err)
		return
	}
	for _, name := range amounts {
		if err := w.f.SetCellStyle(sheet, name, name, w.money); err != nil {
			w.err = err
			return
		}
	}
}

func (w *sheetWriter) header(sheet string, r int, values ...any) {
	w.row(sheet, r, values...)
	if w.err != nil {
		return
	}
	end, _ := excelize.CoordinatesToCellName(len(values), r)
	start, _ := excelize.CoordinatesToCellName(1, r)
	if err := w.f.SetCellStyle(sheet, start, end, w.bold); err != nil {
		w.err = err
	}
}

func (w *sheetWriter) summary(b *service.EstimateBreakdown) {
	est, t := b.Estimate, b.Pricing.Totals
	kind := "Estimate"
	if est.IsInvoice {
		kind = "Invoice"
	}

	w.header(SummarySheet, 1, fmt.Sprintf("%s #%d", kind, est.Number), b.Tenant.Name)
	rows := [][]any{
		{"Customer", est.CustomerName},
		{"Event", est.EventType},
		{"Date", est.EventDate.Format("2006-01-02")},
		{"Location", est.EventLocation},
		{"Adults", est.GuestCount},
		{"Kids", est.GuestCountKids},
		{"Waiters", b.Pricing.Waiters},
		{},
		{"Food per person", t.FoodPricePerPerson},
		{"Food total", b.Pricing.FoodTotal},
		{"Extras", t.ExtrasTotal},
		{"Staff", t.StaffTotal},
		{"Dishes", t.DishesTotal},
		{"Grand total", t.GrandTotal},
		{"Deposit", t.DepositAmount},
		{"Balance due", t.BalanceDue},
		{"Per guest", b.PerGuest},
		{fmt.Sprintf("Grand total (%s)", est.Currency), b.GrandTotalConverted},
	}
	for i, r := range rows {
		w.row(SummarySheet, i+3, r...)
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(SummarySheet, "A", "A", 24)
	}
}

func (w *sheetWriter) menu(b *service.EstimateBreakdown) {
	w.header(MenuSheet, 1, "Meal", "Category", "Item", "Servings", "Price per guest", "Notes")
	r := 2
	for _, section := range b.Pricing.Sections {
		for _, groups := range [][]pricing.CategoryGroup{section.Categories, section.KidsCategories} {
			for _, g := range groups {
				for _, line := range g.Lines {
					w.row(MenuSheet, r, section.Name, g.Name, line.Name, line.Servings, line.PricePerGuest, line.Notes)
					r++
				}
			}
		}
		w.row(MenuSheet, r, section.Name, "", "Price per guest", "", section.PricePerGuest)
		w.row(MenuSheet, r+1, section.Name, "", "Section total", section.Adults, section.Total)
		r += 2
		if len(section.KidsCategories) > 0 || section.Kids > 0 {
			w.row(MenuSheet, r, section.Name, "", "Price per child", "", section.PricePerChild)
			w.row(MenuSheet, r+1, section.Name, "", "Kids total", section.Kids, section.KidsTotal)
			r += 2
		}
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(MenuSheet, "A", "C", 22)
	}
}

func (w *sheetWriter) extras(b *service.EstimateBreakdown) {
	w.header(ExtrasSheet, 1, "Extra", "Charge", "Quantity", "Unit price", "Amount", "Notes")
	r := 2
	for _, x := range b.Extras {
		notes := x.Notes
		if x.Overridden && notes == "" {
			notes = "price override"
		}
		w.row(ExtrasSheet, r, x.Name, string(x.ChargeType), x.Quantity, x.UnitPrice, x.Amount, notes)
		r++
	}
	w.row(ExtrasSheet, r, "Total", "", "", "", b.Pricing.Totals.ExtrasTotal)
	if w.err == nil {
		w.err = w.f.SetColWidth(ExtrasSheet, "A", "A", 24)
	}
}
