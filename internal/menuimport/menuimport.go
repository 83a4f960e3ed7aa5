// Package menuimport reads and writes the catalog CSV format:
//
//	item_type,category,name,description,cost_per_serving,markup,default_servings_per_person,is_active
//
// Rows with item_type "food" become menu items; every other row becomes an
// extra.
package menuimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Header is the column order written by Template.
var Header = []string{
	"item_type",
	"category",
	"name",
	"description",
	"cost_per_serving",
	"markup",
	"default_servings_per_person",
	"is_active",
}

var requiredColumns = []string{"item_type", "name", "cost_per_serving"}

var sampleRows = [][]string{
	{"Food", "Starters", "Smoked Salmon Bites", "Mini bagels with lox", "12.50", "3.0", "1.0", "True"},
	{"Food", "Mains", "Steak Strip", "Grilled steak strips", "28.00", "", "1.0", "True"},
	{"Extra", "Rental", "Projector", "", "400", "3.0", "1.0", "True"},
}

// ErrMalformed wraps every parse failure.
var ErrMalformed = errors.New("malformed catalog csv")

// Row is one parsed catalog row.
type Row struct {
	Line        int
	Food        bool
	Category    string // title-cased, empty when blank
	Name        string
	Description string
	Cost        decimal.Decimal
	// Markup is nil when the column is blank; callers fall back to the
	// tenant's default markup.
	Markup   *decimal.Decimal
	Servings decimal.Decimal
	Active   bool
}

// ExtraPrice is the customer price of an extra row: cost x markup in cents.
func (r Row) ExtraPrice(markup decimal.Decimal) decimal.Decimal {
	return r.Cost.Mul(markup).Round(2)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var titler = cases.Title(language.Und)

// Parse reads every row of a catalog CSV. A leading UTF-8 byte order mark
// is ignored. Columns are matched by header name, so extra or reordered
// columns are fine.
func Parse(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, name)
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		if blankRecord(record) {
			continue
		}
		row, err := parseRow(line, record, cols)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(line int, record []string, cols map[string]int) (Row, error) {
	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}
	field := func(name string) string {
		v, _ := get(name)
		return v
	}

	row := Row{
		Line:        line,
		Food:        strings.EqualFold(field("item_type"), "food"),
		Category:    titler.String(field("category")),
		Name:        field("name"),
		Description: field("description"),
		Active:      true,
	}
	if row.Name == "" {
		return row, fmt.Errorf("%w: line %d: name is required", ErrMalformed, line)
	}

	cost, err := decimal.NewFromString(field("cost_per_serving"))
	if err != nil {
		return row, fmt.Errorf("%w: line %d: cost_per_serving %q: %v", ErrMalformed, line, field("cost_per_serving"), err)
	}
	if cost.IsNegative() {
		return row, fmt.Errorf("%w: line %d: cost_per_serving must not be negative", ErrMalformed, line)
	}
	row.Cost = cost

	if raw := field("markup"); raw != "" {
		markup, err := decimal.NewFromString(raw)
		if err != nil || markup.IsNegative() {
			return row, fmt.Errorf("%w: line %d: markup %q", ErrMalformed, line, raw)
		}
		row.Markup = &markup
	}

	row.Servings = decimal.NewFromInt(1)
	if raw := field("default_servings_per_person"); raw != "" {
		servings, err := decimal.NewFromString(raw)
		if err != nil || !servings.IsPositive() {
			return row, fmt.Errorf("%w: line %d: default_servings_per_person %q", ErrMalformed, line, raw)
		}
		row.Servings = servings
	}

	if raw, ok := get("is_active"); ok && raw != "" {
		switch strings.ToLower(raw) {
		case "true", "1", "yes":
			row.Active = true
		default:
			row.Active = false
		}
	}
	return row, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Template writes the header and a few sample rows.
func Template(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	if err := cw.WriteAll(sampleRows); err != nil {
		return err
	}
	return cw.Error()
}
