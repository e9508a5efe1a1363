package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the import workbook.
const (
	SheetCustomers = "Customers"
	SheetContacts  = "Contacts"
	SheetProjects  = "Projects"
	SheetTerms     = "PaymentTerms"
)

// Typed rows parsed out of the workbook. Names, not ids, are the references
// between sheets; they resolve during validation.

type CustomerRow struct {
	Name                   string
	Country                string
	Type                   string
	CommercialRegistration string
	VATNumber              string
	IsActive               bool
}

type ContactRow struct {
	CustomerName string
	Role         string
	Name         string
	Email        string
	Phone        string
	IsPrimary    bool
}

type ProjectRow struct {
	Name          string
	CustomerName  string
	Segment       string
	ServiceLine   string
	Partner       string
	Status        string
	POStatus      string
	InvoiceStatus string
	ContractValue decimal.Decimal
	Currency      string
	StartDate     *time.Time
	EndDate       *time.Time
}

type TermRow struct {
	ProjectName string
	Seq         int
	Percent     decimal.Decimal
	Description string
	DueDate     *time.Time
	Status      string
}

// Workbook is the fully parsed, not yet validated, import payload.
type Workbook struct {
	Customers []CustomerRow
	Contacts  []ContactRow
	Projects  []ProjectRow
	Terms     []TermRow
}

// sheetRows reads a sheet into header-keyed maps. Headers are trimmed,
// lowercased and stripped of the trailing `*` the template uses to mark
// required columns. A missing sheet yields no rows.
func sheetRows(f *excelize.File, sheet string) ([]map[string]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, nil
	}
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(raw) < 2 {
		return nil, nil
	}
	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(h), "*"))
	}
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := map[string]string{}
		empty := true
		for i, h := range header {
			if h == "" {
				continue
			}
			v := ""
			if i < len(cells) {
				v = strings.TrimSpace(cells[i])
			}
			if v != "" {
				empty = false
			}
			row[h] = v
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ParseWorkbook turns the four sheets into typed rows, collecting every
// malformed row. Any row error fails the whole import before validation of
// cross-row invariants even starts.
func ParseWorkbook(f *excelize.File) (*Workbook, []RowError) {
	var rowErrs []RowError
	wb := &Workbook{}

	rows, err := sheetRows(f, SheetCustomers)
	if err != nil {
		return nil, []RowError{{Sheet: SheetCustomers, Index: 0, Reason: err.Error()}}
	}
	for i, row := range rows {
		name := row["customer_name"]
		if name == "" {
			rowErrs = append(rowErrs, RowError{Sheet: SheetCustomers, Index: i, Field: "customer_name", Reason: "required"})
			continue
		}
		wb.Customers = append(wb.Customers, CustomerRow{
			Name:                   name,
			Country:                strings.ToUpper(row["country"]),
			Type:                   row["type"],
			CommercialRegistration: row["commercial_registration"],
			VATNumber:              row["vat_number"],
			IsActive:               parseBool(row["is_active"], true),
		})
	}

	rows, err = sheetRows(f, SheetContacts)
	if err != nil {
		return nil, []RowError{{Sheet: SheetContacts, Index: 0, Reason: err.Error()}}
	}
	for i, row := range rows {
		if row["customer_name"] == "" {
			rowErrs = append(rowErrs, RowError{Sheet: SheetContacts, Index: i, Field: "customer_name", Reason: "required"})
			continue
		}
		if row["contact_name"] == "" {
			rowErrs = append(rowErrs, RowError{Sheet: SheetContacts, Index: i, Field: "contact_name", Reason: "required"})
			continue
		}
		wb.Contacts = append(wb.Contacts, ContactRow{
			CustomerName: row["customer_name"],
			Role:         row["role"],
			Name:         row["contact_name"],
			Email:        row["email"],
			Phone:        row["phone"],
			IsPrimary:    parseBool(row["is_primary"], false),
		})
	}

	rows, err = sheetRows(f, SheetProjects)
	if err != nil {
		return nil, []RowError{{Sheet: SheetProjects, Index: 0, Reason: err.Error()}}
	}
	for i, row := range rows {
		if row["project_name"] == "" {
			rowErrs = append(rowErrs, RowError{Sheet: SheetProjects, Index: i, Field: "project_name", Reason: "required"})
			continue
		}
		if row["customer_name"] == "" {
			rowErrs = append(rowErrs, RowError{Sheet: SheetProjects, Index: i, Field: "customer_name", Reason: "required"})
			continue
		}
		value, ok := parseAmount(row["contract_value"])
		if !ok || value.Sign() < 0 {
			rowErrs = append(rowErrs, RowError{Sheet: SheetProjects, Index: i, Field: "contract_value", Reason: "must be a non-negative number"})
			continue
		}
		start, ok := parseDate(row["start_date"])
		if !ok {
			rowErrs = append(rowErrs, RowError{Sheet: SheetProjects, Index: i, Field: "start_date", Reason: "invalid date"})
			continue
		}
		end, ok := parseDate(row["end_date"])
		if !ok {
			rowErrs = append(rowErrs, RowError{Sheet: SheetProjects, Index: i, Field: "end_date", Reason: "invalid date"})
			continue
		}
		wb.Projects = append(wb.Projects, ProjectRow{
			Name:          row["project_name"],
			CustomerName:  row["customer_name"],
			Segment:       row["segment"],
			ServiceLine:   row["service_line"],
			Partner:       row["partner"],
			Status:        row["status"],
			POStatus:      row["po_status"],
			InvoiceStatus: row["invoice_status"],
			ContractValue: value.Round(2),
			Currency:      strings.ToUpper(row["currency"]),
			StartDate:     start,
			EndDate:       end,
		})
	}

	rows, err = sheetRows(f, SheetTerms)
	if err != nil {
		return nil, []RowError{{Sheet: SheetTerms, Index: 0, Reason: err.Error()}}
	}
	for i, row := range rows {
		if row["project_name"] == "" {
			rowErrs = append(rowErrs, RowError{Sheet: SheetTerms, Index: i, Field: "project_name", Reason: "required"})
			continue
		}
		seq, err := strconv.Atoi(row["seq"])
		if err != nil || seq < 1 {
			rowErrs = append(rowErrs, RowError{Sheet: SheetTerms, Index: i, Field: "seq", Reason: "must be an integer >= 1"})
			continue
		}
		pct, ok := parseAmount(row["percentage"])
		if !ok || pct.Sign() < 0 || pct.GreaterThan(decimal.NewFromInt(100)) {
			rowErrs = append(rowErrs, RowError{Sheet: SheetTerms, Index: i, Field: "percentage", Reason: "must be between 0 and 100"})
			continue
		}
		if row["description"] == "" {
			rowErrs = append(rowErrs, RowError{Sheet: SheetTerms, Index: i, Field: "description", Reason: "required"})
			continue
		}
		due, ok := parseDate(row["due_date"])
		if !ok {
			rowErrs = append(rowErrs, RowError{Sheet: SheetTerms, Index: i, Field: "due_date", Reason: "invalid date"})
			continue
		}
		wb.Terms = append(wb.Terms, TermRow{
			ProjectName: row["project_name"],
			Seq:         seq,
			Percent:     pct.Round(2),
			Description: row["description"],
			DueDate:     due,
			Status:      row["status"],
		})
	}

	if len(rowErrs) > 0 {
		return nil, rowErrs
	}
	return wb, nil
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(s) {
	case "":
		return def
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

// parseAmount accepts empty input as zero.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var dateLayouts = []string{"2006-01-02", "01-02-06", "2006/01/02", "02/01/2006"}

// parseDate accepts empty input as nil, not an error.
func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}
