package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows int               `json:"total_rows"`
	ValidRows int               `json:"valid_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`
	Items     []LineItem        `json:"-"`
	FileName  string            `json:"-"`
}

// ImportColumn describes one column of the line item import file.
type ImportColumn struct {
	Key      string
	Label    string
	Required bool
}

// ImportColumns lists the recognised columns in template order. Either
// Price Per Unit or Markup % must be present.
var ImportColumns = []ImportColumn{
	{Key: "category", Label: "Category", Required: true},
	{Key: "description", Label: "Description", Required: true},
	{Key: "quantity", Label: "Quantity", Required: true},
	{Key: "unit", Label: "Unit"},
	{Key: "cost_per_unit", Label: "Cost Per Unit", Required: true},
	{Key: "price_per_unit", Label: "Price Per Unit"},
	{Key: "markup_percent", Label: "Markup %"},
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToColumns maps uploaded column headers to ImportColumn keys.
// Returns ordered list of keys (one per column, "" when unrecognised).
func mapHeadersToColumns(headers []string) []string {
	labelToKey := make(map[string]string, len(ImportColumns)*2)
	for _, c := range ImportColumns {
		labelToKey[strings.ToLower(c.Label)] = c.Key
		labelToKey[c.Key] = c.Key
	}

	mapped := make([]string, len(headers))
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required columns
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		mapped[i] = labelToKey[norm]
	}
	return mapped
}

// parseAmount converts a cell to a number, accepting currency symbols,
// thousands separators and a trailing percent sign. Empty cells are 0.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.NewReplacer("$", "", "£", "", "€", "", ",", "", "%", "", " ", "").Replace(s)
	return cast.ToFloat64E(s)
}

// ParseLineItemFile parses and validates an uploaded .csv or .xlsx file of
// estimate line items. Rows with errors are reported and left out of Items.
func ParseLineItemFile(file io.Reader, fileName string) (*ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys := mapHeadersToColumns(headers)
	present := make(map[string]bool)
	for _, k := range columnKeys {
		if k != "" {
			present[k] = true
		}
	}
	for _, c := range ImportColumns {
		if c.Required && !present[c.Key] {
			return nil, fmt.Errorf("missing required column %q", c.Label)
		}
	}
	if !present["price_per_unit"] && !present["markup_percent"] {
		return nil, fmt.Errorf("file must have a %q or %q column", "Price Per Unit", "Markup %")
	}

	result := &ValidationResult{FileName: fileName}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[colIdx])
			rowData[key] = v
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		result.TotalRows++

		item, rowErrors := lineItemFromRow(rowNum, rowData)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Items = append(result.Items, item)
	}
	result.ValidRows = len(result.Items)

	return result, nil
}

// lineItemFromRow converts one parsed row into a normalised line item.
func lineItemFromRow(rowNum int, data map[string]string) (LineItem, []ValidationError) {
	var errs []ValidationError
	num := func(key, label string) float64 {
		v, err := parseAmount(data[key])
		if err != nil {
			errs = append(errs, ValidationError{Row: rowNum, Field: label, Message: fmt.Sprintf("%s must be a number", label)})
		}
		return v
	}

	item := LineItem{
		Category:    ParseCategory(data["category"]),
		Description: data["description"],
		Unit:        data["unit"],
		Quantity:    num("quantity", "Quantity"),
		CostPerUnit: num("cost_per_unit", "Cost Per Unit"),
	}
	if data["category"] != "" && item.Category == CategoryOther &&
		!strings.EqualFold(strings.TrimSpace(data["category"]), string(CategoryOther)) {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Category", Message: fmt.Sprintf("Unknown category %q", data["category"])})
	}

	if data["price_per_unit"] != "" {
		item.PricePerUnit = num("price_per_unit", "Price Per Unit")
	} else {
		item.PricePerUnit = CalcPriceFromMarkup(item.CostPerUnit, num("markup_percent", "Markup %"))
	}
	if len(errs) > 0 {
		return item, errs
	}

	labels := make(map[string]string, len(ImportColumns))
	for _, c := range ImportColumns {
		labels[c.Key] = c.Label
	}
	for field, msg := range ValidateLineItem(item) {
		label := labels[field]
		if label == "" {
			label = field
		}
		errs = append(errs, ValidationError{Row: rowNum, Field: label, Message: msg})
	}
	return item.Normalize(), errs
}

// CommitLineItems inserts items into an estimate after its existing line
// items. It returns the number of records created.
func CommitLineItems(app core.App, estimateID string, items []LineItem) (int, error) {
	col, err := app.FindCollectionByNameOrId("estimate_line_items")
	if err != nil {
		return 0, fmt.Errorf("find estimate_line_items collection: %w", err)
	}

	nextSort := 1
	last, err := app.FindRecordsByFilter(col, "estimate = {:estimateId}", "-sort_order", 1, 0,
		map[string]any{"estimateId": estimateID})
	if err == nil && len(last) > 0 {
		nextSort = last[0].GetInt("sort_order") + 1
	}

	created := 0
	err = app.RunInTransaction(func(txApp core.App) error {
		for i, item := range items {
			r := core.NewRecord(col)
			r.Set("estimate", estimateID)
			r.Set("sort_order", nextSort+i)
			ApplyLineItemToRecord(r, item)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("save line item %q: %w", item.Description, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// GenerateImportTemplate returns an .xlsx file with the import headers and
// one example row.
func GenerateImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Line Items"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Border: thinBorders(),
	})

	example := []any{"materials", "Porcelain floor tile", 180, "sqft", 6.5, 9.75, ""}
	for i, c := range ImportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		label := c.Label
		if c.Required {
			label += " *"
		}
		f.SetCellValue(sheet, cell, label)
		f.SetCellStyle(sheet, cell, cell, headerStyle)

		exampleCell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, exampleCell, example[i])
	}
	f.SetColWidth(sheet, "A", "A", 16)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "G", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
