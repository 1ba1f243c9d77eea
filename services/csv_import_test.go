package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV_Valid(t *testing.T) {
	input := "Category,Description,Quantity\nmaterials,Lumber,10\nlabor_internal,Framing,8\n"
	headers, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if len(headers) != 3 {
		t.Errorf("expected 3 headers, got %d", len(headers))
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 data rows, got %d", len(rows))
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, _, err := parseCSV(strings.NewReader("Category,Description\n"))
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !strings.Contains(err.Error(), "at least one data row") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	if _, _, err := parseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestMapHeadersToColumns(t *testing.T) {
	t.Run("labels case insensitive", func(t *testing.T) {
		mapped := mapHeadersToColumns([]string{"CATEGORY", "description", "Cost Per Unit *", "Notes"})
		want := []string{"category", "description", "cost_per_unit", ""}
		for i := range want {
			if mapped[i] != want[i] {
				t.Errorf("mapped[%d] = %q, want %q", i, mapped[i], want[i])
			}
		}
	})

	t.Run("keys accepted", func(t *testing.T) {
		mapped := mapHeadersToColumns([]string{"price_per_unit", "markup_percent"})
		if mapped[0] != "price_per_unit" || mapped[1] != "markup_percent" {
			t.Errorf("unexpected mapping: %v", mapped)
		}
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"12.5", 12.5, false},
		{"$1,234.50", 1234.5, false},
		{"25%", 25, false},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !floatClose(got, tt.want) {
			t.Errorf("parseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLineItemFile_CSV(t *testing.T) {
	input := strings.Join([]string{
		"Category,Description,Quantity,Unit,Cost Per Unit,Price Per Unit,Markup %",
		"Materials,Lumber,10,bf,5,7,",
		"labor_internal,Framing,8,hr,40,,50",
		",,,,,,",
		"materials,,2,ea,10,12,",
		"roofing,Shingles,3,sq,90,120,",
		"equipment,Lift,abc,day,100,150,",
	}, "\n")

	result, err := ParseLineItemFile(strings.NewReader(input), "items.csv")
	if err != nil {
		t.Fatalf("ParseLineItemFile() error = %v", err)
	}
	if result.TotalRows != 5 {
		t.Errorf("TotalRows = %d, want 5 (blank row skipped)", result.TotalRows)
	}
	if result.ValidRows != 2 || result.ErrorRows != 3 {
		t.Errorf("ValidRows/ErrorRows = %d/%d, want 2/3", result.ValidRows, result.ErrorRows)
	}

	lumber := result.Items[0]
	if lumber.Category != CategoryMaterials || !floatClose(lumber.Total, 70) || !floatClose(lumber.MarkupPercent, 40) {
		t.Errorf("lumber = %+v", lumber)
	}
	framing := result.Items[1]
	if !floatClose(framing.PricePerUnit, 60) || !floatClose(framing.Total, 480) {
		t.Errorf("framing price from markup = %+v", framing)
	}

	fields := map[string]bool{}
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	for _, f := range []string{"Description", "Category", "Quantity"} {
		if !fields[f] {
			t.Errorf("expected an error on %q, got %+v", f, result.Errors)
		}
	}
}

func TestParseLineItemFile_MissingColumns(t *testing.T) {
	_, err := ParseLineItemFile(strings.NewReader("Category,Description\nmaterials,Lumber\n"), "x.csv")
	if err == nil || !strings.Contains(err.Error(), "Quantity") {
		t.Errorf("expected missing Quantity column error, got %v", err)
	}

	_, err = ParseLineItemFile(strings.NewReader("Category,Description,Quantity,Cost Per Unit\nmaterials,Lumber,1,2\n"), "x.csv")
	if err == nil {
		t.Error("expected error when neither price nor markup column is present")
	}
}

func TestParseLineItemFile_UnsupportedFormat(t *testing.T) {
	if _, err := ParseLineItemFile(strings.NewReader("x"), "items.txt"); err == nil {
		t.Error("expected error for .txt upload")
	}
}

func TestParseLineItemFile_TemplateRoundTrip(t *testing.T) {
	tmpl, err := GenerateImportTemplate()
	if err != nil {
		t.Fatalf("GenerateImportTemplate() error = %v", err)
	}
	result, err := ParseLineItemFile(bytesReader(tmpl), "template.xlsx")
	if err != nil {
		t.Fatalf("ParseLineItemFile() error = %v", err)
	}
	if result.ValidRows != 1 {
		t.Fatalf("ValidRows = %d, want 1 (errors: %+v)", result.ValidRows, result.Errors)
	}
	if !floatClose(result.Items[0].Total, 180*9.75) {
		t.Errorf("Total = %v, want %v", result.Items[0].Total, 180*9.75)
	}
}

func TestGenerateErrorReport(t *testing.T) {
	data, err := GenerateErrorReport([]ValidationError{
		{Row: 3, Field: "Quantity", Message: "Quantity must be greater than 0"},
	})
	if err != nil {
		t.Fatalf("GenerateErrorReport() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("invalid xlsx: %v", err)
	}
	defer f.Close()

	msg, _ := f.GetCellValue("Errors", "C2")
	if msg != "Quantity must be greater than 0" {
		t.Errorf("C2 = %q", msg)
	}
}
