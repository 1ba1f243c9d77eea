package services

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func sampleEstimate() Estimate {
	return Estimate{
		Title:               "Kitchen Remodel",
		TargetMarginPercent: TargetMargin(20),
		LineItems: []LineItem{
			{Category: CategoryMaterials, Description: "Lumber", Unit: "bf", Quantity: 10, CostPerUnit: 5, PricePerUnit: 7},
			{Category: CategoryLaborInternal, Description: "Framing", Unit: "hr", Quantity: 8, CostPerUnit: 40, PricePerUnit: 60},
			{Category: CategoryMaterials, Description: "=cmd|' /C calc'!A0", Unit: "ea", Quantity: 1, CostPerUnit: 100, PricePerUnit: 130},
		},
	}
}

func TestBuildExportData_GroupsByCategory(t *testing.T) {
	data := BuildExportData(sampleEstimate(), "EST-K-2026-001", "Hillside", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	if data.CreatedDate != "01 Mar 2026" {
		t.Errorf("CreatedDate = %q", data.CreatedDate)
	}
	wantIdx := []string{"1", "1.1", "2", "2.1", "2.2"}
	if len(data.Rows) != len(wantIdx) {
		t.Fatalf("len(Rows) = %d, want %d", len(data.Rows), len(wantIdx))
	}
	for i, idx := range wantIdx {
		if data.Rows[i].Index != idx {
			t.Errorf("Rows[%d].Index = %q, want %q", i, data.Rows[i].Index, idx)
		}
	}
	if data.Rows[0].Description != "Internal Labor" || data.Rows[0].Level != 0 {
		t.Errorf("first heading = %+v", data.Rows[0])
	}
	materials := data.Rows[2]
	if !floatClose(materials.TotalCost, 150) || !floatClose(materials.Total, 200) {
		t.Errorf("materials heading = %+v", materials)
	}
	if !floatClose(data.Financials.TotalPrice, 680) {
		t.Errorf("TotalPrice = %v, want 680", data.Financials.TotalPrice)
	}
}

func TestGenerateExcel_Estimate(t *testing.T) {
	data := BuildExportData(sampleEstimate(), "EST-K-2026-001", "Hillside", time.Now())

	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 || sheets[0] != "Kitchen Remodel" {
		t.Fatalf("expected sheet name 'Kitchen Remodel', got %v", sheets)
	}
	sheet := sheets[0]

	title, _ := f.GetCellValue(sheet, "A1")
	if title != "Kitchen Remodel" {
		t.Errorf("expected title 'Kitchen Remodel', got %q", title)
	}
	heading, _ := f.GetCellValue(sheet, "B6")
	if heading != "Internal Labor" {
		t.Errorf("B6 = %q, want category heading", heading)
	}
	item, _ := f.GetCellValue(sheet, "B7")
	if item != "  Framing" {
		t.Errorf("B7 = %q, want indented line item", item)
	}
	total, _ := f.GetCellValue(sheet, "I7", excelize.Options{RawCellValue: true})
	if total != "480" {
		t.Errorf("I7 = %q, want 480", total)
	}
	injected, _ := f.GetCellValue(sheet, "B10")
	if injected != "  '=cmd|' /C calc'!A0" {
		t.Errorf("B10 = %q", injected)
	}
}

func TestGenerateExcel_EmptyTitle(t *testing.T) {
	result, err := GenerateExcel(ExportData{CreatedDate: "01 Jan 2026"})
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); sheets[0] != "Estimate" {
		t.Errorf("expected default sheet name 'Estimate', got %q", sheets[0])
	}
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Phase 1/2: Framing [draft]", "Phase 12 Framing draft"},
		{"This is a very long title that exceeds thirty one characters", "This is a very long title that"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeSheetName(tt.in); got != tt.want {
			t.Errorf("sanitizeSheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"normal text", "Hello", "Hello"},
		{"starts with equals", "=SUM(A1:A10)", "'=SUM(A1:A10)"},
		{"starts with plus", "+1234", "'+1234"},
		{"starts with minus", "-100", "'-100"},
		{"starts with at", "@import", "'@import"},
		{"starts with tab", "\tdata", "'\tdata"},
		{"starts with pipe", "|command", "'|command"},
		{"starts with carriage return", "\rdata", "'\rdata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeExcelCell(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestThinBorders(t *testing.T) {
	borders := thinBorders()
	if len(borders) != 4 {
		t.Errorf("thinBorders() returned %d borders, want 4", len(borders))
	}
	for _, b := range borders {
		if b.Style != 1 {
			t.Errorf("border %s style = %d, want 1 (thin)", b.Type, b.Style)
		}
	}
}
