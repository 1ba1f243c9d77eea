package services

import (
	"testing"
	"time"
)

func TestGeneratePDF_Estimate(t *testing.T) {
	data := BuildExportData(sampleEstimate(), "EST-K-2026-001", "Hillside", time.Now())

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) < 5 || string(result[:5]) != "%PDF-" {
		t.Fatalf("result does not look like a PDF (%d bytes)", len(result))
	}
}

func TestGeneratePDF_EmptyItems(t *testing.T) {
	result, err := GeneratePDF(ExportData{Title: "Empty", CreatedDate: "01 Jan 2026"})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestGenerateComparisonPDF(t *testing.T) {
	est := sampleEstimate()
	quotes := []Quote{
		{Vendor: "Acme", Status: QuoteStatusPending, LineItems: []LineItem{
			{Category: CategoryMaterials, Quantity: 1, PricePerUnit: 160},
			{Category: CategoryLaborInternal, Quantity: 1, PricePerUnit: 300},
		}},
		{Vendor: "Zenith", Status: QuoteStatusPending, LineItems: []LineItem{
			{Category: CategoryMaterials, Quantity: 1, PricePerUnit: 900},
		}},
	}
	selected, ok := SelectQuoteForComparison(quotes)
	if !ok {
		t.Fatal("expected a quote to compare")
	}

	result, err := GenerateComparisonPDF(ComparisonExportData{
		EstimateTitle: est.Title,
		ProjectName:   "Hillside",
		CreatedDate:   "01 Mar 2026",
		Comparison:    CompareQuote(est, selected),
		Ranking:       RankQuotes(quotes),
	})
	if err != nil {
		t.Fatalf("GenerateComparisonPDF() error = %v", err)
	}
	if len(result) < 5 || string(result[:5]) != "%PDF-" {
		t.Fatalf("result does not look like a PDF (%d bytes)", len(result))
	}
}
