package services

import (
	"fmt"
	"time"
)

// ExportRow represents a single row in the estimate export: a category
// heading (level 0) or a line item under it (level 1).
type ExportRow struct {
	Level         int    // 0 = category heading, 1 = line item
	Index         string // "1", "1.1" etc
	Description   string
	Quantity      float64
	Unit          string
	CostPerUnit   float64
	TotalCost     float64
	MarkupPercent float64
	PricePerUnit  float64
	Total         float64
}

// ExportData holds all data needed for an estimate export.
type ExportData struct {
	Title               string
	Number              string
	ProjectName         string
	CreatedDate         string
	Rows                []ExportRow
	TargetMarginPercent float64
	Financials          EstimateFinancials
}

// BuildExportData groups an estimate's line items by category, in category
// order, with a heading row carrying each category's subtotals.
func BuildExportData(est Estimate, number, projectName string, created time.Time) ExportData {
	data := ExportData{
		Title:               est.Title,
		Number:              number,
		ProjectName:         projectName,
		CreatedDate:         created.Format("02 Jan 2006"),
		TargetMarginPercent: est.EffectiveTargetMargin(),
		Financials:          CalcEstimateFinancials(est.LineItems),
	}

	for gi, bucket := range data.Financials.Buckets {
		data.Rows = append(data.Rows, ExportRow{
			Level:         0,
			Index:         fmt.Sprintf("%d", gi+1),
			Description:   bucket.Category.Label(),
			TotalCost:     bucket.Cost,
			MarkupPercent: bucket.MarkupPct,
			Total:         bucket.Price,
		})

		n := 0
		for _, item := range est.LineItems {
			if ParseCategory(string(item.Category)) != bucket.Category {
				continue
			}
			n++
			calc := CalcLineItem(item)
			data.Rows = append(data.Rows, ExportRow{
				Level:         1,
				Index:         fmt.Sprintf("%d.%d", gi+1, n),
				Description:   item.Description,
				Quantity:      item.Quantity,
				Unit:          item.Unit,
				CostPerUnit:   item.CostPerUnit,
				TotalCost:     calc.TotalCost,
				MarkupPercent: calc.MarkupPercent,
				PricePerUnit:  item.PricePerUnit,
				Total:         calc.Total,
			})
		}
	}
	return data
}

// ComparisonExportData holds everything the comparison PDF shows.
type ComparisonExportData struct {
	EstimateTitle string
	ProjectName   string
	CreatedDate   string
	Comparison    QuoteComparison
	Ranking       []RankedQuote
}
