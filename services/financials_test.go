package services

import (
	"math"
	"testing"
)

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestCalcLineItem(t *testing.T) {
	tests := []struct {
		name          string
		item          LineItem
		wantCost      float64
		wantTotal     float64
		wantMarkupAmt float64
		wantMarkupPct float64
	}{
		{"reference example", LineItem{Quantity: 10, CostPerUnit: 5, PricePerUnit: 7}, 50, 70, 20, 40},
		{"zero cost", LineItem{Quantity: 3, CostPerUnit: 0, PricePerUnit: 10}, 0, 30, 30, 0},
		{"negative cost guarded", LineItem{Quantity: 1, CostPerUnit: -4, PricePerUnit: 10}, -4, 10, 14, 0},
		{"price below cost", LineItem{Quantity: 2, CostPerUnit: 100, PricePerUnit: 80}, 200, 160, -40, -20},
		{"zero quantity", LineItem{Quantity: 0, CostPerUnit: 100, PricePerUnit: 120}, 0, 0, 0, 20},
		{"fractional", LineItem{Quantity: 2.5, CostPerUnit: 40.2, PricePerUnit: 50.25}, 100.5, 125.625, 25.125, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcLineItem(tt.item)
			if !floatClose(got.TotalCost, tt.wantCost) {
				t.Errorf("TotalCost = %v, want %v", got.TotalCost, tt.wantCost)
			}
			if !floatClose(got.Total, tt.wantTotal) {
				t.Errorf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
			if !floatClose(got.MarkupAmount, tt.wantMarkupAmt) {
				t.Errorf("MarkupAmount = %v, want %v", got.MarkupAmount, tt.wantMarkupAmt)
			}
			if !floatClose(got.MarkupPercent, tt.wantMarkupPct) {
				t.Errorf("MarkupPercent = %v, want %v", got.MarkupPercent, tt.wantMarkupPct)
			}
			if math.IsNaN(got.MarkupPercent) || math.IsInf(got.MarkupPercent, 0) {
				t.Errorf("MarkupPercent is not finite: %v", got.MarkupPercent)
			}
		})
	}
}

func TestCalcLineItem_CostPlusMarkupEqualsTotal(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, CostPerUnit: 1, PricePerUnit: 1},
		{Quantity: 7, CostPerUnit: 13.3, PricePerUnit: 19.95},
		{Quantity: 120, CostPerUnit: 0.45, PricePerUnit: 0.6},
		{Quantity: 4, CostPerUnit: 0, PricePerUnit: 250},
	}
	for _, item := range items {
		got := CalcLineItem(item)
		if !floatClose(got.TotalCost+got.MarkupAmount, got.Total) {
			t.Errorf("%+v: totalCost %v + markup %v != total %v", item, got.TotalCost, got.MarkupAmount, got.Total)
		}
	}
}

func TestApplyEdit(t *testing.T) {
	base := LineItem{Quantity: 10, CostPerUnit: 5, PricePerUnit: 7}.Normalize()

	tests := []struct {
		name      string
		start     LineItem
		field     EditField
		value     float64
		wantQty   float64
		wantCost  float64
		wantPrice float64
		wantPct   float64
		wantTotal float64
	}{
		{"quantity", base, FieldQuantity, 20, 20, 5, 7, 40, 140},
		{"cost keeps markup", base, FieldCostPerUnit, 10, 10, 10, 14, 40, 140},
		{"price recomputes markup", base, FieldPricePerUnit, 10, 10, 5, 10, 100, 100},
		{"markup percent", base, FieldMarkupPercent, 50, 10, 5, 7.5, 50, 75},
		{"markup amount", base, FieldMarkupAmount, 30, 10, 5, 8, 60, 80},
		{"total cost keeps markup", base, FieldTotalCost, 100, 10, 10, 14, 40, 140},
		{"total", base, FieldTotal, 90, 10, 5, 9, 80, 90},
		{"markup on zero cost", LineItem{Quantity: 2}, FieldMarkupPercent, 25, 2, 0, 0, 0, 0},
		{"total with zero quantity", LineItem{CostPerUnit: 5, PricePerUnit: 6}, FieldTotal, 100, 0, 5, 0, -100, 0},
		{"total cost with zero quantity", LineItem{CostPerUnit: 5, PricePerUnit: 6}, FieldTotalCost, 100, 0, 0, 0, 0, 0},
		{"cost on zero-cost item uses stored markup", LineItem{Quantity: 1, MarkupPercent: 20}, FieldCostPerUnit, 100, 1, 100, 120, 20, 120},
		{"cost on priced zero-cost item keeps price", LineItem{Quantity: 1, PricePerUnit: 50}.Normalize(), FieldCostPerUnit, 30, 1, 30, 50, 66.666667, 50},
		{"total cost on priced zero-cost item keeps price", LineItem{Quantity: 2, PricePerUnit: 50}.Normalize(), FieldTotalCost, 80, 2, 40, 50, 25, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyEdit(tt.start, tt.field, tt.value)
			if err != nil {
				t.Fatalf("ApplyEdit error: %v", err)
			}
			if !floatClose(got.Quantity, tt.wantQty) {
				t.Errorf("Quantity = %v, want %v", got.Quantity, tt.wantQty)
			}
			if !floatClose(got.CostPerUnit, tt.wantCost) {
				t.Errorf("CostPerUnit = %v, want %v", got.CostPerUnit, tt.wantCost)
			}
			if !floatClose(got.PricePerUnit, tt.wantPrice) {
				t.Errorf("PricePerUnit = %v, want %v", got.PricePerUnit, tt.wantPrice)
			}
			if !floatClose(got.MarkupPercent, tt.wantPct) {
				t.Errorf("MarkupPercent = %v, want %v", got.MarkupPercent, tt.wantPct)
			}
			if !floatClose(got.Total, tt.wantTotal) {
				t.Errorf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
			if !floatClose(got.Total, got.Quantity*got.PricePerUnit) {
				t.Errorf("Total %v != Quantity*PricePerUnit %v", got.Total, got.Quantity*got.PricePerUnit)
			}
		})
	}
}

func TestApplyEdit_UnknownField(t *testing.T) {
	item := LineItem{Quantity: 1, CostPerUnit: 1, PricePerUnit: 2}
	got, err := ApplyEdit(item, "discount", 5)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if got != item {
		t.Errorf("item changed on error: %+v", got)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"materials", CategoryMaterials},
		{"  Subcontractor ", CategorySubcontractor},
		{"Internal Labor", CategoryLaborInternal},
		{"LABOR_INTERNAL", CategoryLaborInternal},
		{"permits", CategoryPermits},
		{"landscaping", CategoryOther},
		{"", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseCategory(tt.in); got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCalcEstimateFinancials(t *testing.T) {
	items := []LineItem{
		{Category: CategoryMaterials, Quantity: 10, CostPerUnit: 5, PricePerUnit: 7},
		{Category: CategoryLaborInternal, Quantity: 40, CostPerUnit: 30, PricePerUnit: 45},
		{Category: CategoryMaterials, Quantity: 2, CostPerUnit: 100, PricePerUnit: 125},
		{Category: "bogus", Quantity: 1, CostPerUnit: 50, PricePerUnit: 50},
	}
	got := CalcEstimateFinancials(items)

	if len(got.Buckets) != 3 {
		t.Fatalf("len(Buckets) = %d, want 3", len(got.Buckets))
	}
	// Buckets follow category order: labor, materials, other.
	wantOrder := []Category{CategoryLaborInternal, CategoryMaterials, CategoryOther}
	for i, c := range wantOrder {
		if got.Buckets[i].Category != c {
			t.Errorf("Buckets[%d] = %q, want %q", i, got.Buckets[i].Category, c)
		}
	}

	mat := got.Bucket(CategoryMaterials)
	if mat.Count != 2 || !floatClose(mat.Cost, 250) || !floatClose(mat.Price, 320) {
		t.Errorf("materials bucket = %+v", mat)
	}
	if !floatClose(mat.MarkupPct, 28) {
		t.Errorf("materials markup = %v, want 28", mat.MarkupPct)
	}
	if b := got.Bucket(CategoryPermits); b.Count != 0 || b.Price != 0 {
		t.Errorf("permits bucket should be empty, got %+v", b)
	}

	if !floatClose(got.TotalCost, 1500) {
		t.Errorf("TotalCost = %v, want 1500", got.TotalCost)
	}
	if !floatClose(got.TotalPrice, 2170) {
		t.Errorf("TotalPrice = %v, want 2170", got.TotalPrice)
	}
	if !floatClose(got.GrossProfit, 670) {
		t.Errorf("GrossProfit = %v, want 670", got.GrossProfit)
	}
	if !floatClose(got.GrossMarginPercent, 670.0/2170*100) {
		t.Errorf("GrossMarginPercent = %v", got.GrossMarginPercent)
	}
	if !floatClose(got.AverageMarkupPercent, 670.0/1500*100) {
		t.Errorf("AverageMarkupPercent = %v", got.AverageMarkupPercent)
	}
}

func TestCalcEstimateFinancials_SubtotalsSumToTotal(t *testing.T) {
	items := []LineItem{
		{Category: CategoryMaterials, Quantity: 3, CostPerUnit: 0.1, PricePerUnit: 0.7},
		{Category: CategoryEquipment, Quantity: 3, CostPerUnit: 0.2, PricePerUnit: 0.3},
		{Category: CategoryPermits, Quantity: 1, CostPerUnit: 0.3, PricePerUnit: 0.1},
		{Category: CategoryManagement, Quantity: 11, CostPerUnit: 1.1, PricePerUnit: 2.2},
		{Category: CategorySubcontractor, Quantity: 0.5, CostPerUnit: 999.99, PricePerUnit: 1234.56},
	}
	got := CalcEstimateFinancials(items)

	var sumCost, sumPrice float64
	for _, b := range got.Buckets {
		sumCost += b.Cost
		sumPrice += b.Price
	}
	if !floatClose(sumCost, got.TotalCost) {
		t.Errorf("sum of cost subtotals %v != TotalCost %v", sumCost, got.TotalCost)
	}
	if !floatClose(sumPrice, got.TotalPrice) {
		t.Errorf("sum of price subtotals %v != TotalPrice %v", sumPrice, got.TotalPrice)
	}
}

func TestCalcEstimateFinancials_Empty(t *testing.T) {
	for _, items := range [][]LineItem{nil, {}} {
		got := CalcEstimateFinancials(items)
		if len(got.Buckets) != 0 || got.TotalCost != 0 || got.TotalPrice != 0 {
			t.Errorf("expected zero financials, got %+v", got)
		}
		if got.GrossMarginPercent != 0 || got.AverageMarkupPercent != 0 {
			t.Errorf("percentages must be 0 for empty estimate, got %+v", got)
		}
	}
}

func TestCalcEstimateFinancials_ZeroCostAndPrice(t *testing.T) {
	got := CalcEstimateFinancials([]LineItem{
		{Category: CategoryPermits, Quantity: 1, CostPerUnit: 0, PricePerUnit: 500},
	})
	if got.AverageMarkupPercent != 0 {
		t.Errorf("AverageMarkupPercent = %v, want 0 with zero cost", got.AverageMarkupPercent)
	}
	if !floatClose(got.GrossMarginPercent, 100) {
		t.Errorf("GrossMarginPercent = %v, want 100", got.GrossMarginPercent)
	}

	got = CalcEstimateFinancials([]LineItem{
		{Category: CategoryPermits, Quantity: 1, CostPerUnit: 200, PricePerUnit: 0},
	})
	if got.GrossMarginPercent != 0 {
		t.Errorf("GrossMarginPercent = %v, want 0 with zero price", got.GrossMarginPercent)
	}
}

func TestClassifyMargin(t *testing.T) {
	tests := []struct {
		margin float64
		want   Performance
	}{
		{40, PerformanceExcellent},
		{25, PerformanceExcellent},
		{24.9, PerformanceGood},
		{15, PerformanceGood},
		{10, PerformancePoor},
		{5, PerformancePoor},
		{4.99, PerformanceCritical},
		{-12, PerformanceCritical},
	}
	for _, tt := range tests {
		if got := ClassifyMargin(tt.margin, DefaultMarginThresholds); got != tt.want {
			t.Errorf("ClassifyMargin(%v) = %q, want %q", tt.margin, got, tt.want)
		}
	}
}
