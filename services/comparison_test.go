package services

import "testing"

func TestRecommend(t *testing.T) {
	tests := []struct {
		name   string
		cost   float64
		quote  float64
		target float64
		want   Recommendation
	}{
		{"under threshold", 100, 119, 20, RecommendAccept},
		{"at threshold", 100, 120, 20, RecommendAccept},
		{"over threshold", 100, 121, 20, RecommendNegotiate},
		{"zero target", 100, 100, 0, RecommendAccept},
		{"zero target over", 100, 100.01, 0, RecommendNegotiate},
		{"zero cost", 0, 1, 20, RecommendNegotiate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recommend(tt.cost, tt.quote, tt.target); got != tt.want {
				t.Errorf("Recommend(%v, %v, %v) = %q, want %q", tt.cost, tt.quote, tt.target, got, tt.want)
			}
		})
	}
}

func TestMinimumAcceptableQuote(t *testing.T) {
	if got := MinimumAcceptableQuote(100, 20); !floatClose(got, 120) {
		t.Errorf("MinimumAcceptableQuote(100, 20) = %v, want 120", got)
	}
}

func TestCalcVariance(t *testing.T) {
	tests := []struct {
		name     string
		est      float64
		quoted   float64
		wantDiff float64
		wantPct  float64
	}{
		{"over", 1000, 1100, 100, 10},
		{"under", 1000, 900, -100, -10},
		{"equal", 500, 500, 0, 0},
		{"zero estimate", 0, 300, 300, 0},
		{"negative estimate", -10, 5, 15, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, pct := CalcVariance(tt.est, tt.quoted)
			if !floatClose(diff, tt.wantDiff) || !floatClose(pct, tt.wantPct) {
				t.Errorf("CalcVariance(%v, %v) = (%v, %v), want (%v, %v)",
					tt.est, tt.quoted, diff, pct, tt.wantDiff, tt.wantPct)
			}
		})
	}
}

func TestCalcQuoteTotals(t *testing.T) {
	items := []LineItem{
		{Category: CategorySubcontractor, Quantity: 1, PricePerUnit: 4500},
		{Category: CategoryMaterials, Quantity: 10, PricePerUnit: 12.5},
		{Category: CategoryMaterials, Quantity: 3, PricePerUnit: 0.1},
	}
	got := CalcQuoteTotals(items)

	if got.LineCount != 3 {
		t.Errorf("LineCount = %d, want 3", got.LineCount)
	}
	if !floatClose(got.Subtotals[CategoryMaterials], 125.3) {
		t.Errorf("materials subtotal = %v, want 125.3", got.Subtotals[CategoryMaterials])
	}
	if !floatClose(got.Subtotals[CategorySubcontractor], 4500) {
		t.Errorf("subcontractor subtotal = %v", got.Subtotals[CategorySubcontractor])
	}
	if _, ok := got.Subtotals[CategoryPermits]; ok {
		t.Error("permits should have no subtotal")
	}

	var sum float64
	for _, s := range got.Subtotals {
		sum += s
	}
	if !floatClose(sum, got.Total) {
		t.Errorf("sum of subtotals %v != total %v", sum, got.Total)
	}
	if !floatClose(got.Total, 4625.3) {
		t.Errorf("Total = %v, want 4625.3", got.Total)
	}
}

func TestCompareQuote(t *testing.T) {
	est := Estimate{
		TargetMarginPercent: TargetMargin(20),
		LineItems: []LineItem{
			{Category: CategoryMaterials, Quantity: 10, CostPerUnit: 5, PricePerUnit: 7},      // cost 50
			{Category: CategoryLaborInternal, Quantity: 1, CostPerUnit: 50, PricePerUnit: 60}, // cost 50
		},
	}
	q := Quote{
		Vendor: "Acme Builders",
		LineItems: []LineItem{
			{Category: CategoryMaterials, Quantity: 1, PricePerUnit: 60},
			{Category: CategoryLaborInternal, Quantity: 1, PricePerUnit: 40},
			{Category: CategoryPermits, Quantity: 1, PricePerUnit: 19},
		},
	}

	got := CompareQuote(est, q)

	if got.Vendor != "Acme Builders" {
		t.Errorf("Vendor = %q", got.Vendor)
	}
	if !floatClose(got.YourTotalCost, 100) {
		t.Errorf("YourTotalCost = %v, want 100", got.YourTotalCost)
	}
	if !floatClose(got.VendorQuote, 119) {
		t.Errorf("VendorQuote = %v, want 119", got.VendorQuote)
	}
	if !floatClose(got.MinimumAcceptable, 120) {
		t.Errorf("MinimumAcceptable = %v, want 120", got.MinimumAcceptable)
	}
	if got.Recommendation != RecommendAccept {
		t.Errorf("Recommendation = %q, want ACCEPT", got.Recommendation)
	}

	if len(got.Categories) != 3 {
		t.Fatalf("len(Categories) = %d, want 3", len(got.Categories))
	}
	wantRows := []CategoryVariance{
		{Category: CategoryLaborInternal, EstimateSubtotal: 50, QuoteSubtotal: 40, Difference: -10, PercentageDiff: -20},
		{Category: CategoryMaterials, EstimateSubtotal: 50, QuoteSubtotal: 60, Difference: 10, PercentageDiff: 20},
		{Category: CategoryPermits, EstimateSubtotal: 0, QuoteSubtotal: 19, Difference: 19, PercentageDiff: 0},
	}
	for i, want := range wantRows {
		row := got.Categories[i]
		if row.Category != want.Category ||
			!floatClose(row.EstimateSubtotal, want.EstimateSubtotal) ||
			!floatClose(row.QuoteSubtotal, want.QuoteSubtotal) ||
			!floatClose(row.Difference, want.Difference) ||
			!floatClose(row.PercentageDiff, want.PercentageDiff) {
			t.Errorf("Categories[%d] = %+v, want %+v", i, row, want)
		}
	}
	if !got.Categories[1].IsOver() || got.Categories[0].IsOver() {
		t.Error("IsOver flags are wrong")
	}
}

func TestCompareQuote_NegotiateAndDefaultTarget(t *testing.T) {
	est := Estimate{LineItems: []LineItem{
		{Category: CategoryEquipment, Quantity: 1, CostPerUnit: 100, PricePerUnit: 130},
	}}
	q := Quote{LineItems: []LineItem{
		{Category: CategoryEquipment, Quantity: 1, PricePerUnit: 121},
	}}
	got := CompareQuote(est, q)
	if got.TargetMarginPercent != DefaultTargetMarginPercent {
		t.Errorf("TargetMarginPercent = %v, want default %v", got.TargetMarginPercent, DefaultTargetMarginPercent)
	}
	if got.Recommendation != RecommendNegotiate {
		t.Errorf("Recommendation = %q, want NEGOTIATE", got.Recommendation)
	}
	if !floatClose(got.TotalPercentageDiff, 21) {
		t.Errorf("TotalPercentageDiff = %v, want 21", got.TotalPercentageDiff)
	}
}

func TestRankQuotes(t *testing.T) {
	quotes := []Quote{
		{ID: "b", LineItems: []LineItem{{Quantity: 1, PricePerUnit: 300}}},
		{ID: "a", LineItems: []LineItem{{Quantity: 2, PricePerUnit: 100}}},
		{ID: "c", LineItems: []LineItem{{Quantity: 1, PricePerUnit: 300}}},
	}
	got := RankQuotes(quotes)
	wantIDs := []string{"a", "b", "c"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("rank %d = %q, want %q", i+1, got[i].ID, id)
		}
		if got[i].Rank != i+1 {
			t.Errorf("Rank = %d, want %d", got[i].Rank, i+1)
		}
	}
	if !got[0].IsBest || got[1].IsBest {
		t.Error("only the cheapest quote should be best")
	}
	if len(RankQuotes(nil)) != 0 {
		t.Error("expected empty ranking for nil quotes")
	}
}

func TestSelectQuoteForComparison(t *testing.T) {
	cheap := Quote{ID: "cheap", Status: QuoteStatusPending, LineItems: []LineItem{{Quantity: 1, PricePerUnit: 10}}}
	accepted := Quote{ID: "acc", Status: QuoteStatusAccepted, LineItems: []LineItem{{Quantity: 1, PricePerUnit: 50}}}

	got, ok := SelectQuoteForComparison([]Quote{cheap, accepted})
	if !ok || got.ID != "acc" {
		t.Errorf("expected accepted quote, got %q (ok=%v)", got.ID, ok)
	}
	if !floatClose(got.Total, 50) {
		t.Errorf("selected quote total = %v, want 50", got.Total)
	}

	got, ok = SelectQuoteForComparison([]Quote{accepted.withStatus(QuoteStatusRejected), cheap})
	if !ok || got.ID != "cheap" {
		t.Errorf("expected cheapest quote, got %q (ok=%v)", got.ID, ok)
	}

	if _, ok := SelectQuoteForComparison(nil); ok {
		t.Error("expected ok=false for no quotes")
	}
}

func (q Quote) withStatus(s string) Quote {
	q.Status = s
	return q
}

func TestEffectiveTargetMargin(t *testing.T) {
	tests := []struct {
		name   string
		target *float64
		want   float64
	}{
		{"unset", nil, DefaultTargetMarginPercent},
		{"explicit zero", TargetMargin(0), 0},
		{"negative", TargetMargin(-5), DefaultTargetMarginPercent},
		{"set", TargetMargin(12.5), 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate{TargetMarginPercent: tt.target}.EffectiveTargetMargin()
			if got != tt.want {
				t.Errorf("EffectiveTargetMargin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareQuote_ZeroTargetMargin(t *testing.T) {
	est := Estimate{
		TargetMarginPercent: TargetMargin(0),
		LineItems:           []LineItem{{Category: CategoryMaterials, Quantity: 1, CostPerUnit: 100, PricePerUnit: 130}},
	}
	q := Quote{LineItems: []LineItem{{Category: CategoryMaterials, Quantity: 1, PricePerUnit: 110}}}

	got := CompareQuote(est, q)
	if got.TargetMarginPercent != 0 || !floatClose(got.MinimumAcceptable, 100) {
		t.Errorf("target = %v, minimum = %v, want 0 and 100", got.TargetMarginPercent, got.MinimumAcceptable)
	}
	if got.Recommendation != RecommendNegotiate {
		t.Errorf("Recommendation = %q, want NEGOTIATE", got.Recommendation)
	}
}

func TestCalcQuoteTotals_SubCentPrices(t *testing.T) {
	items := []LineItem{
		{Category: CategoryMaterials, Quantity: 1, PricePerUnit: 10.005},
		{Category: CategoryEquipment, Quantity: 1, PricePerUnit: 10.005},
		{Category: CategoryPermits, Quantity: 3, PricePerUnit: 0.3333},
	}
	got := CalcQuoteTotals(items)

	want := map[Category]float64{CategoryMaterials: 10.01, CategoryEquipment: 10.01, CategoryPermits: 1}
	for c, w := range want {
		if got.Subtotals[c] != w {
			t.Errorf("%s subtotal = %v, want %v", c, got.Subtotals[c], w)
		}
	}
	if !floatClose(got.Total, 21.02) {
		t.Errorf("Total = %v, want 21.02", got.Total)
	}
}

func TestQuoteTotals_SuppliedSubtotals(t *testing.T) {
	q := Quote{Subtotals: map[Category]float64{CategoryMaterials: 500, "plumbing": 25}}
	got := q.Totals()

	if !floatClose(got.Total, 525) {
		t.Errorf("Total = %v, want 525", got.Total)
	}
	if !floatClose(got.Subtotals[CategoryOther], 25) {
		t.Errorf("unknown category should fold into other, got %v", got.Subtotals)
	}
}

func TestQuoteTotals_LineItemsWin(t *testing.T) {
	q := Quote{
		LineItems: []LineItem{{Category: CategoryMaterials, Quantity: 2, PricePerUnit: 40}},
		Subtotals: map[Category]float64{CategoryMaterials: 999},
	}
	if got := q.WithTotals(); !floatClose(got.Total, 80) || !floatClose(got.Subtotals[CategoryMaterials], 80) {
		t.Errorf("WithTotals() = %+v, want totals from line items", got)
	}
}

func TestCompareQuote_SuppliedSubtotals(t *testing.T) {
	est := Estimate{
		TargetMarginPercent: TargetMargin(20),
		LineItems:           []LineItem{{Category: CategoryMaterials, Quantity: 1, CostPerUnit: 100, PricePerUnit: 130}},
	}
	q := Quote{Subtotals: map[Category]float64{CategoryMaterials: 500}, Total: 500}

	got := CompareQuote(est, q)
	if !floatClose(got.VendorQuote, 500) {
		t.Errorf("VendorQuote = %v, want 500", got.VendorQuote)
	}
	if got.Recommendation != RecommendNegotiate {
		t.Errorf("Recommendation = %q, want NEGOTIATE", got.Recommendation)
	}
	if len(got.Categories) != 1 || !floatClose(got.Categories[0].Difference, 400) {
		t.Errorf("Categories = %+v", got.Categories)
	}
}

func TestQuoteCheckTotals(t *testing.T) {
	tests := []struct {
		name    string
		quote   Quote
		wantErr bool
	}{
		{"lines without total", Quote{LineItems: []LineItem{{Category: CategoryMaterials, Quantity: 1, PricePerUnit: 5}}}, false},
		{"subtotals with matching total", Quote{Subtotals: map[Category]float64{CategoryMaterials: 500}, Total: 500}, false},
		{"nothing to compare", Quote{Total: 500}, true},
		{"total disagrees", Quote{Subtotals: map[Category]float64{CategoryMaterials: 500}, Total: 400}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.quote.CheckTotals()
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckTotals() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
