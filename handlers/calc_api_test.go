package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sitecost/config"
	"sitecost/testhelpers"
)

func jsonRequest(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func floatClose(a, b float64) bool { return math.Abs(a-b) < 0.005 }

func TestHandleCalcLineItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name      string
		body      string
		wantPrice float64
		wantTotal float64
		wantMkAmt float64
	}{
		{
			name:      "normalize only",
			body:      `{"item":{"category":"materials","quantity":10,"cost_per_unit":100,"price_per_unit":130}}`,
			wantPrice: 130, wantTotal: 1300, wantMkAmt: 300,
		},
		{
			name:      "edit markup percent",
			body:      `{"item":{"category":"materials","quantity":10,"cost_per_unit":100,"price_per_unit":130},"field":"markup_percent","value":50}`,
			wantPrice: 150, wantTotal: 1500, wantMkAmt: 500,
		},
		{
			name:      "edit total moves unit price",
			body:      `{"item":{"category":"subcontractor","quantity":4,"cost_per_unit":50,"price_per_unit":60},"field":"total","value":400}`,
			wantPrice: 100, wantTotal: 400, wantMkAmt: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := HandleCalcLineItem()(newTestRequestEvent(app, jsonRequest("/api/calc/line-item", tt.body), rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			var resp lineItemCalcResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v (%s)", err, rec.Body.String())
			}
			if !floatClose(resp.Item.PricePerUnit, tt.wantPrice) {
				t.Errorf("price_per_unit = %v, want %v", resp.Item.PricePerUnit, tt.wantPrice)
			}
			if !floatClose(resp.Calc.Total, tt.wantTotal) {
				t.Errorf("total = %v, want %v", resp.Calc.Total, tt.wantTotal)
			}
			if !floatClose(resp.Calc.MarkupAmount, tt.wantMkAmt) {
				t.Errorf("markup_amount = %v, want %v", resp.Calc.MarkupAmount, tt.wantMkAmt)
			}
		})
	}
}

func TestHandleCalcLineItem_UnknownField(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	body := `{"item":{"quantity":1,"cost_per_unit":1,"price_per_unit":1},"field":"colour","value":1}`
	err := HandleCalcLineItem()(newTestRequestEvent(app, jsonRequest("/api/calc/line-item", body), httptest.NewRecorder()))
	if err == nil {
		t.Fatal("expected a bad request error")
	}
}

func TestHandleCalcEstimate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	const items = `"line_items":[
		{"category":"materials","quantity":10,"cost_per_unit":100,"price_per_unit":130},
		{"category":"subcontractor","quantity":0,"cost_per_unit":50,"price_per_unit":80}
	]`

	tests := []struct {
		name        string
		body        string
		wantTarget  float64
		wantMinimum float64
	}{
		{"target omitted uses default", `{` + items + `}`, 20, 1200},
		{"explicit zero target is kept", `{` + items + `,"target_margin_percent":0}`, 0, 1000},
		{"explicit target", `{` + items + `,"target_margin_percent":35}`, 35, 1350},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := HandleCalcEstimate(config.Default())(newTestRequestEvent(app, jsonRequest("/api/calc/estimate", tt.body), rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			var resp struct {
				TotalCost           float64 `json:"total_cost"`
				TotalPrice          float64 `json:"total_price"`
				GrossProfit         float64 `json:"gross_profit"`
				Performance         string  `json:"performance"`
				TargetMarginPercent float64 `json:"target_margin_percent"`
				MinimumAcceptable   float64 `json:"minimum_acceptable"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !floatClose(resp.TotalCost, 1000) || !floatClose(resp.TotalPrice, 1300) || !floatClose(resp.GrossProfit, 300) {
				t.Errorf("totals = %+v", resp)
			}
			// 300 / 1300 is about 23%, between the good and excellent thresholds.
			if resp.Performance != "good" {
				t.Errorf("performance = %q, want good", resp.Performance)
			}
			if resp.TargetMarginPercent != tt.wantTarget || !floatClose(resp.MinimumAcceptable, tt.wantMinimum) {
				t.Errorf("target = %v, minimum = %v, want %v and %v",
					resp.TargetMarginPercent, resp.MinimumAcceptable, tt.wantTarget, tt.wantMinimum)
			}
		})
	}
}

func TestHandleCalcCompare(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	body := `{
		"estimate":{"title":"Deck","target_margin_percent":10,"line_items":[
			{"category":"materials","quantity":1,"cost_per_unit":1000,"price_per_unit":1300}]},
		"quote":{"vendor":"Deck Co","line_items":[
			{"category":"materials","quantity":1,"price_per_unit":1150}]}
	}`

	rec := httptest.NewRecorder()
	if err := HandleCalcCompare()(newTestRequestEvent(app, jsonRequest("/api/calc/compare", body), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Recommendation    string  `json:"recommendation"`
		MinimumAcceptable float64 `json:"minimum_acceptable"`
		TotalDifference   float64 `json:"total_difference"`
		Categories        []struct {
			Category string `json:"category"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Recommendation != "NEGOTIATE" {
		t.Errorf("recommendation = %q, want NEGOTIATE", resp.Recommendation)
	}
	if !floatClose(resp.MinimumAcceptable, 1100) || !floatClose(resp.TotalDifference, 150) {
		t.Errorf("minimum = %v, difference = %v", resp.MinimumAcceptable, resp.TotalDifference)
	}
	if len(resp.Categories) != 1 || resp.Categories[0].Category != "materials" {
		t.Errorf("categories = %+v", resp.Categories)
	}
}

func TestHandleCalcCompare_SubtotalsOnlyQuote(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	body := `{
		"estimate":{"target_margin_percent":20,"line_items":[
			{"category":"materials","quantity":1,"cost_per_unit":100,"price_per_unit":130}]},
		"quote":{"vendor":"Lump Sum Ltd","subtotals":{"materials":500},"total":500}
	}`

	rec := httptest.NewRecorder()
	if err := HandleCalcCompare()(newTestRequestEvent(app, jsonRequest("/api/calc/compare", body), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Recommendation string  `json:"recommendation"`
		VendorQuote    float64 `json:"vendor_quote"`
		Categories     []struct {
			Category      string  `json:"category"`
			QuoteSubtotal float64 `json:"quote_subtotal"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !floatClose(resp.VendorQuote, 500) {
		t.Errorf("vendor_quote = %v, want 500", resp.VendorQuote)
	}
	if resp.Recommendation != "NEGOTIATE" {
		t.Errorf("recommendation = %q, want NEGOTIATE", resp.Recommendation)
	}
	if len(resp.Categories) != 1 || !floatClose(resp.Categories[0].QuoteSubtotal, 500) {
		t.Errorf("categories = %+v", resp.Categories)
	}
}

func TestHandleCalcCompare_RejectsUnusableQuote(t *testing.T) {
	tests := []struct {
		name  string
		quote string
	}{
		{"no lines or subtotals", `{"vendor":"Empty Co","total":500}`},
		{"total disagrees with subtotals", `{"subtotals":{"materials":500},"total":900}`},
		{"total disagrees with lines", `{"line_items":[{"category":"materials","quantity":2,"price_per_unit":50}],"total":500}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			body := `{"estimate":{"line_items":[{"category":"materials","quantity":1,"cost_per_unit":100,"price_per_unit":130}]},"quote":` + tt.quote + `}`
			err := HandleCalcCompare()(newTestRequestEvent(app, jsonRequest("/api/calc/compare", body), httptest.NewRecorder()))
			if err == nil {
				t.Fatal("expected a bad request error")
			}
		})
	}
}
