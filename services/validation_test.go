package services

import "testing"

func TestValidateLineItem(t *testing.T) {
	valid := LineItem{Category: CategoryMaterials, Description: "Lumber", Quantity: 10, CostPerUnit: 5, PricePerUnit: 7}

	tests := []struct {
		name      string
		mutate    func(*LineItem)
		wantField string
	}{
		{"valid", func(*LineItem) {}, ""},
		{"blank description", func(i *LineItem) { i.Description = "   " }, "description"},
		{"zero quantity", func(i *LineItem) { i.Quantity = 0 }, "quantity"},
		{"negative quantity", func(i *LineItem) { i.Quantity = -1 }, "quantity"},
		{"negative cost", func(i *LineItem) { i.CostPerUnit = -0.01 }, "cost_per_unit"},
		{"negative price", func(i *LineItem) { i.PricePerUnit = -3 }, "price_per_unit"},
		{"unknown category", func(i *LineItem) { i.Category = "plumbing" }, "category"},
		{"zero cost allowed", func(i *LineItem) { i.CostPerUnit = 0 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.mutate(&item)
			errs := ValidateLineItem(item)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidateLedgerEntry(t *testing.T) {
	tests := []struct {
		name      string
		kind      string
		entry     LedgerEntry
		wantField string
	}{
		{"credit change order", LedgerChangeOrder, LedgerEntry{Description: "Delete island", Amount: -400, Status: ChangeOrderApproved}, ""},
		{"zero change order", LedgerChangeOrder, LedgerEntry{Description: "Nothing", Amount: 0}, "amount"},
		{"bad status", LedgerChangeOrder, LedgerEntry{Description: "X", Amount: 10, Status: "maybe"}, "status"},
		{"expense", LedgerExpense, LedgerEntry{Description: "Tile", Amount: 120, Category: "materials"}, ""},
		{"negative expense", LedgerExpense, LedgerEntry{Description: "Tile", Amount: -5, Category: "materials"}, "amount"},
		{"expense bad category", LedgerExpense, LedgerEntry{Description: "Tile", Amount: 5, Category: "snacks"}, "category"},
		{"revenue", LedgerRevenue, LedgerEntry{Description: "Deposit", Amount: 5000}, ""},
		{"zero revenue", LedgerRevenue, LedgerEntry{Description: "Deposit"}, "amount"},
		{"missing description", LedgerRevenue, LedgerEntry{Amount: 10}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLedgerEntry(tt.kind, tt.entry)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidateEstimate(t *testing.T) {
	if errs := ValidateEstimate(EstimateForm{Title: "Kitchen", TargetMarginPercent: 20}); len(errs) != 0 {
		t.Errorf("expected valid, got %v", errs)
	}
	if errs := ValidateEstimate(EstimateForm{Title: "", TargetMarginPercent: 20}); errs["title"] == "" {
		t.Errorf("expected title error, got %v", errs)
	}
	if errs := ValidateEstimate(EstimateForm{Title: "K", TargetMarginPercent: 100}); errs["target_margin_percent"] == "" {
		t.Errorf("expected margin error at 100, got %v", errs)
	}
	if errs := ValidateEstimate(EstimateForm{Title: "K", TargetMarginPercent: -1}); errs["target_margin_percent"] == "" {
		t.Errorf("expected margin error for negative, got %v", errs)
	}
}

func TestValidateVendor(t *testing.T) {
	if errs := ValidateVendor(VendorForm{Name: "Acme", Trade: "subcontractor", Email: "bids@acme.example"}); len(errs) != 0 {
		t.Errorf("expected valid, got %v", errs)
	}
	errs := ValidateVendor(VendorForm{Name: " ", Trade: "wizardry", Email: "not-an-email"})
	for _, f := range []string{"name", "trade", "email"} {
		if errs[f] == "" {
			t.Errorf("expected error on %q, got %v", f, errs)
		}
	}
}
