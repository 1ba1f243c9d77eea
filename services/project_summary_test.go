package services

import "testing"

func TestCalcProjectSummary(t *testing.T) {
	fin := CalcEstimateFinancials([]LineItem{
		{Category: CategoryMaterials, Quantity: 100, CostPerUnit: 10, PricePerUnit: 13},    // cost 1000, price 1300
		{Category: CategoryLaborInternal, Quantity: 50, CostPerUnit: 40, PricePerUnit: 60}, // cost 2000, price 3000
	})
	changeOrders := []ChangeOrder{
		{Amount: 500, CostImpact: 400, Status: ChangeOrderApproved},
		{Amount: 9999, CostImpact: 9999, Status: ChangeOrderPending},
		{Amount: -200, CostImpact: -150, Status: ChangeOrderApproved},
		{Amount: 100, CostImpact: 80, Status: ChangeOrderRejected},
	}
	expenses := []Expense{
		{Category: CategoryMaterials, Amount: 1200},
		{Category: CategoryLaborInternal, Amount: 900},
		{Category: CategoryPermits, Amount: 150},
	}
	revenues := []Revenue{{Amount: 2000}, {Amount: 1000}}

	got := CalcProjectSummary(fin, changeOrders, expenses, revenues)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"EstimatedPrice", got.EstimatedPrice, 4300},
		{"EstimatedCost", got.EstimatedCost, 3000},
		{"ApprovedChangeTotal", got.ApprovedChangeTotal, 300},
		{"ContractValue", got.ContractValue, 4600},
		{"BudgetedCost", got.BudgetedCost, 3250},
		{"ActualCost", got.ActualCost, 2250},
		{"RevenueReceived", got.RevenueReceived, 3000},
		{"CostVariance", got.CostVariance, 1000},
		{"BudgetUsedPercent", got.BudgetUsedPercent, 2250.0 / 3250 * 100},
		{"ActualProfit", got.ActualProfit, 750},
		{"ActualMarginPercent", got.ActualMarginPercent, 25},
		{"OutstandingBilling", got.OutstandingBilling, 1600},
	}
	for _, c := range checks {
		if !floatClose(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if got.IsOverBudget() {
		t.Error("IsOverBudget = true, want false")
	}

	if len(got.Categories) != 3 {
		t.Fatalf("len(Categories) = %d, want 3", len(got.Categories))
	}
	mat := got.Categories[1]
	if mat.Category != CategoryMaterials || !floatClose(mat.Variance, -200) || !floatClose(mat.PercentOfPlan, 120) {
		t.Errorf("materials variance = %+v", mat)
	}
	permits := got.Categories[2]
	if permits.Category != CategoryPermits || permits.Budget != 0 || permits.PercentOfPlan != 0 {
		t.Errorf("unbudgeted permits variance = %+v", permits)
	}
}

func TestCalcProjectSummary_Empty(t *testing.T) {
	got := CalcProjectSummary(EstimateFinancials{}, nil, nil, nil)
	if got.BudgetUsedPercent != 0 || got.ActualMarginPercent != 0 {
		t.Errorf("percentages must be 0 without data, got %+v", got)
	}
	if len(got.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(got.Categories))
	}
}

func TestCalcProjectSummary_OverBudget(t *testing.T) {
	fin := CalcEstimateFinancials([]LineItem{
		{Category: CategoryEquipment, Quantity: 1, CostPerUnit: 100, PricePerUnit: 150},
	})
	got := CalcProjectSummary(fin, nil, []Expense{{Category: CategoryEquipment, Amount: 180}}, nil)
	if !got.IsOverBudget() {
		t.Error("expected over budget")
	}
	if !floatClose(got.CostVariance, -80) {
		t.Errorf("CostVariance = %v, want -80", got.CostVariance)
	}
	if got.ActualMarginPercent != 0 {
		t.Errorf("ActualMarginPercent = %v, want 0 without revenue", got.ActualMarginPercent)
	}
}
