package services

import "github.com/shopspring/decimal"

// Change order statuses.
const (
	ChangeOrderPending  = "pending"
	ChangeOrderApproved = "approved"
	ChangeOrderRejected = "rejected"
)

// ChangeOrder adjusts the contract after the estimate was agreed.
// Amount is the price change billed to the client, CostImpact the change in
// the contractor's own cost. Either may be negative.
type ChangeOrder struct {
	Amount     float64
	CostImpact float64
	Status     string
}

// Expense is money spent on the project.
type Expense struct {
	Category Category
	Amount   float64
}

// Revenue is money received from the client.
type Revenue struct {
	Amount float64
}

// ExpenseVariance compares actual spend with the budget for one category.
type ExpenseVariance struct {
	Category      Category
	Budget        float64
	Actual        float64
	Variance      float64 // Budget - Actual, positive when under budget
	PercentOfPlan float64 // Actual / Budget * 100, 0 without a budget
}

// ProjectSummary is the dashboard view of a project's money.
type ProjectSummary struct {
	EstimatedPrice      float64
	EstimatedCost       float64
	ApprovedChangeTotal float64
	ContractValue       float64
	BudgetedCost        float64
	ActualCost          float64
	RevenueReceived     float64
	CostVariance        float64
	BudgetUsedPercent   float64
	ActualProfit        float64
	ActualMarginPercent float64
	OutstandingBilling  float64
	Categories          []ExpenseVariance
}

// IsOverBudget reports whether spend has passed the budgeted cost.
func (s ProjectSummary) IsOverBudget() bool {
	return s.CostVariance < 0
}

// CalcProjectSummary rolls estimate, approved change orders, expenses and
// revenues into the dashboard figures. Pending and rejected change orders
// are ignored.
func CalcProjectSummary(fin EstimateFinancials, changeOrders []ChangeOrder, expenses []Expense, revenues []Revenue) ProjectSummary {
	coAmount := decimal.Zero
	coCost := decimal.Zero
	for _, co := range changeOrders {
		if co.Status != ChangeOrderApproved {
			continue
		}
		coAmount = coAmount.Add(decimal.NewFromFloat(co.Amount))
		coCost = coCost.Add(decimal.NewFromFloat(co.CostImpact))
	}

	actualByCat := make(map[Category]decimal.Decimal)
	actual := decimal.Zero
	for _, ex := range expenses {
		amt := decimal.NewFromFloat(ex.Amount)
		c := ParseCategory(string(ex.Category))
		actualByCat[c] = actualByCat[c].Add(amt)
		actual = actual.Add(amt)
	}

	revenue := decimal.Zero
	for _, r := range revenues {
		revenue = revenue.Add(decimal.NewFromFloat(r.Amount))
	}

	contract := decimal.NewFromFloat(fin.TotalPrice).Add(coAmount)
	budget := decimal.NewFromFloat(fin.TotalCost).Add(coCost)

	s := ProjectSummary{
		EstimatedPrice:      fin.TotalPrice,
		EstimatedCost:       fin.TotalCost,
		ApprovedChangeTotal: coAmount.InexactFloat64(),
		ContractValue:       contract.InexactFloat64(),
		BudgetedCost:        budget.InexactFloat64(),
		ActualCost:          actual.InexactFloat64(),
		RevenueReceived:     revenue.InexactFloat64(),
		CostVariance:        budget.Sub(actual).InexactFloat64(),
		ActualProfit:        revenue.Sub(actual).InexactFloat64(),
		OutstandingBilling:  contract.Sub(revenue).InexactFloat64(),
	}
	if s.BudgetedCost > 0 {
		s.BudgetUsedPercent = s.ActualCost / s.BudgetedCost * 100
	}
	if s.RevenueReceived > 0 {
		s.ActualMarginPercent = s.ActualProfit / s.RevenueReceived * 100
	}

	for _, c := range Categories {
		b := fin.Bucket(c)
		a, spent := actualByCat[c]
		if b.Count == 0 && !spent {
			continue
		}
		v := ExpenseVariance{
			Category: c,
			Budget:   b.Cost,
			Actual:   a.InexactFloat64(),
		}
		v.Variance = v.Budget - v.Actual
		if v.Budget > 0 {
			v.PercentOfPlan = v.Actual / v.Budget * 100
		}
		s.Categories = append(s.Categories, v)
	}
	return s
}
