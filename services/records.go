package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// LineItemFromRecord reads an estimate or quote line item record.
func LineItemFromRecord(r *core.Record) LineItem {
	return LineItem{
		ID:            r.Id,
		Category:      ParseCategory(r.GetString("category")),
		Description:   r.GetString("description"),
		Unit:          r.GetString("unit"),
		Quantity:      r.GetFloat("quantity"),
		CostPerUnit:   r.GetFloat("cost_per_unit"),
		PricePerUnit:  r.GetFloat("price_per_unit"),
		MarkupPercent: r.GetFloat("markup_percent"),
		Total:         r.GetFloat("total"),
	}
}

// ApplyLineItemToRecord writes item onto r with its derived fields
// recomputed. Cost and markup are only written when the collection has them.
func ApplyLineItemToRecord(r *core.Record, item LineItem) {
	item = item.Normalize()
	r.Set("category", string(item.Category))
	r.Set("description", item.Description)
	r.Set("unit", item.Unit)
	r.Set("quantity", item.Quantity)
	r.Set("price_per_unit", item.PricePerUnit)
	r.Set("total", item.Total)
	if r.Collection().Fields.GetByName("cost_per_unit") != nil {
		r.Set("cost_per_unit", item.CostPerUnit)
		r.Set("markup_percent", item.MarkupPercent)
	}
}

// LoadEstimate fetches an estimate record and its line items in sort order.
func LoadEstimate(app core.App, estimateID string) (Estimate, *core.Record, error) {
	rec, err := app.FindRecordById("estimates", estimateID)
	if err != nil {
		return Estimate{}, nil, fmt.Errorf("estimate %s not found: %w", estimateID, err)
	}

	items, err := app.FindRecordsByFilter(
		"estimate_line_items",
		"estimate = {:estimateId}",
		"sort_order",
		0, 0,
		map[string]any{"estimateId": estimateID},
	)
	if err != nil {
		return Estimate{}, rec, fmt.Errorf("load line items for estimate %s: %w", estimateID, err)
	}

	est := Estimate{
		ID:                  rec.Id,
		Title:               rec.GetString("title"),
		TargetMarginPercent: TargetMargin(rec.GetFloat("target_margin_percent")),
		LineItems:           make([]LineItem, 0, len(items)),
	}
	for _, r := range items {
		est.LineItems = append(est.LineItems, LineItemFromRecord(r))
	}
	return est, rec, nil
}

// LoadQuote fetches a quote record, its vendor name and its line items.
func LoadQuote(app core.App, quoteID string) (Quote, *core.Record, error) {
	rec, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return Quote{}, nil, fmt.Errorf("quote %s not found: %w", quoteID, err)
	}
	q, err := quoteFromRecord(app, rec)
	return q, rec, err
}

// LoadQuotesForEstimate returns every quote submitted against an estimate,
// with totals derived from the line items.
func LoadQuotesForEstimate(app core.App, estimateID string) ([]Quote, error) {
	records, err := app.FindRecordsByFilter(
		"quotes",
		"estimate = {:estimateId}",
		"created",
		0, 0,
		map[string]any{"estimateId": estimateID},
	)
	if err != nil {
		return nil, fmt.Errorf("load quotes for estimate %s: %w", estimateID, err)
	}

	quotes := make([]Quote, 0, len(records))
	for _, rec := range records {
		q, err := quoteFromRecord(app, rec)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func quoteFromRecord(app core.App, rec *core.Record) (Quote, error) {
	q := Quote{
		ID:     rec.Id,
		Status: rec.GetString("status"),
	}
	if vendor, err := app.FindRecordById("vendors", rec.GetString("vendor")); err == nil {
		q.Vendor = vendor.GetString("name")
	}

	items, err := app.FindRecordsByFilter(
		"quote_line_items",
		"quote = {:quoteId}",
		"sort_order",
		0, 0,
		map[string]any{"quoteId": rec.Id},
	)
	if err != nil {
		return Quote{}, fmt.Errorf("load line items for quote %s: %w", rec.Id, err)
	}
	for _, r := range items {
		q.LineItems = append(q.LineItems, LineItemFromRecord(r))
	}
	return q.WithTotals(), nil
}

// SelectProjectEstimate returns the project's approved estimate, or the most
// recently created one when none is approved. ok is false when the project
// has no estimates.
func SelectProjectEstimate(app core.App, projectID string) (*core.Record, bool) {
	records, err := app.FindRecordsByFilter(
		"estimates",
		"project = {:projectId}",
		"-created",
		0, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil || len(records) == 0 {
		return nil, false
	}
	for _, r := range records {
		if r.GetString("status") == "approved" {
			return r, true
		}
	}
	return records[0], true
}

// LoadProjectSummary computes the dashboard figures for a project.
func LoadProjectSummary(app core.App, projectID string) (ProjectSummary, error) {
	if _, err := app.FindRecordById("projects", projectID); err != nil {
		return ProjectSummary{}, fmt.Errorf("project %s not found: %w", projectID, err)
	}

	var fin EstimateFinancials
	if estRec, ok := SelectProjectEstimate(app, projectID); ok {
		est, _, err := LoadEstimate(app, estRec.Id)
		if err != nil {
			return ProjectSummary{}, err
		}
		fin = CalcEstimateFinancials(est.LineItems)
	}

	params := map[string]any{"projectId": projectID}
	filter := "project = {:projectId}"

	coRecords, err := app.FindRecordsByFilter("change_orders", filter, "", 0, 0, params)
	if err != nil {
		return ProjectSummary{}, fmt.Errorf("load change orders: %w", err)
	}
	changeOrders := make([]ChangeOrder, 0, len(coRecords))
	for _, r := range coRecords {
		changeOrders = append(changeOrders, ChangeOrder{
			Amount:     r.GetFloat("amount"),
			CostImpact: r.GetFloat("cost_impact"),
			Status:     r.GetString("status"),
		})
	}

	exRecords, err := app.FindRecordsByFilter("expenses", filter, "", 0, 0, params)
	if err != nil {
		return ProjectSummary{}, fmt.Errorf("load expenses: %w", err)
	}
	expenses := make([]Expense, 0, len(exRecords))
	for _, r := range exRecords {
		expenses = append(expenses, Expense{
			Category: ParseCategory(r.GetString("category")),
			Amount:   r.GetFloat("amount"),
		})
	}

	revRecords, err := app.FindRecordsByFilter("revenues", filter, "", 0, 0, params)
	if err != nil {
		return ProjectSummary{}, fmt.Errorf("load revenues: %w", err)
	}
	revenues := make([]Revenue, 0, len(revRecords))
	for _, r := range revRecords {
		revenues = append(revenues, Revenue{Amount: r.GetFloat("amount")})
	}

	return CalcProjectSummary(fin, changeOrders, expenses, revenues), nil
}
