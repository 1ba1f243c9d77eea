package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type lineItemDef struct {
	category     string
	description  string
	quantity     float64
	unit         string
	costPerUnit  float64
	pricePerUnit float64
}

type quoteDef struct {
	vendor    string
	number    string
	status    string
	lineItems []lineItemDef
}

type vendorDef struct {
	name        string
	trade       string
	contactName string
	phone       string
	email       string
}

type ledgerDef struct {
	collection  string
	description string
	amount      float64
	date        string
	extra       map[string]any
}

var seedEstimateItems = []lineItemDef{
	{"labor_internal", "Demolition and haul-away", 24, "hr", 45, 65},
	{"labor_internal", "Cabinet installation", 32, "hr", 50, 72},
	{"subcontractor", "Electrical rough-in and fixtures", 1, "ls", 3800, 4750},
	{"subcontractor", "Plumbing relocation", 1, "ls", 2600, 3250},
	{"materials", "Shaker cabinets, painted", 18, "lf", 210, 285},
	{"materials", "Quartz countertop", 42, "sqft", 68, 92},
	{"materials", "Porcelain floor tile", 180, "sqft", 6.5, 9.75},
	{"equipment", "Dumpster rental", 2, "wk", 425, 510},
	{"permits", "Building permit", 1, "ea", 650, 650},
	{"management", "Project supervision", 1, "ls", 1800, 2400},
}

var seedVendors = []vendorDef{
	{"Brightline Electric", "subcontractor", "Dana Ortiz", "555-0141", "dana@brightline.example"},
	{"Cornerstone Builders", "subcontractor", "Sam Whitaker", "555-0188", "bids@cornerstone.example"},
}

var seedQuotes = []quoteDef{
	{
		vendor: "Cornerstone Builders",
		number: "QT-HILL-2026-001",
		status: "pending",
		lineItems: []lineItemDef{
			{"labor_internal", "Demo and install labor", 1, "ls", 0, 3200},
			{"subcontractor", "Electrical and plumbing", 1, "ls", 0, 7100},
			{"materials", "Cabinets, counters and tile", 1, "ls", 0, 8350},
			{"equipment", "Dumpster", 1, "ls", 0, 900},
			{"permits", "Permit", 1, "ea", 0, 650},
		},
	},
	{
		vendor: "Brightline Electric",
		number: "QT-HILL-2026-002",
		status: "pending",
		lineItems: []lineItemDef{
			{"subcontractor", "Electrical rough-in and fixtures", 1, "ls", 0, 4100},
		},
	},
}

// Seed populates the collections with a demo remodel project: one estimate,
// two vendor quotes and a handful of change orders, expenses and revenues.
// It is safe to call on every startup because it returns early if any
// project records already exist.
func Seed(app core.App) error {
	// ── idempotency: skip if projects already exist ──────────────────
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	app.Logger().Info("seed: projects collection is empty, inserting demo data")

	cols := map[string]*core.Collection{}
	for _, name := range []string{
		"estimates", "estimate_line_items", "vendors", "quotes",
		"quote_line_items", "change_orders", "expenses", "revenues",
	} {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return fmt.Errorf("seed: could not find %s collection: %w", name, err)
		}
		cols[name] = col
	}

	// ── helper: create line item ─────────────────────────────────────
	createLineItem := func(colName, parentField, parentID string, sortOrder int, d lineItemDef) error {
		r := core.NewRecord(cols[colName])
		r.Set(parentField, parentID)
		r.Set("sort_order", sortOrder)
		r.Set("category", d.category)
		r.Set("description", d.description)
		r.Set("quantity", d.quantity)
		r.Set("unit", d.unit)
		r.Set("price_per_unit", d.pricePerUnit)
		r.Set("total", d.quantity*d.pricePerUnit)
		if colName == "estimate_line_items" {
			r.Set("cost_per_unit", d.costPerUnit)
			if d.costPerUnit > 0 {
				r.Set("markup_percent", (d.pricePerUnit-d.costPerUnit)/d.costPerUnit*100)
			}
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save %s %q: %w", colName, d.description, err)
		}
		return nil
	}

	// ── project ──────────────────────────────────────────────────────
	project := core.NewRecord(projectsCol)
	project.Set("name", "Hillside Kitchen Remodel")
	project.Set("client_name", "Jordan & Casey Reyes")
	project.Set("reference_number", "HILL")
	project.Set("site_address", "412 Hillside Ave, Portland, OR")
	project.Set("status", "active")
	if err := app.Save(project); err != nil {
		return fmt.Errorf("seed: save project: %w", err)
	}

	// ── estimate ─────────────────────────────────────────────────────
	estimate := core.NewRecord(cols["estimates"])
	estimate.Set("project", project.Id)
	estimate.Set("title", "Kitchen remodel, full scope")
	estimate.Set("number", "EST-HILL-2026-001")
	estimate.Set("target_margin_percent", 20)
	estimate.Set("status", "approved")
	if err := app.Save(estimate); err != nil {
		return fmt.Errorf("seed: save estimate: %w", err)
	}
	for i, d := range seedEstimateItems {
		if err := createLineItem("estimate_line_items", "estimate", estimate.Id, i+1, d); err != nil {
			return err
		}
	}

	// ── vendors ──────────────────────────────────────────────────────
	vendorIDs := map[string]string{}
	for _, d := range seedVendors {
		r := core.NewRecord(cols["vendors"])
		r.Set("name", d.name)
		r.Set("trade", d.trade)
		r.Set("contact_name", d.contactName)
		r.Set("phone", d.phone)
		r.Set("email", d.email)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save vendor %q: %w", d.name, err)
		}
		vendorIDs[d.name] = r.Id
	}

	// ── quotes ───────────────────────────────────────────────────────
	for _, d := range seedQuotes {
		var total float64
		for _, li := range d.lineItems {
			total += li.quantity * li.pricePerUnit
		}
		q := core.NewRecord(cols["quotes"])
		q.Set("project", project.Id)
		q.Set("estimate", estimate.Id)
		q.Set("vendor", vendorIDs[d.vendor])
		q.Set("number", d.number)
		q.Set("status", d.status)
		q.Set("total", total)
		if err := app.Save(q); err != nil {
			return fmt.Errorf("seed: save quote %q: %w", d.number, err)
		}
		for i, li := range d.lineItems {
			if err := createLineItem("quote_line_items", "quote", q.Id, i+1, li); err != nil {
				return err
			}
		}
	}

	// ── change orders, expenses, revenues ────────────────────────────
	ledger := []ledgerDef{
		{"change_orders", "Add pendant lighting over island", 1450, "2026-03-12 00:00:00.000Z",
			map[string]any{"number": "CO-HILL-2026-001", "cost_impact": 1100, "status": "approved"}},
		{"change_orders", "Upgrade to heated floor", 2200, "2026-03-20 00:00:00.000Z",
			map[string]any{"number": "CO-HILL-2026-002", "cost_impact": 1700, "status": "pending"}},
		{"expenses", "Cabinet order deposit", 1900, "2026-03-02 00:00:00.000Z",
			map[string]any{"category": "materials"}},
		{"expenses", "Crew labor week 1", 1620, "2026-03-08 00:00:00.000Z",
			map[string]any{"category": "labor_internal"}},
		{"expenses", "Permit fee", 650, "2026-02-25 00:00:00.000Z",
			map[string]any{"category": "permits"}},
		{"revenues", "Deposit", 8000, "2026-02-20 00:00:00.000Z",
			map[string]any{"invoice_number": "INV-1001"}},
		{"revenues", "Progress billing 1", 6500, "2026-03-15 00:00:00.000Z",
			map[string]any{"invoice_number": "INV-1002"}},
	}
	for _, d := range ledger {
		r := core.NewRecord(cols[d.collection])
		r.Set("project", project.Id)
		r.Set("description", d.description)
		r.Set("amount", d.amount)
		r.Set("date", d.date)
		for k, v := range d.extra {
			r.Set(k, v)
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save %s %q: %w", d.collection, d.description, err)
		}
	}

	app.Logger().Info("seed: demo data inserted", "project", project.Id, "estimate", estimate.Id)
	return nil
}
