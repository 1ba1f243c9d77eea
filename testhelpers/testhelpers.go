// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestEstimate creates a draft estimate linked to a project and returns it.
func CreateTestEstimate(t *testing.T, app *pocketbase.PocketBase, projectID, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimates")
	if err != nil {
		t.Fatalf("failed to find estimates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("project", projectID)
	record.Set("status", "draft")
	record.Set("target_margin_percent", 20)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate: %v", err)
	}

	return record
}

// CreateTestEstimateLineItem creates an estimate line item with a consistent
// stored total (quantity * price).
func CreateTestEstimateLineItem(t *testing.T, app *pocketbase.PocketBase, estimateID, category, description string, qty, cost, price float64) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId("estimate_line_items")
	if err != nil {
		t.Fatalf("failed to find estimate_line_items collection: %v", err)
	}
	record := core.NewRecord(col)
	record.Set("estimate", estimateID)
	record.Set("category", category)
	record.Set("description", description)
	record.Set("quantity", qty)
	record.Set("unit", "ea")
	record.Set("cost_per_unit", cost)
	record.Set("price_per_unit", price)
	if cost > 0 {
		record.Set("markup_percent", (price-cost)/cost*100)
	}
	record.Set("total", qty*price)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate line item: %v", err)
	}
	return record
}

// CreateTestVendor creates a vendor record with the given name and returns it.
func CreateTestVendor(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("vendors")
	if err != nil {
		t.Fatalf("failed to find vendors collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("trade", "subcontractor")
	record.Set("contact_name", "Test Contact")
	record.Set("phone", "555-0100")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test vendor: %v", err)
	}

	return record
}

// CreateTestQuote creates a pending quote from a vendor against an estimate.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, projectID, estimateID, vendorID string) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}
	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("estimate", estimateID)
	record.Set("vendor", vendorID)
	record.Set("status", "pending")
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}
	return record
}

// CreateTestQuoteLineItem creates a quote line item.
func CreateTestQuoteLineItem(t *testing.T, app *pocketbase.PocketBase, quoteID, category, description string, qty, price float64) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId("quote_line_items")
	if err != nil {
		t.Fatalf("failed to find quote_line_items collection: %v", err)
	}
	record := core.NewRecord(col)
	record.Set("quote", quoteID)
	record.Set("category", category)
	record.Set("description", description)
	record.Set("quantity", qty)
	record.Set("unit", "ls")
	record.Set("price_per_unit", price)
	record.Set("total", qty*price)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote line item: %v", err)
	}
	return record
}

// CreateTestLedgerEntry creates a change order, expense or revenue record.
// extra sets collection-specific fields such as "status" or "category".
func CreateTestLedgerEntry(t *testing.T, app *pocketbase.PocketBase, collection, projectID, description string, amount float64, extra map[string]any) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}
	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("description", description)
	record.Set("amount", amount)
	for k, v := range extra {
		record.Set(k, v)
	}
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}
	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
