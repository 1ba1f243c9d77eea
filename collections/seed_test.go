package collections_test

import (
	"testing"

	"sitecost/collections"
	"sitecost/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	projectsCol, _ := app.FindCollectionByNameOrId("projects")
	projects, err := app.FindAllRecords(projectsCol)
	if err != nil {
		t.Fatalf("query projects error: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].GetString("name") != "Hillside Kitchen Remodel" {
		t.Errorf("project name = %q", projects[0].GetString("name"))
	}

	counts := map[string]int{
		"estimates":           1,
		"estimate_line_items": 10,
		"vendors":             2,
		"quotes":              2,
		"quote_line_items":    6,
		"change_orders":       2,
		"expenses":            3,
		"revenues":            2,
	}
	for name, want := range counts {
		col, _ := app.FindCollectionByNameOrId(name)
		records, _ := app.FindAllRecords(col)
		if len(records) != want {
			t.Errorf("%s: expected %d records, got %d", name, want, len(records))
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	col, _ := app.FindCollectionByNameOrId("estimates")
	estimates, _ := app.FindAllRecords(col)
	if len(estimates) != 1 {
		t.Errorf("expected 1 estimate after idempotent seed, got %d", len(estimates))
	}
}

func TestSeed_LineItemTotalsConsistent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	// Seeded totals must already match quantity * price.
	repaired, err := collections.RepairLineItemTotals(app)
	if err != nil {
		t.Fatalf("RepairLineItemTotals() error: %v", err)
	}
	if repaired != 0 {
		t.Errorf("expected seeded line items to be consistent, repaired %d", repaired)
	}

	items, _ := app.FindRecordsByFilter(
		"estimate_line_items",
		"description = {:d}",
		"", 1, 0,
		map[string]any{"d": "Quartz countertop"},
	)
	if len(items) == 0 {
		t.Fatal("countertop line item not found")
	}
	if got := items[0].GetFloat("total"); got != 42*92 {
		t.Errorf("total = %v, want %v", got, 42*92)
	}
}
