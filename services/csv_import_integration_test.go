package services_test

import (
	"strings"
	"testing"

	"sitecost/services"
	"sitecost/testhelpers"
)

func TestCommitLineItems_AppendsAfterExisting(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Import")
	est := testhelpers.CreateTestEstimate(t, app, proj.Id, "Scope")
	existing := testhelpers.CreateTestEstimateLineItem(t, app, est.Id, "materials", "Existing", 1, 1, 1)
	existing.Set("sort_order", 4)
	if err := app.Save(existing); err != nil {
		t.Fatalf("save: %v", err)
	}

	result, err := services.ParseLineItemFile(strings.NewReader(
		"Category,Description,Quantity,Cost Per Unit,Price Per Unit\n"+
			"permits,Permit,1,650,650\n"+
			"equipment,Dumpster,2,425,510\n"), "items.csv")
	if err != nil {
		t.Fatalf("ParseLineItemFile() error = %v", err)
	}

	n, err := services.CommitLineItems(app, est.Id, result.Items)
	if err != nil {
		t.Fatalf("CommitLineItems() error = %v", err)
	}
	if n != 2 {
		t.Errorf("created = %d, want 2", n)
	}

	records, _ := app.FindRecordsByFilter("estimate_line_items", "estimate = {:e}", "sort_order", 0, 0,
		map[string]any{"e": est.Id})
	if len(records) != 3 {
		t.Fatalf("expected 3 line items, got %d", len(records))
	}
	if records[1].GetInt("sort_order") != 5 || records[2].GetInt("sort_order") != 6 {
		t.Errorf("sort orders = %d, %d, want 5, 6", records[1].GetInt("sort_order"), records[2].GetInt("sort_order"))
	}
	if records[2].GetFloat("total") != 1020 {
		t.Errorf("dumpster total = %v, want 1020", records[2].GetFloat("total"))
	}
}
