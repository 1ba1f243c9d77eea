package collections_test

import (
	"math"
	"testing"

	"sitecost/collections"
	"sitecost/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

func TestMigrateOrphanEstimates_LinksOrphans(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	estimatesCol, _ := app.FindCollectionByNameOrId("estimates")
	orphan := core.NewRecord(estimatesCol)
	orphan.Set("title", "Garage Conversion")
	orphan.Set("status", "draft")
	if err := app.Save(orphan); err != nil {
		t.Fatalf("failed to create orphan estimate: %v", err)
	}

	if err := collections.MigrateOrphanEstimatesToProjects(app); err != nil {
		t.Fatalf("MigrateOrphanEstimatesToProjects() error: %v", err)
	}

	updated, err := app.FindRecordById("estimates", orphan.Id)
	if err != nil {
		t.Fatalf("failed to find estimate after migration: %v", err)
	}
	projectID := updated.GetString("project")
	if projectID == "" {
		t.Fatal("expected estimate to have a project after migration")
	}

	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		t.Fatalf("linked project not found: %v", err)
	}
	if project.GetString("name") != "Garage Conversion" {
		t.Errorf("project name = %q, want %q", project.GetString("name"), "Garage Conversion")
	}
}

func TestMigrateOrphanEstimates_NoOrphans(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Linked")
	testhelpers.CreateTestEstimate(t, app, proj.Id, "Scope")

	if err := collections.MigrateOrphanEstimatesToProjects(app); err != nil {
		t.Fatalf("MigrateOrphanEstimatesToProjects() error: %v", err)
	}

	projectsCol, _ := app.FindCollectionByNameOrId("projects")
	all, _ := app.FindAllRecords(projectsCol)
	if len(all) != 1 {
		t.Errorf("expected 1 project, got %d", len(all))
	}
}

func TestRepairLineItemTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Drift")
	est := testhelpers.CreateTestEstimate(t, app, proj.Id, "Scope")
	good := testhelpers.CreateTestEstimateLineItem(t, app, est.Id, "materials", "Drywall", 10, 5, 7)
	bad := testhelpers.CreateTestEstimateLineItem(t, app, est.Id, "materials", "Paint", 4, 20, 30)

	bad.Set("total", 999)
	bad.Set("markup_percent", 0)
	if err := app.Save(bad); err != nil {
		t.Fatalf("save drifted item: %v", err)
	}

	repaired, err := collections.RepairLineItemTotals(app)
	if err != nil {
		t.Fatalf("RepairLineItemTotals() error: %v", err)
	}
	if repaired != 1 {
		t.Errorf("repaired = %d, want 1", repaired)
	}

	fixed, _ := app.FindRecordById("estimate_line_items", bad.Id)
	if fixed.GetFloat("total") != 120 {
		t.Errorf("total = %v, want 120", fixed.GetFloat("total"))
	}
	if math.Abs(fixed.GetFloat("markup_percent")-50) > 1e-9 {
		t.Errorf("markup_percent = %v, want 50", fixed.GetFloat("markup_percent"))
	}

	untouched, _ := app.FindRecordById("estimate_line_items", good.Id)
	if untouched.GetFloat("total") != 70 {
		t.Errorf("consistent item total changed to %v", untouched.GetFloat("total"))
	}

	again, _ := collections.RepairLineItemTotals(app)
	if again != 0 {
		t.Errorf("second run repaired %d, want 0", again)
	}
}
