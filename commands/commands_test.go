package commands

import (
	"bytes"
	"strings"
	"testing"

	"sitecost/testhelpers"
)

func TestCompareCommand_PrintsVarianceAndRecommendation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Kitchen Remodel")
	estimate := testhelpers.CreateTestEstimate(t, app, project.Id, "Base bid")
	testhelpers.CreateTestEstimateLineItem(t, app, estimate.Id, "materials", "Cabinets", 10, 100, 120)
	testhelpers.CreateTestEstimateLineItem(t, app, estimate.Id, "labor_internal", "Install", 1, 500, 700)

	vendor := testhelpers.CreateTestVendor(t, app, "Acme Builders")
	quote := testhelpers.CreateTestQuote(t, app, project.Id, estimate.Id, vendor.Id)
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, "materials", "Cabinets", 1, 1100)
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, "labor_internal", "Install", 1, 300)

	cmd := NewCompareCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{estimate.Id, quote.Id})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Acme Builders vs Base bid",
		"Materials",
		"Internal Labor",
		"$1,500.00",
		"$1,400.00",
		"Recommendation: ACCEPT",
		"$1,800.00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCompareCommand_RejectsForeignQuote(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Deck")
	first := testhelpers.CreateTestEstimate(t, app, project.Id, "Option A")
	second := testhelpers.CreateTestEstimate(t, app, project.Id, "Option B")
	vendor := testhelpers.CreateTestVendor(t, app, "Deck Co")
	quote := testhelpers.CreateTestQuote(t, app, project.Id, second.Id, vendor.Id)

	cmd := NewCompareCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{first.Id, quote.Id})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a quote on another estimate")
	}
}

func TestCompareCommand_RequiresTwoArgs(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cmd := NewCompareCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"only-one"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestRecalcCommand_RepairsDriftedTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Bath")
	estimate := testhelpers.CreateTestEstimate(t, app, project.Id, "Bid")
	item := testhelpers.CreateTestEstimateLineItem(t, app, estimate.Id, "materials", "Tile", 4, 10, 15)

	item.Set("total", 999)
	if err := app.Save(item); err != nil {
		t.Fatalf("save drifted item: %v", err)
	}

	cmd := NewRecalcCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("recalc failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 line items updated") {
		t.Errorf("unexpected output %q", out.String())
	}

	reloaded, err := app.FindRecordById("estimate_line_items", item.Id)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.GetFloat("total"); got != 60 {
		t.Errorf("total = %v, want 60", got)
	}
}
