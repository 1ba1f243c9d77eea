package templates

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"sitecost/services"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestLayout_WrapsContentAndSidebar(t *testing.T) {
	header := HeaderData{
		ActiveProject: &ActiveProject{ID: "p1", Name: "Hillside"},
		Projects:      []ProjectSelectorItem{{ID: "p1", Name: "Hillside", IsActive: true}, {ID: "p2", Name: "Lakeview"}},
	}
	sidebar := SidebarData{
		ActiveProject: header.ActiveProject,
		ActivePath:    "/projects/p1/expenses",
		EstimateCount: 2,
		ExpenseCount:  7,
	}
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte(`<p id="inner">hello</p>`))
		return err
	})

	out := renderString(t, Layout("Expenses", header, sidebar, content))
	if strings.Contains(out, `<li class="active"><a href="/projects/p1">`) {
		t.Error("dashboard link should only be active on the dashboard itself")
	}

	for _, want := range []string{
		"<title>Expenses · SiteCost</title>",
		`<main id="main-content"><p id="inner">hello</p></main>`,
		`<li class="active"><a href="/projects/p1/expenses">Expenses <span class="count">7</span>`,
		`hx-post="/projects/p2/activate"`,
		`id="toast-container"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("layout missing %q", want)
		}
	}
}

func TestLayout_NoActiveProject(t *testing.T) {
	out := renderString(t, Layout("Projects", HeaderData{}, SidebarData{ActivePath: "/projects"}, nil))
	if !strings.Contains(out, "No project selected") {
		t.Error("expected empty project selector")
	}
	if strings.Contains(out, "Dashboard") {
		t.Error("project links should be hidden without an active project")
	}
}

func TestVendorListContent_EscapesUserText(t *testing.T) {
	data := VendorListData{
		Items: []VendorItem{{ID: "v1", Name: `<script>alert("x")</script>`, Trade: "materials", QuoteCount: 3}},
		Form:  VendorFormData{Errors: map[string]string{"email": "Email is invalid"}},
	}
	out := renderString(t, VendorListContent(data))

	if strings.Contains(out, "<script>alert") {
		t.Error("vendor name was not escaped")
	}
	for _, want := range []string{"&lt;script&gt;", "Materials", `<td class="num">3</td>`, `<p class="field-error">Email is invalid</p>`} {
		if !strings.Contains(out, want) {
			t.Errorf("vendor list missing %q", want)
		}
	}
}

func TestCompareContent(t *testing.T) {
	cmp := services.QuoteComparison{
		Vendor: "Acme",
		Categories: []services.CategoryVariance{
			{Category: services.CategoryMaterials, EstimateSubtotal: 1000, QuoteSubtotal: 1300, Difference: 300, PercentageDiff: 30},
			{Category: services.CategoryEquipment, EstimateSubtotal: 500, QuoteSubtotal: 400, Difference: -100, PercentageDiff: -20},
		},
		YourTotalCost:       1500,
		VendorQuote:         1700,
		TargetMarginPercent: 20,
		MinimumAcceptable:   1800,
		TotalDifference:     200,
		Recommendation:      services.RecommendAccept,
	}
	out := renderString(t, CompareContent(CompareData{
		ProjectID: "p", EstimateID: "e", EstimateTitle: "Garage", QuoteID: "q",
		HasQuote: true, Comparison: cmp,
	}))

	for _, want := range []string{
		"Acme vs Garage",
		`<td class="num over">`,
		`<td class="num under">`,
		`class="card recommendation accept"`,
		"$1,800.00",
		`href="/projects/p/estimates/e/compare/pdf?quote=q"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("compare missing %q", want)
		}
	}
	if strings.Contains(out, `id="ranking"`) {
		t.Error("ranking table needs more than one quote")
	}
}

func TestCompareContent_NoQuote(t *testing.T) {
	out := renderString(t, CompareContent(CompareData{ProjectID: "p", EstimateID: "e"}))
	if !strings.Contains(out, "No quotes to compare yet") || strings.Contains(out, "variance-table") {
		t.Errorf("unexpected empty state: %s", out)
	}
}

func TestLedgerContent_ColumnsFollowKind(t *testing.T) {
	items := []LedgerItem{{ID: "1", Number: "CO-X-2026-001", Description: "Extra", Amount: 100, Status: "approved", Category: "Materials", InvoiceNumber: "INV-9"}}

	co := renderString(t, LedgerContent(LedgerData{Kind: LedgerChangeOrders, ProjectID: "p", Items: items, StatusOptions: services.ChangeOrderStatusOptions}))
	if !strings.Contains(co, "CO-X-2026-001") || !strings.Contains(co, `name="cost_impact"`) {
		t.Error("change order ledger should show number and cost impact")
	}
	if strings.Contains(co, "INV-9") {
		t.Error("change order ledger should not show invoice numbers")
	}

	rev := renderString(t, LedgerContent(LedgerData{Kind: LedgerRevenues, ProjectID: "p", Items: items}))
	if !strings.Contains(rev, "INV-9") || strings.Contains(rev, "CO-X-2026-001") {
		t.Error("revenue ledger should show invoice numbers only")
	}
	if !strings.Contains(rev, `hx-delete="/projects/p/revenues/1"`) {
		t.Error("missing delete action")
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{0: "0", 12.5: "12.5", 3: "3", 0.3333333: "0.3333"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSelectOptions_MarksSelected(t *testing.T) {
	opts := []services.SelectOption{{Value: "materials", Label: "Materials"}, {Value: "permits", Label: "Permits & Fees"}}
	out := renderString(t, selectOptions(opts, "permits"))

	want := `<option value="materials">Materials</option><option value="permits" selected>Permits &amp; Fees</option>`
	if out != want {
		t.Errorf("selectOptions =\n%s\nwant\n%s", out, want)
	}
}

func TestEstimateLineItemsSection_InlineEdits(t *testing.T) {
	data := EstimateViewData{
		ProjectID: "p", ID: "e",
		Items: []EstimateLineRow{{ID: "l1", CategoryLabel: "Materials", Description: `Tile "A" grade`, Quantity: 2, CostPerUnit: 10, PricePerUnit: 12.5, Total: 25}},
	}
	out := renderString(t, EstimateLineItemsSection(data))

	for _, want := range []string{
		`<section id="line-items-section">`,
		`<tr id="line-item-l1">`,
		`Tile &#34;A&#34; grade`,
		`value="12.5" hx-patch="/projects/p/estimates/e/line-items/l1" hx-vals="{&#34;field&#34;:&#34;price_per_unit&#34;}"`,
		`hx-post="/projects/p/estimates/e/line-items"`,
		`name="cost_per_unit"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("line items section missing %q", want)
		}
	}
}

func TestQuoteLineItemsSection_HasNoCostInputs(t *testing.T) {
	out := renderString(t, QuoteLineItemsSection(QuoteViewData{ProjectID: "p", EstimateID: "e", ID: "q", Total: 99}))
	if strings.Contains(out, `name="cost_per_unit"`) {
		t.Error("quote lines carry no cost")
	}
	if !strings.Contains(out, `hx-post="/projects/p/estimates/e/quotes/q/line-items"`) || !strings.Contains(out, "$99.00") {
		t.Errorf("unexpected quote section: %s", out)
	}
}
