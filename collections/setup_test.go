package collections_test

import (
	"testing"

	"sitecost/collections"
	"sitecost/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"projects",
	"vendors",
	"estimates",
	"estimate_line_items",
	"quotes",
	"quote_line_items",
	"change_orders",
	"expenses",
	"revenues",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_LineItemFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		collection string
		fields     []string
	}{
		{"estimate_line_items", []string{"estimate", "sort_order", "category", "description", "quantity", "unit", "cost_per_unit", "price_per_unit", "markup_percent", "total"}},
		{"quote_line_items", []string{"quote", "sort_order", "category", "description", "quantity", "unit", "price_per_unit", "total"}},
		{"estimates", []string{"project", "title", "number", "target_margin_percent", "status"}},
		{"change_orders", []string{"project", "description", "amount", "cost_impact", "status", "number", "date"}},
		{"expenses", []string{"project", "description", "amount", "category", "vendor", "date"}},
		{"revenues", []string{"project", "description", "amount", "date"}},
	}
	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			col, err := app.FindCollectionByNameOrId(tt.collection)
			if err != nil {
				t.Fatalf("collection not found: %v", err)
			}
			for _, f := range tt.fields {
				if col.Fields.GetByName(f) == nil {
					t.Errorf("%s: missing field %q", tt.collection, f)
				}
			}
		})
	}
}

func TestSetup_CategorySelectValues(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("estimate_line_items")

	field, ok := col.Fields.GetByName("category").(*core.SelectField)
	if !ok {
		t.Fatal("category is not a select field")
	}
	if len(field.Values) != len(collections.CategoryValues) {
		t.Errorf("category values = %v, want %v", field.Values, collections.CategoryValues)
	}
}

func TestSetup_LineItemsCascadeWithEstimate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Cascade")
	est := testhelpers.CreateTestEstimate(t, app, proj.Id, "Scope")
	item := testhelpers.CreateTestEstimateLineItem(t, app, est.Id, "materials", "Lumber", 10, 5, 7)

	if err := app.Delete(est); err != nil {
		t.Fatalf("delete estimate: %v", err)
	}
	if _, err := app.FindRecordById("estimate_line_items", item.Id); err == nil {
		t.Error("expected line item to be deleted with its estimate")
	}
}
