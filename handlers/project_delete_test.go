package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sitecost/templates"
	"sitecost/testhelpers"
)

func TestHandleProjectDelete_CascadesToEstimatesAndLedgers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Doomed")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "Bid")
	testhelpers.CreateTestEstimateLineItem(t, app, est.Id, "materials", "Lumber", 1, 100, 130)
	vendor := testhelpers.CreateTestVendor(t, app, "Framers Inc")
	testhelpers.CreateTestQuote(t, app, project.Id, est.Id, vendor.Id)
	testhelpers.CreateTestLedgerEntry(t, app, "expenses", project.Id, "Nails", 20, map[string]any{"category": "materials"})

	req := httptest.NewRequest(http.MethodDelete, "/projects/"+project.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()
	if err := HandleProjectDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects")
	if toast := decodeToast(t, rec.Header().Get("HX-Trigger")); toast["message"] != "Deleted Doomed and its 1 estimate" {
		t.Errorf("toast = %v", toast)
	}
	for _, col := range []string{"projects", "estimates", "estimate_line_items", "quotes", "expenses"} {
		if n, _ := app.CountRecords(col); n != 0 {
			t.Errorf("expected %s to be empty, found %d", col, n)
		}
	}
	if n, _ := app.CountRecords("vendors"); n != 1 {
		t.Error("vendors are global and must survive project deletion")
	}
}

func TestHandleProjectDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/projects/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := HandleProjectDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleProjectDelete_ClearsActiveCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Active One")

	req := newRequestWithProject("/projects/"+project.Id, &templates.ActiveProject{ID: project.Id, Name: "Active One"})
	req.Method = http.MethodDelete
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()
	if err := HandleProjectDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == "active_project" && c.MaxAge < 0 {
			return
		}
	}
	t.Error("expected active_project cookie to be cleared")
}
