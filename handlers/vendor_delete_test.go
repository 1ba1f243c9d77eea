package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sitecost/testhelpers"
)

func TestHandleVendorDelete_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	vendor := testhelpers.CreateTestVendor(t, app, "Gone Soon")

	req := httptest.NewRequest(http.MethodDelete, "/vendors/"+vendor.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", vendor.Id)
	rec := httptest.NewRecorder()
	if err := HandleVendorDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/vendors")
	if _, err := app.FindRecordById("vendors", vendor.Id); err == nil {
		t.Error("expected vendor to be deleted")
	}
}

func TestHandleVendorDelete_RefusedWithQuotes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Job")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "Bid")
	vendor := testhelpers.CreateTestVendor(t, app, "Quoted Vendor")
	testhelpers.CreateTestQuote(t, app, project.Id, est.Id, vendor.Id)

	req := httptest.NewRequest(http.MethodDelete, "/vendors/"+vendor.Id, nil)
	req.SetPathValue("id", vendor.Id)
	rec := httptest.NewRecorder()
	if err := HandleVendorDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	toast := decodeToast(t, rec.Header().Get("HX-Trigger"))
	if toast["message"] != "Cannot delete Quoted Vendor: remove its 1 quote first" {
		t.Errorf("toast = %v", toast)
	}
	if _, err := app.FindRecordById("vendors", vendor.Id); err != nil {
		t.Error("vendor with quotes must not be deleted")
	}
}

func TestHandleVendorDelete_KeepsExpenses(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Job")
	vendor := testhelpers.CreateTestVendor(t, app, "Lumber Yard")
	expense := testhelpers.CreateTestLedgerEntry(t, app, "expenses", project.Id, "Studs", 320,
		map[string]any{"category": "materials", "vendor": vendor.Id})

	req := httptest.NewRequest(http.MethodDelete, "/vendors/"+vendor.Id, nil)
	req.SetPathValue("id", vendor.Id)
	rec := httptest.NewRecorder()
	if err := HandleVendorDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	got, err := app.FindRecordById("expenses", expense.Id)
	if err != nil {
		t.Fatalf("expense should survive vendor deletion: %v", err)
	}
	if got.GetFloat("amount") != 320 || got.GetString("vendor") != "" {
		t.Errorf("expense amount = %v, vendor = %q", got.GetFloat("amount"), got.GetString("vendor"))
	}
}

func TestHandleVendorDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/vendors/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := HandleVendorDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
