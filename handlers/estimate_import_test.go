package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sitecost/services"
	"sitecost/testhelpers"
)

// uploadRequest builds a multipart upload of content under the "file" field.
func uploadRequest(t *testing.T, projectID, estimateID, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID+"/estimates/"+estimateID+"/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("projectId", projectID)
	req.SetPathValue("id", estimateID)
	return req
}

func TestHandleEstimateImportValidate_ValidCSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")

	csv := "Category,Description,Quantity,Unit,Cost Per Unit,Markup %\n" +
		"Materials,Concrete,12,cy,\"$150.00\",20\n" +
		"Equipment,Mixer rental,2,day,300,10\n"
	rec := httptest.NewRecorder()
	if err := HandleEstimateImportValidate(app)(newTestRequestEvent(app, uploadRequest(t, project.Id, est.Id, "items.csv", csv), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Concrete", "Mixer rental", `name="items_json"`, "Import 2 items")
	if n, _ := app.CountRecords("estimate_line_items"); n != 0 {
		t.Error("validation must not insert anything")
	}
}

func TestHandleEstimateImportValidate_RowErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")

	csv := "Category,Description,Quantity,Cost Per Unit,Price Per Unit\n" +
		"Spaceships,Rocket,1,10,12\n" +
		"Materials,Sand,abc,10,12\n"
	rec := httptest.NewRecorder()
	if err := HandleEstimateImportValidate(app)(newTestRequestEvent(app, uploadRequest(t, project.Id, est.Id, "bad.csv", csv), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Unknown category", "Quantity must be a number", `name="errors_json"`)
}

func TestHandleEstimateImportValidate_RejectsFile(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"wrong extension", "items.txt", "Category,Description\n"},
		{"missing column", "items.csv", "Category,Description,Quantity\nMaterials,Sand,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			project := testhelpers.CreateTestProject(t, app, "P")
			est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")

			rec := httptest.NewRecorder()
			if err := HandleEstimateImportValidate(app)(newTestRequestEvent(app, uploadRequest(t, project.Id, est.Id, tt.file, tt.content), rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleEstimateImportCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")

	items := []services.LineItem{
		{Category: services.CategoryMaterials, Description: "Rebar", Unit: "ton", Quantity: 2, CostPerUnit: 900, PricePerUnit: 1080},
		{Category: services.CategoryPermits, Description: "Building permit", Unit: "ls", Quantity: 1, CostPerUnit: 450, PricePerUnit: 450},
	}
	raw, _ := json.Marshal(items)

	rec := httptest.NewRecorder()
	req := estimateRequest(http.MethodPost, project.Id, est.Id, "/import/commit", url.Values{"items_json": {string(raw)}})
	if err := HandleEstimateImportCommit(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if n, _ := app.CountRecords("estimate_line_items"); n != 2 {
		t.Fatalf("expected 2 imported items, got %d", n)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "2 line items imported") {
		t.Errorf("unexpected toast %q", rec.Header().Get("HX-Trigger"))
	}
}

func TestHandleEstimateImportCommit_RevalidatesItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")

	tampered := `[{"category":"materials","description":"","quantity":1,"cost_per_unit":1,"price_per_unit":1}]`
	for _, payload := range []string{"", "not json", "[]", tampered} {
		rec := httptest.NewRecorder()
		req := estimateRequest(http.MethodPost, project.Id, est.Id, "/import/commit", url.Values{"items_json": {payload}})
		if err := HandleEstimateImportCommit(app)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %q: expected 400, got %d", payload, rec.Code)
		}
	}
	if n, _ := app.CountRecords("estimate_line_items"); n != 0 {
		t.Errorf("expected nothing imported, got %d", n)
	}
}

func TestHandleEstimateImportTemplateAndErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/import/template", nil)
	if err := HandleEstimateImportTemplate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("template handler error: %v", err)
	}
	if rec.Header().Get("Content-Type") != xlsxContentType || !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("expected an xlsx download")
	}

	errs, _ := json.Marshal([]services.ValidationError{{Row: 3, Field: "Quantity", Message: "Quantity must be a number"}})
	rec = httptest.NewRecorder()
	req = newFormRequest(http.MethodPost, "/import/errors", url.Values{"errors_json": {string(errs)}})
	if err := HandleEstimateImportErrors(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("errors handler error: %v", err)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "LineItems_Errors_") {
		t.Errorf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
}
