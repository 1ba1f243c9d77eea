package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sitecost/testhelpers"
)

func TestHandleEstimateExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Export Job")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "Export Bid")
	est.Set("number", "EST-EX-2026-001")
	if err := app.Save(est); err != nil {
		t.Fatalf("save estimate: %v", err)
	}
	testhelpers.CreateTestEstimateLineItem(t, app, est.Id, "materials", "Shingles", 30, 90, 120)

	tests := []struct {
		name        string
		handler     func(*httptest.ResponseRecorder, *http.Request) error
		contentType string
		magic       string
		ext         string
	}{
		{"excel", func(rec *httptest.ResponseRecorder, req *http.Request) error {
			return HandleEstimateExportExcel(app)(newTestRequestEvent(app, req, rec))
		}, xlsxContentType, "PK", ".xlsx"},
		{"pdf", func(rec *httptest.ResponseRecorder, req *http.Request) error {
			return HandleEstimateExportPDF(app)(newTestRequestEvent(app, req, rec))
		}, "application/pdf", "%PDF", ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := estimateRequest(http.MethodGet, project.Id, est.Id, "/export/"+tt.name, nil)
			if err := tt.handler(rec, req); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte(tt.magic)) {
				t.Errorf("body does not start with %q", tt.magic)
			}
			disp := rec.Header().Get("Content-Disposition")
			if !strings.Contains(disp, "EST-EX-2026-001"+tt.ext) {
				t.Errorf("Content-Disposition = %q", disp)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := sanitizeFilename(`Kitchen: "Phase 1/2"`)
	if got != "Kitchen--Phase-1-2" {
		t.Errorf("sanitizeFilename = %q", got)
	}
}

func TestHandleEstimateExport_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")

	rec := httptest.NewRecorder()
	req := estimateRequest(http.MethodGet, project.Id, "missing", "/export/pdf", nil)
	if err := HandleEstimateExportPDF(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
