package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sitecost/templates"
	"sitecost/testhelpers"
)

func TestGetActiveProject_FromContext(t *testing.T) {
	expected := &templates.ActiveProject{ID: "test123", Name: "Test Project"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), ActiveProjectKey, expected)
	req = req.WithContext(ctx)

	got := GetActiveProject(req)
	if got == nil {
		t.Fatal("expected active project, got nil")
	}
	if got.ID != expected.ID {
		t.Errorf("expected ID %q, got %q", expected.ID, got.ID)
	}
}

func TestGetActiveProject_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetActiveProject(req)
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestGetHeaderData_FromContext(t *testing.T) {
	expected := templates.HeaderData{
		ActiveProject: &templates.ActiveProject{ID: "p1", Name: "Proj"},
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), HeaderDataKey, expected)
	req = req.WithContext(ctx)

	got := GetHeaderData(req)
	if got.ActiveProject == nil {
		t.Fatal("expected active project in header data")
	}
	if got.ActiveProject.ID != "p1" {
		t.Errorf("expected ID 'p1', got %q", got.ActiveProject.ID)
	}
}

func TestGetHeaderData_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetHeaderData(req)
	if got.ActiveProject != nil {
		t.Error("expected nil active project")
	}
}

func TestGetSidebarData_FromContext(t *testing.T) {
	expected := templates.SidebarData{
		ActiveProject: &templates.ActiveProject{ID: "p1", Name: "Test"},
		ActivePath:    "/projects",
		EstimateCount: 5,
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), SidebarDataKey, expected)
	req = req.WithContext(ctx)

	got := GetSidebarData(req)
	if got.ActiveProject == nil || got.ActiveProject.ID != "p1" {
		t.Error("expected active project with ID p1")
	}
	if got.EstimateCount != 5 {
		t.Errorf("expected EstimateCount 5, got %d", got.EstimateCount)
	}
}

func TestGetSidebarData_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetSidebarData(req)
	if got.ActiveProject != nil {
		t.Error("expected nil active project in empty sidebar data")
	}
}

func TestActiveProjectMiddleware_NoCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "beta Deck")
	testhelpers.CreateTestProject(t, app, "Alpha Kitchen")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	_ = ActiveProjectMiddleware(app)(e)

	if GetActiveProject(e.Request) != nil {
		t.Error("expected no active project without a cookie")
	}
	header := GetHeaderData(e.Request)
	if len(header.Projects) != 2 {
		t.Fatalf("expected 2 projects in selector, got %d", len(header.Projects))
	}
	if header.Projects[0].Name != "Alpha Kitchen" {
		t.Errorf("expected case-insensitive name order, got %q first", header.Projects[0].Name)
	}
}

func TestActiveProjectMiddleware_WithCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Cookie MW Project")

	middleware := ActiveProjectMiddleware(app)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: project.Id})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	err := middleware(e)
	_ = err

	// After middleware runs, the request context should have the active project
	activeProject := GetActiveProject(e.Request)
	if activeProject == nil {
		t.Fatal("expected active project in context after middleware")
	}
	if activeProject.Name != "Cookie MW Project" {
		t.Errorf("expected 'Cookie MW Project', got %q", activeProject.Name)
	}

	// Header data should also be in context
	headerData := GetHeaderData(e.Request)
	if headerData.ActiveProject == nil {
		t.Error("expected active project in header data")
	}
	if len(headerData.Projects) != 1 || !headerData.Projects[0].IsActive {
		t.Error("expected the cookie project to be flagged active in the selector")
	}
	if GetSidebarData(e.Request).ActiveProject == nil {
		t.Error("expected sidebar data to carry the active project")
	}
}

func TestActiveProjectMiddleware_InvalidCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	middleware := ActiveProjectMiddleware(app)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: "nonexistent_id"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	err := middleware(e)
	_ = err

	// Active project should be nil for invalid cookie
	activeProject := GetActiveProject(e.Request)
	if activeProject != nil {
		t.Error("expected nil active project for invalid cookie")
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "active_project" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the stale cookie to be cleared")
	}
}
