package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sitecost/testhelpers"
)

func TestHandleProjectList_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()
	if err := HandleProjectList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(), "No projects yet.", "<html")
}

func TestHandleProjectList_HTMXPartialWithCounts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	alpha := testhelpers.CreateTestProject(t, app, "Alpha Project")
	testhelpers.CreateTestProject(t, app, "Beta <Project>")
	testhelpers.CreateTestEstimate(t, app, alpha.Id, "One")
	testhelpers.CreateTestEstimate(t, app, alpha.Id, "Two")

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleProjectList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("HTMX request should render the partial only")
	}
	testhelpers.AssertHTMLContains(t, body, "Alpha Project", "Beta &lt;Project&gt;", `id="project-`+alpha.Id+`"`)
	if !strings.Contains(body, `<td class="num">2</td>`) {
		t.Error("expected estimate count 2 for Alpha Project")
	}
}
