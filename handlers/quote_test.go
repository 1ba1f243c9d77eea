package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sitecost/testhelpers"
)

// quoteRequest builds an HTMX request for a quote-scoped route.
func quoteRequest(method, projectID, estimateID, quoteID, suffix string, form url.Values) *http.Request {
	req := estimateRequest(method, projectID, estimateID, "/quotes/"+quoteID+suffix, form)
	req.SetPathValue("quoteId", quoteID)
	return req
}

func TestHandleQuoteList_RanksCheapestFirst(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")
	pricey := testhelpers.CreateTestQuote(t, app, project.Id, est.Id, testhelpers.CreateTestVendor(t, app, "Pricey Co").Id)
	cheap := testhelpers.CreateTestQuote(t, app, project.Id, est.Id, testhelpers.CreateTestVendor(t, app, "Cheap Co").Id)
	testhelpers.CreateTestQuoteLineItem(t, app, pricey.Id, "materials", "Stuff", 1, 900)
	testhelpers.CreateTestQuoteLineItem(t, app, cheap.Id, "materials", "Stuff", 1, 500)

	rec := httptest.NewRecorder()
	req := estimateRequest(http.MethodGet, project.Id, est.Id, "/quotes", nil)
	if err := HandleQuoteList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	cheapAt := strings.Index(body, "Cheap Co")
	priceyAt := strings.Index(body, "Pricey Co")
	if cheapAt < 0 || priceyAt < 0 || cheapAt > priceyAt {
		t.Error("expected Cheap Co to be listed before Pricey Co")
	}
	testhelpers.AssertHTMLContains(t, body, `id="quote-`+cheap.Id+`" class="best"`, "$500.00", "$900.00")
}

func TestHandleQuoteSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")
	vendor := testhelpers.CreateTestVendor(t, app, "V")

	rec := httptest.NewRecorder()
	req := estimateRequest(http.MethodPost, project.Id, est.Id, "/quotes", url.Values{"vendor": {vendor.Id}, "valid_until": {"2026-12-31"}})
	if err := HandleQuoteSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	quotes, _ := app.FindRecordsByFilter("quotes", "estimate = {:e}", "", 0, 0, map[string]any{"e": est.Id})
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(quotes))
	}
	q := quotes[0]
	if q.GetString("status") != "pending" || !strings.HasPrefix(q.GetString("number"), "QT-") {
		t.Errorf("unexpected quote: %v", q.FieldsData())
	}
	if q.GetDateTime("valid_until").IsZero() {
		t.Error("expected valid_until to be stored")
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"),
		"/projects/"+project.Id+"/estimates/"+est.Id+"/quotes/"+q.Id)
}

func TestHandleQuoteSave_RequiresVendor(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")
	testhelpers.CreateTestVendor(t, app, "V")

	rec := httptest.NewRecorder()
	req := estimateRequest(http.MethodPost, project.Id, est.Id, "/quotes", url.Values{"vendor": {"nope"}, "valid_until": {"31/12/2026"}})
	if err := HandleQuoteSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Select a vendor")
	if n, _ := app.CountRecords("quotes"); n != 0 {
		t.Errorf("expected no quotes, got %d", n)
	}
}

func TestHandleQuoteLineItems_UpdateStoredTotal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")
	quote := testhelpers.CreateTestQuote(t, app, project.Id, est.Id, testhelpers.CreateTestVendor(t, app, "V").Id)

	add := func(desc, qty, price string) {
		t.Helper()
		rec := httptest.NewRecorder()
		form := url.Values{"category": {"materials"}, "description": {desc}, "quantity": {qty}, "price_per_unit": {price}}
		req := quoteRequest(http.MethodPost, project.Id, est.Id, quote.Id, "/line-items", form)
		if err := HandleQuoteAddLineItem(app)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		testhelpers.AssertHTMLContains(t, rec.Body.String(), desc, `id="quote-subtotals"`)
	}
	add("Lumber", "4", "250")
	add("Hardware", "1", "80.50")

	if got := reloadFloat(t, app, "quotes", quote.Id, "total"); got != 1080.5 {
		t.Errorf("quote total = %v, want 1080.5", got)
	}

	items, _ := app.FindRecordsByFilter("quote_line_items", "description = 'Lumber'", "", 1, 0)
	if len(items) != 1 {
		t.Fatal("expected Lumber line")
	}
	rec := httptest.NewRecorder()
	req := quoteRequest(http.MethodDelete, project.Id, est.Id, quote.Id, "/line-items/"+items[0].Id, nil)
	req.SetPathValue("itemId", items[0].Id)
	if err := HandleQuoteDeleteLineItem(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := reloadFloat(t, app, "quotes", quote.Id, "total"); got != 80.5 {
		t.Errorf("quote total after delete = %v, want 80.5", got)
	}
}

func TestHandleQuoteAddLineItem_Invalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")
	quote := testhelpers.CreateTestQuote(t, app, project.Id, est.Id, testhelpers.CreateTestVendor(t, app, "V").Id)

	rec := httptest.NewRecorder()
	form := url.Values{"category": {"materials"}, "description": {""}, "quantity": {"1"}, "price_per_unit": {"10"}}
	req := quoteRequest(http.MethodPost, project.Id, est.Id, quote.Id, "/line-items", form)
	if err := HandleQuoteAddLineItem(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Description is required")
	if n, _ := app.CountRecords("quote_line_items"); n != 0 {
		t.Errorf("expected no lines, got %d", n)
	}
}

func TestHandleQuoteView(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")
	quote := testhelpers.CreateTestQuote(t, app, project.Id, est.Id, testhelpers.CreateTestVendor(t, app, "Viewable Vendor").Id)
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, "equipment", "Crane", 1, 1500)
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, "materials", "Steel", 2, 1000)

	rec := httptest.NewRecorder()
	req := quoteRequest(http.MethodGet, project.Id, est.Id, quote.Id, "", nil)
	if err := HandleQuoteView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Viewable Vendor", "Crane", "Steel", "$3,500.00")
	// Subtotals follow category order, so Materials comes before Equipment.
	sub := body[strings.Index(body, `id="quote-subtotals"`):]
	if strings.Index(sub, "Materials") > strings.Index(sub, "Equipment") {
		t.Error("expected subtotals in category order")
	}
}

func TestHandleQuoteView_WrongEstimate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")
	other := testhelpers.CreateTestEstimate(t, app, project.Id, "Other")
	quote := testhelpers.CreateTestQuote(t, app, project.Id, other.Id, testhelpers.CreateTestVendor(t, app, "V").Id)

	rec := httptest.NewRecorder()
	req := quoteRequest(http.MethodGet, project.Id, est.Id, quote.Id, "", nil)
	if err := HandleQuoteView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleQuoteAccept_RejectsCompetitors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "P")
	est := testhelpers.CreateTestEstimate(t, app, project.Id, "E")
	otherEst := testhelpers.CreateTestEstimate(t, app, project.Id, "Other")
	winner := testhelpers.CreateTestQuote(t, app, project.Id, est.Id, testhelpers.CreateTestVendor(t, app, "Winner").Id)
	loser := testhelpers.CreateTestQuote(t, app, project.Id, est.Id, testhelpers.CreateTestVendor(t, app, "Loser").Id)
	unrelated := testhelpers.CreateTestQuote(t, app, project.Id, otherEst.Id, testhelpers.CreateTestVendor(t, app, "Elsewhere").Id)

	rec := httptest.NewRecorder()
	req := quoteRequest(http.MethodPost, project.Id, est.Id, winner.Id, "/accept", nil)
	if err := HandleQuoteAccept(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	status := func(id string) string {
		r, _ := app.FindRecordById("quotes", id)
		return r.GetString("status")
	}
	if status(winner.Id) != "accepted" || status(loser.Id) != "rejected" || status(unrelated.Id) != "pending" {
		t.Errorf("statuses = %s/%s/%s, want accepted/rejected/pending",
			status(winner.Id), status(loser.Id), status(unrelated.Id))
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id+"/estimates/"+est.Id+"/quotes")
}
