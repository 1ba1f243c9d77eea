package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/services"
	"sitecost/templates"
)

func buildQuoteListData(app *pocketbase.PocketBase, estimate *core.Record) (templates.QuoteListData, error) {
	data := templates.QuoteListData{
		ProjectID:     estimate.GetString("project"),
		EstimateID:    estimate.Id,
		EstimateTitle: estimate.GetString("title"),
		Errors:        make(map[string]string),
	}

	est, _, err := services.LoadEstimate(app, estimate.Id)
	if err != nil {
		return data, err
	}
	data.EstimateCost = services.CalcEstimateFinancials(est.LineItems).TotalCost

	quotes, err := services.LoadQuotesForEstimate(app, estimate.Id)
	if err != nil {
		return data, err
	}
	numbers := make(map[string]string, len(quotes))
	for _, q := range quotes {
		if rec, err := app.FindRecordById("quotes", q.ID); err == nil {
			numbers[q.ID] = rec.GetString("number")
		}
	}
	for _, rq := range services.RankQuotes(quotes) {
		data.Items = append(data.Items, templates.QuoteListItem{
			ID:        rq.ID,
			Number:    numbers[rq.ID],
			Vendor:    rq.Vendor,
			Status:    rq.Status,
			ItemCount: len(rq.LineItems),
			Total:     rq.Total,
			Rank:      rq.Rank,
			IsBest:    rq.IsBest,
		})
	}

	vendors, err := app.FindRecordsByFilter("vendors", "id != ''", "name", 0, 0)
	if err != nil {
		return data, err
	}
	for _, v := range vendors {
		data.Vendors = append(data.Vendors, services.SelectOption{Value: v.Id, Label: v.GetString("name")})
	}
	return data, nil
}

// HandleQuoteList lists the vendor quotes of an estimate, cheapest first.
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}

		data, err := buildQuoteListData(app, estimate)
		if err != nil {
			app.Logger().Error("quote_list: could not load quotes", "estimateId", estimate.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}
		return render(e,
			templates.QuoteListContent(data),
			templates.QuoteListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}

// HandleQuoteSave creates an empty pending quote for a vendor against the
// estimate. Lines are added on the quote page.
func HandleQuoteSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		errs := make(map[string]string)
		vendorID := formString(e, "vendor")
		if _, err := app.FindRecordById("vendors", vendorID); err != nil {
			errs["vendor"] = "Select a vendor"
		}

		var validUntil time.Time
		if v := formString(e, "valid_until"); v != "" {
			validUntil, err = time.Parse("2006-01-02", v)
			if err != nil {
				errs["valid_until"] = "Invalid date"
			}
		}

		if len(errs) > 0 {
			data, err := buildQuoteListData(app, estimate)
			if err != nil {
				app.Logger().Error("quote_create: could not load quotes", "estimateId", estimate.Id, "error", err)
				return ErrorToast(e, http.StatusInternalServerError, genericError)
			}
			data.Errors = errs
			SetToast(e, "warning", "Please fix the errors below")
			return render(e,
				templates.QuoteListContent(data),
				templates.QuoteListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
			)
		}

		projectID := estimate.GetString("project")
		number, err := services.GenerateDocumentNumber(app, services.DocQuote, projectID, time.Now())
		if err != nil {
			app.Logger().Error("quote_create: could not generate number", "projectId", projectID, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		col, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			app.Logger().Error("quote_create: could not find quotes collection", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		record := core.NewRecord(col)
		record.Set("project", projectID)
		record.Set("estimate", estimate.Id)
		record.Set("vendor", vendorID)
		record.Set("number", number)
		record.Set("status", services.QuoteStatusPending)
		record.Set("total", 0)
		if !validUntil.IsZero() {
			record.Set("valid_until", validUntil)
		}
		if err := app.Save(record); err != nil {
			app.Logger().Error("quote_create: could not save quote", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Quote "+number+" created")
		return redirect(e, "/projects/"+projectID+"/estimates/"+estimate.Id+"/quotes/"+record.Id)
	}
}
