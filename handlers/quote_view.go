package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/services"
	"sitecost/templates"
)

// findQuoteRecord loads the quoteId path value and checks it belongs to the
// estimate.
func findQuoteRecord(app *pocketbase.PocketBase, e *core.RequestEvent, estimateID string) (*core.Record, error) {
	rec, err := app.FindRecordById("quotes", e.Request.PathValue("quoteId"))
	if err != nil {
		return nil, err
	}
	if rec.GetString("estimate") != estimateID {
		return nil, errors.New("quote belongs to another estimate")
	}
	return rec, nil
}

func buildQuoteViewData(app *pocketbase.PocketBase, estimate, quoteRec *core.Record) (templates.QuoteViewData, error) {
	q, _, err := services.LoadQuote(app, quoteRec.Id)
	if err != nil {
		return templates.QuoteViewData{}, err
	}

	data := templates.QuoteViewData{
		ProjectID:       estimate.GetString("project"),
		EstimateID:      estimate.Id,
		ID:              q.ID,
		Number:          quoteRec.GetString("number"),
		Vendor:          q.Vendor,
		Status:          q.Status,
		Total:           q.Total,
		CategoryOptions: services.CategoryOptions(),
		UnitOptions:     services.UnitOptions,
		Errors:          make(map[string]string),
	}
	if dt := quoteRec.GetDateTime("valid_until"); !dt.IsZero() {
		data.ValidUntil = formatDate(dt)
	}
	for _, item := range q.LineItems {
		calc := services.CalcLineItem(item)
		data.Items = append(data.Items, templates.QuoteLineRow{
			ID:            item.ID,
			CategoryLabel: item.Category.Label(),
			Description:   item.Description,
			Unit:          item.Unit,
			Quantity:      item.Quantity,
			PricePerUnit:  item.PricePerUnit,
			Total:         calc.Total,
		})
	}
	for _, c := range services.Categories {
		if amount, ok := q.Subtotals[c]; ok {
			data.Subtotals = append(data.Subtotals, templates.CategoryAmount{Label: c.Label(), Amount: amount})
		}
	}
	return data, nil
}

// refreshQuoteTotal stores the sum of the quote's line totals on the quote.
func refreshQuoteTotal(app core.App, quoteRec *core.Record) error {
	q, _, err := services.LoadQuote(app, quoteRec.Id)
	if err != nil {
		return err
	}
	quoteRec.Set("total", q.Total)
	return app.Save(quoteRec)
}

func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		quoteRec, err := findQuoteRecord(app, e, estimate.Id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quote not found")
		}

		data, err := buildQuoteViewData(app, estimate, quoteRec)
		if err != nil {
			app.Logger().Error("quote_view: could not load quote", "quoteId", quoteRec.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}
		return render(e,
			templates.QuoteViewContent(data),
			templates.QuoteViewPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}

func renderQuoteSection(app *pocketbase.PocketBase, e *core.RequestEvent, estimate, quoteRec *core.Record, errs map[string]string) error {
	data, err := buildQuoteViewData(app, estimate, quoteRec)
	if err != nil {
		app.Logger().Error("quote_line_items: could not reload quote", "quoteId", quoteRec.Id, "error", err)
		return ErrorToast(e, http.StatusInternalServerError, genericError)
	}
	if errs != nil {
		data.Errors = errs
	}
	return templates.QuoteLineItemsSection(data).Render(e.Request.Context(), e.Response)
}

// HandleQuoteAddLineItem handles POST .../quotes/{quoteId}/line-items.
func HandleQuoteAddLineItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		quoteRec, err := findQuoteRecord(app, e, estimate.Id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quote not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item, errs := readLineItemForm(e)
		if len(errs) == 0 {
			errs = services.ValidateQuoteLineItem(item)
		}
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return renderQuoteSection(app, e, estimate, quoteRec, errs)
		}

		col, err := app.FindCollectionByNameOrId("quote_line_items")
		if err != nil {
			app.Logger().Error("quote_line_items: could not find collection", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		sortOrder := nextSortOrder(app, "quote_line_items", "quote", quoteRec.Id)
		err = app.RunInTransaction(func(txApp core.App) error {
			record := core.NewRecord(col)
			record.Set("quote", quoteRec.Id)
			record.Set("sort_order", sortOrder)
			services.ApplyLineItemToRecord(record, item)
			if err := txApp.Save(record); err != nil {
				return err
			}
			return refreshQuoteTotal(txApp, quoteRec)
		})
		if err != nil {
			app.Logger().Error("quote_line_items: could not save line item", "quoteId", quoteRec.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Quote line added")
		return renderQuoteSection(app, e, estimate, quoteRec, nil)
	}
}

// HandleQuoteDeleteLineItem handles DELETE .../quotes/{quoteId}/line-items/{itemId}.
func HandleQuoteDeleteLineItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		quoteRec, err := findQuoteRecord(app, e, estimate.Id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quote not found")
		}

		item, err := app.FindRecordById("quote_line_items", e.Request.PathValue("itemId"))
		if err != nil || item.GetString("quote") != quoteRec.Id {
			return ErrorToast(e, http.StatusNotFound, "Line item not found")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Delete(item); err != nil {
				return err
			}
			return refreshQuoteTotal(txApp, quoteRec)
		})
		if err != nil {
			app.Logger().Error("quote_line_items: could not delete line item", "itemId", item.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Quote line deleted")
		return renderQuoteSection(app, e, estimate, quoteRec, nil)
	}
}

// HandleQuoteAccept marks a quote accepted. Any other accepted or pending
// quote for the same estimate is rejected.
func HandleQuoteAccept(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		quoteRec, err := findQuoteRecord(app, e, estimate.Id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quote not found")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			others, err := txApp.FindRecordsByFilter(
				"quotes",
				"estimate = {:estimateId} && id != {:id} && status != {:rejected}",
				"", 0, 0,
				map[string]any{"estimateId": estimate.Id, "id": quoteRec.Id, "rejected": services.QuoteStatusRejected},
			)
			if err != nil {
				return err
			}
			for _, other := range others {
				other.Set("status", services.QuoteStatusRejected)
				if err := txApp.Save(other); err != nil {
					return err
				}
			}
			quoteRec.Set("status", services.QuoteStatusAccepted)
			return txApp.Save(quoteRec)
		})
		if err != nil {
			app.Logger().Error("quote_accept: could not accept quote", "quoteId", quoteRec.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Quote accepted")
		e.Response.Header().Set("HX-Redirect", "/projects/"+estimate.GetString("project")+"/estimates/"+estimate.Id+"/quotes")
		return e.String(http.StatusOK, "")
	}
}
