package handlers

import (
	"net/http"
	"slices"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/config"
	"sitecost/services"
	"sitecost/templates"
)

func lineRow(item services.LineItem) templates.EstimateLineRow {
	calc := services.CalcLineItem(item)
	return templates.EstimateLineRow{
		ID:            item.ID,
		Category:      string(item.Category),
		CategoryLabel: item.Category.Label(),
		Description:   item.Description,
		Unit:          item.Unit,
		Quantity:      item.Quantity,
		CostPerUnit:   item.CostPerUnit,
		PricePerUnit:  item.PricePerUnit,
		MarkupPercent: calc.MarkupPercent,
		MarkupAmount:  calc.MarkupAmount,
		TotalCost:     calc.TotalCost,
		Total:         calc.Total,
	}
}

// buildEstimateViewData loads an estimate with its line items and derived
// financials.
func buildEstimateViewData(app *pocketbase.PocketBase, cfg config.Config, projectID, estimateID string) (templates.EstimateViewData, error) {
	est, rec, err := services.LoadEstimate(app, estimateID)
	if err != nil {
		return templates.EstimateViewData{}, err
	}

	fin := services.CalcEstimateFinancials(est.LineItems)
	data := templates.EstimateViewData{
		ProjectID:           projectID,
		ID:                  est.ID,
		Title:               est.Title,
		Number:              rec.GetString("number"),
		Status:              rec.GetString("status"),
		Notes:               rec.GetString("notes"),
		TargetMarginPercent: est.EffectiveTargetMargin(),
		CreatedDate:         formatDate(rec.GetDateTime("created")),
		QuoteCount:          countRecords(app, "quotes", "estimate", est.ID),
		Financials:          fin,
		Performance:         services.ClassifyMargin(fin.GrossMarginPercent, marginThresholds(cfg)),
		CategoryOptions:     services.CategoryOptions(),
		UnitOptions:         services.UnitOptions,
		StatusOptions:       services.EstimateStatusOptions,
		Errors:              make(map[string]string),
	}
	for _, item := range est.LineItems {
		data.Items = append(data.Items, lineRow(item))
	}
	return data, nil
}

func HandleEstimateView(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}

		data, err := buildEstimateViewData(app, cfg, rec.GetString("project"), rec.Id)
		if err != nil {
			app.Logger().Error("estimate_view: could not load estimate", "estimateId", rec.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		return render(e,
			templates.EstimateViewContent(data),
			templates.EstimateViewPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}

// HandleEstimateDelete removes an estimate with its line items and quotes.
func HandleEstimateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}

		if err := app.Delete(rec); err != nil {
			app.Logger().Error("estimate_delete: could not delete estimate", "estimateId", rec.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Estimate deleted")
		if isHTMX(e) {
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/projects/"+e.Request.PathValue("projectId")+"/estimates")
	}
}

// HandleEstimateStatus moves an estimate between draft, sent, approved and
// rejected. Approving one estimate returns any other approved estimate of the
// project to sent, so a project has at most one approved estimate.
func HandleEstimateStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		status := formString(e, "status")
		if !slices.Contains(services.EstimateStatusOptions, status) {
			return ErrorToast(e, http.StatusBadRequest, "Invalid status")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			if status == "approved" {
				others, err := txApp.FindRecordsByFilter(
					"estimates",
					"project = {:projectId} && status = 'approved' && id != {:id}",
					"", 0, 0,
					map[string]any{"projectId": rec.GetString("project"), "id": rec.Id},
				)
				if err != nil {
					return err
				}
				for _, other := range others {
					other.Set("status", "sent")
					if err := txApp.Save(other); err != nil {
						return err
					}
				}
			}
			rec.Set("status", status)
			return txApp.Save(rec)
		})
		if err != nil {
			app.Logger().Error("estimate_status: could not update status", "estimateId", rec.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Estimate marked "+status)
		return e.String(http.StatusOK, "")
	}
}

// HandleEstimateTargetMargin updates the target margin and re-renders the
// line item section, whose summary shows it.
func HandleEstimateTargetMargin(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		target, ok, err := formFloat(e, "target_margin_percent")
		if err != nil || !ok {
			return ErrorToast(e, http.StatusBadRequest, "Target margin must be a number")
		}
		errs := services.ValidateEstimate(services.EstimateForm{Title: rec.GetString("title"), TargetMarginPercent: target})
		if msg, bad := errs["target_margin_percent"]; bad {
			return ErrorToast(e, http.StatusBadRequest, msg)
		}

		rec.Set("target_margin_percent", target)
		if err := app.Save(rec); err != nil {
			app.Logger().Error("estimate_target_margin: could not save", "estimateId", rec.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		data, err := buildEstimateViewData(app, cfg, rec.GetString("project"), rec.Id)
		if err != nil {
			app.Logger().Error("estimate_target_margin: could not reload estimate", "estimateId", rec.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}
		SetToast(e, "success", "Target margin updated")
		return templates.EstimateLineItemsSection(data).Render(e.Request.Context(), e.Response)
	}
}
