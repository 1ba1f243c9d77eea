package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/config"
	"sitecost/services"
	"sitecost/templates"
)

func buildEstimateListData(app *pocketbase.PocketBase, project *core.Record) (templates.EstimateListData, error) {
	data := templates.EstimateListData{
		ProjectID:   project.Id,
		ProjectName: project.GetString("name"),
	}

	records, err := app.FindRecordsByFilter(
		"estimates",
		"project = {:projectId}",
		"-created", 0, 0,
		map[string]any{"projectId": project.Id},
	)
	if err != nil {
		return data, err
	}

	for _, rec := range records {
		est, _, err := services.LoadEstimate(app, rec.Id)
		if err != nil {
			return data, err
		}
		fin := services.CalcEstimateFinancials(est.LineItems)
		data.Items = append(data.Items, templates.EstimateListItem{
			ID:                 rec.Id,
			Title:              est.Title,
			Number:             rec.GetString("number"),
			Status:             rec.GetString("status"),
			ItemCount:          len(est.LineItems),
			TotalPrice:         fin.TotalPrice,
			GrossMarginPercent: fin.GrossMarginPercent,
			CreatedDate:        formatDate(rec.GetDateTime("created")),
		})
	}
	return data, nil
}

// HandleEstimateList lists a project's estimates with their headline
// figures and the new-estimate form.
func HandleEstimateList(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := findProjectRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		data, err := buildEstimateListData(app, project)
		if err != nil {
			app.Logger().Error("estimate_list: could not load estimates", "projectId", project.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}
		data.Form = templates.EstimateFormData{TargetMarginPercent: cfg.TargetMarginPercent}

		return render(e,
			templates.EstimateListContent(data),
			templates.EstimateListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}

// HandleEstimateSave creates a draft estimate numbered within its project.
func HandleEstimateSave(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := findProjectRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		form := templates.EstimateFormData{
			Title:               formString(e, "title"),
			TargetMarginPercent: cfg.TargetMarginPercent,
			Notes:               formString(e, "notes"),
			Errors:              make(map[string]string),
		}
		target, ok, parseErr := formFloat(e, "target_margin_percent")
		if parseErr != nil {
			form.Errors["target_margin_percent"] = "Target margin must be a number"
		} else if ok {
			form.TargetMarginPercent = target
		}
		for field, msg := range services.ValidateEstimate(services.EstimateForm{
			Title:               form.Title,
			TargetMarginPercent: form.TargetMarginPercent,
		}) {
			form.Errors[field] = msg
		}

		if len(form.Errors) > 0 {
			data, err := buildEstimateListData(app, project)
			if err != nil {
				app.Logger().Error("estimate_create: could not load estimates", "projectId", project.Id, "error", err)
				return ErrorToast(e, http.StatusInternalServerError, genericError)
			}
			data.Form = form
			SetToast(e, "warning", "Please fix the errors below")
			return render(e,
				templates.EstimateListContent(data),
				templates.EstimateListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
			)
		}

		number, err := services.GenerateDocumentNumber(app, services.DocEstimate, project.Id, time.Now())
		if err != nil {
			app.Logger().Error("estimate_create: could not generate number", "projectId", project.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		col, err := app.FindCollectionByNameOrId("estimates")
		if err != nil {
			app.Logger().Error("estimate_create: could not find estimates collection", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		record := core.NewRecord(col)
		record.Set("project", project.Id)
		record.Set("title", form.Title)
		record.Set("number", number)
		record.Set("target_margin_percent", form.TargetMarginPercent)
		record.Set("status", "draft")
		record.Set("notes", form.Notes)
		if err := app.Save(record); err != nil {
			app.Logger().Error("estimate_create: could not save estimate", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Estimate "+number+" created")
		return redirect(e, "/projects/"+project.Id+"/estimates/"+record.Id)
	}
}
