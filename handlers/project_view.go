package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/config"
	"sitecost/services"
	"sitecost/templates"
)

// HandleProjectView renders the project dashboard: the selected estimate's
// financials and the job-to-date money summary.
func HandleProjectView(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		summary, err := services.LoadProjectSummary(app, projectID)
		if err != nil {
			app.Logger().Error("project_view: could not load summary", "projectId", projectID, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		data := templates.ProjectDashboardData{
			ID:              projectID,
			Name:            record.GetString("name"),
			ClientName:      record.GetString("client_name"),
			ReferenceNumber: record.GetString("reference_number"),
			SiteAddress:     record.GetString("site_address"),
			Status:          record.GetString("status"),
			CreatedDate:     formatDate(record.GetDateTime("created")),
			Summary:         summary,
		}

		if estRec, ok := services.SelectProjectEstimate(app, projectID); ok {
			est, _, err := services.LoadEstimate(app, estRec.Id)
			if err != nil {
				app.Logger().Error("project_view: could not load estimate", "estimateId", estRec.Id, "error", err)
				return ErrorToast(e, http.StatusInternalServerError, genericError)
			}
			data.HasEstimate = true
			data.EstimateID = est.ID
			data.EstimateTitle = est.Title
			data.TargetMarginPercent = est.EffectiveTargetMargin()
			data.Financials = services.CalcEstimateFinancials(est.LineItems)
			data.Performance = services.ClassifyMargin(data.Financials.GrossMarginPercent, marginThresholds(cfg))
		}

		return render(e,
			templates.ProjectDashboardContent(data),
			templates.ProjectDashboardPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}
