package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/templates"
)

// HandleProjectDelete deletes a project. Its estimates (with their line
// items and vendor quotes) and its change orders, expenses and revenues go
// with it through cascading relations. Vendors are shared and stay.
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		projectRecord, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		estimates := countRecords(app, "estimates", "project", projectID)
		ledgerEntries := 0
		for _, kind := range []templates.LedgerKind{templates.LedgerChangeOrders, templates.LedgerExpenses, templates.LedgerRevenues} {
			ledgerEntries += countRecords(app, kind.Collection, "project", projectID)
		}

		if err := app.Delete(projectRecord); err != nil {
			app.Logger().Error("project_delete: failed to delete project", "projectId", projectID, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete project")
		}
		app.Logger().Info("project_delete: deleted project",
			"projectId", projectID,
			"name", projectRecord.GetString("name"),
			"estimates", estimates,
			"ledgerEntries", ledgerEntries,
		)

		if active := GetActiveProject(e.Request); active != nil && active.ID == projectID {
			clearActiveProjectCookie(e)
		}

		SetToast(e, "success", "Deleted "+projectRecord.GetString("name")+" and its "+plural(estimates, "estimate"))
		return redirect(e, "/projects")
	}
}
