package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectActivate selects a project for the session and opens its
// dashboard. The full page reloads so the header and sidebar pick it up.
func HandleProjectActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		setActiveProjectCookie(e, project.Id)
		SetToast(e, "success", "Working on "+project.GetString("name"))
		return redirect(e, "/projects/"+project.Id)
	}
}

// HandleProjectDeactivate clears the selected project.
func HandleProjectDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clearActiveProjectCookie(e)
		SetToast(e, "success", "No project selected")
		return redirect(e, "/projects")
	}
}
