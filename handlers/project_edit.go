package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/services"
	"sitecost/templates"
)

func HandleProjectEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		data := templates.ProjectFormData{
			ID:              projectID,
			Name:            record.GetString("name"),
			ClientName:      record.GetString("client_name"),
			ReferenceNumber: record.GetString("reference_number"),
			SiteAddress:     record.GetString("site_address"),
			Status:          record.GetString("status"),
			StatusOptions:   services.ProjectStatusOptions,
			Errors:          make(map[string]string),
		}
		return render(e,
			templates.ProjectFormContent(data),
			templates.ProjectFormPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}

func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		data := readProjectForm(app, e, projectID)
		if len(data.Errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return render(e,
				templates.ProjectFormContent(data),
				templates.ProjectFormPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
			)
		}

		applyProjectForm(record, data)
		if err := app.Save(record); err != nil {
			app.Logger().Error("project_edit: could not update project", "projectId", projectID, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Project updated")
		return redirect(e, "/projects/"+projectID)
	}
}
