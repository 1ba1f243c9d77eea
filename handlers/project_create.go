package handlers

import (
	"net/http"
	"slices"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/services"
	"sitecost/templates"
)

func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.ProjectFormData{
			Status:        "bidding",
			StatusOptions: services.ProjectStatusOptions,
			Errors:        make(map[string]string),
		}
		return templates.ProjectFormPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)).
			Render(e.Request.Context(), e.Response)
	}
}

// readProjectForm reads and validates the project form. excludeID skips the
// project being edited in the duplicate name check.
func readProjectForm(app *pocketbase.PocketBase, e *core.RequestEvent, excludeID string) templates.ProjectFormData {
	data := templates.ProjectFormData{
		ID:              excludeID,
		Name:            formString(e, "name"),
		ClientName:      formString(e, "client_name"),
		ReferenceNumber: formString(e, "reference_number"),
		SiteAddress:     formString(e, "site_address"),
		Status:          formString(e, "status"),
		StatusOptions:   services.ProjectStatusOptions,
		Errors:          make(map[string]string),
	}

	if data.Name == "" {
		data.Errors["name"] = "Project name is required"
	}
	if !slices.Contains(services.ProjectStatusOptions, data.Status) {
		data.Status = "bidding"
	}

	if data.Name != "" {
		existing, _ := app.FindRecordsByFilter(
			"projects",
			"name = {:name} && id != {:id}",
			"", 1, 0,
			map[string]any{"name": data.Name, "id": excludeID},
		)
		if len(existing) > 0 {
			data.Errors["name"] = "A project with this name already exists"
		}
	}
	return data
}

func applyProjectForm(record *core.Record, data templates.ProjectFormData) {
	record.Set("name", data.Name)
	record.Set("client_name", data.ClientName)
	record.Set("reference_number", data.ReferenceNumber)
	record.Set("site_address", data.SiteAddress)
	record.Set("status", data.Status)
}

func HandleProjectSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		data := readProjectForm(app, e, "")
		if len(data.Errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return render(e,
				templates.ProjectFormContent(data),
				templates.ProjectFormPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
			)
		}

		projectsCol, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			app.Logger().Error("project_create: could not find projects collection", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		record := core.NewRecord(projectsCol)
		applyProjectForm(record, data)
		if err := app.Save(record); err != nil {
			app.Logger().Error("project_create: could not save project", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Project created successfully")
		return redirect(e, "/projects")
	}
}
