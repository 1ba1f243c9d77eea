package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/services"
	"sitecost/templates"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleEstimateImportPage renders the upload form.
// Route: GET /projects/{projectId}/estimates/{id}/import
func HandleEstimateImportPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}

		data := templates.ImportPageData{
			ProjectID:     estimate.GetString("project"),
			EstimateID:    estimate.Id,
			EstimateTitle: estimate.GetString("title"),
		}
		return render(e,
			templates.ImportContent(data),
			templates.ImportPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}

// HandleEstimateImportTemplate downloads the .xlsx import template.
// Route: GET /projects/{projectId}/estimates/{id}/import/template
func HandleEstimateImportTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateImportTemplate()
		if err != nil {
			app.Logger().Error("import_template: could not generate template", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}
		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", `attachment; filename="LineItems_Template.xlsx"`)
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}

// HandleEstimateImportValidate receives a file upload, validates it, and
// returns the validation results as an HTMX partial.
// Route: POST /projects/{projectId}/estimates/{id}/import
func HandleEstimateImportValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}

		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ParseLineItemFile(file, header.Filename)
		if err != nil {
			app.Logger().Warn("import_validate: rejected file", "file", header.Filename, "error", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		data := templates.ImportResultData{
			ProjectID:  estimate.GetString("project"),
			EstimateID: estimate.Id,
			Result:     result,
		}
		if result.ErrorRows > 0 {
			b, err := json.Marshal(result.Errors)
			if err != nil {
				app.Logger().Error("import_validate: marshal errors", "error", err)
			} else {
				data.ErrorsJSON = string(b)
			}
		} else {
			b, err := json.Marshal(result.Items)
			if err != nil {
				app.Logger().Error("import_validate: marshal items", "error", err)
				return ErrorToast(e, http.StatusInternalServerError, genericError)
			}
			data.ItemsJSON = string(b)
			for _, item := range result.Items {
				data.Preview = append(data.Preview, lineRow(item))
			}
		}

		return templates.ImportResult(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleEstimateImportCommit re-validates and batch-inserts the uploaded
// line items.
// Route: POST /projects/{projectId}/estimates/{id}/import/commit
func HandleEstimateImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		itemsJSON := e.Request.FormValue("items_json")
		if itemsJSON == "" {
			return ErrorToast(e, http.StatusBadRequest, "File data missing. Please re-upload and try again.")
		}

		var items []services.LineItem
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid parsed data")
		}
		if len(items) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Nothing to import")
		}
		for i, item := range items {
			if errs := services.ValidateLineItem(item); len(errs) > 0 {
				return ErrorToast(e, http.StatusBadRequest, fmt.Sprintf("Item %d: %s", i+1, firstError(errs)))
			}
		}

		imported, err := services.CommitLineItems(app, estimate.Id, items)
		if err != nil {
			app.Logger().Error("import_commit: could not insert line items", "estimateId", estimate.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", fmt.Sprintf("%d line items imported successfully", imported))
		return templates.ImportSuccess(estimate.GetString("project"), estimate.Id, imported).
			Render(e.Request.Context(), e.Response)
	}
}

// HandleEstimateImportErrors downloads the error report as an Excel file.
// Route: POST /projects/{projectId}/estimates/{id}/import/errors
func HandleEstimateImportErrors(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var errors []services.ValidationError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors_json")), &errors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errors)
		if err != nil {
			app.Logger().Error("import_errors: could not generate report", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		filename := fmt.Sprintf("LineItems_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}
