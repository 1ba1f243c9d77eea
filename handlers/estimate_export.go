package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/services"
)

// buildExportData loads an estimate and its project name for export.
func buildExportData(app *pocketbase.PocketBase, estimateID string) (services.ExportData, error) {
	est, rec, err := services.LoadEstimate(app, estimateID)
	if err != nil {
		return services.ExportData{}, err
	}

	projectName := ""
	if project, err := app.FindRecordById("projects", rec.GetString("project")); err == nil {
		projectName = project.GetString("name")
	}

	created := time.Now()
	if dt := rec.GetDateTime("created"); !dt.IsZero() {
		created = dt.Time()
	}
	return services.BuildExportData(est, rec.GetString("number"), projectName, created), nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	return strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-", `"`, "").Replace(s)
}

// exportBaseName is the file name stem for an estimate export.
func exportBaseName(data services.ExportData) string {
	if data.Number != "" {
		return sanitizeFilename(data.Number)
	}
	return fmt.Sprintf("Estimate_%s_%d", sanitizeFilename(data.Title), time.Now().Year())
}

// HandleEstimateExportExcel generates and downloads an Excel file for an estimate.
func HandleEstimateExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}

		data, err := buildExportData(app, estimate.Id)
		if err != nil {
			app.Logger().Error("export_excel: could not load estimate", "estimateId", estimate.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			app.Logger().Error("export_excel: could not generate file", "estimateId", estimate.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, exportBaseName(data)))
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}

// HandleEstimateExportPDF generates and downloads a PDF for an estimate.
func HandleEstimateExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}

		data, err := buildExportData(app, estimate.Id)
		if err != nil {
			app.Logger().Error("export_pdf: could not load estimate", "estimateId", estimate.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			app.Logger().Error("export_pdf: could not generate file", "estimateId", estimate.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, exportBaseName(data)))
		_, err = e.Response.Write(pdfBytes)
		return err
	}
}
