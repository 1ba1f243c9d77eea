package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/templates"
)

func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("projects", "id != ''", "-created", 0, 0)
		if err != nil {
			app.Logger().Error("project_list: could not query projects", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		activeProject := GetActiveProject(e.Request)

		items := make([]templates.ProjectListItem, 0, len(records))
		for _, rec := range records {
			items = append(items, templates.ProjectListItem{
				ID:              rec.Id,
				Name:            rec.GetString("name"),
				ClientName:      rec.GetString("client_name"),
				ReferenceNumber: rec.GetString("reference_number"),
				Status:          rec.GetString("status"),
				EstimateCount:   countRecords(app, "estimates", "project", rec.Id),
				IsActive:        activeProject != nil && activeProject.ID == rec.Id,
				CreatedDate:     formatDate(rec.GetDateTime("created")),
			})
		}

		data := templates.ProjectListData{Items: items}
		return render(e,
			templates.ProjectListContent(data),
			templates.ProjectListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}
