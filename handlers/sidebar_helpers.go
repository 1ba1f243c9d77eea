package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"

	"sitecost/templates"
)

// BuildSidebarData constructs the SidebarData from the current request context.
// It reads the active project from middleware context and counts the
// project's estimates, quotes and ledger entries.
func BuildSidebarData(r *http.Request, app *pocketbase.PocketBase) templates.SidebarData {
	activeProj := GetActiveProject(r)
	data := templates.SidebarData{
		ActiveProject: activeProj,
		ActivePath:    r.URL.Path,
	}
	if activeProj == nil {
		return data
	}

	counts := map[string]*int{
		"estimates":     &data.EstimateCount,
		"quotes":        &data.QuoteCount,
		"change_orders": &data.ChangeOrderCount,
		"expenses":      &data.ExpenseCount,
		"revenues":      &data.RevenueCount,
	}
	for collection, countPtr := range counts {
		*countPtr = countRecords(app, collection, "project", activeProj.ID)
	}

	return data
}
