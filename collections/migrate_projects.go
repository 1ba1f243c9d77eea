package collections

import (
	"fmt"
	"math"

	"github.com/pocketbase/pocketbase/core"
)

// MigrateOrphanEstimatesToProjects finds all estimate records that have no
// project assigned and creates a project for each one, linking them together.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateOrphanEstimatesToProjects(app core.App) error {
	estimatesCol, err := app.FindCollectionByNameOrId("estimates")
	if err != nil {
		return fmt.Errorf("migrate: could not find estimates collection: %w", err)
	}

	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("migrate: could not find projects collection: %w", err)
	}

	orphans, err := app.FindRecordsByFilter(
		estimatesCol,
		"project = ''",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query orphan estimates: %w", err)
	}

	if len(orphans) == 0 {
		return nil
	}

	app.Logger().Info("migrate: found orphan estimates without a project", "count", len(orphans))

	for _, est := range orphans {
		title := est.GetString("title")

		projectRecord := core.NewRecord(projectsCol)
		projectRecord.Set("name", title)
		projectRecord.Set("status", "bidding")

		if err := app.Save(projectRecord); err != nil {
			app.Logger().Warn("migrate: failed to create project for estimate",
				"estimate", est.Id, "title", title, "error", err)
			continue
		}

		est.Set("project", projectRecord.Id)
		if err := app.Save(est); err != nil {
			app.Logger().Warn("migrate: failed to link estimate to project",
				"estimate", est.Id, "project", projectRecord.Id, "error", err)
			continue
		}

		app.Logger().Info("migrate: estimate linked to new project",
			"estimate", est.Id, "project", projectRecord.Id)
	}

	return nil
}

// lineItemCollections are the collections whose stored total is derived
// from quantity * price_per_unit.
var lineItemCollections = []string{"estimate_line_items", "quote_line_items"}

// RepairLineItemTotals rewrites the stored total (and, for estimate items,
// markup_percent) of every line item whose stored value drifted from the one
// derived from quantity, cost and price. It returns the number of repaired
// records.
func RepairLineItemTotals(app core.App) (int, error) {
	repaired := 0
	for _, name := range lineItemCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return repaired, fmt.Errorf("migrate: could not find %s collection: %w", name, err)
		}
		records, err := app.FindAllRecords(col)
		if err != nil {
			return repaired, fmt.Errorf("migrate: could not query %s: %w", name, err)
		}

		for _, r := range records {
			qty := r.GetFloat("quantity")
			price := r.GetFloat("price_per_unit")
			wantTotal := qty * price

			dirty := !centsEqual(r.GetFloat("total"), wantTotal)
			r.Set("total", wantTotal)

			if col.Fields.GetByName("markup_percent") != nil {
				cost := r.GetFloat("cost_per_unit")
				var wantMarkup float64
				if cost > 0 {
					wantMarkup = (price - cost) / cost * 100
				}
				if math.Abs(r.GetFloat("markup_percent")-wantMarkup) > 1e-6 {
					dirty = true
				}
				r.Set("markup_percent", wantMarkup)
			}

			if !dirty {
				continue
			}
			if err := app.Save(r); err != nil {
				app.Logger().Warn("migrate: failed to repair line item",
					"collection", name, "id", r.Id, "error", err)
				continue
			}
			repaired++
		}
	}

	if repaired > 0 {
		app.Logger().Info("migrate: repaired line item totals", "count", repaired)
	}
	return repaired, nil
}

func centsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
