package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/collections"
	"sitecost/commands"
	"sitecost/config"
	"sitecost/handlers"
	"sitecost/services"
	"sitecost/templates"
)

func main() {
	app := pocketbase.New()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: invalid configuration, using defaults: %v", err)
	}
	if err := services.SetCurrencyFormat(cfg.CurrencySymbol, cfg.Locale); err != nil {
		log.Printf("Warning: %v", err)
	}

	app.RootCmd.AddCommand(commands.NewCompareCommand(app))
	app.RootCmd.AddCommand(commands.NewRecalcCommand(app))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if cfg.SeedDemo {
			if err := collections.Seed(app); err != nil {
				app.Logger().Warn("seed data failed", "error", err)
			}
		}
		if err := collections.MigrateOrphanEstimatesToProjects(app); err != nil {
			app.Logger().Warn("project migration failed", "error", err)
		}
		if _, err := collections.RepairLineItemTotals(app); err != nil {
			app.Logger().Warn("line item repair failed", "error", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS(cfg.StaticDir), false))

		// Apply active project middleware globally
		se.Router.BindFunc(handlers.ActiveProjectMiddleware(app))

		// ── Project activation ───────────────────────────────────
		se.Router.POST("/projects/{id}/activate", handlers.HandleProjectActivate(app))
		se.Router.POST("/projects/deactivate", handlers.HandleProjectDeactivate(app))

		// ── Project CRUD ─────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.GET("/projects/create", handlers.HandleProjectCreate(app))
		se.Router.POST("/projects", handlers.HandleProjectSave(app))
		se.Router.GET("/projects/{id}/edit", handlers.HandleProjectEdit(app))
		se.Router.POST("/projects/{id}/save", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app))
		se.Router.GET("/projects/{id}", handlers.HandleProjectView(app, cfg))

		// ── Estimates ────────────────────────────────────────────
		se.Router.GET("/projects/{projectId}/estimates", handlers.HandleEstimateList(app, cfg))
		se.Router.POST("/projects/{projectId}/estimates", handlers.HandleEstimateSave(app, cfg))
		se.Router.POST("/projects/{projectId}/estimates/{id}/status", handlers.HandleEstimateStatus(app))
		se.Router.POST("/projects/{projectId}/estimates/{id}/target-margin", handlers.HandleEstimateTargetMargin(app, cfg))

		// Estimate line items
		se.Router.POST("/projects/{projectId}/estimates/{id}/line-items", handlers.HandleEstimateAddLineItem(app, cfg))
		se.Router.PATCH("/projects/{projectId}/estimates/{id}/line-items/{itemId}", handlers.HandleEstimatePatchLineItem(app, cfg))
		se.Router.DELETE("/projects/{projectId}/estimates/{id}/line-items/{itemId}", handlers.HandleEstimateDeleteLineItem(app, cfg))

		// Estimate import
		se.Router.GET("/projects/{projectId}/estimates/{id}/import", handlers.HandleEstimateImportPage(app))
		se.Router.GET("/projects/{projectId}/estimates/{id}/import/template", handlers.HandleEstimateImportTemplate(app))
		se.Router.POST("/projects/{projectId}/estimates/{id}/import", handlers.HandleEstimateImportValidate(app))
		se.Router.POST("/projects/{projectId}/estimates/{id}/import/commit", handlers.HandleEstimateImportCommit(app))
		se.Router.POST("/projects/{projectId}/estimates/{id}/import/errors", handlers.HandleEstimateImportErrors(app))

		// Estimate export
		se.Router.GET("/projects/{projectId}/estimates/{id}/export/excel", handlers.HandleEstimateExportExcel(app))
		se.Router.GET("/projects/{projectId}/estimates/{id}/export/pdf", handlers.HandleEstimateExportPDF(app))

		// ── Quotes ───────────────────────────────────────────────
		se.Router.GET("/projects/{projectId}/estimates/{id}/quotes", handlers.HandleQuoteList(app))
		se.Router.POST("/projects/{projectId}/estimates/{id}/quotes", handlers.HandleQuoteSave(app))
		se.Router.GET("/projects/{projectId}/estimates/{id}/quotes/{quoteId}", handlers.HandleQuoteView(app))
		se.Router.POST("/projects/{projectId}/estimates/{id}/quotes/{quoteId}/accept", handlers.HandleQuoteAccept(app))
		se.Router.POST("/projects/{projectId}/estimates/{id}/quotes/{quoteId}/line-items", handlers.HandleQuoteAddLineItem(app))
		se.Router.DELETE("/projects/{projectId}/estimates/{id}/quotes/{quoteId}/line-items/{itemId}", handlers.HandleQuoteDeleteLineItem(app))
		se.Router.GET("/projects/{projectId}/estimates/{id}/compare", handlers.HandleQuoteCompare(app))
		se.Router.GET("/projects/{projectId}/estimates/{id}/compare/pdf", handlers.HandleQuoteComparePDF(app))

		// Estimate view and delete (after specific /estimates/{id}/* routes)
		se.Router.GET("/projects/{projectId}/estimates/{id}", handlers.HandleEstimateView(app, cfg))
		se.Router.DELETE("/projects/{projectId}/estimates/{id}", handlers.HandleEstimateDelete(app))

		// ── Change orders, expenses and revenues ─────────────────
		for _, kind := range []templates.LedgerKind{templates.LedgerChangeOrders, templates.LedgerExpenses, templates.LedgerRevenues} {
			base := "/projects/{projectId}/" + kind.Slug
			se.Router.GET(base, handlers.HandleLedgerList(app, kind))
			se.Router.POST(base, handlers.HandleLedgerSave(app, kind))
			se.Router.DELETE(base+"/{entryId}", handlers.HandleLedgerDelete(app, kind))
		}

		// ── Vendors (global) ─────────────────────────────────────
		se.Router.GET("/vendors", handlers.HandleVendorList(app))
		se.Router.POST("/vendors", handlers.HandleVendorSave(app))
		se.Router.GET("/vendors/{id}/edit", handlers.HandleVendorEdit(app))
		se.Router.POST("/vendors/{id}", handlers.HandleVendorUpdate(app))
		se.Router.DELETE("/vendors/{id}", handlers.HandleVendorDelete(app))

		// ── Calculation API ──────────────────────────────────────
		se.Router.POST("/api/calc/line-item", handlers.HandleCalcLineItem())
		se.Router.POST("/api/calc/estimate", handlers.HandleCalcEstimate(cfg))
		se.Router.POST("/api/calc/compare", handlers.HandleCalcCompare())

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
