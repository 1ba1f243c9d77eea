package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sitecost/services"
	"sitecost/templates"
)

// validationKind maps a ledger collection to the validation rules it uses.
func validationKind(kind templates.LedgerKind) string {
	switch kind.Collection {
	case templates.LedgerChangeOrders.Collection:
		return services.LedgerChangeOrder
	case templates.LedgerExpenses.Collection:
		return services.LedgerExpense
	default:
		return services.LedgerRevenue
	}
}

func buildLedgerData(app *pocketbase.PocketBase, kind templates.LedgerKind, project *core.Record, form templates.LedgerFormData) (templates.LedgerData, error) {
	data := templates.LedgerData{
		ProjectID:       project.Id,
		ProjectName:     project.GetString("name"),
		Kind:            kind,
		Form:            form,
		CategoryOptions: services.CategoryOptions(),
		StatusOptions:   services.ChangeOrderStatusOptions,
	}
	if data.Form.Errors == nil {
		data.Form.Errors = map[string]string{}
	}
	if data.Form.Status == "" {
		data.Form.Status = services.ChangeOrderPending
	}

	records, err := app.FindRecordsByFilter(
		kind.Collection,
		"project = {:projectId}",
		"-date,-created", 0, 0,
		map[string]any{"projectId": project.Id},
	)
	if err != nil {
		return data, err
	}

	vendorNames := make(map[string]string)
	if kind.Collection == templates.LedgerExpenses.Collection {
		vendors, err := app.FindRecordsByFilter("vendors", "id != ''", "name", 0, 0)
		if err != nil {
			return data, err
		}
		for _, v := range vendors {
			vendorNames[v.Id] = v.GetString("name")
			data.Vendors = append(data.Vendors, services.SelectOption{Value: v.Id, Label: v.GetString("name")})
		}
	}

	total := decimal.Zero
	for _, rec := range records {
		item := templates.LedgerItem{
			ID:            rec.Id,
			Number:        rec.GetString("number"),
			Description:   rec.GetString("description"),
			Amount:        rec.GetFloat("amount"),
			CostImpact:    rec.GetFloat("cost_impact"),
			Status:        rec.GetString("status"),
			Vendor:        vendorNames[rec.GetString("vendor")],
			InvoiceNumber: rec.GetString("invoice_number"),
			Date:          formatDate(rec.GetDateTime("date")),
		}
		if c := rec.GetString("category"); c != "" {
			item.Category = services.ParseCategory(c).Label()
		}
		// Only approved change orders count towards the contract.
		if kind.Collection != templates.LedgerChangeOrders.Collection || item.Status == services.ChangeOrderApproved {
			total = total.Add(decimal.NewFromFloat(item.Amount))
		}
		data.Items = append(data.Items, item)
	}
	data.Total = total.InexactFloat64()
	return data, nil
}

func renderLedger(app *pocketbase.PocketBase, e *core.RequestEvent, kind templates.LedgerKind, project *core.Record, form templates.LedgerFormData) error {
	data, err := buildLedgerData(app, kind, project, form)
	if err != nil {
		app.Logger().Error("ledger: could not load entries", "collection", kind.Collection, "projectId", project.Id, "error", err)
		return ErrorToast(e, http.StatusInternalServerError, genericError)
	}
	return render(e,
		templates.LedgerContent(data),
		templates.LedgerPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
	)
}

// HandleLedgerList lists a project's change orders, expenses or revenues.
func HandleLedgerList(app *pocketbase.PocketBase, kind templates.LedgerKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := findProjectRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		return renderLedger(app, e, kind, project, templates.LedgerFormData{})
	}
}

// HandleLedgerSave adds an entry to one of the project ledgers.
func HandleLedgerSave(app *pocketbase.PocketBase, kind templates.LedgerKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := findProjectRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		form := templates.LedgerFormData{
			Description:   formString(e, "description"),
			Amount:        formString(e, "amount"),
			CostImpact:    formString(e, "cost_impact"),
			Category:      formString(e, "category"),
			Status:        formString(e, "status"),
			InvoiceNumber: formString(e, "invoice_number"),
			Date:          formString(e, "date"),
			Errors:        map[string]string{},
		}
		isCO := kind.Collection == templates.LedgerChangeOrders.Collection
		if isCO && form.Status == "" {
			form.Status = services.ChangeOrderPending
		}

		amount, _, err := formFloat(e, "amount")
		if err != nil {
			form.Errors["amount"] = "Amount must be a number"
		}
		costImpact, _, err := formFloat(e, "cost_impact")
		if err != nil {
			form.Errors["cost_impact"] = "Cost impact must be a number"
		}
		var date time.Time
		if form.Date != "" {
			if date, err = time.Parse("2006-01-02", form.Date); err != nil {
				form.Errors["date"] = "Invalid date"
			}
		}
		if len(form.Errors) == 0 {
			form.Errors = services.ValidateLedgerEntry(validationKind(kind), services.LedgerEntry{
				Description: form.Description,
				Amount:      amount,
				Category:    form.Category,
				Status:      form.Status,
			})
		}
		if len(form.Errors) > 0 {
			SetToast(e, "warning", firstError(form.Errors))
			return renderLedger(app, e, kind, project, form)
		}

		col, err := app.FindCollectionByNameOrId(kind.Collection)
		if err != nil {
			app.Logger().Error("ledger: could not find collection", "collection", kind.Collection, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		record := core.NewRecord(col)
		record.Set("project", project.Id)
		record.Set("description", form.Description)
		record.Set("amount", amount)
		if form.Date != "" {
			record.Set("date", date)
		} else {
			record.Set("date", time.Now())
		}
		switch kind.Collection {
		case templates.LedgerChangeOrders.Collection:
			number, err := services.GenerateDocumentNumber(app, services.DocChangeOrder, project.Id, time.Now())
			if err != nil {
				app.Logger().Error("ledger: could not number change order", "projectId", project.Id, "error", err)
				return ErrorToast(e, http.StatusInternalServerError, genericError)
			}
			record.Set("number", number)
			record.Set("cost_impact", costImpact)
			record.Set("status", form.Status)
		case templates.LedgerExpenses.Collection:
			record.Set("category", form.Category)
			if v := formString(e, "vendor"); v != "" {
				if _, err := app.FindRecordById("vendors", v); err == nil {
					record.Set("vendor", v)
				}
			}
		case templates.LedgerRevenues.Collection:
			record.Set("invoice_number", form.InvoiceNumber)
		}

		if err := app.Save(record); err != nil {
			app.Logger().Error("ledger: could not save entry", "collection", kind.Collection, "projectId", project.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		app.Logger().Info("ledger: entry added", "collection", kind.Collection, "id", record.Id, "projectId", project.Id)
		SetToast(e, "success", kind.Singular+" added")
		return renderLedger(app, e, kind, project, templates.LedgerFormData{})
	}
}

// HandleLedgerDelete removes a ledger entry and re-renders the ledger.
func HandleLedgerDelete(app *pocketbase.PocketBase, kind templates.LedgerKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := findProjectRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		record, err := app.FindRecordById(kind.Collection, e.Request.PathValue("entryId"))
		if err != nil || record.GetString("project") != project.Id {
			return ErrorToast(e, http.StatusNotFound, kind.Singular+" not found")
		}
		if err := app.Delete(record); err != nil {
			app.Logger().Error("ledger: could not delete entry", "collection", kind.Collection, "id", record.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}
		SetToast(e, "success", kind.Singular+" deleted")
		return renderLedger(app, e, kind, project, templates.LedgerFormData{})
	}
}
