package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/services"
	"sitecost/templates"
)

func buildVendorListData(app *pocketbase.PocketBase, form templates.VendorFormData) (templates.VendorListData, error) {
	data := templates.VendorListData{
		Form:         form,
		TradeOptions: services.CategoryOptions(),
	}

	records, err := app.FindRecordsByFilter("vendors", "id != ''", "name", 0, 0)
	if err != nil {
		return data, err
	}
	for _, rec := range records {
		data.Items = append(data.Items, templates.VendorItem{
			ID:          rec.Id,
			Name:        rec.GetString("name"),
			Trade:       rec.GetString("trade"),
			ContactName: rec.GetString("contact_name"),
			Phone:       rec.GetString("phone"),
			Email:       rec.GetString("email"),
			QuoteCount:  countRecords(app, "quotes", "vendor", rec.Id),
		})
	}
	return data, nil
}

func HandleVendorList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildVendorListData(app, templates.VendorFormData{Errors: map[string]string{}})
		if err != nil {
			app.Logger().Error("vendor_list: could not query vendors", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}
		return render(e,
			templates.VendorListContent(data),
			templates.VendorListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}

func HandleVendorSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		form := readVendorForm(e)

		if len(form.Errors) > 0 {
			data, err := buildVendorListData(app, form)
			if err != nil {
				app.Logger().Error("vendor_create: could not query vendors", "error", err)
				return ErrorToast(e, http.StatusInternalServerError, genericError)
			}
			SetToast(e, "warning", "Please fix the errors below")
			return render(e,
				templates.VendorListContent(data),
				templates.VendorListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
			)
		}

		col, err := app.FindCollectionByNameOrId("vendors")
		if err != nil {
			app.Logger().Error("vendor_create: could not find vendors collection", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		record := core.NewRecord(col)
		setVendorFields(record, form)
		if err := app.Save(record); err != nil {
			app.Logger().Error("vendor_create: could not save vendor", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Vendor added")
		return redirect(e, "/vendors")
	}
}
