package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/services"
	"sitecost/templates"
)

// readVendorForm reads and validates the vendor fields of a submitted form.
func readVendorForm(e *core.RequestEvent) templates.VendorFormData {
	form := templates.VendorFormData{
		Name:        formString(e, "name"),
		Trade:       formString(e, "trade"),
		ContactName: formString(e, "contact_name"),
		Phone:       formString(e, "phone"),
		Email:       formString(e, "email"),
	}
	form.Errors = services.ValidateVendor(services.VendorForm{
		Name:  form.Name,
		Trade: form.Trade,
		Email: form.Email,
		Phone: form.Phone,
	})
	return form
}

func setVendorFields(record *core.Record, form templates.VendorFormData) {
	record.Set("name", form.Name)
	record.Set("trade", form.Trade)
	record.Set("contact_name", form.ContactName)
	record.Set("phone", form.Phone)
	record.Set("email", form.Email)
}

func renderVendorEdit(e *core.RequestEvent, form templates.VendorFormData) error {
	data := templates.VendorEditData{Form: form, TradeOptions: services.CategoryOptions()}
	return render(e,
		templates.VendorEditContent(data),
		templates.VendorEditPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
	)
}

// HandleVendorEdit renders the edit form of a vendor.
func HandleVendorEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("vendors", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Vendor not found")
		}
		return renderVendorEdit(e, templates.VendorFormData{
			ID:          record.Id,
			Name:        record.GetString("name"),
			Trade:       record.GetString("trade"),
			ContactName: record.GetString("contact_name"),
			Phone:       record.GetString("phone"),
			Email:       record.GetString("email"),
			Errors:      map[string]string{},
		})
	}
}

// HandleVendorUpdate saves an edited vendor and returns to the vendor list.
func HandleVendorUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("vendors", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Vendor not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		form := readVendorForm(e)
		form.ID = record.Id
		if len(form.Errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return renderVendorEdit(e, form)
		}

		setVendorFields(record, form)
		if err := app.Save(record); err != nil {
			app.Logger().Error("vendor_update: could not save vendor", "vendorId", record.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Vendor updated")
		return redirect(e, "/vendors")
	}
}
