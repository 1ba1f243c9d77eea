package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleVendorDelete deletes a vendor that has no quotes on any estimate.
// Expenses paid to the vendor keep their amounts and lose the reference.
func HandleVendorDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		vendorID := e.Request.PathValue("id")
		record, err := app.FindRecordById("vendors", vendorID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Vendor not found")
		}

		if quotes := countRecords(app, "quotes", "vendor", vendorID); quotes > 0 {
			app.Logger().Warn("vendor_delete: vendor still quoted", "vendorId", vendorID, "quotes", quotes)
			return ErrorToast(e, http.StatusConflict,
				fmt.Sprintf("Cannot delete %s: remove its %s first", record.GetString("name"), plural(quotes, "quote")))
		}
		expenses := countRecords(app, "expenses", "vendor", vendorID)

		if err := app.Delete(record); err != nil {
			app.Logger().Error("vendor_delete: failed to delete vendor", "vendorId", vendorID, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}
		app.Logger().Info("vendor_delete: deleted vendor", "vendorId", vendorID, "unlinkedExpenses", expenses)

		SetToast(e, "success", "Vendor deleted")
		return redirect(e, "/vendors")
	}
}
