package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/config"
	"sitecost/services"
	"sitecost/templates"
)

// nextSortOrder returns the sort_order for a new line item appended to the
// parent record.
func nextSortOrder(app *pocketbase.PocketBase, collection, parentField, parentID string) int {
	existing, err := app.FindRecordsByFilter(
		collection,
		parentField+" = {:parentId}",
		"-sort_order",
		1,
		0,
		map[string]any{"parentId": parentID},
	)
	if err != nil || len(existing) == 0 {
		return 1
	}
	return existing[0].GetInt("sort_order") + 1
}

// readLineItemForm reads a new line item. When the price is blank and a
// markup is given, the price is derived from cost and markup.
func readLineItemForm(e *core.RequestEvent) (services.LineItem, map[string]string) {
	errs := make(map[string]string)
	num := func(key, label string) (float64, bool) {
		v, ok, err := formFloat(e, key)
		if err != nil {
			errs[key] = label + " must be a number"
		}
		return v, ok
	}

	item := services.LineItem{
		Category:    services.Category(formString(e, "category")),
		Description: formString(e, "description"),
		Unit:        formString(e, "unit"),
	}
	item.Quantity, _ = num("quantity", "Quantity")
	item.CostPerUnit, _ = num("cost_per_unit", "Cost per unit")
	price, hasPrice := num("price_per_unit", "Price per unit")
	markup, hasMarkup := num("markup_percent", "Markup")
	switch {
	case hasPrice:
		item.PricePerUnit = price
	case hasMarkup:
		item.PricePerUnit = services.CalcPriceFromMarkup(item.CostPerUnit, markup)
	}
	return item, errs
}

func renderEstimateSection(app *pocketbase.PocketBase, cfg config.Config, e *core.RequestEvent, estimate *core.Record, errs map[string]string) error {
	data, err := buildEstimateViewData(app, cfg, estimate.GetString("project"), estimate.Id)
	if err != nil {
		app.Logger().Error("estimate_line_items: could not reload estimate", "estimateId", estimate.Id, "error", err)
		return ErrorToast(e, http.StatusInternalServerError, genericError)
	}
	if errs != nil {
		data.Errors = errs
	}
	return templates.EstimateLineItemsSection(data).Render(e.Request.Context(), e.Response)
}

// HandleEstimateAddLineItem handles POST /projects/{projectId}/estimates/{id}/line-items.
func HandleEstimateAddLineItem(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item, errs := readLineItemForm(e)
		if len(errs) == 0 {
			errs = services.ValidateLineItem(item)
		}
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return renderEstimateSection(app, cfg, e, estimate, errs)
		}

		col, err := app.FindCollectionByNameOrId("estimate_line_items")
		if err != nil {
			app.Logger().Error("estimate_line_items: could not find collection", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		record := core.NewRecord(col)
		record.Set("estimate", estimate.Id)
		record.Set("sort_order", nextSortOrder(app, "estimate_line_items", "estimate", estimate.Id))
		services.ApplyLineItemToRecord(record, item)
		if err := app.Save(record); err != nil {
			app.Logger().Error("estimate_line_items: could not save line item", "estimateId", estimate.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Line item added")
		return renderEstimateSection(app, cfg, e, estimate, nil)
	}
}

// findEstimateLineItem loads the itemId path value and checks that it belongs
// to the estimate.
func findEstimateLineItem(app *pocketbase.PocketBase, e *core.RequestEvent, estimateID string) (*core.Record, error) {
	item, err := app.FindRecordById("estimate_line_items", e.Request.PathValue("itemId"))
	if err != nil {
		return nil, err
	}
	if item.GetString("estimate") != estimateID {
		return nil, errForeignLineItem
	}
	return item, nil
}

// HandleEstimatePatchLineItem handles PATCH /projects/{projectId}/estimates/{id}/line-items/{itemId}.
// The form carries either a single "field"/"value" pair, applied through
// ApplyEdit so the derived values stay consistent, or plain description,
// unit and category updates.
func HandleEstimatePatchLineItem(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		record, err := findEstimateLineItem(app, e, estimate.Id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Line item not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item := services.LineItemFromRecord(record)

		if field := formString(e, "field"); field != "" {
			value, ok, err := formFloat(e, "value")
			if err != nil || !ok {
				return ErrorToast(e, http.StatusBadRequest, "Value must be a number")
			}
			item, err = services.ApplyEdit(item, services.EditField(field), value)
			if err != nil {
				return ErrorToast(e, http.StatusBadRequest, err.Error())
			}
		}
		if v := formString(e, "description"); v != "" {
			item.Description = v
		}
		if v := formString(e, "unit"); v != "" {
			item.Unit = v
		}
		if v := formString(e, "category"); v != "" {
			item.Category = services.Category(v)
		}

		if errs := services.ValidateLineItem(item); len(errs) > 0 {
			return ErrorToast(e, http.StatusBadRequest, firstError(errs))
		}

		services.ApplyLineItemToRecord(record, item)
		if err := app.Save(record); err != nil {
			app.Logger().Error("estimate_line_items: could not update line item", "itemId", record.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "info", "Line item updated")
		return renderEstimateSection(app, cfg, e, estimate, nil)
	}
}

// HandleEstimateDeleteLineItem handles DELETE /projects/{projectId}/estimates/{id}/line-items/{itemId}.
func HandleEstimateDeleteLineItem(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		record, err := findEstimateLineItem(app, e, estimate.Id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Line item not found")
		}

		if err := app.Delete(record); err != nil {
			app.Logger().Error("estimate_line_items: could not delete line item", "itemId", record.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		SetToast(e, "success", "Line item deleted")
		return renderEstimateSection(app, cfg, e, estimate, nil)
	}
}
