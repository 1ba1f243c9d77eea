package collections

import (
	"github.com/pocketbase/pocketbase/core"
)

// CategoryValues are the allowed line item / expense categories.
var CategoryValues = []string{
	"labor_internal",
	"subcontractor",
	"materials",
	"equipment",
	"permits",
	"management",
	"other",
}

// Setup programmatically creates/ensures every collection the application
// needs. It is idempotent: existing collections are left untouched.
func Setup(app core.App) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.TextField{Name: "reference_number"})
		c.Fields.Add(&core.TextField{Name: "site_address"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"bidding", "active", "on_hold", "completed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	vendors := ensureCollection(app, "vendors", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "trade",
			Values:    CategoryValues,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "contact_name"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.EmailField{Name: "email"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	estimates := ensureCollection(app, "estimates", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.TextField{Name: "number"})
		c.Fields.Add(&core.NumberField{Name: "target_margin_percent"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"draft", "sent", "approved", "rejected"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "estimate_line_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "estimate",
			Required:      true,
			CollectionId:  estimates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		addLineItemFields(c)
		c.Fields.Add(&core.NumberField{Name: "cost_per_unit"})
		c.Fields.Add(&core.NumberField{Name: "markup_percent"})
	})

	quotes := ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "estimate",
			Required:      true,
			CollectionId:  estimates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "vendor",
			Required:     true,
			CollectionId: vendors.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "number"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"pending", "accepted", "rejected"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "valid_until"})
		c.Fields.Add(&core.NumberField{Name: "total"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "quote_line_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quote",
			Required:      true,
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		addLineItemFields(c)
	})

	ensureCollection(app, "change_orders", func(c *core.Collection) {
		addLedgerFields(c, projects.Id)
		c.Fields.Add(&core.TextField{Name: "number"})
		c.Fields.Add(&core.NumberField{Name: "cost_impact"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"pending", "approved", "rejected"},
			MaxSelect: 1,
		})
	})

	ensureCollection(app, "expenses", func(c *core.Collection) {
		addLedgerFields(c, projects.Id)
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    CategoryValues,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "vendor",
			CollectionId: vendors.Id,
			MaxSelect:    1,
		})
	})

	ensureCollection(app, "revenues", func(c *core.Collection) {
		addLedgerFields(c, projects.Id)
		c.Fields.Add(&core.TextField{Name: "invoice_number"})
	})
}

// addLineItemFields adds the columns shared by estimate and quote line items.
func addLineItemFields(c *core.Collection) {
	c.Fields.Add(&core.NumberField{Name: "sort_order"})
	c.Fields.Add(&core.SelectField{
		Name:      "category",
		Required:  true,
		Values:    CategoryValues,
		MaxSelect: 1,
	})
	c.Fields.Add(&core.TextField{Name: "description", Required: true})
	c.Fields.Add(&core.NumberField{Name: "quantity"})
	c.Fields.Add(&core.TextField{Name: "unit"})
	c.Fields.Add(&core.NumberField{Name: "price_per_unit"})
	c.Fields.Add(&core.NumberField{Name: "total"})
}

// addLedgerFields adds the columns shared by change orders, expenses and revenues.
func addLedgerFields(c *core.Collection, projectsID string) {
	c.Fields.Add(&core.RelationField{
		Name:          "project",
		Required:      true,
		CollectionId:  projectsID,
		CascadeDelete: true,
		MaxSelect:     1,
	})
	c.Fields.Add(&core.TextField{Name: "description", Required: true})
	c.Fields.Add(&core.NumberField{Name: "amount"})
	c.Fields.Add(&core.DateField{Name: "date"})
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		app.Logger().Debug("collections: already exists, skipping creation", "collection", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		app.Logger().Error("collections: failed to create", "collection", name, "error", err)
		panic("collections: failed to create " + name + ": " + err.Error())
	}

	app.Logger().Info("collections: created", "collection", name, "id", collection.Id)
	return collection
}
