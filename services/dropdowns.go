package services

// UnitOptions lists the units of measure offered on line item forms.
var UnitOptions = []string{
	"ea",
	"ls",
	"hr",
	"day",
	"wk",
	"sqft",
	"lf",
	"bf",
	"cy",
	"sq",
	"ton",
	"gal",
	"sheet",
	"box",
	"lot",
}

// SelectOption is a value/label pair for a <select>.
type SelectOption struct {
	Value string
	Label string
}

// CategoryOptions returns every category as select options, in display order.
func CategoryOptions() []SelectOption {
	opts := make([]SelectOption, len(Categories))
	for i, c := range Categories {
		opts[i] = SelectOption{Value: string(c), Label: c.Label()}
	}
	return opts
}

// EstimateStatusOptions are the allowed estimate statuses.
var EstimateStatusOptions = []string{"draft", "sent", "approved", "rejected"}

// ProjectStatusOptions are the allowed project statuses.
var ProjectStatusOptions = []string{"bidding", "active", "on_hold", "completed"}

// ChangeOrderStatusOptions are the allowed change order statuses.
var ChangeOrderStatusOptions = []string{ChangeOrderPending, ChangeOrderApproved, ChangeOrderRejected}
