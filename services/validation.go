package services

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Ledger kinds accepted by ValidateLedgerEntry.
const (
	LedgerChangeOrder = "change_order"
	LedgerExpense     = "expense"
	LedgerRevenue     = "revenue"
)

var validCategory = validation.By(func(value any) error {
	s, _ := value.(Category)
	if !IsValidCategory(string(s)) {
		return errors.New("Invalid category")
	}
	return nil
})

// ValidateLineItem checks a line item and returns a map of field -> message.
// An empty map means the item is valid.
func ValidateLineItem(item LineItem) map[string]string {
	item.Description = strings.TrimSpace(item.Description)
	err := validation.ValidateStruct(&item,
		validation.Field(&item.Description, validation.Required.Error("Description is required")),
		validation.Field(&item.Category, validation.Required.Error("Category is required"), validCategory),
		validation.Field(&item.Quantity, validation.Required.Error("Quantity must be greater than 0"), validation.Min(0.0).Exclusive().Error("Quantity must be greater than 0")),
		validation.Field(&item.CostPerUnit, validation.Min(0.0).Error("Cost per unit cannot be negative")),
		validation.Field(&item.PricePerUnit, validation.Min(0.0).Error("Price per unit cannot be negative")),
	)
	return toFieldErrors(err)
}

// ValidateQuoteLineItem is ValidateLineItem without the cost column, which
// vendor quotes do not carry.
func ValidateQuoteLineItem(item LineItem) map[string]string {
	item.CostPerUnit = 0
	return ValidateLineItem(item)
}

// LedgerEntry is the submitted form of a change order, expense or revenue.
type LedgerEntry struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
}

// ValidateLedgerEntry validates a ledger entry for the given kind. Change
// orders may be negative (credits) but not zero; expenses and revenues must
// be positive.
func ValidateLedgerEntry(kind string, e LedgerEntry) map[string]string {
	e.Description = strings.TrimSpace(e.Description)
	rules := []*validation.FieldRules{
		validation.Field(&e.Description, validation.Required.Error("Description is required")),
	}
	switch kind {
	case LedgerChangeOrder:
		rules = append(rules,
			validation.Field(&e.Amount, validation.Required.Error("Amount cannot be zero")),
			validation.Field(&e.Status, validation.In(ChangeOrderPending, ChangeOrderApproved, ChangeOrderRejected).Error("Invalid status")),
		)
	case LedgerExpense:
		rules = append(rules,
			validation.Field(&e.Amount, validation.Required.Error("Amount must be greater than 0"), validation.Min(0.0).Exclusive().Error("Amount must be greater than 0")),
			validation.Field(&e.Category, validation.Required.Error("Category is required"), validation.By(func(v any) error {
				if !IsValidCategory(v.(string)) {
					return errors.New("Invalid category")
				}
				return nil
			})),
		)
	default:
		rules = append(rules,
			validation.Field(&e.Amount, validation.Required.Error("Amount must be greater than 0"), validation.Min(0.0).Exclusive().Error("Amount must be greater than 0")),
		)
	}
	return toFieldErrors(validation.ValidateStruct(&e, rules...))
}

// EstimateForm is the submitted form of an estimate header.
type EstimateForm struct {
	Title               string  `json:"title"`
	TargetMarginPercent float64 `json:"target_margin_percent"`
}

// ValidateEstimate checks the estimate title and target margin.
func ValidateEstimate(f EstimateForm) map[string]string {
	f.Title = strings.TrimSpace(f.Title)
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("Title is required"), validation.Length(1, 200)),
		validation.Field(&f.TargetMarginPercent,
			validation.Min(0.0).Error("Target margin cannot be negative"),
			validation.Max(100.0).Exclusive().Error("Target margin must be below 100%")),
	)
	return toFieldErrors(err)
}

// VendorForm is the submitted form of a vendor.
type VendorForm struct {
	Name  string `json:"name"`
	Trade string `json:"trade"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ValidateVendor checks a vendor's name, trade and contact details.
func ValidateVendor(f VendorForm) map[string]string {
	f.Name = strings.TrimSpace(f.Name)
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required.Error("Name is required")),
		validation.Field(&f.Trade, validation.When(f.Trade != "", validation.By(func(v any) error {
			if !IsValidCategory(v.(string)) {
				return errors.New("Invalid trade")
			}
			return nil
		}))),
		validation.Field(&f.Email, is.EmailFormat.Error("Invalid email format")),
		validation.Field(&f.Phone, validation.Length(0, 32)),
	)
	return toFieldErrors(err)
}

// toFieldErrors flattens ozzo validation errors into field -> message.
func toFieldErrors(err error) map[string]string {
	out := make(map[string]string)
	if err == nil {
		return out
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, fe := range verrs {
			out[field] = fe.Error()
		}
		return out
	}
	out["_"] = err.Error()
	return out
}
