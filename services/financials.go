// Package services holds the pricing math, formatting, import and export
// logic shared by the HTTP handlers and CLI commands.
package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the cost bucket a line item belongs to.
type Category string

const (
	CategoryLaborInternal Category = "labor_internal"
	CategorySubcontractor Category = "subcontractor"
	CategoryMaterials     Category = "materials"
	CategoryEquipment     Category = "equipment"
	CategoryPermits       Category = "permits"
	CategoryManagement    Category = "management"
	CategoryOther         Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryLaborInternal,
	CategorySubcontractor,
	CategoryMaterials,
	CategoryEquipment,
	CategoryPermits,
	CategoryManagement,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryLaborInternal: "Internal Labor",
	CategorySubcontractor: "Subcontractor",
	CategoryMaterials:     "Materials",
	CategoryEquipment:     "Equipment",
	CategoryPermits:       "Permits",
	CategoryManagement:    "Management",
	CategoryOther:         "Other",
}

// Label returns the human readable category name.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[CategoryOther]
}

// ParseCategory maps a stored or submitted value to a Category. Values are
// matched case-insensitively against both the key and the label; anything
// unknown lands in CategoryOther.
func ParseCategory(s string) Category {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if norm == string(c) || norm == strings.ToLower(c.Label()) {
			return c
		}
	}
	return CategoryOther
}

// IsValidCategory reports whether s is exactly one of the category keys.
func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if s == string(c) {
			return true
		}
	}
	return false
}

func categoryIndex(c Category) int {
	for i, cc := range Categories {
		if cc == c {
			return i
		}
	}
	return len(Categories)
}

// LineItem is a single priced row of an estimate or quote.
type LineItem struct {
	ID            string   `json:"id,omitempty"`
	Category      Category `json:"category"`
	Description   string   `json:"description,omitempty"`
	Unit          string   `json:"unit,omitempty"`
	Quantity      float64  `json:"quantity"`
	CostPerUnit   float64  `json:"cost_per_unit"`
	PricePerUnit  float64  `json:"price_per_unit"`
	MarkupPercent float64  `json:"markup_percent"`
	Total         float64  `json:"total"`
}

// LineItemCalc holds the values derived from a line item.
type LineItemCalc struct {
	TotalCost     float64 `json:"total_cost"`
	MarkupAmount  float64 `json:"markup_amount"`
	MarkupPercent float64 `json:"markup_percent"`
	Total         float64 `json:"total"`
}

// CalcMarkupPercent returns the cost-based markup. A zero or negative cost
// yields 0.
func CalcMarkupPercent(costPerUnit, pricePerUnit float64) float64 {
	if costPerUnit <= 0 {
		return 0
	}
	return (pricePerUnit - costPerUnit) / costPerUnit * 100
}

// CalcPriceFromMarkup returns the unit price reached by adding markupPercent to cost.
func CalcPriceFromMarkup(costPerUnit, markupPercent float64) float64 {
	return costPerUnit * (1 + markupPercent/100)
}

// CalcLineItem derives total cost, markup and total from quantity and unit prices.
// Total is always quantity * pricePerUnit; any stored total is ignored.
func CalcLineItem(item LineItem) LineItemCalc {
	totalCost := item.Quantity * item.CostPerUnit
	total := item.Quantity * item.PricePerUnit
	return LineItemCalc{
		TotalCost:     totalCost,
		MarkupAmount:  total - totalCost,
		MarkupPercent: CalcMarkupPercent(item.CostPerUnit, item.PricePerUnit),
		Total:         total,
	}
}

// Normalize returns a copy of item with MarkupPercent and Total recomputed.
func (item LineItem) Normalize() LineItem {
	calc := CalcLineItem(item)
	item.MarkupPercent = calc.MarkupPercent
	item.Total = calc.Total
	return item
}

// EditField names a user-editable line item value.
type EditField string

const (
	FieldQuantity      EditField = "quantity"
	FieldCostPerUnit   EditField = "cost_per_unit"
	FieldPricePerUnit  EditField = "price_per_unit"
	FieldMarkupPercent EditField = "markup_percent"
	FieldMarkupAmount  EditField = "markup_amount"
	FieldTotalCost     EditField = "total_cost"
	FieldTotal         EditField = "total"
)

// ApplyEdit sets one field and recomputes the dependent ones so that
// Total == Quantity * PricePerUnit holds afterwards.
//
// Editing the cost (per unit or in total) keeps the current markup percent,
// so the price follows the cost. A priced item with no cost has no markup to
// keep; its price stays and the markup is recomputed. Editing the markup
// amount or the total moves the unit price.
func ApplyEdit(item LineItem, field EditField, value float64) (LineItem, error) {
	markup := CalcMarkupPercent(item.CostPerUnit, item.PricePerUnit)
	if item.CostPerUnit <= 0 {
		markup = item.MarkupPercent
	}
	keepPrice := item.CostPerUnit <= 0 && item.PricePerUnit > 0

	switch field {
	case FieldQuantity:
		item.Quantity = value
	case FieldCostPerUnit:
		item.CostPerUnit = value
		if !keepPrice {
			item.PricePerUnit = CalcPriceFromMarkup(value, markup)
		}
	case FieldPricePerUnit:
		item.PricePerUnit = value
	case FieldMarkupPercent:
		item.PricePerUnit = CalcPriceFromMarkup(item.CostPerUnit, value)
	case FieldMarkupAmount:
		total := item.Quantity*item.CostPerUnit + value
		item.PricePerUnit = safeDiv(total, item.Quantity)
	case FieldTotalCost:
		item.CostPerUnit = safeDiv(value, item.Quantity)
		if !keepPrice {
			item.PricePerUnit = CalcPriceFromMarkup(item.CostPerUnit, markup)
		}
	case FieldTotal:
		item.PricePerUnit = safeDiv(value, item.Quantity)
	default:
		return item, fmt.Errorf("unknown line item field %q", field)
	}
	return item.Normalize(), nil
}

func safeDiv(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

// CategoryBucket accumulates the cost and price of one category.
type CategoryBucket struct {
	Category  Category `json:"category"`
	Count     int      `json:"count"`
	Cost      float64  `json:"cost"`
	Price     float64  `json:"price"`
	MarkupPct float64  `json:"markup_percent"`
}

// EstimateFinancials summarises all line items of an estimate.
type EstimateFinancials struct {
	Buckets              []CategoryBucket `json:"buckets"`
	TotalCost            float64          `json:"total_cost"`
	TotalPrice           float64          `json:"total_price"`
	GrossProfit          float64          `json:"gross_profit"`
	GrossMarginPercent   float64          `json:"gross_margin_percent"`
	AverageMarkupPercent float64          `json:"average_markup_percent"`
}

// Bucket returns the bucket for c, or an empty one.
func (f EstimateFinancials) Bucket(c Category) CategoryBucket {
	for _, b := range f.Buckets {
		if b.Category == c {
			return b
		}
	}
	return CategoryBucket{Category: c}
}

type bucketSum struct {
	count int
	cost  decimal.Decimal
	price decimal.Decimal
}

// CalcEstimateFinancials aggregates line items by category. Only categories
// with at least one line item get a bucket; buckets follow Categories order.
// Sums are kept in decimal so the buckets add up to the totals exactly.
func CalcEstimateFinancials(items []LineItem) EstimateFinancials {
	sums := make(map[Category]*bucketSum)
	for _, item := range items {
		c := ParseCategory(string(item.Category))
		s, ok := sums[c]
		if !ok {
			s = &bucketSum{}
			sums[c] = s
		}
		s.count++
		s.cost = s.cost.Add(decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.CostPerUnit)))
		s.price = s.price.Add(decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.PricePerUnit)))
	}

	var f EstimateFinancials
	totalCost := decimal.Zero
	totalPrice := decimal.Zero
	for _, c := range Categories {
		s, ok := sums[c]
		if !ok {
			continue
		}
		totalCost = totalCost.Add(s.cost)
		totalPrice = totalPrice.Add(s.price)
		cost := s.cost.InexactFloat64()
		price := s.price.InexactFloat64()
		f.Buckets = append(f.Buckets, CategoryBucket{
			Category:  c,
			Count:     s.count,
			Cost:      cost,
			Price:     price,
			MarkupPct: markupOnCost(cost, price),
		})
	}

	f.TotalCost = totalCost.InexactFloat64()
	f.TotalPrice = totalPrice.InexactFloat64()
	f.GrossProfit = totalPrice.Sub(totalCost).InexactFloat64()
	if f.TotalPrice > 0 {
		f.GrossMarginPercent = f.GrossProfit / f.TotalPrice * 100
	}
	f.AverageMarkupPercent = markupOnCost(f.TotalCost, f.TotalPrice)
	return f
}

func markupOnCost(cost, price float64) float64 {
	if cost <= 0 {
		return 0
	}
	return (price - cost) / cost * 100
}

// Performance labels an estimate's gross margin.
type Performance string

const (
	PerformanceExcellent Performance = "excellent"
	PerformanceGood      Performance = "good"
	PerformancePoor      Performance = "poor"
	PerformanceCritical  Performance = "critical"
)

// MarginThresholds are the lower bounds for each performance label.
type MarginThresholds struct {
	Excellent float64
	Good      float64
	Poor      float64
}

// DefaultMarginThresholds mirrors the configuration defaults.
var DefaultMarginThresholds = MarginThresholds{Excellent: 25, Good: 15, Poor: 5}

// ClassifyMargin returns the performance label for a margin percent.
func ClassifyMargin(marginPercent float64, t MarginThresholds) Performance {
	switch {
	case marginPercent >= t.Excellent:
		return PerformanceExcellent
	case marginPercent >= t.Good:
		return PerformanceGood
	case marginPercent >= t.Poor:
		return PerformancePoor
	default:
		return PerformanceCritical
	}
}
