package services

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultTargetMarginPercent is used when an estimate has no target set.
const DefaultTargetMarginPercent = 20.0

// Recommendation is the decision offered for a vendor quote.
type Recommendation string

const (
	RecommendAccept    Recommendation = "ACCEPT"
	RecommendNegotiate Recommendation = "NEGOTIATE"
)

// Estimate is the in-memory view of an estimate used by the calculations.
type Estimate struct {
	ID                  string     `json:"id,omitempty"`
	Title               string     `json:"title,omitempty"`
	LineItems           []LineItem `json:"line_items"`
	TargetMarginPercent *float64   `json:"target_margin_percent,omitempty"`
}

// TargetMargin returns p as an estimate target margin.
func TargetMargin(p float64) *float64 {
	return &p
}

// EffectiveTargetMargin is the estimate's target margin, or the default
// when none is set. An explicit 0 is kept.
func (e Estimate) EffectiveTargetMargin() float64 {
	if e.TargetMarginPercent == nil || *e.TargetMarginPercent < 0 {
		return DefaultTargetMarginPercent
	}
	return *e.TargetMarginPercent
}

// Quote is a vendor's priced response for the scope of an estimate.
type Quote struct {
	ID        string               `json:"id,omitempty"`
	Vendor    string               `json:"vendor,omitempty"`
	Status    string               `json:"status,omitempty"`
	LineItems []LineItem           `json:"line_items"`
	Subtotals map[Category]float64 `json:"subtotals"`
	Total     float64              `json:"total"`
}

// QuoteTotals holds the per-category subtotals of a quote.
type QuoteTotals struct {
	Subtotals map[Category]float64 `json:"subtotals"`
	LineCount int                  `json:"line_count"`
	Total     float64              `json:"total"`
}

// CalcQuoteTotals sums quote line totals (quantity * price per unit) by
// category. Subtotals are rounded to cents and the total is their sum.
func CalcQuoteTotals(items []LineItem) QuoteTotals {
	sums := make(map[Category]decimal.Decimal)
	for _, item := range items {
		c := ParseCategory(string(item.Category))
		line := decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.PricePerUnit))
		sums[c] = sums[c].Add(line)
	}
	totals := roundSubtotals(sums)
	totals.LineCount = len(items)
	return totals
}

func roundSubtotals(sums map[Category]decimal.Decimal) QuoteTotals {
	totals := QuoteTotals{Subtotals: make(map[Category]float64, len(sums))}
	total := decimal.Zero
	for c, s := range sums {
		rounded := s.Round(2)
		totals.Subtotals[c] = rounded.InexactFloat64()
		total = total.Add(rounded)
	}
	totals.Total = total.InexactFloat64()
	return totals
}

// Totals returns the quote's per-category totals. Line items take precedence;
// a quote without line items is summarised from its supplied subtotals.
func (q Quote) Totals() QuoteTotals {
	if len(q.LineItems) > 0 || len(q.Subtotals) == 0 {
		return CalcQuoteTotals(q.LineItems)
	}
	sums := make(map[Category]decimal.Decimal, len(q.Subtotals))
	for c, amount := range q.Subtotals {
		c = ParseCategory(string(c))
		sums[c] = sums[c].Add(decimal.NewFromFloat(amount))
	}
	return roundSubtotals(sums)
}

// WithTotals returns q with Subtotals and Total filled from Totals.
func (q Quote) WithTotals() Quote {
	totals := q.Totals()
	q.Subtotals = totals.Subtotals
	q.Total = totals.Total
	return q
}

var errEmptyQuote = errors.New("quote needs line_items or subtotals")

// CheckTotals reports a quote that carries nothing to compare, or whose
// supplied total disagrees with its line items or subtotals. A zero Total
// is treated as not supplied.
func (q Quote) CheckTotals() error {
	if len(q.LineItems) == 0 && len(q.Subtotals) == 0 {
		return errEmptyQuote
	}
	if q.Total == 0 {
		return nil
	}
	if want := q.Totals().Total; math.Abs(q.Total-want) >= 0.005 {
		return fmt.Errorf("quote total %.2f does not match the sum of its lines %.2f", q.Total, want)
	}
	return nil
}

// CategoryVariance compares one category of a quote with the estimate.
type CategoryVariance struct {
	Category         Category `json:"category"`
	EstimateSubtotal float64  `json:"estimate_subtotal"`
	QuoteSubtotal    float64  `json:"quote_subtotal"`
	Difference       float64  `json:"difference"`
	PercentageDiff   float64  `json:"percentage_diff"`
}

// IsOver reports whether the quote exceeds the estimate for this category.
func (v CategoryVariance) IsOver() bool {
	return v.Difference > 0
}

// QuoteComparison is the result of comparing a quote with an estimate.
type QuoteComparison struct {
	Vendor              string             `json:"vendor,omitempty"`
	Categories          []CategoryVariance `json:"categories"`
	YourTotalCost       float64            `json:"your_total_cost"`
	VendorQuote         float64            `json:"vendor_quote"`
	TargetMarginPercent float64            `json:"target_margin_percent"`
	MinimumAcceptable   float64            `json:"minimum_acceptable"`
	TotalDifference     float64            `json:"total_difference"`
	TotalPercentageDiff float64            `json:"total_percentage_diff"`
	Recommendation      Recommendation     `json:"recommendation"`
}

// CalcVariance returns the difference and percentage difference of a quoted
// amount against an estimated one. The percentage is 0 when the estimate is
// not positive.
func CalcVariance(estimated, quoted float64) (difference, percentageDiff float64) {
	difference = quoted - estimated
	if estimated > 0 {
		percentageDiff = difference / estimated * 100
	}
	return difference, percentageDiff
}

// MinimumAcceptableQuote is the threshold at or under which a vendor quote
// is accepted: the estimated cost grown by the target margin.
func MinimumAcceptableQuote(yourTotalCost, targetMarginPercent float64) float64 {
	return yourTotalCost * (1 + targetMarginPercent/100)
}

// Recommend returns ACCEPT when vendorQuote <= yourTotalCost * (1 + target/100).
func Recommend(yourTotalCost, vendorQuote, targetMarginPercent float64) Recommendation {
	if vendorQuote <= MinimumAcceptableQuote(yourTotalCost, targetMarginPercent) {
		return RecommendAccept
	}
	return RecommendNegotiate
}

// CompareQuote builds a per-category variance of the quote against the
// estimate's cost subtotals, plus an overall recommendation. Categories
// present on either side are included, in Categories order.
func CompareQuote(est Estimate, q Quote) QuoteComparison {
	fin := CalcEstimateFinancials(est.LineItems)
	totals := q.Totals()

	target := est.EffectiveTargetMargin()

	cmp := QuoteComparison{
		Vendor:              q.Vendor,
		YourTotalCost:       fin.TotalCost,
		VendorQuote:         totals.Total,
		TargetMarginPercent: target,
	}

	for _, c := range Categories {
		bucket := fin.Bucket(c)
		quoted, inQuote := totals.Subtotals[c]
		if bucket.Count == 0 && !inQuote {
			continue
		}
		diff, pct := CalcVariance(bucket.Cost, quoted)
		cmp.Categories = append(cmp.Categories, CategoryVariance{
			Category:         c,
			EstimateSubtotal: bucket.Cost,
			QuoteSubtotal:    quoted,
			Difference:       diff,
			PercentageDiff:   pct,
		})
	}

	cmp.TotalDifference, cmp.TotalPercentageDiff = CalcVariance(cmp.YourTotalCost, cmp.VendorQuote)
	cmp.MinimumAcceptable = MinimumAcceptableQuote(cmp.YourTotalCost, target)
	cmp.Recommendation = Recommend(cmp.YourTotalCost, cmp.VendorQuote, target)
	return cmp
}

// RankedQuote is a quote with its position among competing quotes.
type RankedQuote struct {
	Quote
	Rank   int  `json:"rank"`
	IsBest bool `json:"is_best"`
}

// RankQuotes orders quotes by total ascending; the cheapest is marked best.
// Ties keep their input order.
func RankQuotes(quotes []Quote) []RankedQuote {
	ranked := make([]RankedQuote, len(quotes))
	for i, q := range quotes {
		ranked[i] = RankedQuote{Quote: q.WithTotals()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total < ranked[j].Total
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].IsBest = i == 0
	}
	return ranked
}

// SelectQuoteForComparison returns the accepted quote if one exists,
// otherwise the cheapest. ok is false when quotes is empty.
func SelectQuoteForComparison(quotes []Quote) (Quote, bool) {
	for _, q := range quotes {
		if q.Status == QuoteStatusAccepted {
			return q.WithTotals(), true
		}
	}
	ranked := RankQuotes(quotes)
	if len(ranked) == 0 {
		return Quote{}, false
	}
	return ranked[0].Quote, true
}

// Quote statuses.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)
