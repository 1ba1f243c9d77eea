package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"sitecost/config"
	"sitecost/services"
)

type lineItemCalcRequest struct {
	Item  services.LineItem `json:"item"`
	Field string            `json:"field,omitempty"`
	Value float64           `json:"value,omitempty"`
}

type lineItemCalcResponse struct {
	Item services.LineItem     `json:"item"`
	Calc services.LineItemCalc `json:"calc"`
}

// HandleCalcLineItem handles POST /api/calc/line-item. When field is set the
// edit is applied first, the same way the estimate grid does it.
func HandleCalcLineItem() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req lineItemCalcRequest
		if err := e.BindBody(&req); err != nil {
			return e.BadRequestError("Invalid request body", err)
		}
		item := req.Item
		if req.Field != "" {
			var err error
			if item, err = services.ApplyEdit(item, services.EditField(req.Field), req.Value); err != nil {
				return e.BadRequestError(err.Error(), nil)
			}
		} else {
			item = item.Normalize()
		}
		return e.JSON(http.StatusOK, lineItemCalcResponse{Item: item, Calc: services.CalcLineItem(item)})
	}
}

type estimateCalcRequest struct {
	LineItems           []services.LineItem `json:"line_items"`
	TargetMarginPercent *float64            `json:"target_margin_percent"`
}

type estimateCalcResponse struct {
	services.EstimateFinancials
	Performance         services.Performance `json:"performance"`
	TargetMarginPercent float64              `json:"target_margin_percent"`
	MinimumAcceptable   float64              `json:"minimum_acceptable"`
}

// HandleCalcEstimate handles POST /api/calc/estimate.
func HandleCalcEstimate(cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req estimateCalcRequest
		if err := e.BindBody(&req); err != nil {
			return e.BadRequestError("Invalid request body", err)
		}
		fin := services.CalcEstimateFinancials(req.LineItems)
		target := services.Estimate{TargetMarginPercent: req.TargetMarginPercent}.EffectiveTargetMargin()
		return e.JSON(http.StatusOK, estimateCalcResponse{
			EstimateFinancials:  fin,
			Performance:         services.ClassifyMargin(fin.GrossMarginPercent, marginThresholds(cfg)),
			TargetMarginPercent: target,
			MinimumAcceptable:   services.MinimumAcceptableQuote(fin.TotalCost, target),
		})
	}
}

type compareCalcRequest struct {
	Estimate services.Estimate `json:"estimate"`
	Quote    services.Quote    `json:"quote"`
}

// HandleCalcCompare handles POST /api/calc/compare.
func HandleCalcCompare() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req compareCalcRequest
		if err := e.BindBody(&req); err != nil {
			return e.BadRequestError("Invalid request body", err)
		}
		if err := req.Quote.CheckTotals(); err != nil {
			return e.BadRequestError(err.Error(), nil)
		}
		return e.JSON(http.StatusOK, services.CompareQuote(req.Estimate, req.Quote))
	}
}
