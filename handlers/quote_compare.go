package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitecost/services"
	"sitecost/templates"
)

type comparisonResult struct {
	estimate services.Estimate
	quote    services.Quote
	cmp      services.QuoteComparison
	ranking  []services.RankedQuote
	hasQuote bool
}

// compareEstimate picks the quote named by the quote query parameter, or the
// accepted one, else the cheapest, and compares it with the estimate.
func compareEstimate(app *pocketbase.PocketBase, e *core.RequestEvent, estimateID string) (comparisonResult, error) {
	var res comparisonResult
	est, _, err := services.LoadEstimate(app, estimateID)
	if err != nil {
		return res, err
	}
	res.estimate = est

	quotes, err := services.LoadQuotesForEstimate(app, estimateID)
	if err != nil {
		return res, err
	}
	res.ranking = services.RankQuotes(quotes)

	if id := e.Request.URL.Query().Get("quote"); id != "" {
		for _, q := range quotes {
			if q.ID == id {
				res.quote, res.hasQuote = q, true
				break
			}
		}
		if !res.hasQuote {
			return res, fmt.Errorf("quote %s is not on estimate %s", id, estimateID)
		}
	} else {
		res.quote, res.hasQuote = services.SelectQuoteForComparison(quotes)
	}

	if res.hasQuote {
		res.cmp = services.CompareQuote(est, res.quote)
	}
	return res, nil
}

// HandleQuoteCompare shows the variance of a quote against the estimate.
func HandleQuoteCompare(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}

		res, err := compareEstimate(app, e, estimate.Id)
		if err != nil {
			app.Logger().Warn("quote_compare: could not compare", "estimateId", estimate.Id, "error", err)
			return ErrorToast(e, http.StatusNotFound, "Quote not found")
		}

		data := templates.CompareData{
			ProjectID:     estimate.GetString("project"),
			EstimateID:    estimate.Id,
			EstimateTitle: res.estimate.Title,
			QuoteID:       res.quote.ID,
			HasQuote:      res.hasQuote,
			Comparison:    res.cmp,
			Ranking:       res.ranking,
		}
		if res.hasQuote {
			data.AmountInWords = services.AmountToWords(res.cmp.VendorQuote)
		}
		return render(e,
			templates.CompareContent(data),
			templates.ComparePage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		)
	}
}

// HandleQuoteComparePDF downloads the comparison as a PDF.
func HandleQuoteComparePDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimate, err := findEstimateRecord(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}

		res, err := compareEstimate(app, e, estimate.Id)
		if err != nil || !res.hasQuote {
			return ErrorToast(e, http.StatusNotFound, "Quote not found")
		}

		projectName := ""
		if project, err := app.FindRecordById("projects", estimate.GetString("project")); err == nil {
			projectName = project.GetString("name")
		}

		pdfBytes, err := services.GenerateComparisonPDF(services.ComparisonExportData{
			EstimateTitle: res.estimate.Title,
			ProjectName:   projectName,
			CreatedDate:   time.Now().Format("02 Jan 2006"),
			Comparison:    res.cmp,
			Ranking:       res.ranking,
		})
		if err != nil {
			app.Logger().Error("quote_compare: could not generate pdf", "estimateId", estimate.Id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, genericError)
		}

		name := sanitizeFilename(fmt.Sprintf("Comparison_%s_%s", res.estimate.Title, res.cmp.Vendor))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, name))
		_, err = e.Response.Write(pdfBytes)
		return err
	}
}
