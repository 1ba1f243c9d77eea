package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorHeaderBg = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorMuted    = &props.Color{Red: 80, Green: 80, Blue: 80}
	colorFaint    = &props.Color{Red: 140, Green: 140, Blue: 140}
	colorShade    = &props.Color{Red: 240, Green: 240, Blue: 240}
	colorOver     = &props.Color{Red: 185, Green: 28, Blue: 28}
	colorUnder    = &props.Color{Red: 21, Green: 128, Blue: 61}
)

// newDocument returns a landscape A4 maroto document with page numbers.
func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()
	return maroto.New(cfg)
}

// GeneratePDF creates a PDF document from estimate export data using maroto/v2.
// It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	m := newDocument()

	subtitle := data.ProjectName
	if data.Number != "" {
		subtitle = fmt.Sprintf("%s  %s", subtitle, data.Number)
	}
	addHeader(m, data.Title, subtitle, data.CreatedDate)

	addTableHeader(m, []headerCol{
		{"#", 1, align.Center},
		{"Description", 3, align.Left},
		{"Qty", 1, align.Right},
		{"Unit", 1, align.Center},
		{"Cost / Unit", 1, align.Right},
		{"Total Cost", 1, align.Right},
		{"Markup", 1, align.Right},
		{"Price / Unit", 1, align.Right},
		{"Total", 2, align.Right},
	})

	for _, r := range data.Rows {
		addEstimateRow(m, r)
	}

	fin := data.Financials
	addSummary(m, []summaryLine{
		{"Total Cost", FormatCurrency(fin.TotalCost)},
		{"Total Price", FormatCurrency(fin.TotalPrice)},
		{"Gross Profit", FormatCurrency(fin.GrossProfit)},
		{fmt.Sprintf("Gross Margin (target %s)", FormatPercent(data.TargetMarginPercent)), FormatPercent(fin.GrossMarginPercent)},
		{"Average Markup", FormatPercent(fin.AverageMarkupPercent)},
	})

	addFooter(m, data.CreatedDate)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateComparisonPDF renders the per-category variance of a vendor quote
// against the estimate, the competing quotes and the recommendation.
func GenerateComparisonPDF(data ComparisonExportData) ([]byte, error) {
	m := newDocument()
	cmp := data.Comparison

	addHeader(m, "Quote Comparison: "+cmp.Vendor,
		fmt.Sprintf("%s  %s", data.ProjectName, data.EstimateTitle), data.CreatedDate)

	addTableHeader(m, []headerCol{
		{"Category", 4, align.Left},
		{"Your Cost", 2, align.Right},
		{"Vendor Quote", 2, align.Right},
		{"Difference", 2, align.Right},
		{"% Diff", 2, align.Right},
	})

	for _, v := range cmp.Categories {
		base := props.Text{Size: 8, Align: align.Right}
		diffText := base
		switch {
		case v.IsOver():
			diffText.Color = colorOver
		case v.Difference < 0:
			diffText.Color = colorUnder
		}
		left := base
		left.Align = align.Left

		m.AddRows(
			row.New(7).Add(
				col.New(4).Add(text.New(v.Category.Label(), left)),
				col.New(2).Add(text.New(FormatCurrency(v.EstimateSubtotal), base)),
				col.New(2).Add(text.New(FormatCurrency(v.QuoteSubtotal), base)),
				col.New(2).Add(text.New(FormatCurrency(v.Difference), diffText)),
				col.New(2).Add(text.New(FormatPercent(v.PercentageDiff), diffText)),
			),
		)
	}

	addSummary(m, []summaryLine{
		{"Your Total Cost", FormatCurrency(cmp.YourTotalCost)},
		{"Vendor Quote", FormatCurrency(cmp.VendorQuote)},
		{"Difference", fmt.Sprintf("%s (%s)", FormatCurrency(cmp.TotalDifference), FormatPercent(cmp.TotalPercentageDiff))},
		{fmt.Sprintf("Acceptable up to (%s margin)", FormatPercent(cmp.TargetMarginPercent)), FormatCurrency(cmp.MinimumAcceptable)},
		{"Recommendation", string(cmp.Recommendation)},
	})

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New("Vendor quote in words: "+AmountToWords(cmp.VendorQuote), props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Color: colorMuted,
				}),
			),
		),
	)

	if len(data.Ranking) > 1 {
		m.AddRows(row.New(6))
		addTableHeader(m, []headerCol{
			{"Rank", 1, align.Center},
			{"Vendor", 5, align.Left},
			{"Status", 2, align.Center},
			{"Total", 4, align.Right},
		})
		for _, rq := range data.Ranking {
			style := props.Text{Size: 8, Align: align.Center}
			if rq.IsBest {
				style.Style = fontstyle.Bold
			}
			left := style
			left.Align = align.Left
			right := style
			right.Align = align.Right
			m.AddRows(
				row.New(7).Add(
					col.New(1).Add(text.New(fmt.Sprintf("%d", rq.Rank), style)),
					col.New(5).Add(text.New(rq.Vendor, left)),
					col.New(2).Add(text.New(rq.Status, style)),
					col.New(4).Add(text.New(FormatCurrency(rq.Total), right)),
				),
			)
		}
	}

	addFooter(m, data.CreatedDate)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate comparison PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addHeader adds the title, subtitle, and date to the PDF.
func addHeader(m core.Maroto, title, subtitle, date string) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New(subtitle, props.Text{
					Size:  9,
					Align: align.Left,
					Color: colorMuted,
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Date: %s", date), props.Text{
					Size:  9,
					Align: align.Right,
					Color: colorMuted,
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

type headerCol struct {
	label string
	size  int
	align align.Type
}

// addTableHeader adds a dark column header row.
func addTableHeader(m core.Maroto, cols []headerCol) {
	headerCell := props.Cell{BackgroundColor: colorHeaderBg}
	r := row.New(8)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(
			text.New(c.label, props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: c.align,
				Color: colorWhite,
			}),
		).WithStyle(&headerCell))
	}
	m.AddRows(r)
}

// addEstimateRow adds one category heading or line item row.
func addEstimateRow(m core.Maroto, r ExportRow) {
	var cellStyle *props.Cell
	textStyle := fontstyle.Normal
	var size float64 = 7
	descPrefix := "  "
	if r.Level == 0 {
		textStyle = fontstyle.Bold
		size = 8
		descPrefix = ""
		cellStyle = &props.Cell{BackgroundColor: colorShade}
	}

	base := props.Text{Size: size, Style: textStyle, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	qty, unit, costPerUnit, pricePerUnit := "", "", "", ""
	if r.Level > 0 {
		qty = FormatQty(r.Quantity)
		unit = r.Unit
		costPerUnit = FormatCurrency(r.CostPerUnit)
		pricePerUnit = FormatCurrency(r.PricePerUnit)
	}

	cols := []core.Col{
		col.New(1).Add(text.New(r.Index, base)),
		col.New(3).Add(text.New(descPrefix+r.Description, left)),
		col.New(1).Add(text.New(qty, right)),
		col.New(1).Add(text.New(unit, base)),
		col.New(1).Add(text.New(costPerUnit, right)),
		col.New(1).Add(text.New(FormatCurrency(r.TotalCost), right)),
		col.New(1).Add(text.New(FormatPercent(r.MarkupPercent), right)),
		col.New(1).Add(text.New(pricePerUnit, right)),
		col.New(2).Add(text.New(FormatCurrency(r.Total), right)),
	}
	if cellStyle != nil {
		for i := range cols {
			cols[i] = cols[i].WithStyle(cellStyle)
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}

type summaryLine struct {
	label string
	value string
}

// addSummary adds a shaded label/value block at the bottom of the document.
func addSummary(m core.Maroto, lines []summaryLine) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: colorShade}
	style := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.label, style)).WithStyle(summaryCell),
				col.New(4).Add(text.New(l.value, style)).WithStyle(summaryCell),
			),
		)
	}
}

// addFooter adds the generated-date line at the bottom.
func addFooter(m core.Maroto, date string) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", date),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: colorFaint,
					},
				),
			),
		),
	)
}
