package services

import (
	"fmt"
	"math"
	"strings"

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
	"github.com/shopspring/decimal"
)

// GeneratePDF renders an ExportData table as an A4 PDF using maroto/v2.
func GeneratePDF(data ExportData) ([]byte, error) {
	if len(data.Columns) == 0 || len(data.Columns) > 12 {
		return nil, fmt.Errorf("export %q: need 1-12 columns, got %d", data.Title, len(data.Columns))
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
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

	m := maroto.New(cfg)
	sizes := gridSizes(data.Columns)

	addHeader(m, data)
	addTableHeader(m, data.Columns, sizes)
	for i, r := range data.Rows {
		addTableRow(m, data.Columns, sizes, r, i%2 == 1)
	}
	addSummary(m, data.Summary)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// gridSizes spreads the column widths over maroto's 12-unit grid, giving
// every column at least one unit.
func gridSizes(cols []ExportColumn) []int {
	total := 0.0
	for _, c := range cols {
		total += math.Max(c.Width, 1)
	}
	sizes := make([]int, len(cols))
	used, widest := 0, 0
	for i, c := range cols {
		sizes[i] = int(math.Max(1, math.Floor(math.Max(c.Width, 1)/total*12)))
		used += sizes[i]
		if c.Width > cols[widest].Width {
			widest = i
		}
	}
	// rounding slack goes to the widest column, overflow is taken from it
	for used < 12 {
		sizes[widest]++
		used++
	}
	for used > 12 {
		for i := range sizes {
			if used > 12 && sizes[i] > 1 {
				sizes[i]--
				used--
			}
		}
	}
	return sizes
}

// addHeader adds the title, subtitle and date to the PDF.
func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(data.Subtitle, props.Text{Size: 9, Align: align.Left, Color: grey}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
	)

	m.AddRows(row.New(4))
}

func addTableHeader(m core.Maroto, cols []ExportColumn, sizes []int) {
	headerCell := props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	r := row.New(8)
	for i, c := range cols {
		r.Add(col.New(sizes[i]).Add(text.New(c.Header, headerText)).WithStyle(&headerCell))
	}
	m.AddRows(r)
}

// addTableRow adds one data row; odd rows get a light band.
func addTableRow(m core.Maroto, cols []ExportColumn, sizes []int, cells []any, banded bool) {
	var cellStyle *props.Cell
	if banded {
		cellStyle = &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	}

	r := row.New(7)
	for i, c := range cols {
		var v any
		if i < len(cells) {
			v = cells[i]
		}
		s, numeric := pdfCell(v, c.Money)
		style := props.Text{Size: 7, Align: align.Left}
		if numeric {
			style.Align = align.Right
		}
		column := col.New(sizes[i]).Add(text.New(s, style))
		if cellStyle != nil {
			column = column.WithStyle(cellStyle)
		}
		r.Add(column)
	}
	m.AddRows(r)
}

func pdfCell(v any, money bool) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, false
	case float64:
		if money {
			return rupees(decimal.NewFromFloat(val).StringFixed(2)), true
		}
		return formatQty(val), true
	case int:
		return fmt.Sprintf("%d", val), true
	default:
		return fmt.Sprint(val), false
	}
}

func addSummary(m core.Maroto, lines []SummaryLine) {
	if len(lines) == 0 {
		return
	}
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	style := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.Label, style)).WithStyle(summaryCell),
				col.New(4).Add(text.New(pdfText(l.Value), style)).WithStyle(summaryCell),
			),
		)
	}
}

// addFooter adds the generated-date line at the bottom.
func addFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

// pdfText swaps the rupee sign for "Rs. ", which the core fonts can draw.
func pdfText(s string) string {
	return strings.ReplaceAll(s, "₹", "Rs. ")
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
