package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"sitebook/calc"
)

// ExportColumn describes one column of a tabular export.
type ExportColumn struct {
	Header string
	Width  float64
	Money  bool
}

// SummaryLine is a label/value pair printed under the table.
type SummaryLine struct {
	Label string
	Value string
}

// ExportData is what a page displays, flattened for Excel or PDF output.
// Row cells are strings or numbers.
type ExportData struct {
	Title       string
	Subtitle    string
	CreatedDate string
	Columns     []ExportColumn
	Rows        [][]any
	Summary     []SummaryLine
}

// LedgerExport lays out the ledger with its running balance.
func LedgerExport(view *LedgerView, brand string, created string) ExportData {
	data := ExportData{
		Title:       "Client Ledger",
		Subtitle:    brand,
		CreatedDate: created,
		Columns: []ExportColumn{
			{"Date", 12, false}, {"Description", 40, false}, {"Bill Amount", 16, true},
			{"Payment Received", 18, true}, {"Balance", 16, true},
		},
	}
	for _, l := range view.Lines {
		data.Rows = append(data.Rows, []any{
			l.Date, l.Description, calc.Float(l.Bill), calc.Float(l.Payment), calc.Float(l.Balance),
		})
	}
	data.Summary = []SummaryLine{
		{"Total Billed", FormatINR(view.Totals.Billed)},
		{"Total Received", FormatINR(view.Totals.Received)},
		{"Net Due", FormatINR(view.Totals.NetDue)},
	}
	return data
}

// WorkerMonthExport lays out one worker's monthly card.
func WorkerMonthExport(card *WorkerCard, created string) ExportData {
	data := ExportData{
		Title:       fmt.Sprintf("%s - %s", card.Wage.Name, card.Label),
		Subtitle:    "Daily wage: " + FormatINR(card.Wage.Wage),
		CreatedDate: created,
		Columns: []ExportColumn{
			{"Date", 12, false}, {"Day", 8, false}, {"Hajri", 10, false}, {"Notation", 10, false},
			{"Kharchi", 14, true}, {"Earning", 14, true},
		},
	}
	for _, d := range card.Days {
		if !d.Recorded {
			data.Rows = append(data.Rows, []any{d.Date, d.Weekday, "", d.Display, "", ""})
			continue
		}
		data.Rows = append(data.Rows, []any{
			d.Date, d.Weekday, calc.Float(d.Hajri), d.Display, calc.Float(d.Advance), calc.Float(d.Earning),
		})
	}
	data.Summary = []SummaryLine{
		{"Total Hajri", FormatQty(card.Summary.TotalHajri)},
		{"Total Kharchi", FormatINR(card.Summary.TotalAdvance)},
		{"Net Payable", FormatINR(card.Summary.NetPayable)},
	}
	return data
}

// EstimateExport lays out an estimate's items with recomputed amounts.
func EstimateExport(d *EstimateDetail, created string) ExportData {
	data := ExportData{
		Title:       d.Name,
		CreatedDate: created,
		Columns: []ExportColumn{
			{"#", 6, false}, {"Description", 44, false}, {"Category", 14, false}, {"Unit", 8, false},
			{"Quantity", 10, false}, {"Rate", 14, true}, {"Amount", 16, true},
		},
	}
	if d.Active {
		data.Subtitle = "Active estimate"
	}
	for i, it := range d.Items {
		data.Rows = append(data.Rows, []any{
			i + 1, it.Description, it.Category, it.Unit, it.Quantity, it.Rate, calc.Float(it.Amount),
		})
	}
	data.Summary = []SummaryLine{{"Total", FormatINR(d.Total)}}
	return data
}

// MonthlyLaborExport lists labor spend per month, newest first.
func MonthlyLaborExport(months []calc.MonthCost, created string) ExportData {
	data := ExportData{
		Title:       "Monthly Labour Payment History",
		CreatedDate: created,
		Columns:     []ExportColumn{{"Month", 20, false}, {"Amount", 18, true}},
	}
	total := decimal.Zero
	for _, m := range months {
		data.Rows = append(data.Rows, []any{m.Month, calc.Float(m.Amount)})
		total = total.Add(m.Amount)
	}
	data.Summary = []SummaryLine{{"Total", FormatINR(total)}}
	return data
}

// MonthlyReportExport lays out the category breakdown of a monthly report.
func MonthlyReportExport(r *MonthlyReport, created string) ExportData {
	data := ExportData{
		Title:       "Monthly Financial Report",
		Subtitle:    r.Label,
		CreatedDate: created,
		Columns:     []ExportColumn{{"Category", 20, false}, {"Amount", 18, true}},
	}
	rows := append([]CategoryTotal(nil), r.Breakdown...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	for _, c := range rows {
		data.Rows = append(data.Rows, []any{c.Category, calc.Float(c.Amount)})
	}
	data.Summary = []SummaryLine{
		{"Income", FormatINR(r.Income)},
		{"Expenses", FormatINR(r.Expenses)},
		{"Profit", FormatINR(r.Profit)},
	}
	return data
}
