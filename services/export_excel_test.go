package services

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"sitebook/calc"
)

func sampleLedgerView() *LedgerView {
	entries := []calc.LedgerEntry{
		{ID: "a", Date: "2025-01-01", Seq: 1, Description: "RA bill 1", Bill: dec("1000")},
		{ID: "b", Date: "2025-01-05", Seq: 2, Description: "Cheque", Payment: dec("600")},
	}
	return &LedgerView{Lines: calc.RunningBalances(entries), Totals: calc.SumLedger(entries)}
}

func TestGenerateExcel_Ledger(t *testing.T) {
	data := LedgerExport(sampleLedgerView(), "SiteBook", "2025-01-15")

	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Client Ledger" {
		t.Fatalf("sheets = %v, want [Client Ledger]", sheets)
	}
	sheet := sheets[0]

	cells := map[string]string{
		"A1":  "Client Ledger",
		"A2":  "SiteBook",
		"A3":  "Date: 2025-01-15",
		"A5":  "Date",
		"E5":  "Balance",
		"B6":  "RA bill 1",
		"B7":  "Cheque",
		"D9":  "Total Billed:",
		"E9":  "₹1,000.00",
		"E11": "₹400.00",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	// balances stay numeric
	typ, err := f.GetCellType(sheet, "E7")
	if err != nil {
		t.Fatal(err)
	}
	if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Errorf("balance cell type = %v, want number", typ)
	}
	raw, _ := f.GetCellValue(sheet, "E7", excelize.Options{RawCellValue: true})
	if raw != "400" {
		t.Errorf("raw balance = %q, want 400", raw)
	}
}

func TestGenerateExcel_NoColumns(t *testing.T) {
	if _, err := GenerateExcel(ExportData{Title: "Empty"}); err == nil {
		t.Error("expected error for export without columns")
	}
}

func TestGenerateExcel_ShortRowsArePadded(t *testing.T) {
	data := ExportData{
		Title:   "Padded",
		Columns: []ExportColumn{{"A", 10, false}, {"B", 10, false}, {"C", 10, true}},
		Rows:    [][]any{{"only one"}},
	}
	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Padded", "A6"); got != "only one" {
		t.Errorf("A6 = %q", got)
	}
	if got, _ := f.GetCellValue("Padded", "C6"); got != "" {
		t.Errorf("C6 = %q, want empty", got)
	}
}

func TestSheetTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Client Ledger", "Client Ledger"},
		{"forbidden chars", "Ravi - 01/2025 [draft]?", "Ravi - 012025 draft"},
		{"truncated", "This is a very long title that exceeds thirty one characters", "This is a very long title that "},
		{"empty", "", "Sheet1"},
		{"only forbidden", "/:*", "Sheet1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sheetTitle(tt.title); got != tt.want {
				t.Errorf("sheetTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+91 98765", "'+91 98765"},
		{"-5", "'-5"},
		{"@cmd", "'@cmd"},
		{"Cement", "Cement"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.in); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWorkerMonthExport_BlankDays(t *testing.T) {
	days, summary := calc.WorkerMonth(dec("500"), mustMonth(t, "2025-02"), []calc.DayRecord{
		{WorkerID: "w", Date: "2025-02-03", Hajri: dec("1"), Advance: dec("100")},
	})
	card := &WorkerCard{
		Wage:    calc.WorkerWage{ID: "w", Name: "Ravi", Wage: dec("500")},
		Label:   "February 2025",
		Days:    days,
		Summary: summary,
	}

	data := WorkerMonthExport(card, "2025-03-01")
	if data.Title != "Ravi - February 2025" {
		t.Errorf("Title = %q", data.Title)
	}
	if len(data.Rows) != 28 {
		t.Fatalf("rows = %d, want 28", len(data.Rows))
	}
	if data.Rows[0][2] != "" {
		t.Errorf("unrecorded day hajri = %v, want blank", data.Rows[0][2])
	}
	if data.Rows[2][5] != 400.0 {
		t.Errorf("recorded day earning = %v, want 400", data.Rows[2][5])
	}
	last := data.Summary[len(data.Summary)-1]
	if last.Label != "Net Payable" || last.Value != "₹400.00" {
		t.Errorf("summary = %+v", last)
	}
}

func TestMonthlyReportExport_SortsByCategory(t *testing.T) {
	r := &MonthlyReport{
		Label: "March 2025",
		Breakdown: []CategoryTotal{
			{Category: "Transport", Amount: dec("900")},
			{Category: "Food", Amount: dec("100")},
		},
		Income:   dec("2000"),
		Expenses: dec("1000"),
		Profit:   dec("1000"),
	}
	data := MonthlyReportExport(r, "2025-04-01")
	if data.Rows[0][0] != "Food" || data.Rows[1][0] != "Transport" {
		t.Errorf("rows = %v", data.Rows)
	}
	if data.Summary[2].Value != "₹1,000.00" {
		t.Errorf("profit = %q", data.Summary[2].Value)
	}
}

func mustMonth(t *testing.T, s string) time.Time {
	t.Helper()
	m, err := ParseMonth(s)
	if err != nil {
		t.Fatalf("ParseMonth(%q): %v", s, err)
	}
	return m
}
