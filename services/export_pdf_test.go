package services

import (
	"testing"
)

func assertPDF(t *testing.T, result []byte) {
	t.Helper()
	if len(result) < 5 {
		t.Fatalf("PDF too short: %d bytes", len(result))
	}
	if string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_Ledger(t *testing.T) {
	result, err := GeneratePDF(LedgerExport(sampleLedgerView(), "SiteBook", "2025-01-15"))
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	assertPDF(t, result)
}

func TestGeneratePDF_EmptyRows(t *testing.T) {
	data := MonthlyLaborExport(nil, "2025-01-15")
	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	assertPDF(t, result)
}

func TestGeneratePDF_ColumnLimits(t *testing.T) {
	if _, err := GeneratePDF(ExportData{Title: "none"}); err == nil {
		t.Error("expected error for zero columns")
	}

	cols := make([]ExportColumn, 13)
	for i := range cols {
		cols[i] = ExportColumn{Header: "c", Width: 5}
	}
	if _, err := GeneratePDF(ExportData{Title: "wide", Columns: cols}); err == nil {
		t.Error("expected error for 13 columns")
	}
}

func TestGeneratePDF_ManyRows(t *testing.T) {
	data := ExportData{
		Title:   "Long",
		Columns: []ExportColumn{{"Item", 30, false}, {"Qty", 8, false}, {"Amount", 12, true}},
	}
	for i := 0; i < 120; i++ {
		data.Rows = append(data.Rows, []any{"Cement bag", 2.5, 750.0})
	}
	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	assertPDF(t, result)
}

func TestGridSizes(t *testing.T) {
	tests := []struct {
		name   string
		widths []float64
	}{
		{"single", []float64{10}},
		{"even", []float64{10, 10, 10}},
		{"skewed", []float64{40, 5, 5, 5, 5}},
		{"twelve", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"zero widths", []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := make([]ExportColumn, len(tt.widths))
			for i, w := range tt.widths {
				cols[i] = ExportColumn{Header: "c", Width: w}
			}
			sizes := gridSizes(cols)
			sum := 0
			for _, s := range sizes {
				if s < 1 {
					t.Errorf("size %d < 1 in %v", s, sizes)
				}
				sum += s
			}
			if sum != 12 {
				t.Errorf("sizes %v sum to %d, want 12", sizes, sum)
			}
		})
	}
}

func TestPdfCell(t *testing.T) {
	tests := []struct {
		name      string
		v         any
		money     bool
		want      string
		wantRight bool
	}{
		{"nil", nil, false, "", false},
		{"text", "Cement", false, "Cement", false},
		{"money", 123456.5, true, "Rs. 1,23,456.50", true},
		{"qty whole", 3.0, false, "3", true},
		{"qty fraction", 1.5, false, "1.50", true},
		{"int", 7, false, "7", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, right := pdfCell(tt.v, tt.money)
			if got != tt.want || right != tt.wantRight {
				t.Errorf("pdfCell(%v, %v) = (%q, %v), want (%q, %v)", tt.v, tt.money, got, right, tt.want, tt.wantRight)
			}
		})
	}
}

func TestPdfText(t *testing.T) {
	if got := pdfText("₹1,000.00"); got != "Rs. 1,000.00" {
		t.Errorf("pdfText = %q", got)
	}
}
