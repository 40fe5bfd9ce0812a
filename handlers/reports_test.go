package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"sitebook/testhelpers"
)

func TestHandleMonthlyReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestPayment(t, app, w.Id, "2024-03-05", 5000)
	testhelpers.CreateTestPayment(t, app, w.Id, "2024-04-01", 9999)
	testhelpers.CreateTestExpense(t, app, "2024-03-02", "Material", 1200)
	testhelpers.CreateTestExpense(t, app, "2024-03-09", "Material", 300)
	testhelpers.CreateTestExpense(t, app, "2024-03-10", "Transport", 800)

	req := httptest.NewRequest(http.MethodGet, "/reports/monthly?month=2024-03", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMonthlyReport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got struct {
		Month     string          `json:"month"`
		Income    decimal.Decimal `json:"income"`
		Expenses  decimal.Decimal `json:"expenses"`
		Profit    decimal.Decimal `json:"profit"`
		Breakdown []struct {
			Category string          `json:"category"`
			Amount   decimal.Decimal `json:"amount"`
		} `json:"breakdown"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}
	if got.Month != "2024-03" {
		t.Errorf("month = %q", got.Month)
	}
	if !got.Income.Equal(decimal.NewFromInt(5000)) || !got.Expenses.Equal(decimal.NewFromInt(2300)) {
		t.Errorf("income %s, expenses %s; want 5000, 2300", got.Income, got.Expenses)
	}
	if !got.Profit.Equal(decimal.NewFromInt(2700)) {
		t.Errorf("profit = %s, want 2700", got.Profit)
	}
	if len(got.Breakdown) != 2 || got.Breakdown[0].Category != "Material" || !got.Breakdown[0].Amount.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("breakdown = %+v", got.Breakdown)
	}
}

func TestHandleMonthlyReport_Page(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/reports/monthly?month=2024-03", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMonthlyReport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "March 2024", "2024-02", "2024-04")
}

func TestHandleMonthlyReportExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestExpense(t, app, "2024-03-02", "Material", 1200)

	req := httptest.NewRequest(http.MethodGet, "/reports/monthly/export?month=2024-03", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMonthlyReportExport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Report_2024-03.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	// xlsx is a zip archive
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("expected an xlsx body")
	}
}
