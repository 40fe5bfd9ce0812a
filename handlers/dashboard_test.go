package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"sitebook/testhelpers"
)

func TestHandleDashboard_JSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestWorker(t, app, "Sunil", 600)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2024-03-05", 1.5, 100)
	est := testhelpers.CreateTestEstimate(t, app, "Ground Floor", true)
	testhelpers.CreateTestEstimateItem(t, app, est.Id, "PCC 1:4:8", 10, 50)
	testhelpers.CreateTestLedgerEntry(t, app, "2024-03-01", "RA bill 1", 1000, 400)
	testhelpers.CreateTestExpense(t, app, "2024-03-02", "Material", 200)

	req := httptest.NewRequest(http.MethodGet, "/?date=2024-03-05", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleDashboard(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got struct {
		Date          string          `json:"date"`
		TotalBudget   decimal.Decimal `json:"total_budget"`
		LaborCost     decimal.Decimal `json:"labor_cost"`
		MaterialCost  decimal.Decimal `json:"material_cost"`
		TotalBilled   decimal.Decimal `json:"total_billed"`
		TotalReceived decimal.Decimal `json:"total_received"`
		Today         struct {
			TotalWorkers int `json:"total_workers"`
			PresentToday int `json:"present_today"`
		} `json:"today"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}

	if got.Date != "2024-03-05" {
		t.Errorf("date = %q", got.Date)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want int64
	}{
		{"total_budget", got.TotalBudget, 500},
		{"labor_cost", got.LaborCost, 750},
		{"material_cost", got.MaterialCost, 200},
		{"total_billed", got.TotalBilled, 1000},
		{"total_received", got.TotalReceived, 400},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.NewFromInt(c.want)) {
			t.Errorf("%s = %s, want %d", c.name, c.got, c.want)
		}
	}
	if got.Today.TotalWorkers != 2 || got.Today.PresentToday != 1 {
		t.Errorf("today = %+v, want 2 workers with 1 present", got.Today)
	}
}

func TestHandleDashboard_Page(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleDashboard(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "<!DOCTYPE html>", "Dashboard")
}
