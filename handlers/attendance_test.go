package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"sitebook/testhelpers"
)

func newAttendanceRequest(workerID, date string, form url.Values) *http.Request {
	req := newFormRequest(http.MethodPatch, "/attendance/"+workerID+"/"+date, form)
	req.SetPathValue("workerId", workerID)
	req.SetPathValue("date", date)
	return req
}

func TestHandleAttendance(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ravi := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestWorker(t, app, "Sunil", 600)
	testhelpers.CreateTestAttendance(t, app, ravi.Id, "2024-03-05", 1.5, 0)

	req := httptest.NewRequest(http.MethodGet, "/attendance?date=2024-03-05", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleAttendance(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Ravi", "Sunil", `id="att-`+ravi.Id+`"`, `id="day-stats"`,
		`name="kharchi_amount"`, `hx-trigger="input changed delay:500ms"`)
}

func TestHandleAttendanceUpdate_Fields(t *testing.T) {
	tests := []struct {
		name        string
		form        url.Values
		wantHajri   int64
		wantKharchi int64
	}{
		{"status present", url.Values{"status": {"Present"}}, 1, 0},
		{"hajri count", url.Values{"hajri_count": {"2"}}, 2, 0},
		{"kharchi only", url.Values{"kharchi_amount": {"150"}}, 0, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)

			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, newAttendanceRequest(w.Id, "2024-03-05", tt.form), rec)

			if err := HandleAttendanceUpdate(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
			}

			records, err := app.FindRecordsByFilter("attendance", "worker = {:w}", "", 0, 0, map[string]any{"w": w.Id})
			if err != nil || len(records) != 1 {
				t.Fatalf("expected one attendance row, got %d (%v)", len(records), err)
			}
			if got := records[0].GetFloat("hajri_count"); got != float64(tt.wantHajri) {
				t.Errorf("hajri_count = %v, want %d", got, tt.wantHajri)
			}
			if got := records[0].GetFloat("kharchi_amount"); got != float64(tt.wantKharchi) {
				t.Errorf("kharchi_amount = %v, want %d", got, tt.wantKharchi)
			}
		})
	}
}

func TestHandleAttendanceUpdate_RowAndStats(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)

	rec := httptest.NewRecorder()
	form := url.Values{"hajri_count": {"1.5"}}
	e := newTestRequestEvent(app, newAttendanceRequest(w.Id, "2024-03-05", form), rec)

	if err := HandleAttendanceUpdate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, `id="att-`+w.Id+`"`, `hx-swap-oob="true"`)
	if strings.Index(body, `id="att-`) > strings.Index(body, `id="day-stats"`) {
		t.Error("expected the row before the out-of-band stats")
	}
}

func TestHandleAttendanceUpdate_JSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2024-03-05", 1, 0)

	req := newAttendanceRequest(w.Id, "2024-03-05", url.Values{"hajri_count": {"2"}})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleAttendanceUpdate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got struct {
		Created   bool            `json:"created"`
		Status    string          `json:"status"`
		CostDelta decimal.Decimal `json:"cost_delta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}
	if got.Created {
		t.Error("expected the existing row to be updated")
	}
	if got.Status != "Present" {
		t.Errorf("status = %q, want Present", got.Status)
	}
	if !got.CostDelta.Equal(decimal.NewFromInt(500)) {
		t.Errorf("cost_delta = %s, want 500", got.CostDelta)
	}
}

func TestHandleAttendanceUpdate_BadInput(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)

	tests := []struct {
		name string
		date string
		form url.Values
	}{
		{"no field", "2024-03-05", url.Values{"note": {"x"}}},
		{"unknown status", "2024-03-05", url.Values{"status": {"Leave"}}},
		{"bad date", "05-03-2024", url.Values{"hajri_count": {"1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, newAttendanceRequest(w.Id, tt.date, tt.form), rec)

			if err := HandleAttendanceUpdate(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}

	if n, _ := app.CountRecords("attendance"); n != 0 {
		t.Errorf("attendance = %d, want 0", n)
	}
}

func TestHandleAttendanceUpdate_OtherProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Site A")
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)

	req := withProject(newAttendanceRequest(w.Id, "2024-03-05", url.Values{"status": {"present"}}), proj.Id, "Site A")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleAttendanceUpdate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get("HX-Refresh") != "true" {
		t.Error("expected HX-Refresh for a worker outside the active project")
	}
}

func TestHandleMonthlyLabor(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2024-02-10", 1, 0)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2024-03-05", 2, 0)

	req := httptest.NewRequest(http.MethodGet, "/labor/monthly", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMonthlyLabor(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var months []struct {
		Month  string          `json:"month"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &months); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("months = %d, want 2", len(months))
	}
	if !months[0].Amount.Equal(decimal.NewFromInt(1000)) || !months[1].Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("amounts = %s, %s; want newest first 1000, 500", months[0].Amount, months[1].Amount)
	}
}

func TestHandleMonthlyLaborExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2024-03-05", 1, 0)

	tests := []struct {
		query    string
		wantType string
		wantName string
	}{
		{"", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "Monthly_Labour.xlsx"},
		{"?format=pdf", "application/pdf", "Monthly_Labour.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/labor/monthly/export"+tt.query, nil)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := HandleMonthlyLaborExport(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.wantType {
				t.Errorf("Content-Type = %q", ct)
			}
			if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, tt.wantName) {
				t.Errorf("Content-Disposition = %q", cd)
			}
		})
	}
}
