package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sitebook/testhelpers"
)

type stubCompleter struct {
	reply string
	err   error
	input string
}

func (s *stubCompleter) Complete(_ context.Context, _, input string) (string, error) {
	s.input = input
	return s.reply, s.err
}

func newMagicRequest(kind string, form url.Values) *http.Request {
	req := newFormRequest(http.MethodPost, "/magic/"+kind, form)
	req.SetPathValue("kind", kind)
	return req
}

func TestHandleMagicPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		kind       string
		wantStatus int
	}{
		{"attendance", http.StatusOK},
		{"expense", http.StatusOK},
		{"estimate", http.StatusOK},
		{"payroll", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/magic/"+tt.kind, nil)
			req.Header.Set("HX-Request", "true")
			req.SetPathValue("kind", tt.kind)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := HandleMagicPage(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleMagicParse_NotConfigured(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newMagicRequest("expense", url.Values{"text": {"cement 50 bags"}}), rec)

	if err := HandleMagicParse(app, nil)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleMagicParse_Errors(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name       string
		kind       string
		text       string
		completer  *stubCompleter
		wantStatus int
	}{
		{"empty text", "expense", "  ", &stubCompleter{}, http.StatusBadRequest},
		{"unknown kind", "payroll", "x", &stubCompleter{}, http.StatusNotFound},
		{"upstream failure", "expense", "cement", &stubCompleter{err: errors.New("quota exceeded")}, http.StatusBadGateway},
		{"garbage reply", "expense", "cement", &stubCompleter{reply: "Sure! Here you go."}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, newMagicRequest(tt.kind, url.Values{"text": {tt.text}}), rec)

			if err := HandleMagicParse(app, tt.completer)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestHandleMagicParse_Attendance(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ravi := testhelpers.CreateTestWorker(t, app, "Ravi Kumar", 500)

	c := &stubCompleter{reply: "```json\n" + `[{"worker_name":"ravi","status":"Present"},{"worker_name":"Mohan","status":"Absent"}]` + "\n```"}
	req := newMagicRequest("attendance", url.Values{"text": {"ravi present, mohan absent"}, "date": {"2024-03-05"}})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMagicParse(app, c)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if c.input != "ravi present, mohan absent" {
		t.Errorf("completer input = %q", c.input)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `"matched_worker_id":"`+ravi.Id+`"`, `"worker_name":"Mohan"`)
	if n, _ := app.CountRecords("attendance"); n != 0 {
		t.Errorf("parse stored %d attendance rows", n)
	}
}

func TestHandleMagicParse_ExpensePreview(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	c := &stubCompleter{reply: `{"item_name":"Cement","quantity":"50","unit":"bags","amount":"₹17,500","category":"material"}`}
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newMagicRequest("expense", url.Values{"text": {"50 bags cement 17500"}}), rec)

	if err := HandleMagicParse(app, c)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Cement", "bags")
}

func TestHandleMagicAttendanceCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ravi := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestAttendance(t, app, ravi.Id, "2024-03-05", 2, 0)
	sunil := testhelpers.CreateTestWorker(t, app, "Sunil", 600)

	form := url.Values{
		"date":  {"2024-03-05"},
		"reply": {`[{"worker_name":"Ravi","status":"Present"},{"worker_name":"Sunil","status":"Present"},{"worker_name":"Nobody"}]`},
	}
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newFormRequest(http.MethodPost, "/magic/attendance/commit", form), rec)

	if err := HandleMagicAttendanceCommit(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/attendance?date=2024-03-05")

	want := map[string]float64{ravi.Id: 2, sunil.Id: 1}
	for id, hajri := range want {
		rows, err := app.FindRecordsByFilter("attendance", "worker = {:w}", "", 0, 0, map[string]any{"w": id})
		if err != nil || len(rows) != 1 {
			t.Fatalf("worker %s: %d rows (%v)", id, len(rows), err)
		}
		if got := rows[0].GetFloat("hajri_count"); got != hajri {
			t.Errorf("worker %s hajri = %v, want %v", id, got, hajri)
		}
	}
}

func TestHandleMagicAttendanceCommit_NoMatches(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestWorker(t, app, "Ravi", 500)

	form := url.Values{"date": {"2024-03-05"}, "reply": {`[{"worker_name":"Nobody"}]`}}
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newFormRequest(http.MethodPost, "/magic/attendance/commit", form), rec)

	if err := HandleMagicAttendanceCommit(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No matched workers found to save.") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandleMagicExpenseCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{
		"date":  {"2024-03-05"},
		"reply": {`[{"item_name":"Cement","quantity":50,"unit":"bags","amount":17500,"category":"Material"},{"item_name":"Tractor hire","amount":"1,200","category":"transport"}]`},
	}
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newFormRequest(http.MethodPost, "/magic/expense/commit", form), rec)

	if err := HandleMagicExpenseCommit(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/expenses?month=2024-03")

	rows, err := app.FindRecordsByFilter("expenses", "id != ''", "-amount", 0, 0)
	if err != nil || len(rows) != 2 {
		t.Fatalf("expenses = %d (%v)", len(rows), err)
	}
	if rows[0].GetFloat("amount") != 17500 || rows[0].GetFloat("rate") != 350 {
		t.Errorf("cement amount/rate = %v/%v", rows[0].GetFloat("amount"), rows[0].GetFloat("rate"))
	}
	if rows[1].GetString("category") != "Transport" {
		t.Errorf("category = %q", rows[1].GetString("category"))
	}
}

func TestHandleMagicEstimateCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name       string
		reply      string
		wantStatus int
		wantCount  int64
	}{
		{"saves", `[{"description":"Brickwork","unit":"cum","quantity":12,"rate":"6,000"}]`, http.StatusOK, 1},
		{"empty", `[]`, http.StatusBadRequest, 1},
		{"invalid", `not json`, http.StatusBadGateway, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			form := url.Values{"reply": {tt.reply}}
			e := newTestRequestEvent(app, newFormRequest(http.MethodPost, "/magic/estimate/commit", form), rec)

			if err := HandleMagicEstimateCommit(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if n, _ := app.CountRecords("estimates"); n != tt.wantCount {
				t.Errorf("estimates = %d, want %d", n, tt.wantCount)
			}
		})
	}

	est, err := app.FindFirstRecordByData("estimates", "name", "AI Estimate")
	if err != nil {
		t.Fatalf("find estimate: %v", err)
	}
	if n, _ := app.CountRecords("estimate_items"); n != 1 {
		t.Errorf("estimate_items = %d for %s, want 1", n, est.Id)
	}
}
