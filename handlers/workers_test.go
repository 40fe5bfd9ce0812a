package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sitebook/testhelpers"
)

var workerFields = map[string]string{
	"full_name":    "Ramesh Kumar",
	"phone_number": "9876500000",
	"skill_type":   "Mason",
	"daily_wage":   "1,200",
	"age":          "34",
}

func TestHandleWorkerList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestWorker(t, app, "Sunil", 650)

	req := httptest.NewRequest(http.MethodGet, "/workers", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleWorkerList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Ravi", "Sunil")
}

func TestHandleWorkerCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Site A")

	req := withProject(newMultipartRequest(t, "/workers", workerFields, nil), proj.Id, "Site A")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleWorkerCreate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/workers")

	records, err := app.FindRecordsByFilter("workers", "full_name = 'Ramesh Kumar'", "", 0, 0)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one worker, got %d (%v)", len(records), err)
	}
	w := records[0]
	if w.GetFloat("daily_wage") != 1200 {
		t.Errorf("daily_wage = %v, want 1200", w.GetFloat("daily_wage"))
	}
	if w.GetString("project") != proj.Id {
		t.Errorf("project = %q, want %q", w.GetString("project"), proj.Id)
	}
	if w.GetString("skill_type") != "Mason" || w.GetInt("age") != 34 {
		t.Errorf("skill/age = %q/%d", w.GetString("skill_type"), w.GetInt("age"))
	}
}

func TestHandleWorkerCreate_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	fields := map[string]string{"full_name": "  ", "daily_wage": "500"}
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newMultipartRequest(t, "/workers", fields, nil), rec)

	if err := HandleWorkerCreate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get("HX-Redirect") != "" {
		t.Error("expected the form to be re-rendered")
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Name is required.")

	if n, _ := app.CountRecords("workers"); n != 0 {
		t.Errorf("workers = %d, want 0", n)
	}
}

func TestHandleWorkerCreate_DocumentRejected(t *testing.T) {
	tests := []struct {
		name       string
		proceed    bool
		wantStatus int
		wantSaved  int64
	}{
		{"asks to retry", false, http.StatusConflict, 0},
		{"proceeds without document", true, http.StatusOK, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)

			fields := map[string]string{"full_name": "Ravi", "daily_wage": "500"}
			if tt.proceed {
				fields["proceed_without_photo"] = "on"
			}
			// plain text is not an accepted id_document type
			files := map[string][2]string{"id_document": {"notes.txt", "not a scan"}}
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, newMultipartRequest(t, "/workers", fields, files), rec)

			if err := HandleWorkerCreate(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if n, _ := app.CountRecords("workers"); n != tt.wantSaved {
				t.Errorf("workers = %d, want %d", n, tt.wantSaved)
			}
			if !tt.proceed && !strings.Contains(rec.Body.String(), "save without the document") {
				t.Errorf("expected retry hint, got %q", rec.Body.String())
			}
		})
	}
}

func TestHandleWorkerSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)

	form := url.Values{
		"full_name":  {"Ravi Shankar"},
		"skill_type": {"Carpenter"},
		"daily_wage": {"750"},
		"status":     {"inactive"},
	}
	req := newFormRequest(http.MethodPost, "/workers/"+w.Id, form)
	req.SetPathValue("id", w.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleWorkerSave(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/workers/"+w.Id)

	got, err := app.FindRecordById("workers", w.Id)
	if err != nil {
		t.Fatalf("find worker: %v", err)
	}
	if got.GetString("full_name") != "Ravi Shankar" || got.GetFloat("daily_wage") != 750 || got.GetString("status") != "inactive" {
		t.Errorf("worker not updated: %s %v %s", got.GetString("full_name"), got.GetFloat("daily_wage"), got.GetString("status"))
	}
}

func TestHandleWorkerDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2024-03-05", 1, 0)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"existing", w.Id, http.StatusOK},
		{"missing", "nonexistent", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/workers/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := HandleWorkerDelete(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	if n, _ := app.CountRecords("attendance"); n != 0 {
		t.Errorf("attendance = %d, want 0 after cascade", n)
	}
}

func TestHandleWorkerCard(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2024-03-05", 1, 50)

	req := httptest.NewRequest(http.MethodGet, "/workers/"+w.Id+"?month=2024-03", nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", w.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleWorkerCard(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Ravi", "2024-02", "2024-04")
}

func TestHandleWorkerExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi Kumar", 500)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2024-03-05", 1, 0)

	req := httptest.NewRequest(http.MethodGet, "/workers/"+w.Id+"/export?month=2024-03", nil)
	req.SetPathValue("id", w.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleWorkerExport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "Ravi-Kumar_2024-03.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected a workbook body")
	}
}
