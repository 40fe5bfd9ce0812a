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

const boqCSV = "Item Description,Unit,Qty,Rate,Remarks\n" +
	"Excavation in hard soil,cum,100,250,by machine\n" +
	"PCC 1:4:8,cum,10,\"4,500\",\n" +
	",,,,\n"

func TestHandleEstimates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	est := testhelpers.CreateTestEstimate(t, app, "Ground Floor", true)
	testhelpers.CreateTestEstimateItem(t, app, est.Id, "Brickwork", 20, 100)

	req := httptest.NewRequest(http.MethodGet, "/estimates", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleEstimates(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Ground Floor")
}

func TestHandleEstimatePreview(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newMultipartRequest(t, "/estimates/preview", nil, map[string][2]string{"file": {"Tower B.csv", boqCSV}})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleEstimatePreview(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got struct {
		Name     string            `json:"name"`
		Mapping  map[string]string `json:"mapping"`
		Extras   []string          `json:"extras"`
		RowCount int               `json:"row_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}
	if got.Name != "Tower B" {
		t.Errorf("name = %q", got.Name)
	}
	if got.RowCount != 2 {
		t.Errorf("row_count = %d, want 2", got.RowCount)
	}
	want := map[string]string{"description": "Item Description", "unit": "Unit", "quantity": "Qty", "rate": "Rate"}
	for field, header := range want {
		if got.Mapping[field] != header {
			t.Errorf("mapping[%s] = %q, want %q", field, got.Mapping[field], header)
		}
	}
	if len(got.Extras) != 1 || got.Extras[0] != "Remarks" {
		t.Errorf("extras = %v", got.Extras)
	}
	if n, _ := app.CountRecords("estimates"); n != 0 {
		t.Errorf("preview stored %d estimates", n)
	}
}

func TestHandleEstimatePreview_BadFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name    string
		files   map[string][2]string
		wantMsg string
	}{
		{"no file", nil, "Choose a CSV or Excel file."},
		{"wrong type", map[string][2]string{"file": {"boq.pdf", "%PDF-1.4"}}, "unsupported file format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, newMultipartRequest(t, "/estimates/preview", map[string]string{"x": "y"}, tt.files), rec)

			if err := HandleEstimatePreview(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantMsg)
			}
		})
	}
}

func TestHandleEstimateImport(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	fields := map[string]string{
		"name":            "Tower B Civil",
		"map_description": "Item Description",
		"map_unit":        "Unit",
		"map_quantity":    "Qty",
		"map_rate":        "Rate",
		"extras":          "Remarks",
	}
	req := newMultipartRequest(t, "/estimates/import", fields, map[string][2]string{"file": {"Tower B.csv", boqCSV}})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleEstimateImport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID        string `json:"id"`
		ItemCount int    `json:"item_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ItemCount != 2 {
		t.Errorf("item_count = %d, want 2", created.ItemCount)
	}

	est, err := app.FindRecordById("estimates", created.ID)
	if err != nil {
		t.Fatalf("find estimate: %v", err)
	}
	if est.GetString("name") != "Tower B Civil" || est.GetBool("is_active") {
		t.Errorf("estimate = %q active=%v", est.GetString("name"), est.GetBool("is_active"))
	}

	items, err := app.FindRecordsByFilter("estimate_items", "estimate = {:id}", "sort_order", 0, 0, map[string]any{"id": est.Id})
	if err != nil || len(items) != 2 {
		t.Fatalf("items = %d (%v)", len(items), err)
	}
	if items[1].GetFloat("rate") != 4500 {
		t.Errorf("rate = %v, want 4500", items[1].GetFloat("rate"))
	}
	var extra map[string]string
	if err := items[0].UnmarshalJSONField("extra_data", &extra); err != nil || extra["Remarks"] != "by machine" {
		t.Errorf("extra_data = %v (%v)", extra, err)
	}
}

func TestHandleEstimateImport_DefaultsFromFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newMultipartRequest(t, "/estimates/import", map[string]string{"x": "y"}, map[string][2]string{"file": {"Villa BOQ.csv", boqCSV}})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleEstimateImport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := toastMessage(rec); got != "Estimate imported" {
		t.Errorf("toast = %q", got)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Villa BOQ")
}

func TestHandleEstimateActivate_SingleActive(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	first := testhelpers.CreateTestEstimate(t, app, "First", true)
	second := testhelpers.CreateTestEstimate(t, app, "Second", false)
	testhelpers.CreateTestEstimateItem(t, app, second.Id, "Plaster", 10, 30)

	req := httptest.NewRequest(http.MethodPost, "/estimates/"+second.Id+"/activate", nil)
	req.Header.Set("Accept", "application/json")
	req.SetPathValue("id", second.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleEstimateActivate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var list []struct {
		ID     string          `json:"id"`
		Active bool            `json:"is_active"`
		Total  decimal.Decimal `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}
	for _, est := range list {
		wantActive := est.ID == second.Id
		if est.Active != wantActive {
			t.Errorf("estimate %s active = %v, want %v", est.ID, est.Active, wantActive)
		}
	}

	f, _ := app.FindRecordById("estimates", first.Id)
	if f.GetBool("is_active") {
		t.Error("previous estimate should be inactive")
	}
}

func TestHandleEstimateDeactivateAndDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	est := testhelpers.CreateTestEstimate(t, app, "Only", true)
	testhelpers.CreateTestEstimateItem(t, app, est.Id, "Plaster", 10, 30)

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/estimates/"+est.Id, nil)
		req.Header.Set("HX-Request", "true")
		req.SetPathValue("id", est.Id)
		return req
	}

	rec := httptest.NewRecorder()
	if err := HandleEstimateDeactivate(app)(newTestRequestEvent(app, newReq(), rec)); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, _ := app.FindRecordById("estimates", est.Id)
	if got.GetBool("is_active") {
		t.Error("expected estimate to be inactive")
	}

	rec = httptest.NewRecorder()
	if err := HandleEstimateDelete(app)(newTestRequestEvent(app, newReq(), rec)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := app.CountRecords("estimate_items"); n != 0 {
		t.Errorf("estimate_items = %d, want 0 after cascade", n)
	}

	rec = httptest.NewRecorder()
	if err := HandleEstimateDelete(app)(newTestRequestEvent(app, newReq(), rec)); err != nil {
		t.Fatalf("delete again: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestHandleEstimateExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	est := testhelpers.CreateTestEstimate(t, app, "Ground Floor", true)
	testhelpers.CreateTestEstimateItem(t, app, est.Id, "Brickwork", 20, 100)

	req := httptest.NewRequest(http.MethodGet, "/estimates/"+est.Id+"/export", nil)
	req.SetPathValue("id", est.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleEstimateExport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Estimate_Ground-Floor.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}
