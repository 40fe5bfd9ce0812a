package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"sitebook/testhelpers"
)

func TestHandleExpenses_Month(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestExpense(t, app, "2024-03-02", "Material", 1200)
	testhelpers.CreateTestExpense(t, app, "2024-03-20", "Transport", 800)
	testhelpers.CreateTestExpense(t, app, "2024-04-01", "Material", 5000)

	req := httptest.NewRequest(http.MethodGet, "/expenses?month=2024-03", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleExpenses(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got struct {
		List struct {
			Month string            `json:"month"`
			Rows  []json.RawMessage `json:"expenses"`
			Total decimal.Decimal   `json:"total"`
		} `json:"list"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}
	if got.List.Month != "2024-03" || len(got.List.Rows) != 2 {
		t.Errorf("month %q with %d rows, want 2024-03 with 2", got.List.Month, len(got.List.Rows))
	}
	if !got.List.Total.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("total = %s, want 2000", got.List.Total)
	}
}

func TestHandleExpenseAdd(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	fields := map[string]string{
		"date":        "2024-03-05",
		"category":    "material",
		"quantity":    "50",
		"rate":        "380",
		"description": "OPC 53 grade",
	}
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newMultipartRequest(t, "/expenses", fields, nil), rec)

	if err := HandleExpenseAdd(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/expenses?month=2024-03")

	records, err := app.FindRecordsByFilter("expenses", "id != ''", "", 0, 0)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one expense, got %d (%v)", len(records), err)
	}
	if records[0].GetFloat("amount") != 19000 {
		t.Errorf("amount = %v, want quantity x rate", records[0].GetFloat("amount"))
	}
	if records[0].GetString("category") != "Material" {
		t.Errorf("category = %q", records[0].GetString("category"))
	}
}

func TestHandleExpenseAdd_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	fields := map[string]string{"date": "2024-03-05", "category": "Transport"}
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newMultipartRequest(t, "/expenses", fields, nil), rec)

	if err := HandleExpenseAdd(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Enter an amount, or a quantity and rate.")
	if n, _ := app.CountRecords("expenses"); n != 0 {
		t.Errorf("expenses = %d, want 0", n)
	}
}

func TestHandleExpenseAdd_PhotoRejected(t *testing.T) {
	tests := []struct {
		name       string
		proceed    string
		wantStatus int
		wantSaved  int64
	}{
		{"asks to retry", "", http.StatusConflict, 0},
		{"proceeds without photo", "true", http.StatusOK, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)

			fields := map[string]string{"date": "2024-03-05", "category": "Transport", "amount": "800"}
			if tt.proceed != "" {
				fields["proceed_without_photo"] = tt.proceed
			}
			files := map[string][2]string{"bill_photo": {"bill.txt", "not an image"}}
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, newMultipartRequest(t, "/expenses", fields, files), rec)

			if err := HandleExpenseAdd(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if n, _ := app.CountRecords("expenses"); n != tt.wantSaved {
				t.Errorf("expenses = %d, want %d", n, tt.wantSaved)
			}
		})
	}
}

func TestHandleExpenseDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	exp := testhelpers.CreateTestExpense(t, app, "2024-03-02", "Material", 1200)

	req := httptest.NewRequest(http.MethodDelete, "/expenses/"+exp.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", exp.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleExpenseDelete(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/expenses?month=2024-03")
	if n, _ := app.CountRecords("expenses"); n != 0 {
		t.Errorf("expenses = %d, want 0", n)
	}
}

func TestHandleMaterialAdd(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "Cement", 380)

	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{"new material", url.Values{"name": {"River Sand"}, "default_rate": {"55"}}, ""},
		{"missing name", url.Values{"default_rate": {"10"}}, "Material name is required."},
		{"duplicate", url.Values{"name": {"Cement"}}, "A material with this name already exists."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, newFormRequest(http.MethodPost, "/materials", tt.form), rec)

			if err := HandleMaterialAdd(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if tt.wantMsg == "" {
				testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/materials")
				return
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.wantMsg)
		})
	}

	if n, _ := app.CountRecords("material_types"); n != 2 {
		t.Errorf("materials = %d, want 2", n)
	}
}

func TestMonthOf(t *testing.T) {
	tests := map[string]string{
		"2024-03-05": "2024-03",
		"2024-03":    "2024-03",
		"2024":       "",
		"":           "",
	}
	for in, want := range tests {
		if got := monthOf(in); got != want {
			t.Errorf("monthOf(%q) = %q, want %q", in, got, want)
		}
	}
}
