package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"sitebook/services"
	"sitebook/testhelpers"
)

func TestHandleLedger_RunningBalance(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestLedgerEntry(t, app, "2024-03-10", "Advance received", 0, 30000)
	testhelpers.CreateTestLedgerEntry(t, app, "2024-03-01", "RA bill 1", 50000, 0)

	req := httptest.NewRequest(http.MethodGet, "/ledger", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleLedger(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got struct {
		Entries []struct {
			Description string          `json:"description"`
			Balance     decimal.Decimal `json:"running_balance"`
		} `json:"entries"`
		Totals struct {
			NetDue decimal.Decimal `json:"net_due"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(got.Entries))
	}
	if got.Entries[0].Description != "RA bill 1" {
		t.Errorf("first entry = %q, want the oldest", got.Entries[0].Description)
	}
	if !got.Entries[1].Balance.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("final balance = %s, want 20000", got.Entries[1].Balance)
	}
	if !got.Totals.NetDue.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("net due = %s, want 20000", got.Totals.NetDue)
	}
}

func TestHandleLedgerAdd(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantSaved int64
		wantMsg   string
	}{
		{
			name:      "bill",
			form:      url.Values{"date": {"2024-03-01"}, "description": {"RA bill 2"}, "bill_amount": {"75,000"}},
			wantSaved: 1,
		},
		{
			name:    "no amounts",
			form:    url.Values{"date": {"2024-03-01"}, "description": {"Nothing"}},
			wantMsg: "Please enter either a Bill Amount or Payment Received.",
		},
		{
			name:    "no description",
			form:    url.Values{"date": {"2024-03-01"}, "payment_received": {"500"}},
			wantMsg: "Please enter a description",
		},
		{
			name:    "bad date",
			form:    url.Values{"date": {"01/03/2024"}, "description": {"RA bill"}, "bill_amount": {"10"}},
			wantMsg: "expected YYYY-MM-DD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)

			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, newFormRequest(http.MethodPost, "/ledger", tt.form), rec)

			if err := HandleLedgerAdd(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if n, _ := app.CountRecords("client_ledger"); n != tt.wantSaved {
				t.Errorf("entries = %d, want %d", n, tt.wantSaved)
			}
			if tt.wantMsg == "" {
				testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/ledger")
				return
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestHandleLedgerAdd_JSONValidation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newFormRequest(http.MethodPost, "/ledger", url.Values{"date": {"2024-03-01"}, "description": {"x"}})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleLedgerAdd(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"field":"amount"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleLedgerDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	entry := testhelpers.CreateTestLedgerEntry(t, app, "2024-03-01", "RA bill 1", 50000, 0)

	req := httptest.NewRequest(http.MethodDelete, "/ledger/"+entry.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", entry.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleLedgerDelete(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/ledger")
	if n, _ := app.CountRecords("client_ledger"); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

func TestHandleLedgerDelete_OtherProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	siteA := testhelpers.CreateTestProject(t, app, "Site A")
	siteB := testhelpers.CreateTestProject(t, app, "Site B")
	entry := testhelpers.CreateTestLedgerEntry(t, app, "2024-03-01", "RA bill 1", 50000, 0)
	entry.Set("project", siteA.Id)
	if err := app.Save(entry); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/ledger/"+entry.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", entry.Id)
	req = withProject(req, siteB.Id, "Site B")
	rec := httptest.NewRecorder()

	if err := HandleLedgerDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if n, _ := app.CountRecords("client_ledger"); n != 1 {
		t.Errorf("entries = %d, want 1", n)
	}
}

func TestHandleLedgerExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestLedgerEntry(t, app, "2024-03-01", "RA bill 1", 50000, 0)

	req := withBranding(httptest.NewRequest(http.MethodGet, "/ledger/export?format=pdf", nil), services.Branding{BrandName: "Sharma Constructions"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleLedgerExport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected a PDF body")
	}
}
