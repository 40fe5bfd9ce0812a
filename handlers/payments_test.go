package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sitebook/services"
	"sitebook/testhelpers"
)

func TestHandlePayments(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestPayment(t, app, w.Id, "2024-03-05", 2500)

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandlePayments(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `"worker_name":"Ravi"`, `"payment_date":"2024-03-05"`)
}

func TestHandlePaymentAdd(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)

	tests := []struct {
		name      string
		form      url.Values
		wantMsg   string
		wantSaved int64
	}{
		{
			name:      "salary",
			form:      url.Values{"worker": {w.Id}, "amount": {"3000"}, "payment_date": {"2024-03-31"}, "method": {"UPI"}},
			wantSaved: 1,
		},
		{
			name:      "zero amount",
			form:      url.Values{"worker": {w.Id}, "amount": {"0"}, "payment_date": {"2024-03-31"}},
			wantMsg:   "Amount must be greater than zero.",
			wantSaved: 1,
		},
		{
			name:      "unknown type",
			form:      url.Values{"worker": {w.Id}, "amount": {"10"}, "payment_date": {"2024-03-31"}, "payment_type": {"loan"}},
			wantMsg:   "Unknown payment type.",
			wantSaved: 1,
		},
		{
			name:      "no worker",
			form:      url.Values{"amount": {"10"}, "payment_date": {"2024-03-31"}},
			wantMsg:   "Select a worker.",
			wantSaved: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, newFormRequest(http.MethodPost, "/payments", tt.form), rec)

			if err := HandlePaymentAdd(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if tt.wantMsg == "" {
				testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/payments")
			} else {
				testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.wantMsg)
			}
			if n, _ := app.CountRecords("payments"); n != tt.wantSaved {
				t.Errorf("payments = %d, want %d", n, tt.wantSaved)
			}
		})
	}
}

func TestHandlePaymentReceipt(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	p := testhelpers.CreateTestPayment(t, app, w.Id, "2024-03-05", 2500)

	req := httptest.NewRequest(http.MethodGet, "/payments/"+p.Id+"/receipt", nil)
	req.SetPathValue("id", p.Id)
	req = withBranding(req, services.Branding{BrandName: "Sharma Constructions", SiteAddress: "Plot 12"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandlePaymentReceipt(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, services.ReceiptFileName(p.Id)) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected a PDF body")
	}
}

func TestHandlePaymentReceipt_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/payments/missing/receipt", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandlePaymentReceipt(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
