package services

import (
	"testing"

	"sitebook/calc"
	"sitebook/testhelpers"
)

func TestReceiptNumber(t *testing.T) {
	tests := []struct {
		id       string
		number   string
		fileName string
	}{
		{"abcdefgh12345", "ABCDEFGH", "receipt-abcdefgh.pdf"},
		{"short", "SHORT", "receipt-short.pdf"},
	}
	for _, tt := range tests {
		if got := ReceiptNumber(tt.id); got != tt.number {
			t.Errorf("ReceiptNumber(%q) = %q, want %q", tt.id, got, tt.number)
		}
		if got := ReceiptFileName(tt.id); got != tt.fileName {
			t.Errorf("ReceiptFileName(%q) = %q, want %q", tt.id, got, tt.fileName)
		}
	}
}

func TestRupees(t *testing.T) {
	tests := map[string]string{
		"0.00":        "Rs. 0.00",
		"999.50":      "Rs. 999.50",
		"123456.00":   "Rs. 1,23,456.00",
		"-1500.00":    "-Rs. 1,500.00",
		"12345678.90": "Rs. 1,23,45,678.90",
	}
	for in, want := range tests {
		if got := rupees(in); got != want {
			t.Errorf("rupees(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildReceiptData(t *testing.T) {
	p := &PaymentRow{
		ID:         "pay12345xyz",
		WorkerName: "Ravi Kumar",
		Phone:      "9876543210",
		Amount:     dec("1500"),
		Date:       "2025-03-05",
		Type:       "cash_advance",
		Method:     "UPI",
		Note:       "festival",
	}

	t.Run("branded", func(t *testing.T) {
		data := BuildReceiptData(p, Branding{BrandName: "Sharma Builders", Tagline: "Construction Management"})
		if data.Number != "PAY12345" {
			t.Errorf("Number = %q", data.Number)
		}
		if data.Date != "05/03/2025" {
			t.Errorf("Date = %q", data.Date)
		}
		if data.Amount != "Rs. 1,500.00" {
			t.Errorf("Amount = %q", data.Amount)
		}
		if data.Item != PaymentTypeLabel("cash_advance")+" - festival" {
			t.Errorf("Item = %q", data.Item)
		}
		if data.BrandName != "Sharma Builders" {
			t.Errorf("BrandName = %q", data.BrandName)
		}
		if data.AmountWords == "" {
			t.Error("AmountWords is empty")
		}
	})

	t.Run("fallback name", func(t *testing.T) {
		data := BuildReceiptData(p, Branding{})
		if data.BrandName != "Project Site" {
			t.Errorf("BrandName = %q, want Project Site", data.BrandName)
		}
	})
}

func TestGenerateReceiptPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi Kumar", 500)
	rec := testhelpers.CreateTestPayment(t, app, w.Id, "2025-03-05", 2500)

	p, err := FindPayment(app, rec.Id)
	if err != nil {
		t.Fatalf("FindPayment: %v", err)
	}
	if p.WorkerName != "Ravi Kumar" || !p.Amount.Equal(calc.Money(2500)) {
		t.Fatalf("payment row = %+v", p)
	}

	result, err := GenerateReceiptPDF(BuildReceiptData(p, Branding{BrandName: "SiteBook"}))
	if err != nil {
		t.Fatalf("GenerateReceiptPDF() error = %v", err)
	}
	assertPDF(t, result)
}

func TestGenerateReceiptPDF_WithLogo(t *testing.T) {
	logo, err := NormalizeLogo(testPNG(t, 600, 300))
	if err != nil {
		t.Fatalf("NormalizeLogo: %v", err)
	}
	data := ReceiptData{
		Number:    "ABCDEFGH",
		Date:      "05/03/2025",
		Amount:    "Rs. 100.00",
		PayeeName: "Ravi",
		BrandName: "SiteBook",
		Logo:      logo,
	}
	result, err := GenerateReceiptPDF(data)
	if err != nil {
		t.Fatalf("GenerateReceiptPDF() error = %v", err)
	}
	assertPDF(t, result)
}
