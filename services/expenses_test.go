package services

import (
	"errors"
	"testing"
	"time"

	"sitebook/calc"
	"sitebook/testhelpers"
)

func TestAddExpense(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cement := testhelpers.CreateTestMaterial(t, app, "Cement", 350)

	tests := []struct {
		name       string
		in         ExpenseInput
		wantAmount float64
		wantCat    string
	}{
		{
			name:       "amount from qty and rate",
			in:         ExpenseInput{Date: "2025-03-01", Category: "material", MaterialID: cement.Id, Quantity: 10, Rate: 350},
			wantAmount: 3500,
			wantCat:    "Material",
		},
		{
			name:       "explicit amount wins",
			in:         ExpenseInput{Date: "2025-03-02", Category: "Transport", Quantity: 2, Rate: 100, Amount: 250},
			wantAmount: 250,
			wantCat:    "Transport",
		},
		{
			name:       "unknown category",
			in:         ExpenseInput{Date: "2025-03-03", Category: "snacks", Amount: 80},
			wantAmount: 80,
			wantCat:    "Other",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := AddExpense(app, Scope{}, tt.in, nil)
			if err != nil {
				t.Fatalf("AddExpense: %v", err)
			}
			if rec.GetFloat("amount") != tt.wantAmount {
				t.Errorf("amount = %v, want %v", rec.GetFloat("amount"), tt.wantAmount)
			}
			if rec.GetString("category") != tt.wantCat {
				t.Errorf("category = %q, want %q", rec.GetString("category"), tt.wantCat)
			}
		})
	}
}

func TestAddExpense_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name  string
		in    ExpenseInput
		field string
	}{
		{"bad date", ExpenseInput{Date: "01-03-2025", Amount: 10}, "date"},
		{"negative", ExpenseInput{Date: "2025-03-01", Amount: -5}, "amount"},
		{"zero", ExpenseInput{Date: "2025-03-01"}, "amount"},
		{"qty without rate", ExpenseInput{Date: "2025-03-01", Quantity: 3}, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddExpense(app, Scope{}, tt.in, nil)
			var ve *calc.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestListExpenses(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	sand := testhelpers.CreateTestMaterial(t, app, "Sand", 40)

	if _, err := AddExpense(app, Scope{}, ExpenseInput{Date: "2025-03-05", Category: "Material", MaterialID: sand.Id, Quantity: 10, Rate: 40}, nil); err != nil {
		t.Fatal(err)
	}
	testhelpers.CreateTestExpense(t, app, "2025-03-20", "Food", 150)
	testhelpers.CreateTestExpense(t, app, "2025-04-01", "Food", 999)

	list, err := ListExpenses(app, Scope{}, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(list.Rows))
	}
	if list.Rows[0].Date != "2025-03-20" {
		t.Errorf("first row = %s, want newest first", list.Rows[0].Date)
	}
	if list.Rows[1].Material != "Sand" {
		t.Errorf("material = %q", list.Rows[1].Material)
	}
	if !list.Total.Equal(dec("550")) {
		t.Errorf("total = %s, want 550", list.Total)
	}
	if list.Label != "March 2025" {
		t.Errorf("label = %q", list.Label)
	}
}

func TestDeleteExpense(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestExpense(t, app, "2025-03-20", "Food", 150)

	if _, err := DeleteExpense(app, Scope{}, rec.Id); err != nil {
		t.Fatal(err)
	}
	if _, err := app.FindRecordById("expenses", rec.Id); err == nil {
		t.Error("expense still exists")
	}
	if _, err := DeleteExpense(app, Scope{}, rec.Id); err == nil {
		t.Error("expected error deleting twice")
	}
}

func TestMaterials(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := AddMaterial(app, " Steel ", 65); err != nil {
		t.Fatalf("AddMaterial: %v", err)
	}
	if _, err := AddMaterial(app, "Bricks", 8); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		mat   string
		rate  float64
		field string
	}{
		{"duplicate ignoring case", "STEEL", 70, "name"},
		{"blank", "  ", 1, "name"},
		{"negative rate", "Gravel", -1, "default_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddMaterial(app, tt.mat, tt.rate)
			var ve *calc.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("err = %v, want ValidationError on %s", err, tt.field)
			}
		})
	}

	list, err := ListMaterials(app)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "Bricks" || list[1].Name != "Steel" {
		t.Errorf("materials = %+v", list)
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]string{
		"material":  "Material",
		"TRANSPORT": "Transport",
		"food":      "Food",
		"labour":    "Other",
		"":          "Other",
	}
	for in, want := range tests {
		if got := NormalizeCategory(in); got != want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}
