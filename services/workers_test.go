package services

import (
	"errors"
	"testing"

	"github.com/pocketbase/pocketbase/tools/filesystem"

	"sitebook/calc"
	"sitebook/testhelpers"
)

func TestCreateWorker(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Tower A")

	rec, err := CreateWorker(app, Scope{ProjectID: project.Id}, WorkerInput{
		FullName:  "  Ravi Kumar ",
		Phone:     "9876543210",
		Skill:     "Astronaut",
		DailyWage: 650.555,
		Age:       31,
	}, nil)
	if err != nil {
		t.Fatalf("CreateWorker: %v", err)
	}

	checks := map[string]string{
		"full_name":  "Ravi Kumar",
		"skill_type": "Laborer",
		"status":     "active",
		"project":    project.Id,
	}
	for field, want := range checks {
		if got := rec.GetString(field); got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}
	if rec.GetFloat("daily_wage") != 650.56 {
		t.Errorf("daily_wage = %v, want 650.56", rec.GetFloat("daily_wage"))
	}
}

func TestCreateWorker_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name  string
		in    WorkerInput
		field string
	}{
		{"blank name", WorkerInput{FullName: "  "}, "full_name"},
		{"negative wage", WorkerInput{FullName: "A", DailyWage: -1}, "daily_wage"},
		{"negative age", WorkerInput{FullName: "A", Age: -3}, "age"},
		{"bad phone", WorkerInput{FullName: "A", Phone: "12345"}, "phone_number"},
		{"bad aadhaar", WorkerInput{FullName: "A", Aadhaar: "0000"}, "aadhaar_number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateWorker(app, Scope{}, tt.in, nil)
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

func TestCreateWorker_BadDocumentIsPhotoError(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc, err := filesystem.NewFileFromBytes([]byte("#!/bin/sh\necho hi\n"), "id.sh")
	if err != nil {
		t.Fatal(err)
	}
	_, err = CreateWorker(app, Scope{}, WorkerInput{FullName: "Ravi"}, doc)
	if !IsPhotoError(err) {
		t.Fatalf("err = %v, want PhotoError", err)
	}

	// retry without the file succeeds
	if _, err := CreateWorker(app, Scope{}, WorkerInput{FullName: "Ravi"}, nil); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestUpdateWorker_RepricesHistory(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2025-01-10", 2, 0)

	if _, err := UpdateWorker(app, w.Id, WorkerInput{FullName: "Ravi", DailyWage: 600, Status: "inactive"}); err != nil {
		t.Fatalf("UpdateWorker: %v", err)
	}

	months, err := MonthlyLabor(app, Scope{})
	if err != nil {
		t.Fatal(err)
	}
	if len(months) != 1 || !months[0].Amount.Equal(dec("1200")) {
		t.Errorf("months = %+v, want January 1200", months)
	}

	got, _ := app.FindRecordById("workers", w.Id)
	if got.GetString("status") != "inactive" {
		t.Errorf("status = %q", got.GetString("status"))
	}
}

func TestDeleteWorker_Cascades(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	w := testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestAttendance(t, app, w.Id, "2025-01-10", 1, 0)
	testhelpers.CreateTestPayment(t, app, w.Id, "2025-01-11", 300)

	if err := DeleteWorker(app, Scope{}, w.Id); err != nil {
		t.Fatalf("DeleteWorker: %v", err)
	}
	for _, coll := range []string{"attendance", "payments"} {
		recs, err := app.FindAllRecords(coll)
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 0 {
			t.Errorf("%s rows = %d after worker delete", coll, len(recs))
		}
	}

	if err := DeleteWorker(app, Scope{}, "missing"); err == nil {
		t.Error("expected error for missing worker")
	}
}

func TestMatchWorker(t *testing.T) {
	workers := []calc.WorkerWage{
		{ID: "1", Name: "Ravi Kumar"},
		{ID: "2", Name: "Sita"},
		{ID: "3", Name: ""},
	}
	tests := []struct {
		name   string
		query  string
		wantID string
		ok     bool
	}{
		{"partial", "ravi", "1", true},
		{"query contains name", "Sita Devi", "2", true},
		{"case", "RAVI KUMAR", "1", true},
		{"no match", "Mohan", "", false},
		{"blank", "  ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchWorker(workers, tt.query)
			if ok != tt.ok || got.ID != tt.wantID {
				t.Errorf("MatchWorker(%q) = (%q, %v), want (%q, %v)", tt.query, got.ID, ok, tt.wantID, tt.ok)
			}
		})
	}
}
