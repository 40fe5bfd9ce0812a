package collections_test

import (
	"testing"

	"sitebook/testhelpers"
)

func TestHooks_AttendanceStatusFollowsQuantity(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	worker := testhelpers.CreateTestWorker(t, app, "Suresh", 600)

	tests := []struct {
		name       string
		date       string
		hajri      float64
		wantHajri  float64
		wantStatus string
	}{
		{"present", "2025-01-01", 1, 1, "Present"},
		{"absent", "2025-01-02", 0, 0, "Absent"},
		{"snaps to quarter", "2025-01-03", 1.1, 1, "Present"},
		{"negative clamps", "2025-01-04", -1, 0, "Absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testhelpers.CreateTestAttendance(t, app, worker.Id, tt.date, tt.hajri, 0)
			if got := rec.GetFloat("hajri_count"); got != tt.wantHajri {
				t.Errorf("hajri_count = %v, want %v", got, tt.wantHajri)
			}
			if got := rec.GetString("status"); got != tt.wantStatus {
				t.Errorf("status = %q, want %q", got, tt.wantStatus)
			}
		})
	}
}

func TestHooks_AttendanceStatusOverwrittenOnUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	worker := testhelpers.CreateTestWorker(t, app, "Suresh", 600)
	rec := testhelpers.CreateTestAttendance(t, app, worker.Id, "2025-01-01", 1, 0)

	// a stale client writing status alone cannot make the row disagree
	rec.Set("status", "Absent")
	if err := app.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, _ := app.FindRecordById("attendance", rec.Id)
	if reloaded.GetString("status") != "Present" {
		t.Errorf("status = %q, want Present (hajri_count is 1)", reloaded.GetString("status"))
	}
}

func TestHooks_EstimateItemAmount(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	est := testhelpers.CreateTestEstimate(t, app, "Slab", false)
	item := testhelpers.CreateTestEstimateItem(t, app, est.Id, "Concrete", 2.5, 100.5)

	if got := item.GetFloat("amount"); got != 251.25 {
		t.Errorf("amount = %v, want 251.25", got)
	}
	if got := item.GetString("category"); got != "General" {
		t.Errorf("category = %q, want General", got)
	}

	item.Set("rate", 200)
	item.Set("amount", 1) // ignored
	if err := app.Save(item); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := item.GetFloat("amount"); got != 500 {
		t.Errorf("amount after rate edit = %v, want 500", got)
	}
}

func TestHooks_LedgerSeqIncrements(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	first := testhelpers.CreateTestLedgerEntry(t, app, "2025-01-05", "Bill 1", 1000, 0)
	second := testhelpers.CreateTestLedgerEntry(t, app, "2025-01-05", "Payment", 0, 400)
	third := testhelpers.CreateTestLedgerEntry(t, app, "2025-01-01", "Back-dated bill", 200, 0)

	if first.GetInt("seq") != 1 || second.GetInt("seq") != 2 || third.GetInt("seq") != 3 {
		t.Errorf("seq = %d, %d, %d; want 1, 2, 3",
			first.GetInt("seq"), second.GetInt("seq"), third.GetInt("seq"))
	}
}
