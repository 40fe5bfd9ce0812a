package collections_test

import (
	"testing"

	"sitebook/collections"
	"sitebook/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"projects",
	"project_settings",
	"workers",
	"attendance",
	"material_types",
	"expenses",
	"estimates",
	"estimate_items",
	"client_ledger",
	"payments",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_Fields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		collection string
		fields     []string
	}{
		{"projects", []string{"name", "client_name", "site_address", "start_date", "status", "construction_types", "project_team"}},
		{"project_settings", []string{"project", "brand_name", "site_address", "logo", "background_type", "background_color", "background"}},
		{"workers", []string{"full_name", "phone_number", "skill_type", "daily_wage", "status", "aadhaar_number", "id_document"}},
		{"attendance", []string{"worker", "project", "date", "hajri_count", "kharchi_amount", "status"}},
		{"material_types", []string{"name", "default_rate"}},
		{"expenses", []string{"material", "category", "amount", "quantity", "rate", "description", "date", "bill_photo"}},
		{"estimates", []string{"name", "is_active"}},
		{"estimate_items", []string{"estimate", "sort_order", "description", "unit", "quantity", "rate", "amount", "category", "extra_data"}},
		{"client_ledger", []string{"date", "description", "bill_amount", "payment_received", "seq", "created"}},
		{"payments", []string{"worker", "amount", "payment_date", "payment_type", "method", "note"}},
	}

	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			col, err := app.FindCollectionByNameOrId(tt.collection)
			if err != nil {
				t.Fatalf("collection not found: %v", err)
			}
			for _, f := range tt.fields {
				if col.Fields.GetByName(f) == nil {
					t.Errorf("%s: missing field %q", tt.collection, f)
				}
			}
		})
	}
}

func TestSetup_CascadeRelations(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	cascades := []struct {
		collection string
		field      string
	}{
		{"attendance", "worker"},
		{"estimate_items", "estimate"},
	}

	for _, c := range cascades {
		col, _ := app.FindCollectionByNameOrId(c.collection)
		rf, ok := col.Fields.GetByName(c.field).(*core.RelationField)
		if !ok {
			t.Errorf("%s.%s is not a RelationField", c.collection, c.field)
			continue
		}
		if !rf.CascadeDelete {
			t.Errorf("%s.%s: expected CascadeDelete=true", c.collection, c.field)
		}
		if rf.MaxSelect != 1 {
			t.Errorf("%s.%s: expected MaxSelect=1, got %d", c.collection, c.field, rf.MaxSelect)
		}
	}
}

func TestSetup_AttendanceUniquePerWorkerDay(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	worker := testhelpers.CreateTestWorker(t, app, "Ramesh", 500)
	testhelpers.CreateTestAttendance(t, app, worker.Id, "2025-01-10", 1, 0)

	col, _ := app.FindCollectionByNameOrId("attendance")
	dup := core.NewRecord(col)
	dup.Set("worker", worker.Id)
	dup.Set("date", "2025-01-10")
	dup.Set("hajri_count", 0.5)
	if err := app.Save(dup); err == nil {
		t.Fatal("expected unique index violation for duplicate worker/date")
	}

	other := core.NewRecord(col)
	other.Set("worker", worker.Id)
	other.Set("date", "2025-01-11")
	if err := app.Save(other); err != nil {
		t.Fatalf("different date should save: %v", err)
	}
}

func TestSetup_SingleActiveEstimate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestEstimate(t, app, "First", true)
	testhelpers.CreateTestEstimate(t, app, "Draft A", false)
	testhelpers.CreateTestEstimate(t, app, "Draft B", false)

	col, _ := app.FindCollectionByNameOrId("estimates")
	second := core.NewRecord(col)
	second.Set("name", "Second")
	second.Set("is_active", true)
	if err := app.Save(second); err == nil {
		t.Fatal("expected partial unique index to reject a second active estimate")
	}
}

func TestSetup_DateFieldsRejectBadFormat(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	col, _ := app.FindCollectionByNameOrId("client_ledger")
	r := core.NewRecord(col)
	r.Set("date", "10/01/2025")
	r.Set("description", "Bill")
	r.Set("bill_amount", 100)
	if err := app.Save(r); err == nil {
		t.Error("expected date pattern validation error")
	}
}
