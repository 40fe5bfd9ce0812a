package collections_test

import (
	"testing"

	"sitebook/collections"
	"sitebook/testhelpers"
)

func TestMigrateOrphansToProject_CreatesDefaultProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	worker := testhelpers.CreateTestWorker(t, app, "Orphan Worker", 500)
	att := testhelpers.CreateTestAttendance(t, app, worker.Id, "2025-01-01", 1, 0)
	entry := testhelpers.CreateTestLedgerEntry(t, app, "2025-01-01", "Bill", 100, 0)

	if err := collections.MigrateOrphansToProject(app); err != nil {
		t.Fatalf("MigrateOrphansToProject() error: %v", err)
	}

	projects, _ := app.FindAllRecords("projects")
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].GetString("name") != collections.DefaultProjectName {
		t.Errorf("project name = %q, want %q", projects[0].GetString("name"), collections.DefaultProjectName)
	}
	pid := projects[0].Id

	for _, check := range []struct{ collection, id string }{
		{"workers", worker.Id},
		{"attendance", att.Id},
		{"client_ledger", entry.Id},
	} {
		rec, err := app.FindRecordById(check.collection, check.id)
		if err != nil {
			t.Fatalf("reload %s: %v", check.collection, err)
		}
		if rec.GetString("project") != pid {
			t.Errorf("%s %s project = %q, want %q", check.collection, check.id, rec.GetString("project"), pid)
		}
	}
}

func TestMigrateOrphansToProject_UsesExistingProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Tower B")
	est := testhelpers.CreateTestEstimate(t, app, "Orphan estimate", false)

	if err := collections.MigrateOrphansToProject(app); err != nil {
		t.Fatalf("MigrateOrphansToProject() error: %v", err)
	}

	projects, _ := app.FindAllRecords("projects")
	if len(projects) != 1 {
		t.Errorf("expected no new project, got %d projects", len(projects))
	}
	reloaded, _ := app.FindRecordById("estimates", est.Id)
	if reloaded.GetString("project") != proj.Id {
		t.Errorf("estimate project = %q, want %q", reloaded.GetString("project"), proj.Id)
	}
}

func TestMigrateOrphansToProject_NothingToDo(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.MigrateOrphansToProject(app); err != nil {
		t.Fatalf("MigrateOrphansToProject() error: %v", err)
	}

	projects, _ := app.FindAllRecords("projects")
	if len(projects) != 0 {
		t.Errorf("expected no projects to be created, got %d", len(projects))
	}
}

func TestMigrateDefaultProjectSettings_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.MigrateDefaultProjectSettings(app); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if err := collections.MigrateDefaultProjectSettings(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	all, err := app.FindAllRecords("project_settings")
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 settings record, got %d", len(all))
	}
	if all[0].GetString("brand_name") != collections.DefaultBrandName {
		t.Errorf("brand_name = %q, want %q", all[0].GetString("brand_name"), collections.DefaultBrandName)
	}
}
