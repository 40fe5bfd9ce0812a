package handlers

import (
	"context"
	"net/http"
	"testing"

	"sitebook/templates"
	"sitebook/testhelpers"
)

// newRequestWithProject creates an HTTP request with an active project in context.
func newRequestWithProject(path string, proj *templates.ActiveProject) *http.Request {
	req, _ := http.NewRequest("GET", path, nil)
	ctx := context.WithValue(req.Context(), ActiveProjectKey, proj)
	return req.WithContext(ctx)
}

func TestBuildSidebarData_CountsScopedToProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Test Project")
	other := testhelpers.CreateTestProject(t, app, "Other Project")

	for i, name := range []string{"Ravi", "Sita", "Mohan"} {
		w := testhelpers.CreateTestWorker(t, app, name, 500)
		pid := project.Id
		if i == 2 {
			pid = other.Id
		}
		w.Set("project", pid)
		if err := app.Save(w); err != nil {
			t.Fatalf("save worker: %v", err)
		}
	}
	est := testhelpers.CreateTestEstimate(t, app, "Civil", true)
	est.Set("project", project.Id)
	if err := app.Save(est); err != nil {
		t.Fatalf("save estimate: %v", err)
	}

	req := newRequestWithProject("/attendance", &templates.ActiveProject{ID: project.Id, Name: "Test Project"})
	data := BuildSidebarData(req, app)

	if data.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", data.WorkerCount)
	}
	if data.EstimateCount != 1 {
		t.Errorf("EstimateCount = %d, want 1", data.EstimateCount)
	}
	if data.ActivePath != "/attendance" {
		t.Errorf("ActivePath = %q", data.ActivePath)
	}
	if data.ActiveProject == nil || data.ActiveProject.ID != project.Id {
		t.Error("expected active project to be carried over")
	}
}

func TestBuildSidebarData_NoProjectCountsEverything(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestWorker(t, app, "Ravi", 500)
	testhelpers.CreateTestWorker(t, app, "Sita", 450)

	req, _ := http.NewRequest("GET", "/", nil)
	data := BuildSidebarData(req, app)

	if data.ActiveProject != nil {
		t.Error("expected nil active project")
	}
	if data.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", data.WorkerCount)
	}
	if data.EstimateCount != 0 {
		t.Errorf("EstimateCount = %d, want 0", data.EstimateCount)
	}
}
