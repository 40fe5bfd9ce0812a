package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sitebook/services"
	"sitebook/templates"
	"sitebook/testhelpers"
)

func TestGetActiveProject_FromContext(t *testing.T) {
	expected := &templates.ActiveProject{ID: "test123", Name: "Sharma Residence"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), ActiveProjectKey, expected))

	got := GetActiveProject(req)
	if got == nil {
		t.Fatal("expected active project, got nil")
	}
	if got.ID != expected.ID {
		t.Errorf("expected ID %q, got %q", expected.ID, got.ID)
	}
}

func TestContextGetters_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetActiveProject(req); got != nil {
		t.Errorf("expected nil project, got %v", got)
	}
	if got := GetHeaderData(req); got.ActiveProject != nil || len(got.Projects) != 0 {
		t.Errorf("expected empty header data, got %+v", got)
	}
	if got := GetSidebarData(req); got.ActiveProject != nil || got.WorkerCount != 0 {
		t.Errorf("expected empty sidebar data, got %+v", got)
	}
	if got := GetBranding(req); got.BrandName != "" {
		t.Errorf("expected zero branding, got %+v", got)
	}
}

func TestGetSidebarData_FromContext(t *testing.T) {
	expected := templates.SidebarData{
		ActiveProject: &templates.ActiveProject{ID: "p1", Name: "Test"},
		ActivePath:    "/attendance",
		WorkerCount:   5,
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), SidebarDataKey, expected))

	got := GetSidebarData(req)
	if got.ActiveProject == nil || got.ActiveProject.ID != "p1" {
		t.Error("expected active project with ID p1")
	}
	if got.WorkerCount != 5 {
		t.Errorf("expected WorkerCount 5, got %d", got.WorkerCount)
	}
}

func TestActiveProjectMiddleware_NoCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "MW Test Project")
	middleware := ActiveProjectMiddleware(app, newTestStore(t, app))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := middleware(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	if GetActiveProject(e.Request) != nil {
		t.Error("expected no active project without a cookie")
	}
	header := GetHeaderData(e.Request)
	if len(header.Projects) != 1 || header.Projects[0].Name != "MW Test Project" {
		t.Errorf("projects = %+v", header.Projects)
	}
	if header.Brand.Name != "SiteBook" {
		t.Errorf("brand = %q, want default SiteBook", header.Brand.Name)
	}
}

func TestActiveProjectMiddleware_WithCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Cookie MW Project")
	testhelpers.CreateTestWorker(t, app, "Ravi", 500)

	store := newTestStore(t, app)
	if _, err := store.Update(services.BrandingUpdate{ProjectID: project.Id, BrandName: "Cookie Builders"}); err != nil {
		t.Fatalf("update branding: %v", err)
	}
	middleware := ActiveProjectMiddleware(app, store)

	req := httptest.NewRequest(http.MethodGet, "/workers", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: project.Id})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := middleware(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	activeProject := GetActiveProject(e.Request)
	if activeProject == nil {
		t.Fatal("expected active project in context after middleware")
	}
	if activeProject.Name != "Cookie MW Project" {
		t.Errorf("expected 'Cookie MW Project', got %q", activeProject.Name)
	}

	header := GetHeaderData(e.Request)
	if header.ActiveProject == nil || !header.Projects[0].IsActive {
		t.Error("expected active project marked in header data")
	}
	if header.Brand.Name != "Cookie Builders" {
		t.Errorf("brand = %q", header.Brand.Name)
	}
	if b := GetBranding(e.Request); b.ProjectID != project.Id {
		t.Errorf("branding project = %q", b.ProjectID)
	}

	sidebar := GetSidebarData(e.Request)
	if sidebar.ActivePath != "/workers" {
		t.Errorf("active path = %q", sidebar.ActivePath)
	}
	// the worker has no project, so the scoped count is zero
	if sidebar.WorkerCount != 0 {
		t.Errorf("worker count = %d, want 0", sidebar.WorkerCount)
	}
}

func TestActiveProjectMiddleware_InvalidCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	middleware := ActiveProjectMiddleware(app, newTestStore(t, app))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: "nonexistent_id"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := middleware(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	if GetActiveProject(e.Request) != nil {
		t.Error("expected nil active project for invalid cookie")
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "active_project" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected stale active_project cookie to be cleared")
	}
}
