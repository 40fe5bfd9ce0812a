package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sitebook/testhelpers"
)

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandleProjectActivate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Tower B")

	req := httptest.NewRequest(http.MethodPost, "/projects/"+proj.Id+"/activate", nil)
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()

	if err := HandleProjectActivate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/")
	c := findCookie(rec, activeProjectCookie)
	if c == nil || c.Value != proj.Id || !c.HttpOnly || c.MaxAge <= 0 {
		t.Errorf("active project cookie = %+v", c)
	}
}

func TestHandleProjectActivate_JSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Tower B")

	req := httptest.NewRequest(http.MethodPost, "/projects/"+proj.Id+"/activate", nil)
	req.SetPathValue("id", proj.Id)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	if err := HandleProjectActivate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	if got["active_project"] != proj.Id || got["name"] != "Tower B" {
		t.Errorf("body = %v", got)
	}
	if rec.Header().Get("HX-Redirect") != "" {
		t.Error("JSON response should not redirect")
	}
}

func TestHandleProjectActivate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/projects/nonexistent/activate", nil)
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()

	if err := HandleProjectActivate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if c := findCookie(rec, activeProjectCookie); c != nil {
		t.Errorf("cookie should not be set, got %+v", c)
	}
}

func TestHandleProjectDeactivate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/projects/deactivate", nil)
	rec := httptest.NewRecorder()

	if err := HandleProjectDeactivate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects")
	c := findCookie(rec, activeProjectCookie)
	if c == nil || c.MaxAge != -1 {
		t.Errorf("expected cleared cookie, got %+v", c)
	}
}
