package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

const activeProjectCookie = "active_project"

// setActiveProject writes the project selection cookie. An empty id clears it.
func setActiveProject(e *core.RequestEvent, projectID string) {
	c := &http.Cookie{
		Name:     activeProjectCookie,
		Value:    projectID,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if projectID == "" {
		c.MaxAge = -1
	}
	http.SetCookie(e.Response, c)
}

// HandleProjectActivate makes a project the active site. Every list, total and
// export is scoped to it from the next request on, so the whole shell is
// reloaded at the dashboard.
func HandleProjectActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		setActiveProject(e, rec.Id)

		if wantsJSON(e.Request) {
			return e.JSON(http.StatusOK, map[string]string{"active_project": rec.Id, "name": rec.GetString("name")})
		}
		SetToast(e, "success", "Switched to "+rec.GetString("name"))
		e.Response.Header().Set("HX-Redirect", "/")
		return e.String(http.StatusOK, "OK")
	}
}

// HandleProjectDeactivate drops the selection; pages then show data from all
// projects.
func HandleProjectDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		setActiveProject(e, "")

		if wantsJSON(e.Request) {
			return e.JSON(http.StatusOK, map[string]string{"active_project": ""})
		}
		SetToast(e, "success", "Showing all projects")
		e.Response.Header().Set("HX-Redirect", "/projects")
		return e.String(http.StatusOK, "OK")
	}
}
