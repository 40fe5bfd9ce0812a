package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"sitebook/services"
	"sitebook/templates"
)

func buildProjectDetail(app *pocketbase.PocketBase, d services.ProjectDetails, errs map[string]string) templates.ProjectDetailData {
	data := templates.ProjectDetailData{
		Project:       d,
		StatusOptions: services.ProjectStatusOptions,
		TypeOptions:   services.ConstructionTypeOptions,
		Errors:        errs,
	}
	if rec, err := app.FindRecordById("projects", d.ID); err == nil {
		scope := services.Scope{ProjectID: rec.Id}
		data.WorkerCount = countRecords(app, "workers", scope)
		data.EstimateCount = countRecords(app, "estimates", scope)
		if dt := rec.GetDateTime("created"); !dt.IsZero() {
			data.CreatedDate = dt.Time().Format("02 Jan 2006")
		}
	}
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	return data
}

func projectDetailsFromForm(e *core.RequestEvent, id string) services.ProjectDetails {
	d := services.ProjectDetails{
		ID:                id,
		Name:              formString(e, "name"),
		ClientName:        formString(e, "client_name"),
		SiteAddress:       formString(e, "site_address"),
		Status:            formString(e, "status"),
		GSTNumber:         formString(e, "gst_number"),
		Phone:             formString(e, "phone"),
		StartDate:         formString(e, "start_date"),
		ArchitectName:     formString(e, "architect_name"),
		EngineerName:      formString(e, "engineer_name"),
		ConstructionTypes: e.Request.Form["construction_types"],
	}
	roles := e.Request.Form["team_role"]
	for i, name := range e.Request.Form["team_name"] {
		m := services.TeamMember{Name: name}
		if i < len(roles) {
			m.Role = roles[i]
		}
		d.Team = append(d.Team, m)
	}
	return d
}

// HandleProjectView shows a project's metadata, team and counts as an
// editable form.
func HandleProjectView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, err := services.LoadProjectDetails(app, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		data := buildProjectDetail(app, *d, nil)
		return respond(e, d.Name, data, templates.ProjectDetailContent(data))
	}
}

// HandleProjectSave stores the project form. A team_action of "add" or
// "remove-<index>" edits the team rows and re-renders without saving.
func HandleProjectSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", id); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		d := projectDetailsFromForm(e, id)

		switch action := formString(e, "team_action"); {
		case action == "add":
			d.Team = append(d.Team, services.TeamMember{})
			data := buildProjectDetail(app, d, nil)
			return respond(e, d.Name, data, templates.ProjectDetailContent(data))
		case strings.HasPrefix(action, "remove-"):
			if i := cast.ToInt(strings.TrimPrefix(action, "remove-")); i >= 0 && i < len(d.Team) {
				d.Team = slices.Delete(d.Team, i, i+1)
			}
			data := buildProjectDetail(app, d, nil)
			return respond(e, d.Name, data, templates.ProjectDetailContent(data))
		}

		saved, err := services.SaveProjectDetails(app, d)
		if err != nil {
			if errs, ok := validationErrors(err); ok && !wantsJSON(e.Request) {
				SetToast(e, "warning", "Please fix the errors below")
				data := buildProjectDetail(app, d, errs)
				return respond(e, d.Name, data, templates.ProjectDetailContent(data))
			}
			return fail(e, "project_save", err)
		}

		if wantsJSON(e.Request) {
			return e.JSON(http.StatusOK, saved)
		}
		SetToast(e, "success", "Project details updated")
		return redirect(e, "/projects/"+id)
	}
}
