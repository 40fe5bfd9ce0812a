package handlers

import (
	"log"
	"net/http"
	"slices"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
	"sitebook/templates"
)

func statusBadgeClass(status string) string {
	switch status {
	case "active":
		return "badge-success"
	case "completed":
		return "badge-info"
	case "on_hold":
		return "badge-warning"
	default:
		return "badge-ghost"
	}
}

func buildProjectList(app *pocketbase.PocketBase, r *http.Request) (templates.ProjectListData, error) {
	records, err := app.FindRecordsByFilter("projects", "id != ''", "-created", 0, 0)
	if err != nil {
		return templates.ProjectListData{}, err
	}

	active := GetActiveProject(r)
	var items []templates.ProjectListItem
	for _, rec := range records {
		scope := services.Scope{ProjectID: rec.Id}
		created := ""
		if dt := rec.GetDateTime("created"); !dt.IsZero() {
			created = dt.Time().Format("02 Jan 2006")
		}
		status := rec.GetString("status")
		items = append(items, templates.ProjectListItem{
			ID:               rec.Id,
			Name:             rec.GetString("name"),
			ClientName:       rec.GetString("client_name"),
			SiteAddress:      rec.GetString("site_address"),
			Status:           status,
			StatusBadgeClass: statusBadgeClass(status),
			WorkerCount:      countRecords(app, "workers", scope),
			EstimateCount:    countRecords(app, "estimates", scope),
			CreatedDate:      created,
			IsActive:         active != nil && active.ID == rec.Id,
		})
	}

	return templates.ProjectListData{
		Items:         items,
		TotalCount:    len(items),
		StatusOptions: services.ProjectStatusOptions,
		Form:          templates.ProjectForm{Status: "active", Errors: map[string]string{}},
	}, nil
}

func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildProjectList(app, e.Request)
		if err != nil {
			log.Printf("project_list: could not query projects: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return respond(e, "Projects", data, templates.ProjectListContent(data))
	}
}

func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		form := templates.ProjectForm{
			Name:        formString(e, "name"),
			ClientName:  formString(e, "client_name"),
			SiteAddress: formString(e, "site_address"),
			Status:      formString(e, "status"),
			Errors:      make(map[string]string),
		}
		if form.Name == "" {
			form.Errors["name"] = "Project name is required"
		}
		if !slices.Contains(services.ProjectStatusOptions, form.Status) {
			form.Status = "active"
		}
		if form.Name != "" {
			existing, _ := app.FindRecordsByFilter(
				"projects",
				"name = {:name}",
				"", 1, 0,
				dbx.Params{"name": form.Name},
			)
			if len(existing) > 0 {
				form.Errors["name"] = "A project with this name already exists"
			}
		}

		if len(form.Errors) > 0 {
			if wantsJSON(e.Request) {
				return e.JSON(http.StatusBadRequest, form.Errors)
			}
			SetToast(e, "warning", "Please fix the errors below")
			data, err := buildProjectList(app, e.Request)
			if err != nil {
				log.Printf("project_create: could not query projects: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			data.Form = form
			return respond(e, "Projects", data, templates.ProjectListContent(data))
		}

		projectsCol, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: could not find projects collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(projectsCol)
		record.Set("name", form.Name)
		record.Set("client_name", form.ClientName)
		record.Set("site_address", form.SiteAddress)
		record.Set("status", form.Status)
		if err := app.Save(record); err != nil {
			log.Printf("project_create: could not save project: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if wantsJSON(e.Request) {
			return e.JSON(http.StatusCreated, map[string]string{"id": record.Id})
		}
		SetToast(e, "success", "Project created successfully")
		return redirect(e, "/projects")
	}
}
