package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
)

// projectData are the collections unlinked from, or deleted with, a project.
// Attendance is removed through its worker's cascade.
var projectData = []string{"workers", "expenses", "estimates", "client_ledger", "payments", "project_settings"}

// HandleProjectDelete removes a project. Its records are unlinked and kept
// unless ?delete_data=true; the project's own settings row always goes.
func HandleProjectDelete(app *pocketbase.PocketBase, store *services.BrandingStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		projectRecord, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_delete: could not find project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		deleteData := e.Request.URL.Query().Get("delete_data") == "true"

		count := 0
		err = app.RunInTransaction(func(txApp core.App) error {
			for _, name := range projectData {
				records, err := txApp.FindRecordsByFilter(name, "project = {:pid}", "", 0, 0, dbx.Params{"pid": projectID})
				if err != nil {
					return err
				}
				for _, rec := range records {
					if deleteData || name == "project_settings" {
						if err := txApp.Delete(rec); err != nil {
							return err
						}
					} else {
						rec.Set("project", "")
						if err := txApp.Save(rec); err != nil {
							return err
						}
					}
					count++
				}
			}
			return txApp.Delete(projectRecord)
		})
		if err != nil {
			log.Printf("project_delete: failed to delete project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete project")
		}

		if err := store.Load(); err != nil {
			log.Printf("project_delete: reload branding: %v", err)
		}

		log.Printf("project_delete: deleted project %s (delete_data=%v, record_count=%d)",
			projectID, deleteData, count)

		if active := GetActiveProject(e.Request); active != nil && active.ID == projectID {
			setActiveProject(e, "")
		}
		SetToast(e, "success", "Project deleted")
		return redirect(e, "/projects")
	}
}
