package handlers

import (
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
	"sitebook/templates"
)

// BuildSidebarData constructs the SidebarData from the current request context.
// Counts are limited to the active project when one is selected.
func BuildSidebarData(r *http.Request, app *pocketbase.PocketBase) templates.SidebarData {
	data := templates.SidebarData{
		ActiveProject: GetActiveProject(r),
		ActivePath:    r.URL.Path,
	}

	scope := scopeOf(r)
	data.WorkerCount = countRecords(app, "workers", scope)
	data.EstimateCount = countRecords(app, "estimates", scope)
	return data
}

func countRecords(app core.App, collection string, scope services.Scope) int {
	var exprs []dbx.Expression
	if scope.ProjectID != "" {
		exprs = append(exprs, dbx.HashExp{"project": scope.ProjectID})
	}
	n, err := app.CountRecords(collection, exprs...)
	if err != nil {
		return 0
	}
	return int(n)
}
