package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
	"sitebook/templates"
)

// HandleDashboard shows the headline totals for the active project, or for
// all projects when none is selected. ?date picks the attendance day.
func HandleDashboard(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		date := services.DateOrToday(e.Request.URL.Query().Get("date"), now)

		d, err := services.BuildDashboard(e.Request.Context(), app, scopeOf(e.Request), date, now)
		if err != nil {
			log.Printf("dashboard: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load the dashboard.")
		}
		return respond(e, "Dashboard", d, templates.DashboardContent(d))
	}
}
