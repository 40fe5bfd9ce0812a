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

func loadMonthlyReport(app *pocketbase.PocketBase, e *core.RequestEvent) (*services.MonthlyReport, time.Time, error) {
	month := services.MonthOrCurrent(e.Request.URL.Query().Get("month"), time.Now())
	r, err := services.BuildMonthlyReport(app, scopeOf(e.Request), month)
	return r, month, err
}

// HandleMonthlyReport shows income against expenses for ?month=YYYY-MM.
func HandleMonthlyReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		r, month, err := loadMonthlyReport(app, e)
		if err != nil {
			log.Printf("report_monthly: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not build the report.")
		}
		prev, next := monthNav(month)
		return respond(e, "Monthly Report", r, templates.ReportContent(r, prev, next))
	}
}

func HandleMonthlyReportExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		r, _, err := loadMonthlyReport(app, e)
		if err != nil {
			log.Printf("report_export: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not build the report.")
		}
		return writeExport(e, "report_export", services.MonthlyReportExport(r, exportCreated()), "Report_"+r.Month)
	}
}
