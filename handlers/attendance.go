package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/calc"
	"sitebook/services"
	"sitebook/templates"
)

// HandleAttendance shows the daily grid. ?date=YYYY-MM-DD, default today.
func HandleAttendance(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		date := services.DateOrToday(e.Request.URL.Query().Get("date"), time.Now())
		sheet, err := services.BuildAttendanceSheet(app, scopeOf(e.Request), date)
		if err != nil {
			log.Printf("attendance: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load attendance.")
		}
		return respond(e, "Attendance", sheet, templates.AttendanceContent(sheet))
	}
}

// attendanceChange reads the one field a grid edit sends.
func attendanceChange(e *core.RequestEvent) (calc.AttendanceChange, bool) {
	form := e.Request.PostForm
	switch {
	case form.Has("status"):
		s, ok := calc.ParseStatus(form.Get("status"))
		if !ok {
			return calc.AttendanceChange{}, false
		}
		return calc.SetStatus(s), true
	case form.Has("hajri_count"):
		return calc.SetHajri(formFloat(e, "hajri_count")), true
	case form.Has("kharchi_amount"):
		return calc.SetAdvance(formFloat(e, "kharchi_amount")), true
	}
	return calc.AttendanceChange{}, false
}

// HandleAttendanceUpdate saves one cell of the grid for (worker, date). The
// response is the updated row plus an out-of-band refresh of the day totals.
func HandleAttendanceUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workerID := e.Request.PathValue("workerId")
		date := e.Request.PathValue("date")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		change, ok := attendanceChange(e)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Send one of status, hajri_count or kharchi_amount.")
		}

		update, err := services.UpsertAttendance(app, workerID, date, change)
		if err != nil {
			return fail(e, "attendance_update", err)
		}
		if wantsJSON(e.Request) {
			return e.JSON(http.StatusOK, update)
		}

		sheet, err := services.BuildAttendanceSheet(app, scopeOf(e.Request), date)
		if err != nil {
			return fail(e, "attendance_update", err)
		}
		for _, row := range sheet.Rows {
			if row.Worker.ID != workerID {
				continue
			}
			if err := templates.AttendanceRow(date, row).Render(e.Request.Context(), e.Response); err != nil {
				return err
			}
			return templates.AttendanceStats(sheet.Stats, true).Render(e.Request.Context(), e.Response)
		}
		// worker belongs to another project than the one selected
		e.Response.Header().Set("HX-Refresh", "true")
		return e.String(http.StatusOK, "")
	}
}

// HandleMonthlyLabor lists labor cost per calendar month.
func HandleMonthlyLabor(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		months, err := services.MonthlyLabor(app, scopeOf(e.Request))
		if err != nil {
			log.Printf("labor_monthly: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load labour history.")
		}
		return respond(e, "Monthly Labour", months, templates.LaborContent(months))
	}
}

func HandleMonthlyLaborExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		months, err := services.MonthlyLabor(app, scopeOf(e.Request))
		if err != nil {
			log.Printf("labor_export: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load labour history.")
		}
		data := services.MonthlyLaborExport(months, exportCreated())
		return writeExport(e, "labor_export", data, "Monthly_Labour")
	}
}
