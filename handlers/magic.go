package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
	"sitebook/templates"
)

func magicKind(e *core.RequestEvent) (services.MagicKind, bool) {
	return services.ParseMagicKind(e.Request.PathValue("kind"))
}

// HandleMagicPage shows the free-text box for one kind of record.
func HandleMagicPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := magicKind(e)
		if !ok {
			return e.String(http.StatusNotFound, "Unknown entry type")
		}
		date := services.DateOrToday(e.Request.URL.Query().Get("date"), time.Now())
		return respond(e, "Magic entry", map[string]string{"kind": string(kind), "date": date},
			templates.MagicContent(kind, date))
	}
}

// HandleMagicParse sends the text to the model and previews what came back.
// Nothing is stored until the preview is committed. c is nil when no API key
// is configured.
func HandleMagicParse(app *pocketbase.PocketBase, c services.Completer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if c == nil {
			return ErrorToast(e, http.StatusServiceUnavailable, "AI entry is not configured. Set GEMINI_API_KEY.")
		}
		kind, ok := magicKind(e)
		if !ok {
			return ErrorToast(e, http.StatusNotFound, "Unknown entry type")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		date := services.DateOrToday(formString(e, "date"), time.Now())

		raw, err := services.RunMagic(e.Request.Context(), c, kind, e.Request.FormValue("text"))
		if errs, ok := validationErrors(err); ok {
			return ErrorToast(e, http.StatusBadRequest, errs["text"])
		}
		if err != nil {
			log.Printf("magic_parse: %s: %v", kind, err)
			return ErrorToast(e, http.StatusBadGateway, "AI request failed: "+err.Error())
		}

		switch kind {
		case services.MagicAttendance:
			workers, err := services.LoadWorkerWages(app, scopeOf(e.Request), true)
			if err != nil {
				return fail(e, "magic_parse", err)
			}
			items, err := services.ParseAttendanceReply(raw, workers)
			if err != nil {
				return magicReplyError(e, err)
			}
			return respondFragment(e, items, templates.MagicAttendanceResult(items, raw, date))
		case services.MagicExpense:
			items, err := services.ParseExpenseReply(raw)
			if err != nil {
				return magicReplyError(e, err)
			}
			return respondFragment(e, items, templates.MagicExpenseResult(items, raw, date))
		default:
			items, err := services.ParseEstimateReply(raw)
			if err != nil {
				return magicReplyError(e, err)
			}
			return respondFragment(e, items, templates.MagicEstimateResult(items, raw))
		}
	}
}

func respondFragment(e *core.RequestEvent, data any, c templ.Component) error {
	if wantsJSON(e.Request) {
		return e.JSON(http.StatusOK, data)
	}
	return c.Render(e.Request.Context(), e.Response)
}

func magicReplyError(e *core.RequestEvent, err error) error {
	if errors.Is(err, services.ErrInvalidReply) {
		log.Printf("magic: %v", err)
		return ErrorToast(e, http.StatusBadGateway, "The AI reply could not be understood. Try rephrasing.")
	}
	return fail(e, "magic", err)
}

// HandleMagicAttendanceCommit saves a previewed attendance reply.
func HandleMagicAttendanceCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		date := formString(e, "date")
		workers, err := services.LoadWorkerWages(app, scopeOf(e.Request), true)
		if err != nil {
			return fail(e, "magic_attendance", err)
		}
		items, err := services.ParseAttendanceReply(e.Request.FormValue("reply"), workers)
		if err != nil {
			return magicReplyError(e, err)
		}
		n, err := services.CommitMagicAttendance(app, items, date)
		if err != nil {
			return fail(e, "magic_attendance", err)
		}
		log.Printf("magic_attendance: saved %d row(s) for %s", n, date)
		SetToast(e, "success", "Attendance saved")
		return redirect(e, "/attendance?date="+date)
	}
}

// HandleMagicExpenseCommit saves a previewed expense reply.
func HandleMagicExpenseCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		date := formString(e, "date")
		items, err := services.ParseExpenseReply(e.Request.FormValue("reply"))
		if err != nil {
			return magicReplyError(e, err)
		}
		n, err := services.CommitMagicExpenses(app, scopeOf(e.Request), items, date)
		if err != nil {
			return fail(e, "magic_expense", err)
		}
		log.Printf("magic_expense: saved %d expense(s) for %s", n, date)
		SetToast(e, "success", "Expenses saved")
		return redirect(e, "/expenses?month="+monthOf(date))
	}
}

// HandleMagicEstimateCommit saves a previewed estimate reply as a new estimate.
func HandleMagicEstimateCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		items, err := services.ParseEstimateReply(e.Request.FormValue("reply"))
		if err != nil {
			return magicReplyError(e, err)
		}
		if len(items) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Nothing to save.")
		}
		name := formString(e, "name")
		if name == "" {
			name = "AI Estimate"
		}
		if _, err := services.ImportEstimate(app, scopeOf(e.Request), name, items); err != nil {
			return fail(e, "magic_estimate", err)
		}
		SetToast(e, "success", "Estimate saved")
		return redirect(e, "/estimates")
	}
}
