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

func loadLedger(app *pocketbase.PocketBase, e *core.RequestEvent) (*services.LedgerView, error) {
	view, err := services.BuildLedgerView(app, scopeOf(e.Request))
	if err != nil {
		return nil, err
	}
	if !view.Totals.Consistent(view.Lines) {
		log.Printf("ledger: running balance disagrees with totals (net due %s)", view.Totals.NetDue)
	}
	return view, nil
}

func renderLedger(e *core.RequestEvent, view *services.LedgerView, form templates.LedgerForm) error {
	return respond(e, "Client Ledger", view, templates.LedgerContent(view, form))
}

func HandleLedger(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		view, err := loadLedger(app, e)
		if err != nil {
			log.Printf("ledger: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load the ledger.")
		}
		form := templates.LedgerForm{Date: time.Now().Format("2006-01-02"), Errors: map[string]string{}}
		return renderLedger(e, view, form)
	}
}

// HandleLedgerAdd appends a bill and/or payment row.
func HandleLedgerAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		in := services.LedgerInput{
			Date:        formString(e, "date"),
			Description: formString(e, "description"),
			Bill:        formDecimal(e, "bill_amount"),
			Payment:     formDecimal(e, "payment_received"),
		}

		_, err := services.AddLedgerEntry(app, scopeOf(e.Request), in)
		if errs, ok := validationErrors(err); ok && !wantsJSON(e.Request) {
			view, lerr := loadLedger(app, e)
			if lerr != nil {
				return fail(e, "ledger_add", lerr)
			}
			SetToast(e, "warning", "Please fix the errors below")
			return renderLedger(e, view, templates.LedgerForm{
				Date:        in.Date,
				Description: in.Description,
				Bill:        formString(e, "bill_amount"),
				Payment:     formString(e, "payment_received"),
				Errors:      errs,
			})
		}
		if err != nil {
			return fail(e, "ledger_add", err)
		}

		SetToast(e, "success", "Ledger entry added")
		return redirect(e, "/ledger")
	}
}

func HandleLedgerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := services.DeleteLedgerEntry(app, scopeOf(e.Request), id); err != nil {
			log.Printf("ledger_delete: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Entry not found")
		}
		SetToast(e, "success", "Entry deleted")
		// balances below the removed row change, so redraw the whole ledger
		return redirect(e, "/ledger")
	}
}

func HandleLedgerExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		view, err := loadLedger(app, e)
		if err != nil {
			log.Printf("ledger_export: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load the ledger.")
		}
		data := services.LedgerExport(view, GetBranding(e.Request).BrandName, exportCreated())
		return writeExport(e, "ledger_export", data, "Client_Ledger")
	}
}
