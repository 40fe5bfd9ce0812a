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

func buildPaymentsData(app *pocketbase.PocketBase, e *core.RequestEvent) (templates.PaymentsData, error) {
	scope := scopeOf(e.Request)
	payments, err := services.ListPayments(app, scope)
	if err != nil {
		return templates.PaymentsData{}, err
	}
	workers, err := services.LoadWorkerWages(app, scope, true)
	if err != nil {
		return templates.PaymentsData{}, err
	}
	return templates.PaymentsData{
		Payments: payments,
		Workers:  workers,
		Today:    time.Now().Format("2006-01-02"),
		Errors:   map[string]string{},
	}, nil
}

func HandlePayments(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildPaymentsData(app, e)
		if err != nil {
			log.Printf("payments: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load payments.")
		}
		return respond(e, "Payments", data, templates.PaymentsContent(data))
	}
}

func HandlePaymentAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		in := services.PaymentInput{
			WorkerID: formString(e, "worker"),
			Amount:   formDecimal(e, "amount"),
			Date:     formString(e, "payment_date"),
			Type:     formString(e, "payment_type"),
			Method:   formString(e, "method"),
			Note:     formString(e, "note"),
		}
		rec, err := services.AddPayment(app, in)
		if errs, ok := validationErrors(err); ok && !wantsJSON(e.Request) {
			data, lerr := buildPaymentsData(app, e)
			if lerr != nil {
				return fail(e, "payment_add", lerr)
			}
			data.Errors = errs
			SetToast(e, "warning", "Please fix the errors below")
			return respond(e, "Payments", data, templates.PaymentsContent(data))
		}
		if err != nil {
			return fail(e, "payment_add", err)
		}
		if wantsJSON(e.Request) {
			return e.JSON(http.StatusCreated, map[string]string{"id": rec.Id})
		}
		SetToast(e, "success", "Payment recorded")
		return redirect(e, "/payments")
	}
}

// HandlePaymentReceipt downloads the PDF receipt for one payment.
func HandlePaymentReceipt(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		p, err := services.FindPayment(app, id)
		if err != nil {
			log.Printf("payment_receipt: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Payment not found")
		}

		pdf, err := services.GenerateReceiptPDF(services.BuildReceiptData(p, GetBranding(e.Request)))
		if err != nil {
			log.Printf("payment_receipt: failed to generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate receipt")
		}
		return download(e, services.ReceiptFileName(p.ID), "application/pdf", pdf)
	}
}
