package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sitebook/calc"
	"sitebook/collections"
)

// PaymentInput is a wage, advance or bonus paid to a worker.
type PaymentInput struct {
	WorkerID string
	Amount   decimal.Decimal
	Date     string
	Type     string
	Method   string
	Note     string
}

// PaymentRow is one payment as listed, with the worker's name joined in.
type PaymentRow struct {
	ID         string          `json:"id"`
	WorkerID   string          `json:"worker"`
	WorkerName string          `json:"worker_name"`
	Phone      string          `json:"-"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"payment_date"`
	Type       string          `json:"payment_type"`
	TypeLabel  string          `json:"payment_type_label"`
	Method     string          `json:"method"`
	Note       string          `json:"note"`
}

// AddPayment validates and stores a payment under the worker's project.
func AddPayment(app core.App, in PaymentInput) (*core.Record, error) {
	if !in.Amount.IsPositive() {
		return nil, &calc.ValidationError{Field: "amount", Message: "Amount must be greater than zero."}
	}
	if _, err := ParseDate(in.Date); err != nil {
		return nil, &calc.ValidationError{Field: "payment_date", Message: err.Error()}
	}
	if in.Type == "" {
		in.Type = "salary_payment"
	}
	if !slices.Contains(collections.PaymentTypes, in.Type) {
		return nil, &calc.ValidationError{Field: "payment_type", Message: "Unknown payment type."}
	}

	worker, err := app.FindRecordById("workers", in.WorkerID)
	if err != nil {
		return nil, &calc.ValidationError{Field: "worker", Message: "Select a worker."}
	}
	col, err := app.FindCollectionByNameOrId("payments")
	if err != nil {
		return nil, fmt.Errorf("payments collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("worker", worker.Id)
	rec.Set("project", worker.GetString("project"))
	rec.Set("amount", calc.Float(in.Amount.Round(2)))
	rec.Set("payment_date", in.Date)
	rec.Set("payment_type", in.Type)
	rec.Set("method", strings.TrimSpace(in.Method))
	rec.Set("note", strings.TrimSpace(in.Note))
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}
	return rec, nil
}

// ListPayments returns payments in scope, newest first.
func ListPayments(app core.App, scope Scope) ([]PaymentRow, error) {
	records, err := scope.find(app, "payments", "", "-payment_date,-created", nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	if errs := app.ExpandRecords(records, []string{"worker"}, nil); len(errs) > 0 {
		return nil, fmt.Errorf("expand payment workers: %v", errs)
	}

	out := make([]PaymentRow, len(records))
	for i, r := range records {
		out[i] = paymentRow(r)
	}
	return out, nil
}

// FindPayment loads one payment with its worker.
func FindPayment(app core.App, id string) (*PaymentRow, error) {
	rec, err := app.FindRecordById("payments", id)
	if err != nil {
		return nil, fmt.Errorf("payment %s not found: %w", id, err)
	}
	if errs := app.ExpandRecord(rec, []string{"worker"}, nil); len(errs) > 0 {
		return nil, fmt.Errorf("expand payment worker: %v", errs)
	}
	row := paymentRow(rec)
	return &row, nil
}

func paymentRow(r *core.Record) PaymentRow {
	row := PaymentRow{
		ID:        r.Id,
		WorkerID:  r.GetString("worker"),
		Amount:    calc.Money(r.GetFloat("amount")),
		Date:      r.GetString("payment_date"),
		Type:      r.GetString("payment_type"),
		TypeLabel: PaymentTypeLabel(r.GetString("payment_type")),
		Method:    r.GetString("method"),
		Note:      r.GetString("note"),
	}
	if w := r.ExpandedOne("worker"); w != nil {
		row.WorkerName = w.GetString("full_name")
		row.Phone = w.GetString("phone_number")
	}
	return row
}
