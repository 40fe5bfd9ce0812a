package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sitebook/calc"
)

// LedgerInput is a new client billing row as submitted from the form.
type LedgerInput struct {
	Date        string
	Description string
	Bill        decimal.Decimal
	Payment     decimal.Decimal
}

// LedgerView is the ledger table with running balances and totals.
type LedgerView struct {
	Lines  []calc.LedgerLine `json:"entries"`
	Totals calc.LedgerTotals `json:"totals"`
}

// AddLedgerEntry validates and stores a ledger row. The seq column is taken
// as max + 1 inside the same transaction so same-day rows keep their order.
func AddLedgerEntry(app core.App, scope Scope, in LedgerInput) (*core.Record, error) {
	if err := calc.ValidateLedgerEntry(in.Description, in.Bill, in.Payment); err != nil {
		return nil, err
	}
	if _, err := ParseDate(in.Date); err != nil {
		return nil, &calc.ValidationError{Field: "date", Message: err.Error()}
	}

	var rec *core.Record
	err := app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId("client_ledger")
		if err != nil {
			return fmt.Errorf("client_ledger collection: %w", err)
		}

		last, err := txApp.FindRecordsByFilter("client_ledger", "id != ''", "-seq", 1, 0)
		if err != nil {
			return fmt.Errorf("ledger seq: %w", err)
		}
		seq := 1
		if len(last) > 0 {
			seq = last[0].GetInt("seq") + 1
		}

		rec = core.NewRecord(col)
		rec.Set("project", scope.ProjectID)
		rec.Set("date", in.Date)
		rec.Set("description", strings.TrimSpace(in.Description))
		rec.Set("bill_amount", calc.Float(in.Bill.Round(2)))
		rec.Set("payment_received", calc.Float(in.Payment.Round(2)))
		rec.Set("seq", seq)
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("save ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func ledgerEntry(r *core.Record) calc.LedgerEntry {
	return calc.LedgerEntry{
		ID:          r.Id,
		Date:        r.GetString("date"),
		Seq:         r.GetInt("seq"),
		Description: r.GetString("description"),
		Bill:        calc.Money(r.GetFloat("bill_amount")),
		Payment:     calc.Money(r.GetFloat("payment_received")),
	}
}

// LoadLedgerEntries returns every ledger row in scope, unsorted.
func LoadLedgerEntries(app core.App, scope Scope) ([]calc.LedgerEntry, error) {
	records, err := scope.find(app, "client_ledger", "", "", nil)
	if err != nil {
		return nil, err
	}
	out := make([]calc.LedgerEntry, len(records))
	for i, r := range records {
		out[i] = ledgerEntry(r)
	}
	return out, nil
}

// BuildLedgerView folds running balances and sums the totals separately.
// A mismatch between the two is logged by the caller, never hidden.
func BuildLedgerView(app core.App, scope Scope) (*LedgerView, error) {
	entries, err := LoadLedgerEntries(app, scope)
	if err != nil {
		return nil, err
	}
	return &LedgerView{
		Lines:  calc.RunningBalances(entries),
		Totals: calc.SumLedger(entries),
	}, nil
}

// DeleteLedgerEntry removes a row of the scoped project permanently.
func DeleteLedgerEntry(app core.App, scope Scope, id string) error {
	rec, err := scope.findOne(app, "client_ledger", id)
	if err != nil {
		return err
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	return nil
}
