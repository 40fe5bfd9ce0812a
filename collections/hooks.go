package collections

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"sitebook/calc"
)

// DefaultItemCategory is used for estimate items imported without a category.
const DefaultItemCategory = "General"

// RegisterHooks binds the record hooks that keep derived columns in step
// with the fields they are computed from.
func RegisterHooks(app core.App) {
	// attendance: quantity is authoritative, status is projected from it
	app.OnRecordCreate("attendance").BindFunc(func(e *core.RecordEvent) error {
		projectAttendance(e.Record)
		return e.Next()
	})
	app.OnRecordUpdate("attendance").BindFunc(func(e *core.RecordEvent) error {
		projectAttendance(e.Record)
		return e.Next()
	})

	app.OnRecordCreate("estimate_items").BindFunc(func(e *core.RecordEvent) error {
		deriveItemAmount(e.Record)
		return e.Next()
	})
	app.OnRecordUpdate("estimate_items").BindFunc(func(e *core.RecordEvent) error {
		deriveItemAmount(e.Record)
		return e.Next()
	})

	app.OnRecordCreate("client_ledger").BindFunc(func(e *core.RecordEvent) error {
		if e.Record.GetInt("seq") == 0 {
			seq, err := nextLedgerSeq(e.App)
			if err != nil {
				return err
			}
			e.Record.Set("seq", seq)
		}
		return e.Next()
	})
}

func projectAttendance(r *core.Record) {
	q := calc.NormalizeHajri(r.GetFloat("hajri_count"))
	r.Set("hajri_count", calc.Float(q))
	r.Set("kharchi_amount", calc.Float(calc.NormalizeAdvance(r.GetFloat("kharchi_amount"))))
	r.Set("status", string(calc.StatusOf(q)))
}

func deriveItemAmount(r *core.Record) {
	amount := calc.ItemAmount(r.GetFloat("quantity"), r.GetFloat("rate"))
	r.Set("amount", calc.Float(amount))
	if strings.TrimSpace(r.GetString("category")) == "" {
		r.Set("category", DefaultItemCategory)
	}
}

func nextLedgerSeq(app core.App) (int, error) {
	last, err := app.FindRecordsByFilter("client_ledger", "id != ''", "-seq", 1, 0)
	if err != nil {
		return 0, fmt.Errorf("ledger seq: %w", err)
	}
	if len(last) == 0 {
		return 1, nil
	}
	return last[0].GetInt("seq") + 1, nil
}
