package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sitebook/calc"
)

// AttendanceUpdate is the outcome of one grid edit. CostDelta is what the
// client adds to its running total for the day.
type AttendanceUpdate struct {
	ID        string          `json:"id"`
	WorkerID  string          `json:"worker"`
	Date      string          `json:"date"`
	Hajri     decimal.Decimal `json:"hajri_count"`
	Kharchi   decimal.Decimal `json:"kharchi_amount"`
	Status    calc.Status     `json:"status"`
	Display   string          `json:"display"`
	Created   bool            `json:"created"`
	OldCost   decimal.Decimal `json:"old_cost"`
	NewCost   decimal.Decimal `json:"new_cost"`
	CostDelta decimal.Decimal `json:"cost_delta"`
	Net       decimal.Decimal `json:"net_earning"`
	Change    calc.ChangeKind `json:"-"`
	Record    *core.Record    `json:"-"`
}

// UpsertAttendance applies change to the (worker, date) row inside one
// transaction, creating the row when it does not exist yet. The unique
// (worker, date) index guarantees a repeated submission updates the same row.
func UpsertAttendance(app core.App, workerID, date string, change calc.AttendanceChange) (*AttendanceUpdate, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, &calc.ValidationError{Field: "date", Message: err.Error()}
	}

	var out *AttendanceUpdate
	err := app.RunInTransaction(func(txApp core.App) error {
		worker, err := txApp.FindRecordById("workers", workerID)
		if err != nil {
			return fmt.Errorf("worker %s not found: %w", workerID, err)
		}
		wage := calc.Money(worker.GetFloat("daily_wage"))

		existing, err := txApp.FindRecordsByFilter(
			"attendance",
			"worker = {:worker} && date = {:date}",
			"", 1, 0,
			dbx.Params{"worker": workerID, "date": date},
		)
		if err != nil {
			return fmt.Errorf("lookup attendance: %w", err)
		}

		var rec *core.Record
		var cur calc.DayEntry
		created := len(existing) == 0
		if created {
			col, err := txApp.FindCollectionByNameOrId("attendance")
			if err != nil {
				return fmt.Errorf("attendance collection: %w", err)
			}
			rec = core.NewRecord(col)
			rec.Set("worker", workerID)
			rec.Set("date", date)
			rec.Set("project", worker.GetString("project"))
		} else {
			rec = existing[0]
			cur = entryOf(rec)
		}

		next := change.Apply(cur)
		rec.Set("hajri_count", calc.Float(next.Hajri))
		rec.Set("kharchi_amount", calc.Float(next.Advance))
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("save attendance: %w", err)
		}

		oldCost := calc.DailyCost(cur.Hajri, wage)
		newCost := calc.DailyCost(next.Hajri, wage)
		out = &AttendanceUpdate{
			ID:        rec.Id,
			WorkerID:  workerID,
			Date:      date,
			Hajri:     next.Hajri,
			Kharchi:   next.Advance,
			Status:    next.Status(),
			Display:   calc.TraditionalHajri(calc.Float(next.Hajri)),
			Created:   created,
			OldCost:   oldCost,
			NewCost:   newCost,
			CostDelta: newCost.Sub(oldCost),
			Net:       calc.NetDailyEarning(next.Hajri, wage, next.Advance),
			Change:    change.Kind,
			Record:    rec,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func entryOf(rec *core.Record) calc.DayEntry {
	return calc.DayEntry{
		Hajri:   calc.Decimal(rec.GetFloat("hajri_count")),
		Advance: calc.Money(rec.GetFloat("kharchi_amount")),
	}
}

func workerWage(rec *core.Record) calc.WorkerWage {
	return calc.WorkerWage{
		ID:     rec.Id,
		Name:   rec.GetString("full_name"),
		Wage:   calc.Money(rec.GetFloat("daily_wage")),
		Active: rec.GetString("status") == "active",
	}
}

func dayRecord(rec *core.Record) calc.DayRecord {
	e := entryOf(rec)
	return calc.DayRecord{
		WorkerID: rec.GetString("worker"),
		Date:     rec.GetString("date"),
		Hajri:    e.Hajri,
		Advance:  e.Advance,
	}
}

// LoadWorkers returns workers newest first, optionally only active ones.
func LoadWorkers(app core.App, scope Scope, activeOnly bool) ([]*core.Record, error) {
	expr := ""
	if activeOnly {
		expr = "status = 'active'"
	}
	return scope.find(app, "workers", expr, "-created", nil)
}

// LoadWorkerWages is LoadWorkers reduced to the wage view.
func LoadWorkerWages(app core.App, scope Scope, activeOnly bool) ([]calc.WorkerWage, error) {
	records, err := LoadWorkers(app, scope, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]calc.WorkerWage, len(records))
	for i, r := range records {
		out[i] = workerWage(r)
	}
	return out, nil
}

// LoadDayRecords returns attendance rows between from and to inclusive.
// Empty bounds are open.
func LoadDayRecords(app core.App, scope Scope, from, to string) ([]calc.DayRecord, error) {
	expr := ""
	params := dbx.Params{}
	switch {
	case from != "" && to != "":
		expr = "date >= {:from} && date <= {:to}"
		params["from"], params["to"] = from, to
	case from != "":
		expr = "date >= {:from}"
		params["from"] = from
	case to != "":
		expr = "date <= {:to}"
		params["to"] = to
	}
	records, err := scope.find(app, "attendance", expr, "date", params)
	if err != nil {
		return nil, err
	}
	out := make([]calc.DayRecord, len(records))
	for i, r := range records {
		out[i] = dayRecord(r)
	}
	return out, nil
}

// AttendanceRow is one worker line of the daily attendance grid.
type AttendanceRow struct {
	Worker   calc.WorkerWage `json:"worker"`
	Skill    string          `json:"skill_type"`
	Phone    string          `json:"phone_number"`
	Recorded bool            `json:"recorded"`
	Hajri    decimal.Decimal `json:"hajri_count"`
	Kharchi  decimal.Decimal `json:"kharchi_amount"`
	Status   calc.Status     `json:"status"`
	Display  string          `json:"display"`
	Cost     decimal.Decimal `json:"daily_cost"`
	Net      decimal.Decimal `json:"net_earning"`
}

// AttendanceSheet is the daily grid plus its summary.
type AttendanceSheet struct {
	Date  string          `json:"date"`
	Rows  []AttendanceRow `json:"rows"`
	Stats calc.DayStats   `json:"stats"`
}

// BuildAttendanceSheet lists every worker with their entry for date.
func BuildAttendanceSheet(app core.App, scope Scope, date string) (*AttendanceSheet, error) {
	workers, err := LoadWorkers(app, scope, false)
	if err != nil {
		return nil, err
	}
	records, err := LoadDayRecords(app, scope, date, date)
	if err != nil {
		return nil, err
	}

	byWorker := make(map[string]calc.DayRecord, len(records))
	for _, r := range records {
		byWorker[r.WorkerID] = r
	}

	sheet := &AttendanceSheet{Date: date}
	wages := make([]calc.WorkerWage, 0, len(workers))
	for _, w := range workers {
		ww := workerWage(w)
		wages = append(wages, ww)
		row := AttendanceRow{
			Worker:  ww,
			Skill:   w.GetString("skill_type"),
			Phone:   w.GetString("phone_number"),
			Status:  calc.StatusAbsent,
			Display: "-",
		}
		if r, ok := byWorker[w.Id]; ok {
			row.Recorded = true
			row.Hajri = r.Hajri
			row.Kharchi = r.Advance
			row.Status = calc.StatusOf(r.Hajri)
			row.Display = calc.TraditionalHajri(calc.Float(r.Hajri))
			row.Cost = calc.DailyCost(r.Hajri, ww.Wage)
			row.Net = calc.NetDailyEarning(r.Hajri, ww.Wage, r.Advance)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	sheet.Stats = calc.ComputeDayStats(wages, records)
	return sheet, nil
}

// WorkerCard is one worker's month: the day grid plus totals.
type WorkerCard struct {
	Worker  *core.Record      `json:"-"`
	Wage    calc.WorkerWage   `json:"worker"`
	Month   string            `json:"month"`
	Label   string            `json:"label"`
	Days    []calc.GridDay    `json:"days"`
	Summary calc.MonthSummary `json:"summary"`
}

// BuildWorkerCard loads one worker's attendance for the month containing month.
func BuildWorkerCard(app core.App, workerID string, month time.Time) (*WorkerCard, error) {
	worker, err := app.FindRecordById("workers", workerID)
	if err != nil {
		return nil, fmt.Errorf("worker %s not found: %w", workerID, err)
	}

	first, last := MonthBounds(month)
	records, err := app.FindRecordsByFilter(
		"attendance",
		"worker = {:worker} && date >= {:from} && date <= {:to}",
		"date", 0, 0,
		dbx.Params{"worker": workerID, "from": first, "to": last},
	)
	if err != nil {
		return nil, fmt.Errorf("load worker attendance: %w", err)
	}

	rows := make([]calc.DayRecord, len(records))
	for i, r := range records {
		rows[i] = dayRecord(r)
	}

	ww := workerWage(worker)
	days, summary := calc.WorkerMonth(ww.Wage, month, rows)
	return &WorkerCard{
		Worker:  worker,
		Wage:    ww,
		Month:   month.Format(calc.MonthLayout),
		Label:   month.Format("January 2006"),
		Days:    days,
		Summary: summary,
	}, nil
}

// MonthlyLabor buckets labor cost by month over every worker, newest first.
func MonthlyLabor(app core.App, scope Scope) ([]calc.MonthCost, error) {
	workers, err := LoadWorkerWages(app, scope, false)
	if err != nil {
		return nil, err
	}
	records, err := LoadDayRecords(app, scope, "", "")
	if err != nil {
		return nil, err
	}
	return calc.MonthlyLaborCost(workers, records), nil
}
