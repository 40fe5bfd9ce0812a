package calc

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	monthLabel  = "January 2006"
)

// WorkerWage is the worker's current rate. Historical cost is always
// computed with it; there is no per-date rate history.
type WorkerWage struct {
	ID     string
	Name   string
	Wage   decimal.Decimal
	Active bool
}

// DayRecord is one stored attendance row.
type DayRecord struct {
	WorkerID string
	Date     string
	Hajri    decimal.Decimal
	Advance  decimal.Decimal
}

func wageIndex(workers []WorkerWage) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(workers))
	for _, w := range workers {
		m[w.ID] = w.Wage
	}
	return m
}

// DayStats summarises one day of the attendance grid.
type DayStats struct {
	TotalWorkers int             `json:"total_workers"`
	PresentToday int             `json:"present_today"`
	TotalHajri   decimal.Decimal `json:"total_hajri"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
}

func ComputeDayStats(workers []WorkerWage, records []DayRecord) DayStats {
	wages := wageIndex(workers)
	stats := DayStats{TotalWorkers: len(workers)}
	for _, r := range records {
		if r.Hajri.Sign() <= 0 {
			continue
		}
		stats.PresentToday++
		stats.TotalHajri = stats.TotalHajri.Add(r.Hajri)
		stats.LaborCost = stats.LaborCost.Add(DailyCost(r.Hajri, wages[r.WorkerID]))
	}
	return stats
}

// LaborCost returns the global labor cost and the part of it falling in
// month (YYYY-MM). Records for workers not in the list cost nothing.
func LaborCost(workers []WorkerWage, records []DayRecord, month string) (total, monthly decimal.Decimal) {
	wages := wageIndex(workers)
	for _, r := range records {
		cost := DailyCost(r.Hajri, wages[r.WorkerID])
		total = total.Add(cost)
		if len(r.Date) >= len(MonthLayout) && r.Date[:len(MonthLayout)] == month {
			monthly = monthly.Add(cost)
		}
	}
	return total, monthly
}

// MonthCost is labor spend for one calendar month.
type MonthCost struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	start  time.Time
}

// MonthlyLaborCost buckets hajri × current wage by month label, newest first.
func MonthlyLaborCost(workers []WorkerWage, records []DayRecord) []MonthCost {
	wages := wageIndex(workers)
	buckets := make(map[string]*MonthCost)
	for _, r := range records {
		d, err := time.Parse(DateLayout, r.Date)
		if err != nil {
			continue
		}
		label := d.Format(monthLabel)
		b, ok := buckets[label]
		if !ok {
			b = &MonthCost{Month: label, start: time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)}
			buckets[label] = b
		}
		b.Amount = b.Amount.Add(DailyCost(r.Hajri, wages[r.WorkerID]))
	}

	out := make([]MonthCost, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start.After(out[j].start) })
	return out
}

// GridDay is one cell of a worker's monthly card.
type GridDay struct {
	Date     string          `json:"date"`
	Weekday  string          `json:"weekday"`
	Recorded bool            `json:"recorded"`
	Hajri    decimal.Decimal `json:"hajri_count"`
	Display  string          `json:"display"`
	Advance  decimal.Decimal `json:"kharchi_amount"`
	Earning  decimal.Decimal `json:"daily_earning"`
}

type MonthSummary struct {
	TotalHajri   decimal.Decimal `json:"total_hajri"`
	TotalAdvance decimal.Decimal `json:"total_kharchi"`
	NetPayable   decimal.Decimal `json:"net_payable"`
}

// WorkerMonth lays out every day of month (any time inside it) for one
// worker and totals the month. Days without a row show "-".
func WorkerMonth(wage decimal.Decimal, month time.Time, records []DayRecord) ([]GridDay, MonthSummary) {
	byDate := make(map[string]DayRecord, len(records))
	var sum MonthSummary
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	prefix := first.Format(MonthLayout)
	for _, r := range records {
		if len(r.Date) < len(prefix) || r.Date[:len(prefix)] != prefix {
			continue
		}
		byDate[r.Date] = r
		sum.TotalHajri = sum.TotalHajri.Add(r.Hajri)
		sum.TotalAdvance = sum.TotalAdvance.Add(r.Advance)
	}
	sum.NetPayable = DailyCost(sum.TotalHajri, wage).Sub(sum.TotalAdvance)

	var days []GridDay
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		key := d.Format(DateLayout)
		day := GridDay{Date: key, Weekday: d.Weekday().String()[:3], Display: "-"}
		if r, ok := byDate[key]; ok {
			day.Recorded = true
			day.Hajri = r.Hajri
			day.Advance = r.Advance
			day.Earning = NetDailyEarning(r.Hajri, wage, r.Advance)
			if r.Hajri.Sign() > 0 {
				day.Display = TraditionalHajri(Float(r.Hajri))
			} else {
				day.Display = "A"
			}
		}
		days = append(days, day)
	}
	return days, sum
}
