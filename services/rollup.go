package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"sitebook/calc"
)

// Dashboard holds the headline figures, each read from its own collection.
// It has no combined profit figure; that lives on the monthly report.
type Dashboard struct {
	Date             string          `json:"date"`
	ProjectLabel     string          `json:"project_label"`
	TotalBudget      decimal.Decimal `json:"total_budget"`
	LaborCost        decimal.Decimal `json:"labor_cost"`
	MonthlyLaborCost decimal.Decimal `json:"monthly_labor_cost"`
	MaterialCost     decimal.Decimal `json:"material_cost"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	Today            calc.DayStats   `json:"today"`
}

// BuildDashboard loads the dashboard sources in parallel. Labor is priced
// at the current wage of active workers; attendance of anyone else costs 0.
// date selects the attendance day; the monthly labor figure is for the
// calendar month containing now.
func BuildDashboard(ctx context.Context, app core.App, scope Scope, date string, now time.Time) (*Dashboard, error) {
	d := &Dashboard{Date: date}

	var (
		workers   []calc.WorkerWage
		records   []calc.DayRecord
		estimates []calc.BudgetEstimate
		expenses  decimal.Decimal
		ledger    []calc.LedgerEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	load := func(fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}
	load(func() (err error) {
		workers, err = LoadWorkerWages(app, scope, true)
		return err
	})
	load(func() (err error) {
		records, err = LoadDayRecords(app, scope, "", "")
		return err
	})
	load(func() (err error) {
		estimates, err = LoadBudgetEstimates(app, scope)
		return err
	})
	load(func() (err error) {
		expenses, err = sumExpenses(app, scope, "", "")
		return err
	})
	load(func() (err error) {
		ledger, err = LoadLedgerEntries(app, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	d.TotalBudget = calc.TotalBudget(estimates)
	if len(estimates) > 0 {
		// oldest estimate names the project, as the list is newest first
		d.ProjectLabel = estimates[len(estimates)-1].Name
	}

	d.LaborCost, d.MonthlyLaborCost = calc.LaborCost(workers, records, now.Format(calc.MonthLayout))
	d.MaterialCost = expenses

	totals := calc.SumLedger(ledger)
	d.TotalBilled = totals.Billed
	d.TotalReceived = totals.Received

	var today []calc.DayRecord
	for _, r := range records {
		if r.Date == date {
			today = append(today, r)
		}
	}
	d.Today = calc.ComputeDayStats(workers, today)
	return d, nil
}

func sumExpenses(app core.App, scope Scope, from, to string) (decimal.Decimal, error) {
	records, err := loadExpenses(app, scope, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(calc.Money(r.GetFloat("amount")))
	}
	return total, nil
}

func loadExpenses(app core.App, scope Scope, from, to string) ([]*core.Record, error) {
	expr := ""
	params := dbx.Params{}
	if from != "" && to != "" {
		expr = "date >= {:from} && date <= {:to}"
		params["from"], params["to"] = from, to
	}
	return scope.find(app, "expenses", expr, "-date", params)
}

// CategoryTotal is one row of the monthly expense breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlyReport is income versus expenses for one calendar month. Income is
// worker payments recorded in the month, not the client ledger.
type MonthlyReport struct {
	Month     string          `json:"month"`
	Label     string          `json:"label"`
	Income    decimal.Decimal `json:"income"`
	Expenses  decimal.Decimal `json:"expenses"`
	Profit    decimal.Decimal `json:"profit"`
	Breakdown []CategoryTotal `json:"breakdown"`
}

// BuildMonthlyReport sums payments and expenses dated within month.
func BuildMonthlyReport(app core.App, scope Scope, month time.Time) (*MonthlyReport, error) {
	first, last := MonthBounds(month)

	payments, err := scope.find(app, "payments",
		"payment_date >= {:from} && payment_date <= {:to}", "",
		dbx.Params{"from": first, "to": last})
	if err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}
	expenses, err := loadExpenses(app, scope, first, last)
	if err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}

	report := &MonthlyReport{
		Month: month.Format(calc.MonthLayout),
		Label: month.Format("January 2006"),
	}
	for _, p := range payments {
		report.Income = report.Income.Add(calc.Money(p.GetFloat("amount")))
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		amt := calc.Money(e.GetFloat("amount"))
		report.Expenses = report.Expenses.Add(amt)
		cat := capitalize(e.GetString("category"))
		if cat == "" {
			cat = "Other"
		}
		byCategory[cat] = byCategory[cat].Add(amt)
	}
	report.Profit = report.Income.Sub(report.Expenses)

	for cat, amt := range byCategory {
		report.Breakdown = append(report.Breakdown, CategoryTotal{Category: cat, Amount: amt})
	}
	sort.Slice(report.Breakdown, func(i, j int) bool {
		if !report.Breakdown[i].Amount.Equal(report.Breakdown[j].Amount) {
			return report.Breakdown[i].Amount.GreaterThan(report.Breakdown[j].Amount)
		}
		return report.Breakdown[i].Category < report.Breakdown[j].Category
	})
	return report, nil
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
