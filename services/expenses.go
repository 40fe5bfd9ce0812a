package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"github.com/shopspring/decimal"

	"sitebook/calc"
)

// ExpenseInput is the expense form. Amount may be left at zero when
// quantity and rate are given.
type ExpenseInput struct {
	Date        string
	Category    string
	MaterialID  string
	Quantity    float64
	Rate        float64
	Amount      float64
	Description string
}

// ExpenseRow is one expense as listed.
type ExpenseRow struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Material    string          `json:"material,omitempty"`
	Quantity    float64         `json:"quantity"`
	Rate        float64         `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	HasPhoto    bool            `json:"has_photo"`
}

// ExpenseList is a month of expenses, newest first.
type ExpenseList struct {
	Month string          `json:"month"`
	Label string          `json:"label"`
	Rows  []ExpenseRow    `json:"expenses"`
	Total decimal.Decimal `json:"total"`
}

// NormalizeCategory maps any casing of a known category to its stored form.
// Unknown values become "Other".
func NormalizeCategory(s string) string {
	c := capitalize(s)
	if slices.Contains(ExpenseCategoryOptions, c) {
		return c
	}
	return "Other"
}

// AddExpense validates and stores an expense. A non-nil photo becomes the
// bill_photo; if storing it fails a PhotoError is returned.
func AddExpense(app core.App, scope Scope, in ExpenseInput, photo *filesystem.File) (*core.Record, error) {
	if _, err := ParseDate(in.Date); err != nil {
		return nil, &calc.ValidationError{Field: "date", Message: err.Error()}
	}
	if in.Quantity < 0 || in.Rate < 0 || in.Amount < 0 {
		return nil, &calc.ValidationError{Field: "amount", Message: "Amounts cannot be negative."}
	}

	amount := calc.Money(in.Amount)
	if amount.IsZero() {
		amount = calc.ItemAmount(in.Quantity, in.Rate)
	}
	if !amount.IsPositive() {
		return nil, &calc.ValidationError{Field: "amount", Message: "Enter an amount, or a quantity and rate."}
	}

	col, err := app.FindCollectionByNameOrId("expenses")
	if err != nil {
		return nil, fmt.Errorf("expenses collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("project", scope.ProjectID)
	rec.Set("date", in.Date)
	rec.Set("category", NormalizeCategory(in.Category))
	rec.Set("material", in.MaterialID)
	rec.Set("quantity", in.Quantity)
	rec.Set("rate", in.Rate)
	rec.Set("amount", calc.Float(amount))
	rec.Set("description", strings.TrimSpace(in.Description))
	if photo != nil {
		rec.Set("bill_photo", photo)
	}
	if err := app.Save(rec); err != nil {
		if photo != nil {
			return nil, &PhotoError{Err: err}
		}
		return nil, fmt.Errorf("save expense: %w", err)
	}
	return rec, nil
}

// ListExpenses returns the expenses dated in the month containing month.
func ListExpenses(app core.App, scope Scope, month time.Time) (*ExpenseList, error) {
	first, last := MonthBounds(month)
	records, err := loadExpenses(app, scope, first, last)
	if err != nil {
		return nil, err
	}

	materials := map[string]string{}
	if all, err := app.FindAllRecords("material_types"); err == nil {
		for _, m := range all {
			materials[m.Id] = m.GetString("name")
		}
	}

	list := &ExpenseList{
		Month: month.Format(calc.MonthLayout),
		Label: month.Format("January 2006"),
	}
	for _, r := range records {
		amt := calc.Money(r.GetFloat("amount"))
		list.Rows = append(list.Rows, ExpenseRow{
			ID:          r.Id,
			Date:        r.GetString("date"),
			Category:    r.GetString("category"),
			Material:    materials[r.GetString("material")],
			Quantity:    r.GetFloat("quantity"),
			Rate:        r.GetFloat("rate"),
			Amount:      amt,
			Description: r.GetString("description"),
			HasPhoto:    r.GetString("bill_photo") != "",
		})
		list.Total = list.Total.Add(amt)
	}
	return list, nil
}

// DeleteExpense removes an expense of the scoped project permanently and
// returns the removed record.
func DeleteExpense(app core.App, scope Scope, id string) (*core.Record, error) {
	rec, err := scope.findOne(app, "expenses", id)
	if err != nil {
		return nil, err
	}
	if err := app.Delete(rec); err != nil {
		return nil, fmt.Errorf("delete expense: %w", err)
	}
	return rec, nil
}

// Material is a material type with its default rate.
type Material struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DefaultRate float64 `json:"default_rate"`
}

// ListMaterials returns every material type by name.
func ListMaterials(app core.App) ([]Material, error) {
	records, err := app.FindRecordsByFilter("material_types", "id != ''", "name", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("query material_types: %w", err)
	}
	out := make([]Material, len(records))
	for i, r := range records {
		out[i] = Material{ID: r.Id, Name: r.GetString("name"), DefaultRate: r.GetFloat("default_rate")}
	}
	return out, nil
}

// AddMaterial creates a material type. Names are unique, ignoring case.
func AddMaterial(app core.App, name string, rate float64) (*core.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &calc.ValidationError{Field: "name", Message: "Material name is required."}
	}
	if rate < 0 {
		return nil, &calc.ValidationError{Field: "default_rate", Message: "Rate cannot be negative."}
	}
	dup, err := app.FindRecordsByFilter("material_types", "name ~ {:name}", "", 0, 0, dbx.Params{"name": name})
	if err != nil {
		return nil, fmt.Errorf("query material_types: %w", err)
	}
	for _, d := range dup {
		if strings.EqualFold(d.GetString("name"), name) {
			return nil, &calc.ValidationError{Field: "name", Message: "A material with this name already exists."}
		}
	}

	col, err := app.FindCollectionByNameOrId("material_types")
	if err != nil {
		return nil, fmt.Errorf("material_types collection: %w", err)
	}
	rec := core.NewRecord(col)
	rec.Set("name", name)
	rec.Set("default_rate", rate)
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save material: %w", err)
	}
	return rec, nil
}
