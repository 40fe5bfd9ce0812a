package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sitebook/calc"
)

// Mapping target fields for estimate import.
const (
	FieldDescription = "description"
	FieldUnit        = "unit"
	FieldQuantity    = "quantity"
	FieldRate        = "rate"
	FieldCategory    = "category"
)

// MappingFields lists the import targets in display order.
var MappingFields = []string{FieldDescription, FieldUnit, FieldQuantity, FieldRate, FieldCategory}

// ColumnMapping maps a target field to the header it is read from.
type ColumnMapping map[string]string

var headerVocabulary = []struct {
	field    string
	keywords []string
}{
	{FieldDescription, []string{"desc", "item"}},
	{FieldUnit, []string{"unit"}},
	{FieldQuantity, []string{"qty", "quantity"}},
	{FieldRate, []string{"rate", "price"}},
	{FieldCategory, []string{"cat", "group"}},
}

// SuggestColumnMapping guesses a mapping from header names by
// case-insensitive substring match. A later header wins over an earlier one
// for the same field. The result is only a default for the user to edit.
func SuggestColumnMapping(headers []string) ColumnMapping {
	m := ColumnMapping{}
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, v := range headerVocabulary {
			for _, kw := range v.keywords {
				if strings.Contains(lower, kw) {
					m[v.field] = h
					break
				}
			}
		}
	}
	return m
}

// ExtraColumns returns headers not used by the mapping, in file order.
func ExtraColumns(headers []string, mapping ColumnMapping) []string {
	used := make(map[string]bool, len(mapping))
	for _, h := range mapping {
		used[h] = true
	}
	var extras []string
	for _, h := range headers {
		if h != "" && !used[h] {
			extras = append(extras, h)
		}
	}
	return extras
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

// SanitizeNumber strips everything except digits, '.' and '-' and parses
// what is left. Unparseable cells are 0.
func SanitizeNumber(cell string) float64 {
	cleaned := nonNumeric.ReplaceAllString(cell, "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// ImportItem is one estimate line built from a spreadsheet row.
type ImportItem struct {
	Description string            `json:"description"`
	Unit        string            `json:"unit"`
	Quantity    float64           `json:"quantity"`
	Rate        float64           `json:"rate"`
	Amount      decimal.Decimal   `json:"amount"`
	Category    string            `json:"category"`
	ExtraData   map[string]string `json:"extra_data,omitempty"`
}

// BuildEstimateItems converts table rows into estimate items using mapping.
// Selected extra columns are copied verbatim into ExtraData.
func BuildEstimateItems(table *Table, mapping ColumnMapping, extras []string) []ImportItem {
	index := make(map[string]int, len(table.Headers))
	for i, h := range table.Headers {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}
	col := func(row []string, field string) string {
		h, ok := mapping[field]
		if !ok || h == "" {
			return ""
		}
		i, ok := index[h]
		if !ok {
			return ""
		}
		return cellValue(row, i)
	}

	items := make([]ImportItem, 0, len(table.Rows))
	for _, row := range table.Rows {
		item := ImportItem{
			Description: col(row, FieldDescription),
			Unit:        col(row, FieldUnit),
			Quantity:    SanitizeNumber(col(row, FieldQuantity)),
			Rate:        SanitizeNumber(col(row, FieldRate)),
			Category:    col(row, FieldCategory),
		}
		if item.Description == "" {
			item.Description = "Unknown Item"
		}
		if item.Unit == "" {
			item.Unit = "Nos"
		}
		if item.Category == "" {
			item.Category = "General"
		}
		item.Amount = calc.ItemAmount(item.Quantity, item.Rate)

		for _, h := range extras {
			i, ok := index[h]
			if !ok || i >= len(row) {
				continue
			}
			if item.ExtraData == nil {
				item.ExtraData = make(map[string]string)
			}
			item.ExtraData[h] = strings.TrimSpace(row[i])
		}
		items = append(items, item)
	}
	return items
}

// EstimateNameFromFile is the file name without its extension.
func EstimateNameFromFile(fileName string) string {
	base := filepath.Base(fileName)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "Imported Estimate"
	}
	return name
}

// ImportEstimate creates the estimate and all of its items in one
// transaction; a failing item rolls the whole import back.
func ImportEstimate(app core.App, scope Scope, name string, items []ImportItem) (*core.Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &calc.ValidationError{Field: "name", Message: "Estimate name is required."}
	}
	if len(items) == 0 {
		return nil, &calc.ValidationError{Field: "file", Message: "The file has no data rows to import."}
	}

	var estimate *core.Record
	err := app.RunInTransaction(func(txApp core.App) error {
		estCol, err := txApp.FindCollectionByNameOrId("estimates")
		if err != nil {
			return fmt.Errorf("estimates collection: %w", err)
		}
		itemCol, err := txApp.FindCollectionByNameOrId("estimate_items")
		if err != nil {
			return fmt.Errorf("estimate_items collection: %w", err)
		}

		estimate = core.NewRecord(estCol)
		estimate.Set("project", scope.ProjectID)
		estimate.Set("name", strings.TrimSpace(name))
		estimate.Set("is_active", false)
		if err := txApp.Save(estimate); err != nil {
			return fmt.Errorf("save estimate: %w", err)
		}

		for i, item := range items {
			r := core.NewRecord(itemCol)
			r.Set("estimate", estimate.Id)
			r.Set("sort_order", i+1)
			r.Set("description", item.Description)
			r.Set("unit", item.Unit)
			r.Set("quantity", item.Quantity)
			r.Set("rate", item.Rate)
			r.Set("category", item.Category)
			if len(item.ExtraData) > 0 {
				r.Set("extra_data", item.ExtraData)
			}
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("save item %d (%q): %w", i+1, item.Description, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return estimate, nil
}

// SetActiveEstimate clears every active flag and sets id's in one
// transaction, so readers never observe zero or two active estimates.
func SetActiveEstimate(app core.App, id string) error {
	return app.RunInTransaction(func(txApp core.App) error {
		target, err := txApp.FindRecordById("estimates", id)
		if err != nil {
			return fmt.Errorf("estimate %s not found: %w", id, err)
		}

		active, err := txApp.FindRecordsByFilter("estimates", "is_active = true", "", 0, 0)
		if err != nil {
			return fmt.Errorf("query active estimates: %w", err)
		}
		for _, r := range active {
			if r.Id == id {
				continue
			}
			r.Set("is_active", false)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("deactivate estimate %s: %w", r.Id, err)
			}
		}

		if target.GetBool("is_active") {
			return nil
		}
		target.Set("is_active", true)
		if err := txApp.Save(target); err != nil {
			return fmt.Errorf("activate estimate: %w", err)
		}
		return nil
	})
}

// DeactivateEstimate clears the active flag of one estimate.
func DeactivateEstimate(app core.App, id string) error {
	rec, err := app.FindRecordById("estimates", id)
	if err != nil {
		return fmt.Errorf("estimate %s not found: %w", id, err)
	}
	rec.Set("is_active", false)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("deactivate estimate: %w", err)
	}
	return nil
}

// EstimateSummary is an estimate with its recomputed total.
type EstimateSummary struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Active    bool            `json:"is_active"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Created   string          `json:"created"`
}

// EstimateDetail is one estimate with its items, amounts recomputed.
type EstimateDetail struct {
	EstimateSummary
	Items []EstimateLine `json:"items"`
}

type EstimateLine struct {
	ID          string          `json:"id"`
	SortOrder   int             `json:"sort_order"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    float64         `json:"quantity"`
	Rate        float64         `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	ExtraData   map[string]any  `json:"extra_data,omitempty"`
}

// LoadBudgetEstimates returns every estimate in scope with its items,
// newest first.
func LoadBudgetEstimates(app core.App, scope Scope) ([]calc.BudgetEstimate, error) {
	estimates, err := scope.find(app, "estimates", "", "-created", nil)
	if err != nil {
		return nil, err
	}
	out := make([]calc.BudgetEstimate, 0, len(estimates))
	for _, e := range estimates {
		items, err := app.FindRecordsByFilter(
			"estimate_items", "estimate = {:id}", "sort_order", 0, 0,
			map[string]any{"id": e.Id},
		)
		if err != nil {
			return nil, fmt.Errorf("load items for estimate %s: %w", e.Id, err)
		}
		be := calc.BudgetEstimate{ID: e.Id, Name: e.GetString("name"), Active: e.GetBool("is_active")}
		for _, it := range items {
			be.Items = append(be.Items, calc.BudgetItem{
				Quantity:     it.GetFloat("quantity"),
				Rate:         it.GetFloat("rate"),
				StoredAmount: it.GetFloat("amount"),
			})
		}
		out = append(out, be)
	}
	return out, nil
}

// ListEstimates summarises every estimate in scope, newest first.
func ListEstimates(app core.App, scope Scope) ([]EstimateSummary, error) {
	records, err := scope.find(app, "estimates", "", "-created", nil)
	if err != nil {
		return nil, err
	}
	budgets, err := LoadBudgetEstimates(app, scope)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]calc.BudgetEstimate, len(budgets))
	for _, b := range budgets {
		byID[b.ID] = b
	}

	out := make([]EstimateSummary, len(records))
	for i, r := range records {
		b := byID[r.Id]
		out[i] = EstimateSummary{
			ID:        r.Id,
			Name:      r.GetString("name"),
			Active:    r.GetBool("is_active"),
			ItemCount: len(b.Items),
			Total:     b.Total(),
			Created:   r.GetDateTime("created").Time().Format(calc.DateLayout),
		}
	}
	return out, nil
}

// LoadEstimateDetail loads one estimate with its items.
func LoadEstimateDetail(app core.App, id string) (*EstimateDetail, error) {
	est, err := app.FindRecordById("estimates", id)
	if err != nil {
		return nil, fmt.Errorf("estimate %s not found: %w", id, err)
	}
	items, err := app.FindRecordsByFilter(
		"estimate_items", "estimate = {:id}", "sort_order", 0, 0,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, fmt.Errorf("load estimate items: %w", err)
	}

	d := &EstimateDetail{EstimateSummary: EstimateSummary{
		ID:        est.Id,
		Name:      est.GetString("name"),
		Active:    est.GetBool("is_active"),
		ItemCount: len(items),
		Created:   est.GetDateTime("created").Time().Format(calc.DateLayout),
	}}
	total := decimal.Zero
	for _, it := range items {
		line := EstimateLine{
			ID:          it.Id,
			SortOrder:   it.GetInt("sort_order"),
			Description: it.GetString("description"),
			Unit:        it.GetString("unit"),
			Quantity:    it.GetFloat("quantity"),
			Rate:        it.GetFloat("rate"),
			Category:    it.GetString("category"),
		}
		line.Amount = calc.ItemAmount(line.Quantity, line.Rate)
		var extra map[string]any
		if err := it.UnmarshalJSONField("extra_data", &extra); err == nil && len(extra) > 0 {
			line.ExtraData = extra
		}
		total = total.Add(line.Amount)
		d.Items = append(d.Items, line)
	}
	d.Total = total
	return d, nil
}

// DeleteEstimate removes an estimate; its items cascade.
func DeleteEstimate(app core.App, scope Scope, id string) error {
	rec, err := scope.findOne(app, "estimates", id)
	if err != nil {
		return err
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	return nil
}
