package calc

import "github.com/shopspring/decimal"

// ItemAmount is quantity × rate. It is always derived, never entered.
func ItemAmount(quantity, rate float64) decimal.Decimal {
	return Decimal(quantity).Mul(Decimal(rate)).Round(2)
}

// BudgetItem carries the stored amount only so callers can see when it
// has drifted; totals ignore it.
type BudgetItem struct {
	Quantity     float64
	Rate         float64
	StoredAmount float64
}

// Amount recomputes the item's amount from quantity and rate.
func (i BudgetItem) Amount() decimal.Decimal {
	return ItemAmount(i.Quantity, i.Rate)
}

// Stale reports whether the persisted amount disagrees with quantity × rate.
func (i BudgetItem) Stale() bool {
	return !Money(i.StoredAmount).Equal(i.Amount())
}

type BudgetEstimate struct {
	ID     string
	Name   string
	Active bool
	Items  []BudgetItem
}

// Total sums recomputed item amounts.
func (e BudgetEstimate) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// TotalBudget sums every estimate, active or not.
func TotalBudget(estimates []BudgetEstimate) decimal.Decimal {
	total := decimal.Zero
	for _, e := range estimates {
		total = total.Add(e.Total())
	}
	return total
}
