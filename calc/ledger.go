package calc

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError is a user-facing rejection of a single field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// LedgerEntry is one client billing row. Seq breaks ties between rows on
// the same date in insertion order.
type LedgerEntry struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Seq         int             `json:"seq"`
	Description string          `json:"description"`
	Bill        decimal.Decimal `json:"bill_amount"`
	Payment     decimal.Decimal `json:"payment_received"`
}

// LedgerLine is an entry with the balance after it.
type LedgerLine struct {
	LedgerEntry
	Balance decimal.Decimal `json:"running_balance"`
}

// LedgerTotals are full-table sums, computed independently of the fold.
type LedgerTotals struct {
	Billed   decimal.Decimal `json:"total_billed"`
	Received decimal.Decimal `json:"total_received"`
	NetDue   decimal.Decimal `json:"net_due"`
}

// ValidateLedgerEntry rejects rows with no positive amount, negative
// amounts, or a blank description.
func ValidateLedgerEntry(description string, bill, payment decimal.Decimal) error {
	if bill.Sign() < 0 || payment.Sign() < 0 {
		return &ValidationError{Field: "amount", Message: "Amounts cannot be negative."}
	}
	if bill.Sign() == 0 && payment.Sign() == 0 {
		return &ValidationError{Field: "amount", Message: "Please enter either a Bill Amount or Payment Received."}
	}
	if strings.TrimSpace(description) == "" {
		return &ValidationError{Field: "description", Message: "Please enter a description (e.g., Bill No or Payment details)."}
	}
	return nil
}

// SortLedger orders entries by date, then insertion order.
func SortLedger(entries []LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Seq < entries[j].Seq
	})
}

// RunningBalances folds bill − payment left to right over the sorted entries.
// The input slice is not modified.
func RunningBalances(entries []LedgerEntry) []LedgerLine {
	sorted := make([]LedgerEntry, len(entries))
	copy(sorted, entries)
	SortLedger(sorted)

	lines := make([]LedgerLine, len(sorted))
	balance := decimal.Zero
	for i, e := range sorted {
		balance = balance.Add(e.Bill).Sub(e.Payment)
		lines[i] = LedgerLine{LedgerEntry: e, Balance: balance}
	}
	return lines
}

// SumLedger totals billed and received amounts.
func SumLedger(entries []LedgerEntry) LedgerTotals {
	var t LedgerTotals
	for _, e := range entries {
		t.Billed = t.Billed.Add(e.Bill)
		t.Received = t.Received.Add(e.Payment)
	}
	t.NetDue = t.Billed.Sub(t.Received)
	return t
}

// Consistent reports whether NetDue agrees with the last running balance.
func (t LedgerTotals) Consistent(lines []LedgerLine) bool {
	if len(lines) == 0 {
		return t.NetDue.IsZero()
	}
	return t.NetDue.Equal(lines[len(lines)-1].Balance)
}
