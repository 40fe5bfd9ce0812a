// Package calc holds the arithmetic behind attendance wages, the client
// billing ledger and estimate budgets. Money values are shopspring decimals
// rounded to two places; nothing in here touches the database.
package calc

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the presence projection of an attendance quantity.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// ParseStatus accepts "present"/"absent" in any case.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present":
		return StatusPresent, true
	case "absent":
		return StatusAbsent, true
	}
	return "", false
}

var (
	four = decimal.NewFromInt(4)
	one  = decimal.NewFromInt(1)
)

// Decimal converts a stored float into a decimal. NaN and infinities become zero.
func Decimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Money converts a stored float into a decimal rounded to paise.
func Money(f float64) decimal.Decimal {
	return Decimal(f).Round(2)
}

// Float returns d as a float64 for storage.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// NormalizeHajri clamps q at zero and snaps it to the nearest quarter day.
// There is no upper bound; overtime is recorded as multiples above one.
func NormalizeHajri(q float64) decimal.Decimal {
	d := Decimal(q)
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	return d.Mul(four).Round(0).Div(four)
}

// NormalizeAdvance clamps a kharchi amount at zero and rounds it to paise.
func NormalizeAdvance(a float64) decimal.Decimal {
	d := Money(a)
	if d.Sign() < 0 {
		return decimal.Zero
	}
	return d
}

// StatusOf projects a quantity onto presence. Quantity is the only source
// of truth; status is never stored independently of it.
func StatusOf(q decimal.Decimal) Status {
	if q.Sign() > 0 {
		return StatusPresent
	}
	return StatusAbsent
}

// ApplyStatus returns the quantity that results from toggling status on a
// day currently holding q.
func ApplyStatus(q decimal.Decimal, s Status) decimal.Decimal {
	switch s {
	case StatusAbsent:
		return decimal.Zero
	case StatusPresent:
		if q.Sign() <= 0 {
			return one
		}
	}
	return q
}

// DailyCost is quantity × daily wage.
func DailyCost(q, wage decimal.Decimal) decimal.Decimal {
	return q.Mul(wage).Round(2)
}

// NetDailyEarning is the day's cost less the same-day advance.
func NetDailyEarning(q, wage, advance decimal.Decimal) decimal.Decimal {
	return DailyCost(q, wage).Sub(advance.Round(2))
}

// TraditionalHajri renders a quantity in register notation: one "P" per
// whole day followed by a quarter, half or three-quarter glyph. Fractions
// outside the three bands fall back to "½".
func TraditionalHajri(q float64) string {
	if q <= 0 || math.IsNaN(q) {
		return "-"
	}

	whole := math.Floor(q)
	frac := q - whole

	var glyph string
	switch {
	case frac > 0.1 && frac < 0.4:
		glyph = "¼"
	case frac >= 0.4 && frac < 0.6:
		glyph = "½"
	case frac > 0.6 && frac < 0.9:
		glyph = "¾"
	}

	out := strings.TrimSpace(strings.Repeat("P", int(whole)) + " " + glyph)
	if out == "" {
		return "½"
	}
	return out
}

// DayEntry is the authoritative content of one attendance row.
type DayEntry struct {
	Hajri   decimal.Decimal
	Advance decimal.Decimal
}

// Status is the read-time projection of the entry's quantity.
func (d DayEntry) Status() Status {
	return StatusOf(d.Hajri)
}

// ChangeKind names the single field an attendance edit touches.
type ChangeKind int

const (
	ChangeHajri ChangeKind = iota + 1
	ChangeAdvance
	ChangeStatus
)

// AttendanceChange is one edit coming from the attendance grid.
type AttendanceChange struct {
	Kind   ChangeKind
	Value  float64
	Status Status
}

func SetHajri(q float64) AttendanceChange {
	return AttendanceChange{Kind: ChangeHajri, Value: q}
}

func SetAdvance(a float64) AttendanceChange {
	return AttendanceChange{Kind: ChangeAdvance, Value: a}
}

func SetStatus(s Status) AttendanceChange {
	return AttendanceChange{Kind: ChangeStatus, Status: s}
}

// Apply returns cur with the change applied. Changing the advance never
// touches the quantity.
func (c AttendanceChange) Apply(cur DayEntry) DayEntry {
	next := cur
	switch c.Kind {
	case ChangeHajri:
		next.Hajri = NormalizeHajri(c.Value)
	case ChangeAdvance:
		next.Advance = NormalizeAdvance(c.Value)
	case ChangeStatus:
		next.Hajri = ApplyStatus(cur.Hajri, c.Status)
	}
	return next
}
