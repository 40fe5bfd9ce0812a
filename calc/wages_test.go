package calc

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalizeHajri(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "0"},
		{"negative clamps to zero", -0.75, "0"},
		{"quarter", 0.25, "0.25"},
		{"full day", 1, "1"},
		{"overtime", 2.75, "2.75"},
		{"snaps down", 1.1, "1"},
		{"snaps up", 1.2, "1.25"},
		{"float drift", 0.1 + 0.2 + 0.2, "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHajri(tt.input)
			if !got.Equal(dec(tt.expect)) {
				t.Errorf("NormalizeHajri(%v) = %s, want %s", tt.input, got, tt.expect)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(decimal.Zero); got != StatusAbsent {
		t.Errorf("StatusOf(0) = %q, want Absent", got)
	}
	if got := StatusOf(dec("0.25")); got != StatusPresent {
		t.Errorf("StatusOf(0.25) = %q, want Present", got)
	}
	if got := StatusOf(dec("3")); got != StatusPresent {
		t.Errorf("StatusOf(3) = %q, want Present", got)
	}
}

func TestApplyStatus(t *testing.T) {
	tests := []struct {
		name   string
		q      string
		status Status
		expect string
	}{
		{"absent zeroes quantity", "1.5", StatusAbsent, "0"},
		{"present on zero sets exactly one", "0", StatusPresent, "1"},
		{"present keeps existing quantity", "0.5", StatusPresent, "0.5"},
		{"present keeps overtime", "2.25", StatusPresent, "2.25"},
		{"absent on zero stays zero", "0", StatusAbsent, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyStatus(dec(tt.q), tt.status)
			if !got.Equal(dec(tt.expect)) {
				t.Errorf("ApplyStatus(%s, %s) = %s, want %s", tt.q, tt.status, got, tt.expect)
			}
		})
	}
}

func TestDailyCostAndNetEarning(t *testing.T) {
	tests := []struct {
		name       string
		q          string
		wage       string
		advance    string
		expectCost string
		expectNet  string
	}{
		{"example from the register", "1.25", "500", "100", "625.00", "525.00"},
		{"no advance", "1.25", "500", "0", "625.00", "625.00"},
		{"absent with advance", "0", "650", "200", "0.00", "-200.00"},
		{"three quarters odd wage", "0.75", "533.33", "0", "400.00", "400.00"},
		{"overtime", "2.5", "480", "50", "1200.00", "1150.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := DailyCost(dec(tt.q), dec(tt.wage))
			if cost.StringFixed(2) != tt.expectCost {
				t.Errorf("DailyCost = %s, want %s", cost.StringFixed(2), tt.expectCost)
			}
			net := NetDailyEarning(dec(tt.q), dec(tt.wage), dec(tt.advance))
			if net.StringFixed(2) != tt.expectNet {
				t.Errorf("NetDailyEarning = %s, want %s", net.StringFixed(2), tt.expectNet)
			}
		})
	}
}

func TestDailyCostQuarterMultiplesExact(t *testing.T) {
	wage := dec("537.5")
	for i := 0; i <= 20; i++ {
		q := NormalizeHajri(float64(i) * 0.25)
		got := DailyCost(q, wage)
		want := wage.Mul(decimal.NewFromInt(int64(i))).Div(decimal.NewFromInt(4)).Round(2)
		if !got.Equal(want) {
			t.Errorf("q=%s: DailyCost = %s, want %s", q, got, want)
		}
	}
}

func TestTraditionalHajri(t *testing.T) {
	tests := []struct {
		q      float64
		expect string
	}{
		{0, "-"},
		{0.25, "¼"},
		{0.5, "½"},
		{0.75, "¾"},
		{1, "P"},
		{1.25, "P ¼"},
		{1.5, "P ½"},
		{2, "PP"},
		{3.75, "PPP ¾"},
		{0.05, "½"},
		{1.95, "P"},
	}

	for _, tt := range tests {
		got := TraditionalHajri(tt.q)
		if got != tt.expect {
			t.Errorf("TraditionalHajri(%v) = %q, want %q", tt.q, got, tt.expect)
		}
	}
}

func TestAttendanceChangeApply(t *testing.T) {
	cur := DayEntry{Hajri: dec("1.5"), Advance: dec("100")}

	tests := []struct {
		name        string
		change      AttendanceChange
		expectHajri string
		expectAdv   string
		expectState Status
	}{
		{"set hajri", SetHajri(0.75), "0.75", "100", StatusPresent},
		{"set hajri to zero", SetHajri(0), "0", "100", StatusAbsent},
		{"set advance keeps hajri", SetAdvance(250), "1.5", "250", StatusPresent},
		{"negative advance clamps", SetAdvance(-20), "1.5", "0", StatusPresent},
		{"absent toggle", SetStatus(StatusAbsent), "0", "100", StatusAbsent},
		{"present toggle keeps quantity", SetStatus(StatusPresent), "1.5", "100", StatusPresent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.change.Apply(cur)
			if !got.Hajri.Equal(dec(tt.expectHajri)) {
				t.Errorf("Hajri = %s, want %s", got.Hajri, tt.expectHajri)
			}
			if !got.Advance.Equal(dec(tt.expectAdv)) {
				t.Errorf("Advance = %s, want %s", got.Advance, tt.expectAdv)
			}
			if got.Status() != tt.expectState {
				t.Errorf("Status = %s, want %s", got.Status(), tt.expectState)
			}
		})
	}

	zero := DayEntry{}
	if got := SetStatus(StatusPresent).Apply(zero); !got.Hajri.Equal(decimal.NewFromInt(1)) {
		t.Errorf("present toggle on empty day = %s, want 1", got.Hajri)
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus(" PRESENT "); !ok || s != StatusPresent {
		t.Errorf("ParseStatus(PRESENT) = %q, %v", s, ok)
	}
	if s, ok := ParseStatus("absent"); !ok || s != StatusAbsent {
		t.Errorf("ParseStatus(absent) = %q, %v", s, ok)
	}
	if _, ok := ParseStatus("late"); ok {
		t.Error("ParseStatus(late) should fail")
	}
}
