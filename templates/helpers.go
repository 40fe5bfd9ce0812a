package templates

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"sitebook/calc"
	"sitebook/services"
)

func inr(d decimal.Decimal) string { return services.FormatINR(d) }

func qty(d decimal.Decimal) string { return services.FormatQty(d) }

func balanceTone(d decimal.Decimal) string {
	switch {
	case d.IsPositive():
		return "text-error"
	case d.IsNegative():
		return "text-success"
	default:
		return ""
	}
}

func profitTone(d decimal.Decimal) string {
	if d.IsNegative() {
		return "text-error"
	}
	return "text-success"
}

func title(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func itoa(n int) string { return strconv.Itoa(n) }

func floatValue(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func intValue(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func zeroBlank(s string, recorded bool) string {
	if !recorded || s == "0" {
		return ""
	}
	return s
}

func colorValue(c string) string {
	if c == "" {
		return "#ffffff"
	}
	return c
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// statusVals is the hx-vals payload that flips a worker to next.
func statusVals(next calc.Status) string {
	b, _ := json.Marshal(map[string]string{"status": string(next)})
	return string(b)
}

// teamActionVals is the hx-vals payload of the team row buttons.
func teamActionVals(action string) string {
	b, _ := json.Marshal(map[string]string{"team_action": action})
	return string(b)
}

// attendanceToggle returns the status a click switches to, with the label
// and tone of the current one.
func attendanceToggle(current calc.Status) (next calc.Status, label, tone string) {
	if current == calc.StatusPresent {
		return calc.StatusAbsent, "Present", "btn-success"
	}
	return calc.StatusPresent, "Absent", "btn-ghost"
}

// bodyStyle is the inline background of the page shell. The colour goes
// through templ's CSS sanitizer, which swaps unsafe values for a placeholder.
func bodyStyle(b BrandView) string {
	switch {
	case b.BackgroundType == "color" && b.BackgroundColor != "":
		return string(templ.SanitizeCSS("background-color", b.BackgroundColor))
	case b.BackgroundType == "image" && b.HasBackground:
		return "background: url('/settings/background') center / cover fixed"
	default:
		return ""
	}
}

func bodyClass(b BrandView) string {
	if bodyStyle(b) == "" {
		return "min-h-screen bg-base-200"
	}
	return "min-h-screen"
}

func navClass(current, href string) string {
	if isActivePath(current, href) {
		return "active"
	}
	return ""
}

func isActivePath(current, href string) bool {
	if href == "/" {
		return current == "/" || current == "/dashboard"
	}
	return len(current) >= len(href) && current[:len(href)] == href
}

func workerBadge(status string) string {
	if status == "active" {
		return "badge-success"
	}
	return "badge-ghost"
}

func activeClass(active bool) string {
	if active {
		return "active"
	}
	return ""
}
