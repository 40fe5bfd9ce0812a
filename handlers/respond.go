package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/calc"
	"sitebook/services"
	"sitebook/templates"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON reports whether the client asked for JSON instead of HTML.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// respond writes data as JSON for API clients, the bare content for HTMX
// swaps and the full page shell otherwise.
func respond(e *core.RequestEvent, pageTitle string, data any, content templ.Component) error {
	if wantsJSON(e.Request) {
		return e.JSON(http.StatusOK, data)
	}
	c := content
	if !isHTMX(e.Request) {
		c = templates.Page(pageTitle, GetHeaderData(e.Request), GetSidebarData(e.Request), content)
	}
	return c.Render(e.Request.Context(), e.Response)
}

// redirect sends an HX-Redirect for HTMX requests and a 302 otherwise.
func redirect(e *core.RequestEvent, url string) error {
	if isHTMX(e.Request) {
		e.Response.Header().Set("HX-Redirect", url)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, url)
}

// monthNav returns the months before and after month as YYYY-MM.
func monthNav(month time.Time) (prev, next string) {
	return month.AddDate(0, -1, 0).Format(calc.MonthLayout), month.AddDate(0, 1, 0).Format(calc.MonthLayout)
}

// scopeOf limits queries to the active project, if any.
func scopeOf(r *http.Request) services.Scope {
	if p := GetActiveProject(r); p != nil {
		return services.Scope{ProjectID: p.ID}
	}
	return services.Scope{}
}
