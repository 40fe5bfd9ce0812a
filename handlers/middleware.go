package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
	"sitebook/templates"
)

type contextKey string

const ActiveProjectKey contextKey = "activeProject"
const HeaderDataKey contextKey = "headerData"
const SidebarDataKey contextKey = "sidebarData"
const BrandingKey contextKey = "branding"

// GetActiveProject extracts the active project from the request context.
func GetActiveProject(r *http.Request) *templates.ActiveProject {
	if val, ok := r.Context().Value(ActiveProjectKey).(*templates.ActiveProject); ok {
		return val
	}
	return nil
}

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// GetSidebarData extracts the pre-built SidebarData from the request context.
func GetSidebarData(r *http.Request) templates.SidebarData {
	if val, ok := r.Context().Value(SidebarDataKey).(templates.SidebarData); ok {
		return val
	}
	return templates.SidebarData{}
}

// GetBranding returns the branding resolved for the active project.
func GetBranding(r *http.Request) services.Branding {
	if val, ok := r.Context().Value(BrandingKey).(services.Branding); ok {
		return val
	}
	return services.Branding{}
}

func brandView(b services.Branding) templates.BrandView {
	return templates.BrandView{
		Name:            b.BrandName,
		Tagline:         b.Tagline,
		HasLogo:         b.HasLogo(),
		BackgroundType:  b.BackgroundType,
		BackgroundColor: b.BackgroundColor,
		HasBackground:   b.HasBackground,
	}
}

// ActiveProjectMiddleware reads the "active_project" cookie, loads the project
// record, resolves the branding for it and builds HeaderData with the full
// project list. All of it is stored in the request context for handlers and
// templates.
func ActiveProjectMiddleware(app *pocketbase.PocketBase, store *services.BrandingStore) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var activeProj *templates.ActiveProject

		cookie, err := e.Request.Cookie(activeProjectCookie)
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("projects", cookie.Value)
			if err == nil {
				activeProj = &templates.ActiveProject{
					ID:   rec.Id,
					Name: rec.GetString("name"),
				}
			} else {
				log.Printf("middleware: active project %s not found, clearing cookie", cookie.Value)
				setActiveProject(e, "")
			}
		}

		var selectorItems []templates.ProjectSelectorItem
		records, err := app.FindRecordsByFilter("projects", "id != ''", "name", 0, 0)
		if err != nil {
			log.Printf("middleware: could not list projects: %v", err)
		}
		for _, rec := range records {
			selectorItems = append(selectorItems, templates.ProjectSelectorItem{
				ID:       rec.Id,
				Name:     rec.GetString("name"),
				Client:   rec.GetString("client_name"),
				IsActive: activeProj != nil && rec.Id == activeProj.ID,
			})
		}

		projectID := ""
		if activeProj != nil {
			projectID = activeProj.ID
		}
		brand := store.Current(projectID)

		headerData := templates.HeaderData{
			ActiveProject: activeProj,
			Projects:      selectorItems,
			Brand:         brandView(brand),
		}

		ctx := context.WithValue(e.Request.Context(), ActiveProjectKey, activeProj)
		ctx = context.WithValue(ctx, HeaderDataKey, headerData)
		ctx = context.WithValue(ctx, BrandingKey, brand)
		e.Request = e.Request.WithContext(ctx)

		// sidebar counts need the active project in context first
		sidebarData := BuildSidebarData(e.Request, app)
		ctx = context.WithValue(e.Request.Context(), SidebarDataKey, sidebarData)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
