package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
	"sitebook/templates"
)

func settingsScopeName(e *core.RequestEvent) string {
	if p := GetActiveProject(e.Request); p != nil {
		return p.Name
	}
	return "all projects (default)"
}

// HandleSettings shows the branding form for the active project.
func HandleSettings(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		b := GetBranding(e.Request)
		return respond(e, "Settings", b, templates.SettingsContent(b, settingsScopeName(e), nil))
	}
}

// HandleSettingsSave persists the branding form through the store so every
// later request sees the new values.
func HandleSettingsSave(app *pocketbase.PocketBase, store *services.BrandingStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		_, logo, err := uploadedBytes(e, "logo")
		if err != nil {
			log.Printf("settings_save: read logo: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Could not read the uploaded logo.")
		}
		_, background, err := uploadedBytes(e, "background")
		if err != nil {
			log.Printf("settings_save: read background: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Could not read the uploaded background.")
		}

		in := services.BrandingUpdate{
			BrandName:       formString(e, "brand_name"),
			SiteAddress:     formString(e, "site_address"),
			BackgroundType:  formString(e, "background_type"),
			BackgroundColor: formString(e, "background_color"),
			Logo:            logo,
			Background:      background,
			RemoveLogo:      formBool(e, "remove_logo"),
		}
		if p := GetActiveProject(e.Request); p != nil {
			in.ProjectID = p.ID
		}

		b, err := store.Update(in)
		if errs, ok := validationErrors(err); ok && !wantsJSON(e.Request) {
			SetToast(e, "warning", "Please fix the errors below")
			return respond(e, "Settings", GetBranding(e.Request),
				templates.SettingsContent(GetBranding(e.Request), settingsScopeName(e), errs))
		}
		if err != nil {
			return fail(e, "settings_save", err)
		}
		if wantsJSON(e.Request) {
			return e.JSON(http.StatusOK, b)
		}
		SetToast(e, "success", "Settings saved")
		return redirect(e, "/settings")
	}
}

// HandleSettingsLogo serves the normalised logo of the active branding.
func HandleSettingsLogo(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		b := GetBranding(e.Request)
		if !b.HasLogo() {
			return e.String(http.StatusNotFound, "No logo")
		}
		e.Response.Header().Set("Content-Type", "image/png")
		e.Response.Header().Set("Cache-Control", "no-cache")
		_, err := e.Response.Write(b.Logo)
		return err
	}
}

// HandleSettingsBackground serves the background image of the active branding.
func HandleSettingsBackground(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		b := GetBranding(e.Request)
		if len(b.Background) == 0 {
			return e.String(http.StatusNotFound, "No background")
		}
		e.Response.Header().Set("Content-Type", b.BackgroundMime)
		e.Response.Header().Set("Cache-Control", "no-cache")
		_, err := e.Response.Write(b.Background)
		return err
	}
}
