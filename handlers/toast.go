package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"

	"sitebook/calc"
)

type toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast sets the HX-Trigger response header to show a toast notification
// on the client via HTMX. An existing HX-Trigger JSON object is kept and the
// showToast key added to it.
// It also sets a flash cookie so toasts survive regular (non-HTMX) redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	t := toast{Message: message, Type: toastType}

	trigger := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			trigger = map[string]any{}
		}
	}
	trigger["showToast"] = t

	data, err := json.Marshal(trigger)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	// HX-Trigger is lost on a 302, the cookie is read by the next page
	cookieVal, err := json.Marshal(t)
	if err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // JS needs to read it
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// validationErrors turns a ValidationError into a field map for re-rendering
// a form. ok is false for any other error.
func validationErrors(err error) (map[string]string, bool) {
	var ve *calc.ValidationError
	if errors.As(err, &ve) {
		return map[string]string{ve.Field: ve.Message}, true
	}
	return nil, false
}

// fail reports a service error. Validation problems are shown as they are
// with 400; anything else is logged and answered with a generic 500.
func fail(e *core.RequestEvent, component string, err error) error {
	var ve *calc.ValidationError
	if errors.As(err, &ve) {
		if wantsJSON(e.Request) {
			return e.JSON(http.StatusBadRequest, map[string]string{"field": ve.Field, "error": ve.Message})
		}
		return ErrorToast(e, http.StatusBadRequest, ve.Message)
	}
	log.Printf("%s: %v", component, err)
	if wantsJSON(e.Request) {
		return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Something went wrong. Please try again."})
	}
	return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
