package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
	"sitebook/templates"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newFormRequest builds an HTMX form submission.
func newFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return req
}

// newMultipartRequest builds an HTMX multipart submission; files maps a
// field name to {filename, content}.
func newMultipartRequest(t *testing.T, path string, fields map[string]string, files map[string][2]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for field, f := range files {
		part, err := w.CreateFormFile(field, f[0])
		if err != nil {
			t.Fatalf("create file %s: %v", field, err)
		}
		if _, err := part.Write([]byte(f[1])); err != nil {
			t.Fatalf("write file %s: %v", field, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	return req
}

// withProject puts an active project in the request context.
func withProject(req *http.Request, id, name string) *http.Request {
	ctx := context.WithValue(req.Context(), ActiveProjectKey, &templates.ActiveProject{ID: id, Name: name})
	return req.WithContext(ctx)
}

// withBranding puts a resolved branding in the request context.
func withBranding(req *http.Request, b services.Branding) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), BrandingKey, b))
}

// newTestStore returns a loaded branding store.
func newTestStore(t *testing.T, app *pocketbase.PocketBase) *services.BrandingStore {
	t.Helper()
	store := services.NewBrandingStore(app)
	if err := store.Load(); err != nil {
		t.Fatalf("load branding: %v", err)
	}
	return store
}

// toastMessage returns the message of the showToast trigger, if any.
func toastMessage(rec *httptest.ResponseRecorder) string {
	var trigger struct {
		ShowToast struct {
			Message string `json:"message"`
		} `json:"showToast"`
	}
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trigger); err != nil {
		return ""
	}
	return trigger.ShowToast.Message
}
