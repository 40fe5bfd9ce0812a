package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
)

// exportCreated is the date printed on generated documents.
func exportCreated() string {
	return time.Now().Format("02 Jan 2006")
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

// writeExport renders data as Excel, or as PDF when ?format=pdf, and sends it
// as a download named base plus the extension.
func writeExport(e *core.RequestEvent, component string, data services.ExportData, base string) error {
	var (
		body        []byte
		err         error
		ext         string
		contentType string
	)
	if e.Request.URL.Query().Get("format") == "pdf" {
		body, err = services.GeneratePDF(data)
		ext, contentType = "pdf", "application/pdf"
	} else {
		body, err = services.GenerateExcel(data)
		ext, contentType = "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		log.Printf("%s: failed to generate %s: %v", component, ext, err)
		return ErrorToast(e, http.StatusInternalServerError, "Failed to generate file")
	}
	return download(e, fmt.Sprintf("%s.%s", sanitizeFilename(base), ext), contentType, body)
}

func download(e *core.RequestEvent, filename, contentType string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(body)
	return err
}
