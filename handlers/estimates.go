package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/calc"
	"sitebook/services"
	"sitebook/templates"
)

// previewRows is how many data rows the mapping step shows.
const previewRows = 5

func renderEstimates(app *pocketbase.PocketBase, e *core.RequestEvent) error {
	list, err := services.ListEstimates(app, scopeOf(e.Request))
	if err != nil {
		log.Printf("estimates: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Could not load estimates.")
	}
	return respond(e, "Estimates", list, templates.EstimatesContent(list))
}

func HandleEstimates(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderEstimates(app, e)
	}
}

// readUploadedTable parses the spreadsheet posted as "file".
func readUploadedTable(e *core.RequestEvent) (string, *services.Table, error) {
	name, data, err := uploadedBytes(e, "file")
	if err != nil {
		return "", nil, &calc.ValidationError{Field: "file", Message: "Could not read the uploaded file."}
	}
	if data == nil {
		return "", nil, &calc.ValidationError{Field: "file", Message: "Choose a CSV or Excel file."}
	}
	table, err := services.ReadTable(name, data)
	if err != nil {
		return "", nil, &calc.ValidationError{Field: "file", Message: err.Error()}
	}
	return name, table, nil
}

// HandleEstimatePreview reads an uploaded sheet and proposes a column
// mapping. Nothing is stored.
func HandleEstimatePreview(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		name, table, err := readUploadedTable(e)
		if err != nil {
			return fail(e, "estimate_preview", err)
		}

		mapping := services.SuggestColumnMapping(table.Headers)
		sample := table.Rows
		if len(sample) > previewRows {
			sample = sample[:previewRows]
		}
		p := templates.ImportPreview{
			FileName: name,
			Name:     services.EstimateNameFromFile(name),
			Headers:  table.Headers,
			Mapping:  mapping,
			Extras:   services.ExtraColumns(table.Headers, mapping),
			Sample:   sample,
			RowCount: len(table.Rows),
		}
		if wantsJSON(e.Request) {
			return e.JSON(http.StatusOK, p)
		}
		return templates.ImportPreviewContent(p).Render(e.Request.Context(), e.Response)
	}
}

// HandleEstimateImport stores the uploaded sheet as a new estimate using the
// confirmed mapping (map_<field>) and extra columns.
func HandleEstimateImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		fileName, table, err := readUploadedTable(e)
		if err != nil {
			return fail(e, "estimate_import", err)
		}

		mapping := services.ColumnMapping{}
		for _, field := range services.MappingFields {
			if h := formString(e, "map_"+field); h != "" {
				mapping[field] = h
			}
		}
		if mapping[services.FieldDescription] == "" {
			mapping = services.SuggestColumnMapping(table.Headers)
		}
		extras := e.Request.Form["extras"]

		name := formString(e, "name")
		if name == "" {
			name = services.EstimateNameFromFile(fileName)
		}

		items := services.BuildEstimateItems(table, mapping, extras)
		rec, err := services.ImportEstimate(app, scopeOf(e.Request), name, items)
		if err != nil {
			return fail(e, "estimate_import", err)
		}
		log.Printf("estimate_import: imported %q with %d items", name, len(items))

		if wantsJSON(e.Request) {
			return e.JSON(http.StatusCreated, map[string]any{"id": rec.Id, "item_count": len(items)})
		}
		SetToast(e, "success", "Estimate imported")
		return renderEstimates(app, e)
	}
}

func HandleEstimateActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.SetActiveEstimate(app, e.Request.PathValue("id")); err != nil {
			log.Printf("estimate_activate: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		SetToast(e, "success", "Estimate set as active")
		return renderEstimates(app, e)
	}
}

func HandleEstimateDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DeactivateEstimate(app, e.Request.PathValue("id")); err != nil {
			log.Printf("estimate_deactivate: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		SetToast(e, "success", "Estimate deactivated")
		return renderEstimates(app, e)
	}
}

func HandleEstimateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := services.DeleteEstimate(app, scopeOf(e.Request), id); err != nil {
			log.Printf("estimate_delete: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		log.Printf("estimate_delete: deleted estimate %s", id)
		SetToast(e, "success", "Estimate deleted")
		return renderEstimates(app, e)
	}
}

func HandleEstimateExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, err := services.LoadEstimateDetail(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("estimate_export: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		return writeExport(e, "estimate_export", services.EstimateExport(d, exportCreated()), "Estimate_"+d.Name)
	}
}
