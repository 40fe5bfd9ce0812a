package services

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// Scope restricts queries to one project. The zero value sees every record.
type Scope struct {
	ProjectID string
}

// filter prepends the project condition to expr, which may be empty.
func (s Scope) filter(expr string, params dbx.Params) (string, dbx.Params) {
	if params == nil {
		params = dbx.Params{}
	}
	if s.ProjectID == "" {
		if expr == "" {
			return "id != ''", params
		}
		return expr, params
	}
	params["scopeProject"] = s.ProjectID
	if expr == "" {
		return "project = {:scopeProject}", params
	}
	return fmt.Sprintf("project = {:scopeProject} && (%s)", expr), params
}

// findOne loads a record by id, failing when it belongs to another project.
func (s Scope) findOne(app core.App, collection, id string) (*core.Record, error) {
	filter, p := s.filter("id = {:id}", dbx.Params{"id": id})
	rec, err := app.FindFirstRecordByFilter(collection, filter, p)
	if err != nil {
		return nil, fmt.Errorf("%s %s not found: %w", collection, id, err)
	}
	return rec, nil
}

// find runs a scoped filter query with no limit.
func (s Scope) find(app core.App, collection, expr, sort string, params dbx.Params) ([]*core.Record, error) {
	filter, p := s.filter(expr, params)
	records, err := app.FindRecordsByFilter(collection, filter, sort, 0, 0, p)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return records, nil
}
