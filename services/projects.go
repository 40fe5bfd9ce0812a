package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/calc"
)

// ConstructionTypeOptions are the scopes of work a project can cover.
var ConstructionTypeOptions = []string{
	"Civil",
	"Waterproofing",
	"Structural Repair",
	"Painting",
	"Tiling",
	"Plumbing",
	"Electrical",
	"Fabrication",
	"Interior",
}

// TeamMember is one person on a project team.
type TeamMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// ProjectDetails is the editable metadata of a project.
type ProjectDetails struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	ClientName        string       `json:"client_name"`
	SiteAddress       string       `json:"site_address"`
	Status            string       `json:"status"`
	GSTNumber         string       `json:"gst_number"`
	Phone             string       `json:"phone"`
	StartDate         string       `json:"start_date"`
	ArchitectName     string       `json:"architect_name"`
	EngineerName      string       `json:"engineer_name"`
	ConstructionTypes []string     `json:"construction_types"`
	Team              []TeamMember `json:"project_team"`
}

// HasType reports whether t is one of the selected construction types.
func (d ProjectDetails) HasType(t string) bool {
	return slices.Contains(d.ConstructionTypes, t)
}

// LoadProjectDetails reads a project with its JSON columns decoded.
func LoadProjectDetails(app core.App, id string) (*ProjectDetails, error) {
	rec, err := app.FindRecordById("projects", id)
	if err != nil {
		return nil, fmt.Errorf("project %s not found: %w", id, err)
	}
	d := &ProjectDetails{
		ID:            rec.Id,
		Name:          rec.GetString("name"),
		ClientName:    rec.GetString("client_name"),
		SiteAddress:   rec.GetString("site_address"),
		Status:        rec.GetString("status"),
		GSTNumber:     rec.GetString("gst_number"),
		Phone:         rec.GetString("phone"),
		StartDate:     rec.GetString("start_date"),
		ArchitectName: rec.GetString("architect_name"),
		EngineerName:  rec.GetString("engineer_name"),
	}
	// Older rows may hold null in either column.
	_ = rec.UnmarshalJSONField("construction_types", &d.ConstructionTypes)
	_ = rec.UnmarshalJSONField("project_team", &d.Team)
	return d, nil
}

func (d *ProjectDetails) normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	d.ClientName = strings.TrimSpace(d.ClientName)
	d.SiteAddress = strings.TrimSpace(d.SiteAddress)
	d.ArchitectName = strings.TrimSpace(d.ArchitectName)
	d.EngineerName = strings.TrimSpace(d.EngineerName)
	d.StartDate = strings.TrimSpace(d.StartDate)
	d.Phone = NormalizePhone(d.Phone)
	d.GSTNumber = NormalizeGSTIN(d.GSTNumber)

	switch {
	case d.Name == "":
		return &calc.ValidationError{Field: "name", Message: "Project name is required"}
	case !ValidatePhone(d.Phone):
		return &calc.ValidationError{Field: "phone", Message: "Enter a 10-digit mobile number."}
	case !ValidateGSTIN(d.GSTNumber):
		return &calc.ValidationError{Field: "gst_number", Message: "GST number must be a 15-character GSTIN."}
	}
	if d.StartDate != "" {
		if _, err := ParseDate(d.StartDate); err != nil {
			return &calc.ValidationError{Field: "start_date", Message: "Start date must be YYYY-MM-DD."}
		}
	}
	if !slices.Contains(ProjectStatusOptions, d.Status) {
		d.Status = "active"
	}

	// Keep the option order so the stored list does not depend on click order.
	types := make([]string, 0, len(d.ConstructionTypes))
	for _, t := range ConstructionTypeOptions {
		if slices.Contains(d.ConstructionTypes, t) {
			types = append(types, t)
		}
	}
	d.ConstructionTypes = types

	team := make([]TeamMember, 0, len(d.Team))
	for _, m := range d.Team {
		m.Name = strings.TrimSpace(m.Name)
		m.Role = strings.TrimSpace(m.Role)
		if m.Name == "" {
			continue
		}
		team = append(team, m)
	}
	d.Team = team
	return nil
}

// SaveProjectDetails validates d and overwrites the project it names. Team
// rows without a name are dropped.
func SaveProjectDetails(app core.App, d ProjectDetails) (*ProjectDetails, error) {
	if err := d.normalize(); err != nil {
		return nil, err
	}
	rec, err := app.FindRecordById("projects", d.ID)
	if err != nil {
		return nil, fmt.Errorf("project %s not found: %w", d.ID, err)
	}

	existing, _ := app.FindRecordsByFilter(
		"projects",
		"name = {:name} && id != {:id}",
		"", 1, 0,
		dbx.Params{"name": d.Name, "id": d.ID},
	)
	if len(existing) > 0 {
		return nil, &calc.ValidationError{Field: "name", Message: "A project with this name already exists"}
	}

	rec.Set("name", d.Name)
	rec.Set("client_name", d.ClientName)
	rec.Set("site_address", d.SiteAddress)
	rec.Set("status", d.Status)
	rec.Set("gst_number", d.GSTNumber)
	rec.Set("phone", d.Phone)
	rec.Set("start_date", d.StartDate)
	rec.Set("architect_name", d.ArchitectName)
	rec.Set("engineer_name", d.EngineerName)
	rec.Set("construction_types", d.ConstructionTypes)
	rec.Set("project_team", d.Team)
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	return &d, nil
}
