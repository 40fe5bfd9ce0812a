package services

import (
	"errors"
	"slices"
	"testing"

	"sitebook/calc"
	"sitebook/testhelpers"
)

func TestSaveProjectDetails(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Tower A")

	_, err := SaveProjectDetails(app, ProjectDetails{
		ID:                proj.Id,
		Name:              " Tower A ",
		Status:            "on_hold",
		GSTNumber:         "27aapfu0939f1zv",
		Phone:             "+91 98230 12345",
		StartDate:         "2024-02-01",
		ArchitectName:     "Ar. Meera Kulkarni",
		EngineerName:      "Er. Vikas Deshmukh",
		ConstructionTypes: []string{"Plumbing", "Rocket Science", "Civil"},
		Team: []TeamMember{
			{Name: " Manoj Patil ", Role: "Site Supervisor"},
			{Name: "", Role: "Left blank"},
		},
	})
	if err != nil {
		t.Fatalf("SaveProjectDetails: %v", err)
	}

	got, err := LoadProjectDetails(app, proj.Id)
	if err != nil {
		t.Fatalf("LoadProjectDetails: %v", err)
	}
	if got.Status != "on_hold" || got.GSTNumber != "27AAPFU0939F1ZV" || got.Phone != "9823012345" {
		t.Errorf("status/gst/phone = %q/%q/%q", got.Status, got.GSTNumber, got.Phone)
	}
	if got.StartDate != "2024-02-01" || got.ArchitectName != "Ar. Meera Kulkarni" || got.EngineerName != "Er. Vikas Deshmukh" {
		t.Errorf("start/architect/engineer = %q/%q/%q", got.StartDate, got.ArchitectName, got.EngineerName)
	}
	if want := []string{"Civil", "Plumbing"}; !slices.Equal(got.ConstructionTypes, want) {
		t.Errorf("construction_types = %v, want %v", got.ConstructionTypes, want)
	}
	if len(got.Team) != 1 || got.Team[0] != (TeamMember{Name: "Manoj Patil", Role: "Site Supervisor"}) {
		t.Errorf("project_team = %+v", got.Team)
	}
}

func TestSaveProjectDetails_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Tower A")
	testhelpers.CreateTestProject(t, app, "Tower B")

	tests := []struct {
		name  string
		in    ProjectDetails
		field string
	}{
		{"blank name", ProjectDetails{Name: " "}, "name"},
		{"duplicate name", ProjectDetails{Name: "Tower B"}, "name"},
		{"bad phone", ProjectDetails{Name: "Tower A", Phone: "12345"}, "phone"},
		{"bad gst", ProjectDetails{Name: "Tower A", GSTNumber: "GST123"}, "gst_number"},
		{"bad start date", ProjectDetails{Name: "Tower A", StartDate: "01/02/2024"}, "start_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.ID = proj.Id
			_, err := SaveProjectDetails(app, tt.in)
			var ve *calc.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("err = %v, want validation error on %s", err, tt.field)
			}
		})
	}

	rec, _ := app.FindRecordById("projects", proj.Id)
	if rec.GetString("name") != "Tower A" {
		t.Errorf("failed saves changed the name to %q", rec.GetString("name"))
	}
}

func TestLoadProjectDetails_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if _, err := LoadProjectDetails(app, "missing"); err == nil {
		t.Error("expected error for missing project")
	}
}
