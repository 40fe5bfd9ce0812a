package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"sitebook/calc"
)

// PhotoError marks a save that failed because of an attached file. The
// caller may retry without the file.
type PhotoError struct {
	Err error
}

func (e *PhotoError) Error() string { return "photo upload failed: " + e.Err.Error() }
func (e *PhotoError) Unwrap() error { return e.Err }

// IsPhotoError reports whether err came from an attached file.
func IsPhotoError(err error) bool {
	var pe *PhotoError
	return errors.As(err, &pe)
}

// WorkerInput is the worker form.
type WorkerInput struct {
	FullName       string
	Phone          string
	Skill          string
	DailyWage      float64
	Status         string
	Address        string
	Aadhaar        string
	AlternatePhone string
	Gender         string
	Age            int
}

func (in *WorkerInput) normalize() error {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return &calc.ValidationError{Field: "full_name", Message: "Name is required."}
	}
	if in.DailyWage < 0 {
		return &calc.ValidationError{Field: "daily_wage", Message: "Daily wage cannot be negative."}
	}
	if in.Age < 0 {
		return &calc.ValidationError{Field: "age", Message: "Age cannot be negative."}
	}
	if err := in.normalizeContact(); err != nil {
		return err
	}
	if !slices.Contains(SkillOptions, in.Skill) {
		in.Skill = "Laborer"
	}
	if in.Status != "inactive" {
		in.Status = "active"
	}
	return nil
}

func (in WorkerInput) apply(rec *core.Record) {
	rec.Set("full_name", in.FullName)
	rec.Set("phone_number", strings.TrimSpace(in.Phone))
	rec.Set("skill_type", in.Skill)
	rec.Set("daily_wage", calc.Float(calc.Money(in.DailyWage)))
	rec.Set("status", in.Status)
	rec.Set("address", strings.TrimSpace(in.Address))
	rec.Set("aadhaar_number", strings.TrimSpace(in.Aadhaar))
	rec.Set("alternate_phone", strings.TrimSpace(in.AlternatePhone))
	rec.Set("gender", strings.TrimSpace(in.Gender))
	rec.Set("age", in.Age)
}

// CreateWorker registers a worker in scope. A non-nil doc is stored as the
// id_document file; if storing it fails a PhotoError is returned and nothing
// is saved.
func CreateWorker(app core.App, scope Scope, in WorkerInput, doc *filesystem.File) (*core.Record, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	col, err := app.FindCollectionByNameOrId("workers")
	if err != nil {
		return nil, fmt.Errorf("workers collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("project", scope.ProjectID)
	in.apply(rec)
	if doc != nil {
		rec.Set("id_document", doc)
	}
	if err := app.Save(rec); err != nil {
		if doc != nil {
			return nil, &PhotoError{Err: err}
		}
		return nil, fmt.Errorf("save worker: %w", err)
	}
	return rec, nil
}

// UpdateWorker overwrites the editable fields of a worker. A wage change
// reprices that worker's whole history.
func UpdateWorker(app core.App, id string, in WorkerInput) (*core.Record, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	rec, err := app.FindRecordById("workers", id)
	if err != nil {
		return nil, fmt.Errorf("worker %s not found: %w", id, err)
	}
	in.apply(rec)
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save worker: %w", err)
	}
	return rec, nil
}

// DeleteWorker removes a worker; attendance and payments cascade.
func DeleteWorker(app core.App, scope Scope, id string) error {
	rec, err := scope.findOne(app, "workers", id)
	if err != nil {
		return err
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	return nil
}

// MatchWorker finds the first worker whose name contains name or is
// contained in it, ignoring case. workers is searched in order.
func MatchWorker(workers []calc.WorkerWage, name string) (calc.WorkerWage, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return calc.WorkerWage{}, false
	}
	for _, w := range workers {
		hay := strings.ToLower(w.Name)
		if hay == "" {
			continue
		}
		if strings.Contains(hay, needle) || strings.Contains(needle, hay) {
			return w, true
		}
	}
	return calc.WorkerWage{}, false
}
