package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/services"
	"sitebook/templates"
)

func workerInputFromForm(e *core.RequestEvent) services.WorkerInput {
	return services.WorkerInput{
		FullName:       formString(e, "full_name"),
		Phone:          formString(e, "phone_number"),
		Skill:          formString(e, "skill_type"),
		DailyWage:      formFloat(e, "daily_wage"),
		Status:         formString(e, "status"),
		Address:        formString(e, "address"),
		Aadhaar:        formString(e, "aadhaar_number"),
		AlternatePhone: formString(e, "alternate_phone"),
		Gender:         formString(e, "gender"),
		Age:            formInt(e, "age"),
	}
}

func buildWorkerList(app *pocketbase.PocketBase, scope services.Scope) (templates.WorkerListData, error) {
	records, err := services.LoadWorkers(app, scope, false)
	if err != nil {
		return templates.WorkerListData{}, err
	}
	data := templates.WorkerListData{
		SkillOptions: services.SkillOptions,
		Form:         services.WorkerInput{Skill: "Laborer"},
		Errors:       map[string]string{},
	}
	for _, r := range records {
		data.Workers = append(data.Workers, templates.WorkerRow{
			ID:        r.Id,
			FullName:  r.GetString("full_name"),
			Phone:     r.GetString("phone_number"),
			Skill:     r.GetString("skill_type"),
			DailyWage: r.GetFloat("daily_wage"),
			Status:    r.GetString("status"),
			HasDoc:    r.GetString("id_document") != "",
		})
	}
	return data, nil
}

func HandleWorkerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildWorkerList(app, scopeOf(e.Request))
		if err != nil {
			log.Printf("worker_list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return respond(e, "Workers", data, templates.WorkerListContent(data))
	}
}

// HandleWorkerCreate registers a worker from a multipart form with an
// optional id_document. When only the document fails to store the handler
// answers 409; resubmitting with proceed_without_photo=true saves the worker
// without it.
func HandleWorkerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := uploadedFile(e, "id_document")
		if err != nil {
			log.Printf("worker_create: read upload: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Could not read the uploaded document.")
		}
		in := workerInputFromForm(e)
		scope := scopeOf(e.Request)

		_, err = services.CreateWorker(app, scope, in, doc)
		if services.IsPhotoError(err) && formBool(e, "proceed_without_photo") {
			log.Printf("worker_create: saving without document: %v", err)
			_, err = services.CreateWorker(app, scope, in, nil)
		}
		if err != nil {
			if services.IsPhotoError(err) {
				log.Printf("worker_create: %v", err)
				return ErrorToast(e, http.StatusConflict, "The ID document could not be saved. Tick \"save without the document\" and submit again.")
			}
			if errs, ok := validationErrors(err); ok && !wantsJSON(e.Request) {
				data, lerr := buildWorkerList(app, scope)
				if lerr != nil {
					return fail(e, "worker_create", lerr)
				}
				data.Form = in
				data.Errors = errs
				SetToast(e, "warning", "Please fix the errors below")
				return respond(e, "Workers", data, templates.WorkerListContent(data))
			}
			return fail(e, "worker_create", err)
		}

		SetToast(e, "success", "Worker registered")
		return redirect(e, "/workers")
	}
}

// HandleWorkerSave updates an existing worker.
func HandleWorkerSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		if _, err := services.UpdateWorker(app, id, workerInputFromForm(e)); err != nil {
			return fail(e, "worker_save", err)
		}
		SetToast(e, "success", "Worker updated")
		return redirect(e, "/workers/"+id)
	}
}

func HandleWorkerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := services.DeleteWorker(app, scopeOf(e.Request), id); err != nil {
			log.Printf("worker_delete: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Worker not found")
		}
		log.Printf("worker_delete: deleted worker %s", id)
		SetToast(e, "success", "Worker deleted")
		// the row is swapped out with an empty body
		return e.String(http.StatusOK, "")
	}
}

func loadWorkerCard(app *pocketbase.PocketBase, e *core.RequestEvent) (*services.WorkerCard, time.Time, error) {
	month := services.MonthOrCurrent(e.Request.URL.Query().Get("month"), time.Now())
	card, err := services.BuildWorkerCard(app, e.Request.PathValue("id"), month)
	return card, month, err
}

// HandleWorkerCard shows one worker's month of attendance. ?month=YYYY-MM.
func HandleWorkerCard(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		card, month, err := loadWorkerCard(app, e)
		if err != nil {
			log.Printf("worker_card: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Worker not found")
		}
		prev, next := monthNav(month)
		return respond(e, card.Wage.Name, card, templates.WorkerCardContent(card, prev, next))
	}
}

func HandleWorkerExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		card, _, err := loadWorkerCard(app, e)
		if err != nil {
			log.Printf("worker_export: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Worker not found")
		}
		data := services.WorkerMonthExport(card, exportCreated())
		return writeExport(e, "worker_export", data, card.Wage.Name+"_"+card.Month)
	}
}
