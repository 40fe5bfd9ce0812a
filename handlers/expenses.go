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

func buildExpensesData(app *pocketbase.PocketBase, e *core.RequestEvent, monthParam string) (templates.ExpensesData, error) {
	now := time.Now()
	month := services.MonthOrCurrent(monthParam, now)
	list, err := services.ListExpenses(app, scopeOf(e.Request), month)
	if err != nil {
		return templates.ExpensesData{}, err
	}
	materials, err := services.ListMaterials(app)
	if err != nil {
		return templates.ExpensesData{}, err
	}
	prev, next := monthNav(month)
	return templates.ExpensesData{
		List:       list,
		Materials:  materials,
		Categories: services.ExpenseCategoryOptions,
		PrevMonth:  prev,
		NextMonth:  next,
		Today:      now.Format("2006-01-02"),
		Errors:     map[string]string{},
	}, nil
}

// HandleExpenses lists one month of expenses. ?month=YYYY-MM.
func HandleExpenses(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildExpensesData(app, e, e.Request.URL.Query().Get("month"))
		if err != nil {
			log.Printf("expenses: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load expenses.")
		}
		return respond(e, "Expenses", data, templates.ExpensesContent(data))
	}
}

// HandleExpenseAdd stores an expense with an optional bill_photo. A failed
// photo upload answers 409 unless proceed_without_photo=true.
func HandleExpenseAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		photo, err := uploadedFile(e, "bill_photo")
		if err != nil {
			log.Printf("expense_add: read upload: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Could not read the uploaded photo.")
		}
		in := services.ExpenseInput{
			Date:        formString(e, "date"),
			Category:    formString(e, "category"),
			MaterialID:  formString(e, "material"),
			Quantity:    formFloat(e, "quantity"),
			Rate:        formFloat(e, "rate"),
			Amount:      formFloat(e, "amount"),
			Description: formString(e, "description"),
		}
		scope := scopeOf(e.Request)

		_, err = services.AddExpense(app, scope, in, photo)
		if services.IsPhotoError(err) && formBool(e, "proceed_without_photo") {
			log.Printf("expense_add: saving without photo: %v", err)
			_, err = services.AddExpense(app, scope, in, nil)
		}
		if err != nil {
			if services.IsPhotoError(err) {
				log.Printf("expense_add: %v", err)
				return ErrorToast(e, http.StatusConflict, "The bill photo could not be saved. Tick \"save without the photo\" and submit again.")
			}
			if errs, ok := validationErrors(err); ok && !wantsJSON(e.Request) {
				data, lerr := buildExpensesData(app, e, monthOf(in.Date))
				if lerr != nil {
					return fail(e, "expense_add", lerr)
				}
				data.Errors = errs
				SetToast(e, "warning", "Please fix the errors below")
				return respond(e, "Expenses", data, templates.ExpensesContent(data))
			}
			return fail(e, "expense_add", err)
		}

		SetToast(e, "success", "Expense added")
		return redirect(e, "/expenses?month="+monthOf(in.Date))
	}
}

// monthOf returns the YYYY-MM prefix of a date, or "" if it has none.
func monthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

func HandleExpenseDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		rec, err := services.DeleteExpense(app, scopeOf(e.Request), id)
		if err != nil {
			log.Printf("expense_delete: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Expense not found")
		}
		SetToast(e, "success", "Expense deleted")
		return redirect(e, "/expenses?month="+monthOf(rec.GetString("date")))
	}
}

func renderMaterials(app *pocketbase.PocketBase, e *core.RequestEvent, errs map[string]string) error {
	materials, err := services.ListMaterials(app)
	if err != nil {
		log.Printf("materials: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Could not load materials.")
	}
	return respond(e, "Materials", materials, templates.MaterialsContent(materials, errs))
}

func HandleMaterials(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderMaterials(app, e, nil)
	}
}

func HandleMaterialAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		_, err := services.AddMaterial(app, formString(e, "name"), formFloat(e, "default_rate"))
		if errs, ok := validationErrors(err); ok && !wantsJSON(e.Request) {
			SetToast(e, "warning", "Please fix the errors below")
			return renderMaterials(app, e, errs)
		}
		if err != nil {
			return fail(e, "material_add", err)
		}
		SetToast(e, "success", "Material added")
		return redirect(e, "/materials")
	}
}
