package services

import "sitebook/collections"

// UOMOptions are the units offered for estimate items and material expenses.
var UOMOptions = []string{
	"Nos",
	"Sqm",
	"Sqft",
	"Rmt",
	"Cum",
	"Cft",
	"Kg",
	"MT",
	"Quintal",
	"Lot",
	"Set",
	"Lumpsum",
	"Ltr",
	"Bag",
	"Brass",
	"Trip",
	"Day",
	"Month",
}

// SkillOptions are the trades shown in the worker form.
var SkillOptions = collections.SkillTypes

// ExpenseCategoryOptions are the categories shown in the expense form.
var ExpenseCategoryOptions = collections.ExpenseCategories

// PaymentMethodOptions are free-text suggestions for payments.method.
var PaymentMethodOptions = []string{"Cash", "UPI", "Bank Transfer", "Cheque"}

// PaymentTypeOption pairs a stored payment_type value with its label.
type PaymentTypeOption struct {
	Value string
	Label string
}

// PaymentTypeOptions lists every payment type with its display label.
var PaymentTypeOptions = []PaymentTypeOption{
	{"salary_payment", "Salary Payment"},
	{"cash_advance", "Cash Advance"},
	{"bonus", "Bonus"},
}

// PaymentTypeLabel returns the display label for a stored payment_type.
func PaymentTypeLabel(value string) string {
	for _, o := range PaymentTypeOptions {
		if o.Value == value {
			return o.Label
		}
	}
	return "Wage / Advance Payment"
}

// ProjectStatusOptions are the lifecycle states of a project.
var ProjectStatusOptions = []string{"active", "completed", "on_hold"}
