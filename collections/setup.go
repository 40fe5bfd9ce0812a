package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

const (
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
	colorPattern = `^#[0-9a-f]{3,8}$`
)

var imageMimeTypes = []string{"image/png", "image/jpeg", "image/webp"}

// Prepare creates the schema, binds the record hooks and seeds an empty
// database. Seeded rows rely on the hooks for their derived columns, so every
// entry point that seeds goes through here.
func Prepare(app *pocketbase.PocketBase) error {
	Setup(app)
	RegisterHooks(app)
	return Seed(app)
}

// Setup programmatically creates/ensures every sitebook collection exists.
// Collections that already exist are left untouched.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.TextField{Name: "site_address"})
		c.Fields.Add(&core.TextField{Name: "gst_number"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "start_date", Pattern: datePattern})
		c.Fields.Add(&core.TextField{Name: "architect_name"})
		c.Fields.Add(&core.TextField{Name: "engineer_name"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"active", "completed", "on_hold"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "construction_types"})
		c.Fields.Add(&core.JSONField{Name: "project_team"})
		addTimestamps(c)
	})

	ensureCollection(app, "project_settings", func(c *core.Collection) {
		c.Fields.Add(optionalProject(projects))
		c.Fields.Add(&core.TextField{Name: "brand_name"})
		c.Fields.Add(&core.TextField{Name: "site_address"})
		c.Fields.Add(&core.FileField{
			Name:      "logo",
			MaxSelect: 1,
			MaxSize:   5 << 20,
			MimeTypes: imageMimeTypes,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "background_type",
			Values:    []string{"none", "color", "image"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "background_color", Pattern: colorPattern})
		c.Fields.Add(&core.FileField{
			Name:      "background",
			MaxSelect: 1,
			MaxSize:   10 << 20,
			MimeTypes: imageMimeTypes,
		})
		addTimestamps(c)
	})

	workers := ensureCollection(app, "workers", func(c *core.Collection) {
		c.Fields.Add(optionalProject(projects))
		c.Fields.Add(&core.TextField{Name: "full_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "phone_number"})
		c.Fields.Add(&core.SelectField{
			Name:      "skill_type",
			Values:    SkillTypes,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "daily_wage"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"active", "inactive"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.TextField{Name: "aadhaar_number"})
		c.Fields.Add(&core.TextField{Name: "alternate_phone"})
		c.Fields.Add(&core.TextField{Name: "gender"})
		c.Fields.Add(&core.NumberField{Name: "age", OnlyInt: true})
		c.Fields.Add(&core.FileField{
			Name:      "id_document",
			MaxSelect: 1,
			MaxSize:   5 << 20,
			MimeTypes: append([]string{"application/pdf"}, imageMimeTypes...),
		})
		addTimestamps(c)
	})

	ensureCollection(app, "attendance", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "worker",
			Required:      true,
			CollectionId:  workers.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(optionalProject(projects))
		c.Fields.Add(&core.TextField{Name: "date", Required: true, Pattern: datePattern})
		c.Fields.Add(&core.NumberField{Name: "hajri_count"})
		c.Fields.Add(&core.NumberField{Name: "kharchi_amount"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"Present", "Absent"},
			MaxSelect: 1,
		})
		addTimestamps(c)
		c.AddIndex("idx_attendance_worker_date", true, "`worker`, `date`", "")
	})

	materials := ensureCollection(app, "material_types", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "default_rate"})
		addTimestamps(c)
		c.AddIndex("idx_material_types_name", true, "`name`", "")
	})

	ensureCollection(app, "expenses", func(c *core.Collection) {
		c.Fields.Add(optionalProject(projects))
		c.Fields.Add(&core.RelationField{
			Name:         "material",
			CollectionId: materials.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    ExpenseCategories,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "rate"})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.TextField{Name: "date", Required: true, Pattern: datePattern})
		c.Fields.Add(&core.FileField{
			Name:      "bill_photo",
			MaxSelect: 1,
			MaxSize:   5 << 20,
			MimeTypes: imageMimeTypes,
		})
		addTimestamps(c)
	})

	estimates := ensureCollection(app, "estimates", func(c *core.Collection) {
		c.Fields.Add(optionalProject(projects))
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		addTimestamps(c)
		// at most one active estimate
		c.AddIndex("idx_estimates_single_active", true, "`is_active`", "`is_active` = 1")
	})

	ensureCollection(app, "estimate_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "estimate",
			Required:      true,
			CollectionId:  estimates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "rate"})
		c.Fields.Add(&core.NumberField{Name: "amount"})
		c.Fields.Add(&core.TextField{Name: "category"})
		c.Fields.Add(&core.JSONField{Name: "extra_data"})
		addTimestamps(c)
	})

	ensureCollection(app, "client_ledger", func(c *core.Collection) {
		c.Fields.Add(optionalProject(projects))
		c.Fields.Add(&core.TextField{Name: "date", Required: true, Pattern: datePattern})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.NumberField{Name: "bill_amount"})
		c.Fields.Add(&core.NumberField{Name: "payment_received"})
		c.Fields.Add(&core.NumberField{Name: "seq", OnlyInt: true})
		addTimestamps(c)
	})

	ensureCollection(app, "payments", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "worker",
			Required:      true,
			CollectionId:  workers.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(optionalProject(projects))
		c.Fields.Add(&core.NumberField{Name: "amount", Required: true})
		c.Fields.Add(&core.TextField{Name: "payment_date", Required: true, Pattern: datePattern})
		c.Fields.Add(&core.SelectField{
			Name:      "payment_type",
			Required:  true,
			Values:    PaymentTypes,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "method"})
		c.Fields.Add(&core.TextField{Name: "note"})
		addTimestamps(c)
	})
}

// SkillTypes are the trades a worker can be registered under.
var SkillTypes = []string{"Mason", "Laborer", "Carpenter", "Electrician", "Plumber", "Supervisor", "Other"}

var ExpenseCategories = []string{"Material", "Transport", "Food", "Other"}

var PaymentTypes = []string{"salary_payment", "cash_advance", "bonus"}

func optionalProject(projects *core.Collection) *core.RelationField {
	return &core.RelationField{
		Name:         "project",
		CollectionId: projects.Id,
		MaxSelect:    1,
	}
}

func addTimestamps(c *core.Collection) {
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields and
// indexes, and the collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
