package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type workerDef struct {
	fullName  string
	phone     string
	skillType string
	dailyWage float64
	gender    string
	age       int
	// hajri for the last len(hajri) days, oldest first
	hajri   []float64
	kharchi map[int]float64
}

type materialDef struct {
	name        string
	defaultRate float64
}

type expenseDef struct {
	material    string
	category    string
	quantity    float64
	rate        float64
	amount      float64
	description string
	daysAgo     int
}

type itemDef struct {
	description string
	unit        string
	quantity    float64
	rate        float64
	category    string
}

type estimateDef struct {
	name   string
	active bool
	items  []itemDef
}

type ledgerDef struct {
	daysAgo     int
	description string
	bill        float64
	payment     float64
}

type paymentDef struct {
	worker      int
	amount      float64
	daysAgo     int
	paymentType string
	method      string
	note        string
}

var seedWorkers = []workerDef{
	{
		fullName: "Ramesh Yadav", phone: "9876543210", skillType: "Mason", dailyWage: 900,
		gender: "Male", age: 38,
		hajri:   []float64{1, 1, 1.5, 1, 0, 1, 1.25},
		kharchi: map[int]float64{2: 200, 6: 150},
	},
	{
		fullName: "Suresh Kumar", phone: "9812345678", skillType: "Laborer", dailyWage: 550,
		gender: "Male", age: 27,
		hajri:   []float64{1, 0.5, 1, 1, 1, 0, 1},
		kharchi: map[int]float64{0: 100},
	},
	{
		fullName: "Lakshmi Devi", phone: "9900112233", skillType: "Laborer", dailyWage: 500,
		gender: "Female", age: 31,
		hajri: []float64{1, 1, 1, 0.75, 1, 1, 1},
	},
	{
		fullName: "Abdul Rahman", phone: "9988776655", skillType: "Carpenter", dailyWage: 1000,
		gender: "Male", age: 45,
		hajri:   []float64{0, 1, 1, 1, 1.5, 1, 0},
		kharchi: map[int]float64{4: 300},
	},
	{
		fullName: "Manoj Patil", phone: "9822001100", skillType: "Supervisor", dailyWage: 1200,
		gender: "Male", age: 42,
		hajri: []float64{1, 1, 1, 1, 1, 1, 1},
	},
}

var seedMaterials = []materialDef{
	{"Cement OPC 53 (bag)", 380},
	{"River Sand (brass)", 4500},
	{"TMT Steel Fe500 (kg)", 62},
	{"Red Bricks (nos)", 8},
	{"20mm Aggregate (brass)", 3800},
}

var seedExpenses = []expenseDef{
	{material: "Cement OPC 53 (bag)", category: "Material", quantity: 100, rate: 380, amount: 38000, description: "Cement for slab casting", daysAgo: 6},
	{material: "TMT Steel Fe500 (kg)", category: "Material", quantity: 1200, rate: 62, amount: 74400, description: "Column and beam steel", daysAgo: 5},
	{category: "Transport", amount: 3500, description: "Tractor hire for sand", daysAgo: 4},
	{category: "Food", amount: 1200, description: "Tea and snacks for slab day", daysAgo: 3},
	{material: "Red Bricks (nos)", category: "Material", quantity: 5000, rate: 8, amount: 40000, description: "Bricks for ground floor walls", daysAgo: 1},
}

var seedEstimates = []estimateDef{
	{
		name:   "Ground Floor Structure",
		active: true,
		items: []itemDef{
			{"Excavation in ordinary soil", "cum", 85, 220, "Earthwork"},
			{"PCC 1:4:8 below footings", "cum", 12, 5200, "Concrete"},
			{"RCC M20 footings and columns", "cum", 28, 7800, "Concrete"},
			{"Reinforcement steel Fe500", "kg", 3200, 68, "Steel"},
			{"Brick masonry in CM 1:6", "cum", 46, 5600, "Masonry"},
			{"Internal plaster 12mm", "sqm", 420, 280, "Finishing"},
		},
	},
	{
		name: "Compound Wall",
		items: []itemDef{
			{"Brick masonry 230mm", "cum", 18, 5600, "Masonry"},
			{"Coping and plaster", "rmt", 60, 450, ""},
		},
	},
}

var seedLedger = []ledgerDef{
	{daysAgo: 30, description: "Running Bill No. 1 - foundation", bill: 250000},
	{daysAgo: 20, description: "Payment received - NEFT", payment: 150000},
	{daysAgo: 5, description: "Running Bill No. 2 - plinth", bill: 125000},
}

var seedPayments = []paymentDef{
	{worker: 0, amount: 5000, daysAgo: 7, paymentType: "salary_payment", method: "Cash", note: "Weekly settlement"},
	{worker: 3, amount: 1500, daysAgo: 2, paymentType: "cash_advance", method: "UPI", note: "Medical advance"},
}

// Seed populates the collections with a demo site: workers with a week of
// attendance, materials, expenses, two estimates, ledger rows and payments.
// It is safe to call on every startup because it returns early if any
// project records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if projects already exist ──────────────────
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	today := time.Now()
	day := func(daysAgo int) string {
		return today.AddDate(0, 0, -daysAgo).Format("2006-01-02")
	}

	return app.RunInTransaction(func(txApp core.App) error {
		project := core.NewRecord(projectsCol)
		project.Set("name", "Sharma Residence G+2")
		project.Set("client_name", "Rajesh Sharma")
		project.Set("site_address", "Plot 14, Shanti Nagar, Nagpur")
		project.Set("phone", "9823012345")
		project.Set("start_date", day(45))
		project.Set("architect_name", "Ar. Meera Kulkarni")
		project.Set("engineer_name", "Er. Vikas Deshmukh")
		project.Set("status", "active")
		project.Set("construction_types", []string{"Civil", "Plumbing", "Electrical"})
		project.Set("project_team", []map[string]string{
			{"name": "Manoj Patil", "role": "Site Supervisor"},
			{"name": "Vikas Deshmukh", "role": "Structural Engineer"},
		})
		if err := txApp.Save(project); err != nil {
			return fmt.Errorf("seed: save project: %w", err)
		}

		// ── workers + attendance ─────────────────────────────────────
		workers := make([]*core.Record, 0, len(seedWorkers))
		for _, w := range seedWorkers {
			r := core.NewRecord(mustCollection(txApp, "workers"))
			r.Set("project", project.Id)
			r.Set("full_name", w.fullName)
			r.Set("phone_number", w.phone)
			r.Set("skill_type", w.skillType)
			r.Set("daily_wage", w.dailyWage)
			r.Set("status", "active")
			r.Set("gender", w.gender)
			r.Set("age", w.age)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save worker %q: %w", w.fullName, err)
			}
			workers = append(workers, r)

			for i, q := range w.hajri {
				a := core.NewRecord(mustCollection(txApp, "attendance"))
				a.Set("worker", r.Id)
				a.Set("project", project.Id)
				a.Set("date", day(len(w.hajri)-1-i))
				a.Set("hajri_count", q)
				a.Set("kharchi_amount", w.kharchi[i])
				if err := txApp.Save(a); err != nil {
					return fmt.Errorf("seed: save attendance for %q: %w", w.fullName, err)
				}
			}
		}

		// ── materials + expenses ─────────────────────────────────────
		materials := make(map[string]string, len(seedMaterials))
		for _, m := range seedMaterials {
			r := core.NewRecord(mustCollection(txApp, "material_types"))
			r.Set("name", m.name)
			r.Set("default_rate", m.defaultRate)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save material %q: %w", m.name, err)
			}
			materials[m.name] = r.Id
		}

		for _, e := range seedExpenses {
			r := core.NewRecord(mustCollection(txApp, "expenses"))
			r.Set("project", project.Id)
			if e.material != "" {
				r.Set("material", materials[e.material])
			}
			r.Set("category", e.category)
			r.Set("quantity", e.quantity)
			r.Set("rate", e.rate)
			r.Set("amount", e.amount)
			r.Set("description", e.description)
			r.Set("date", day(e.daysAgo))
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save expense %q: %w", e.description, err)
			}
		}

		// ── estimates ────────────────────────────────────────────────
		for _, est := range seedEstimates {
			r := core.NewRecord(mustCollection(txApp, "estimates"))
			r.Set("project", project.Id)
			r.Set("name", est.name)
			r.Set("is_active", est.active)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save estimate %q: %w", est.name, err)
			}
			for i, item := range est.items {
				ir := core.NewRecord(mustCollection(txApp, "estimate_items"))
				ir.Set("estimate", r.Id)
				ir.Set("sort_order", i+1)
				ir.Set("description", item.description)
				ir.Set("unit", item.unit)
				ir.Set("quantity", item.quantity)
				ir.Set("rate", item.rate)
				ir.Set("category", item.category)
				if err := txApp.Save(ir); err != nil {
					return fmt.Errorf("seed: save estimate item %q: %w", item.description, err)
				}
			}
		}

		// ── client ledger ────────────────────────────────────────────
		for _, l := range seedLedger {
			r := core.NewRecord(mustCollection(txApp, "client_ledger"))
			r.Set("project", project.Id)
			r.Set("date", day(l.daysAgo))
			r.Set("description", l.description)
			r.Set("bill_amount", l.bill)
			r.Set("payment_received", l.payment)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save ledger entry %q: %w", l.description, err)
			}
		}

		// ── payments ─────────────────────────────────────────────────
		for _, p := range seedPayments {
			r := core.NewRecord(mustCollection(txApp, "payments"))
			r.Set("worker", workers[p.worker].Id)
			r.Set("project", project.Id)
			r.Set("amount", p.amount)
			r.Set("payment_date", day(p.daysAgo))
			r.Set("payment_type", p.paymentType)
			r.Set("method", p.method)
			r.Set("note", p.note)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save payment: %w", err)
			}
		}

		log.Printf("seed: created project %q with %d workers\n", project.GetString("name"), len(workers))
		return nil
	})
}

func mustCollection(app core.App, name string) *core.Collection {
	col, err := app.FindCollectionByNameOrId(name)
	if err != nil {
		panic(fmt.Sprintf("seed: collection %q missing: %v", name, err))
	}
	return col
}
