// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sitebook/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app, runs collections.Setup to create all tables and
// binds the record hooks. The temporary directory is cleaned up
// automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)
	collections.RegisterHooks(app)

	return app
}

func save(t *testing.T, app *pocketbase.PocketBase, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}

	return record
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()
	return save(t, app, "projects", map[string]any{
		"name":   name,
		"status": "active",
	})
}

// CreateTestWorker creates an active worker with the given daily wage.
func CreateTestWorker(t *testing.T, app *pocketbase.PocketBase, name string, wage float64) *core.Record {
	t.Helper()
	return save(t, app, "workers", map[string]any{
		"full_name":    name,
		"skill_type":   "Laborer",
		"daily_wage":   wage,
		"status":       "active",
		"phone_number": "9876543210",
	})
}

// CreateTestAttendance writes an attendance row directly, bypassing the upsert service.
func CreateTestAttendance(t *testing.T, app *pocketbase.PocketBase, workerID, date string, hajri, kharchi float64) *core.Record {
	t.Helper()
	return save(t, app, "attendance", map[string]any{
		"worker":         workerID,
		"date":           date,
		"hajri_count":    hajri,
		"kharchi_amount": kharchi,
	})
}

// CreateTestEstimate creates an estimate with the given active flag.
func CreateTestEstimate(t *testing.T, app *pocketbase.PocketBase, name string, active bool) *core.Record {
	t.Helper()
	return save(t, app, "estimates", map[string]any{
		"name":      name,
		"is_active": active,
	})
}

// CreateTestEstimateItem creates an estimate item; amount is derived by hook.
func CreateTestEstimateItem(t *testing.T, app *pocketbase.PocketBase, estimateID, description string, qty, rate float64) *core.Record {
	t.Helper()
	return save(t, app, "estimate_items", map[string]any{
		"estimate":    estimateID,
		"description": description,
		"unit":        "Nos",
		"quantity":    qty,
		"rate":        rate,
	})
}

// CreateTestLedgerEntry creates a client ledger row.
func CreateTestLedgerEntry(t *testing.T, app *pocketbase.PocketBase, date, description string, bill, payment float64) *core.Record {
	t.Helper()
	return save(t, app, "client_ledger", map[string]any{
		"date":             date,
		"description":      description,
		"bill_amount":      bill,
		"payment_received": payment,
	})
}

// CreateTestExpense creates an expense row.
func CreateTestExpense(t *testing.T, app *pocketbase.PocketBase, date, category string, amount float64) *core.Record {
	t.Helper()
	return save(t, app, "expenses", map[string]any{
		"date":        date,
		"category":    category,
		"amount":      amount,
		"description": category + " expense",
	})
}

// CreateTestPayment creates a worker payment row.
func CreateTestPayment(t *testing.T, app *pocketbase.PocketBase, workerID, date string, amount float64) *core.Record {
	t.Helper()
	return save(t, app, "payments", map[string]any{
		"worker":       workerID,
		"amount":       amount,
		"payment_date": date,
		"payment_type": "salary_payment",
		"method":       "Cash",
	})
}

// CreateTestMaterial creates a material type.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, name string, rate float64) *core.Record {
	t.Helper()
	return save(t, app, "material_types", map[string]any{
		"name":         name,
		"default_rate": rate,
	})
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
