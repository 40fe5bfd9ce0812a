package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

const (
	DefaultBrandName    = "SiteBook"
	DefaultBrandTagline = "Construction Management"
)

// MigrateDefaultProjectSettings makes sure the global project_settings row
// (the one with no project) exists. Safe to call on every startup.
func MigrateDefaultProjectSettings(app *pocketbase.PocketBase) error {
	settingsCol, err := app.FindCollectionByNameOrId("project_settings")
	if err != nil {
		return fmt.Errorf("migrate_settings: could not find project_settings collection: %w", err)
	}

	existing, err := app.FindRecordsByFilter(settingsCol, "project = ''", "", 1, 0)
	if err != nil {
		return fmt.Errorf("migrate_settings: could not query settings: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	record := core.NewRecord(settingsCol)
	record.Set("brand_name", DefaultBrandName)
	record.Set("background_type", "none")
	if err := app.Save(record); err != nil {
		log.Printf("migrate_settings: failed to create global settings: %v\n", err)
		return fmt.Errorf("migrate_settings: %w", err)
	}

	log.Println("migrate_settings: created global settings row.")
	return nil
}
